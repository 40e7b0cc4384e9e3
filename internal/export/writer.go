package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Excel caps sheet names at 31 characters.
const maxSheetNameLen = 31

// SheetWriter writes an agenda grid to a workbook, one day sheet at a
// time.
type SheetWriter interface {
	// AddSheet starts a new day sheet.
	AddSheet(name string) error

	// WriteHeader writes the column headers. fills carries one hex color
	// per column; cabin columns are tinted with the cabin's calendar
	// color, an empty entry leaves the column untinted.
	WriteHeader(columns, fills []string) error

	// WriteRow appends a slot row to the current sheet.
	WriteRow(row []interface{}) error

	// Save writes the workbook to the writer.
	Save(w io.Writer) error

	// SaveToFile writes the workbook to disk.
	SaveToFile(path string) error
}

// ExcelizeWriter implements SheetWriter using the excelize library.
type ExcelizeWriter struct {
	file         *excelize.File
	currentSheet string
	currentRow   int
}

// NewExcelizeWriter creates a new workbook writer.
func NewExcelizeWriter() *ExcelizeWriter {
	return &ExcelizeWriter{
		file: excelize.NewFile(),
	}
}

// AddSheet starts a day sheet: a narrow time column and a frozen header
// row, so long days stay readable while scrolling.
func (w *ExcelizeWriter) AddSheet(name string) error {
	if len(name) > maxSheetNameLen {
		name = name[:maxSheetNameLen]
	}

	if w.currentSheet == "" {
		// Rename the default sheet instead of leaving it empty.
		w.file.SetSheetName("Sheet1", name)
	} else if _, err := w.file.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}

	w.currentSheet = name
	w.currentRow = 1

	if err := w.file.SetColWidth(name, "A", "A", 8); err != nil {
		return err
	}
	return w.file.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// WriteHeader writes bold column headers, tinting each column with its
// cabin color.
func (w *ExcelizeWriter) WriteHeader(columns, fills []string) error {
	if w.currentSheet == "" {
		return fmt.Errorf("no active sheet")
	}

	start, err := excelize.CoordinatesToCellName(1, w.currentRow)
	if err != nil {
		return err
	}
	hdr := make([]interface{}, len(columns))
	for i, col := range columns {
		hdr[i] = col
	}
	if err := w.file.SetSheetRow(w.currentSheet, start, &hdr); err != nil {
		return err
	}

	bold, err := w.file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return err
	}
	end, _ := excelize.CoordinatesToCellName(len(columns), w.currentRow)
	if err := w.file.SetCellStyle(w.currentSheet, start, end, bold); err != nil {
		return err
	}

	for i, fill := range fills {
		if i >= len(columns) || fill == "" {
			continue
		}
		tinted, err := w.file.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true},
			Fill: excelize.Fill{
				Type:    "pattern",
				Pattern: 1,
				Color:   []string{strings.TrimPrefix(fill, "#")},
			},
		})
		if err != nil {
			return err
		}
		cell, err := excelize.CoordinatesToCellName(i+1, w.currentRow)
		if err != nil {
			return err
		}
		if err := w.file.SetCellStyle(w.currentSheet, cell, cell, tinted); err != nil {
			return err
		}
	}

	w.currentRow++
	return nil
}

// WriteRow appends a slot row to the current sheet.
func (w *ExcelizeWriter) WriteRow(row []interface{}) error {
	if w.currentSheet == "" {
		return fmt.Errorf("no active sheet")
	}

	cell, err := excelize.CoordinatesToCellName(1, w.currentRow)
	if err != nil {
		return err
	}
	if err := w.file.SetSheetRow(w.currentSheet, cell, &row); err != nil {
		return err
	}

	w.currentRow++
	return nil
}

// Save writes the workbook to the writer.
func (w *ExcelizeWriter) Save(wr io.Writer) error {
	return w.file.Write(wr)
}

// SaveToFile writes the workbook to disk.
func (w *ExcelizeWriter) SaveToFile(path string) error {
	return w.file.SaveAs(path)
}

// Close releases resources.
func (w *ExcelizeWriter) Close() error {
	return w.file.Close()
}
