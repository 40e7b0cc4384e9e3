// Package export renders an agenda week into an Excel workbook: one
// sheet per day, cabins as columns, the 15-minute slots as rows.
package export

import (
	"fmt"
	"strings"
	"time"

	"organicare/internal/agenda"
)

// GenerateFilename creates a workbook name like "CM_2025-02-24.xlsx"
// from the clinic prefix and the Monday of the exported week.
func GenerateFilename(prefix string, weekStart time.Time) string {
	if prefix == "" {
		prefix = "agenda"
	}
	return fmt.Sprintf("%s_%s.xlsx", prefix, weekStart.Format("2006-01-02"))
}

// WriteWeek renders a composed week matrix into the writer. Each day
// column of the matrix becomes a sheet with the column's own slot rows.
func WriteWeek(w SheetWriter, m agenda.Matrix) error {
	for _, day := range m.Days {
		name := fmt.Sprintf("%s %s", day.Day.Weekday, day.Day.Date)
		if err := w.AddSheet(name); err != nil {
			return err
		}

		header := make([]string, 0, len(day.Cabins)+1)
		fills := make([]string, 0, len(day.Cabins)+1)
		header = append(header, "Time")
		fills = append(fills, "")
		for _, col := range day.Cabins {
			header = append(header, col.Cabin.Name)
			fills = append(fills, col.Cabin.Color)
		}
		if err := w.WriteHeader(header, fills); err != nil {
			return err
		}

		for rowIdx, slot := range daySlots(day) {
			row := make([]interface{}, 0, len(day.Cabins)+1)
			row = append(row, slot)
			for _, col := range day.Cabins {
				row = append(row, cellText(col.Cells[rowIdx]))
			}
			if err := w.WriteRow(row); err != nil {
				return err
			}
		}
	}
	return nil
}

// daySlots returns the slot labels of a day column. All cabin strips of
// a day share the same rows, so the first strip is authoritative; a day
// without active cabins has no rows to export.
func daySlots(day agenda.DayColumn) []string {
	if len(day.Cabins) == 0 {
		return nil
	}
	slots := make([]string, 0, len(day.Cabins[0].Cells))
	for _, cell := range day.Cabins[0].Cells {
		slots = append(slots, cell.Time)
	}
	return slots
}

func cellText(cell agenda.Cell) string {
	if len(cell.Appointments) == 0 {
		return ""
	}
	parts := make([]string, 0, len(cell.Appointments))
	for _, apt := range cell.Appointments {
		text := apt.ClientName
		if apt.Service != "" {
			text = fmt.Sprintf("%s (%s)", text, apt.Service)
		}
		if apt.Completed {
			text += " [done]"
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "; ")
}
