package export

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"organicare/internal/agenda"
	"organicare/internal/events"
	"organicare/internal/model"
)

// recordingWriter captures sheet structure without touching excelize.
type recordingWriter struct {
	sheets  []string
	headers map[string][]string
	fills   map[string][]string
	rows    map[string][][]interface{}
	current string
}

func newRecordingWriter() *recordingWriter {
	return &recordingWriter{
		headers: make(map[string][]string),
		fills:   make(map[string][]string),
		rows:    make(map[string][][]interface{}),
	}
}

func (r *recordingWriter) AddSheet(name string) error {
	r.sheets = append(r.sheets, name)
	r.current = name
	return nil
}

func (r *recordingWriter) WriteHeader(columns, fills []string) error {
	r.headers[r.current] = columns
	r.fills[r.current] = fills
	return nil
}

func (r *recordingWriter) WriteRow(row []interface{}) error {
	r.rows[r.current] = append(r.rows[r.current], row)
	return nil
}

func (r *recordingWriter) Save(io.Writer) error    { return nil }
func (r *recordingWriter) SaveToFile(string) error { return nil }

func exportClinic() *model.Clinic {
	return &model.Clinic{
		ID:     1,
		Prefix: "CM",
		Name:   "Californie Multilaser - Organicare",
		Config: model.ClinicConfig{
			OpenTime:         "10:00",
			CloseTime:        "12:00",
			WeekendOpenTime:  "10:00",
			WeekendCloseTime: "11:00",
			SaturdayOpen:     true,
			Cabins: []model.Cabin{
				{ID: 1, Code: "Con", Name: "Consultation", Color: "#FF6B6B", IsActive: true, Order: 1},
				{ID: 2, Code: "Sp", Name: "Sp", Color: "#909090", IsActive: true, Order: 2},
			},
		},
	}
}

func TestWriteWeek(t *testing.T) {
	clinic := exportClinic()
	logger := zerolog.Nop()
	b := agenda.NewBook(events.NewBus(), &logger)

	monday := time.Date(2025, 2, 24, 0, 0, 0, 0, time.UTC)
	apt, err := b.Create(agenda.CreateParams{
		Clinic:    clinic,
		CabinID:   1,
		Date:      monday,
		StartTime: "10:30",
		Client:    model.Client{Name: "Maria Garcia"},
		Services:  []model.Service{{ID: "svc-1", Name: "Masaje"}},
	})
	require.NoError(t, err)
	_, err = b.Complete(apt.ID, true)
	require.NoError(t, err)

	m := agenda.BuildWeekMatrix(clinic, b.ListClinic(clinic.ID), monday, monday)

	w := newRecordingWriter()
	require.NoError(t, WriteWeek(w, m))

	require.Len(t, w.sheets, 6, "monday through saturday")
	assert.Equal(t, "Monday 2025-02-24", w.sheets[0])
	assert.Equal(t, []string{"Time", "Consultation", "Sp"}, w.headers[w.sheets[0]])
	assert.Equal(t, []string{"", "#FF6B6B", "#909090"}, w.fills[w.sheets[0]], "cabin columns carry their calendar color")

	mondayRows := w.rows[w.sheets[0]]
	require.Len(t, mondayRows, 9, "10:00 through 12:00 inclusive")
	assert.Equal(t, "10:30", mondayRows[2][0])
	assert.Equal(t, "Maria Garcia (Masaje) [done]", mondayRows[2][1])
	assert.Equal(t, "", mondayRows[2][2], "the other cabin's cell is empty")
}

func TestGenerateFilename(t *testing.T) {
	monday := time.Date(2025, 2, 24, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "CM_2025-02-24.xlsx", GenerateFilename("CM", monday))
	assert.Equal(t, "agenda_2025-02-24.xlsx", GenerateFilename("", monday))
}

func TestExcelizeWriterProducesWorkbook(t *testing.T) {
	w := NewExcelizeWriter()
	defer w.Close()

	require.NoError(t, w.AddSheet("Monday 2025-02-24"))
	require.NoError(t, w.WriteHeader([]string{"Time", "Consultation"}, []string{"", "#FF6B6B"}))
	require.NoError(t, w.WriteRow([]interface{}{"10:00", "Maria Garcia"}))

	var buf bytes.Buffer
	require.NoError(t, w.Save(&buf))
	assert.NotZero(t, buf.Len())
}

func TestExcelizeWriterRequiresSheet(t *testing.T) {
	w := NewExcelizeWriter()
	defer w.Close()
	assert.Error(t, w.WriteHeader([]string{"Time"}, nil))
	assert.Error(t, w.WriteRow([]interface{}{"10:00"}))
}
