package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemplates(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "templates.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const validTemplates = `
templates:
  - id: standard
    name: Standard week
    description: Weekdays with a lunch break
    schedule:
      monday:
        open: true
        ranges:
          - {start: "09:00", end: "13:00"}
          - {start: "14:00", end: "19:00"}
      tuesday:
        open: true
        ranges:
          - {start: "09:00", end: "19:00"}
      sunday:
        open: false
  - id: weekend-heavy
    name: Weekend heavy
    schedule:
      saturday:
        open: true
        ranges:
          - {start: "10:00", end: "20:00"}
`

func TestLoadTemplates(t *testing.T) {
	c, err := Load(writeTemplates(t, validTemplates))
	require.NoError(t, err)
	require.Len(t, c.All(), 2)

	standard := c.ByID("standard")
	require.NotNil(t, standard)
	assert.Equal(t, "Standard week", standard.Name)
	assert.Len(t, standard.Schedule.Monday.Ranges, 2)
	assert.False(t, standard.Schedule.Sunday.Open)

	assert.Nil(t, c.ByID("missing"))
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Empty(t, c.All())
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing id", body: `
templates:
  - name: Anonymous
    schedule: {monday: {open: false}}
`},
		{name: "duplicate id", body: `
templates:
  - id: a
    name: A
    schedule: {monday: {open: false}}
  - id: a
    name: B
    schedule: {monday: {open: false}}
`},
		{name: "open day without ranges", body: `
templates:
  - id: a
    name: A
    schedule: {monday: {open: true, ranges: []}}
`},
		{name: "end before start", body: `
templates:
  - id: a
    name: A
    schedule: {monday: {open: true, ranges: [{start: "18:00", end: "09:00"}]}}
`},
		{name: "malformed bound", body: `
templates:
  - id: a
    name: A
    schedule: {monday: {open: true, ranges: [{start: "soonish", end: "18:00"}]}}
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeTemplates(t, tt.body))
			assert.Error(t, err)
		})
	}
}
