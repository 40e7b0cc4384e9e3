package clients

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"organicare/internal/model"
)

func newTestDirectory(t *testing.T) *Directory {
	t.Helper()
	logger := zerolog.Nop()
	d := NewDirectory(&logger)
	d.Seed([]model.Client{
		{Name: "Maria Garcia", Phone: "+212600000001"},
		{Name: "nadia anachad", Phone: "+212600000002"},
		{Name: "Fatima Zahra", Phone: "+212661112233"},
	})
	return d
}

func TestAddAndGet(t *testing.T) {
	d := newTestDirectory(t)

	c := d.Add("Yasmine Alaoui", "+212612345678", "yasmine@example.com", "prefers mornings")
	require.NotEmpty(t, c.ID)
	assert.False(t, c.CreatedAt.IsZero())

	got, ok := d.Get(c.ID)
	require.True(t, ok)
	assert.Equal(t, c, got)

	_, ok = d.Get("missing")
	assert.False(t, ok)
}

func TestSearch(t *testing.T) {
	d := newTestDirectory(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "by name fragment", query: "maria", want: []string{"Maria Garcia"}},
		{name: "case insensitive", query: "NADIA", want: []string{"nadia anachad"}},
		{name: "by phone fragment", query: "661", want: []string{"Fatima Zahra"}},
		{name: "no match", query: "zzz", want: nil},
		{name: "empty query returns all", query: "", want: []string{"Fatima Zahra", "Maria Garcia", "nadia anachad"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var names []string
			for _, c := range d.Search(tt.query) {
				names = append(names, c.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestSearchSortedByName(t *testing.T) {
	d := newTestDirectory(t)
	all := d.Search("")
	require.Len(t, all, 3)
	for i := 1; i < len(all); i++ {
		assert.LessOrEqual(t, all[i-1].Name, all[i].Name)
	}
}
