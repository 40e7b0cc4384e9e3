package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalogue(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clinics.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const validCatalogue = `
clinics:
  - id: 1
    prefix: CM
    name: Californie Multilaser - Organicare
    city: Casablanca
    config:
      open_time: "10:00"
      close_time: "19:30"
      weekend_close_time: "15:00"
      saturday_open: true
      cabins:
        - id: 1
          code: Con
          name: Consultation
          color: "#FF6B6B"
          is_active: true
        - id: 2
          name: SkinShape
          is_active: true
  - id: 2
    prefix: VA
    name: Valeria
    city: Bouskoura
    config:
      open_time: "09:00"
      close_time: "18:00"
      cabins:
        - id: 1
          name: Cabine 1
          is_active: true
`

func TestLoadClinicsConfig(t *testing.T) {
	cfg, err := LoadClinicsConfig(writeCatalogue(t, validCatalogue))
	require.NoError(t, err)
	require.Len(t, cfg.Clinics, 2)

	assert.Equal(t, int64(1), cfg.DefaultClinicID, "default clinic falls back to the first entry")

	first := cfg.GetClinicByID(1)
	require.NotNil(t, first)
	assert.Equal(t, "10:00", first.Config.WeekendOpenTime, "weekend open falls back to weekday open")
	assert.Equal(t, "15:00", first.Config.WeekendCloseTime, "an explicit weekend close is kept")

	// Cabin defaults: color, code and order fill in when omitted.
	skinShape := first.Config.Cabins[1]
	assert.Equal(t, defaultCabinColor, skinShape.Color)
	assert.Equal(t, "SkinShape", skinShape.Code)
	assert.Equal(t, 2, skinShape.Order)
	assert.Equal(t, 1, first.Config.Cabins[0].Order)

	assert.Nil(t, cfg.GetClinicByID(99))
}

func TestLoadClinicsConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty catalogue", body: `clinics: []`},
		{name: "duplicate clinic id", body: `
clinics:
  - id: 1
    name: A
    config: {open_time: "10:00", close_time: "18:00", cabins: [{id: 1, name: C}]}
  - id: 1
    name: B
    config: {open_time: "10:00", close_time: "18:00", cabins: [{id: 1, name: C}]}
`},
		{name: "close before open", body: `
clinics:
  - id: 1
    name: A
    config: {open_time: "18:00", close_time: "10:00", cabins: [{id: 1, name: C}]}
`},
		{name: "malformed open time", body: `
clinics:
  - id: 1
    name: A
    config: {open_time: "ten", close_time: "18:00", cabins: [{id: 1, name: C}]}
`},
		{name: "clinic without cabins", body: `
clinics:
  - id: 1
    name: A
    config: {open_time: "10:00", close_time: "18:00", cabins: []}
`},
		{name: "duplicate cabin id", body: `
clinics:
  - id: 1
    name: A
    config: {open_time: "10:00", close_time: "18:00", cabins: [{id: 1, name: C}, {id: 1, name: D}]}
`},
		{name: "unknown default clinic", body: `
default_clinic_id: 9
clinics:
  - id: 1
    name: A
    config: {open_time: "10:00", close_time: "18:00", cabins: [{id: 1, name: C}]}
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadClinicsConfig(writeCatalogue(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("ORGANICARE_API_KEY", "s3cret")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  address: ":9090"
  api_key: ${ORGANICARE_API_KEY}
state:
  path: `+filepath.Join(t.TempDir(), "data", "state.db")+`
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "s3cret", cfg.Server.APIKey)
	assert.Equal(t, float64(20), cfg.Limits.RequestsPerSecond, "rate limit defaults apply")
}
