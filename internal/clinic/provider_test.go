package clinic

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"organicare/internal/config"
	"organicare/internal/model"
)

// fakeStore records saves in memory, standing in for the SQLite store.
type fakeStore struct {
	saved *model.Clinic
	saves int
}

func (f *fakeStore) SaveActiveClinic(_ context.Context, clinic model.Clinic) error {
	f.saved = &clinic
	f.saves++
	return nil
}

func (f *fakeStore) LoadActiveClinic(_ context.Context) (*model.Clinic, error) {
	return f.saved, nil
}

func testCatalogue() *config.ClinicsConfig {
	return &config.ClinicsConfig{
		DefaultClinicID: 1,
		Clinics: []model.Clinic{
			{
				ID: 1, Prefix: "CM", Name: "Californie Multilaser - Organicare", City: "Casablanca",
				Config: model.ClinicConfig{
					OpenTime: "10:00", CloseTime: "19:30",
					WeekendOpenTime: "10:00", WeekendCloseTime: "15:00",
					SaturdayOpen: true,
					Cabins: []model.Cabin{
						{ID: 1, Code: "Con", Name: "Consultation", Color: "#FF6B6B", IsActive: true, Order: 1},
						{ID: 2, Code: "Sp", Name: "Sp", Color: "#909090", IsActive: true, Order: 2},
						{ID: 3, Code: "Ski", Name: "SkinShape", Color: "#4ECDC4", IsActive: false, Order: 3},
					},
				},
			},
			{
				ID: 2, Prefix: "VA", Name: "Valeria", City: "Bouskoura",
				Config: model.ClinicConfig{
					OpenTime: "09:00", CloseTime: "18:00",
					WeekendOpenTime: "09:00", WeekendCloseTime: "18:00",
					Cabins: []model.Cabin{
						{ID: 1, Code: "C1", Name: "Cabine 1", Color: "#45B7D1", IsActive: true, Order: 1},
					},
				},
			},
		},
	}
}

func newTestProvider(t *testing.T, store StateStore) *Provider {
	t.Helper()
	logger := zerolog.Nop()
	p, err := NewProvider(context.Background(), testCatalogue(), store, &logger)
	require.NoError(t, err)
	return p
}

func TestActiveDefaultsToCatalogueDefault(t *testing.T) {
	p := newTestProvider(t, nil)
	assert.Equal(t, int64(1), p.Active().ID)
	assert.Len(t, p.All(), 2)
}

func TestSetActivePersists(t *testing.T) {
	store := &fakeStore{}
	p := newTestProvider(t, store)

	clinic, err := p.SetActive(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Valeria", clinic.Name)
	require.NotNil(t, store.saved)
	assert.Equal(t, int64(2), store.saved.ID)

	_, err = p.SetActive(context.Background(), 99)
	assert.ErrorIs(t, err, ErrUnknownClinic)
}

func TestRestoreSavedActiveClinic(t *testing.T) {
	store := &fakeStore{}
	first := newTestProvider(t, store)

	// Switch clinics and edit its hours, as the settings screen would.
	_, err := first.SetActive(context.Background(), 2)
	require.NoError(t, err)
	open := "08:00"
	_, err = first.UpdateConfig(context.Background(), 2, model.ConfigPatch{OpenTime: &open})
	require.NoError(t, err)

	// A fresh provider over the same store resumes where we left off.
	second := newTestProvider(t, store)
	active := second.Active()
	assert.Equal(t, int64(2), active.ID)
	assert.Equal(t, "08:00", active.Config.OpenTime, "local config edits survive a restart")
}

func TestRestoreIgnoresVanishedClinic(t *testing.T) {
	store := &fakeStore{saved: &model.Clinic{ID: 42, Name: "Closed down"}}
	p := newTestProvider(t, store)
	assert.Equal(t, int64(1), p.Active().ID, "a stale saved clinic falls back to the default")
}

func TestUpdateConfigOnlyPersistsActive(t *testing.T) {
	store := &fakeStore{}
	p := newTestProvider(t, store)

	open := "11:00"
	_, err := p.UpdateConfig(context.Background(), 2, model.ConfigPatch{OpenTime: &open})
	require.NoError(t, err)
	assert.Zero(t, store.saves, "editing an inactive clinic does not touch the store")

	_, err = p.UpdateConfig(context.Background(), 1, model.ConfigPatch{OpenTime: &open})
	require.NoError(t, err)
	assert.Equal(t, 1, store.saves)
}

func TestCabinLifecycle(t *testing.T) {
	p := newTestProvider(t, nil)
	ctx := context.Background()

	clinic, err := p.AddCabin(ctx, 1, model.Cabin{Code: "La", Name: "Laser", Color: "#96CEB4", IsActive: true})
	require.NoError(t, err)
	added := clinic.Config.Cabins[len(clinic.Config.Cabins)-1]
	assert.Equal(t, int64(4), added.ID, "new cabin gets the next free id")
	assert.Equal(t, 4, added.Order, "new cabin sorts last")

	clinic, err = p.MoveCabinUp(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, clinic.CabinByID(2).Order)
	assert.Equal(t, 2, clinic.CabinByID(1).Order)

	// First active cabin: moving up changes nothing but is not an error.
	before := clinic
	clinic, err = p.MoveCabinUp(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, before, clinic)

	_, err = p.MoveCabinUp(ctx, 1, 99)
	assert.ErrorIs(t, err, ErrUnknownCabin)

	clinic, err = p.DeleteCabin(ctx, 1, 3)
	require.NoError(t, err)
	assert.Nil(t, clinic.CabinByID(3))

	_, err = p.DeleteCabin(ctx, 1, 3)
	assert.ErrorIs(t, err, ErrUnknownCabin)
}

func TestReplaceCatalogue(t *testing.T) {
	p := newTestProvider(t, nil)

	_, err := p.SetActive(context.Background(), 2)
	require.NoError(t, err)

	// Reload without clinic 2: the active clinic falls back to default.
	cfg := testCatalogue()
	cfg.Clinics = cfg.Clinics[:1]
	p.ReplaceCatalogue(cfg)
	assert.Equal(t, int64(1), p.Active().ID)
	assert.Len(t, p.All(), 1)
}

func TestReturnedClinicsAreCopies(t *testing.T) {
	p := newTestProvider(t, nil)

	clinic := p.Active()
	clinic.Config.Cabins[0].Name = "scribbled over"
	assert.Equal(t, "Consultation", p.Active().Config.Cabins[0].Name,
		"callers cannot mutate provider state through returned values")
}
