package config

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const singleClinicCatalogue = `
clinics:
  - id: 7
    prefix: SO
    name: Solo
    config:
      open_time: "09:00"
      close_time: "18:00"
      cabins:
        - id: 1
          name: Cabine 1
          is_active: true
`

func TestWatchClinicsInitialLoadAndReload(t *testing.T) {
	path := writeCatalogue(t, validCatalogue)
	logger := zerolog.Nop()
	updates := make(chan *ClinicsConfig, 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, WatchClinics(ctx, path, 10*time.Millisecond, &logger, func(c *ClinicsConfig) {
		updates <- c
	}))

	first := <-updates
	require.Len(t, first.Clinics, 2, "the initial catalogue is delivered before the loop starts")

	require.NoError(t, os.WriteFile(path, []byte(singleClinicCatalogue), 0o644))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))

	select {
	case updated := <-updates:
		require.Len(t, updated.Clinics, 1)
		assert.Equal(t, int64(7), updated.Clinics[0].ID)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never delivered the rewritten catalogue")
	}
}

func TestWatchClinicsKeepsLastGoodOnBrokenEdit(t *testing.T) {
	path := writeCatalogue(t, validCatalogue)
	logger := zerolog.Nop()
	updates := make(chan *ClinicsConfig, 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, WatchClinics(ctx, path, 10*time.Millisecond, &logger, func(c *ClinicsConfig) {
		updates <- c
	}))
	<-updates // initial load

	// A broken edit must never reach onUpdate.
	require.NoError(t, os.WriteFile(path, []byte(`clinics: []`), 0o644))
	broken := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, broken, broken))

	// A later valid edit is picked up once the file parses again.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(singleClinicCatalogue), 0o644))
	fixed := broken.Add(time.Hour)
	require.NoError(t, os.Chtimes(path, fixed, fixed))

	select {
	case updated := <-updates:
		require.Len(t, updated.Clinics, 1, "only catalogues that validate are delivered")
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never recovered from the broken edit")
	}
}

func TestWatchClinicsMissingFile(t *testing.T) {
	logger := zerolog.Nop()
	err := WatchClinics(context.Background(), "does/not/exist.yaml", time.Second, &logger, nil)
	assert.Error(t, err)
}
