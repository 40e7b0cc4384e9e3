package config

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// WatchClinics reloads clinics.yaml on change and calls onUpdate with the
// latest catalogue. It performs an initial load before entering the watch
// loop; a broken edit after that keeps the last good catalogue in place
// and is reported through the logger rather than taking the console down.
func WatchClinics(ctx context.Context, path string, interval time.Duration, logger *zerolog.Logger, onUpdate func(*ClinicsConfig)) error {
	if path == "" {
		path = "configs/clinics.yaml"
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}

	cfg, err := LoadClinicsConfig(path)
	if err != nil {
		return err
	}
	if onUpdate != nil {
		onUpdate(cfg)
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	w := &clinicsWatcher{
		path:     path,
		logger:   logger,
		onUpdate: onUpdate,
		lastMod:  info.ModTime(),
	}
	go w.run(ctx, interval)
	return nil
}

type clinicsWatcher struct {
	path     string
	logger   *zerolog.Logger
	onUpdate func(*ClinicsConfig)
	lastMod  time.Time
}

func (w *clinicsWatcher) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.poll()
		}
	}
}

func (w *clinicsWatcher) poll() {
	info, err := os.Stat(w.path)
	if err != nil {
		// Editors replace files non-atomically; the next tick retries.
		w.logger.Debug().Err(err).Str("path", w.path).Msg("clinics config stat failed")
		return
	}
	if !info.ModTime().After(w.lastMod) {
		return
	}

	cfg, err := LoadClinicsConfig(w.path)
	if err != nil {
		w.logger.Error().Err(err).Str("path", w.path).Msg("clinics config reload failed, keeping last good catalogue")
		return
	}

	w.lastMod = info.ModTime()
	w.logger.Info().Str("catalogue", cfg.String()).Msg("Clinics config reloaded")
	if w.onUpdate != nil {
		w.onUpdate(cfg)
	}
}
