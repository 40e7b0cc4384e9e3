// Package clinic holds the runtime clinic catalogue: which clinics
// exist, which one is active, and the settings-screen mutations to a
// clinic's configuration. The active clinic survives restarts through
// the state store.
package clinic

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"organicare/internal/cabins"
	"organicare/internal/config"
	"organicare/internal/model"
)

var (
	ErrUnknownClinic = errors.New("unknown clinic")
	ErrUnknownCabin  = errors.New("unknown cabin")
)

// StateStore persists the active clinic across restarts.
type StateStore interface {
	SaveActiveClinic(ctx context.Context, clinic model.Clinic) error
	LoadActiveClinic(ctx context.Context) (*model.Clinic, error)
}

// Provider serves clinic reads and applies settings mutations under a
// single lock.
type Provider struct {
	mu        sync.RWMutex
	clinics   []model.Clinic
	activeID  int64
	defaultID int64
	store     StateStore
	logger    *zerolog.Logger
}

// NewProvider builds the runtime catalogue from the clinics config. A
// previously saved active clinic is restored, local config edits
// included, as long as the catalogue still lists its id.
func NewProvider(ctx context.Context, cfg *config.ClinicsConfig, store StateStore, logger *zerolog.Logger) (*Provider, error) {
	p := &Provider{
		clinics:   cloneClinics(cfg.Clinics),
		activeID:  cfg.DefaultClinicID,
		defaultID: cfg.DefaultClinicID,
		store:     store,
		logger:    logger,
	}

	if store != nil {
		saved, err := store.LoadActiveClinic(ctx)
		if err != nil {
			return nil, err
		}
		if saved != nil {
			if i := p.indexOf(saved.ID); i >= 0 {
				p.clinics[i] = cloneClinic(*saved)
				p.activeID = saved.ID
				logger.Info().Int64("clinic_id", saved.ID).Msg("Restored active clinic")
			} else {
				logger.Warn().Int64("clinic_id", saved.ID).
					Msg("Saved active clinic no longer in catalogue, using default")
			}
		}
	}

	return p, nil
}

// Active returns a copy of the currently active clinic.
func (p *Provider) Active() model.Clinic {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return cloneClinic(p.clinics[p.indexOf(p.activeID)])
}

// All returns a copy of the whole catalogue.
func (p *Provider) All() []model.Clinic {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return cloneClinics(p.clinics)
}

// Get returns a copy of one clinic by id.
func (p *Provider) Get(id int64) (model.Clinic, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	i := p.indexOf(id)
	if i < 0 {
		return model.Clinic{}, ErrUnknownClinic
	}
	return cloneClinic(p.clinics[i]), nil
}

// SetActive switches the active clinic and persists the choice.
func (p *Provider) SetActive(ctx context.Context, id int64) (model.Clinic, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	i := p.indexOf(id)
	if i < 0 {
		return model.Clinic{}, ErrUnknownClinic
	}
	p.activeID = id
	p.logger.Info().Int64("clinic_id", id).Str("name", p.clinics[i].Name).Msg("Active clinic switched")
	return cloneClinic(p.clinics[i]), p.persist(ctx, p.clinics[i])
}

// UpdateConfig merges a partial configuration update into a clinic.
func (p *Provider) UpdateConfig(ctx context.Context, id int64, patch model.ConfigPatch) (model.Clinic, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	i := p.indexOf(id)
	if i < 0 {
		return model.Clinic{}, ErrUnknownClinic
	}
	patch.Apply(&p.clinics[i].Config)
	p.logger.Info().Int64("clinic_id", id).Msg("Clinic config updated")
	return cloneClinic(p.clinics[i]), p.persist(ctx, p.clinics[i])
}

// AddCabin appends a new cabin to a clinic, assigning the next free id
// and a display order placing it last.
func (p *Provider) AddCabin(ctx context.Context, clinicID int64, cabin model.Cabin) (model.Clinic, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	i := p.indexOf(clinicID)
	if i < 0 {
		return model.Clinic{}, ErrUnknownClinic
	}
	cfg := &p.clinics[i].Config
	cabin.ID = cabins.NextID(cfg.Cabins)
	cabin.Order = cabins.NextOrder(cfg.Cabins)
	cfg.Cabins = append(cfg.Cabins, cabin)
	p.logger.Info().Int64("clinic_id", clinicID).Int64("cabin_id", cabin.ID).Msg("Cabin added")
	return cloneClinic(p.clinics[i]), p.persist(ctx, p.clinics[i])
}

// MoveCabinUp swaps a cabin with the previous active cabin. Moving the
// first active cabin is a no-op, not an error.
func (p *Provider) MoveCabinUp(ctx context.Context, clinicID, cabinID int64) (model.Clinic, error) {
	return p.reorderCabin(ctx, clinicID, cabinID, cabins.MoveUp)
}

// MoveCabinDown swaps a cabin with the next active cabin. Moving the
// last active cabin is a no-op.
func (p *Provider) MoveCabinDown(ctx context.Context, clinicID, cabinID int64) (model.Clinic, error) {
	return p.reorderCabin(ctx, clinicID, cabinID, cabins.MoveDown)
}

func (p *Provider) reorderCabin(ctx context.Context, clinicID, cabinID int64, move func([]model.Cabin, int64) bool) (model.Clinic, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	i := p.indexOf(clinicID)
	if i < 0 {
		return model.Clinic{}, ErrUnknownClinic
	}
	if p.clinics[i].CabinByID(cabinID) == nil {
		return model.Clinic{}, ErrUnknownCabin
	}
	if !move(p.clinics[i].Config.Cabins, cabinID) {
		// Boundary or inactive cabin: nothing changed, nothing to persist.
		return cloneClinic(p.clinics[i]), nil
	}
	return cloneClinic(p.clinics[i]), p.persist(ctx, p.clinics[i])
}

// DeleteCabin removes a cabin from a clinic. Display orders of the
// remaining cabins are left as they are.
func (p *Provider) DeleteCabin(ctx context.Context, clinicID, cabinID int64) (model.Clinic, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	i := p.indexOf(clinicID)
	if i < 0 {
		return model.Clinic{}, ErrUnknownClinic
	}
	remaining, ok := cabins.Delete(p.clinics[i].Config.Cabins, cabinID)
	if !ok {
		return model.Clinic{}, ErrUnknownCabin
	}
	p.clinics[i].Config.Cabins = remaining
	p.logger.Info().Int64("clinic_id", clinicID).Int64("cabin_id", cabinID).Msg("Cabin deleted")
	return cloneClinic(p.clinics[i]), p.persist(ctx, p.clinics[i])
}

// ReplaceCatalogue swaps in a freshly loaded clinics config, used by the
// hot-reload watcher. The active clinic id is kept when the new
// catalogue still lists it, otherwise it falls back to the default.
func (p *Provider) ReplaceCatalogue(cfg *config.ClinicsConfig) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.clinics = cloneClinics(cfg.Clinics)
	p.defaultID = cfg.DefaultClinicID
	if p.indexOf(p.activeID) < 0 {
		p.logger.Warn().Int64("clinic_id", p.activeID).
			Msg("Active clinic removed from catalogue, falling back to default")
		p.activeID = cfg.DefaultClinicID
	}
	p.logger.Info().Int("clinics", len(p.clinics)).Msg("Clinic catalogue reloaded")
}

// persist is called with p.mu held; only the active clinic is saved.
func (p *Provider) persist(ctx context.Context, clinic model.Clinic) error {
	if p.store == nil || clinic.ID != p.activeID {
		return nil
	}
	return p.store.SaveActiveClinic(ctx, clinic)
}

func (p *Provider) indexOf(id int64) int {
	for i := range p.clinics {
		if p.clinics[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneClinic(c model.Clinic) model.Clinic {
	c.Config.Cabins = append([]model.Cabin(nil), c.Config.Cabins...)
	if c.Config.Schedule != nil {
		schedule := *c.Config.Schedule
		c.Config.Schedule = &schedule
	}
	return c
}

func cloneClinics(clinics []model.Clinic) []model.Clinic {
	result := make([]model.Clinic, len(clinics))
	for i, c := range clinics {
		result[i] = cloneClinic(c)
	}
	return result
}
