// Package agenda holds the appointment book and the scheduling logic
// behind the weekly and daily calendar: creation from the dialog flow,
// resize, drag-reflow and grid composition.
//
// The book is the sole owner of appointment state. Every mutation runs
// under one mutex, which makes the scan-and-shift collision resolution
// safe on the server side of the console: there is exactly one writer at
// a time per process. Cross-instance coordination is out of scope.
package agenda

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"organicare/internal/events"
	"organicare/internal/metrics"
	"organicare/internal/model"
	"organicare/internal/timegrid"
)

var (
	ErrNotFound        = errors.New("appointment not found")
	ErrUnknownCabin    = errors.New("unknown cabin")
	ErrCabinInactive   = errors.New("cabin is not active")
	ErrInvalidTime     = errors.New("invalid time")
	ErrInvalidDuration = errors.New("invalid duration")
	ErrNoFreeSlot      = errors.New("no free slot before end of day")
)

// Book is the in-memory, ordered appointment collection. It lives for
// the process lifetime; nothing is persisted.
type Book struct {
	mu     sync.Mutex
	items  []model.Appointment
	bus    *events.Bus
	logger *zerolog.Logger
}

// NewBook creates an empty appointment book.
func NewBook(bus *events.Bus, logger *zerolog.Logger) *Book {
	return &Book{bus: bus, logger: logger}
}

// CreateParams carries what the appointment dialog returns on save, plus
// the pending slot the dialog was seeded with.
type CreateParams struct {
	Clinic    *model.Clinic
	CabinID   int64
	Date      time.Time
	StartTime string
	Client    model.Client
	Services  []model.Service
	Comment   string
	Duration  int // slots; 0 means the dialog default
}

// Create synthesizes a new appointment from a dialog save. The color is
// taken from the destination cabin; duration defaults to two slots.
func (b *Book) Create(p CreateParams) (model.Appointment, error) {
	cabin := p.Clinic.CabinByID(p.CabinID)
	if cabin == nil {
		return model.Appointment{}, ErrUnknownCabin
	}
	if !cabin.IsActive {
		return model.Appointment{}, ErrCabinInactive
	}
	if _, err := timegrid.ParseClock(p.StartTime); err != nil {
		return model.Appointment{}, ErrInvalidTime
	}

	duration := p.Duration
	if duration <= 0 {
		duration = timegrid.DefaultDurationSlots
	}

	names := make([]string, 0, len(p.Services))
	for _, s := range p.Services {
		names = append(names, s.Name)
	}

	now := time.Now()
	apt := model.Appointment{
		ID:          uuid.NewString(),
		ClinicID:    p.Clinic.ID,
		CabinID:     cabin.ID,
		ClientName:  p.Client.Name,
		ClientPhone: p.Client.Phone,
		Service:     strings.Join(names, ", "),
		Date:        model.DateOnly(p.Date),
		StartTime:   p.StartTime,
		Duration:    duration,
		Color:       cabin.Color,
		Comment:     p.Comment,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	b.mu.Lock()
	b.items = append(b.items, apt)
	b.resort()
	b.mu.Unlock()

	b.logger.Info().
		Str("appointment_id", apt.ID).
		Int64("cabin_id", apt.CabinID).
		Str("start", apt.StartTime).
		Msg("appointment created")
	metrics.IncMutation("created")
	b.bus.Publish(events.Event{Type: events.AppointmentCreated, Appointment: apt})
	return apt, nil
}

// Resize replaces the appointment's duration. Deliberately no clamping
// against the day end and no collision check: resize keeps the source
// behavior, only drag-reflow clamps. The asymmetry is covered by tests.
func (b *Book) Resize(id string, durationSlots int) (model.Appointment, error) {
	if durationSlots < timegrid.MinDurationSlots {
		return model.Appointment{}, ErrInvalidDuration
	}

	b.mu.Lock()
	i := b.indexOf(id)
	if i < 0 {
		b.mu.Unlock()
		return model.Appointment{}, ErrNotFound
	}
	b.items[i].Duration = durationSlots
	b.items[i].UpdatedAt = time.Now()
	apt := b.items[i]
	b.mu.Unlock()

	metrics.IncMutation("resized")
	b.bus.Publish(events.Event{Type: events.AppointmentResized, Appointment: apt})
	return apt, nil
}

// Complete toggles the completed flag.
func (b *Book) Complete(id string, completed bool) (model.Appointment, error) {
	b.mu.Lock()
	i := b.indexOf(id)
	if i < 0 {
		b.mu.Unlock()
		return model.Appointment{}, ErrNotFound
	}
	b.items[i].Completed = completed
	b.items[i].UpdatedAt = time.Now()
	apt := b.items[i]
	b.mu.Unlock()

	metrics.IncMutation("completed")
	b.bus.Publish(events.Event{Type: events.AppointmentCompleted, Appointment: apt})
	return apt, nil
}

// Delete removes the appointment.
func (b *Book) Delete(id string) error {
	b.mu.Lock()
	i := b.indexOf(id)
	if i < 0 {
		b.mu.Unlock()
		return ErrNotFound
	}
	apt := b.items[i]
	b.items = append(b.items[:i], b.items[i+1:]...)
	b.mu.Unlock()

	metrics.IncMutation("deleted")
	b.bus.Publish(events.Event{Type: events.AppointmentDeleted, Appointment: apt})
	return nil
}

// Get returns the appointment with the given id.
func (b *Book) Get(id string) (model.Appointment, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.indexOf(id)
	if i < 0 {
		return model.Appointment{}, ErrNotFound
	}
	return b.items[i], nil
}

// List returns a copy of the whole collection in (date, start time)
// order.
func (b *Book) List() []model.Appointment {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Appointment(nil), b.items...)
}

// ListClinic returns the clinic's appointments in collection order.
func (b *Book) ListClinic(clinicID int64) []model.Appointment {
	b.mu.Lock()
	defer b.mu.Unlock()
	result := make([]model.Appointment, 0, len(b.items))
	for _, a := range b.items {
		if a.ClinicID == clinicID {
			result = append(result, a)
		}
	}
	return result
}

// ListDay returns the clinic's appointments for one calendar day.
func (b *Book) ListDay(clinicID int64, date time.Time) []model.Appointment {
	b.mu.Lock()
	defer b.mu.Unlock()
	result := make([]model.Appointment, 0)
	for _, a := range b.items {
		if a.ClinicID == clinicID && model.SameDay(a.Date, date) {
			result = append(result, a)
		}
	}
	return result
}

// indexOf requires b.mu held.
func (b *Book) indexOf(id string) int {
	for i := range b.items {
		if b.items[i].ID == id {
			return i
		}
	}
	return -1
}

// resort restores the (date asc, start time asc) collection invariant.
// Requires b.mu held.
func (b *Book) resort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		return b.items[i].Before(&b.items[j])
	})
}
