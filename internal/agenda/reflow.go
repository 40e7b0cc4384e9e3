package agenda

import (
	"time"

	"organicare/internal/events"
	"organicare/internal/metrics"
	"organicare/internal/model"
	"organicare/internal/timegrid"
)

// Destination is the cell a completed drag gesture resolved to. Clinic
// is the appointment's clinic, used to validate the target cabin.
// DayClose is the closing time of the destination day; when empty the
// clamp falls back to the end of the day.
type Destination struct {
	Clinic   *model.Clinic
	Date     time.Time
	CabinID  int64
	Start    string
	DayClose string
}

// Move recomputes an appointment's placement after a drag:
//
//  1. reject destinations outside the rendered grid — only cells of an
//     active cabin accept a drop, same as Create;
//  2. relocate to the destination (date, cabin, start time);
//  3. clamp the duration by whole slots so the appointment ends within
//     the destination day;
//  4. if another appointment in that cabin and day already starts at the
//     destination time, advance the start in 15-minute steps until a free
//     slot is found — the scan is bounded by the end of the day, and an
//     exhausted scan rejects the move with ErrNoFreeSlot, leaving the
//     collection unchanged;
//  5. commit by removing the original, appending the relocated copy and
//     re-sorting the collection by (date, start time).
//
// The caller translates an unresolved drop into not calling Move at all;
// a gesture without a destination mutates nothing.
func (b *Book) Move(id string, dest Destination) (model.Appointment, error) {
	startMinutes, err := timegrid.ParseClock(dest.Start)
	if err != nil {
		return model.Appointment{}, ErrInvalidTime
	}

	cabin := dest.Clinic.CabinByID(dest.CabinID)
	if cabin == nil {
		return model.Appointment{}, ErrUnknownCabin
	}
	if !cabin.IsActive {
		return model.Appointment{}, ErrCabinInactive
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.indexOf(id)
	if i < 0 {
		return model.Appointment{}, ErrNotFound
	}

	moved := b.items[i]
	moved.Date = model.DateOnly(dest.Date)
	moved.CabinID = dest.CabinID
	moved.StartTime = dest.Start

	clamped, err := timegrid.ClampDuration(dest.Start, moved.Duration, dest.DayClose)
	if err != nil {
		return model.Appointment{}, ErrInvalidTime
	}
	if clamped != moved.Duration {
		moved.Duration = clamped
		metrics.IncDurationClamp()
	}

	// Start times taken in the destination cabin on the destination day,
	// excluding the appointment being moved.
	occupied := make(map[string]struct{})
	for j, other := range b.items {
		if j == i {
			continue
		}
		if other.ClinicID == moved.ClinicID && other.CabinID == moved.CabinID && model.SameDay(other.Date, moved.Date) {
			occupied[other.StartTime] = struct{}{}
		}
	}

	shifts := 0
	candidate := startMinutes
	for {
		if _, taken := occupied[timegrid.FormatClock(candidate)]; !taken {
			break
		}
		candidate += timegrid.SlotMinutes
		shifts++
		if timegrid.PastEndOfDay(timegrid.FormatClock(candidate)) {
			metrics.IncRejectedMove("no_free_slot")
			b.logger.Warn().
				Str("appointment_id", id).
				Int64("cabin_id", dest.CabinID).
				Str("wanted", dest.Start).
				Msg("move rejected: cabin fully booked until end of day")
			return model.Appointment{}, ErrNoFreeSlot
		}
	}
	if shifts > 0 {
		moved.StartTime = timegrid.FormatClock(candidate)
		metrics.AddCollisionShifts(shifts)
	}
	moved.UpdatedAt = time.Now()

	b.items = append(b.items[:i], b.items[i+1:]...)
	b.items = append(b.items, moved)
	b.resort()

	b.logger.Info().
		Str("appointment_id", moved.ID).
		Int64("cabin_id", moved.CabinID).
		Str("start", moved.StartTime).
		Int("shifts", shifts).
		Msg("appointment moved")
	metrics.IncMutation("moved")
	b.bus.Publish(events.Event{Type: events.AppointmentMoved, Appointment: moved})
	return moved, nil
}
