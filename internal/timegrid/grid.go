// Package timegrid provides the 15-minute grid math behind the agenda:
// the ordered slot sequence between opening hours and the row offset of
// the current-time indicator.
package timegrid

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// SlotMinutes is the fixed grid granularity. Slot labels, appointment
	// durations and collision shifts are all quantized to it.
	SlotMinutes = 15

	// SlotsPerHour is derived from SlotMinutes; kept as a named constant
	// because the renderer sizes hour blocks with it.
	SlotsPerHour = 60 / SlotMinutes

	// RowHeight is the rendered height of one slot row in pixels.
	RowHeight = 40.0

	// DesktopTimeOffset is the additive header correction applied to the
	// current-time indicator on non-mobile rendering contexts.
	DesktopTimeOffset = 124.0

	// DefaultDurationSlots is assigned to appointments created from the
	// dialog without an explicit duration.
	DefaultDurationSlots = 2

	// MinDurationSlots is the smallest bookable duration.
	MinDurationSlots = 1

	// lastMinuteOfDay bounds end-of-day clamping and collision scans:
	// an appointment may never run past 23:59:59, so 23:59 is the last
	// usable minute.
	lastMinuteOfDay = 24*60 - 1
)

// ParseClock parses a zero-padded "HH:MM" label into minutes since
// midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time format: %q", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour*60 + minute, nil
}

// FormatClock renders minutes since midnight as a zero-padded "HH:MM"
// label.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Slots returns the ordered sequence of "HH:MM" labels from open to close
// inclusive, stepping SlotMinutes. Malformed bounds or close before open
// yield an empty sequence; Slots("09:00", "09:00") is exactly ["09:00"].
func Slots(open, close string) []string {
	start, err := ParseClock(open)
	if err != nil {
		return nil
	}
	end, err := ParseClock(close)
	if err != nil || end < start {
		return nil
	}

	slots := make([]string, 0, (end-start)/SlotMinutes+1)
	for m := start; m <= end; m += SlotMinutes {
		slots = append(slots, FormatClock(m))
	}
	return slots
}

// AddSlots advances a "HH:MM" label by n slots. The result may pass the
// end of day; callers clamp against ClampDuration or lastMinuteOfDay as
// needed.
func AddSlots(clock string, n int) (string, error) {
	m, err := ParseClock(clock)
	if err != nil {
		return "", err
	}
	return FormatClock(m + n*SlotMinutes), nil
}

// EndClock returns the end label of an appointment starting at clock with
// the given duration in slots.
func EndClock(clock string, durationSlots int) (string, error) {
	return AddSlots(clock, durationSlots)
}

// ClampDuration shrinks a duration so that an appointment starting at
// clock ends no later than the day's closing time, using floor division
// over whole slots. An empty or malformed closeClock falls back to
// 23:59:59 of the day. The result is never negative; a duration that
// already fits is returned unchanged.
func ClampDuration(clock string, durationSlots int, closeClock string) (int, error) {
	start, err := ParseClock(clock)
	if err != nil {
		return 0, err
	}
	bound := lastMinuteOfDay
	if end, err := ParseClock(closeClock); err == nil && end < bound {
		bound = end
	}
	if start+durationSlots*SlotMinutes <= bound {
		return durationSlots, nil
	}
	fit := (bound - start) / SlotMinutes
	if fit < 0 {
		fit = 0
	}
	return fit, nil
}

// PastEndOfDay reports whether a "HH:MM" label has stepped past the last
// usable minute of the day.
func PastEndOfDay(clock string) bool {
	m, err := ParseClock(clock)
	if err != nil {
		return true
	}
	return m > lastMinuteOfDay
}

// CurrentOffset computes the pixel offset of "now" within a grid that
// opens at open and closes at close. The second return value is false
// when now falls outside [open, close). Desktop rendering adds the fixed
// header correction; mobile does not.
func CurrentOffset(now time.Time, open, close string, mobile bool) (float64, bool) {
	start, err := ParseClock(open)
	if err != nil {
		return 0, false
	}
	end, err := ParseClock(close)
	if err != nil {
		return 0, false
	}

	current := now.Hour()*60 + now.Minute()
	if current < start || current >= end {
		return 0, false
	}

	offset := float64(current-start) / SlotMinutes * RowHeight
	if !mobile {
		offset += DesktopTimeOffset
	}
	return offset, true
}

// AppointmentHeight returns the rendered height in pixels of an
// appointment lasting durationSlots slots.
func AppointmentHeight(durationSlots int) float64 {
	return float64(durationSlots) * RowHeight
}
