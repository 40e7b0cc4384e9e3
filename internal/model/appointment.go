package model

import "time"

// Appointment represents a booked grid entry. Placement is the triple
// (Date, CabinID, StartTime); Duration is counted in 15-minute slots.
type Appointment struct {
	ID          string    `json:"id"`
	ClinicID    int64     `json:"clinic_id"`
	CabinID     int64     `json:"cabin_id"`
	ClientName  string    `json:"client_name"`
	ClientPhone string    `json:"client_phone,omitempty"`
	Service     string    `json:"service"`
	Date        time.Time `json:"date"`       // midnight of the appointment day
	StartTime   string    `json:"start_time"` // "HH:MM"
	Duration    int       `json:"duration"`   // slots
	Color       string    `json:"color"`
	Comment     string    `json:"comment,omitempty"`
	Completed   bool      `json:"completed,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SameDay reports whether two timestamps fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DateOnly truncates a timestamp to midnight in its own location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// OccupiesCell reports whether the appointment starts exactly at the given
// grid cell. Only the start cell counts as occupied; the grid stacks the
// remaining duration visually below it.
func (a *Appointment) OccupiesCell(clinicID, cabinID int64, date time.Time, startTime string) bool {
	return a.ClinicID == clinicID &&
		a.CabinID == cabinID &&
		a.StartTime == startTime &&
		SameDay(a.Date, date)
}

// Before orders appointments by date ascending, then start time ascending.
// Start times are zero-padded "HH:MM" strings, so lexicographic order is
// chronological order.
func (a *Appointment) Before(other *Appointment) bool {
	ad, od := DateOnly(a.Date), DateOnly(other.Date)
	if !ad.Equal(od) {
		return ad.Before(od)
	}
	return a.StartTime < other.StartTime
}
