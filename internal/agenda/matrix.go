package agenda

import (
	"time"

	"organicare/internal/cabins"
	"organicare/internal/model"
	"organicare/internal/timegrid"
)

// Day is one column of the weekly grid.
type Day struct {
	Date    string    `json:"date"` // YYYY-MM-DD
	Weekday string    `json:"weekday"`
	Weekend bool      `json:"weekend"`
	IsToday bool      `json:"is_today"`
	Time    time.Time `json:"-"`
}

// Cell is a single (time, cabin) slot of a day column. An empty cell is
// the pending slot a client-search dialog gets seeded with: its address
// is (day date, cabin id, time).
type Cell struct {
	Time         string              `json:"time"`
	Appointments []model.Appointment `json:"appointments,omitempty"`
}

// CabinColumn is the per-cabin strip of cells inside a day column. Only
// active cabins become columns, so every cell accepts interaction.
type CabinColumn struct {
	Cabin model.Cabin `json:"cabin"`
	Cells []Cell      `json:"cells"`
}

// DayColumn carries a day's cabin strips together with the hours that
// apply to that day (weekend days use the weekend hours).
type DayColumn struct {
	Day    Day           `json:"day"`
	Open   string        `json:"open"`
	Close  string        `json:"close"`
	Cabins []CabinColumn `json:"cabins"`
}

// NowIndicator is the rendered position of the current-time line.
type NowIndicator struct {
	Time   string  `json:"time"`
	Offset float64 `json:"offset"`
}

// Matrix is the composed grid: time slots on one axis, day x cabin on
// the other.
type Matrix struct {
	ClinicID int64         `json:"clinic_id"`
	Slots    []string      `json:"slots"`
	Days     []DayColumn   `json:"days"`
	Now      *NowIndicator `json:"now,omitempty"`
}

// WeekDays returns the columns of the week containing ref, starting on
// Monday. Saturday and Sunday appear only when the clinic opens them.
func WeekDays(ref time.Time, saturdayOpen, sundayOpen bool) []Day {
	wd := int(ref.Weekday())
	delta := 1 - wd
	if wd == 0 { // Sunday belongs to the week that started six days earlier
		delta = -6
	}
	monday := model.DateOnly(ref).AddDate(0, 0, delta)
	today := model.DateOnly(time.Now())

	days := make([]Day, 0, 7)
	for i := 0; i < 7; i++ {
		d := monday.AddDate(0, 0, i)
		switch d.Weekday() {
		case time.Saturday:
			if !saturdayOpen {
				continue
			}
		case time.Sunday:
			if !sundayOpen {
				continue
			}
		}
		days = append(days, Day{
			Date:    d.Format("2006-01-02"),
			Weekday: d.Weekday().String(),
			Weekend: d.Weekday() == time.Saturday || d.Weekday() == time.Sunday,
			IsToday: d.Equal(today),
			Time:    d,
		})
	}
	return days
}

// DayHours returns the opening hours that apply to a given date.
func DayHours(cfg *model.ClinicConfig, date time.Time) (open, close string) {
	if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
		return cfg.WeekendOpenTime, cfg.WeekendCloseTime
	}
	return cfg.OpenTime, cfg.CloseTime
}

// BuildWeekMatrix composes the weekly grid for a clinic: the slot rows
// come from the clinic's weekday hours, columns from WeekDays x the
// active-ordered cabins, and appointments are placed into the cell whose
// (date, cabin, start time) they match exactly.
func BuildWeekMatrix(clinic *model.Clinic, appointments []model.Appointment, ref, now time.Time) Matrix {
	cfg := &clinic.Config
	days := WeekDays(ref, cfg.SaturdayOpen, cfg.SundayOpen)
	slots := timegrid.Slots(cfg.OpenTime, cfg.CloseTime)
	active := cabins.ActiveOrdered(cfg.Cabins)

	m := Matrix{ClinicID: clinic.ID, Slots: slots, Days: make([]DayColumn, 0, len(days))}
	for _, day := range days {
		open, close := DayHours(cfg, day.Time)
		col := DayColumn{Day: day, Open: open, Close: close, Cabins: make([]CabinColumn, 0, len(active))}
		for _, cabin := range active {
			cc := CabinColumn{Cabin: cabin, Cells: make([]Cell, 0, len(slots))}
			for _, slot := range slots {
				cc.Cells = append(cc.Cells, Cell{
					Time:         slot,
					Appointments: placed(appointments, clinic.ID, cabin.ID, day.Time, slot),
				})
			}
			col.Cabins = append(col.Cabins, cc)
		}
		m.Days = append(m.Days, col)
	}

	if offset, ok := timegrid.CurrentOffset(now, cfg.OpenTime, cfg.CloseTime, false); ok {
		m.Now = &NowIndicator{Time: now.Format("15:04"), Offset: offset}
	}
	return m
}

// BuildDayMatrix composes the single-day grid, using the hours that
// apply to that date.
func BuildDayMatrix(clinic *model.Clinic, appointments []model.Appointment, date, now time.Time) Matrix {
	cfg := &clinic.Config
	open, close := DayHours(cfg, date)
	slots := timegrid.Slots(open, close)
	active := cabins.ActiveOrdered(cfg.Cabins)

	d := model.DateOnly(date)
	day := Day{
		Date:    d.Format("2006-01-02"),
		Weekday: d.Weekday().String(),
		Weekend: d.Weekday() == time.Saturday || d.Weekday() == time.Sunday,
		IsToday: model.SameDay(d, time.Now()),
		Time:    d,
	}

	col := DayColumn{Day: day, Open: open, Close: close, Cabins: make([]CabinColumn, 0, len(active))}
	for _, cabin := range active {
		cc := CabinColumn{Cabin: cabin, Cells: make([]Cell, 0, len(slots))}
		for _, slot := range slots {
			cc.Cells = append(cc.Cells, Cell{
				Time:         slot,
				Appointments: placed(appointments, clinic.ID, cabin.ID, d, slot),
			})
		}
		col.Cabins = append(col.Cabins, cc)
	}

	m := Matrix{ClinicID: clinic.ID, Slots: slots, Days: []DayColumn{col}}
	if offset, ok := timegrid.CurrentOffset(now, open, close, false); ok {
		m.Now = &NowIndicator{Time: now.Format("15:04"), Offset: offset}
	}
	return m
}

func placed(appointments []model.Appointment, clinicID, cabinID int64, date time.Time, slot string) []model.Appointment {
	var result []model.Appointment
	for i := range appointments {
		if appointments[i].OccupiesCell(clinicID, cabinID, date, slot) {
			result = append(result, appointments[i])
		}
	}
	return result
}
