package model

// TimeRange is a single open interval within a day, "HH:MM" bounds.
type TimeRange struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// DaySchedule describes whether a weekday is open and during which ranges.
type DaySchedule struct {
	Open   bool        `json:"open" yaml:"open"`
	Ranges []TimeRange `json:"ranges" yaml:"ranges"`
}

// WeekSchedule holds the advanced per-weekday schedule of a clinic.
type WeekSchedule struct {
	Monday    DaySchedule `json:"monday" yaml:"monday"`
	Tuesday   DaySchedule `json:"tuesday" yaml:"tuesday"`
	Wednesday DaySchedule `json:"wednesday" yaml:"wednesday"`
	Thursday  DaySchedule `json:"thursday" yaml:"thursday"`
	Friday    DaySchedule `json:"friday" yaml:"friday"`
	Saturday  DaySchedule `json:"saturday" yaml:"saturday"`
	Sunday    DaySchedule `json:"sunday" yaml:"sunday"`
}

// ScheduleTemplate is a named, reusable week schedule.
type ScheduleTemplate struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Schedule    WeekSchedule `json:"schedule" yaml:"schedule"`
}
