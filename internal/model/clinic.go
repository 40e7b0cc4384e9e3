package model

// ClinicConfig drives the agenda grid for a clinic: opening hours, which
// weekend days appear as columns, and the cabin set.
type ClinicConfig struct {
	OpenTime         string        `json:"open_time" yaml:"open_time"`
	CloseTime        string        `json:"close_time" yaml:"close_time"`
	WeekendOpenTime  string        `json:"weekend_open_time" yaml:"weekend_open_time"`
	WeekendCloseTime string        `json:"weekend_close_time" yaml:"weekend_close_time"`
	SaturdayOpen     bool          `json:"saturday_open" yaml:"saturday_open"`
	SundayOpen       bool          `json:"sunday_open" yaml:"sunday_open"`
	Cabins           []Cabin       `json:"cabins" yaml:"cabins"`
	Schedule         *WeekSchedule `json:"schedule,omitempty" yaml:"schedule,omitempty"`
}

// Clinic is a single location of the business.
type Clinic struct {
	ID     int64        `json:"id" yaml:"id"`
	Prefix string       `json:"prefix" yaml:"prefix"`
	Name   string       `json:"name" yaml:"name"`
	City   string       `json:"city" yaml:"city"`
	Config ClinicConfig `json:"config" yaml:"config"`
}

// CabinByID returns the clinic's cabin with the given id, or nil.
func (c *Clinic) CabinByID(id int64) *Cabin {
	for i := range c.Config.Cabins {
		if c.Config.Cabins[i].ID == id {
			return &c.Config.Cabins[i]
		}
	}
	return nil
}

// ConfigPatch is a partial clinic configuration update. Nil fields are left
// untouched.
type ConfigPatch struct {
	OpenTime         *string       `json:"open_time,omitempty"`
	CloseTime        *string       `json:"close_time,omitempty"`
	WeekendOpenTime  *string       `json:"weekend_open_time,omitempty"`
	WeekendCloseTime *string       `json:"weekend_close_time,omitempty"`
	SaturdayOpen     *bool         `json:"saturday_open,omitempty"`
	SundayOpen       *bool         `json:"sunday_open,omitempty"`
	Cabins           []Cabin       `json:"cabins,omitempty"`
	Schedule         *WeekSchedule `json:"schedule,omitempty"`
}

// Apply merges the patch into the config.
func (p *ConfigPatch) Apply(cfg *ClinicConfig) {
	if p.OpenTime != nil {
		cfg.OpenTime = *p.OpenTime
	}
	if p.CloseTime != nil {
		cfg.CloseTime = *p.CloseTime
	}
	if p.WeekendOpenTime != nil {
		cfg.WeekendOpenTime = *p.WeekendOpenTime
	}
	if p.WeekendCloseTime != nil {
		cfg.WeekendCloseTime = *p.WeekendCloseTime
	}
	if p.SaturdayOpen != nil {
		cfg.SaturdayOpen = *p.SaturdayOpen
	}
	if p.SundayOpen != nil {
		cfg.SundayOpen = *p.SundayOpen
	}
	if p.Cabins != nil {
		cfg.Cabins = p.Cabins
	}
	if p.Schedule != nil {
		cfg.Schedule = p.Schedule
	}
}
