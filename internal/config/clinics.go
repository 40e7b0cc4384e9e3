package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"organicare/internal/model"
	"organicare/internal/timegrid"
)

const defaultCabinColor = "#CCCCCC"

// ClinicsConfig is the root configuration for clinics.yaml: the catalogue
// of clinics the console can switch between.
type ClinicsConfig struct {
	Clinics         []model.Clinic `yaml:"clinics"`
	DefaultClinicID int64          `yaml:"default_clinic_id"`
}

// LoadClinicsConfig loads and validates the clinic catalogue from a YAML
// file.
func LoadClinicsConfig(path string) (*ClinicsConfig, error) {
	if path == "" {
		path = "configs/clinics.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read clinics config: %w", err)
	}

	var cfg ClinicsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse clinics config: %w", err)
	}

	// Defaults fill first so that partially specified weekend hours
	// validate as the complete pair they become.
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate clinics config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the catalogue for errors.
func (c *ClinicsConfig) Validate() error {
	if len(c.Clinics) == 0 {
		return fmt.Errorf("no clinics defined")
	}

	ids := make(map[int64]bool)
	for i, clinic := range c.Clinics {
		if clinic.ID <= 0 {
			return fmt.Errorf("clinic[%d]: id must be positive, got %d", i, clinic.ID)
		}
		if ids[clinic.ID] {
			return fmt.Errorf("clinic[%d]: duplicate id %d", i, clinic.ID)
		}
		ids[clinic.ID] = true

		if clinic.Name == "" {
			return fmt.Errorf("clinic[%d]: name is required", i)
		}

		if err := validateHours(clinic.Config.OpenTime, clinic.Config.CloseTime,
			fmt.Sprintf("clinic[%d]", i)); err != nil {
			return err
		}
		if clinic.Config.WeekendOpenTime != "" || clinic.Config.WeekendCloseTime != "" {
			if err := validateHours(clinic.Config.WeekendOpenTime, clinic.Config.WeekendCloseTime,
				fmt.Sprintf("clinic[%d] weekend", i)); err != nil {
				return err
			}
		}

		if err := validateCabins(clinic.Config.Cabins, fmt.Sprintf("clinic[%d]", i)); err != nil {
			return err
		}
	}

	if c.DefaultClinicID != 0 && !ids[c.DefaultClinicID] {
		return fmt.Errorf("default_clinic_id %d does not match any clinic", c.DefaultClinicID)
	}

	return nil
}

func validateHours(open, close, prefix string) error {
	if open == "" {
		return fmt.Errorf("%s: open time is required", prefix)
	}
	if close == "" {
		return fmt.Errorf("%s: close time is required", prefix)
	}
	start, err := timegrid.ParseClock(open)
	if err != nil {
		return fmt.Errorf("%s: invalid open time %q, expected HH:MM", prefix, open)
	}
	end, err := timegrid.ParseClock(close)
	if err != nil {
		return fmt.Errorf("%s: invalid close time %q, expected HH:MM", prefix, close)
	}
	if end <= start {
		return fmt.Errorf("%s: close time must be after open time", prefix)
	}
	return nil
}

func validateCabins(cabins []model.Cabin, prefix string) error {
	if len(cabins) == 0 {
		return fmt.Errorf("%s: at least one cabin is required", prefix)
	}

	ids := make(map[int64]bool)
	for i, cab := range cabins {
		if cab.ID <= 0 {
			return fmt.Errorf("%s.cabin[%d]: id must be positive, got %d", prefix, i, cab.ID)
		}
		if ids[cab.ID] {
			return fmt.Errorf("%s.cabin[%d]: duplicate id %d", prefix, i, cab.ID)
		}
		ids[cab.ID] = true

		if cab.Name == "" {
			return fmt.Errorf("%s.cabin[%d]: name is required", prefix, i)
		}
		if cab.Order < 0 {
			return fmt.Errorf("%s.cabin[%d]: order cannot be negative", prefix, i)
		}
	}
	return nil
}

// applyDefaults fills omitted optional fields: weekend hours fall back to
// the weekday hours, cabin colors to a neutral grey, display order to the
// declaration order, and the default clinic to the first one listed.
func (c *ClinicsConfig) applyDefaults() {
	if len(c.Clinics) == 0 {
		return
	}
	for i := range c.Clinics {
		cfg := &c.Clinics[i].Config
		if cfg.WeekendOpenTime == "" {
			cfg.WeekendOpenTime = cfg.OpenTime
		}
		if cfg.WeekendCloseTime == "" {
			cfg.WeekendCloseTime = cfg.CloseTime
		}
		for j := range cfg.Cabins {
			if cfg.Cabins[j].Color == "" {
				cfg.Cabins[j].Color = defaultCabinColor
			}
			if cfg.Cabins[j].Order == 0 {
				cfg.Cabins[j].Order = j + 1
			}
			if cfg.Cabins[j].Code == "" {
				cfg.Cabins[j].Code = cfg.Cabins[j].Name
			}
		}
	}

	if c.DefaultClinicID == 0 {
		c.DefaultClinicID = c.Clinics[0].ID
	}
}

// GetClinicByID returns the catalogue entry with the given id.
func (c *ClinicsConfig) GetClinicByID(id int64) *model.Clinic {
	for i := range c.Clinics {
		if c.Clinics[i].ID == id {
			return &c.Clinics[i]
		}
	}
	return nil
}

// String returns a summary of the catalogue.
func (c *ClinicsConfig) String() string {
	cabins := 0
	for _, clinic := range c.Clinics {
		cabins += len(clinic.Config.Cabins)
	}
	return fmt.Sprintf("ClinicsConfig: %d clinics, %d cabins, default %d",
		len(c.Clinics), cabins, c.DefaultClinicID)
}
