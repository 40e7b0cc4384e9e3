// Package templates loads the named week-schedule templates a clinic's
// settings screen can apply as a starting point.
package templates

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"organicare/internal/model"
	"organicare/internal/timegrid"
)

// Catalogue is the loaded template set.
type Catalogue struct {
	templates []model.ScheduleTemplate
}

type templatesFile struct {
	Templates []model.ScheduleTemplate `yaml:"templates"`
}

// Load reads and validates templates.yaml. A missing file yields an
// empty catalogue: templates are an optional convenience.
func Load(path string) (*Catalogue, error) {
	if path == "" {
		path = "configs/templates.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Catalogue{}, nil
		}
		return nil, fmt.Errorf("read templates config: %w", err)
	}

	var file templatesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse templates config: %w", err)
	}

	ids := make(map[string]bool)
	for i, tpl := range file.Templates {
		if tpl.ID == "" {
			return nil, fmt.Errorf("template[%d]: id is required", i)
		}
		if ids[tpl.ID] {
			return nil, fmt.Errorf("template[%d]: duplicate id %q", i, tpl.ID)
		}
		ids[tpl.ID] = true
		if tpl.Name == "" {
			return nil, fmt.Errorf("template[%d]: name is required", i)
		}
		if err := validateWeek(&tpl.Schedule, fmt.Sprintf("template[%d]", i)); err != nil {
			return nil, err
		}
	}

	return &Catalogue{templates: file.Templates}, nil
}

func validateWeek(week *model.WeekSchedule, prefix string) error {
	days := []struct {
		name string
		day  model.DaySchedule
	}{
		{"monday", week.Monday}, {"tuesday", week.Tuesday}, {"wednesday", week.Wednesday},
		{"thursday", week.Thursday}, {"friday", week.Friday},
		{"saturday", week.Saturday}, {"sunday", week.Sunday},
	}

	for _, d := range days {
		if !d.day.Open {
			continue
		}
		if len(d.day.Ranges) == 0 {
			return fmt.Errorf("%s.%s: open day needs at least one time range", prefix, d.name)
		}
		for j, r := range d.day.Ranges {
			start, err := timegrid.ParseClock(r.Start)
			if err != nil {
				return fmt.Errorf("%s.%s.ranges[%d]: invalid start %q, expected HH:MM", prefix, d.name, j, r.Start)
			}
			end, err := timegrid.ParseClock(r.End)
			if err != nil {
				return fmt.Errorf("%s.%s.ranges[%d]: invalid end %q, expected HH:MM", prefix, d.name, j, r.End)
			}
			if end <= start {
				return fmt.Errorf("%s.%s.ranges[%d]: end must be after start", prefix, d.name, j)
			}
		}
	}
	return nil
}

// All returns the templates in file order.
func (c *Catalogue) All() []model.ScheduleTemplate {
	return append([]model.ScheduleTemplate(nil), c.templates...)
}

// ByID returns one template, or nil.
func (c *Catalogue) ByID(id string) *model.ScheduleTemplate {
	for i := range c.templates {
		if c.templates[i].ID == id {
			return &c.templates[i]
		}
	}
	return nil
}
