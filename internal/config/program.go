package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/Veraticus/builder-tracking/internal/calendar"
	"github.com/Veraticus/builder-tracking/internal/classify"
	"github.com/Veraticus/builder-tracking/internal/common"
	"github.com/Veraticus/builder-tracking/internal/model"
)

// ProgramConfig is the program calendar and arrival schedule as written in
// the config file under the "program" key.
type ProgramConfig struct {
	StartDate        string   `mapstructure:"start_date" validate:"required,datetime=2006-01-02"`
	Timezone         string   `mapstructure:"timezone" validate:"required,timezone"`
	WeekendCutoff    string   `mapstructure:"weekend_cutoff" validate:"required"`
	WeekdayCutoff    string   `mapstructure:"weekday_cutoff" validate:"required"`
	NonClassWeekdays []string `mapstructure:"non_class_weekdays" validate:"max=6,dive,weekday"`
	WeekendDays      []string `mapstructure:"weekend_days" validate:"dive,weekday"`
	Holidays         []string `mapstructure:"holidays" validate:"dive,datetime=2006-01-02"`
	Cancelled        []string `mapstructure:"cancelled" validate:"dive,datetime=2006-01-02"`
	StrictDuplicates bool     `mapstructure:"strict_duplicates"`
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		_, ok := weekdays[strings.ToLower(strings.TrimSpace(fl.Field().String()))]
		return ok
	})
	return v
}

// DefaultProgramConfig returns the observed program: starts 2025-03-15, no
// class on Thursday and Friday, weekend sessions late from 10:00 and weekday
// sessions late from 18:30 New York time.
func DefaultProgramConfig() ProgramConfig {
	return ProgramConfig{
		StartDate:        calendar.DefaultProgramStart.String(),
		Timezone:         classify.DefaultTimezone,
		NonClassWeekdays: []string{"thursday", "friday"},
		WeekendDays:      []string{"saturday", "sunday"},
		WeekendCutoff:    "10:00",
		WeekdayCutoff:    "18:30",
	}
}

// SetProgramDefaults registers the defaults with v so config files only need
// to override what differs.
func SetProgramDefaults(v *viper.Viper) {
	d := DefaultProgramConfig()
	v.SetDefault("program.start_date", d.StartDate)
	v.SetDefault("program.timezone", d.Timezone)
	v.SetDefault("program.non_class_weekdays", d.NonClassWeekdays)
	v.SetDefault("program.weekend_days", d.WeekendDays)
	v.SetDefault("program.weekend_cutoff", d.WeekendCutoff)
	v.SetDefault("program.weekday_cutoff", d.WeekdayCutoff)
	v.SetDefault("program.strict_duplicates", false)
}

// LoadProgramConfig reads and validates the program section of the global viper.
func LoadProgramConfig() (ProgramConfig, error) {
	return LoadProgramConfigFrom(viper.GetViper())
}

// LoadProgramConfigFrom reads and validates the program section of v.
// Keys that are unset keep their defaults.
func LoadProgramConfigFrom(v *viper.Viper) (ProgramConfig, error) {
	cfg := DefaultProgramConfig()

	if s := v.GetString("program.start_date"); s != "" {
		cfg.StartDate = s
	}
	if s := v.GetString("program.timezone"); s != "" {
		cfg.Timezone = s
	}
	if s := v.GetString("program.weekend_cutoff"); s != "" {
		cfg.WeekendCutoff = s
	}
	if s := v.GetString("program.weekday_cutoff"); s != "" {
		cfg.WeekdayCutoff = s
	}
	if v.IsSet("program.non_class_weekdays") {
		cfg.NonClassWeekdays = v.GetStringSlice("program.non_class_weekdays")
	}
	if v.IsSet("program.weekend_days") {
		cfg.WeekendDays = v.GetStringSlice("program.weekend_days")
	}
	cfg.Holidays = v.GetStringSlice("program.holidays")
	cfg.Cancelled = v.GetStringSlice("program.cancelled")
	cfg.StrictDuplicates = v.GetBool("program.strict_duplicates")

	if err := cfg.Validate(); err != nil {
		return ProgramConfig{}, err
	}
	return cfg, nil
}

// Validate checks field formats with struct tags and then parses every value.
func (c ProgramConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("program.%s fails %q (got %v)", fe.Field(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("%w: %s", common.ErrInvalidConfig, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}

	if _, err := c.CalendarConfig(); err != nil {
		return err
	}
	if _, err := c.ArrivalConfig(); err != nil {
		return err
	}
	return nil
}

// CalendarConfig converts the settings into a calendar configuration.
func (c ProgramConfig) CalendarConfig() (calendar.Config, error) {
	start, err := model.ParseDate(c.StartDate)
	if err != nil {
		return calendar.Config{}, fmt.Errorf("%w: program.start_date: %v", common.ErrInvalidConfig, err)
	}

	nonClass, err := parseWeekdays(c.NonClassWeekdays)
	if err != nil {
		return calendar.Config{}, fmt.Errorf("%w: program.non_class_weekdays: %v", common.ErrInvalidConfig, err)
	}

	holidays, err := parseDates(c.Holidays)
	if err != nil {
		return calendar.Config{}, fmt.Errorf("%w: program.holidays: %v", common.ErrInvalidConfig, err)
	}
	cancelled, err := parseDates(c.Cancelled)
	if err != nil {
		return calendar.Config{}, fmt.Errorf("%w: program.cancelled: %v", common.ErrInvalidConfig, err)
	}

	cfg := calendar.Config{
		ProgramStart:     start,
		NonClassWeekdays: nonClass,
		Holidays:         holidays,
		Cancelled:        cancelled,
	}
	if _, err := calendar.New(cfg); err != nil {
		return calendar.Config{}, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}
	return cfg, nil
}

// ArrivalConfig converts the settings into an arrival classifier configuration.
func (c ProgramConfig) ArrivalConfig() (classify.ArrivalConfig, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return classify.ArrivalConfig{}, fmt.Errorf("%w: program.timezone: %v", common.ErrInvalidConfig, err)
	}

	weekend, err := parseWeekdays(c.WeekendDays)
	if err != nil {
		return classify.ArrivalConfig{}, fmt.Errorf("%w: program.weekend_days: %v", common.ErrInvalidConfig, err)
	}

	weekendCutoff, err := classify.ParseTimeOfDay(c.WeekendCutoff)
	if err != nil {
		return classify.ArrivalConfig{}, fmt.Errorf("%w: program.weekend_cutoff: %v", common.ErrInvalidConfig, err)
	}
	weekdayCutoff, err := classify.ParseTimeOfDay(c.WeekdayCutoff)
	if err != nil {
		return classify.ArrivalConfig{}, fmt.Errorf("%w: program.weekday_cutoff: %v", common.ErrInvalidConfig, err)
	}

	return classify.ArrivalConfig{
		Location:      loc,
		WeekendDays:   weekend,
		WeekendCutoff: weekendCutoff,
		WeekdayCutoff: weekdayCutoff,
	}, nil
}

func parseWeekdays(names []string) ([]time.Weekday, error) {
	out := make([]time.Weekday, 0, len(names))
	for _, name := range names {
		wd, ok := weekdays[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", name)
		}
		out = append(out, wd)
	}
	return out, nil
}

func parseDates(values []string) ([]model.Date, error) {
	out := make([]model.Date, 0, len(values))
	for _, s := range values {
		d, err := model.ParseDate(s)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
