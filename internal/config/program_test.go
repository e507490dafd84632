package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/builder-tracking/internal/common"
	"github.com/Veraticus/builder-tracking/internal/model"
)

func TestLoadProgramConfigFrom_Defaults(t *testing.T) {
	cfg, err := LoadProgramConfigFrom(viper.New())
	require.NoError(t, err)
	assert.Equal(t, DefaultProgramConfig(), cfg)

	cal, err := cfg.CalendarConfig()
	require.NoError(t, err)
	assert.Equal(t, model.MustParseDate("2025-03-15"), cal.ProgramStart)
	assert.Equal(t, []time.Weekday{time.Thursday, time.Friday}, cal.NonClassWeekdays)

	arrival, err := cfg.ArrivalConfig()
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", arrival.Location.String())
	assert.Equal(t, "10:00", arrival.WeekendCutoff.String())
	assert.Equal(t, "18:30", arrival.WeekdayCutoff.String())
	assert.Equal(t, []time.Weekday{time.Saturday, time.Sunday}, arrival.WeekendDays)
}

func TestLoadProgramConfigFrom_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("program.start_date", "2025-04-01")
	v.Set("program.timezone", "America/Chicago")
	v.Set("program.non_class_weekdays", []string{"Friday"})
	v.Set("program.weekday_cutoff", "19:00")
	v.Set("program.holidays", []string{"2025-05-26"})
	v.Set("program.cancelled", []string{"2025-04-05"})
	v.Set("program.strict_duplicates", true)

	cfg, err := LoadProgramConfigFrom(v)
	require.NoError(t, err)
	assert.True(t, cfg.StrictDuplicates)
	assert.Equal(t, "10:00", cfg.WeekendCutoff, "unset keys keep defaults")

	cal, err := cfg.CalendarConfig()
	require.NoError(t, err)
	assert.Equal(t, []time.Weekday{time.Friday}, cal.NonClassWeekdays)
	assert.Equal(t, []model.Date{model.MustParseDate("2025-05-26")}, cal.Holidays)
	assert.Equal(t, []model.Date{model.MustParseDate("2025-04-05")}, cal.Cancelled)
}

func TestProgramConfig_Validate(t *testing.T) {
	tests := []struct {
		mutate func(*ProgramConfig)
		name   string
	}{
		{name: "bad start date", mutate: func(c *ProgramConfig) { c.StartDate = "15/03/2025" }},
		{name: "missing start date", mutate: func(c *ProgramConfig) { c.StartDate = "" }},
		{name: "unknown timezone", mutate: func(c *ProgramConfig) { c.Timezone = "Mars/Base" }},
		{name: "unknown weekday", mutate: func(c *ProgramConfig) { c.NonClassWeekdays = []string{"funday"} }},
		{name: "bad holiday", mutate: func(c *ProgramConfig) { c.Holidays = []string{"2025-02-30"} }},
		{name: "bad cutoff", mutate: func(c *ProgramConfig) { c.WeekendCutoff = "25:00" }},
		{
			name: "every weekday non-class",
			mutate: func(c *ProgramConfig) {
				c.NonClassWeekdays = []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday"}
				c.NonClassWeekdays = append(c.NonClassWeekdays, "saturday")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultProgramConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), common.ErrInvalidConfig)
		})
	}

	assert.NoError(t, DefaultProgramConfig().Validate())
}

func TestSetProgramDefaults(t *testing.T) {
	v := viper.New()
	SetProgramDefaults(v)
	assert.Equal(t, "2025-03-15", v.GetString("program.start_date"))
	assert.Equal(t, []string{"thursday", "friday"}, v.GetStringSlice("program.non_class_weekdays"))
}
