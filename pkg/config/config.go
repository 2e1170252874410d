// Package config builds the immutable settings value shared by every stage of a poll cycle.
package config

import (
	"time"

	"github.com/travigo/rerdelay/pkg/ctdf"
)

const (
	DefaultTimezone          = "Europe/Paris"
	DefaultLeadTimeHorizon   = 600
	DefaultBinSeconds        = 300
	DefaultServiceDayCutover = "02:30"
	DefaultRawDirectory      = "data/rer_raw"
	DefaultDailyDirectory    = "data/rer_daily"
	DefaultFetchTimeout      = 30
	DefaultTimePrecision     = "millisecond"
)

type Settings struct {
	PrimAPIKey            string `yaml:"prim_api_key" validate:"required"`
	EstimatedTimetableURL string `yaml:"estimated_timetable_url" validate:"required,url"`

	Timezone               string   `yaml:"timezone" validate:"required"`
	LeadTimeHorizonSeconds int      `yaml:"lead_time_horizon_s" validate:"gte=0"`
	BinSeconds             int      `yaml:"bin_seconds" validate:"gt=0,lte=86400"`
	ServiceDayCutover      string   `yaml:"service_day_cutover" validate:"required,clocktime"`
	Lines                  []string `yaml:"lines" validate:"min=1,dive,rerline"`
	TimePrecision          string   `yaml:"time_precision" validate:"oneof=millisecond second"`

	RawDirectory   string `yaml:"raw_directory" validate:"required"`
	DailyDirectory string `yaml:"daily_directory" validate:"required"`

	FetchTimeoutSeconds int `yaml:"fetch_timeout_s" validate:"gt=0"`

	location *time.Location
	cutover  time.Time
}

func Defaults() Settings {
	return Settings{
		Timezone:               DefaultTimezone,
		LeadTimeHorizonSeconds: DefaultLeadTimeHorizon,
		BinSeconds:             DefaultBinSeconds,
		ServiceDayCutover:      DefaultServiceDayCutover,
		Lines:                  append([]string(nil), ctdf.AllRERLines...),
		TimePrecision:          DefaultTimePrecision,
		RawDirectory:           DefaultRawDirectory,
		DailyDirectory:         DefaultDailyDirectory,
		FetchTimeoutSeconds:    DefaultFetchTimeout,
	}
}

// Location is the local timezone used for service days and bins
func (s Settings) Location() *time.Location {
	if s.location == nil {
		return time.UTC
	}
	return s.location
}

// Cutover holds the service-day boundary as a time of day (the date part is meaningless)
func (s Settings) Cutover() time.Time {
	return s.cutover
}

func (s Settings) LeadTimeHorizon() time.Duration {
	return time.Duration(s.LeadTimeHorizonSeconds) * time.Second
}

func (s Settings) BinWidth() time.Duration {
	return time.Duration(s.BinSeconds) * time.Second
}

func (s Settings) FetchTimeout() time.Duration {
	return time.Duration(s.FetchTimeoutSeconds) * time.Second
}

// Precision is the granularity poll timestamps are rounded to
func (s Settings) Precision() time.Duration {
	if s.TimePrecision == "second" {
		return time.Second
	}
	return time.Millisecond
}
