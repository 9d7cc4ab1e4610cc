package models

import "time"

// Polling frequency values accepted from consumers. Unrecognized values are
// not rejected at write time; they resolve to the default interval when the
// poller looks them up, so incompatible settings never crash the loop.
const (
	Frequency1Min  = "1min"
	Frequency5Min  = "5min"
	Frequency10Min = "10min"
)

// DefaultPollInterval is used when the polling frequency is unrecognized.
const DefaultPollInterval = 5 * time.Minute

// Settings holds the user-adjustable monitor configuration. Settings live
// only in memory for the process lifetime and are replaced wholesale on
// update.
type Settings struct {
	PollingFrequency string `json:"polling_frequency"`
	AutoStart        bool   `json:"auto_start"`
}

// DefaultSettings returns the settings used when none were ever set.
func DefaultSettings() Settings {
	return Settings{
		PollingFrequency: Frequency5Min,
		AutoStart:        true,
	}
}

// PollInterval resolves the polling frequency to a concrete duration.
func (s Settings) PollInterval() time.Duration {
	switch s.PollingFrequency {
	case Frequency1Min:
		return time.Minute
	case Frequency5Min:
		return 5 * time.Minute
	case Frequency10Min:
		return 10 * time.Minute
	default:
		return DefaultPollInterval
	}
}
