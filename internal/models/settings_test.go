package models

import (
	"testing"
	"time"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.PollingFrequency != Frequency5Min {
		t.Errorf("PollingFrequency = %q, want %q", s.PollingFrequency, Frequency5Min)
	}
	if !s.AutoStart {
		t.Error("AutoStart should default to true")
	}
}

func TestSettings_PollInterval(t *testing.T) {
	tests := []struct {
		name      string
		frequency string
		want      time.Duration
	}{
		{"1min", Frequency1Min, time.Minute},
		{"5min", Frequency5Min, 5 * time.Minute},
		{"10min", Frequency10Min, 10 * time.Minute},
		{"unrecognized", "30sec", 5 * time.Minute},
		{"empty", "", 5 * time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Settings{PollingFrequency: tt.frequency}
			if got := s.PollInterval(); got != tt.want {
				t.Errorf("PollInterval() = %v, want %v", got, tt.want)
			}
		})
	}
}
