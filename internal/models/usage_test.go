package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDayRecord_RebuildModels(t *testing.T) {
	tests := []struct {
		name   string
		models []string
		want   map[string]bool
	}{
		{"empty", nil, map[string]bool{}},
		{"single", []string{"claude-sonnet-4"}, map[string]bool{"claude-sonnet-4": true}},
		{
			"multiple",
			[]string{"claude-sonnet-4", "claude-opus-4"},
			map[string]bool{"claude-sonnet-4": true, "claude-opus-4": true},
		},
		{"duplicates", []string{"a", "a"}, map[string]bool{"a": true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DayRecord{Date: "2024-01-01", ModelsUsed: tt.models}
			d.RebuildModels()
			if len(d.Models) != len(tt.want) {
				t.Fatalf("Models has %d keys, want %d", len(d.Models), len(tt.want))
			}
			for k, v := range tt.want {
				if d.Models[k] != v {
					t.Errorf("Models[%q] = %v, want %v", k, d.Models[k], v)
				}
			}
		})
	}
}

func TestNewZeroDay(t *testing.T) {
	d := NewZeroDay("2024-06-15")
	if d.Date != "2024-06-15" {
		t.Errorf("Date = %q, want 2024-06-15", d.Date)
	}
	if d.Cost != 0 || d.TotalTokens != 0 {
		t.Errorf("zero day has non-zero counters: cost=%v tokens=%v", d.Cost, d.TotalTokens)
	}
	if d.ModelsUsed == nil || d.Models == nil {
		t.Error("zero day should have empty (non-nil) ModelsUsed and Models")
	}
}

func TestUsageSnapshot_Degraded(t *testing.T) {
	s := &UsageSnapshot{}
	if s.Degraded() {
		t.Error("snapshot without error reported as degraded")
	}
	s.Error = "ccusage not found"
	if !s.Degraded() {
		t.Error("snapshot with error not reported as degraded")
	}
}

func TestNewDegradedSnapshot(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	s := NewDegradedSnapshot(now, "boom")

	if s.Error != "boom" {
		t.Errorf("Error = %q, want boom", s.Error)
	}
	if s.Today.Date != "2024-01-15" {
		t.Errorf("Today.Date = %q, want 2024-01-15", s.Today.Date)
	}
	if s.Today.Cost != 0 {
		t.Errorf("Today.Cost = %v, want 0", s.Today.Cost)
	}
	if len(s.Recent) != 0 {
		t.Errorf("Recent has %d entries, want 0", len(s.Recent))
	}
	if s.Session != nil {
		t.Error("degraded snapshot should have no session")
	}
	if s.Mode != ModeDaily {
		t.Errorf("Mode = %q, want %q", s.Mode, ModeDaily)
	}
	if s.Totals.Cost != 0 || s.Totals.TotalCost != 0 {
		t.Error("degraded snapshot should have zero totals")
	}
}

func TestUsageSnapshot_Clone(t *testing.T) {
	id := "sess-1"
	s := &UsageSnapshot{
		Today: DayRecord{
			Date:       "2024-01-01",
			Cost:       1.5,
			ModelsUsed: []string{"claude-sonnet-4"},
			Models:     map[string]bool{"claude-sonnet-4": true},
		},
		Session: &SessionRecord{ID: &id, Cost: 0.5, IsActive: true},
		Recent:  []DayRecord{{Date: "2024-01-01", Cost: 1.5}},
		Totals:  TotalsRecord{Cost: 1.5, TotalCost: 1.5},
	}

	clone := s.Clone()
	clone.Today.ModelsUsed[0] = "mutated"
	clone.Today.Models["mutated"] = true
	clone.Recent[0].Cost = 99
	*clone.Session.ID = "mutated"

	if s.Today.ModelsUsed[0] != "claude-sonnet-4" {
		t.Error("clone shares ModelsUsed backing array")
	}
	if s.Today.Models["mutated"] {
		t.Error("clone shares Models map")
	}
	if s.Recent[0].Cost != 1.5 {
		t.Error("clone shares Recent backing array")
	}
	if *s.Session.ID != "sess-1" {
		t.Error("clone shares Session pointer contents")
	}
}

func TestUsageSnapshot_WirePayload(t *testing.T) {
	s := &UsageSnapshot{
		Today:       NewZeroDay("2024-01-01"),
		Recent:      []DayRecord{},
		LastUpdated: "2024-01-01T00:00:00Z",
		Mode:        ModeDaily,
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	for _, field := range []string{"today", "session", "recent", "totals", "lastUpdated", "mode"} {
		if _, ok := payload[field]; !ok {
			t.Errorf("wire payload missing field %q", field)
		}
	}
	if payload["session"] != nil {
		t.Errorf("session = %v, want null", payload["session"])
	}

	today, ok := payload["today"].(map[string]any)
	if !ok {
		t.Fatal("today is not an object")
	}
	for _, field := range []string{
		"date", "cost", "inputTokens", "outputTokens",
		"cacheCreationTokens", "cacheReadTokens", "totalTokens", "modelsUsed", "models",
	} {
		if _, ok := today[field]; !ok {
			t.Errorf("DayRecord wire payload missing field %q", field)
		}
	}
}

func TestDateKey(t *testing.T) {
	got := DateKey(time.Date(2024, 3, 7, 23, 59, 0, 0, time.UTC))
	if got != "2024-03-07" {
		t.Errorf("DateKey = %q, want 2024-03-07", got)
	}
}

func TestMonthKey(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2024-01-15", "2024-01"},
		{"2024-12-31", "2024-12"},
		{"bad", "bad"},
	}
	for _, tt := range tests {
		if got := MonthKey(tt.date); got != tt.want {
			t.Errorf("MonthKey(%q) = %q, want %q", tt.date, got, tt.want)
		}
	}
}
