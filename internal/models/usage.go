// Package models defines data structures and domain types.
package models

import (
	"encoding/json"
	"maps"
	"time"
)

// ModeDaily identifies snapshots produced by daily aggregation via direct
// ccusage invocation. It is currently the only fetch mode.
const ModeDaily = "daily"

// UsageSnapshot is one fully-formed usage result. Snapshots are immutable:
// every fetch builds a fresh one that replaces the previous snapshot
// wholesale, so consumers never observe partial updates.
type UsageSnapshot struct {
	Today       DayRecord      `json:"today"`
	Session     *SessionRecord `json:"session"`
	Recent      []DayRecord    `json:"recent"`
	Totals      TotalsRecord   `json:"totals"`
	LastUpdated string         `json:"lastUpdated"`
	Mode        string         `json:"mode"`
	Error       string         `json:"error,omitempty"`
}

// Degraded reports whether this snapshot was produced from a failed fetch.
// A degraded snapshot is still a valid value; the error message is the only
// signal of degradation.
func (s *UsageSnapshot) Degraded() bool {
	return s.Error != ""
}

// Clone returns a deep copy of the snapshot.
func (s *UsageSnapshot) Clone() UsageSnapshot {
	clone := *s
	if s.Session != nil {
		session := s.Session.Clone()
		clone.Session = &session
	}
	if s.Recent != nil {
		clone.Recent = make([]DayRecord, len(s.Recent))
		for i := range s.Recent {
			clone.Recent[i] = s.Recent[i].Clone()
		}
	}
	clone.Today = s.Today.Clone()
	return clone
}

// DayRecord is the per-day usage aggregate as reported by the accounting
// tool. Token counters default to zero when absent upstream.
type DayRecord struct {
	Date                string          `json:"date"`
	Cost                float64         `json:"cost"`
	InputTokens         float64         `json:"inputTokens"`
	OutputTokens        float64         `json:"outputTokens"`
	CacheCreationTokens float64         `json:"cacheCreationTokens"`
	CacheReadTokens     float64         `json:"cacheReadTokens"`
	TotalTokens         float64         `json:"totalTokens"`
	ModelsUsed          []string        `json:"modelsUsed"`
	ModelBreakdowns     json.RawMessage `json:"modelBreakdowns,omitempty"`
	Models              map[string]bool `json:"models"`
}

// NewZeroDay returns an all-zero DayRecord for the given calendar date.
// Used both when the upstream data has no entry for today and for the
// degraded-snapshot path.
func NewZeroDay(date string) DayRecord {
	return DayRecord{
		Date:       date,
		ModelsUsed: []string{},
		Models:     map[string]bool{},
	}
}

// RebuildModels recomputes the Models presence map from ModelsUsed.
// Every identifier in ModelsUsed maps to true, so consumers can do either
// sequence iteration or key lookup. Must be called whenever a DayRecord is
// constructed or decoded.
func (d *DayRecord) RebuildModels() {
	d.Models = make(map[string]bool, len(d.ModelsUsed))
	for _, model := range d.ModelsUsed {
		d.Models[model] = true
	}
}

// Clone returns a deep copy of the day record.
func (d *DayRecord) Clone() DayRecord {
	clone := *d
	if d.ModelsUsed != nil {
		clone.ModelsUsed = make([]string, len(d.ModelsUsed))
		copy(clone.ModelsUsed, d.ModelsUsed)
	}
	if d.Models != nil {
		clone.Models = make(map[string]bool, len(d.Models))
		maps.Copy(clone.Models, d.Models)
	}
	if d.ModelBreakdowns != nil {
		clone.ModelBreakdowns = make(json.RawMessage, len(d.ModelBreakdowns))
		copy(clone.ModelBreakdowns, d.ModelBreakdowns)
	}
	return clone
}

// SessionRecord describes an active or past billing session. It is absent
// entirely when the fetch path cannot produce session-level data; that is a
// mode characteristic, not an error.
type SessionRecord struct {
	ID        *string `json:"id"`
	Cost      float64 `json:"cost"`
	IsActive  bool    `json:"isActive"`
	StartTime *string `json:"startTime"`
	EndTime   *string `json:"endTime"`
}

// Clone returns a deep copy of the session record.
func (s *SessionRecord) Clone() SessionRecord {
	clone := *s
	if s.ID != nil {
		id := *s.ID
		clone.ID = &id
	}
	if s.StartTime != nil {
		start := *s.StartTime
		clone.StartTime = &start
	}
	if s.EndTime != nil {
		end := *s.EndTime
		clone.EndTime = &end
	}
	return clone
}

// TotalsRecord aggregates cost and token counters across all known days.
// Cost and TotalCost are kept equal; the duplicate exists for downstream
// consumers that expect either name.
type TotalsRecord struct {
	Cost                float64 `json:"cost"`
	TotalCost           float64 `json:"totalCost"`
	WeeklyCost          float64 `json:"weekly_cost"`
	MonthlyCost         float64 `json:"monthly_cost"`
	InputTokens         float64 `json:"inputTokens"`
	OutputTokens        float64 `json:"outputTokens"`
	CacheCreationTokens float64 `json:"cacheCreationTokens"`
	CacheReadTokens     float64 `json:"cacheReadTokens"`
}

// NewDegradedSnapshot builds the zeroed snapshot used when a fetch fails in a
// recoverable way: all-zero today, empty recent, all-zero totals, no session,
// and the failure message carried in Error.
func NewDegradedSnapshot(now time.Time, message string) *UsageSnapshot {
	return &UsageSnapshot{
		Today:       NewZeroDay(DateKey(now)),
		Session:     nil,
		Recent:      []DayRecord{},
		Totals:      TotalsRecord{},
		LastUpdated: now.UTC().Format(time.RFC3339),
		Mode:        ModeDaily,
		Error:       message,
	}
}

// DateKey formats a time as the ISO calendar date used to key DayRecords.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// MonthKey returns the year-month prefix of an ISO calendar date.
func MonthKey(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}
