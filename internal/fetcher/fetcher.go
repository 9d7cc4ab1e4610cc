// Package fetcher invokes the external ccusage tool and normalizes its
// output into the canonical usage snapshot.
package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/d-hallet/ccwatch-tui/internal/models"
)

// Fetch error taxonomy. ErrProcessFailed is the only hard failure Fetch
// propagates; the rest degrade into a zeroed snapshot carrying the message.
var (
	// ErrProcessFailed means the external command exited non-zero with
	// genuine stderr content.
	ErrProcessFailed = errors.New("ccusage command failed")
	// ErrNoJSONFound means no stdout line looked like a JSON payload.
	ErrNoJSONFound = errors.New("no JSON found in output")
	// ErrMalformedJSON means the candidate line failed to parse.
	ErrMalformedJSON = errors.New("malformed JSON in output")
)

// excerptLimit caps how much of an offending payload is carried in a
// malformed-JSON error message.
const excerptLimit = 500

// CommandRunner executes the external accounting command. It exists so tests
// can inject canned output. A non-zero exit is reported via exitCode with a
// nil error; err is reserved for failing to run the command at all.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, exitCode int, err error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes the command and captures both output streams.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stdout.Bytes(), stderr.Bytes(), exitErr.ExitCode(), nil
		}
		return nil, nil, 0, err
	}
	return stdout.Bytes(), stderr.Bytes(), 0, nil
}

// Fetcher invokes the accounting command and produces usage snapshots.
type Fetcher struct {
	command []string
	runner  CommandRunner
	now     func() time.Time
}

// New creates a fetcher for the given command line (program plus arguments).
func New(command []string) *Fetcher {
	return &Fetcher{
		command: command,
		runner:  ExecRunner{},
		now:     time.Now,
	}
}

// Fetch runs one invocation of the external command and returns the
// normalized snapshot. Hard process failures are returned as errors
// (wrapping ErrProcessFailed); every other failure yields a degraded
// snapshot with Error set and a nil error, so callers face a single
// degradation signal.
func (f *Fetcher) Fetch(ctx context.Context) (*models.UsageSnapshot, error) {
	now := f.now()

	raw, err := f.invoke(ctx)
	if err != nil {
		if errors.Is(err, ErrProcessFailed) {
			return nil, err
		}
		return models.NewDegradedSnapshot(now, err.Error()), nil
	}

	snapshot, err := Normalize(raw, now)
	if err != nil {
		return models.NewDegradedSnapshot(now, err.Error()), nil
	}
	return snapshot, nil
}

// invoke runs the command and extracts the candidate JSON payload from its
// stdout.
func (f *Fetcher) invoke(ctx context.Context) ([]byte, error) {
	if len(f.command) == 0 {
		return nil, fmt.Errorf("%w: no command configured", ErrProcessFailed)
	}

	stdout, stderr, exitCode, err := f.runner.Run(ctx, f.command[0], f.command[1:]...)
	if err != nil {
		// Could not run the command at all (not installed, bad path).
		return nil, fmt.Errorf("%w: %v", ErrProcessFailed, err)
	}
	if exitCode != 0 {
		// ccusage writes warnings to stderr even on failure exits; only
		// genuine non-warning stderr content counts as a real error.
		stderrText := strings.TrimSpace(string(stderr))
		if stderrText != "" && !strings.Contains(stderrText, "WARN") {
			return nil, fmt.Errorf("%w: %s", ErrProcessFailed, stderrText)
		}
	}

	return extractJSONLine(stdout)
}

// extractJSONLine scans stdout from the end for the last line whose trimmed
// content looks like a JSON payload. The tool may emit diagnostic lines
// before the data line; only the trailing payload matters.
func extractJSONLine(stdout []byte) ([]byte, error) {
	lines := strings.Split(string(stdout), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		trimmed := strings.TrimSpace(lines[i])
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			return []byte(trimmed), nil
		}
	}
	return nil, ErrNoJSONFound
}

// rawDay mirrors the upstream day-entry shape. Field naming has varied
// across ccusage versions, so cost is derived from totalCost, then cost,
// then zero.
type rawDay struct {
	Date                string          `json:"date"`
	Cost                *float64        `json:"cost"`
	TotalCost           *float64        `json:"totalCost"`
	InputTokens         float64         `json:"inputTokens"`
	OutputTokens        float64         `json:"outputTokens"`
	CacheCreationTokens float64         `json:"cacheCreationTokens"`
	CacheReadTokens     float64         `json:"cacheReadTokens"`
	TotalTokens         float64         `json:"totalTokens"`
	ModelsUsed          []string        `json:"modelsUsed"`
	ModelBreakdowns     json.RawMessage `json:"modelBreakdowns"`
}

// Normalize converts a raw upstream payload into the canonical snapshot.
// Both historical payload shapes are accepted: a bare array of day entries,
// or an object with a "daily" key holding that array.
func Normalize(payload []byte, now time.Time) (*models.UsageSnapshot, error) {
	days, err := decodeDays(payload)
	if err != nil {
		return nil, err
	}

	todayKey := models.DateKey(now)
	records := make([]models.DayRecord, 0, len(days))
	for _, raw := range days {
		records = append(records, dayFromRaw(raw))
	}

	today := models.NewZeroDay(todayKey)
	for i := range records {
		if records[i].Date == todayKey {
			today = records[i].Clone()
			break
		}
	}

	recent := records
	if len(recent) > 7 {
		recent = recent[len(recent)-7:]
	}

	var totals models.TotalsRecord
	for i := range records {
		totals.InputTokens += records[i].InputTokens
		totals.OutputTokens += records[i].OutputTokens
		totals.CacheCreationTokens += records[i].CacheCreationTokens
		totals.CacheReadTokens += records[i].CacheReadTokens
		totals.TotalCost += records[i].Cost
	}
	totals.Cost = totals.TotalCost

	for i := range recent {
		totals.WeeklyCost += recent[i].Cost
	}

	month := models.MonthKey(todayKey)
	for i := range records {
		if models.MonthKey(records[i].Date) == month {
			totals.MonthlyCost += records[i].Cost
		}
	}

	return &models.UsageSnapshot{
		Today:   today,
		Session: nil, // direct invocation cannot produce session granularity
		Recent:  recent,
		Totals:  totals,
		// Same timezone basis as the today lookup
		LastUpdated: now.UTC().Format(time.RFC3339),
		Mode:        models.ModeDaily,
	}, nil
}

// decodeDays resolves the two historical payload shapes to one day sequence.
func decodeDays(payload []byte) ([]rawDay, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, ErrNoJSONFound
	}

	if trimmed[0] == '[' {
		var days []rawDay
		if err := json.Unmarshal(trimmed, &days); err != nil {
			return nil, malformed(trimmed, err)
		}
		return days, nil
	}

	var wrapper struct {
		Daily []rawDay `json:"daily"`
	}
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return nil, malformed(trimmed, err)
	}
	return wrapper.Daily, nil
}

func dayFromRaw(raw rawDay) models.DayRecord {
	cost := 0.0
	switch {
	case raw.TotalCost != nil:
		cost = *raw.TotalCost
	case raw.Cost != nil:
		cost = *raw.Cost
	}

	d := models.DayRecord{
		Date:                raw.Date,
		Cost:                cost,
		InputTokens:         raw.InputTokens,
		OutputTokens:        raw.OutputTokens,
		CacheCreationTokens: raw.CacheCreationTokens,
		CacheReadTokens:     raw.CacheReadTokens,
		TotalTokens:         raw.TotalTokens,
		ModelsUsed:          raw.ModelsUsed,
		ModelBreakdowns:     raw.ModelBreakdowns,
	}
	if d.ModelsUsed == nil {
		d.ModelsUsed = []string{}
	}
	d.RebuildModels()
	return d
}

func malformed(payload []byte, err error) error {
	excerpt := string(payload)
	if len(excerpt) > excerptLimit {
		excerpt = excerpt[:excerptLimit]
	}
	return fmt.Errorf("%w: %v - JSON: %s", ErrMalformedJSON, err, excerpt)
}
