package dashboard

import (
	"strings"
	"testing"
	"time"

	"github.com/d-hallet/ccwatch-tui/internal/app"
	"github.com/d-hallet/ccwatch-tui/internal/models"
)

func testSnapshot() *models.UsageSnapshot {
	return &models.UsageSnapshot{
		Today: models.DayRecord{
			Date:         "2026-01-15",
			Cost:         4.32,
			InputTokens:  120_000,
			OutputTokens: 45_000,
			TotalTokens:  165_000,
			ModelsUsed:   []string{"claude-sonnet-4"},
		},
		Recent: []models.DayRecord{
			{Date: "2026-01-14", Cost: 2.10, TotalTokens: 80_000},
			{Date: "2026-01-15", Cost: 4.32, TotalTokens: 165_000},
		},
		Totals: models.TotalsRecord{
			TotalCost:   310.55,
			WeeklyCost:  21.40,
			MonthlyCost: 88.12,
			InputTokens: 9_000_000,
		},
		LastUpdated: time.Now().Format(time.RFC3339),
	}
}

func newTestModel(t *testing.T, snapshot *models.UsageSnapshot) *Model {
	t.Helper()

	state := app.NewState()
	if snapshot != nil {
		state.SetSnapshot(snapshot)
	} else {
		state.SetLoading("initial", false)
	}

	m := New(state)
	m.SetSize(100, 60)
	return m
}

func TestView_ShowsSpinnerWhileLoading(t *testing.T) {
	state := app.NewState()
	m := New(state)
	m.SetSize(100, 40)

	view := m.View()
	if !strings.Contains(view, "Collecting usage") {
		t.Errorf("expected loading message, got %q", view)
	}
}

func TestView_EmptyState(t *testing.T) {
	m := newTestModel(t, nil)

	view := m.View()
	if !strings.Contains(view, "No usage data yet") {
		t.Errorf("expected empty state message, got %q", view)
	}
}

func TestView_RendersUsage(t *testing.T) {
	m := newTestModel(t, testSnapshot())

	view := m.View()

	for _, want := range []string{
		"Today",
		"$4.32",
		"Totals",
		"$310.55",
		"Recent Days",
		"claude-sonnet-4",
		"2026-01-14",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestView_DegradedBanner(t *testing.T) {
	m := newTestModel(t, models.NewDegradedSnapshot(time.Now(), "ccusage produced no JSON"))

	view := m.View()
	if !strings.Contains(view, "no data") {
		t.Errorf("expected degraded banner, got %q", view)
	}
	if !strings.Contains(view, "$0.00") {
		t.Errorf("expected zero cost in degraded view")
	}
}

func TestFormatTokens(t *testing.T) {
	tests := []struct {
		tokens float64
		want   string
	}{
		{0, "0"},
		{532, "532"},
		{45_600, "45.6K"},
		{1_200_000, "1.2M"},
	}

	for _, tt := range tests {
		if got := formatTokens(tt.tokens); got != tt.want {
			t.Errorf("formatTokens(%v) = %q, want %q", tt.tokens, got, tt.want)
		}
	}
}
