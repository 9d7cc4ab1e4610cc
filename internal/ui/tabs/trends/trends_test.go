package trends

import (
	"strings"
	"testing"
	"time"

	"github.com/d-hallet/ccwatch-tui/internal/app"
	"github.com/d-hallet/ccwatch-tui/internal/models"
)

func newTestModel(t *testing.T) (*Model, *app.State) {
	t.Helper()

	state := app.NewState()
	m := New(state)
	m.SetSize(100, 50)
	return m, state
}

func TestView_NoHistory(t *testing.T) {
	m, _ := newTestModel(t)

	view := m.View()
	if !strings.Contains(view, "Not enough recorded days") {
		t.Errorf("expected empty chart message, got %q", view)
	}
	if !strings.Contains(view, "No usage recorded this month") {
		t.Errorf("expected empty month message")
	}
}

func TestView_RendersHistoryAndProjection(t *testing.T) {
	m, state := newTestModel(t)

	state.SetHistory([]models.DayRecord{
		{Date: "2026-01-10", Cost: 1.00},
		{Date: "2026-01-11", Cost: 2.00},
		{Date: "2026-01-12", Cost: 3.00},
	}, 6.00, 3)

	view := m.View()

	for _, want := range []string{
		"Daily Cost",
		"2026-01-10 to 2026-01-12",
		"This Month",
		"$6.00",
		"$2.00", // average per day
		"Average / day",
		"Projected",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestView_ThresholdWarning(t *testing.T) {
	m, state := newTestModel(t)

	state.SetAlertThreshold(1.50)
	state.SetHistory([]models.DayRecord{
		{Date: "2026-01-10", Cost: 2.00},
		{Date: "2026-01-11", Cost: 2.00},
	}, 4.00, 2)

	view := m.View()
	if !strings.Contains(view, "exceeds alert threshold") {
		t.Errorf("expected threshold warning, got %q", view)
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"2026-01-15", 31},
		{"2026-02-10", 28},
		{"2024-02-10", 29},
		{"2026-04-01", 30},
	}

	for _, tt := range tests {
		parsed, err := time.Parse("2006-01-02", tt.date)
		if err != nil {
			t.Fatalf("parse %s: %v", tt.date, err)
		}
		if got := daysInMonth(parsed); got != tt.want {
			t.Errorf("daysInMonth(%s) = %d, want %d", tt.date, got, tt.want)
		}
	}
}
