package db

import (
	"path/filepath"
	"testing"

	"github.com/d-hallet/ccwatch-tui/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func snapshotForDates(costs map[string]float64, today string) *models.UsageSnapshot {
	var recent []models.DayRecord
	for date, cost := range costs {
		day := models.NewZeroDay(date)
		day.Cost = cost
		recent = append(recent, day)
	}

	todayDay := models.NewZeroDay(today)
	if cost, ok := costs[today]; ok {
		todayDay.Cost = cost
	}

	return &models.UsageSnapshot{
		Today:  todayDay,
		Recent: recent,
		Mode:   models.ModeDaily,
	}
}

func TestRecordSnapshotAndRecentDays(t *testing.T) {
	database := newTestDB(t)

	snapshot := snapshotForDates(map[string]float64{
		"2024-01-01": 1.5,
		"2024-01-02": 2.5,
	}, "2024-01-02")

	if err := database.RecordSnapshot(snapshot); err != nil {
		t.Fatalf("RecordSnapshot failed: %v", err)
	}

	days, err := database.RecentDays(30)
	if err != nil {
		t.Fatalf("RecentDays failed: %v", err)
	}

	if len(days) != 2 {
		t.Fatalf("got %d days, want 2", len(days))
	}
	// Oldest first
	if days[0].Date != "2024-01-01" || days[1].Date != "2024-01-02" {
		t.Errorf("order = %s, %s; want 2024-01-01, 2024-01-02", days[0].Date, days[1].Date)
	}
	if days[0].Cost != 1.5 {
		t.Errorf("cost = %v, want 1.5", days[0].Cost)
	}
}

func TestRecordSnapshot_UpsertReplacesDay(t *testing.T) {
	database := newTestDB(t)

	first := snapshotForDates(map[string]float64{"2024-01-01": 1}, "2024-01-01")
	if err := database.RecordSnapshot(first); err != nil {
		t.Fatalf("RecordSnapshot failed: %v", err)
	}

	second := snapshotForDates(map[string]float64{"2024-01-01": 3}, "2024-01-01")
	if err := database.RecordSnapshot(second); err != nil {
		t.Fatalf("RecordSnapshot failed: %v", err)
	}

	days, err := database.RecentDays(30)
	if err != nil {
		t.Fatalf("RecentDays failed: %v", err)
	}
	if len(days) != 1 {
		t.Fatalf("got %d days, want 1 (upsert, not append)", len(days))
	}
	if days[0].Cost != 3 {
		t.Errorf("cost = %v, want 3 (latest value wins)", days[0].Cost)
	}
}

func TestRecordSnapshot_SkipsDegraded(t *testing.T) {
	database := newTestDB(t)

	good := snapshotForDates(map[string]float64{"2024-01-01": 2}, "2024-01-01")
	if err := database.RecordSnapshot(good); err != nil {
		t.Fatalf("RecordSnapshot failed: %v", err)
	}

	degraded := snapshotForDates(map[string]float64{"2024-01-01": 0}, "2024-01-01")
	degraded.Error = "ccusage failed"
	if err := database.RecordSnapshot(degraded); err != nil {
		t.Fatalf("RecordSnapshot failed: %v", err)
	}

	days, err := database.RecentDays(30)
	if err != nil {
		t.Fatalf("RecentDays failed: %v", err)
	}
	if days[0].Cost != 2 {
		t.Errorf("cost = %v, want 2 (degraded snapshot must not overwrite history)", days[0].Cost)
	}
}

func TestRecentDays_Limit(t *testing.T) {
	database := newTestDB(t)

	snapshot := snapshotForDates(map[string]float64{
		"2024-01-01": 1,
		"2024-01-02": 1,
		"2024-01-03": 1,
	}, "2024-01-03")
	if err := database.RecordSnapshot(snapshot); err != nil {
		t.Fatalf("RecordSnapshot failed: %v", err)
	}

	days, err := database.RecentDays(2)
	if err != nil {
		t.Fatalf("RecentDays failed: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("got %d days, want 2", len(days))
	}
	// The two most recent days, still oldest first
	if days[0].Date != "2024-01-02" || days[1].Date != "2024-01-03" {
		t.Errorf("got %s, %s; want 2024-01-02, 2024-01-03", days[0].Date, days[1].Date)
	}
}

func TestMonthCost(t *testing.T) {
	database := newTestDB(t)

	snapshot := snapshotForDates(map[string]float64{
		"2023-12-31": 10,
		"2024-01-01": 1,
		"2024-01-02": 2,
	}, "2024-01-02")
	if err := database.RecordSnapshot(snapshot); err != nil {
		t.Fatalf("RecordSnapshot failed: %v", err)
	}

	cost, count, err := database.MonthCost("2024-01")
	if err != nil {
		t.Fatalf("MonthCost failed: %v", err)
	}
	if cost != 3 {
		t.Errorf("cost = %v, want 3", cost)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}

	cost, count, err = database.MonthCost("2020-06")
	if err != nil {
		t.Fatalf("MonthCost failed: %v", err)
	}
	if cost != 0 || count != 0 {
		t.Errorf("empty month: cost = %v count = %d, want 0, 0", cost, count)
	}
}

func TestModelsRoundTrip(t *testing.T) {
	database := newTestDB(t)

	snapshot := snapshotForDates(map[string]float64{"2024-01-01": 1}, "2024-01-01")
	snapshot.Recent[0].ModelsUsed = []string{"claude-sonnet-4", "claude-opus-4"}
	if err := database.RecordSnapshot(snapshot); err != nil {
		t.Fatalf("RecordSnapshot failed: %v", err)
	}

	days, err := database.RecentDays(1)
	if err != nil {
		t.Fatalf("RecentDays failed: %v", err)
	}
	if len(days[0].ModelsUsed) != 2 {
		t.Fatalf("ModelsUsed = %v, want 2 entries", days[0].ModelsUsed)
	}
	if !days[0].Models["claude-opus-4"] {
		t.Error("Models map not rebuilt from stored ModelsUsed")
	}
}
