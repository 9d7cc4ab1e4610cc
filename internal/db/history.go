package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/d-hallet/ccwatch-tui/internal/models"
)

// RecordSnapshot upserts the per-day rows carried by a snapshot. Degraded
// snapshots are skipped: a zeroed row must never overwrite real history.
func (db *DB) RecordSnapshot(snapshot *models.UsageSnapshot) error {
	if snapshot == nil || snapshot.Degraded() {
		return nil
	}

	days := make([]models.DayRecord, 0, len(snapshot.Recent)+1)
	days = append(days, snapshot.Recent...)

	seen := false
	for i := range days {
		if days[i].Date == snapshot.Today.Date {
			seen = true
			break
		}
	}
	if !seen {
		days = append(days, snapshot.Today)
	}

	for i := range days {
		if err := db.upsertDay(&days[i]); err != nil {
			return err
		}
	}
	return nil
}

func (db *DB) upsertDay(day *models.DayRecord) error {
	query := `
		INSERT INTO daily_usage (
			date, cost, input_tokens, output_tokens,
			cache_creation_tokens, cache_read_tokens, total_tokens,
			models_used, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(date) DO UPDATE SET
			cost = excluded.cost,
			input_tokens = excluded.input_tokens,
			output_tokens = excluded.output_tokens,
			cache_creation_tokens = excluded.cache_creation_tokens,
			cache_read_tokens = excluded.cache_read_tokens,
			total_tokens = excluded.total_tokens,
			models_used = excluded.models_used,
			updated_at = CURRENT_TIMESTAMP
	`

	_, err := db.ExecContext(context.Background(), query,
		day.Date,
		day.Cost,
		day.InputTokens,
		day.OutputTokens,
		day.CacheCreationTokens,
		day.CacheReadTokens,
		day.TotalTokens,
		strings.Join(day.ModelsUsed, ","),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert daily usage for %s: %w", day.Date, err)
	}
	return nil
}

// RecentDays returns up to limit stored days, oldest first.
func (db *DB) RecentDays(limit int) ([]models.DayRecord, error) {
	query := `
		SELECT date, cost, input_tokens, output_tokens,
			   cache_creation_tokens, cache_read_tokens, total_tokens, models_used
		FROM (
			SELECT * FROM daily_usage ORDER BY date DESC LIMIT ?
		) ORDER BY date ASC
	`

	rows, err := db.QueryContext(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent days: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var days []models.DayRecord
	for rows.Next() {
		var day models.DayRecord
		var modelsUsed sql.NullString

		if err := rows.Scan(
			&day.Date,
			&day.Cost,
			&day.InputTokens,
			&day.OutputTokens,
			&day.CacheCreationTokens,
			&day.CacheReadTokens,
			&day.TotalTokens,
			&modelsUsed,
		); err != nil {
			return nil, fmt.Errorf("failed to scan daily usage row: %w", err)
		}

		if modelsUsed.Valid && modelsUsed.String != "" {
			day.ModelsUsed = strings.Split(modelsUsed.String, ",")
		} else {
			day.ModelsUsed = []string{}
		}
		day.RebuildModels()
		days = append(days, day)
	}

	return days, rows.Err()
}

// MonthCost returns the summed cost and the number of stored days for a
// year-month prefix ("2024-01"). Used for month-end projections.
func (db *DB) MonthCost(month string) (cost float64, dayCount int, err error) {
	query := `
		SELECT COALESCE(SUM(cost), 0), COUNT(*)
		FROM daily_usage
		WHERE date LIKE ? || '-%'
	`

	row := db.QueryRowContext(context.Background(), query, month)
	if err := row.Scan(&cost, &dayCount); err != nil {
		return 0, 0, fmt.Errorf("failed to query month cost: %w", err)
	}
	return cost, dayCount, nil
}
