// Package store holds the latest usage snapshot and the current settings
// behind independent locks.
package store

import (
	"sync"

	"github.com/d-hallet/ccwatch-tui/internal/models"
)

// Store is the concurrency-safe holder for the monitor's two mutable cells.
// Each cell has its own lock so a slow snapshot consumer never blocks a
// settings read. Lock hold time is the copy of a record, never a fetch:
// callers perform expensive work before writing.
type Store struct {
	snapshotMu sync.RWMutex
	snapshot   *models.UsageSnapshot

	settingsMu sync.RWMutex
	settings   models.Settings
}

// New creates a store with default settings and no snapshot yet.
func New() *Store {
	return &Store{
		settings: models.DefaultSettings(),
	}
}

// Snapshot returns a copy of the latest snapshot, or nil when no fetch has
// completed yet.
func (s *Store) Snapshot() *models.UsageSnapshot {
	s.snapshotMu.RLock()
	defer s.snapshotMu.RUnlock()
	if s.snapshot == nil {
		return nil
	}
	clone := s.snapshot.Clone()
	return &clone
}

// SetSnapshot atomically replaces the latest snapshot.
func (s *Store) SetSnapshot(snapshot *models.UsageSnapshot) {
	s.snapshotMu.Lock()
	defer s.snapshotMu.Unlock()
	s.snapshot = snapshot
}

// Settings returns the current settings.
func (s *Store) Settings() models.Settings {
	s.settingsMu.RLock()
	defer s.settingsMu.RUnlock()
	return s.settings
}

// SetSettings replaces the settings wholesale.
func (s *Store) SetSettings(settings models.Settings) {
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()
	s.settings = settings
}
