// Package monitor runs the background polling loop and exposes the
// operations callable from the UI: force refresh, settings access, and
// window delegation.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/d-hallet/ccwatch-tui/internal/logger"
	"github.com/d-hallet/ccwatch-tui/internal/models"
	"github.com/d-hallet/ccwatch-tui/internal/notify"
	"github.com/d-hallet/ccwatch-tui/internal/store"
)

// UsageFetcher produces usage snapshots. Hard failures come back as errors;
// recoverable ones arrive as degraded snapshots with a nil error.
type UsageFetcher interface {
	Fetch(ctx context.Context) (*models.UsageSnapshot, error)
}

// HistoryRecorder persists per-day usage rows for the trends view.
type HistoryRecorder interface {
	RecordSnapshot(snapshot *models.UsageSnapshot) error
}

// WindowController is the capability the UI layer provides for the window
// operations. The monitor only delegates; rendering is not its concern.
type WindowController interface {
	ShowWindow()
	HideWindow()
	Quit()
}

// EventType defines the type of monitor event.
type EventType int

const (
	// EventUsageUpdated indicates a new snapshot was stored.
	EventUsageUpdated EventType = iota
	// EventFetchError indicates a polling cycle failed hard.
	EventFetchError
)

// Event is pushed to the subscriber after every polling cycle. Subscribers
// that are not listening simply miss the update; there is no replay.
type Event struct {
	Type     EventType
	Snapshot *models.UsageSnapshot
	Error    error
}

// Service owns the polling loop and the externally invokable operations.
type Service struct {
	fetcher  UsageFetcher
	store    *store.Store
	notifier *notify.Notifier
	history  HistoryRecorder

	windowMu sync.RWMutex
	window   WindowController

	eventChan chan Event
	stopChan  chan struct{}
	startOnce sync.Once
	closeOnce sync.Once

	// timerFn is time.After, injectable for loop tests.
	timerFn func(d time.Duration) <-chan time.Time
}

// New creates the monitor service. history may be nil when persistence is
// disabled. The polling loop does not run until Start is called.
func New(fetcher UsageFetcher, st *store.Store, notifier *notify.Notifier, history HistoryRecorder) *Service {
	return &Service{
		fetcher:   fetcher,
		store:     st,
		notifier:  notifier,
		history:   history,
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
		timerFn:   time.After,
	}
}

// Start launches the polling goroutine. It is started once for the process
// lifetime; repeated calls (and settings updates) never create a second
// loop.
func (s *Service) Start() {
	s.startOnce.Do(func() {
		go s.poll()
	})
}

// Events returns the event channel.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// SetWindowController wires the UI window capability. The UI layer is built
// after the monitor, so this is set late.
func (s *Service) SetWindowController(window WindowController) {
	s.windowMu.Lock()
	defer s.windowMu.Unlock()
	s.window = window
}

// poll runs the fetch cycle forever: fetch, store, notify, then sleep for
// the interval the *current* settings resolve to. Settings are re-read every
// cycle, so an update applies on the next iteration without any restart
// machinery; a change made mid-sleep waits out the old interval.
func (s *Service) poll() {
	for {
		interval := s.store.Settings().PollInterval()

		s.runCycle()

		select {
		case <-s.timerFn(interval):
		case <-s.stopChan:
			return
		}
	}
}

// runCycle performs one fetch-store-notify pass. Hard fetch errors are
// logged and reported; they never terminate the loop.
func (s *Service) runCycle() {
	snapshot, err := s.fetcher.Fetch(context.Background())
	if err != nil {
		logger.Error("failed to fetch usage data", "error", err)
		s.sendEvent(Event{Type: EventFetchError, Error: err})
		return
	}

	s.publish(snapshot)
}

// publish stores a snapshot and pushes it to every consumer. The fetch has
// already happened; nothing here holds a lock for longer than a record copy.
func (s *Service) publish(snapshot *models.UsageSnapshot) {
	s.store.SetSnapshot(snapshot)

	if s.history != nil {
		if err := s.history.RecordSnapshot(snapshot); err != nil {
			logger.Warn("failed to persist usage history", "error", err)
		}
	}

	if s.notifier != nil {
		s.notifier.Publish(snapshot)
	}

	s.sendEvent(Event{Type: EventUsageUpdated, Snapshot: snapshot})
}

// RefreshNow bypasses the timer: it fetches synchronously, stores the
// result, and returns the exact snapshot it computed. A concurrent timer
// iteration may overwrite the shared cell right after; the caller still
// gets the value it asked for. Hard fetch failures are returned to the
// caller, unlike in the polling loop.
func (s *Service) RefreshNow(ctx context.Context) (*models.UsageSnapshot, error) {
	snapshot, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	s.publish(snapshot)
	return snapshot, nil
}

// Snapshot returns the last stored snapshot, or nil before the first fetch.
func (s *Service) Snapshot() *models.UsageSnapshot {
	return s.store.Snapshot()
}

// GetSettings returns the current settings.
func (s *Service) GetSettings() models.Settings {
	return s.store.Settings()
}

// UpdateSettings replaces the settings wholesale. The polling loop picks the
// new interval up on its next iteration; there is nothing to restart.
func (s *Service) UpdateSettings(settings models.Settings) {
	s.store.SetSettings(settings)
	logger.Info("settings updated",
		"pollingFrequency", settings.PollingFrequency,
		"autoStart", settings.AutoStart)
}

// ShowWindow delegates to the UI window capability.
func (s *Service) ShowWindow() {
	if w := s.windowController(); w != nil {
		w.ShowWindow()
	}
}

// HideWindow delegates to the UI window capability.
func (s *Service) HideWindow() {
	if w := s.windowController(); w != nil {
		w.HideWindow()
	}
}

// Quit delegates to the UI window capability.
func (s *Service) Quit() {
	if w := s.windowController(); w != nil {
		w.Quit()
	}
}

func (s *Service) windowController() WindowController {
	s.windowMu.RLock()
	defer s.windowMu.RUnlock()
	return s.window
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the polling loop. An in-flight fetch runs to completion; its
// subprocess is simply detached when the process exits.
func (s *Service) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
	})
	return nil
}
