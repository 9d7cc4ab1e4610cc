package monitor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/d-hallet/ccwatch-tui/internal/models"
	"github.com/d-hallet/ccwatch-tui/internal/notify"
	"github.com/d-hallet/ccwatch-tui/internal/store"
)

// fakeFetcher implements UsageFetcher with a per-call sequence number so
// tests can detect fields mixed between fetches.
type fakeFetcher struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeFetcher) Fetch(_ context.Context) (*models.UsageSnapshot, error) {
	f.mu.Lock()
	f.calls++
	n := float64(f.calls)
	err := f.err
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}

	// Every field derives from n; a torn snapshot is detectable.
	return &models.UsageSnapshot{
		Today: models.DayRecord{Date: "2024-01-01", Cost: n},
		Totals: models.TotalsRecord{
			Cost:       n,
			TotalCost:  n,
			WeeklyCost: n,
		},
		Mode: models.ModeDaily,
	}, nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// recordingHistory implements HistoryRecorder.
type recordingHistory struct {
	mu        sync.Mutex
	snapshots []*models.UsageSnapshot
}

func (r *recordingHistory) RecordSnapshot(snapshot *models.UsageSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, snapshot)
	return nil
}

// fakeWindow implements WindowController.
type fakeWindow struct {
	shows  atomic.Int32
	hides  atomic.Int32
	quits  atomic.Int32
}

func (w *fakeWindow) ShowWindow() { w.shows.Add(1) }
func (w *fakeWindow) HideWindow() { w.hides.Add(1) }
func (w *fakeWindow) Quit()       { w.quits.Add(1) }

func newTestService(fetcher UsageFetcher) (*Service, *store.Store) {
	st := store.New()
	svc := New(fetcher, st, notify.New(nil, 0), nil)
	return svc, st
}

func TestRefreshNow_StoresAndReturnsSnapshot(t *testing.T) {
	fetcher := &fakeFetcher{}
	svc, st := newTestService(fetcher)

	snapshot, err := svc.RefreshNow(context.Background())
	if err != nil {
		t.Fatalf("RefreshNow failed: %v", err)
	}
	if snapshot.Today.Cost != 1 {
		t.Errorf("Today.Cost = %v, want 1", snapshot.Today.Cost)
	}

	stored := st.Snapshot()
	if stored == nil || stored.Today.Cost != 1 {
		t.Error("RefreshNow did not store the snapshot")
	}
}

func TestRefreshNow_PropagatesHardError(t *testing.T) {
	hardErr := errors.New("ccusage command failed")
	svc, st := newTestService(&fakeFetcher{err: hardErr})

	_, err := svc.RefreshNow(context.Background())
	if !errors.Is(err, hardErr) {
		t.Fatalf("err = %v, want the fetch error", err)
	}
	if st.Snapshot() != nil {
		t.Error("failed refresh must not store a snapshot")
	}
}

func TestRefreshNow_ReadYourWrite(t *testing.T) {
	fetcher := &fakeFetcher{}
	svc, _ := newTestService(fetcher)

	var wg sync.WaitGroup
	results := make([]*models.UsageSnapshot, 8)
	for i := range results {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			snapshot, err := svc.RefreshNow(context.Background())
			if err != nil {
				t.Errorf("RefreshNow failed: %v", err)
				return
			}
			results[idx] = snapshot
		}(i)
	}
	wg.Wait()

	seen := make(map[float64]bool)
	for _, snapshot := range results {
		if snapshot == nil {
			t.Fatal("missing result")
		}
		// Internally consistent: no field from another fetch mixed in
		if snapshot.Today.Cost != snapshot.Totals.Cost ||
			snapshot.Totals.Cost != snapshot.Totals.TotalCost {
			t.Errorf("torn snapshot: today=%v totals=%v/%v",
				snapshot.Today.Cost, snapshot.Totals.Cost, snapshot.Totals.TotalCost)
		}
		// Read-your-write: each caller got a distinct fetch result
		if seen[snapshot.Today.Cost] {
			t.Errorf("two callers received the same fetch result %v", snapshot.Today.Cost)
		}
		seen[snapshot.Today.Cost] = true
	}
}

func TestPoll_UsesCurrentSettingsInterval(t *testing.T) {
	fetcher := &fakeFetcher{}
	svc, st := newTestService(fetcher)

	intervals := make(chan time.Duration, 16)
	proceed := make(chan time.Time)
	svc.timerFn = func(d time.Duration) <-chan time.Time {
		intervals <- d
		return proceed
	}

	svc.Start()
	defer func() { _ = svc.Close() }()

	// First cycle: default settings resolve to 5 minutes
	first := <-intervals
	if first != 5*time.Minute {
		t.Errorf("first interval = %v, want 5m", first)
	}

	// Update settings mid-sleep; the next iteration must pick up 60s
	// without any restart.
	st.SetSettings(models.Settings{PollingFrequency: models.Frequency1Min})
	proceed <- time.Now()

	second := <-intervals
	if second != time.Minute {
		t.Errorf("second interval = %v, want 1m", second)
	}
}

func TestPoll_RepeatedStartDoesNotDuplicateLoop(t *testing.T) {
	fetcher := &fakeFetcher{}
	svc, _ := newTestService(fetcher)

	intervals := make(chan time.Duration, 16)
	svc.timerFn = func(d time.Duration) <-chan time.Time {
		intervals <- d
		return make(chan time.Time) // never fires
	}

	svc.Start()
	svc.Start()
	svc.Start()
	defer func() { _ = svc.Close() }()

	<-intervals
	select {
	case <-intervals:
		t.Fatal("second polling loop detected")
	case <-time.After(50 * time.Millisecond):
	}

	if got := fetcher.callCount(); got != 1 {
		t.Errorf("fetch calls = %d, want 1", got)
	}
}

func TestPoll_SurvivesFetchErrors(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("boom")}
	svc, _ := newTestService(fetcher)

	proceed := make(chan time.Time)
	svc.timerFn = func(time.Duration) <-chan time.Time {
		return proceed
	}

	svc.Start()
	defer func() { _ = svc.Close() }()

	// First cycle fails hard and reports an event
	event := <-svc.Events()
	if event.Type != EventFetchError {
		t.Fatalf("event type = %v, want EventFetchError", event.Type)
	}

	// Let the loop continue; it must keep polling on the same cadence
	fetcher.mu.Lock()
	fetcher.err = nil
	fetcher.mu.Unlock()
	proceed <- time.Now()

	event = <-svc.Events()
	if event.Type != EventUsageUpdated {
		t.Fatalf("event type = %v, want EventUsageUpdated after recovery", event.Type)
	}
	if event.Snapshot == nil {
		t.Fatal("usage event missing snapshot")
	}
}

func TestPublish_RecordsHistoryAndEmitsEvent(t *testing.T) {
	fetcher := &fakeFetcher{}
	st := store.New()
	history := &recordingHistory{}
	svc := New(fetcher, st, notify.New(nil, 0), history)

	if _, err := svc.RefreshNow(context.Background()); err != nil {
		t.Fatalf("RefreshNow failed: %v", err)
	}

	history.mu.Lock()
	recorded := len(history.snapshots)
	history.mu.Unlock()
	if recorded != 1 {
		t.Errorf("history recorded %d snapshots, want 1", recorded)
	}

	select {
	case event := <-svc.Events():
		if event.Type != EventUsageUpdated {
			t.Errorf("event type = %v, want EventUsageUpdated", event.Type)
		}
	default:
		t.Error("no event emitted")
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	svc, _ := newTestService(&fakeFetcher{})

	if got := svc.GetSettings(); got.PollingFrequency != models.Frequency5Min {
		t.Errorf("default PollingFrequency = %q, want %q", got.PollingFrequency, models.Frequency5Min)
	}

	svc.UpdateSettings(models.Settings{PollingFrequency: models.Frequency10Min, AutoStart: true})
	if got := svc.GetSettings(); got.PollingFrequency != models.Frequency10Min {
		t.Errorf("PollingFrequency = %q, want %q", got.PollingFrequency, models.Frequency10Min)
	}
}

func TestWindowDelegation(t *testing.T) {
	svc, _ := newTestService(&fakeFetcher{})

	// No controller wired: calls are no-ops, not panics
	svc.ShowWindow()
	svc.HideWindow()
	svc.Quit()

	window := &fakeWindow{}
	svc.SetWindowController(window)
	svc.ShowWindow()
	svc.HideWindow()
	svc.Quit()

	if window.shows.Load() != 1 || window.hides.Load() != 1 || window.quits.Load() != 1 {
		t.Errorf("delegation counts = %d/%d/%d, want 1/1/1",
			window.shows.Load(), window.hides.Load(), window.quits.Load())
	}
}
