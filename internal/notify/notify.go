// Package notify reflects new snapshots to UI affordances: a status
// label/tooltip sink and desktop alerts.
package notify

import (
	"fmt"
	"sync"

	"github.com/gen2brain/beeep"

	"github.com/d-hallet/ccwatch-tui/internal/logger"
	"github.com/d-hallet/ccwatch-tui/internal/models"
)

// StatusSink is the capability used to surface the short usage summary.
// Implementations are whatever the UI layer offers (the TUI header here, a
// tray icon elsewhere); failures are the sink's problem, not the monitor's.
type StatusSink interface {
	SetLabel(label string)
	SetTooltip(tooltip string)
}

// Notifier pushes snapshot-derived text to a StatusSink and raises desktop
// alerts when today's cost crosses the configured threshold. It is
// side-effect only and never fails its caller.
type Notifier struct {
	sink StatusSink
	// alertThreshold in USD; zero disables alerts.
	alertThreshold float64

	// alertMu guards alertedDate: Publish runs from the polling loop,
	// manual refreshes and the activity watcher at the same time.
	alertMu     sync.Mutex
	alertedDate string

	notifyFn func(title, message string, icon any) error
}

// New creates a notifier. sink may be nil when no status affordance exists.
func New(sink StatusSink, alertThreshold float64) *Notifier {
	return &Notifier{
		sink:           sink,
		alertThreshold: alertThreshold,
		notifyFn:       beeep.Notify,
	}
}

// Publish forwards the snapshot to the sink and checks the alert threshold.
// Sink panics are swallowed: the underlying widget may be gone, and a
// notification must never fail the polling iteration that triggered it.
func (n *Notifier) Publish(snapshot *models.UsageSnapshot) {
	if snapshot == nil {
		return
	}

	n.publishToSink(snapshot)
	n.checkAlert(snapshot)
}

func (n *Notifier) publishToSink(snapshot *models.UsageSnapshot) {
	if n.sink == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("status sink panicked", "panic", r)
		}
	}()
	n.sink.SetLabel(Label(snapshot))
	n.sink.SetTooltip(Tooltip(snapshot))
}

func (n *Notifier) checkAlert(snapshot *models.UsageSnapshot) {
	if n.alertThreshold <= 0 || snapshot.Degraded() {
		return
	}
	if snapshot.Today.Cost < n.alertThreshold {
		return
	}

	// One alert per calendar day, even when publishers race
	n.alertMu.Lock()
	if n.alertedDate == snapshot.Today.Date {
		n.alertMu.Unlock()
		return
	}
	n.alertedDate = snapshot.Today.Date
	n.alertMu.Unlock()

	title := "ccwatch: cost threshold reached"
	body := fmt.Sprintf("Today's usage is %s (threshold $%.2f)", Label(snapshot), n.alertThreshold)
	if err := n.notifyFn(title, body, ""); err != nil {
		logger.Warn("desktop notification failed", "error", err)
	}
}

// Label formats the short currency label for today's cost.
func Label(snapshot *models.UsageSnapshot) string {
	return fmt.Sprintf("$%.2f", snapshot.Today.Cost)
}

// Tooltip formats the longer status text: the label plus a session-active
// indicator when a session is present, else the label plus the mode name.
func Tooltip(snapshot *models.UsageSnapshot) string {
	label := Label(snapshot)
	if session := snapshot.Session; session != nil {
		if session.IsActive {
			return fmt.Sprintf("Today: %s | Session: $%.2f (Active)", label, session.Cost)
		}
		return fmt.Sprintf("Today: %s | Session: $%.2f", label, session.Cost)
	}
	return fmt.Sprintf("Today: %s | Mode: %s", label, snapshot.Mode)
}
