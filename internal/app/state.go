// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"sync"
	"time"

	"github.com/d-hallet/ccwatch-tui/internal/models"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Initial bool
	Usage   bool
	History bool
}

// State is the shared application state read by every tab. It also
// serves as the status sink for the background notifier, so the header
// always shows the latest cost without going through the message loop.
type State struct {
	mu sync.RWMutex

	snapshot  *models.UsageSnapshot
	settings  models.Settings
	history   []models.DayRecord
	monthCost float64
	monthDays int

	alertThreshold float64

	statusLabel   string
	statusTooltip string

	Loading LoadingState

	lastUpdated time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState creates application state with nothing loaded yet.
func NewState() *State {
	return &State{
		settings:      models.DefaultSettings(),
		notifications: make([]Notification, 0),
		Loading: LoadingState{
			Initial: true,
		},
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case "initial":
		s.Loading.Initial = loading
	case "usage":
		s.Loading.Usage = loading
	case "history":
		s.Loading.History = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.Loading.Initial ||
		s.Loading.Usage ||
		s.Loading.History
}

// IsInitialLoading returns true if initial data is still loading.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial
}

// SetSnapshot replaces the current usage snapshot.
func (s *State) SetSnapshot(snapshot *models.UsageSnapshot) {
	if snapshot == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	clone := snapshot.Clone()
	s.snapshot = &clone
	s.Loading.Initial = false
	s.lastUpdated = time.Now()
}

// GetSnapshot returns a copy of the current snapshot, or nil before
// the first usage collection completes.
func (s *State) GetSnapshot() *models.UsageSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return nil
	}
	clone := s.snapshot.Clone()
	return &clone
}

// SetSettings updates the displayed settings.
func (s *State) SetSettings(settings models.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
}

// GetSettings returns the current settings.
func (s *State) GetSettings() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// SetHistory replaces the recent-day history used by the trends tab.
func (s *State) SetHistory(days []models.DayRecord, monthCost float64, monthDays int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = days
	s.monthCost = monthCost
	s.monthDays = monthDays
}

// GetHistory returns a copy of the recorded day history.
func (s *State) GetHistory() []models.DayRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	days := make([]models.DayRecord, len(s.history))
	copy(days, s.history)
	return days
}

// GetMonthCost returns the month-to-date cost and the number of
// recorded days contributing to it.
func (s *State) GetMonthCost() (float64, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.monthCost, s.monthDays
}

// SetAlertThreshold records the configured cost alert threshold.
func (s *State) SetAlertThreshold(threshold float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alertThreshold = threshold
}

// GetAlertThreshold returns the configured cost alert threshold.
func (s *State) GetAlertThreshold() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.alertThreshold
}

// SetLabel updates the header cost label. Called from the notifier's
// publishing goroutine.
func (s *State) SetLabel(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statusLabel = label
}

// SetTooltip updates the header summary line. Called from the
// notifier's publishing goroutine.
func (s *State) SetTooltip(tooltip string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statusTooltip = tooltip
}

// StatusLabel returns the current header cost label.
func (s *State) StatusLabel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statusLabel
}

// StatusTooltip returns the current header summary line.
func (s *State) StatusTooltip() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statusTooltip
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	notification := Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	}

	s.notifications = append(s.notifications, notification)

	// Keep only the last 10 notifications
	if len(s.notifications) > 10 {
		s.notifications = s.notifications[len(s.notifications)-10:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	s.notifications = active
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Clear expired inline when reading
	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}

	return active
}

// ClearAllNotifications removes all notifications.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = make([]Notification, 0)
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  0,
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// GetLastUpdated returns the last time a snapshot was stored.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}

// TimeSinceUpdate returns the duration since the last update.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.lastUpdated)
}
