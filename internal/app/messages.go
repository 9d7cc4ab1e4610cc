package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/d-hallet/ccwatch-tui/internal/models"
	"github.com/d-hallet/ccwatch-tui/internal/monitor"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// RefreshMsg requests an immediate usage collection.
type RefreshMsg struct{}

// RefreshResultMsg contains the outcome of a manual refresh.
type RefreshResultMsg struct {
	Snapshot *models.UsageSnapshot
	Error    error
}

// HistoryLoadedMsg contains recorded day history for the trends tab.
type HistoryLoadedMsg struct {
	Days      []models.DayRecord
	MonthCost float64
	MonthDays int
}

// HistoryErrorMsg is sent when history loading fails.
type HistoryErrorMsg struct {
	Error error
}

// SaveSettingsMsg requests persisting changed settings.
type SaveSettingsMsg struct {
	Settings models.Settings
}

// SettingsSavedMsg confirms settings were applied.
type SettingsSavedMsg struct {
	Settings models.Settings
}

// MonitorEventMsg wraps an event pushed by the background monitor.
type MonitorEventMsg struct {
	Event monitor.Event
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearNotificationsMsg requests clearing all notifications.
type ClearNotificationsMsg struct{}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}

// QuitMsg requests the application to quit.
type QuitMsg struct{}

// DelayedMsg wraps a message to be sent after a delay.
type DelayedMsg struct {
	Delay time.Duration
	Msg   tea.Msg
}
