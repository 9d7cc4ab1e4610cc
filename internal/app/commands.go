package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/d-hallet/ccwatch-tui/internal/db"
	"github.com/d-hallet/ccwatch-tui/internal/models"
	"github.com/d-hallet/ccwatch-tui/internal/monitor"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// RefreshTimeout bounds a manual usage collection.
	RefreshTimeout = 30 * time.Second

	// HistoryWindowDays is how many recorded days the trends tab loads.
	HistoryWindowDays = 30

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second
)

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// defaultTickCmd returns a command that sends a TickMsg after the default interval.
func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// refreshCmd returns a command that runs an immediate usage collection.
func refreshCmd(svc *monitor.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), RefreshTimeout)
		defer cancel()

		snapshot, err := svc.RefreshNow(ctx)
		return RefreshResultMsg{
			Snapshot: snapshot,
			Error:    err,
		}
	}
}

// loadHistoryCmd returns a command that loads recorded day history.
func loadHistoryCmd(database *db.DB) tea.Cmd {
	return func() tea.Msg {
		if database == nil {
			return HistoryLoadedMsg{}
		}

		days, err := database.RecentDays(HistoryWindowDays)
		if err != nil {
			return HistoryErrorMsg{Error: err}
		}

		month := models.MonthKey(models.DateKey(time.Now()))
		cost, dayCount, err := database.MonthCost(month)
		if err != nil {
			return HistoryErrorMsg{Error: err}
		}

		return HistoryLoadedMsg{
			Days:      days,
			MonthCost: cost,
			MonthDays: dayCount,
		}
	}
}

// saveSettingsCmd returns a command that applies changed settings.
func saveSettingsCmd(svc *monitor.Service, settings models.Settings) tea.Cmd {
	return func() tea.Msg {
		svc.UpdateSettings(settings)
		return SettingsSavedMsg{Settings: settings}
	}
}

// waitForMonitorEventCmd returns a command that waits for the next monitor event.
func waitForMonitorEventCmd(ch <-chan monitor.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return MonitorEventMsg{Event: event}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

// notifySuccessCmd returns a command that adds a success notification.
func notifySuccessCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationSuccess,
			Message:  message,
			Duration: DefaultNotificationDuration,
		}
	}
}

// notifyErrorCmd returns a command that adds an error notification.
func notifyErrorCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationError,
			Message:  message,
			Duration: LongNotificationDuration,
		}
	}
}

// notifyWarningCmd returns a command that adds a warning notification.
func notifyWarningCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationWarning,
			Message:  message,
			Duration: DefaultNotificationDuration,
		}
	}
}

// notifyInfoCmd returns a command that adds an info notification.
func notifyInfoCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationInfo,
			Message:  message,
			Duration: QuickNotificationDuration,
		}
	}
}

// delayedCmd returns a command that sends a message after a delay.
func delayedCmd(delay time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return msg
	})
}

// Commands provides a public interface to the command functions.
type Commands struct {
	service  *monitor.Service
	database *db.DB
}

// NewCommands creates a new Commands instance.
func NewCommands(svc *monitor.Service, database *db.DB) *Commands {
	return &Commands{service: svc, database: database}
}

// Tick returns a tick command with the specified interval.
func (c *Commands) Tick(interval time.Duration) tea.Cmd {
	return tickCmd(interval)
}

// DefaultTick returns a tick command with the default interval.
func (c *Commands) DefaultTick() tea.Cmd {
	return defaultTickCmd()
}

// Refresh returns a command that triggers an immediate usage collection.
func (c *Commands) Refresh() tea.Cmd {
	return refreshCmd(c.service)
}

// LoadHistory returns a command that loads recorded day history.
func (c *Commands) LoadHistory() tea.Cmd {
	return loadHistoryCmd(c.database)
}

// SaveSettings returns a command that applies changed settings.
func (c *Commands) SaveSettings(settings models.Settings) tea.Cmd {
	return saveSettingsCmd(c.service, settings)
}

// NotifySuccess returns a command that adds a success notification.
func (c *Commands) NotifySuccess(message string) tea.Cmd {
	return notifySuccessCmd(message)
}

// NotifyError returns a command that adds an error notification.
func (c *Commands) NotifyError(message string) tea.Cmd {
	return notifyErrorCmd(message)
}

// NotifyWarning returns a command that adds a warning notification.
func (c *Commands) NotifyWarning(message string) tea.Cmd {
	return notifyWarningCmd(message)
}

// NotifyInfo returns a command that adds an info notification.
func (c *Commands) NotifyInfo(message string) tea.Cmd {
	return notifyInfoCmd(message)
}

// ClearNotification returns a command that removes a notification after a delay.
func (c *Commands) ClearNotification(id string, delay time.Duration) tea.Cmd {
	return clearNotificationCmd(id, delay)
}

// Delayed returns a command that sends a message after a delay.
func (c *Commands) Delayed(delay time.Duration, msg tea.Msg) tea.Cmd {
	return delayedCmd(delay, msg)
}

// Quit returns a command that quits the application.
func (c *Commands) Quit() tea.Cmd {
	return tea.Quit
}
