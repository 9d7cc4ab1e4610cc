// Package main is the entry point for the ccwatch TUI application.
// It initializes configuration, services, and runs the Bubble Tea program.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/d-hallet/ccwatch-tui/internal/app"
	"github.com/d-hallet/ccwatch-tui/internal/config"
	"github.com/d-hallet/ccwatch-tui/internal/db"
	"github.com/d-hallet/ccwatch-tui/internal/fetcher"
	"github.com/d-hallet/ccwatch-tui/internal/logger"
	"github.com/d-hallet/ccwatch-tui/internal/models"
	"github.com/d-hallet/ccwatch-tui/internal/monitor"
	"github.com/d-hallet/ccwatch-tui/internal/notify"
	"github.com/d-hallet/ccwatch-tui/internal/store"
	"github.com/d-hallet/ccwatch-tui/internal/ui/tabs/dashboard"
	"github.com/d-hallet/ccwatch-tui/internal/ui/tabs/info"
	"github.com/d-hallet/ccwatch-tui/internal/ui/tabs/settings"
	"github.com/d-hallet/ccwatch-tui/internal/ui/tabs/trends"
	"github.com/d-hallet/ccwatch-tui/internal/version"
	"github.com/d-hallet/ccwatch-tui/internal/watcher"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	// Handle help flag
	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		printUsage()
		os.Exit(0)
	}

	// Run the application
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// programWindow adapts a running Bubble Tea program to the window capability
// the monitor delegates to. A terminal program cannot hide itself, so the
// show/hide operations only leave a trace in the log.
type programWindow struct {
	program *tea.Program
}

func (w *programWindow) ShowWindow() { logger.Debug("show window requested") }
func (w *programWindow) HideWindow() { logger.Debug("hide window requested") }
func (w *programWindow) Quit()       { w.program.Quit() }

// run contains the main application logic, separated for cleaner error handling.
func run() error {
	// 1. Load configuration from .env files and environment variables
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Route logs to a file; stderr would corrupt the TUI
	closeLog, err := logger.InitFile(cfg.LogPath)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() {
		if closeErr := closeLog(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing log: %v\n", closeErr)
		}
	}()

	// 3. Open the usage history database
	database, err := db.New(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := database.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	// 4. Build the monitor: fetcher, snapshot store, notifier, history
	st := store.New()
	seed := models.DefaultSettings()
	seed.PollingFrequency = cfg.PollingFrequency
	st.SetSettings(seed)

	model := app.NewModel(nil, database)
	state := model.GetState()
	state.SetAlertThreshold(cfg.CostAlertThreshold)

	notifier := notify.New(state, cfg.CostAlertThreshold)
	svc := monitor.New(fetcher.New(cfg.CcusageCommand), st, notifier, database)
	defer func() {
		if closeErr := svc.Close(); closeErr != nil {
			logger.Error("error closing monitor", "error", closeErr)
		}
	}()

	model.SetService(svc)

	if seed.AutoStart {
		svc.Start()
	}

	// 5. Watch the Claude data directory for early refreshes
	if cfg.ClaudeDataDir != "" {
		w := watcher.New(cfg.ClaudeDataDir, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if _, refreshErr := svc.RefreshNow(ctx); refreshErr != nil {
				logger.Warn("activity triggered refresh failed", "error", refreshErr)
			}
		})
		if err := w.Start(); err != nil {
			logger.Warn("file watcher disabled", "dir", cfg.ClaudeDataDir, "error", err)
		} else {
			defer w.Close()
		}
	}

	// 6. Initialize tabs with shared state
	tabs := []app.Tab{
		dashboard.New(state),
		trends.New(state),
		settings.New(state),
		info.New(state, cfg),
	}
	model.SetTabs(tabs)

	// 7. Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// 8. Create and configure the Bubble Tea program
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer (full terminal)
		tea.WithMouseCellMotion(), // Enable mouse support for selection
	)

	svc.SetWindowController(&programWindow{program: p})

	// 9. Handle signals in a separate goroutine
	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	// 10. Run the TUI program
	// This blocks until the user quits or an error occurs
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println(`ccwatch - Claude Code usage and cost monitor

Usage:
  ccwatch [flags]

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information

Keyboard Shortcuts:
  1-4             Switch between tabs (Dashboard, Trends, Settings, Info)
  Tab/Shift+Tab   Navigate between tabs
  j/k, Up/Down    Navigate and scroll
  Enter           Change the selected setting
  r               Refresh usage data
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  CCUSAGE_COMMAND        Command producing usage JSON (default: bunx ccusage --json)
  DATABASE_PATH          SQLite database path
  LOG_PATH               Log file path
  POLLING_FREQUENCY      Polling interval: 1min, 5min, 10min (default: 5min)
  COST_ALERT_THRESHOLD   Daily cost that triggers a desktop alert (0 disables)
  CLAUDE_DATA_DIR        Directory watched for new session activity

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/ccwatch/.env
  - ~/.ccwatch.env

For more information, visit: https://github.com/d-hallet/ccwatch-tui`)
}
