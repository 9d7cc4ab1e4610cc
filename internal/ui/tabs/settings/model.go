// Package settings provides the monitor configuration tab.
package settings

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/d-hallet/ccwatch-tui/internal/app"
	"github.com/d-hallet/ccwatch-tui/internal/models"
)

// Row indexes for the selectable settings.
const (
	rowFrequency = iota
	rowAutoStart
	rowCount
)

// keyMap defines the key bindings specific to the settings tab.
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous setting"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next setting"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "change value"),
		),
	}
}

// Model represents the settings tab state.
type Model struct {
	state  *app.State
	keys   keyMap
	cursor int
	width  int
	height int
}

// New creates a new settings model.
func New(state *app.State) *Model {
	return &Model{
		state: state,
		keys:  defaultKeyMap(),
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < rowCount-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Toggle):
			return m, m.applyChange()
		}
	}

	return m, nil
}

// applyChange mutates the setting under the cursor and emits a save request.
func (m *Model) applyChange() tea.Cmd {
	settings := m.state.GetSettings()

	switch m.cursor {
	case rowFrequency:
		settings.PollingFrequency = nextFrequency(settings.PollingFrequency)
	case rowAutoStart:
		settings.AutoStart = !settings.AutoStart
	default:
		return nil
	}

	return func() tea.Msg {
		return app.SaveSettingsMsg{Settings: settings}
	}
}

// nextFrequency cycles through the supported polling frequencies.
func nextFrequency(current string) string {
	switch current {
	case models.Frequency1Min:
		return models.Frequency5Min
	case models.Frequency5Min:
		return models.Frequency10Min
	default:
		return models.Frequency1Min
	}
}

// SetSize sets the available size for the settings tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.Toggle,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Up, m.keys.Down},
		{m.keys.Toggle},
	}
}
