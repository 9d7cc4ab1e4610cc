package info

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/d-hallet/ccwatch-tui/internal/ui/styles"
	"github.com/d-hallet/ccwatch-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	var sections []string

	sections = append(sections,
		styles.TitleStyle.Render("Info"),
		"",
		m.renderConfigCard(),
		m.renderAboutCard(),
	)

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderConfigCard() string {
	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("⚙")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Configuration")), "")

	if m.cfg == nil {
		rows = append(rows, styles.HelpStyle.Render("  No configuration loaded"))
	} else {
		threshold := "disabled"
		if m.cfg.CostAlertThreshold > 0 {
			threshold = fmt.Sprintf("$%.2f", m.cfg.CostAlertThreshold)
		}

		dataDir := m.cfg.ClaudeDataDir
		if dataDir == "" {
			dataDir = "not watched"
		}

		rows = append(rows,
			m.renderRow("Usage command", strings.Join(m.cfg.CcusageCommand, " ")),
			m.renderRow("Database", m.cfg.DatabasePath),
			m.renderRow("Log file", m.cfg.LogPath),
			m.renderRow("Data directory", dataDir),
			m.renderRow("Poll frequency", m.cfg.PollingFrequency),
			m.renderRow("Alert threshold", threshold),
		)
	}

	settings := m.state.GetSettings()
	rows = append(rows, "")
	rows = append(rows, m.renderRow("Active frequency", settings.PollingFrequency))

	if updated := m.state.GetLastUpdated(); !updated.IsZero() {
		rows = append(rows, m.renderRow("Last update", updated.Format("15:04:05")))
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderAboutCard() string {
	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Secondary).Render("ℹ")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("About")), "")

	rows = append(rows,
		m.renderRow("Version", version.GetVersion()),
		m.renderRow("Commit", version.GetCommit()),
		m.renderRow("Built", version.GetDate()),
		m.renderRow("Go", runtime.Version()),
		m.renderRow("Platform", runtime.GOOS+"/"+runtime.GOARCH),
	)

	rows = append(rows, "")
	rows = append(rows, "  "+styles.HelpStyle.Render("ccwatch polls ccusage for Claude Code spend data."))

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(18).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().Foreground(styles.TextPrimary)

	return "  " + labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}
