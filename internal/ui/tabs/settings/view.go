package settings

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/d-hallet/ccwatch-tui/internal/models"
	"github.com/d-hallet/ccwatch-tui/internal/ui/styles"
)

// View renders the settings tab.
func (m *Model) View() string {
	settings := m.state.GetSettings()

	title := styles.TitleStyle.Render("Settings")
	subtitle := styles.HelpStyle.Render("Changes are saved immediately")

	rows := []string{
		m.renderRow(rowFrequency, "Polling frequency", frequencyLabel(settings.PollingFrequency)),
		m.renderRow(rowAutoStart, "Start polling on launch", boolLabel(settings.AutoStart)),
	}

	card := styles.CardStyle.
		Width(max(m.width-6, 40)).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))

	content := lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "", card)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderRow(row int, label, value string) string {
	cursor := "  "
	labelStyle := lipgloss.NewStyle().Width(26).Foreground(styles.TextPrimary)
	valueStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)

	if row == m.cursor {
		cursor = lipgloss.NewStyle().Foreground(styles.Primary).Render("> ")
		labelStyle = labelStyle.Bold(true)
		valueStyle = valueStyle.Foreground(styles.Primary).Bold(true)
	}

	return fmt.Sprintf("%s%s %s", cursor, labelStyle.Render(label), valueStyle.Render(value))
}

func frequencyLabel(frequency string) string {
	switch frequency {
	case models.Frequency1Min:
		return "every minute"
	case models.Frequency10Min:
		return "every 10 minutes"
	default:
		return "every 5 minutes"
	}
}

func boolLabel(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
