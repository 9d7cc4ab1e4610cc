package trends

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/d-hallet/ccwatch-tui/internal/ui/components"
	"github.com/d-hallet/ccwatch-tui/internal/ui/styles"
)

// View renders the trends tab.
func (m *Model) View() string {
	var sections []string

	sections = append(sections,
		m.renderTitle(),
		m.renderChartCard(),
		m.renderMonthCard(),
	)

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Trends")
	subtitle := styles.HelpStyle.Render("Daily spend over the last 30 days")
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderChartCard() string {
	cardWidth := max(m.width-6, 40)

	history := m.state.GetHistory()

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◢")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Daily Cost")), "")

	if len(history) < 2 {
		rows = append(rows, styles.HelpStyle.Render("  Not enough recorded days to chart"))
	} else {
		costs := make([]float64, len(history))
		for i, day := range history {
			costs[i] = day.Cost
		}

		caption := fmt.Sprintf("%s to %s (USD/day)",
			history[0].Date, history[len(history)-1].Date)
		chart := components.RenderLineChart(costs, cardWidth-10, 10, caption)
		rows = append(rows, chart)

		tokens := make([]float64, len(history))
		for i, day := range history {
			tokens[i] = day.TotalTokens
		}
		rows = append(rows, "")
		rows = append(rows, "  "+styles.HelpStyle.Render("tokens ")+
			components.RenderSparkline(tokens, min(len(tokens)*2, cardWidth-16)))
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderMonthCard() string {
	cardWidth := max(m.width-6, 40)

	monthCost, monthDays := m.state.GetMonthCost()

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Secondary).Render("◷")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("This Month")), "")

	rows = append(rows, m.renderStatRow("Month to date", fmt.Sprintf("$%.2f", monthCost)))

	if monthDays > 0 {
		avg := monthCost / float64(monthDays)
		projected := avg * float64(daysInMonth(time.Now()))

		rows = append(rows, m.renderStatRow("Average / day", fmt.Sprintf("$%.2f", avg)))
		rows = append(rows, m.renderStatRow("Projected", fmt.Sprintf("$%.2f", projected)))
		rows = append(rows, m.renderStatRow("Active days", fmt.Sprintf("%d", monthDays)))

		threshold := m.state.GetAlertThreshold()
		if threshold > 0 && avg >= threshold {
			rows = append(rows, "")
			rows = append(rows, "  "+styles.DegradedStyle.Render(
				fmt.Sprintf("Daily average exceeds alert threshold ($%.2f)", threshold)))
		}
	} else {
		rows = append(rows, styles.HelpStyle.Render("  No usage recorded this month"))
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderStatRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(16).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().Foreground(styles.TextPrimary)

	return "  " + labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

// daysInMonth returns the number of days in t's month.
func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
