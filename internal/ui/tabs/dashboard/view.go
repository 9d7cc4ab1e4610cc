package dashboard

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/d-hallet/ccwatch-tui/internal/models"
	"github.com/d-hallet/ccwatch-tui/internal/ui/components"
	"github.com/d-hallet/ccwatch-tui/internal/ui/styles"
)

// View renders the dashboard tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	snapshot := m.state.GetSnapshot()
	if snapshot == nil {
		return styles.DocStyle.
			Width(m.width).
			Height(m.height).
			Render(styles.HelpStyle.Render("No usage data yet"))
	}

	var sections []string

	sections = append(sections, m.renderTitle(snapshot))

	if snapshot.Degraded() {
		sections = append(sections, m.renderDegradedBanner(snapshot))
	}

	sections = append(sections,
		m.renderTodayCard(snapshot),
		m.renderTotalsCard(snapshot),
		m.renderRecentCard(snapshot),
	)

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle(snapshot *models.UsageSnapshot) string {
	title := styles.TitleStyle.Render("ccwatch")
	subtitle := styles.HelpStyle.Render("Claude Code usage and cost monitor")

	updated := ""
	if snapshot.LastUpdated != "" {
		if t, err := time.Parse(time.RFC3339, snapshot.LastUpdated); err == nil {
			updated = styles.HelpStyle.Render("Updated " + t.Local().Format("15:04:05"))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, updated, "")
}

func (m *Model) renderDegradedBanner(snapshot *models.UsageSnapshot) string {
	cardWidth := max(m.width-6, 40)

	msg := snapshot.Error
	if len(msg) > cardWidth-10 {
		msg = msg[:cardWidth-13] + "..."
	}

	return styles.CardStyle.
		Width(cardWidth).
		BorderForeground(styles.Error).
		Render(styles.DegradedStyle.Render("⚠ no data: " + msg))
}

func (m *Model) renderTodayCard(snapshot *models.UsageSnapshot) string {
	cardWidth := max(m.width-6, 40)
	threshold := m.state.GetAlertThreshold()

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Today")), "")

	today := snapshot.Today
	costStr := styles.GetCostStyle(today.Cost, threshold).Render(fmt.Sprintf("$%.2f", today.Cost))
	rows = append(rows, fmt.Sprintf("  %s  %s", costStr, styles.HelpStyle.Render(today.Date)))
	rows = append(rows, "")

	rows = append(rows, m.renderTokenRow("Input", today.InputTokens))
	rows = append(rows, m.renderTokenRow("Output", today.OutputTokens))
	rows = append(rows, m.renderTokenRow("Cache write", today.CacheCreationTokens))
	rows = append(rows, m.renderTokenRow("Cache read", today.CacheReadTokens))
	rows = append(rows, m.renderTokenRow("Total", today.TotalTokens))

	if len(today.ModelsUsed) > 0 {
		rows = append(rows, "")
		rows = append(rows, "  "+styles.SubTitleStyle.Render("Models"))
		if chart := m.renderModelBreakdown(&today, cardWidth-8); chart != "" {
			for _, line := range strings.Split(chart, "\n") {
				rows = append(rows, "  "+line)
			}
		} else {
			for _, model := range today.ModelsUsed {
				rows = append(rows, "  "+styles.ListItemStyle.Render(model))
			}
		}
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderTokenRow(label string, tokens float64) string {
	labelStyle := lipgloss.NewStyle().
		Width(14).
		Foreground(styles.TextMuted)

	return "  " + labelStyle.Render(label+":") + " " + formatTokens(tokens)
}

// modelCost is the decoded slice element of a day's model breakdown.
type modelCost struct {
	ModelName string  `json:"modelName"`
	Cost      float64 `json:"cost"`
}

// renderModelBreakdown attempts a per-model cost bar chart from the opaque
// breakdown payload. Returns "" when the payload is absent or unreadable.
func (m *Model) renderModelBreakdown(day *models.DayRecord, width int) string {
	if len(day.ModelBreakdowns) == 0 {
		return ""
	}

	var breakdowns []modelCost
	if err := json.Unmarshal(day.ModelBreakdowns, &breakdowns); err != nil || len(breakdowns) == 0 {
		return ""
	}

	values := make([]float64, len(breakdowns))
	labels := make([]string, len(breakdowns))
	for i, b := range breakdowns {
		values[i] = b.Cost
		labels[i] = b.ModelName
	}

	return components.RenderBarChart(values, labels, width)
}

func (m *Model) renderTotalsCard(snapshot *models.UsageSnapshot) string {
	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Secondary).Render("Σ")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Totals")), "")

	totals := snapshot.Totals
	rows = append(rows, m.renderCostRow("All time", totals.TotalCost))
	rows = append(rows, m.renderCostRow("Last 7 days", totals.WeeklyCost))
	rows = append(rows, m.renderCostRow("This month", totals.MonthlyCost))
	rows = append(rows, "")
	rows = append(rows, m.renderTokenRow("Input", totals.InputTokens))
	rows = append(rows, m.renderTokenRow("Output", totals.OutputTokens))
	rows = append(rows, m.renderTokenRow("Cache write", totals.CacheCreationTokens))
	rows = append(rows, m.renderTokenRow("Cache read", totals.CacheReadTokens))

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderCostRow(label string, cost float64) string {
	labelStyle := lipgloss.NewStyle().
		Width(14).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().Foreground(styles.TextPrimary)

	return "  " + labelStyle.Render(label+":") + " " + valueStyle.Render(fmt.Sprintf("$%.2f", cost))
}

func (m *Model) renderRecentCard(snapshot *models.UsageSnapshot) string {
	cardWidth := max(m.width-6, 40)

	var rows []string

	titleIcon := lipgloss.NewStyle().Foreground(styles.Primary).Render("▤")
	rows = append(rows, fmt.Sprintf("%s %s", titleIcon, styles.CardTitleStyle.Render("Recent Days")), "")

	if len(snapshot.Recent) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No recorded days"))
	} else {
		header := fmt.Sprintf("  %-12s %10s %14s", "Date", "Cost", "Tokens")
		rows = append(rows, styles.TableHeaderStyle.Render(header))

		costs := make([]float64, len(snapshot.Recent))
		for i, day := range snapshot.Recent {
			costs[i] = day.Cost
			rows = append(rows, fmt.Sprintf("  %-12s %10s %14s",
				day.Date,
				fmt.Sprintf("$%.2f", day.Cost),
				formatTokens(day.TotalTokens),
			))
		}

		rows = append(rows, "")
		rows = append(rows, "  "+components.RenderSparkline(costs, min(len(costs)*3, cardWidth-8)))
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// formatTokens renders a token count compactly (1.2M, 45.6K).
func formatTokens(tokens float64) string {
	switch {
	case tokens >= 1_000_000:
		return fmt.Sprintf("%.1fM", tokens/1_000_000)
	case tokens >= 1_000:
		return fmt.Sprintf("%.1fK", tokens/1_000)
	default:
		return fmt.Sprintf("%.0f", tokens)
	}
}
