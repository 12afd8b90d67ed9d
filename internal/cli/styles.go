package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitcoach/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(24)

	valueStyle = lipgloss.NewStyle().Bold(true)

	doneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

var weekdayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func row(label string, value any) string {
	return labelStyle.Render(label) + valueStyle.Render(fmt.Sprint(value))
}

// bar renders rate (0..1) as a fixed-width meter.
func bar(rate float64, width int) string {
	filled := int(rate*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return doneStyle.Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", width-filled))
}

func sourceBadge(src models.InsightSource) string {
	if src == models.SourceAI {
		return doneStyle.Render("[" + string(src) + "]")
	}
	return mutedStyle.Render("[" + string(src) + "]")
}

func renderStatistics(stats models.HabitStatistics) string {
	lines := []string{
		titleStyle.Render("Habit statistics"),
		"",
		row("Habits", stats.TotalHabits),
		row("Completed today", fmt.Sprintf("%d/%d", stats.CompletedToday, stats.TotalHabits)),
		row("Total completions", stats.TotalCompleted),
		row("Current streak", fmt.Sprintf("%d days", stats.CurrentStreak)),
		row("Longest streak", fmt.Sprintf("%d days", stats.LongestStreak)),
		row("Weekly completion", fmt.Sprintf("%d%%", percent(stats.WeeklyCompletionRate))),
		"",
		titleStyle.Render("This week"),
	}
	for i, rate := range stats.WeeklyDailyRates {
		lines = append(lines, fmt.Sprintf("%s %s %3d%%", weekdayLabels[i], bar(rate, 20), percent(rate)))
	}
	return strings.Join(lines, "\n")
}

func renderWeeklyInsight(w models.WeeklyInsight) string {
	lines := []string{
		titleStyle.Render("Week of "+w.WeekOf) + " " + sourceBadge(w.Source),
		"",
		w.Summary,
		"",
		row("Score", fmt.Sprintf("%d/100", w.OverallScore)),
		row("Top habit", orNone(w.TopPerformingHabit)),
		row("Most at risk", orNone(w.MostAtRiskHabit)),
		"",
		"→ " + w.Recommendation,
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func renderDailyNudge(n models.DailyNudge) string {
	return boxStyle.Render(titleStyle.Render(n.Date) + " " + sourceBadge(n.Source) + "\n\n" + n.Message)
}

func orNone(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func percent(rate float64) int {
	return int(rate*100 + 0.5)
}
