package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitcoach/internal/analytics"
	"github.com/julianstephens/habitcoach/internal/models"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateAddHabit:
		content = m.viewAddHabit()
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	default:
		content = m.habitsModel.View()
	}

	var banner string
	if m.formError != "" {
		banner = warningStyle.Render("⚠ " + m.formError)
	}

	ui := lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		banner,
		content,
		m.help.View(m),
	)
	return docStyle.Render(ui)
}

func (m Model) viewHeader() string {
	items := m.habitsModel.Items()
	list := make([]models.Habit, len(items))
	for i, it := range items {
		list[i] = it.Habit
	}
	stats := analytics.ComputeStatistics(list, m.clock())
	summary := fmt.Sprintf("Done %d/%d · streak %d · week %.0f%%",
		stats.CompletedToday, stats.TotalHabits, stats.CurrentStreak, stats.WeeklyCompletionRate*100)
	return lipgloss.JoinHorizontal(lipgloss.Top, titleStyle.Render("Habits"), summaryStyle.Render(summary))
}

func (m Model) viewAddHabit() string {
	return fmt.Sprintf("\n  New habit\n\n  %s\n", m.input.View())
}

func (m Model) viewConfirmDelete() string {
	return fmt.Sprintf("\n  %s\n\n  Delete habit %q and its history? (y/n)\n",
		dangerStyle.Render("Delete habit"), m.habitToDelete.Title)
}
