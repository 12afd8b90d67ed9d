package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitcoach/internal/logger"
	habitlist "github.com/julianstephens/habitcoach/internal/tui/components/habits"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.habitsModel.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case habitsMsg:
		cmd := m.habitsModel.SetHabits(msg, m.clock())
		return m, tea.Batch(cmd, waitForHabits(m.updates))

	case errMsg:
		logger.Warn("Dashboard mutation failed", "error", msg.err)
		m.formError = msg.err.Error()
		return m, nil

	case habitlist.AddHabitMsg:
		m.state = StateAddHabit
		m.formError = ""
		m.input.Reset()
		return m, m.input.Focus()

	case habitlist.MarkHabitMsg:
		return m, m.complete(msg.ID, true)

	case habitlist.UnmarkHabitMsg:
		return m, m.complete(msg.ID, false)

	case habitlist.DeleteHabitMsg:
		m.state = StateConfirmDelete
		m.habitToDelete = msg.Habit
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateAddHabit:
			return m.updateAddHabit(msg)
		case StateConfirmDelete:
			return m.updateConfirmDelete(msg)
		}
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.Help) {
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.habitsModel, cmd = m.habitsModel.Update(msg)
	return m, cmd
}

func (m Model) updateAddHabit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.state = StateList
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		title := strings.TrimSpace(m.input.Value())
		if title == "" {
			m.formError = "habit title must not be blank"
			return m, nil
		}
		m.state = StateList
		m.formError = ""
		m.input.Blur()
		return m, m.create(title)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		id := m.habitToDelete.ID
		m.state = StateList
		return m, m.delete(id)
	case key.Matches(msg, m.keys.Cancel):
		m.state = StateList
	}
	return m, nil
}

// Mutations run as commands; the store subscription delivers the result.

func (m Model) create(title string) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.svc.Create(context.Background(), title, ""); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

func (m Model) complete(id string, done bool) tea.Cmd {
	return func() tea.Msg {
		if err := m.svc.Complete(context.Background(), id, done); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

func (m Model) delete(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.svc.Delete(context.Background(), id); err != nil {
			return errMsg{err}
		}
		return nil
	}
}
