// Package tui is the interactive habit dashboard. It renders the live habit
// list from Observe and applies mutations through the habits service.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitcoach/internal/habits"
	"github.com/julianstephens/habitcoach/internal/models"
	habitlist "github.com/julianstephens/habitcoach/internal/tui/components/habits"
)

type SessionState int

const (
	StateList SessionState = iota
	StateAddHabit
	StateConfirmDelete
)

type KeyMap struct {
	Quit    key.Binding
	Help    key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n/esc", "cancel"),
		),
	}
}

// habitsMsg carries a snapshot from the store subscription.
type habitsMsg []models.Habit

// errMsg reports a failed mutation; the dashboard keeps running.
type errMsg struct{ err error }

type Model struct {
	svc     *habits.Service
	updates <-chan []models.Habit
	clock   func() time.Time

	state       SessionState
	keys        KeyMap
	help        help.Model
	habitsModel habitlist.Model
	input       textinput.Model

	habitToDelete models.Habit
	formError     string
	quitting      bool
	width         int
	height        int
}

// NewModel builds the dashboard. updates is normally the channel returned by
// the store's Observe and must emit the current list first.
func NewModel(svc *habits.Service, updates <-chan []models.Habit, clock func() time.Time) Model {
	if clock == nil {
		clock = time.Now
	}

	ti := textinput.New()
	ti.Placeholder = "Habit title"
	ti.CharLimit = 120

	return Model{
		svc:         svc,
		updates:     updates,
		clock:       clock,
		state:       StateList,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		habitsModel: habitlist.New(nil, clock(), 0, 0),
		input:       ti,
	}
}

func (m Model) ShortHelp() []key.Binding {
	switch m.state {
	case StateAddHabit:
		return []key.Binding{m.keys.Cancel}
	case StateConfirmDelete:
		return []key.Binding{m.keys.Confirm, m.keys.Cancel}
	}
	return append(m.habitsModel.ShortHelp(), m.keys.Help, m.keys.Quit)
}

func (m Model) FullHelp() [][]key.Binding {
	if m.state != StateList {
		return [][]key.Binding{m.ShortHelp()}
	}
	return append(m.habitsModel.FullHelp(), []key.Binding{m.keys.Help, m.keys.Quit})
}

func (m Model) Init() tea.Cmd {
	return waitForHabits(m.updates)
}

func waitForHabits(updates <-chan []models.Habit) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		list, ok := <-updates
		if !ok {
			return nil
		}
		return habitsMsg(list)
	}
}
