package models

import (
	"sort"
	"time"

	"github.com/julianstephens/habitcoach/internal/constants"
)

// Habit is a tracked routine. CompletedDates is the source of truth for
// completion state; Streak and LongestStreak are derived from it.
type Habit struct {
	ID             string
	Title          string
	Description    string
	CreatedAt      time.Time
	CompletedDates map[string]struct{}
	Streak         int
	LongestStreak  int
}

// NewDateSet builds a completion set from date strings.
func NewDateSet(dates ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}
	return set
}

// HasCompleted reports whether the habit was completed on the given day (YYYY-MM-DD).
func (h Habit) HasCompleted(day string) bool {
	_, ok := h.CompletedDates[day]
	return ok
}

// IsCompletedToday reports whether today's date is in CompletedDates.
func (h Habit) IsCompletedToday(today time.Time) bool {
	return h.HasCompleted(today.Format(constants.DateFormat))
}

// SortedDates returns the completed dates in ascending order.
func (h Habit) SortedDates() []string {
	dates := make([]string, 0, len(h.CompletedDates))
	for d := range h.CompletedDates {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// CreatedDate returns the calendar day the habit was created in loc.
func (h Habit) CreatedDate(loc *time.Location) time.Time {
	c := h.CreatedAt.In(loc)
	return time.Date(c.Year(), c.Month(), c.Day(), 0, 0, 0, 0, loc)
}

// Clone returns a copy with its own date set.
func (h Habit) Clone() Habit {
	c := h
	c.CompletedDates = make(map[string]struct{}, len(h.CompletedDates))
	for d := range h.CompletedDates {
		c.CompletedDates[d] = struct{}{}
	}
	return c
}
