// Package analytics derives streaks, completion rates and break risk from
// habit completion history. Every function takes "today" explicitly.
package analytics

import (
	"sort"
	"time"

	"github.com/julianstephens/habitcoach/internal/constants"
	"github.com/julianstephens/habitcoach/internal/models"
	"github.com/julianstephens/habitcoach/internal/utils"
)

// ComputeStatistics aggregates the given habits as of today.
func ComputeStatistics(habits []models.Habit, today time.Time) models.HabitStatistics {
	var stats models.HabitStatistics
	if len(habits) == 0 {
		return stats
	}

	today = utils.StartOfDay(today)
	todayKey := utils.FormatDate(today)

	union := make(map[string]struct{})
	for _, h := range habits {
		if h.HasCompleted(todayKey) {
			stats.CompletedToday++
		}
		stats.TotalCompleted += len(h.CompletedDates)
		for d := range h.CompletedDates {
			union[d] = struct{}{}
		}
	}

	stats.TotalHabits = len(habits)
	stats.CurrentStreak = CurrentStreak(union, today)
	stats.LongestStreak = LongestStreak(union)
	stats.WeeklyCompletionRate = WeeklyCompletionRate(habits, today)
	stats.WeeklyDailyRates = WeeklyDailyRates(habits, today)

	return stats
}

// CurrentStreak counts consecutive days present in dates ending today. If
// today is absent but yesterday is present the count starts from yesterday.
func CurrentStreak(dates map[string]struct{}, today time.Time) int {
	day := utils.StartOfDay(today)
	if _, ok := dates[utils.FormatDate(day)]; !ok {
		day = utils.AddDays(day, -1)
		if _, ok := dates[utils.FormatDate(day)]; !ok {
			return 0
		}
	}

	streak := 0
	for {
		if _, ok := dates[utils.FormatDate(day)]; !ok {
			return streak
		}
		streak++
		day = utils.AddDays(day, -1)
	}
}

// LongestStreak returns the longest run of consecutive calendar days in dates.
func LongestStreak(dates map[string]struct{}) int {
	days := make([]time.Time, 0, len(dates))
	for d := range dates {
		t, err := time.Parse(constants.DateFormat, d)
		if err != nil {
			continue
		}
		days = append(days, t)
	}
	if len(days) == 0 {
		return 0
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if utils.DaysBetween(days[i-1], days[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// HabitStreak is CurrentStreak scoped to a single habit.
func HabitStreak(h models.Habit, today time.Time) int {
	return CurrentStreak(h.CompletedDates, today)
}

// WeeklyCompletionRate is the ratio of completions to possible completions
// over each habit's window [max(created, today-6), today].
func WeeklyCompletionRate(habits []models.Habit, today time.Time) float64 {
	if len(habits) == 0 {
		return 0
	}

	today = utils.StartOfDay(today)
	weekAgo := utils.AddDays(today, -6)

	var possible, actual int
	for _, h := range habits {
		start := h.CreatedDate(today.Location())
		if start.Before(weekAgo) {
			start = weekAgo
		}

		days := utils.DaysBetween(start, today) + 1
		if days < 1 {
			days = 1
		}
		possible += days

		for d := start; !d.After(today); d = utils.AddDays(d, 1) {
			if h.HasCompleted(utils.FormatDate(d)) {
				actual++
			}
		}
	}

	return clamp01(float64(actual) / float64(possible))
}

// WeeklyDailyRates returns per-day completion rates for Monday..Sunday of the
// ISO week containing today. Days after today are reported as 0.
func WeeklyDailyRates(habits []models.Habit, today time.Time) [7]float64 {
	var rates [7]float64
	today = utils.StartOfDay(today)
	monday := utils.WeekStart(today)

	for i := 0; i < 7; i++ {
		day := utils.AddDays(monday, i)
		if day.After(today) {
			break
		}

		key := utils.FormatDate(day)
		eligible, done := 0, 0
		for _, h := range habits {
			if h.CreatedDate(today.Location()).After(day) {
				continue
			}
			eligible++
			if h.HasCompleted(key) {
				done++
			}
		}
		if eligible > 0 {
			rates[i] = float64(done) / float64(eligible)
		}
	}
	return rates
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// RefreshStreaks recomputes a habit's derived streak fields as of today.
// LongestStreak only ever grows.
func RefreshStreaks(h models.Habit, today time.Time) models.Habit {
	h.Streak = HabitStreak(h, today)
	if h.Streak > h.LongestStreak {
		h.LongestStreak = h.Streak
	}
	return h
}
