package insight

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitcoach/internal/analytics"
	"github.com/julianstephens/habitcoach/internal/models"
	"github.com/julianstephens/habitcoach/internal/utils"
)

// WeeklyFallback builds a weekly insight from local statistics alone.
func WeeklyFallback(habits []models.Habit, stats models.HabitStatistics, ref, now time.Time) models.WeeklyInsight {
	score := percent(stats.WeeklyCompletionRate)

	var recommendation string
	switch {
	case score >= 80:
		recommendation = "Great work! Keep this pace going 🔥"
	case score >= 50:
		recommendation = "More than halfway there! Push a little further 💪"
	case len(habits) == 0:
		recommendation = "No habits yet. Add your first habit to get started!"
	default:
		recommendation = "Starting is half the battle. Try again with one small habit 🌱"
	}

	return models.WeeklyInsight{
		WeekOf:             weekKey(ref),
		Summary:            fmt.Sprintf("Weekly habit completion: %d%%", score),
		TopPerformingHabit: topPerforming(habits, ref),
		MostAtRiskHabit:    firstIncomplete(habits, ref),
		Recommendation:     recommendation,
		OverallScore:       score,
		GeneratedAt:        now,
		Source:             models.SourceFallback,
	}
}

// DailyFallback builds a daily nudge from local statistics alone.
func DailyFallback(stats models.HabitStatistics, ref, now time.Time) models.DailyNudge {
	var msg string
	switch {
	case stats.TotalHabits == 0:
		msg = "Start your first habit today - small steps lead to big changes 🌱"
	case stats.CurrentStreak >= 7:
		msg = fmt.Sprintf("🔥 %d-day streak! You're on fire. Keep it going today.", stats.CurrentStreak)
	case stats.CurrentStreak >= 3:
		msg = fmt.Sprintf("💪 %d days in a row! Don't break the chain today.", stats.CurrentStreak)
	case stats.CompletedToday == stats.TotalHabits:
		msg = "🎉 All habits done today! Amazing consistency."
	case stats.CompletedToday == 0:
		msg = "Your habits are waiting - completing even one today keeps the momentum alive."
	default:
		msg = fmt.Sprintf("You've completed %d/%d habits today. Finish strong! 💫", stats.CompletedToday, stats.TotalHabits)
	}

	return models.DailyNudge{
		Date:        dayKey(ref),
		Message:     msg,
		GeneratedAt: now,
		Source:      models.SourceFallback,
	}
}

// topPerforming returns the title of the habit with the longest current
// streak, the earliest one on ties.
func topPerforming(habits []models.Habit, ref time.Time) *string {
	if len(habits) == 0 {
		return nil
	}
	best, bestStreak := 0, -1
	for i, h := range habits {
		if s := analytics.HabitStreak(h, ref); s > bestStreak {
			best, bestStreak = i, s
		}
	}
	title := habits[best].Title
	return &title
}

func firstIncomplete(habits []models.Habit, ref time.Time) *string {
	day := utils.FormatDate(ref)
	for _, h := range habits {
		if !h.HasCompleted(day) {
			title := h.Title
			return &title
		}
	}
	return nil
}

func weekKey(ref time.Time) string {
	return utils.FormatDate(utils.WeekStart(ref))
}

func dayKey(ref time.Time) string {
	return utils.FormatDate(ref)
}
