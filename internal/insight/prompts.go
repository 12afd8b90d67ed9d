package insight

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/julianstephens/habitcoach/internal/analytics"
	"github.com/julianstephens/habitcoach/internal/models"
	"github.com/julianstephens/habitcoach/internal/utils"
)

const weeklySystemInstruction = `You are a behavioral coach assistant. Analyze habit data and return a JSON object with these exact keys: ` +
	`"summary" (2-3 sentences), "topPerformingHabit" (string or null), "mostAtRiskHabit" (string or null), ` +
	`"recommendation" (1 specific action), "overallScore" (integer 0-100). No markdown, pure JSON only.`

const dailySystemInstruction = `You are a concise daily habit coach. Return a single JSON object with key "message" ` +
	`containing a 1-2 sentence motivational nudge personalized to the user's habit data. ` +
	`Be specific, warm, and actionable. No markdown, pure JSON only.`

func weeklyPrompt(habits []models.Habit, stats models.HabitStatistics, ref time.Time) string {
	var b strings.Builder
	b.WriteString("Weekly habit data for behavioral analysis:\n")
	fmt.Fprintf(&b, "Total habits: %d\n", stats.TotalHabits)
	fmt.Fprintf(&b, "Completed today: %d\n", stats.CompletedToday)
	fmt.Fprintf(&b, "Current streak: %d days\n", stats.CurrentStreak)
	fmt.Fprintf(&b, "Longest streak: %d days\n", stats.LongestStreak)
	fmt.Fprintf(&b, "Weekly completion rate: %d%%\n", percent(stats.WeeklyCompletionRate))
	b.WriteString("\nIndividual habits:\n")
	for _, h := range habits {
		fmt.Fprintf(&b, "- %q: %d completions total, streak %dd\n", h.Title, len(h.CompletedDates), analytics.HabitStreak(h, ref))
	}
	b.WriteString("\nProvide a JSON behavioral coaching insight for this week.")
	return b.String()
}

func dailyPrompt(habits []models.Habit, stats models.HabitStatistics, ref time.Time) string {
	date := utils.FormatDate(ref)

	var b strings.Builder
	fmt.Fprintf(&b, "Daily habit snapshot for %s:\n", date)
	fmt.Fprintf(&b, "Total habits: %d\n", stats.TotalHabits)
	fmt.Fprintf(&b, "Completed today: %d/%d\n", stats.CompletedToday, stats.TotalHabits)
	fmt.Fprintf(&b, "Current streak: %d days\n", stats.CurrentStreak)
	b.WriteString("\nToday's status:\n")
	for _, h := range habits {
		status := "✗ not done"
		if h.HasCompleted(date) {
			status = "✓ done"
		}
		fmt.Fprintf(&b, "- %q: %s, streak %dd\n", h.Title, status, analytics.HabitStreak(h, ref))
	}
	b.WriteString("\nGenerate a short personalized daily coaching nudge as JSON.")
	return b.String()
}

func percent(rate float64) int {
	return int(math.Round(rate * 100))
}
