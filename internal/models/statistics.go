package models

// HabitStatistics is an aggregate snapshot recomputed on every read.
type HabitStatistics struct {
	TotalHabits          int
	CompletedToday       int
	TotalCompleted       int
	CurrentStreak        int
	LongestStreak        int
	WeeklyCompletionRate float64
	// WeeklyDailyRates holds Monday..Sunday of the current ISO week.
	WeeklyDailyRates [7]float64
}

// HabitRiskAssessment is the break-risk evaluation of a single habit.
type HabitRiskAssessment struct {
	Habit    Habit
	MissRate float64
	IsAtRisk bool
}
