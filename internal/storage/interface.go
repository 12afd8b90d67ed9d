package storage

import (
	"context"
	"time"

	"github.com/julianstephens/habitcoach/internal/models"
)

// HabitStore holds habit records. GetHabit returns (nil, nil) when the id is
// unknown and DeleteHabit succeeds for unknown ids.
type HabitStore interface {
	// Observe emits the full habit list on subscribe and after every mutation.
	// The channel is closed when ctx is done.
	Observe(ctx context.Context) (<-chan []models.Habit, error)
	ListHabits(ctx context.Context) ([]models.Habit, error)
	GetHabit(ctx context.Context, id string) (*models.Habit, error)
	CreateHabit(ctx context.Context, habit models.Habit) (string, error)
	UpdateHabit(ctx context.Context, habit models.Habit) error
	DeleteHabit(ctx context.Context, id string) error
}

// WeeklyInsightCache is keyed by the Monday of the week. Get evicts entries
// older than ref minus the TTL before reading.
type WeeklyInsightCache interface {
	GetWeeklyInsight(ctx context.Context, weekOf string, ref time.Time) (*models.WeeklyInsight, error)
	SaveWeeklyInsight(ctx context.Context, insight models.WeeklyInsight) error
}

// DailyNudgeCache is keyed by date with the same eviction rule as WeeklyInsightCache.
type DailyNudgeCache interface {
	GetDailyNudge(ctx context.Context, date string, ref time.Time) (*models.DailyNudge, error)
	SaveDailyNudge(ctx context.Context, nudge models.DailyNudge) error
}

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error
	GetConfigPath() string

	// Schema
	SchemaVersion() (current int, latest int, err error)
	Migrate(logFn func(string)) (int, error)

	HabitStore
	WeeklyInsightCache
	DailyNudgeCache
}
