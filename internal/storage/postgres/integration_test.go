package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/julianstephens/habitcoach/internal/models"
)

// TestStore_Integration tests PostgreSQL store with a real database
// Set POSTGRES_TEST_URL environment variable to run this test
// Example: POSTGRES_TEST_URL="postgres://habitcoach_user@localhost:5432/habitcoach_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	store := New(connStr)
	if err := store.Init(); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	ref := time.Date(2024, 5, 9, 0, 0, 0, 0, time.UTC)

	t.Run("Habits", func(t *testing.T) {
		habit := models.Habit{
			ID:             "it-habit-1",
			Title:          "Stretch",
			CreatedAt:      ref,
			CompletedDates: models.NewDateSet("2024-05-08"),
			Streak:         1,
			LongestStreak:  1,
		}
		t.Cleanup(func() { store.DeleteHabit(ctx, habit.ID) })

		if _, err := store.CreateHabit(ctx, habit); err != nil {
			t.Fatalf("Failed to create habit: %v", err)
		}

		got, err := store.GetHabit(ctx, habit.ID)
		if err != nil || got == nil {
			t.Fatalf("Failed to get habit: %v (nil=%v)", err, got == nil)
		}
		if got.Title != "Stretch" || !got.HasCompleted("2024-05-08") {
			t.Errorf("Unexpected habit: %+v", got)
		}

		if err := store.DeleteHabit(ctx, habit.ID); err != nil {
			t.Fatalf("Failed to delete habit: %v", err)
		}
		if err := store.DeleteHabit(ctx, habit.ID); err != nil {
			t.Errorf("Second delete should be a no-op: %v", err)
		}
	})

	t.Run("DailyNudgeCache", func(t *testing.T) {
		old := models.DailyNudge{Date: "2024-04-01", Message: "old", GeneratedAt: ref, Source: models.SourceAI}
		fresh := models.DailyNudge{Date: "2024-05-09", Message: "fresh", GeneratedAt: ref, Source: models.SourceAI}
		for _, n := range []models.DailyNudge{old, fresh} {
			if err := store.SaveDailyNudge(ctx, n); err != nil {
				t.Fatalf("Failed to save nudge: %v", err)
			}
		}

		fresh.Message = "replaced"
		if err := store.SaveDailyNudge(ctx, fresh); err != nil {
			t.Fatalf("Failed to replace nudge: %v", err)
		}

		got, err := store.GetDailyNudge(ctx, "2024-05-09", ref)
		if err != nil || got == nil {
			t.Fatalf("Failed to get nudge: %v", err)
		}
		if got.Message != "replaced" {
			t.Errorf("Expected replaced message, got %q", got.Message)
		}

		evicted, err := store.GetDailyNudge(ctx, "2024-04-01", ref)
		if err != nil {
			t.Fatalf("Failed to get evicted nudge: %v", err)
		}
		if evicted != nil {
			t.Errorf("Expected eviction of %s", old.Date)
		}
	})
}
