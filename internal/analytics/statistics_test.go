package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/habitcoach/internal/models"
	"github.com/julianstephens/habitcoach/internal/utils"
)

// Thursday
var testToday = time.Date(2024, 5, 9, 15, 30, 0, 0, time.UTC)

func day(offset int) string {
	return utils.FormatDate(utils.AddDays(testToday, offset))
}

func newHabit(title string, createdOffset int, completedOffsets ...int) models.Habit {
	dates := make([]string, 0, len(completedOffsets))
	for _, o := range completedOffsets {
		dates = append(dates, day(o))
	}
	return models.Habit{
		ID:             title,
		Title:          title,
		CreatedAt:      utils.AddDays(testToday, createdOffset).Add(9 * time.Hour),
		CompletedDates: models.NewDateSet(dates...),
	}
}

func TestComputeStatisticsEmpty(t *testing.T) {
	got := ComputeStatistics(nil, testToday)
	if diff := cmp.Diff(models.HabitStatistics{}, got); diff != "" {
		t.Errorf("ComputeStatistics(nil) mismatch (-want +got):\n%s", diff)
	}
}

func TestCurrentStreak(t *testing.T) {
	tests := []struct {
		name    string
		offsets []int
		want    int
	}{
		{name: "empty", offsets: nil, want: 0},
		{name: "today only", offsets: []int{0}, want: 1},
		{name: "ending today", offsets: []int{0, -1, -2}, want: 3},
		{name: "grace from yesterday", offsets: []int{-1, -2}, want: 2},
		{name: "gap of two days breaks", offsets: []int{-2, -3, -4}, want: 0},
		{name: "stops at first gap", offsets: []int{0, -1, -3, -4}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHabit("h", -30, tt.offsets...)
			if got := CurrentStreak(h.CompletedDates, testToday); got != tt.want {
				t.Errorf("CurrentStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLongestStreak(t *testing.T) {
	tests := []struct {
		name  string
		dates []string
		want  int
	}{
		{name: "empty history", dates: nil, want: 0},
		{name: "single date", dates: []string{"2024-05-01"}, want: 1},
		{name: "two runs", dates: []string{"2024-05-01", "2024-05-02", "2024-05-03", "2024-05-05", "2024-05-06"}, want: 3},
		{name: "across month boundary", dates: []string{"2024-04-29", "2024-04-30", "2024-05-01"}, want: 3},
		{name: "across leap day", dates: []string{"2024-02-28", "2024-02-29", "2024-03-01"}, want: 3},
		{name: "ignores malformed", dates: []string{"2024-05-01", "not-a-date", "2024-05-02"}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LongestStreak(models.NewDateSet(tt.dates...)); got != tt.want {
				t.Errorf("LongestStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAggregateStreaksUseDateUnion(t *testing.T) {
	// Neither habit alone has a 4-day run, but together they cover 4 days.
	habits := []models.Habit{
		newHabit("a", -30, 0, -2),
		newHabit("b", -30, -1, -3),
	}

	stats := ComputeStatistics(habits, testToday)
	if stats.CurrentStreak != 4 {
		t.Errorf("CurrentStreak = %d, want 4", stats.CurrentStreak)
	}
	if stats.LongestStreak != 4 {
		t.Errorf("LongestStreak = %d, want 4", stats.LongestStreak)
	}
	if stats.CompletedToday != 1 {
		t.Errorf("CompletedToday = %d, want 1", stats.CompletedToday)
	}
	if stats.TotalCompleted != 4 {
		t.Errorf("TotalCompleted = %d, want 4", stats.TotalCompleted)
	}
}

func TestWeeklyCompletionRateWindow(t *testing.T) {
	tests := []struct {
		name   string
		habits []models.Habit
		want   float64
	}{
		{
			name:   "no habits",
			habits: nil,
			want:   0,
		},
		{
			name:   "created today counts one possible day",
			habits: []models.Habit{newHabit("new", 0, 0)},
			want:   1,
		},
		{
			name:   "young habit window clamps to creation",
			habits: []models.Habit{newHabit("young", -1, -1, 0)},
			want:   1,
		},
		{
			// young: 2 possible, 2 actual; old: 7 possible, 1 actual
			name:   "denominator sums per-habit windows",
			habits: []models.Habit{newHabit("young", -1, -1, 0), newHabit("old", -40, -3)},
			want:   3.0 / 9.0,
		},
		{
			name:   "completions outside window ignored",
			habits: []models.Habit{newHabit("old", -40, -7, -8, -20)},
			want:   0,
		},
		{
			name:   "full week",
			habits: []models.Habit{newHabit("old", -40, 0, -1, -2, -3, -4, -5, -6)},
			want:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeeklyCompletionRate(tt.habits, testToday)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("WeeklyCompletionRate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeeklyDailyRates(t *testing.T) {
	t.Run("completed every day this week", func(t *testing.T) {
		// Monday..Thursday are -3..0
		h := newHabit("read", -30, -3, -2, -1, 0)
		got := WeeklyDailyRates([]models.Habit{h}, testToday)
		want := [7]float64{1, 1, 1, 1, 0, 0, 0}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("WeeklyDailyRates() mismatch (-want +got):\n%s", diff)
		}

		stats := ComputeStatistics([]models.Habit{h}, testToday)
		if stats.CompletedToday != 1 {
			t.Errorf("CompletedToday = %d, want 1", stats.CompletedToday)
		}
	})

	t.Run("only eligible habits in denominator", func(t *testing.T) {
		old := newHabit("old", -30, -3, -1)
		// created Wednesday
		young := newHabit("young", -1, -1)
		got := WeeklyDailyRates([]models.Habit{old, young}, testToday)
		want := [7]float64{1, 0, 1, 0, 0, 0, 0}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("WeeklyDailyRates() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("no eligible habits", func(t *testing.T) {
		future := newHabit("future", 1)
		got := WeeklyDailyRates([]models.Habit{future}, testToday)
		if diff := cmp.Diff([7]float64{}, got); diff != "" {
			t.Errorf("WeeklyDailyRates() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestHabitStreakGrace(t *testing.T) {
	h := newHabit("h", -10, -1, -2, -3)
	if got := HabitStreak(h, testToday); got != 3 {
		t.Errorf("HabitStreak() = %d, want 3", got)
	}
}

func TestRefreshStreaks(t *testing.T) {
	tests := []struct {
		name        string
		habit       models.Habit
		storedLong  int
		wantStreak  int
		wantLongest int
	}{
		{name: "stale streak decays", habit: newHabit("h", -30, -3, -4, -5), storedLong: 3, wantStreak: 0, wantLongest: 3},
		{name: "longest grows with streak", habit: newHabit("h", -30, 0, -1, -2, -3), storedLong: 2, wantStreak: 4, wantLongest: 4},
		{name: "longest never shrinks", habit: newHabit("h", -30, 0), storedLong: 9, wantStreak: 1, wantLongest: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := tt.habit
			h.Streak = 99
			h.LongestStreak = tt.storedLong
			got := RefreshStreaks(h, testToday)
			if got.Streak != tt.wantStreak || got.LongestStreak != tt.wantLongest {
				t.Errorf("RefreshStreaks() = (%d, %d), want (%d, %d)", got.Streak, got.LongestStreak, tt.wantStreak, tt.wantLongest)
			}
		})
	}
}
