package system

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/julianstephens/habitcoach/internal/models"
)

func TestDebugDBPathCmd(t *testing.T) {
	ctx, dbPath, out := setupTestContext(t)

	if err := (&DebugDBPathCmd{}).Run(ctx); err != nil {
		t.Fatalf("DebugDBPathCmd.Run() error = %v", err)
	}

	var got map[string]string
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if got["path"] != dbPath {
		t.Errorf("path = %q, want %q", got["path"], dbPath)
	}
}

func TestDebugDumpHabitCmd(t *testing.T) {
	ctx, out := setupTestDB(t)
	if _, err := ctx.Store.CreateHabit(context.Background(), newTestHabit("Read")); err != nil {
		t.Fatalf("CreateHabit() error = %v", err)
	}

	if err := (&DebugDumpHabitCmd{Habit: "read"}).Run(ctx); err != nil {
		t.Fatalf("DebugDumpHabitCmd.Run() error = %v", err)
	}

	var got habitDump
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if got.ID != "id-Read" || len(got.CompletedDates) != 1 || got.Streak != 1 {
		t.Errorf("dump = %+v", got)
	}

	if err := (&DebugDumpHabitCmd{Habit: "ghost"}).Run(ctx); err == nil {
		t.Error("dumping an unknown habit should fail")
	}
}

func TestDebugDumpNudgeCmd(t *testing.T) {
	ctx, out := setupTestDB(t)
	bg := context.Background()

	if err := (&DebugDumpNudgeCmd{Day: "today"}).Run(ctx); err == nil {
		t.Error("dumping an uncached nudge should fail")
	}

	nudge := models.DailyNudge{Date: "2024-05-09", Message: "Go!", GeneratedAt: testNow, Source: models.SourceAI}
	if err := ctx.Store.SaveDailyNudge(bg, nudge); err != nil {
		t.Fatalf("SaveDailyNudge() error = %v", err)
	}
	if err := (&DebugDumpNudgeCmd{Day: "2024-05-09"}).Run(ctx); err != nil {
		t.Fatalf("DebugDumpNudgeCmd.Run() error = %v", err)
	}
	if !strings.Contains(out.String(), `"Go!"`) {
		t.Errorf("output missing message:\n%s", out.String())
	}
}

func TestDebugDumpInsightCmdUsesWeekStart(t *testing.T) {
	ctx, out := setupTestDB(t)
	wi := models.WeeklyInsight{WeekOf: "2024-05-06", Summary: "s", Recommendation: "r", GeneratedAt: testNow, Source: models.SourceAI}
	if err := ctx.Store.SaveWeeklyInsight(context.Background(), wi); err != nil {
		t.Fatalf("SaveWeeklyInsight() error = %v", err)
	}

	// Saturday of the same week
	if err := (&DebugDumpInsightCmd{Day: "2024-05-11"}).Run(ctx); err != nil {
		t.Fatalf("DebugDumpInsightCmd.Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "2024-05-06") {
		t.Errorf("output missing week:\n%s", out.String())
	}
}

func TestDebugDumpSettingsOmitsSecrets(t *testing.T) {
	ctx, _, out := setupTestContext(t)
	ctx.Config.AI.APIKey = "sk-should-not-print"
	ctx.Config.Notify.Telegram.Token = "123:secret"

	if err := (&DebugDumpSettingsCmd{}).Run(ctx); err != nil {
		t.Fatalf("DebugDumpSettingsCmd.Run() error = %v", err)
	}
	if strings.Contains(out.String(), "sk-should-not-print") || strings.Contains(out.String(), "123:secret") {
		t.Errorf("settings dump leaks secrets:\n%s", out.String())
	}
	if ctx.Config.AI.APIKey == "" {
		t.Error("dumping settings must not clear the live config")
	}
}
