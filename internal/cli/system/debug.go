package system

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/habitcoach/internal/cli"
	"github.com/julianstephens/habitcoach/internal/utils"
)

type DebugCmd struct {
	DBPath       *DebugDBPathCmd       `cmd:"" help:"Show database path."`
	DumpHabit    *DebugDumpHabitCmd    `cmd:"" help:"Dump habit data as JSON."`
	DumpInsight  *DebugDumpInsightCmd  `cmd:"" help:"Dump the cached weekly insight as JSON."`
	DumpNudge    *DebugDumpNudgeCmd    `cmd:"" help:"Dump the cached daily nudge as JSON."`
	DumpSettings *DebugDumpSettingsCmd `cmd:"" help:"Dump the effective settings as JSON (secrets omitted)."`
}

func printJSON(ctx *cli.Context, what string, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", what, err)
	}
	fmt.Fprintln(ctx.Out, string(jsonBytes))
	return nil
}

// resolveDay accepts YYYY-MM-DD or "today".
func resolveDay(ctx *cli.Context, day string) (time.Time, error) {
	if day == "today" {
		day = ""
	}
	return ctx.ReferenceDay(day)
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, "output", map[string]string{
		"path": ctx.Store.GetConfigPath(),
	})
}

type DebugDumpHabitCmd struct {
	Habit string `arg:"" help:"ID or title of the habit to dump."`
}

type habitDump struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	CreatedAt      time.Time `json:"createdAt"`
	CompletedDates []string  `json:"completedDates"`
	Streak         int       `json:"streak"`
	LongestStreak  int       `json:"longestStreak"`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.Habits.Resolve(context.Background(), cmd.Habit)
	if err != nil {
		return fmt.Errorf("failed to get habit: %w", err)
	}
	if habit == nil {
		return fmt.Errorf("habit not found: %s", cmd.Habit)
	}

	return printJSON(ctx, "habit", habitDump{
		ID:             habit.ID,
		Title:          habit.Title,
		Description:    habit.Description,
		CreatedAt:      habit.CreatedAt,
		CompletedDates: habit.SortedDates(),
		Streak:         habit.Streak,
		LongestStreak:  habit.LongestStreak,
	})
}

type DebugDumpInsightCmd struct {
	Day string `arg:"" help:"Any day in the week (YYYY-MM-DD or 'today')." default:"today"`
}

func (cmd *DebugDumpInsightCmd) Run(ctx *cli.Context) error {
	ref, err := resolveDay(ctx, cmd.Day)
	if err != nil {
		return err
	}

	weekOf := utils.FormatDate(utils.WeekStart(ref))
	wi, err := ctx.Store.GetWeeklyInsight(context.Background(), weekOf, ctx.Clock())
	if err != nil {
		return fmt.Errorf("failed to get weekly insight: %w", err)
	}
	if wi == nil {
		return fmt.Errorf("no cached weekly insight for week of %s", weekOf)
	}
	return printJSON(ctx, "weekly insight", wi)
}

type DebugDumpNudgeCmd struct {
	Day string `arg:"" help:"Day of the nudge (YYYY-MM-DD or 'today')." default:"today"`
}

func (cmd *DebugDumpNudgeCmd) Run(ctx *cli.Context) error {
	ref, err := resolveDay(ctx, cmd.Day)
	if err != nil {
		return err
	}

	date := utils.FormatDate(ref)
	n, err := ctx.Store.GetDailyNudge(context.Background(), date, ctx.Clock())
	if err != nil {
		return fmt.Errorf("failed to get daily nudge: %w", err)
	}
	if n == nil {
		return fmt.Errorf("no cached daily nudge for %s", date)
	}
	return printJSON(ctx, "daily nudge", n)
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	cfg := *ctx.Config
	cfg.AI.APIKey = ""
	cfg.Notify.Telegram.Token = ""
	return printJSON(ctx, "settings", cfg)
}
