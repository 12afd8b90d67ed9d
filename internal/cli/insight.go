package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	apperrors "github.com/julianstephens/habitcoach/internal/errors"
)

type InsightCmd struct {
	Weekly InsightWeeklyCmd `cmd:"" help:"Show the coaching insight for a week." default:"1"`
	Nudge  InsightNudgeCmd  `cmd:"" help:"Show the motivational nudge for a day."`
}

type InsightWeeklyCmd struct {
	Date string `help:"Any day in the week, YYYY-MM-DD (default: today)."`
}

func (c *InsightWeeklyCmd) Run(ctx *Context) error {
	ref, err := ctx.ReferenceDay(c.Date)
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	list, stats, _, err := ctx.SnapshotAt(sigCtx, ref)
	if err != nil {
		return errors.New(apperrors.UserMessage("load habits", err))
	}
	wi, err := ctx.Weekly.Generate(sigCtx, list, stats, ref)
	if err != nil {
		return fmt.Errorf("weekly insight cancelled: %w", err)
	}
	fmt.Fprintln(ctx.Out, renderWeeklyInsight(wi))
	return nil
}

type InsightNudgeCmd struct {
	Date string `help:"Day to nudge for, YYYY-MM-DD (default: today)."`
}

func (c *InsightNudgeCmd) Run(ctx *Context) error {
	ref, err := ctx.ReferenceDay(c.Date)
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	list, stats, _, err := ctx.SnapshotAt(sigCtx, ref)
	if err != nil {
		return errors.New(apperrors.UserMessage("load habits", err))
	}
	n, err := ctx.Daily.Generate(sigCtx, list, stats, ref)
	if err != nil {
		return fmt.Errorf("daily nudge cancelled: %w", err)
	}
	fmt.Fprintln(ctx.Out, renderDailyNudge(n))
	return nil
}
