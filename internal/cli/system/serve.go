package system

import (
	"context"
	"fmt"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/julianstephens/habitcoach/internal/cli"
	"github.com/julianstephens/habitcoach/internal/jobs"
	"github.com/julianstephens/habitcoach/internal/logger"
)

type ServeCmd struct {
	RunNow bool `help:"Run the daily nudge once before waiting for the schedule."`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched, err := newScheduler(ctx)
	if err != nil {
		return err
	}
	return serve(sigCtx, ctx, sched, c.RunNow)
}

func newScheduler(ctx *cli.Context) (*jobs.Scheduler, error) {
	loc, err := ctx.Config.Location()
	if err != nil {
		return nil, err
	}
	sinks, err := ctx.Sinks()
	if err != nil {
		return nil, err
	}

	return jobs.New(ctx.Habits, ctx.Daily, ctx.Weekly, sinks, jobs.Options{
		DailySpec:  ctx.Config.Schedule.Daily,
		WeeklySpec: ctx.Config.Schedule.Weekly,
		Location:   loc,
		RetryBase:  ctx.Config.RetryBase(),
		Clock:      func() time.Time { return ctx.Clock().In(loc) },
	})
}

// serve runs sched until sigCtx is done.
func serve(sigCtx context.Context, ctx *cli.Context, sched *jobs.Scheduler, runNow bool) error {
	sched.Start(sigCtx)
	defer sched.Stop()

	next := sched.Next(ctx.Clock())
	names := make([]string, 0, len(next))
	for name := range next {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(ctx.Out, "%s next run: %s\n", name, next[name].Format("Mon 2006-01-02 15:04 MST"))
	}

	if runNow {
		if err := sched.RunDailyNow(sigCtx); err != nil {
			logger.Warn("Immediate daily nudge failed", "error", err)
			fmt.Fprintf(ctx.Out, "Daily nudge failed: %v\n", err)
		}
	}

	fmt.Fprintln(ctx.Out, "Scheduler running. Press Ctrl+C to stop.")
	<-sigCtx.Done()
	fmt.Fprintln(ctx.Out, "Shutting down...")
	return nil
}
