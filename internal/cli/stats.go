package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/habitcoach/internal/analytics"
	apperrors "github.com/julianstephens/habitcoach/internal/errors"
)

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *Context) error {
	_, stats, _, err := ctx.Snapshot(context.Background())
	if err != nil {
		return errors.New(apperrors.UserMessage("load statistics", err))
	}
	fmt.Fprintln(ctx.Out, renderStatistics(stats))
	return nil
}

type RiskCmd struct {
	All bool `help:"Show every assessed habit, not only those at risk."`
}

func (c *RiskCmd) Run(ctx *Context) error {
	list, _, now, err := ctx.Snapshot(context.Background())
	if err != nil {
		return errors.New(apperrors.UserMessage("assess habits", err))
	}

	fmt.Fprintln(ctx.Out, titleStyle.Render(fmt.Sprintf("Risk for %s", now.Weekday())))
	shown := 0
	for _, h := range list {
		a, assessed := analytics.AssessRisk(h, now)
		switch {
		case !assessed:
			if c.All {
				fmt.Fprintf(ctx.Out, "  %s %s\n", h.Title, mutedStyle.Render("not enough history"))
				shown++
			}
		case a.IsAtRisk:
			fmt.Fprintf(ctx.Out, "%s %s %s\n", dangerStyle.Render("!"), h.Title, dangerStyle.Render(fmt.Sprintf("missed %d%% of recent %ss", percent(a.MissRate), now.Weekday())))
			shown++
		case c.All:
			fmt.Fprintf(ctx.Out, "  %s %s\n", h.Title, doneStyle.Render(fmt.Sprintf("missed %d%%", percent(a.MissRate))))
			shown++
		}
	}
	if shown == 0 {
		fmt.Fprintln(ctx.Out, "No habits at risk today.")
	}
	return nil
}
