package system

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/habitcoach/internal/cli"
	"github.com/julianstephens/habitcoach/internal/notifier"
)

type NotifyCmd struct {
	Text   []string `arg:"" help:"Notification text."`
	Title  string   `help:"Notification title."`
	DryRun bool     `help:"Print the notification to stdout instead of sending it."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	msg := notifier.Message{Title: c.Title, Body: strings.Join(c.Text, " ")}
	if strings.TrimSpace(msg.Body) == "" {
		return fmt.Errorf("notification text must not be empty")
	}

	if c.DryRun {
		fmt.Fprintln(ctx.Out, "[DryRun] "+msg.Text())
		return nil
	}

	sinks, err := ctx.Sinks()
	if err != nil {
		return err
	}
	if err := sinks.Notify(context.Background(), msg); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}
