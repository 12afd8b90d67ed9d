package settings

import (
	"fmt"

	"github.com/julianstephens/habitcoach/internal/cli"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Provider       *string `help:"AI provider (openai or gemini)."`
	Model          *string `help:"AI model name."`
	BaseURL        *string `help:"Override the AI provider endpoint." name:"base-url"`
	Timeout        *string `help:"AI request timeout, e.g. 30s."`
	Daily          *string `help:"Cron schedule for the daily nudge."`
	Weekly         *string `help:"Cron schedule for the weekly insight."`
	Timezone       *string `help:"IANA timezone that defines today."`
	RetryBase      *string `help:"Delay before the first job retry, e.g. 30s." name:"retry-base"`
	Tray           *bool   `help:"Send notifications to the tray app."`
	TelegramChatID *int64  `help:"Telegram chat to notify (0 disables)." name:"telegram-chat-id"`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	cfg := *ctx.Config

	if c.List {
		out := ctx.Out
		fmt.Fprintf(out, "Current Settings (%s):\n", ctx.SettingsPath)
		fmt.Fprintf(out, "  AI Provider:        %s\n", cfg.AI.Provider)
		fmt.Fprintf(out, "  AI Model:           %s\n", cfg.AIModel())
		fmt.Fprintf(out, "  AI Base URL:        %s\n", orDefault(cfg.AI.BaseURL))
		fmt.Fprintf(out, "  AI Timeout:         %s\n", cfg.AITimeout())
		fmt.Fprintf(out, "  AI Key Configured:  %v\n", cfg.AIKey() != "")
		fmt.Fprintln(out, "\nSchedule Settings:")
		fmt.Fprintf(out, "  Daily Nudge:        %s\n", cfg.Schedule.Daily)
		fmt.Fprintf(out, "  Weekly Insight:     %s\n", cfg.Schedule.Weekly)
		fmt.Fprintf(out, "  Timezone:           %s\n", orDefault(cfg.Schedule.Timezone))
		fmt.Fprintf(out, "  Retry Base:         %s\n", cfg.RetryBase())
		fmt.Fprintln(out, "\nNotification Settings:")
		fmt.Fprintf(out, "  Tray:               %v\n", cfg.Notify.Tray)
		fmt.Fprintf(out, "  Telegram Chat ID:   %d\n", cfg.Notify.Telegram.ChatID)
		return nil
	}

	updated := false
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
			updated = true
		}
	}
	set(&cfg.AI.Provider, c.Provider)
	set(&cfg.AI.Model, c.Model)
	set(&cfg.AI.BaseURL, c.BaseURL)
	set(&cfg.AI.Timeout, c.Timeout)
	set(&cfg.Schedule.Daily, c.Daily)
	set(&cfg.Schedule.Weekly, c.Weekly)
	set(&cfg.Schedule.Timezone, c.Timezone)
	set(&cfg.Schedule.RetryBase, c.RetryBase)
	if c.Tray != nil {
		cfg.Notify.Tray = *c.Tray
		updated = true
	}
	if c.TelegramChatID != nil {
		cfg.Notify.Telegram.ChatID = *c.TelegramChatID
		updated = true
	}

	if !updated {
		fmt.Fprintln(ctx.Out, "No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.Save(ctx.SettingsPath); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	*ctx.Config = cfg
	fmt.Fprintln(ctx.Out, "Settings updated successfully.")
	return nil
}

func orDefault(s string) string {
	if s == "" {
		return "(default)"
	}
	return s
}
