package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/habitcoach/internal/ai"
	"github.com/julianstephens/habitcoach/internal/analytics"
	"github.com/julianstephens/habitcoach/internal/config"
	"github.com/julianstephens/habitcoach/internal/habits"
	"github.com/julianstephens/habitcoach/internal/insight"
	"github.com/julianstephens/habitcoach/internal/logger"
	"github.com/julianstephens/habitcoach/internal/models"
	"github.com/julianstephens/habitcoach/internal/notifier"
	"github.com/julianstephens/habitcoach/internal/storage"
	"github.com/julianstephens/habitcoach/internal/utils"
)

// Context is shared by every command.
type Context struct {
	Store        storage.Provider
	Config       *config.Config
	// SettingsPath is where Config was loaded from and is saved to.
	SettingsPath string
	Clock        func() time.Time
	Out          io.Writer

	Habits *habits.Service
	Weekly *insight.WeeklyInsightGenerator
	Daily  *insight.DailyNudgeGenerator

	// Sinks builds the notification sinks on demand.
	Sinks func() (notifier.Multi, error)
}

// NewContext wires the services around store. gateway may be nil, in which
// case every insight comes from the local fallback.
func NewContext(store storage.Provider, cfg *config.Config, gateway ai.Gateway, clock func() time.Time) *Context {
	if cfg == nil {
		cfg = config.Default()
	}
	if clock == nil {
		clock = time.Now
	}

	c := &Context{
		Store:  store,
		Config: cfg,
		Clock:  clock,
		Out:    os.Stdout,
		Habits: habits.NewService(store, clock),
		Weekly: insight.NewWeeklyInsightGenerator(gateway, store, clock),
		Daily:  insight.NewDailyNudgeGenerator(gateway, store, clock),
	}
	c.Sinks = c.configuredSinks
	return c
}

// NewGateway builds the AI gateway from cfg. A missing API key is not an
// error: it yields a nil gateway and fallback-only insights.
func NewGateway(ctx context.Context, cfg *config.Config) (ai.Gateway, error) {
	key := cfg.AIKey()
	if key == "" {
		logger.Debug("No AI API key configured; insights will use local fallbacks")
		return nil, nil
	}
	return ai.New(ctx, ai.Options{
		Provider: cfg.AI.Provider,
		APIKey:   key,
		Model:    cfg.AIModel(),
		BaseURL:  cfg.AI.BaseURL,
		Timeout:  cfg.AITimeout(),
	})
}

func (c *Context) configuredSinks() (notifier.Multi, error) {
	var sinks notifier.Multi
	if c.Config.Notify.Tray {
		sinks = append(sinks, notifier.NewTray())
	}
	if chatID := c.Config.Notify.Telegram.ChatID; chatID != 0 {
		tg, err := notifier.NewTelegram(c.Config.TelegramToken(), chatID)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, tg)
	}
	if len(sinks) == 0 {
		return nil, notifier.ErrNoSinks
	}
	return sinks, nil
}

// Snapshot loads every habit and computes statistics at the context clock.
func (c *Context) Snapshot(ctx context.Context) ([]models.Habit, models.HabitStatistics, time.Time, error) {
	return c.SnapshotAt(ctx, c.Clock())
}

// SnapshotAt is Snapshot with statistics computed for ref instead of now.
func (c *Context) SnapshotAt(ctx context.Context, ref time.Time) ([]models.Habit, models.HabitStatistics, time.Time, error) {
	list, err := c.Habits.List(ctx)
	if err != nil {
		return nil, models.HabitStatistics{}, time.Time{}, err
	}
	return list, analytics.ComputeStatistics(list, ref), ref, nil
}

// ReferenceDay parses an optional YYYY-MM-DD flag, keeping the current time
// of day so the result lands on the requested calendar day.
func (c *Context) ReferenceDay(date string) (time.Time, error) {
	now := c.Clock()
	if date == "" {
		return now, nil
	}
	day, err := utils.ParseDateInLocation(date, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", date)
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), now.Location()), nil
}
