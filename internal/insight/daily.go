package insight

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/julianstephens/habitcoach/internal/ai"
	"github.com/julianstephens/habitcoach/internal/constants"
	"github.com/julianstephens/habitcoach/internal/logger"
	"github.com/julianstephens/habitcoach/internal/models"
	"github.com/julianstephens/habitcoach/internal/storage"
)

// DailyNudgeGenerator produces the nudge for a reference date.
type DailyNudgeGenerator struct {
	gateway ai.Gateway
	cache   storage.DailyNudgeCache
	now     func() time.Time
	group   singleflight.Group
}

// NewDailyNudgeGenerator wires a generator. A nil gateway always falls back;
// now stamps GeneratedAt and defaults to time.Now.
func NewDailyNudgeGenerator(gateway ai.Gateway, cache storage.DailyNudgeCache, now func() time.Time) *DailyNudgeGenerator {
	if now == nil {
		now = time.Now
	}
	return &DailyNudgeGenerator{gateway: gateway, cache: cache, now: now}
}

// Generate returns the nudge for ref's date.
func (g *DailyNudgeGenerator) Generate(ctx context.Context, habits []models.Habit, stats models.HabitStatistics, ref time.Time) (models.DailyNudge, error) {
	if err := ctx.Err(); err != nil {
		return models.DailyNudge{}, err
	}

	key := dayKey(ref)
	ch := g.group.DoChan(key, func() (interface{}, error) {
		return g.generate(ctx, key, habits, stats, ref)
	})

	select {
	case <-ctx.Done():
		return models.DailyNudge{}, ctx.Err()
	case res := <-ch:
		if res.Err == nil {
			return res.Val.(models.DailyNudge), nil
		}
		if err := ctx.Err(); err != nil {
			return models.DailyNudge{}, err
		}
		// The caller we piggybacked on was cancelled; we were not.
		return g.generate(ctx, key, habits, stats, ref)
	}
}

func (g *DailyNudgeGenerator) generate(ctx context.Context, key string, habits []models.Habit, stats models.HabitStatistics, ref time.Time) (models.DailyNudge, error) {
	fallback := func(reason string, err error) (models.DailyNudge, error) {
		logger.Warn("Using fallback daily nudge", "date", key, "reason", reason, "error", err)
		return DailyFallback(stats, ref, g.now()), nil
	}

	cached, err := g.cache.GetDailyNudge(ctx, key, ref)
	if ctx.Err() != nil {
		return models.DailyNudge{}, ctx.Err()
	}
	if err != nil {
		return fallback("cache read failed", err)
	}
	if cached != nil {
		logger.Debug("Daily nudge cache hit", "date", key, "source", cached.Source)
		return *cached, nil
	}

	if g.gateway == nil {
		return fallback("no AI gateway configured", nil)
	}

	text, err := g.gateway.Complete(ctx, ai.Request{
		System:    dailySystemInstruction,
		Prompt:    dailyPrompt(habits, stats, ref),
		MaxTokens: constants.DailyNudgeMaxToken,
	})
	if ctx.Err() != nil {
		return models.DailyNudge{}, ctx.Err()
	}
	if err != nil {
		return fallback("AI request failed", err)
	}

	msg, err := parseDaily(text)
	if err != nil {
		return fallback("AI reply rejected", err)
	}

	nudge := models.DailyNudge{
		Date:        key,
		Message:     msg,
		GeneratedAt: g.now(),
		Source:      models.SourceAI,
	}

	if err := g.cache.SaveDailyNudge(ctx, nudge); err != nil {
		if ctx.Err() != nil {
			return models.DailyNudge{}, ctx.Err()
		}
		return fallback("cache write failed", err)
	}

	logger.Info("Generated daily nudge", "date", key)
	return nudge, nil
}
