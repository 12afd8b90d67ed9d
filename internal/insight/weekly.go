package insight

import (
	"context"
	"math"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/julianstephens/habitcoach/internal/ai"
	"github.com/julianstephens/habitcoach/internal/constants"
	"github.com/julianstephens/habitcoach/internal/logger"
	"github.com/julianstephens/habitcoach/internal/models"
	"github.com/julianstephens/habitcoach/internal/storage"
)

// WeeklyInsightGenerator produces the insight for the ISO week of a
// reference date.
type WeeklyInsightGenerator struct {
	gateway ai.Gateway
	cache   storage.WeeklyInsightCache
	now     func() time.Time
	group   singleflight.Group
}

// NewWeeklyInsightGenerator wires a generator. A nil gateway always falls
// back; now stamps GeneratedAt and defaults to time.Now.
func NewWeeklyInsightGenerator(gateway ai.Gateway, cache storage.WeeklyInsightCache, now func() time.Time) *WeeklyInsightGenerator {
	if now == nil {
		now = time.Now
	}
	return &WeeklyInsightGenerator{gateway: gateway, cache: cache, now: now}
}

// Generate returns the insight for the week containing ref.
func (g *WeeklyInsightGenerator) Generate(ctx context.Context, habits []models.Habit, stats models.HabitStatistics, ref time.Time) (models.WeeklyInsight, error) {
	if err := ctx.Err(); err != nil {
		return models.WeeklyInsight{}, err
	}

	key := weekKey(ref)
	ch := g.group.DoChan(key, func() (interface{}, error) {
		return g.generate(ctx, key, habits, stats, ref)
	})

	select {
	case <-ctx.Done():
		return models.WeeklyInsight{}, ctx.Err()
	case res := <-ch:
		if res.Err == nil {
			return res.Val.(models.WeeklyInsight), nil
		}
		if err := ctx.Err(); err != nil {
			return models.WeeklyInsight{}, err
		}
		// The caller we piggybacked on was cancelled; we were not.
		return g.generate(ctx, key, habits, stats, ref)
	}
}

func (g *WeeklyInsightGenerator) generate(ctx context.Context, key string, habits []models.Habit, stats models.HabitStatistics, ref time.Time) (models.WeeklyInsight, error) {
	fallback := func(reason string, err error) (models.WeeklyInsight, error) {
		logger.Warn("Using fallback weekly insight", "week_of", key, "reason", reason, "error", err)
		return WeeklyFallback(habits, stats, ref, g.now()), nil
	}

	cached, err := g.cache.GetWeeklyInsight(ctx, key, ref)
	if ctx.Err() != nil {
		return models.WeeklyInsight{}, ctx.Err()
	}
	if err != nil {
		return fallback("cache read failed", err)
	}
	if cached != nil {
		logger.Debug("Weekly insight cache hit", "week_of", key, "source", cached.Source)
		return *cached, nil
	}

	if g.gateway == nil {
		return fallback("no AI gateway configured", nil)
	}

	text, err := g.gateway.Complete(ctx, ai.Request{
		System:    weeklySystemInstruction,
		Prompt:    weeklyPrompt(habits, stats, ref),
		MaxTokens: constants.WeeklyInsightMaxToken,
	})
	if ctx.Err() != nil {
		return models.WeeklyInsight{}, ctx.Err()
	}
	if err != nil {
		return fallback("AI request failed", err)
	}

	reply, err := parseWeekly(text)
	if err != nil {
		return fallback("AI reply rejected", err)
	}

	insight := models.WeeklyInsight{
		WeekOf:             key,
		Summary:            reply.Summary,
		TopPerformingHabit: reply.TopPerformingHabit,
		MostAtRiskHabit:    reply.MostAtRiskHabit,
		Recommendation:     reply.Recommendation,
		OverallScore:       int(math.Round(reply.OverallScore)),
		GeneratedAt:        g.now(),
		Source:             models.SourceAI,
	}

	if err := g.cache.SaveWeeklyInsight(ctx, insight); err != nil {
		if ctx.Err() != nil {
			return models.WeeklyInsight{}, ctx.Err()
		}
		return fallback("cache write failed", err)
	}

	logger.Info("Generated weekly insight", "week_of", key, "score", insight.OverallScore)
	return insight, nil
}
