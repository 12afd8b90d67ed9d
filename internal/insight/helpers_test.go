package insight

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/julianstephens/habitcoach/internal/ai"
	"github.com/julianstephens/habitcoach/internal/models"
	"github.com/julianstephens/habitcoach/internal/utils"
)

// Thursday
var testRef = time.Date(2024, 5, 9, 15, 30, 0, 0, time.UTC)

var testNow = time.Date(2024, 5, 9, 16, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func day(offset int) string {
	return utils.FormatDate(utils.AddDays(testRef, offset))
}

func newHabit(title string, createdOffset int, completedOffsets ...int) models.Habit {
	dates := make([]string, 0, len(completedOffsets))
	for _, o := range completedOffsets {
		dates = append(dates, day(o))
	}
	return models.Habit{
		ID:             title,
		Title:          title,
		CreatedAt:      utils.AddDays(testRef, createdOffset),
		CompletedDates: models.NewDateSet(dates...),
	}
}

// stubGateway counts calls and replies with a canned response.
type stubGateway struct {
	reply   string
	err     error
	block   chan struct{}
	calls   atomic.Int32
	lastReq ai.Request
	mu      sync.Mutex
}

func (g *stubGateway) Complete(ctx context.Context, req ai.Request) (string, error) {
	g.calls.Add(1)
	g.mu.Lock()
	g.lastReq = req
	g.mu.Unlock()

	if g.block != nil {
		select {
		case <-g.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return g.reply, g.err
}

func (g *stubGateway) request() ai.Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastReq
}

// memCache is an in-memory WeeklyInsightCache and DailyNudgeCache.
type memCache struct {
	mu      sync.Mutex
	weekly  map[string]models.WeeklyInsight
	daily   map[string]models.DailyNudge
	getErr  error
	saveErr error
	saves   int
}

func newMemCache() *memCache {
	return &memCache{
		weekly: make(map[string]models.WeeklyInsight),
		daily:  make(map[string]models.DailyNudge),
	}
}

func (c *memCache) GetWeeklyInsight(_ context.Context, weekOf string, _ time.Time) (*models.WeeklyInsight, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	if v, ok := c.weekly[weekOf]; ok {
		return &v, nil
	}
	return nil, nil
}

func (c *memCache) SaveWeeklyInsight(_ context.Context, insight models.WeeklyInsight) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.saveErr != nil {
		return c.saveErr
	}
	c.saves++
	c.weekly[insight.WeekOf] = insight
	return nil
}

func (c *memCache) GetDailyNudge(_ context.Context, date string, _ time.Time) (*models.DailyNudge, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	if v, ok := c.daily[date]; ok {
		return &v, nil
	}
	return nil, nil
}

func (c *memCache) SaveDailyNudge(_ context.Context, nudge models.DailyNudge) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.saveErr != nil {
		return c.saveErr
	}
	c.saves++
	c.daily[nudge.Date] = nudge
	return nil
}

func (c *memCache) saveCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saves
}

func strPtr(s string) *string { return &s }
