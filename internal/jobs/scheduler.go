// Package jobs runs the scheduled daily nudge and weekly insight jobs.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"

	"github.com/julianstephens/habitcoach/internal/analytics"
	"github.com/julianstephens/habitcoach/internal/constants"
	"github.com/julianstephens/habitcoach/internal/logger"
	"github.com/julianstephens/habitcoach/internal/models"
	"github.com/julianstephens/habitcoach/internal/notifier"
)

// HabitLister is the read side of the habit service.
type HabitLister interface {
	List(ctx context.Context) ([]models.Habit, error)
}

type DailyGenerator interface {
	Generate(ctx context.Context, habits []models.Habit, stats models.HabitStatistics, ref time.Time) (models.DailyNudge, error)
}

type WeeklyGenerator interface {
	Generate(ctx context.Context, habits []models.Habit, stats models.HabitStatistics, ref time.Time) (models.WeeklyInsight, error)
}

// Options configures when jobs fire and how failures are retried.
type Options struct {
	DailySpec  string
	WeeklySpec string
	Location   *time.Location
	// RetryBase is the delay before the second attempt; it doubles after that.
	RetryBase time.Duration
	Clock     func() time.Time
}

// Scheduler fires jobs on cron schedules and retries failed runs.
type Scheduler struct {
	cron      *cron.Cron
	habits    HabitLister
	daily     DailyGenerator
	weekly    WeeklyGenerator
	sink      notifier.Sink
	clock     func() time.Time
	retryBase time.Duration
	log       *log.Logger
	dailyID   cron.EntryID
	weeklyID  cron.EntryID

	mu      sync.Mutex
	baseCtx context.Context
	cancel  context.CancelFunc
	running sync.WaitGroup
}

// New validates the cron specs and builds a stopped scheduler.
func New(habits HabitLister, daily DailyGenerator, weekly WeeklyGenerator, sink notifier.Sink, opts Options) (*Scheduler, error) {
	if opts.DailySpec == "" {
		opts.DailySpec = constants.DefaultDailyCron
	}
	if opts.WeeklySpec == "" {
		opts.WeeklySpec = constants.DefaultWeeklyCron
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.RetryBase <= 0 {
		opts.RetryBase = constants.JobRetryBaseDelay
	}
	if opts.Clock == nil {
		loc := opts.Location
		opts.Clock = func() time.Time { return time.Now().In(loc) }
	}

	s := &Scheduler{
		cron:      cron.New(cron.WithLocation(opts.Location)),
		habits:    habits,
		daily:     daily,
		weekly:    weekly,
		sink:      sink,
		clock:     opts.Clock,
		retryBase: opts.RetryBase,
		log:       logger.Component("jobs"),
	}

	var err error
	if s.dailyID, err = s.cron.AddFunc(opts.DailySpec, s.trigger("daily_nudge", s.dailyNudge)); err != nil {
		return nil, fmt.Errorf("invalid daily schedule %q: %w", opts.DailySpec, err)
	}
	if s.weeklyID, err = s.cron.AddFunc(opts.WeeklySpec, s.trigger("weekly_insight", s.weeklyInsight)); err != nil {
		return nil, fmt.Errorf("invalid weekly schedule %q: %w", opts.WeeklySpec, err)
	}
	return s, nil
}

// Start begins firing jobs. Jobs run with a context derived from ctx.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.baseCtx = ctx
	s.cron.Start()
	s.log.Info("Scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop cancels running jobs, including any pending retries, and waits for
// them to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-s.cron.Stop().Done()
	s.running.Wait()
	s.log.Info("Scheduler stopped")
}

// Next returns the next fire time of each job after now, keyed by job name.
func (s *Scheduler) Next(now time.Time) map[string]time.Time {
	return map[string]time.Time{
		"daily_nudge":    s.cron.Entry(s.dailyID).Schedule.Next(now),
		"weekly_insight": s.cron.Entry(s.weeklyID).Schedule.Next(now),
	}
}

// RunDailyNow runs the daily nudge job immediately, with retries.
func (s *Scheduler) RunDailyNow(ctx context.Context) error {
	return s.withRetry(ctx, "daily_nudge", s.dailyNudge)
}

// RunWeeklyNow runs the weekly insight job immediately, with retries.
func (s *Scheduler) RunWeeklyNow(ctx context.Context) error {
	return s.withRetry(ctx, "weekly_insight", s.weeklyInsight)
}

func (s *Scheduler) trigger(name string, job func(context.Context) error) func() {
	return func() {
		s.mu.Lock()
		ctx := s.baseCtx
		if s.cancel == nil || ctx == nil {
			s.mu.Unlock()
			return
		}
		s.running.Add(1)
		s.mu.Unlock()
		defer s.running.Done()

		// Failures are logged by withRetry; a cron tick has nobody to return to.
		_ = s.withRetry(ctx, name, job)
	}
}

func (s *Scheduler) withRetry(ctx context.Context, name string, job func(context.Context) error) error {
	attempt := 0
	op := func() error {
		attempt++
		err := job(ctx)
		if err == nil {
			if attempt > 1 {
				s.log.Info("Job succeeded after retry", "job", name, "attempt", attempt)
			}
			return nil
		}
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, delay time.Duration) {
		s.log.Warn("Job failed, retrying", "job", name, "attempt", attempt, "delay", delay, "error", err)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(newBackOff(s.retryBase), constants.JobMaxAttempts-1), ctx)
	err := backoff.RetryNotify(op, policy, notify)
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		s.log.Warn("Job cancelled", "job", name, "attempt", attempt)
		return fmt.Errorf("%s cancelled: %w", name, ctxErr)
	}

	s.log.Error("Job failed", "job", name, "attempts", attempt, "error", err)
	return fmt.Errorf("%s failed after %d attempts: %w", name, attempt, err)
}

// newBackOff is a deterministic exponential policy: base, 2*base, 4*base...
func newBackOff(base time.Duration) *backoff.ExponentialBackOff {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     base,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         time.Duration(math.MaxInt64),
		MaxElapsedTime:      0,
		Stop:                backoff.Stop,
		Clock:               backoff.SystemClock,
	}
	b.Reset()
	return b
}

// Backoff returns the delay after the given failed attempt (1-based).
func Backoff(base time.Duration, attempt int) time.Duration {
	b := newBackOff(base)
	delay := b.NextBackOff()
	for n := 1; n < attempt; n++ {
		delay = b.NextBackOff()
	}
	return delay
}

func (s *Scheduler) snapshot(ctx context.Context) ([]models.Habit, models.HabitStatistics, time.Time, error) {
	habits, err := s.habits.List(ctx)
	if err != nil {
		return nil, models.HabitStatistics{}, time.Time{}, err
	}
	today := s.clock()
	return habits, analytics.ComputeStatistics(habits, today), today, nil
}

func (s *Scheduler) dailyNudge(ctx context.Context) error {
	habits, stats, today, err := s.snapshot(ctx)
	if err != nil {
		return err
	}

	nudge, err := s.daily.Generate(ctx, habits, stats, today)
	if err != nil {
		return err
	}
	s.log.Debug("Daily nudge ready", "date", nudge.Date, "source", nudge.Source)

	return s.notify(ctx, notifier.Message{Title: constants.DailyNudgeTitle, Body: nudge.Message})
}

func (s *Scheduler) weeklyInsight(ctx context.Context) error {
	habits, stats, today, err := s.snapshot(ctx)
	if err != nil {
		return err
	}

	insight, err := s.weekly.Generate(ctx, habits, stats, today)
	if err != nil {
		return err
	}
	s.log.Debug("Weekly insight ready", "week_of", insight.WeekOf, "source", insight.Source)

	return s.notify(ctx, notifier.Message{
		Title: constants.WeeklyInsightTitle,
		Body:  insight.Summary + "\n\n" + insight.Recommendation,
	})
}

func (s *Scheduler) notify(ctx context.Context, msg notifier.Message) error {
	if s.sink == nil {
		return errors.New("no notification sink configured")
	}
	return s.sink.Notify(ctx, msg)
}
