package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitcoach/internal/logger"
	"github.com/julianstephens/habitcoach/internal/models"
	"github.com/julianstephens/habitcoach/internal/storage"
)

func (s *Store) GetWeeklyInsight(ctx context.Context, weekOf string, ref time.Time) (*models.WeeklyInsight, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM weekly_insights WHERE week_of < ?", storage.EvictionCutoff(ref))
	if err != nil {
		return nil, fmt.Errorf("failed to evict weekly insights: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		logger.Debug("Evicted weekly insights", "count", n)
	}

	var w models.WeeklyInsight
	var top, risk sql.NullString
	var generatedAt int64
	var source string
	err = tx.QueryRowContext(ctx, `
		SELECT week_of, summary, top_performing_habit, most_at_risk_habit, recommendation, overall_score, generated_at, source
		FROM weekly_insights WHERE week_of = ?`, weekOf).
		Scan(&w.WeekOf, &w.Summary, &top, &risk, &w.Recommendation, &w.OverallScore, &generatedAt, &source)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get weekly insight: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if w.Source, err = models.ParseInsightSource(source); err != nil {
		return nil, err
	}
	if top.Valid {
		w.TopPerformingHabit = &top.String
	}
	if risk.Valid {
		w.MostAtRiskHabit = &risk.String
	}
	w.GeneratedAt = time.UnixMilli(generatedAt)
	return &w, nil
}

func (s *Store) SaveWeeklyInsight(ctx context.Context, w models.WeeklyInsight) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO weekly_insights
		(week_of, summary, top_performing_habit, most_at_risk_habit, recommendation, overall_score, generated_at, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		w.WeekOf, w.Summary, storage.NullString(w.TopPerformingHabit), storage.NullString(w.MostAtRiskHabit),
		w.Recommendation, w.OverallScore, w.GeneratedAt.UnixMilli(), string(w.Source))
	if err != nil {
		return fmt.Errorf("failed to save weekly insight: %w", err)
	}
	return nil
}

func (s *Store) GetDailyNudge(ctx context.Context, date string, ref time.Time) (*models.DailyNudge, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM daily_nudges WHERE date < ?", storage.EvictionCutoff(ref))
	if err != nil {
		return nil, fmt.Errorf("failed to evict daily nudges: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		logger.Debug("Evicted daily nudges", "count", n)
	}

	var nudge models.DailyNudge
	var generatedAt int64
	var source string
	err = tx.QueryRowContext(ctx, "SELECT date, message, generated_at, source FROM daily_nudges WHERE date = ?", date).
		Scan(&nudge.Date, &nudge.Message, &generatedAt, &source)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get daily nudge: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if nudge.Source, err = models.ParseInsightSource(source); err != nil {
		return nil, err
	}
	nudge.GeneratedAt = time.UnixMilli(generatedAt)
	return &nudge, nil
}

func (s *Store) SaveDailyNudge(ctx context.Context, n models.DailyNudge) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO daily_nudges (date, message, generated_at, source)
		VALUES (?, ?, ?, ?)`,
		n.Date, n.Message, n.GeneratedAt.UnixMilli(), string(n.Source))
	if err != nil {
		return fmt.Errorf("failed to save daily nudge: %w", err)
	}
	return nil
}
