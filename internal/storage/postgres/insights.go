package postgres

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

// GetWeeklyInsight evicts expired rows and reads weekOf in one transaction.
func (s *Store) GetWeeklyInsight(ctx context.Context, weekOf string, ref time.Time) (*models.WeeklyInsight, error) {
	var out *models.WeeklyInsight
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM weekly_insights WHERE week_of < $1", storage.EvictionCutoff(ref))
		if err != nil {
			return fmt.Errorf("failed to evict weekly insights: %w", err)
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
			FROM weekly_insights WHERE week_of = $1`, weekOf).
			Scan(&w.WeekOf, &w.Summary, &top, &risk, &w.Recommendation, &w.OverallScore, &generatedAt, &source)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get weekly insight: %w", err)
		}

		if w.Source, err = models.ParseInsightSource(source); err != nil {
			return err
		}
		if top.Valid {
			w.TopPerformingHabit = &top.String
		}
		if risk.Valid {
			w.MostAtRiskHabit = &risk.String
		}
		w.GeneratedAt = time.UnixMilli(generatedAt)
		out = &w
		return nil
	})
	return out, err
}

func (s *Store) SaveWeeklyInsight(ctx context.Context, w models.WeeklyInsight) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO weekly_insights
		(week_of, summary, top_performing_habit, most_at_risk_habit, recommendation, overall_score, generated_at, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (week_of) DO UPDATE SET
			summary = EXCLUDED.summary,
			top_performing_habit = EXCLUDED.top_performing_habit,
			most_at_risk_habit = EXCLUDED.most_at_risk_habit,
			recommendation = EXCLUDED.recommendation,
			overall_score = EXCLUDED.overall_score,
			generated_at = EXCLUDED.generated_at,
			source = EXCLUDED.source`,
		w.WeekOf, w.Summary, storage.NullString(w.TopPerformingHabit), storage.NullString(w.MostAtRiskHabit),
		w.Recommendation, w.OverallScore, w.GeneratedAt.UnixMilli(), string(w.Source))
	if err != nil {
		return fmt.Errorf("failed to save weekly insight: %w", err)
	}
	return nil
}

func (s *Store) GetDailyNudge(ctx context.Context, date string, ref time.Time) (*models.DailyNudge, error) {
	var out *models.DailyNudge
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM daily_nudges WHERE date < $1", storage.EvictionCutoff(ref))
		if err != nil {
			return fmt.Errorf("failed to evict daily nudges: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			logger.Debug("Evicted daily nudges", "count", n)
		}

		var nudge models.DailyNudge
		var generatedAt int64
		var source string
		err = tx.QueryRowContext(ctx, "SELECT date, message, generated_at, source FROM daily_nudges WHERE date = $1", date).
			Scan(&nudge.Date, &nudge.Message, &generatedAt, &source)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get daily nudge: %w", err)
		}

		if nudge.Source, err = models.ParseInsightSource(source); err != nil {
			return err
		}
		nudge.GeneratedAt = time.UnixMilli(generatedAt)
		out = &nudge
		return nil
	})
	return out, err
}

func (s *Store) SaveDailyNudge(ctx context.Context, n models.DailyNudge) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO daily_nudges (date, message, generated_at, source)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (date) DO UPDATE SET
			message = EXCLUDED.message,
			generated_at = EXCLUDED.generated_at,
			source = EXCLUDED.source`,
		n.Date, n.Message, n.GeneratedAt.UnixMilli(), string(n.Source))
	if err != nil {
		return fmt.Errorf("failed to save daily nudge: %w", err)
	}
	return nil
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
