package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/habitcoach/internal/logger"
	"github.com/julianstephens/habitcoach/internal/models"
	"github.com/julianstephens/habitcoach/internal/storage"
)

func (s *Store) ListHabits(ctx context.Context) ([]models.Habit, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+storage.HabitColumns+" FROM habits ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to query habits: %w", err)
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		h, err := storage.ScanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate habits: %w", err)
	}
	return habits, nil
}

func (s *Store) GetHabit(ctx context.Context, id string) (*models.Habit, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+storage.HabitColumns+" FROM habits WHERE id = $1", id)
	h, err := storage.ScanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get habit: %w", err)
	}
	return &h, nil
}

func (s *Store) CreateHabit(ctx context.Context, habit models.Habit) (string, error) {
	dates, err := storage.EncodeDates(habit.CompletedDates)
	if err != nil {
		return "", err
	}

	var id string
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO habits (`+storage.HabitColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		habit.ID, habit.Title, habit.Description, habit.CreatedAt.UnixMilli(), dates, habit.Streak, habit.LongestStreak).
		Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to insert habit: %w", err)
	}

	s.publish(ctx)
	return id, nil
}

func (s *Store) UpdateHabit(ctx context.Context, habit models.Habit) error {
	dates, err := storage.EncodeDates(habit.CompletedDates)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE habits
		SET title = $1, description = $2, completed_dates = $3, streak = $4, longest_streak = $5
		WHERE id = $6`,
		habit.Title, habit.Description, dates, habit.Streak, habit.LongestStreak, habit.ID)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}

	s.publish(ctx)
	return nil
}

func (s *Store) DeleteHabit(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM habits WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}

	if n, _ := res.RowsAffected(); n > 0 {
		s.publish(ctx)
	}
	return nil
}

func (s *Store) Observe(ctx context.Context) (<-chan []models.Habit, error) {
	habits, err := s.ListHabits(ctx)
	if err != nil {
		return nil, err
	}
	return s.habits.Subscribe(ctx, habits), nil
}

func (s *Store) publish(ctx context.Context) {
	if s.habits.Subscribers() == 0 {
		return
	}
	habits, err := s.ListHabits(context.WithoutCancel(ctx))
	if err != nil {
		logger.Warn("Failed to refresh habit observers", "error", err)
		return
	}
	s.habits.Publish(habits)
}
