package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/habitcoach/internal/logger"
	"github.com/julianstephens/habitcoach/internal/models"
	"github.com/julianstephens/habitcoach/internal/storage"
)

const habitColumns = storage.HabitColumns

func (s *Store) ListHabits(ctx context.Context) ([]models.Habit, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+habitColumns+" FROM habits ORDER BY created_at, id")
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
	row := s.db.QueryRowContext(ctx, "SELECT "+habitColumns+" FROM habits WHERE id = ?", id)
	h, err := storage.ScanHabit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get habit: %w", err)
	}
	return &h, nil
}

func (s *Store) CreateHabit(ctx context.Context, habit models.Habit) (string, error) {
	dates, err := storage.EncodeDates(habit.CompletedDates)
	if err != nil {
		return "", err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO habits (`+habitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		habit.ID, habit.Title, habit.Description, habit.CreatedAt.UnixMilli(), dates, habit.Streak, habit.LongestStreak)
	if err != nil {
		return "", fmt.Errorf("failed to insert habit: %w", err)
	}

	s.publish(ctx)
	return habit.ID, nil
}

func (s *Store) UpdateHabit(ctx context.Context, habit models.Habit) error {
	dates, err := storage.EncodeDates(habit.CompletedDates)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE habits
		SET title = ?, description = ?, completed_dates = ?, streak = ?, longest_streak = ?
		WHERE id = ?`,
		habit.Title, habit.Description, dates, habit.Streak, habit.LongestStreak, habit.ID)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}

	s.publish(ctx)
	return nil
}

func (s *Store) DeleteHabit(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM habits WHERE id = ?", id)
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
