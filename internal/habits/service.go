// Package habits implements the habit mutations: create, edit, toggle
// today's completion and delete.
package habits

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitcoach/internal/analytics"
	apperrors "github.com/julianstephens/habitcoach/internal/errors"
	"github.com/julianstephens/habitcoach/internal/logger"
	"github.com/julianstephens/habitcoach/internal/models"
	"github.com/julianstephens/habitcoach/internal/storage"
	"github.com/julianstephens/habitcoach/internal/utils"
)

// ErrBlankTitle is returned when a habit title is empty after trimming.
var ErrBlankTitle = apperrors.NewUserError("habit title must not be blank")

// Service applies habit mutations against a store. clock supplies "today".
type Service struct {
	store storage.HabitStore
	clock func() time.Time
}

func NewService(store storage.HabitStore, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{store: store, clock: clock}
}

// Create stores a new habit and returns its id.
func (s *Service) Create(ctx context.Context, title, description string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrBlankTitle
	}

	habit := models.Habit{
		ID:             uuid.New().String(),
		Title:          title,
		Description:    strings.TrimSpace(description),
		CreatedAt:      s.clock(),
		CompletedDates: models.NewDateSet(),
	}

	id, err := s.store.CreateHabit(ctx, habit)
	if err != nil {
		return "", fmt.Errorf("failed to create habit: %w", err)
	}
	logger.Debug("Habit created", "id", id, "title", title)
	return id, nil
}

// Update changes a habit's title and description. Completion history is
// left untouched. Unknown ids are ignored.
func (s *Service) Update(ctx context.Context, id, title, description string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrBlankTitle
	}

	habit, err := s.store.GetHabit(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load habit: %w", err)
	}
	if habit == nil {
		logger.Debug("Update of unknown habit ignored", "id", id)
		return nil
	}

	habit.Title = title
	habit.Description = strings.TrimSpace(description)
	if err := s.store.UpdateHabit(ctx, *habit); err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	return nil
}

// Complete marks today done (or not done) for a habit and refreshes its
// streaks. Unknown ids are ignored.
func (s *Service) Complete(ctx context.Context, id string, completed bool) error {
	habit, err := s.store.GetHabit(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load habit: %w", err)
	}
	if habit == nil {
		logger.Debug("Completion of unknown habit ignored", "id", id)
		return nil
	}

	today := s.clock()
	key := utils.FormatDate(today)

	updated := habit.Clone()
	if completed {
		updated.CompletedDates[key] = struct{}{}
	} else {
		delete(updated.CompletedDates, key)
	}
	updated = analytics.RefreshStreaks(updated, today)

	if err := s.store.UpdateHabit(ctx, updated); err != nil {
		return fmt.Errorf("failed to complete habit: %w", err)
	}
	return nil
}

// Delete removes a habit. Deleting an unknown id succeeds.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteHabit(ctx, id); err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	return nil
}

// List returns every habit with streaks refreshed for today.
func (s *Service) List(ctx context.Context) ([]models.Habit, error) {
	habits, err := s.store.ListHabits(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	today := s.clock()
	for i := range habits {
		habits[i] = analytics.RefreshStreaks(habits[i], today)
	}
	return habits, nil
}

// Get returns a habit with refreshed streaks, or nil when it does not exist.
func (s *Service) Get(ctx context.Context, id string) (*models.Habit, error) {
	habit, err := s.store.GetHabit(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get habit: %w", err)
	}
	if habit == nil {
		return nil, nil
	}
	refreshed := analytics.RefreshStreaks(*habit, s.clock())
	return &refreshed, nil
}

// Resolve finds a habit by id or, failing that, by case-insensitive title.
// Ambiguous titles are an error.
func (s *Service) Resolve(ctx context.Context, ref string) (*models.Habit, error) {
	if h, err := s.Get(ctx, ref); err != nil || h != nil {
		return h, err
	}

	habits, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var match *models.Habit
	for i := range habits {
		if !strings.EqualFold(habits[i].Title, strings.TrimSpace(ref)) {
			continue
		}
		if match != nil {
			return nil, apperrors.NewUserError(fmt.Sprintf("more than one habit is titled %q; use its id", ref))
		}
		match = &habits[i]
	}
	return match, nil
}
