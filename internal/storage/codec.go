package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/habitcoach/internal/constants"
	"github.com/julianstephens/habitcoach/internal/models"
)

// EncodeDates serializes a completion set as a sorted JSON array.
func EncodeDates(dates map[string]struct{}) (string, error) {
	list := make([]string, 0, len(dates))
	for d := range dates {
		list = append(list, d)
	}
	sort.Strings(list)
	data, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("failed to encode completed dates: %w", err)
	}
	return string(data), nil
}

// DecodeDates parses a JSON array of YYYY-MM-DD strings into a completion set.
func DecodeDates(raw string) (map[string]struct{}, error) {
	var list []string
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			return nil, fmt.Errorf("failed to decode completed dates: %w", err)
		}
	}
	for _, d := range list {
		if _, err := time.Parse(constants.DateFormat, d); err != nil {
			return nil, fmt.Errorf("invalid completed date %q: %w", d, err)
		}
	}
	return models.NewDateSet(list...), nil
}

// EvictionCutoff returns the oldest cache key kept when reading at ref.
func EvictionCutoff(ref time.Time) string {
	return ref.AddDate(0, 0, -constants.InsightCacheTTLDays).Format(constants.DateFormat)
}

// NullString converts an optional string for storage.
func NullString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

// HabitColumns is the column order expected by ScanHabit.
const HabitColumns = "id, title, description, created_at, completed_dates, streak, longest_streak"

// RowScanner is satisfied by *sql.Row and *sql.Rows.
type RowScanner interface {
	Scan(dest ...interface{}) error
}

// ScanHabit reads a habit row selected with HabitColumns.
func ScanHabit(row RowScanner) (models.Habit, error) {
	var h models.Habit
	var createdAt int64
	var dates string

	if err := row.Scan(&h.ID, &h.Title, &h.Description, &createdAt, &dates, &h.Streak, &h.LongestStreak); err != nil {
		return models.Habit{}, err
	}

	h.CreatedAt = time.UnixMilli(createdAt)
	completed, err := DecodeDates(dates)
	if err != nil {
		return models.Habit{}, fmt.Errorf("habit %s: %w", h.ID, err)
	}
	h.CompletedDates = completed
	return h, nil
}
