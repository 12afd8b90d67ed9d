package models

import (
	"fmt"
	"time"
)

// InsightSource records whether content came from the model or the local fallback.
type InsightSource string

const (
	SourceAI       InsightSource = "AI"
	SourceFallback InsightSource = "FALLBACK"
)

// ParseInsightSource converts a persisted source column.
func ParseInsightSource(s string) (InsightSource, error) {
	switch InsightSource(s) {
	case SourceAI, SourceFallback:
		return InsightSource(s), nil
	default:
		return "", fmt.Errorf("unknown insight source: %q", s)
	}
}

// WeeklyInsight is keyed by WeekOf, the Monday of the week (YYYY-MM-DD).
type WeeklyInsight struct {
	WeekOf             string
	Summary            string
	TopPerformingHabit *string
	MostAtRiskHabit    *string
	Recommendation     string
	OverallScore       int
	GeneratedAt        time.Time
	Source             InsightSource
}

// DailyNudge is keyed by Date (YYYY-MM-DD).
type DailyNudge struct {
	Date        string
	Message     string
	GeneratedAt time.Time
	Source      InsightSource
}
