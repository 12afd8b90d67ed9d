package mcp

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/julianstephens/habitcoach/internal/analytics"
	"github.com/julianstephens/habitcoach/internal/models"
	"github.com/julianstephens/habitcoach/internal/utils"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_habits",
		Description: "List every habit with its streaks and whether it is done today",
	}, s.handleListHabits)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_habit",
		Description: "Create a new habit",
	}, s.handleAddHabit)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "complete_habit",
		Description: "Mark a habit done (or not done) for today",
	}, s.handleCompleteHabit)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_habit",
		Description: "Delete a habit and its history",
	}, s.handleDeleteHabit)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_statistics",
		Description: "Aggregate streaks and completion rates across all habits",
	}, s.handleGetStatistics)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_at_risk",
		Description: "List habits that were missed on this weekday in at least half of the last four weeks",
	}, s.handleGetAtRisk)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "weekly_insight",
		Description: "Get the coaching insight for the current week",
	}, s.handleWeeklyInsight)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "daily_nudge",
		Description: "Get today's motivational nudge",
	}, s.handleDailyNudge)
}

// Tool input/output types

type emptyInput struct{}

type addHabitInput struct {
	Title       string `json:"title" jsonschema:"Name of the habit"`
	Description string `json:"description,omitempty" jsonschema:"Optional details"`
}

type dateInput struct {
	Date string `json:"date,omitempty" jsonschema:"Reference day as YYYY-MM-DD, defaults to today"`
}

type habitRefInput struct {
	Habit string `json:"habit" jsonschema:"Habit ID or exact title"`
}

type completeHabitInput struct {
	Habit     string `json:"habit" jsonschema:"Habit ID or exact title"`
	Completed *bool  `json:"completed,omitempty" jsonschema:"Whether today is done, defaults to true"`
}

type habitOutput struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	CreatedAt     string `json:"created_at"`
	DoneToday     bool   `json:"done_today"`
	Completions   int    `json:"completions"`
	Streak        int    `json:"streak"`
	LongestStreak int    `json:"longest_streak"`
}

type habitListOutput struct {
	Habits []habitOutput `json:"habits"`
}

type simpleOutput struct {
	ID      string `json:"id,omitempty"`
	Message string `json:"message"`
}

type statisticsOutput struct {
	TotalHabits          int        `json:"total_habits"`
	CompletedToday       int        `json:"completed_today"`
	TotalCompleted       int        `json:"total_completed"`
	CurrentStreak        int        `json:"current_streak"`
	LongestStreak        int        `json:"longest_streak"`
	WeeklyCompletionRate int        `json:"weekly_completion_pct"`
	WeeklyDailyRates     [7]float64 `json:"weekly_daily_rates"`
}

type riskOutput struct {
	Title    string `json:"title"`
	ID       string `json:"id"`
	MissRate int    `json:"miss_rate_pct"`
}

type atRiskOutput struct {
	AtRisk []riskOutput `json:"at_risk"`
}

type weeklyInsightOutput struct {
	WeekOf             string  `json:"week_of"`
	Summary            string  `json:"summary"`
	TopPerformingHabit *string `json:"top_performing_habit"`
	MostAtRiskHabit    *string `json:"most_at_risk_habit"`
	Recommendation     string  `json:"recommendation"`
	OverallScore       int     `json:"overall_score"`
	Source             string  `json:"source"`
}

type dailyNudgeOutput struct {
	Date    string `json:"date"`
	Message string `json:"message"`
	Source  string `json:"source"`
}

// Tool handlers

func (s *Server) handleListHabits(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, habitListOutput, error) {
	list, err := s.habits.List(ctx)
	if err != nil {
		return nil, habitListOutput{}, err
	}

	today := s.clock()
	out := habitListOutput{Habits: make([]habitOutput, 0, len(list))}
	for _, h := range list {
		out.Habits = append(out.Habits, toHabitOutput(h, today))
	}
	return nil, out, nil
}

func (s *Server) handleAddHabit(ctx context.Context, req *mcp.CallToolRequest, input addHabitInput) (*mcp.CallToolResult, simpleOutput, error) {
	id, err := s.habits.Create(ctx, input.Title, input.Description)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	return nil, simpleOutput{ID: id, Message: fmt.Sprintf("Added habit %q", input.Title)}, nil
}

func (s *Server) handleCompleteHabit(ctx context.Context, req *mcp.CallToolRequest, input completeHabitInput) (*mcp.CallToolResult, simpleOutput, error) {
	h, err := s.habits.Resolve(ctx, input.Habit)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	if h == nil {
		return nil, simpleOutput{}, fmt.Errorf("habit not found: %s", input.Habit)
	}

	completed := input.Completed == nil || *input.Completed
	if err := s.habits.Complete(ctx, h.ID, completed); err != nil {
		return nil, simpleOutput{}, err
	}

	verb := "done"
	if !completed {
		verb = "not done"
	}
	return nil, simpleOutput{ID: h.ID, Message: fmt.Sprintf("Marked %q %s for %s", h.Title, verb, utils.FormatDate(s.clock()))}, nil
}

func (s *Server) handleDeleteHabit(ctx context.Context, req *mcp.CallToolRequest, input habitRefInput) (*mcp.CallToolResult, simpleOutput, error) {
	h, err := s.habits.Resolve(ctx, input.Habit)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	if h == nil {
		return nil, simpleOutput{Message: fmt.Sprintf("No habit matches %q; nothing deleted", input.Habit)}, nil
	}
	if err := s.habits.Delete(ctx, h.ID); err != nil {
		return nil, simpleOutput{}, err
	}
	return nil, simpleOutput{ID: h.ID, Message: fmt.Sprintf("Deleted habit %q", h.Title)}, nil
}

func (s *Server) handleGetStatistics(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, statisticsOutput, error) {
	list, err := s.habits.List(ctx)
	if err != nil {
		return nil, statisticsOutput{}, err
	}

	stats := analytics.ComputeStatistics(list, s.clock())
	return nil, statisticsOutput{
		TotalHabits:          stats.TotalHabits,
		CompletedToday:       stats.CompletedToday,
		TotalCompleted:       stats.TotalCompleted,
		CurrentStreak:        stats.CurrentStreak,
		LongestStreak:        stats.LongestStreak,
		WeeklyCompletionRate: pct(stats.WeeklyCompletionRate),
		WeeklyDailyRates:     stats.WeeklyDailyRates,
	}, nil
}

func (s *Server) handleGetAtRisk(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, atRiskOutput, error) {
	list, err := s.habits.List(ctx)
	if err != nil {
		return nil, atRiskOutput{}, err
	}

	out := atRiskOutput{AtRisk: []riskOutput{}}
	for _, a := range analytics.DetectAtRisk(list, s.clock()) {
		out.AtRisk = append(out.AtRisk, riskOutput{Title: a.Habit.Title, ID: a.Habit.ID, MissRate: pct(a.MissRate)})
	}
	return nil, out, nil
}

func (s *Server) handleWeeklyInsight(ctx context.Context, req *mcp.CallToolRequest, input dateInput) (*mcp.CallToolResult, weeklyInsightOutput, error) {
	today, err := s.referenceDay(input.Date)
	if err != nil {
		return nil, weeklyInsightOutput{}, err
	}

	list, err := s.habits.List(ctx)
	if err != nil {
		return nil, weeklyInsightOutput{}, err
	}

	wi, err := s.weekly.Generate(ctx, list, analytics.ComputeStatistics(list, today), today)
	if err != nil {
		return nil, weeklyInsightOutput{}, err
	}
	return nil, weeklyInsightOutput{
		WeekOf:             wi.WeekOf,
		Summary:            wi.Summary,
		TopPerformingHabit: wi.TopPerformingHabit,
		MostAtRiskHabit:    wi.MostAtRiskHabit,
		Recommendation:     wi.Recommendation,
		OverallScore:       wi.OverallScore,
		Source:             string(wi.Source),
	}, nil
}

func (s *Server) handleDailyNudge(ctx context.Context, req *mcp.CallToolRequest, input dateInput) (*mcp.CallToolResult, dailyNudgeOutput, error) {
	today, err := s.referenceDay(input.Date)
	if err != nil {
		return nil, dailyNudgeOutput{}, err
	}

	list, err := s.habits.List(ctx)
	if err != nil {
		return nil, dailyNudgeOutput{}, err
	}

	n, err := s.daily.Generate(ctx, list, analytics.ComputeStatistics(list, today), today)
	if err != nil {
		return nil, dailyNudgeOutput{}, err
	}
	return nil, dailyNudgeOutput{Date: n.Date, Message: n.Message, Source: string(n.Source)}, nil
}

// referenceDay resolves an optional YYYY-MM-DD date to a time in the
// server clock's location, keeping the current time of day.
func (s *Server) referenceDay(date string) (time.Time, error) {
	now := s.clock()
	if date == "" {
		return now, nil
	}
	day, err := utils.ParseDateInLocation(date, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return day.Add(now.Sub(utils.StartOfDay(now))), nil
}

func toHabitOutput(h models.Habit, today time.Time) habitOutput {
	return habitOutput{
		ID:            h.ID,
		Title:         h.Title,
		Description:   h.Description,
		CreatedAt:     h.CreatedAt.Format(time.RFC3339),
		DoneToday:     h.IsCompletedToday(today),
		Completions:   len(h.CompletedDates),
		Streak:        h.Streak,
		LongestStreak: h.LongestStreak,
	}
}

func pct(rate float64) int {
	return int(math.Round(rate * 100))
}
