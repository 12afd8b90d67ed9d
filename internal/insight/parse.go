package insight

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedReply is returned when the model reply is not the JSON object
// the prompt asked for.
var ErrMalformedReply = errors.New("malformed model reply")

type weeklyReply struct {
	Summary            string  `json:"summary"`
	TopPerformingHabit *string `json:"topPerformingHabit"`
	MostAtRiskHabit    *string `json:"mostAtRiskHabit"`
	Recommendation     string  `json:"recommendation"`
	OverallScore       float64 `json:"overallScore"`
}

type dailyReply struct {
	Message string `json:"message"`
}

func parseWeekly(text string) (weeklyReply, error) {
	var r weeklyReply
	if err := json.Unmarshal([]byte(stripFences(text)), &r); err != nil {
		return weeklyReply{}, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}

	r.Summary = strings.TrimSpace(r.Summary)
	r.Recommendation = strings.TrimSpace(r.Recommendation)
	if r.Summary == "" || r.Recommendation == "" {
		return weeklyReply{}, fmt.Errorf("%w: summary and recommendation are required", ErrMalformedReply)
	}

	r.TopPerformingHabit = nonBlank(r.TopPerformingHabit)
	r.MostAtRiskHabit = nonBlank(r.MostAtRiskHabit)

	if r.OverallScore < 0 || r.OverallScore > 100 {
		return weeklyReply{}, fmt.Errorf("%w: overallScore %v out of range 0-100", ErrMalformedReply, r.OverallScore)
	}
	return r, nil
}

func parseDaily(text string) (string, error) {
	var r dailyReply
	if err := json.Unmarshal([]byte(stripFences(text)), &r); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	msg := strings.TrimSpace(r.Message)
	if msg == "" {
		return "", fmt.Errorf("%w: message is required", ErrMalformedReply)
	}
	return msg, nil
}

// stripFences removes a ```json fence some models add despite instructions.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func nonBlank(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" || strings.EqualFold(v, "null") {
		return nil
	}
	return &v
}
