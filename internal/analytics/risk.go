package analytics

import (
	"time"

	"github.com/julianstephens/habitcoach/internal/constants"
	"github.com/julianstephens/habitcoach/internal/models"
	"github.com/julianstephens/habitcoach/internal/utils"
)

// DetectAtRisk returns assessments for the habits currently at risk of
// breaking, in input order.
func DetectAtRisk(habits []models.Habit, today time.Time) []models.HabitRiskAssessment {
	var atRisk []models.HabitRiskAssessment
	for _, h := range habits {
		a, ok := AssessRisk(h, today)
		if ok && a.IsAtRisk {
			atRisk = append(atRisk, a)
		}
	}
	return atRisk
}

// AssessRisk scores a habit against the same weekday over the previous four
// weeks. ok is false when fewer than two of those days fall on or after the
// habit's creation date.
func AssessRisk(h models.Habit, today time.Time) (models.HabitRiskAssessment, bool) {
	today = utils.StartOfDay(today)
	created := h.CreatedDate(today.Location())

	valid, missed := 0, 0
	for w := 1; w <= constants.RiskWindowWeeks; w++ {
		day := utils.AddDays(today, -7*w)
		if day.Before(created) {
			continue
		}
		valid++
		if !h.HasCompleted(utils.FormatDate(day)) {
			missed++
		}
	}

	if valid < constants.RiskMinValidPoints {
		return models.HabitRiskAssessment{Habit: h}, false
	}

	missRate := float64(missed) / float64(valid)
	return models.HabitRiskAssessment{
		Habit:    h,
		MissRate: missRate,
		IsAtRisk: missRate >= constants.RiskThreshold,
	}, true
}
