package service

import (
	"math"

	"github.com/skillforge/skillforge-backend/internal/model"
)

// ScorecardService derives dimension scores, a readiness tier, and a hiring
// recommendation from a completed submission. Fully deterministic: dimension
// score is the difficulty-weighted share of correct answers, scaled to 100.
type ScorecardService struct{}

func NewScorecardService() *ScorecardService {
	return &ScorecardService{}
}

// Score computes the scorecard for a submission. Answers with no
// difficulty weight count as weight 1.
func (s *ScorecardService) Score(sub *model.Submission) *model.Scorecard {
	type tally struct {
		earned float64
		total  float64
	}
	dims := make(map[string]*tally)

	var earnedAll, totalAll float64
	for _, a := range sub.Answers {
		weight := float64(a.DifficultyWeight)
		if weight < 1 {
			weight = 1
		}

		t, ok := dims[a.Skill]
		if !ok {
			t = &tally{}
			dims[a.Skill] = t
		}
		t.total += weight
		totalAll += weight
		if a.Correct {
			t.earned += weight
			earnedAll += weight
		}
	}

	scores := make(map[string]float64, len(dims))
	for skill, t := range dims {
		scores[skill] = round1(100 * t.earned / t.total)
	}

	overall := 0.0
	if totalAll > 0 {
		overall = round1(100 * earnedAll / totalAll)
	}

	return &model.Scorecard{
		DimensionScores:      scores,
		OverallScore:         overall,
		ReadinessTier:        readinessTier(overall),
		HiringRecommendation: hiringRecommendation(overall),
	}
}

func readinessTier(score float64) string {
	switch {
	case score >= 85:
		return "ready"
	case score >= 70:
		return "near_ready"
	case score >= 50:
		return "developing"
	default:
		return "not_ready"
	}
}

func hiringRecommendation(score float64) string {
	switch {
	case score >= 85:
		return "strong_hire"
	case score >= 70:
		return "hire"
	case score >= 50:
		return "lean_hire"
	default:
		return "no_hire"
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
