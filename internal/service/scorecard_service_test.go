package service

import (
	"testing"

	"github.com/skillforge/skillforge-backend/internal/model"
)

func TestScoreWeightsByDifficulty(t *testing.T) {
	svc := NewScorecardService()

	// One easy miss, one hard hit: 8 of 10 weighted points.
	card := svc.Score(&model.Submission{
		Answers: []model.SubmissionAnswer{
			{Skill: "go", Correct: false, DifficultyWeight: 2},
			{Skill: "go", Correct: true, DifficultyWeight: 8},
		},
	})

	if card.OverallScore != 80 {
		t.Fatalf("expected overall 80, got %v", card.OverallScore)
	}
	if card.DimensionScores["go"] != 80 {
		t.Fatalf("expected go dimension 80, got %v", card.DimensionScores["go"])
	}
}

func TestScoreSplitsDimensionsBySkill(t *testing.T) {
	svc := NewScorecardService()

	card := svc.Score(&model.Submission{
		Answers: []model.SubmissionAnswer{
			{Skill: "go", Correct: true, DifficultyWeight: 5},
			{Skill: "go", Correct: true, DifficultyWeight: 5},
			{Skill: "sql", Correct: false, DifficultyWeight: 5},
		},
	})

	if card.DimensionScores["go"] != 100 {
		t.Fatalf("expected go dimension 100, got %v", card.DimensionScores["go"])
	}
	if card.DimensionScores["sql"] != 0 {
		t.Fatalf("expected sql dimension 0, got %v", card.DimensionScores["sql"])
	}
	if card.OverallScore != 66.7 {
		t.Fatalf("expected overall 66.7, got %v", card.OverallScore)
	}
}

func TestScoreMissingWeightCountsAsOne(t *testing.T) {
	svc := NewScorecardService()

	card := svc.Score(&model.Submission{
		Answers: []model.SubmissionAnswer{
			{Skill: "css", Correct: true},
			{Skill: "css", Correct: false},
		},
	})

	if card.OverallScore != 50 {
		t.Fatalf("expected overall 50, got %v", card.OverallScore)
	}
}

func TestScoreTierBands(t *testing.T) {
	cases := []struct {
		score     float64
		readiness string
		hiring    string
	}{
		{100, "ready", "strong_hire"},
		{85, "ready", "strong_hire"},
		{84.9, "near_ready", "hire"},
		{70, "near_ready", "hire"},
		{69.9, "developing", "lean_hire"},
		{50, "developing", "lean_hire"},
		{49.9, "not_ready", "no_hire"},
		{0, "not_ready", "no_hire"},
	}
	for _, tc := range cases {
		if got := readinessTier(tc.score); got != tc.readiness {
			t.Errorf("readinessTier(%v) = %q, want %q", tc.score, got, tc.readiness)
		}
		if got := hiringRecommendation(tc.score); got != tc.hiring {
			t.Errorf("hiringRecommendation(%v) = %q, want %q", tc.score, got, tc.hiring)
		}
	}
}

func TestScoreBandsFromSubmission(t *testing.T) {
	svc := NewScorecardService()

	// 17 of 20 weighted points is exactly 85: the lower edge of ready.
	card := svc.Score(&model.Submission{
		Answers: []model.SubmissionAnswer{
			{Skill: "go", Correct: true, DifficultyWeight: 10},
			{Skill: "go", Correct: true, DifficultyWeight: 7},
			{Skill: "go", Correct: false, DifficultyWeight: 3},
		},
	})

	if card.ReadinessTier != "ready" || card.HiringRecommendation != "strong_hire" {
		t.Fatalf("expected ready/strong_hire at 85, got %s/%s with score %v",
			card.ReadinessTier, card.HiringRecommendation, card.OverallScore)
	}
}
