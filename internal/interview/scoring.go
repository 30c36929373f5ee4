package interview

import (
	"math"

	"talentscope/internal/types"
)

// Aggregate averages each scored dimension across all evaluations and
// bands the 0-100 overall into a hiring recommendation. Returns nil
// when there is nothing to score.
func Aggregate(evals []types.Evaluation) *types.AggregateScores {
	if len(evals) == 0 {
		return nil
	}

	var sum types.EvaluationScores
	for _, e := range evals {
		sum.Content += e.Scores.Content
		sum.Communication += e.Scores.Communication
		sum.Analytical += e.Scores.Analytical
		sum.TechnicalDepth += e.Scores.TechnicalDepth
		sum.StarMethod += e.Scores.StarMethod
		sum.Authenticity += e.Scores.Authenticity
	}

	n := float64(len(evals))
	dims := types.EvaluationScores{
		Content:        round1(sum.Content / n),
		Communication:  round1(sum.Communication / n),
		Analytical:     round1(sum.Analytical / n),
		TechnicalDepth: round1(sum.TechnicalDepth / n),
		StarMethod:     round1(sum.StarMethod / n),
		Authenticity:   round1(sum.Authenticity / n),
	}

	// Dimensions are 0-10; the overall lives on 0-100.
	mean := (dims.Content + dims.Communication + dims.Analytical +
		dims.TechnicalDepth + dims.StarMethod + dims.Authenticity) / 6
	overall := round1(mean * 10)

	return &types.AggregateScores{
		Dimensions:     dims,
		Overall:        overall,
		Recommendation: recommendation(overall),
		QuestionCount:  len(evals),
	}
}

func recommendation(overall float64) string {
	switch {
	case overall >= 85:
		return "Strong Hire"
	case overall >= 70:
		return "Hire"
	case overall >= 50:
		return "Maybe"
	default:
		return "No Hire"
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
