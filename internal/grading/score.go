package grading

import (
	"github.com/shopspring/decimal"
)

// Component weights of the total score.
const (
	FunctionalWeight = 70
	RobustnessWeight = 20
	QualityWeight    = 10

	// QualityPenalty is deducted per failed quality heuristic.
	QualityPenalty = 5
)

// Breakdown holds the score components and the rounded total.
type Breakdown struct {
	Functional decimal.Decimal `json:"functional"`
	Robustness decimal.Decimal `json:"robustness"`
	Quality    decimal.Decimal `json:"quality"`
	Total      int             `json:"total"`
}

// Score grades verdicts produced for source.
//
// A run whose first case failed to execute scores zero outright. Otherwise
// the total is functional (point weighted) plus robustness (fraction of
// robustness cases passed) plus the source quality heuristic, clamped to
// [0, 100] and rounded half up.
func Score(verdicts []Verdict, source string) Breakdown {
	if executionFailed(verdicts) {
		return zeroBreakdown()
	}

	b := Breakdown{
		Functional: functionalScore(verdicts),
		Robustness: robustnessScore(verdicts),
		Quality:    qualityScore(source),
	}

	total := b.Functional.Add(b.Robustness).Add(b.Quality)
	total = decimal.Min(decimal.Max(total, decimal.Zero), decimal.NewFromInt(100))
	b.Total = int(total.Round(0).IntPart())
	return b
}

func zeroBreakdown() Breakdown {
	return Breakdown{
		Functional: decimal.Zero,
		Robustness: decimal.Zero,
		Quality:    decimal.Zero,
	}
}

func functionalScore(verdicts []Verdict) decimal.Decimal {
	earned, total := decimal.Zero, decimal.Zero
	for _, v := range verdicts {
		points := decimal.NewFromFloat(v.Case.Points)
		total = total.Add(points)
		if v.Passed {
			earned = earned.Add(points)
		}
	}
	if total.IsZero() {
		return decimal.Zero
	}
	return earned.Mul(decimal.NewFromInt(FunctionalWeight)).Div(total)
}

func robustnessScore(verdicts []Verdict) decimal.Decimal {
	var passed, total int64
	for _, v := range verdicts {
		if !v.Case.Robustness {
			continue
		}
		total++
		if v.Passed {
			passed++
		}
	}
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(passed * RobustnessWeight).Div(decimal.NewFromInt(total))
}

func qualityScore(source string) decimal.Decimal {
	score := int64(QualityWeight)
	if !HasLoop(source) {
		score -= QualityPenalty
	}
	if HasHardcodedRows(source) {
		score -= QualityPenalty
	}
	return decimal.NewFromInt(score)
}

// Tier buckets a score for presentation.
func Tier(score int) string {
	switch {
	case score >= 85:
		return "excellent"
	case score >= 60:
		return "good"
	default:
		return "poor"
	}
}
