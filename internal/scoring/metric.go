// Package scoring implements the assessment scoring pipeline: per-metric
// normalized scores, worst-case aggregation across rooms, weighted
// category and overall scores, and human-readable labels and summaries.
// Every function here is pure and side-effect free apart from logging.
package scoring

import (
	"math"

	"github.com/cleardwell/assess-cli/internal/model"
)

// ScoreValue maps a raw value onto a 0-100 score using the piecewise
// linear good/fair/poor curve:
//
//	value <= goodMax            -> 100
//	goodMax < value <= fairMax  -> 100 down to 60, linear
//	value > fairMax             -> 60 down to 0 at 2*fairMax, clamped
//
// Callers must guarantee goodMax < fairMax (a catalog invariant).
func ScoreValue(value, goodMax, fairMax float64) int {
	if value <= goodMax {
		return 100
	}
	if value <= fairMax {
		s := 100 - 40*(value-goodMax)/(fairMax-goodMax)
		return clampScore(int(math.Round(s)))
	}
	t := math.Min(1, (value-fairMax)/fairMax)
	s := 60 - 60*t
	return clampScore(int(math.Round(s)))
}

// ScoreMetric scores one aggregated value against its definition,
// dispatching on the declared curve shape.
func ScoreMetric(def model.MetricDefinition, value float64) int {
	switch def.Curve {
	case model.CurveTwoSidedIdeal:
		// Distance outside the ideal band, scored as a one-sided metric
		// with goodMax 0 and fairMax FairSpan. Inside the band scores 100
		// on both sides.
		var dist float64
		switch {
		case value < def.IdealLow:
			dist = def.IdealLow - value
		case value > def.IdealHigh:
			dist = value - def.IdealHigh
		}
		return ScoreValue(dist, 0, def.FairSpan)
	default:
		return ScoreValue(value, def.GoodMax, def.FairMax)
	}
}

func clampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
