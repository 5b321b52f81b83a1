package scoring

import "math"

// CategoryScore is a category roll-up. Insufficient means no metric in
// the category had any data; Score is zero and meaningless in that case.
type CategoryScore struct {
	Score        int
	Insufficient bool
}

// ScoreCategory combines per-metric scores into one category score via
// weighted averaging. Metrics missing from metricScores contribute zero
// weight - they are excluded from numerator and denominator, never
// treated as score 0. If no weighted metric has a score, the category is
// flagged Insufficient rather than scored as failing.
func ScoreCategory(metricScores map[string]int, weights map[string]float64) CategoryScore {
	var num, den float64
	for key, w := range weights {
		s, ok := metricScores[key]
		if !ok || w <= 0 {
			continue
		}
		num += float64(s) * w
		den += w
	}
	if den == 0 {
		return CategoryScore{Insufficient: true}
	}
	return CategoryScore{Score: clampScore(int(math.Round(num / den)))}
}
