package scoring

import "math"

// ScoreOverall combines the three category scores using the configured
// category weights. A category flagged Insufficient drops out and the
// remaining weights are re-normalized, so missing data propagates as
// uncertainty instead of being scored as the worst possible value. If
// every category is insufficient, so is the overall score.
func ScoreOverall(air, water, ether CategoryScore, w CategoryWeights) CategoryScore {
	var num, den float64

	add := func(cs CategoryScore, weight float64) {
		if cs.Insufficient || weight <= 0 {
			return
		}
		num += float64(cs.Score) * weight
		den += weight
	}
	add(air, w.Air)
	add(water, w.Water)
	add(ether, w.Ether)

	if den == 0 {
		return CategoryScore{Insufficient: true}
	}
	return CategoryScore{Score: clampScore(int(math.Round(num / den)))}
}
