package scoring

import (
	"math"

	"go.uber.org/zap"

	"github.com/cleardwell/assess-cli/internal/catalog"
	"github.com/cleardwell/assess-cli/internal/model"
)

// Aggregate reduces all readings for a property into one representative
// value per metric using the worst-case policy: the maximum value across
// rooms wins, because a single hazardous room must not be diluted by
// healthy ones.
//
// Metrics with no valid readings are absent from the result map - absence
// is the explicit missing-value state and is never coerced to zero.
// Readings with unknown metric keys or invalid values are skipped and
// logged, never fatal. The returned count is the number of skipped
// readings.
func Aggregate(readings []model.Reading, cat *catalog.Catalog) (map[string]float64, int) {
	values := make(map[string]float64)
	skipped := 0

	for _, r := range readings {
		if !cat.Has(r.MetricKey) {
			skipped++
			zap.L().Warn("scoring: skipping reading with unknown metric",
				zap.String("reading_id", r.ID),
				zap.String("metric", r.MetricKey),
			)
			continue
		}
		if !validValue(r.Value) {
			skipped++
			zap.L().Warn("scoring: skipping reading with invalid value",
				zap.String("reading_id", r.ID),
				zap.String("metric", r.MetricKey),
				zap.Float64("value", r.Value),
			)
			continue
		}

		if cur, ok := values[r.MetricKey]; !ok || r.Value > cur {
			values[r.MetricKey] = r.Value
		}
	}

	return values, skipped
}

// validValue rejects non-finite and negative values so a corrupt reading
// cannot poison the aggregate maximum.
func validValue(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
