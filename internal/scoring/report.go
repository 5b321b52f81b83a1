package scoring

import (
	"time"

	"go.uber.org/zap"

	"github.com/cleardwell/assess-cli/internal/catalog"
	"github.com/cleardwell/assess-cli/internal/model"
)

// Builder assembles full reports from raw readings. All dependencies are
// injected at construction; there is no module-level mutable state, so a
// single Builder is safe to share across goroutines.
type Builder struct {
	catalog   *catalog.Catalog
	weights   Weights
	baselines map[string]float64
}

// NewBuilder creates a report Builder. Weight validation is the caller's
// responsibility (fatal at startup, see Weights.Validate).
func NewBuilder(cat *catalog.Catalog, w Weights, baselines map[string]float64) *Builder {
	return &Builder{catalog: cat, weights: w, baselines: baselines}
}

// Build runs the full scoring pipeline over one property's reading set:
// aggregate -> score metrics -> score categories -> score overall ->
// labels and summaries. Pure apart from logging; safe to re-run on every
// change to the reading set.
func (b *Builder) Build(propertyID string, readings []model.Reading) *model.Report {
	values, skipped := Aggregate(readings, b.catalog)

	metricScores := make(map[string]int, len(values))
	for key, v := range values {
		def, err := b.catalog.Definition(key)
		if err != nil {
			continue // unknown keys were already filtered by Aggregate
		}
		metricScores[key] = ScoreMetric(def, v)
	}

	report := &model.Report{
		PropertyID:      propertyID,
		GeneratedAt:     time.Now().UTC(),
		ReadingCount:    len(readings),
		SkippedReadings: skipped,
	}

	catScores := make(map[model.Category]CategoryScore, 3)
	for _, c := range model.Categories() {
		cs := ScoreCategory(metricScores, b.weights.Metric[c])
		catScores[c] = cs

		result := model.CategoryResult{
			Category:     c,
			Score:        cs.Score,
			Insufficient: cs.Insufficient,
			Summary:      Summarize(c, values, b.catalog),
			Metrics:      b.metricResults(c, values, metricScores),
		}
		if !cs.Insufficient {
			result.Label = Label(cs.Score)
		}
		report.Categories = append(report.Categories, result)
	}

	overall := ScoreOverall(
		catScores[model.CategoryAir],
		catScores[model.CategoryWater],
		catScores[model.CategoryEther],
		b.weights.Category,
	)
	report.OverallScore = overall.Score
	report.OverallInsufficient = overall.Insufficient
	if !overall.Insufficient {
		report.OverallLabel = Label(overall.Score)
	}

	zap.L().Debug("scoring: report built",
		zap.String("property_id", propertyID),
		zap.Int("readings", len(readings)),
		zap.Int("skipped", skipped),
		zap.Int("overall", overall.Score),
		zap.Bool("insufficient", overall.Insufficient),
	)

	return report
}

// metricResults builds the per-metric report rows for one category, in
// catalog table order.
func (b *Builder) metricResults(c model.Category, values map[string]float64, scores map[string]int) []model.MetricResult {
	var out []model.MetricResult
	for _, def := range b.catalog.ByCategory(c) {
		v, ok := values[def.Key]
		if !ok {
			continue
		}
		mr := model.MetricResult{
			Key:   def.Key,
			Name:  def.Name,
			Unit:  def.Unit,
			Value: v,
			Score: scores[def.Key],
			Label: Label(scores[def.Key]),
		}
		if base, ok := b.baselines[def.Key]; ok {
			baseCopy := base
			mr.Baseline = &baseCopy
		}
		out = append(out, mr)
	}
	return out
}
