package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleardwell/assess-cli/internal/catalog"
	"github.com/cleardwell/assess-cli/internal/model"
)

func TestDefaultWeightsValid(t *testing.T) {
	t.Parallel()

	w := DefaultWeights()
	require.NoError(t, w.Validate(catalog.Default()))

	for _, c := range model.Categories() {
		var sum float64
		for _, mw := range w.Metric[c] {
			sum += mw
		}
		assert.InDelta(t, 1.0, sum, weightTolerance, "metric weights for %s", c)
	}
	assert.InDelta(t, 1.0, w.Category.Sum(), weightTolerance)
}

func TestWeightsValidate(t *testing.T) {
	t.Parallel()

	cat := catalog.Default()

	t.Run("bad metric sum is rejected", func(t *testing.T) {
		t.Parallel()
		w := DefaultWeights()
		w.Metric[model.CategoryWater] = map[string]float64{"TDS": 0.5, "Cl": 0.3, "pH": 0.3}
		err := w.Validate(cat)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "water")
	})

	t.Run("bad category sum is rejected", func(t *testing.T) {
		t.Parallel()
		w := DefaultWeights()
		w.Category = CategoryWeights{Air: 0.5, Water: 0.5, Ether: 0.5}
		require.Error(t, w.Validate(cat))
	})

	t.Run("unknown metric key is rejected", func(t *testing.T) {
		t.Parallel()
		w := DefaultWeights()
		w.Metric[model.CategoryAir] = map[string]float64{"Radon": 1.0}
		err := w.Validate(cat)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Radon")
	})

	t.Run("metric in wrong category is rejected", func(t *testing.T) {
		t.Parallel()
		w := DefaultWeights()
		w.Metric[model.CategoryAir] = map[string]float64{"TDS": 1.0}
		require.Error(t, w.Validate(cat))
	})

	t.Run("negative weight is rejected", func(t *testing.T) {
		t.Parallel()
		w := DefaultWeights()
		w.Metric[model.CategoryWater] = map[string]float64{"TDS": 1.3, "Cl": -0.3}
		require.Error(t, w.Validate(cat))
	})

	t.Run("tiny float drift is tolerated", func(t *testing.T) {
		t.Parallel()
		w := DefaultWeights()
		w.Metric[model.CategoryWater] = map[string]float64{
			"TDS": 0.4 + 1e-12,
			"Cl":  0.3,
			"pH":  0.3,
		}
		require.NoError(t, w.Validate(cat))
	})
}
