package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleardwell/assess-cli/internal/catalog"
	"github.com/cleardwell/assess-cli/internal/config"
	"github.com/cleardwell/assess-cli/internal/model"
)

func TestWeightsFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("empty config keeps defaults", func(t *testing.T) {
		t.Parallel()
		w := WeightsFromConfig(config.ScoringConfig{})
		assert.Equal(t, DefaultWeights(), w)
	})

	t.Run("metric overrides replace one category only", func(t *testing.T) {
		t.Parallel()
		w := WeightsFromConfig(config.ScoringConfig{
			WaterWeights: map[string]float64{"TDS": 0.5, "Cl": 0.25, "pH": 0.25},
		})
		assert.Equal(t, 0.5, w.Metric[model.CategoryWater]["TDS"])
		assert.Equal(t, DefaultWeights().Metric[model.CategoryAir], w.Metric[model.CategoryAir])
		require.NoError(t, w.Validate(catalog.Default()))
	})

	t.Run("category overrides apply when set", func(t *testing.T) {
		t.Parallel()
		cfg := config.ScoringConfig{}
		cfg.CategoryWeights.Air = 0.5
		cfg.CategoryWeights.Water = 0.3
		cfg.CategoryWeights.Ether = 0.2
		w := WeightsFromConfig(cfg)
		assert.Equal(t, CategoryWeights{Air: 0.5, Water: 0.3, Ether: 0.2}, w.Category)
	})

	t.Run("zero category block keeps default split", func(t *testing.T) {
		t.Parallel()
		w := WeightsFromConfig(config.ScoringConfig{
			AirWeights: map[string]float64{"CO2": 1.0},
		})
		assert.Equal(t, DefaultWeights().Category, w.Category)
	})
}
