package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleardwell/assess-cli/internal/model"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cat := Default()
	assert.Len(t, cat.All(), 12)
	assert.Len(t, cat.ByCategory(model.CategoryAir), 6)
	assert.Len(t, cat.ByCategory(model.CategoryWater), 3)
	assert.Len(t, cat.ByCategory(model.CategoryEther), 3)

	t.Run("lookup by key", func(t *testing.T) {
		t.Parallel()
		def, err := cat.Definition("CO2")
		require.NoError(t, err)
		assert.Equal(t, "Carbon Dioxide", def.Name)
		assert.Equal(t, model.CategoryAir, def.Category)
		assert.Equal(t, float64(800), def.GoodMax)
		assert.Equal(t, float64(1200), def.FairMax)
	})

	t.Run("unknown key", func(t *testing.T) {
		t.Parallel()
		_, err := cat.Definition("Radon")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownMetric)
		assert.False(t, cat.Has("Radon"))
	})

	t.Run("pH uses the two-sided curve", func(t *testing.T) {
		t.Parallel()
		def, err := cat.Definition("pH")
		require.NoError(t, err)
		assert.Equal(t, model.CurveTwoSidedIdeal, def.Curve)
		assert.Equal(t, 6.5, def.IdealLow)
		assert.Equal(t, 8.5, def.IdealHigh)
	})

	t.Run("every metric has a baseline", func(t *testing.T) {
		t.Parallel()
		for _, def := range cat.All() {
			_, ok := Baseline(def.Key)
			assert.True(t, ok, "missing baseline for %s", def.Key)
		}
	})
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("duplicate keys are rejected", func(t *testing.T) {
		t.Parallel()
		defs := defaultDefinitions()
		defs = append(defs, defs[0])
		_, err := New(defs)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate")
	})

	t.Run("invalid definition is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := New([]model.MetricDefinition{{
			Key:      "Bad",
			Category: model.CategoryAir,
			Curve:    model.CurveOneSidedHigherWorse,
			GoodMax:  100,
			FairMax:  50,
		}})
		require.Error(t, err)
	})
}
