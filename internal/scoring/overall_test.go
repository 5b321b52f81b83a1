package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreOverall(t *testing.T) {
	t.Parallel()

	w := DefaultWeights().Category
	ok := func(s int) CategoryScore { return CategoryScore{Score: s} }
	missing := CategoryScore{Insufficient: true}

	t.Run("weighted average of all categories", func(t *testing.T) {
		t.Parallel()
		got := ScoreOverall(ok(100), ok(60), ok(80), w)
		assert.False(t, got.Insufficient)
		assert.Equal(t, 82, got.Score)
	})

	t.Run("insufficient category drops out and weights renormalize", func(t *testing.T) {
		t.Parallel()
		// (100*0.45 + 80*0.20) / 0.65 = 93.8...
		got := ScoreOverall(ok(100), missing, ok(80), w)
		assert.False(t, got.Insufficient)
		assert.Equal(t, 94, got.Score)
	})

	t.Run("one category alone decides the score", func(t *testing.T) {
		t.Parallel()
		got := ScoreOverall(missing, ok(55), missing, w)
		assert.False(t, got.Insufficient)
		assert.Equal(t, 55, got.Score)
	})

	t.Run("all categories insufficient propagates", func(t *testing.T) {
		t.Parallel()
		got := ScoreOverall(missing, missing, missing, w)
		assert.True(t, got.Insufficient)
		assert.Zero(t, got.Score)
	})

	t.Run("missing data never scores as worst case", func(t *testing.T) {
		t.Parallel()
		full := ScoreOverall(ok(100), ok(100), ok(100), w)
		partial := ScoreOverall(ok(100), missing, ok(100), w)
		assert.Equal(t, full.Score, partial.Score)
	})
}
