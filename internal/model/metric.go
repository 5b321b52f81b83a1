package model

import (
	"math"

	"github.com/rotisserie/eris"
)

// Category groups metrics into the three assessment areas shown on a report.
type Category string

const (
	CategoryAir   Category = "air"
	CategoryWater Category = "water"
	CategoryEther Category = "ether"
)

// Categories returns all categories in display order.
func Categories() []Category {
	return []Category{CategoryAir, CategoryWater, CategoryEther}
}

// Valid reports whether c is a recognized category.
func (c Category) Valid() bool {
	switch c {
	case CategoryAir, CategoryWater, CategoryEther:
		return true
	}
	return false
}

// CurveKind selects how a raw value maps onto the good/fair/poor bands.
type CurveKind string

const (
	// CurveOneSidedHigherWorse scores directly against GoodMax/FairMax;
	// any increase in value can only lower the score.
	CurveOneSidedHigherWorse CurveKind = "one_sided_higher_worse"

	// CurveTwoSidedIdeal scores the distance outside an ideal band
	// [IdealLow, IdealHigh]; values below the band are as bad as values
	// above it. FairSpan is the distance at which the score reaches 60.
	CurveTwoSidedIdeal CurveKind = "two_sided_ideal"
)

// MetricDefinition is the static configuration for one recognized metric.
// Definitions are immutable after catalog construction.
type MetricDefinition struct {
	Key      string    `json:"key" yaml:"key"`
	Name     string    `json:"name" yaml:"name"`
	Category Category  `json:"category" yaml:"category"`
	Unit     string    `json:"unit" yaml:"unit"`
	Curve    CurveKind `json:"curve" yaml:"curve"`

	// One-sided thresholds: upper bounds of the good and fair bands.
	GoodMax float64 `json:"good_max" yaml:"good_max"`
	FairMax float64 `json:"fair_max" yaml:"fair_max"`

	// Two-sided ideal band. FairSpan is the distance outside the band
	// that still scores in the fair range.
	IdealLow  float64 `json:"ideal_low,omitempty" yaml:"ideal_low,omitempty"`
	IdealHigh float64 `json:"ideal_high,omitempty" yaml:"ideal_high,omitempty"`
	FairSpan  float64 `json:"fair_span,omitempty" yaml:"fair_span,omitempty"`
}

// Validate checks the definition invariants. A failing definition is a
// configuration error and must prevent startup.
func (d MetricDefinition) Validate() error {
	if d.Key == "" {
		return eris.New("metric: missing key")
	}
	if !d.Category.Valid() {
		return eris.Errorf("metric %s: invalid category %q", d.Key, d.Category)
	}
	switch d.Curve {
	case CurveOneSidedHigherWorse:
		if !finite(d.GoodMax) || !finite(d.FairMax) {
			return eris.Errorf("metric %s: non-finite thresholds", d.Key)
		}
		if d.GoodMax >= d.FairMax {
			return eris.Errorf("metric %s: good_max %.3f must be < fair_max %.3f", d.Key, d.GoodMax, d.FairMax)
		}
	case CurveTwoSidedIdeal:
		if !finite(d.IdealLow) || !finite(d.IdealHigh) || !finite(d.FairSpan) {
			return eris.Errorf("metric %s: non-finite ideal band", d.Key)
		}
		if d.IdealLow > d.IdealHigh {
			return eris.Errorf("metric %s: ideal_low %.3f must be <= ideal_high %.3f", d.Key, d.IdealLow, d.IdealHigh)
		}
		if d.FairSpan <= 0 {
			return eris.Errorf("metric %s: fair_span must be > 0", d.Key)
		}
	default:
		return eris.Errorf("metric %s: unknown curve kind %q", d.Key, d.Curve)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
