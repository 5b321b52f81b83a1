package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/cleardwell/assess-cli/internal/catalog"
	"github.com/cleardwell/assess-cli/internal/model"
)

// weightTolerance is the allowed floating-point drift when checking that
// a weight table sums to 1.0.
const weightTolerance = 1e-9

// CategoryWeights holds the category contributions to the overall score.
type CategoryWeights struct {
	Air   float64 `yaml:"air" mapstructure:"air"`
	Water float64 `yaml:"water" mapstructure:"water"`
	Ether float64 `yaml:"ether" mapstructure:"ether"`
}

// Sum returns the total of the category weights.
func (w CategoryWeights) Sum() float64 {
	return w.Air + w.Water + w.Ether
}

// Weights is the full weight configuration for report scoring.
type Weights struct {
	Metric   map[model.Category]map[string]float64
	Category CategoryWeights
}

// DefaultWeights returns the canonical weight tables. Each category's
// metric weights sum to 1.0, as do the category weights.
func DefaultWeights() Weights {
	return Weights{
		Metric: map[model.Category]map[string]float64{
			model.CategoryAir: {
				"CO2":      0.25,
				"PM25":     0.25,
				"PM10":     0.10,
				"VOCs":     0.20,
				"Humidity": 0.10,
				"Temp":     0.10,
			},
			model.CategoryWater: {
				"TDS": 0.40,
				"Cl":  0.30,
				"pH":  0.30,
			},
			model.CategoryEther: {
				"MagField":      0.30,
				"ElectricField": 0.30,
				"RF":            0.40,
			},
		},
		Category: CategoryWeights{Air: 0.45, Water: 0.35, Ether: 0.20},
	}
}

// Validate checks that every weight table is internally consistent and
// consistent with the catalog. Failures are configuration errors and
// must be fatal at startup, never recovered at request time.
func (w Weights) Validate(cat *catalog.Catalog) error {
	var errs []string

	for _, c := range model.Categories() {
		table := w.Metric[c]
		if len(table) == 0 {
			errs = append(errs, fmt.Sprintf("category %s has no metric weights", c))
			continue
		}
		var sum float64
		for key, mw := range table {
			if mw < 0 {
				errs = append(errs, fmt.Sprintf("%s weight for %s must be >= 0", c, key))
			}
			def, err := cat.Definition(key)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s weight references unknown metric %s", c, key))
				continue
			}
			if def.Category != c {
				errs = append(errs, fmt.Sprintf("metric %s belongs to %s, not %s", key, def.Category, c))
			}
			sum += mw
		}
		if math.Abs(sum-1.0) > weightTolerance {
			errs = append(errs, fmt.Sprintf("%s metric weights sum to %.12f, want 1.0", c, sum))
		}
	}

	if w.Category.Air < 0 || w.Category.Water < 0 || w.Category.Ether < 0 {
		errs = append(errs, "category weights must be >= 0")
	}
	if math.Abs(w.Category.Sum()-1.0) > weightTolerance {
		errs = append(errs, fmt.Sprintf("category weights sum to %.12f, want 1.0", w.Category.Sum()))
	}

	if len(errs) > 0 {
		return eris.Errorf("scoring: weight validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
