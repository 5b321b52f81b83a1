// Package catalog holds the static registry of recognized metrics, their
// category membership, units and threshold bands.
package catalog

import (
	"github.com/rotisserie/eris"

	"github.com/cleardwell/assess-cli/internal/model"
)

// ErrUnknownMetric is returned for metric keys absent from the catalog.
// Callers must treat unknown keys in raw data as skippable, never fatal.
var ErrUnknownMetric = eris.New("catalog: unknown metric")

// Catalog is an indexed, immutable collection of metric definitions.
type Catalog struct {
	defs       []model.MetricDefinition
	byKey      map[string]*model.MetricDefinition
	byCategory map[model.Category][]*model.MetricDefinition
}

// New builds a Catalog from the given definitions, validating every one.
// A malformed definition is a configuration error: the caller must treat
// it as fatal at startup.
func New(defs []model.MetricDefinition) (*Catalog, error) {
	c := &Catalog{
		defs:       defs,
		byKey:      make(map[string]*model.MetricDefinition, len(defs)),
		byCategory: make(map[model.Category][]*model.MetricDefinition),
	}
	for i := range c.defs {
		d := &c.defs[i]
		if err := d.Validate(); err != nil {
			return nil, eris.Wrap(err, "catalog: invalid definition")
		}
		if _, dup := c.byKey[d.Key]; dup {
			return nil, eris.Errorf("catalog: duplicate metric key %s", d.Key)
		}
		c.byKey[d.Key] = d
		c.byCategory[d.Category] = append(c.byCategory[d.Category], d)
	}
	return c, nil
}

// Default returns the canonical catalog.
func Default() *Catalog {
	c, err := New(defaultDefinitions())
	if err != nil {
		// The canonical table is compiled in; failing to build it is a bug.
		panic(err)
	}
	return c
}

// Definition returns the definition for key, or ErrUnknownMetric.
func (c *Catalog) Definition(key string) (model.MetricDefinition, error) {
	d, ok := c.byKey[key]
	if !ok {
		return model.MetricDefinition{}, eris.Wrapf(ErrUnknownMetric, "key %s", key)
	}
	return *d, nil
}

// Has reports whether key is a recognized metric.
func (c *Catalog) Has(key string) bool {
	_, ok := c.byKey[key]
	return ok
}

// ByCategory returns the definitions for one category in table order.
func (c *Catalog) ByCategory(cat model.Category) []model.MetricDefinition {
	ptrs := c.byCategory[cat]
	out := make([]model.MetricDefinition, len(ptrs))
	for i, p := range ptrs {
		out[i] = *p
	}
	return out
}

// All returns every definition in table order.
func (c *Catalog) All() []model.MetricDefinition {
	out := make([]model.MetricDefinition, len(c.defs))
	copy(out, c.defs)
	return out
}

// defaultDefinitions is the canonical threshold table. The three divergent
// legacy variants were consolidated into this single authoritative set.
func defaultDefinitions() []model.MetricDefinition {
	oneSided := func(key, name string, cat model.Category, unit string, goodMax, fairMax float64) model.MetricDefinition {
		return model.MetricDefinition{
			Key:      key,
			Name:     name,
			Category: cat,
			Unit:     unit,
			Curve:    model.CurveOneSidedHigherWorse,
			GoodMax:  goodMax,
			FairMax:  fairMax,
		}
	}

	return []model.MetricDefinition{
		// Air
		oneSided("CO2", "Carbon Dioxide", model.CategoryAir, "ppm", 800, 1200),
		oneSided("PM25", "PM2.5", model.CategoryAir, "µg/m³", 9, 20),
		oneSided("PM10", "PM10", model.CategoryAir, "µg/m³", 30, 50),
		oneSided("VOCs", "Volatile Organic Compounds", model.CategoryAir, "ppb", 200, 500),
		oneSided("Humidity", "Relative Humidity", model.CategoryAir, "%", 55, 65),
		oneSided("Temp", "Temperature", model.CategoryAir, "°F", 75, 80),

		// Water
		oneSided("TDS", "Total Dissolved Solids", model.CategoryWater, "ppm", 300, 500),
		oneSided("Cl", "Chlorine", model.CategoryWater, "ppm", 0.8, 1.5),
		{
			// pH is two-sided: low pH is as bad as high pH. The ideal band
			// tops out at the legacy table's goodMax (8.5) and the fair span
			// matches its fairMax - goodMax (1.0), so pH 9.5 still scores 60.
			Key:       "pH",
			Name:      "pH",
			Category:  model.CategoryWater,
			Unit:      "",
			Curve:     model.CurveTwoSidedIdeal,
			IdealLow:  6.5,
			IdealHigh: 8.5,
			FairSpan:  1.0,
		},

		// Ether (EMF)
		oneSided("MagField", "Magnetic Field", model.CategoryEther, "mG", 2.0, 4.0),
		oneSided("ElectricField", "Electric Field", model.CategoryEther, "V/m", 0.5, 1.5),
		oneSided("RF", "Radio Frequency", model.CategoryEther, "mW/m²", 0.1, 1.0),
	}
}
