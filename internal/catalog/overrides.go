package catalog

import (
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cleardwell/assess-cli/internal/model"
)

// ThresholdOverride adjusts one metric's bands without redefining it.
// Zero-valued fields leave the canonical value in place.
type ThresholdOverride struct {
	GoodMax   float64 `yaml:"good_max"`
	FairMax   float64 `yaml:"fair_max"`
	IdealLow  float64 `yaml:"ideal_low"`
	IdealHigh float64 `yaml:"ideal_high"`
	FairSpan  float64 `yaml:"fair_span"`
}

// LoadWithOverrides builds a catalog from the canonical table with
// per-metric threshold overrides applied from a YAML file. The merged
// definitions are re-validated, so an override that inverts a band is a
// fatal configuration error. Unknown keys in the file are rejected
// rather than silently ignored.
func LoadWithOverrides(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: read overrides %s", path)
	}

	var overrides map[string]ThresholdOverride
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, eris.Wrapf(err, "catalog: parse overrides %s", path)
	}

	defs := defaultDefinitions()
	byKey := make(map[string]*model.MetricDefinition, len(defs))
	for i := range defs {
		byKey[defs[i].Key] = &defs[i]
	}

	for key, ov := range overrides {
		d, ok := byKey[key]
		if !ok {
			return nil, eris.Wrapf(ErrUnknownMetric, "overrides key %s", key)
		}
		if ov.GoodMax != 0 {
			d.GoodMax = ov.GoodMax
		}
		if ov.FairMax != 0 {
			d.FairMax = ov.FairMax
		}
		if ov.IdealLow != 0 {
			d.IdealLow = ov.IdealLow
		}
		if ov.IdealHigh != 0 {
			d.IdealHigh = ov.IdealHigh
		}
		if ov.FairSpan != 0 {
			d.FairSpan = ov.FairSpan
		}
	}

	zap.L().Info("catalog: loaded threshold overrides",
		zap.String("path", path),
		zap.Int("overridden", len(overrides)),
	)

	return New(defs)
}
