package scoring

import (
	"github.com/cleardwell/assess-cli/internal/config"
	"github.com/cleardwell/assess-cli/internal/model"
)

// WeightsFromConfig merges deployment overrides onto the canonical
// weight tables. A nil or empty override map keeps the defaults; a zero
// category weight block keeps the default category split. The result
// still needs Weights.Validate before use.
func WeightsFromConfig(cfg config.ScoringConfig) Weights {
	w := DefaultWeights()

	if len(cfg.AirWeights) > 0 {
		w.Metric[model.CategoryAir] = cfg.AirWeights
	}
	if len(cfg.WaterWeights) > 0 {
		w.Metric[model.CategoryWater] = cfg.WaterWeights
	}
	if len(cfg.EtherWeights) > 0 {
		w.Metric[model.CategoryEther] = cfg.EtherWeights
	}

	cw := CategoryWeights{
		Air:   cfg.CategoryWeights.Air,
		Water: cfg.CategoryWeights.Water,
		Ether: cfg.CategoryWeights.Ether,
	}
	if cw.Sum() > 0 {
		w.Category = cw
	}

	return w
}
