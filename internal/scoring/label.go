package scoring

import (
	"fmt"
	"strings"

	"github.com/cleardwell/assess-cli/internal/catalog"
	"github.com/cleardwell/assess-cli/internal/model"
)

// Label maps a 0-100 score to its qualitative display label.
func Label(score int) string {
	switch {
	case score >= 90:
		return "Excellent"
	case score >= 75:
		return "Good"
	case score >= 60:
		return "Fair"
	case score >= 45:
		return "Poor"
	default:
		return "Very Poor"
	}
}

// band is the threshold classification of one raw value.
type band int

const (
	bandGood band = iota
	bandFair
	bandPoor
)

// bandFor classifies a raw value against its definition's thresholds.
func bandFor(def model.MetricDefinition, value float64) band {
	var dist, goodMax, fairMax float64
	if def.Curve == model.CurveTwoSidedIdeal {
		switch {
		case value < def.IdealLow:
			dist = def.IdealLow - value
		case value > def.IdealHigh:
			dist = value - def.IdealHigh
		}
		goodMax, fairMax = 0, def.FairSpan
	} else {
		dist, goodMax, fairMax = value, def.GoodMax, def.FairMax
	}
	switch {
	case dist <= goodMax:
		return bandGood
	case dist <= fairMax:
		return bandFair
	default:
		return bandPoor
	}
}

// Summarize builds one natural-language sentence for a category from the
// aggregated raw values, listing which metrics sit in which band. The
// checks run on raw values against catalog thresholds, not on scores.
func Summarize(cat model.Category, values map[string]float64, c *catalog.Catalog) string {
	var good, fair, poor []string
	for _, def := range c.ByCategory(cat) {
		v, ok := values[def.Key]
		if !ok {
			continue
		}
		name := def.Name
		if name == "" {
			name = def.Key
		}
		switch bandFor(def, v) {
		case bandGood:
			good = append(good, name)
		case bandFair:
			fair = append(fair, name)
		case bandPoor:
			poor = append(poor, name)
		}
	}

	if len(good)+len(fair)+len(poor) == 0 {
		return fmt.Sprintf("No %s measurements recorded.", cat)
	}

	var parts []string
	if len(good) > 0 {
		parts = append(parts, fmt.Sprintf("%s %s within healthy limits", joinNames(good), isAre(len(good))))
	}
	if len(fair) > 0 {
		parts = append(parts, fmt.Sprintf("%s %s moderately elevated", joinNames(fair), isAre(len(fair))))
	}
	if len(poor) > 0 {
		parts = append(parts, fmt.Sprintf("%s %s well above recommended limits", joinNames(poor), isAre(len(poor))))
	}
	return strings.Join(parts, "; ") + "."
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
}

func isAre(n int) string {
	if n == 1 {
		return "is"
	}
	return "are"
}
