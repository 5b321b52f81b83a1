package model

import "time"

// MetricResult is one scored metric row on a report.
type MetricResult struct {
	Key      string   `json:"key"`
	Name     string   `json:"name"`
	Unit     string   `json:"unit"`
	Value    float64  `json:"value"`
	Score    int      `json:"score"`
	Label    string   `json:"label"`
	Baseline *float64 `json:"baseline,omitempty"` // regional comparison, display only
}

// CategoryResult rolls up one category's metrics.
//
// Insufficient means no metric in the category had any valid reading;
// Score is meaningless in that case and the presentation layer must show
// "not enough data" rather than a number.
type CategoryResult struct {
	Category     Category       `json:"category"`
	Score        int            `json:"score"`
	Insufficient bool           `json:"insufficient"`
	Label        string         `json:"label,omitempty"`
	Summary      string         `json:"summary"`
	Metrics      []MetricResult `json:"metrics"`
}

// Report is the full scored view of one property's current reading set.
// It is a derived value, recomputed on demand and never persisted.
type Report struct {
	PropertyID          string           `json:"property_id"`
	GeneratedAt         time.Time        `json:"generated_at"`
	OverallScore        int              `json:"overall_score"`
	OverallLabel        string           `json:"overall_label,omitempty"`
	OverallInsufficient bool             `json:"overall_insufficient"`
	Categories          []CategoryResult `json:"categories"`
	ReadingCount        int              `json:"reading_count"`
	SkippedReadings     int              `json:"skipped_readings"`
}

// Category returns the result for the given category, or nil.
func (r *Report) Category(c Category) *CategoryResult {
	for i := range r.Categories {
		if r.Categories[i].Category == c {
			return &r.Categories[i]
		}
	}
	return nil
}
