package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleardwell/assess-cli/internal/catalog"
	"github.com/cleardwell/assess-cli/internal/model"
	"github.com/cleardwell/assess-cli/internal/scoring"
)

func buildFixtureReport(t *testing.T) *model.Report {
	t.Helper()
	cat := catalog.Default()
	w := scoring.DefaultWeights()
	require.NoError(t, w.Validate(cat))
	b := scoring.NewBuilder(cat, w, catalog.ReferenceBaselines())

	return b.Build("p1", []model.Reading{
		{PropertyID: "p1", MetricKey: "CO2", Value: 740, TakenAt: time.Now()},
		{PropertyID: "p1", MetricKey: "PM25", Value: 30, TakenAt: time.Now()},
		{PropertyID: "p1", MetricKey: "TDS", Value: 200, TakenAt: time.Now()},
	})
}

func TestWriteReportTable(t *testing.T) {
	t.Parallel()

	rep := buildFixtureReport(t)
	var buf strings.Builder
	require.NoError(t, writeReportTable(&buf, rep))
	out := buf.String()

	assert.Contains(t, out, "Property p1")
	assert.Contains(t, out, "Overall:")
	assert.Contains(t, out, "Carbon Dioxide")
	assert.Contains(t, out, "PM2.5")
	// Ether has no readings and must show as missing data, not a score.
	assert.Contains(t, out, "ether")
	assert.Contains(t, out, "insufficient data")
}

func TestWriteReportTableInsufficient(t *testing.T) {
	t.Parallel()

	cat := catalog.Default()
	w := scoring.DefaultWeights()
	require.NoError(t, w.Validate(cat))
	b := scoring.NewBuilder(cat, w, nil)

	var buf strings.Builder
	require.NoError(t, writeReportTable(&buf, b.Build("p2", nil)))
	assert.Contains(t, buf.String(), "Overall: insufficient data")
}

func TestWriteReportCSV(t *testing.T) {
	t.Parallel()

	rep := buildFixtureReport(t)
	var buf strings.Builder
	require.NoError(t, writeReportCSV(&buf, rep))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4) // header + three scored metrics
	assert.Equal(t, "category,metric,value,unit,score,label", lines[0])
	assert.Contains(t, lines[1], "air,CO2,740")
	assert.Contains(t, lines[3], "water,TDS,200")
}

func TestThresholdCells(t *testing.T) {
	t.Parallel()

	cat := catalog.Default()

	co2, err := cat.Definition("CO2")
	require.NoError(t, err)
	good, fair := thresholdCells(co2)
	assert.Equal(t, "≤800", good)
	assert.Equal(t, "≤1200", fair)

	ph, err := cat.Definition("pH")
	require.NoError(t, err)
	good, fair = thresholdCells(ph)
	assert.Equal(t, "6.5-8.5", good)
	assert.Equal(t, "±1", fair)
}
