// Package importer parses technician field sheets (CSV or XLSX) into
// readings. Rows with unknown metrics or unparseable values are skipped
// and logged so one bad cell never aborts an import.
package importer

import (
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/cleardwell/assess-cli/internal/catalog"
	"github.com/cleardwell/assess-cli/internal/model"
)

// expected field-sheet columns, in order. room and taken_at may be empty.
var sheetColumns = []string{"metric", "value", "room", "taken_at"}

// Result summarizes one parsed field sheet.
type Result struct {
	Readings []model.Reading
	Skipped  int
}

// ParseRows converts raw sheet rows into readings for one property.
// The first row is treated as a header when it matches the expected
// column names.
func ParseRows(rows [][]string, propertyID string, cat *catalog.Catalog, roomIDs map[string]string) (*Result, error) {
	if propertyID == "" {
		return nil, eris.New("importer: property id is required")
	}

	res := &Result{}
	for i, row := range rows {
		if i == 0 && isHeader(row) {
			continue
		}
		r, err := parseRow(row, propertyID, cat, roomIDs)
		if err != nil {
			res.Skipped++
			zap.L().Warn("importer: skipping row",
				zap.Int("row", i+1),
				zap.Strings("cells", row),
				zap.Error(err),
			)
			continue
		}
		res.Readings = append(res.Readings, *r)
	}
	return res, nil
}

func parseRow(row []string, propertyID string, cat *catalog.Catalog, roomIDs map[string]string) (*model.Reading, error) {
	if len(row) < 2 {
		return nil, eris.New("importer: row needs at least metric and value")
	}

	key := strings.TrimSpace(row[0])
	if !cat.Has(key) {
		return nil, eris.Wrapf(catalog.ErrUnknownMetric, "key %s", key)
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
	if err != nil {
		return nil, eris.Wrapf(err, "importer: parse value %q", row[1])
	}

	r := &model.Reading{
		PropertyID: propertyID,
		MetricKey:  key,
		Value:      value,
	}

	if len(row) > 2 {
		if name := strings.TrimSpace(row[2]); name != "" {
			id, ok := roomIDs[strings.ToLower(name)]
			if !ok {
				return nil, eris.Errorf("importer: unknown room %q", name)
			}
			r.RoomID = &id
		}
	}

	if len(row) > 3 && strings.TrimSpace(row[3]) != "" {
		t, err := time.Parse(time.RFC3339, strings.TrimSpace(row[3]))
		if err != nil {
			return nil, eris.Wrapf(err, "importer: parse taken_at %q", row[3])
		}
		r.TakenAt = t.UTC()
	}

	return r, nil
}

func isHeader(row []string) bool {
	if len(row) == 0 {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(row[0]), sheetColumns[0])
}
