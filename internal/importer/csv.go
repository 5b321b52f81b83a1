package importer

import (
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"
)

// ReadCSV reads a CSV field sheet and returns all rows as string slices.
func ReadCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // room and taken_at columns are optional
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "importer: read csv")
	}
	return rows, nil
}
