package expectation

import (
	"encoding/csv"
	"errors"
	"io"
	"os"

	"go.trai.ch/zerr"
)

// ErrColumnNotFound is returned when the CSV header lacks the requested column.
var ErrColumnNotFound = zerr.New("column not found")

// ReadColumn loads the named column from CSV data with a header row. Empty
// cells are nulls.
func ReadColumn(r io.Reader, name string) (Column, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Column{}, zerr.With(zerr.Wrap(ErrColumnNotFound, "empty input"), "column", name)
	}
	if err != nil {
		return Column{}, zerr.Wrap(err, "failed to read CSV header")
	}

	idx := -1
	for i, h := range header {
		if h == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Column{}, zerr.With(zerr.Wrap(ErrColumnNotFound, "missing from header"), "column", name)
	}

	col := Column{Name: name, Values: []*string{}}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Column{}, zerr.Wrap(err, "failed to read CSV record")
		}
		if idx >= len(record) || record[idx] == "" {
			col.Values = append(col.Values, nil)
			continue
		}
		v := record[idx]
		col.Values = append(col.Values, &v)
	}
	return col, nil
}

// ReadColumnFile loads the named column from a CSV file
func ReadColumnFile(path, name string) (Column, error) {
	f, err := os.Open(path)
	if err != nil {
		return Column{}, zerr.With(zerr.Wrap(err, "failed to open data file"), "path", path)
	}
	defer f.Close()

	col, err := ReadColumn(f, name)
	if err != nil {
		return Column{}, zerr.With(err, "path", path)
	}
	return col, nil
}
