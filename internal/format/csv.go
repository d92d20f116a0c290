package format

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
)

// CSVLoader serializes Records as a header row of sorted keys followed by
// one row per Record. Every value round-trips as its string form: CSV has
// no native type system, so Load always yields string-valued Records (the
// caller is responsible for re-typing a column if it needs numbers back).
type CSVLoader struct{}

func (CSVLoader) Name() string { return "csv" }

func (CSVLoader) Load(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	header := rows[0]
	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(Record, len(header))
		for i, key := range header {
			if i < len(row) {
				rec[key] = row[i]
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func (CSVLoader) Save(w io.Writer, records []Record) error {
	header := csvHeader(records)
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	row := make([]string, len(header))
	for _, rec := range records {
		for i, key := range header {
			row[i] = fmt.Sprint(rec[key])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// csvHeader collects every key across records into a stable sorted order,
// since CSV rows require one fixed column set even when individual
// Records have differing keys.
func csvHeader(records []Record) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, rec := range records {
		for k := range rec {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}
