package format

import (
	"encoding/json"
	"io"
)

// JSONLoader serializes Records as a top-level JSON array.
type JSONLoader struct{}

func (JSONLoader) Name() string { return "json" }

func (JSONLoader) Load(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, err
	}
	return records, nil
}

func (JSONLoader) Save(w io.Writer, records []Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
