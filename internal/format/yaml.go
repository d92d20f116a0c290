package format

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLLoader serializes Records as a top-level YAML sequence.
type YAMLLoader struct{}

func (YAMLLoader) Name() string { return "yaml" }

func (YAMLLoader) Load(r io.Reader) ([]Record, error) {
	var records []Record
	if err := yaml.NewDecoder(r).Decode(&records); err != nil {
		return nil, err
	}
	return records, nil
}

func (YAMLLoader) Save(w io.Writer, records []Record) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(records)
}
