// Package format implements the pluggable entity serialization Loaders:
// json, yaml, csv, and amalgamdb's own binary-packed format (binpack),
// grounded on the teacher's storage/binary package's header/section
// conventions and doc-comment style.
package format

import "io"

// Record is one serialized entity: a flat or nested label->value map. The
// value types mirror node.Kind's base data kinds (nil, bool, float64,
// string, []any, map[string]any) rather than a language-specific type, so
// any Loader can round-trip any other Loader's output.
type Record = map[string]any

// Loader reads and writes a sequence of Records in one wire format.
type Loader interface {
	// Name identifies the format, e.g. for AMALGAM_DEFAULT_FORMAT.
	Name() string
	Load(r io.Reader) ([]Record, error)
	Save(w io.Writer, records []Record) error
}

// ByName returns the Loader registered under name, or (nil, false).
func ByName(name string) (Loader, bool) {
	l, ok := registry[name]
	return l, ok
}

var registry = map[string]Loader{
	"json":    JSONLoader{},
	"yaml":    YAMLLoader{},
	"csv":     CSVLoader{},
	"binpack": BinpackLoader{},
}
