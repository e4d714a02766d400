package update

import (
	"sort"

	"github.com/goccy/go-json"

	"mongo-ops-generator/schema"
)

// Document is a MongoDB update document: operator key ("$set", "$push",
// "$pull") to field path to value. An operator key is present only when at
// least one mutation used it.
type Document map[string]map[string]any

func (d Document) put(op schema.Operator, path string, value any) {
	key := op.Key()

	inner, ok := d[key]
	if !ok {
		inner = make(map[string]any)
		d[key] = inner
	}

	inner[path] = value
}

// Get returns the value recorded for op at path.
func (d Document) Get(op schema.Operator, path string) (any, bool) {
	v, ok := d[op.Key()][path]
	return v, ok
}

// Paths returns the paths recorded for op in ascending order.
func (d Document) Paths(op schema.Operator) []string {
	inner := d[op.Key()]
	if len(inner) == 0 {
		return nil
	}

	paths := make([]string, 0, len(inner))
	for p := range inner {
		paths = append(paths, p)
	}

	sort.Strings(paths)

	return paths
}

// Len returns the total number of path entries across all operators.
func (d Document) Len() int {
	n := 0
	for _, inner := range d {
		n += len(inner)
	}

	return n
}

// IsEmpty reports whether the document carries no mutation.
func (d Document) IsEmpty() bool {
	return d.Len() == 0
}

// MarshalJSON encodes the document with map keys in ascending order.
func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]map[string]any(d))
}

// MarshalIndent encodes the document as indented JSON.
func (d Document) MarshalIndent(prefix, indent string) ([]byte, error) {
	return json.MarshalIndent(map[string]map[string]any(d), prefix, indent)
}

// String returns the compact JSON form, or an error marker when a value cannot
// be encoded.
func (d Document) String() string {
	data, err := d.MarshalJSON()
	if err != nil {
		return "<update.Document: " + err.Error() + ">"
	}

	return string(data)
}
