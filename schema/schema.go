package schema

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
)

// PathSeparator separates segments of a field path.
const PathSeparator = "."

// ErrInvalidSchema is returned (wrapped) when a schema definition is rejected.
var ErrInvalidSchema = errors.New("invalid schema")

// FieldSpec describes one field of a record type.
type FieldSpec struct {
	// Name is the field's path segment in stored documents.
	Name string
	// Ops is the set of operators permitted on the field as a whole.
	Ops OperatorSet
	// Nested describes the sub-record stored under the field, if any.
	Nested *Schema
}

// IsNested reports whether the field has a nested schema.
func (f FieldSpec) IsNested() bool {
	return f.Nested != nil
}

// Schema is an immutable description of a record type.
type Schema struct {
	name   string
	fields []FieldSpec
	index  map[string]int
}

// New creates a schema named name with the given fields in order.
func New(name string, fields ...FieldSpec) (*Schema, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: empty schema name", ErrInvalidSchema)
	}

	s := &Schema{
		name:   name,
		fields: make([]FieldSpec, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}

	for i, f := range fields {
		if err := ValidateFieldName(f.Name); err != nil {
			return nil, fmt.Errorf("%w: %s: field #%d: %w", ErrInvalidSchema, name, i, err)
		}

		if _, dup := s.index[f.Name]; dup {
			return nil, fmt.Errorf("%w: %s: duplicate field %q", ErrInvalidSchema, name, f.Name)
		}

		f.Ops &= AllOperators
		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
	}

	return s, nil
}

// MustNew is like New but panics on error. It is meant for package-level
// schema variables, including generated ones.
func MustNew(name string, fields ...FieldSpec) *Schema {
	s, err := New(name, fields...)
	if err != nil {
		panic(err)
	}

	return s
}

// ValidateFieldName checks that name can be used as a single path segment.
func ValidateFieldName(name string) error {
	switch {
	case name == "":
		return errors.New("empty field name")
	case strings.Contains(name, PathSeparator):
		return fmt.Errorf("field name %q contains path separator %q", name, PathSeparator)
	case strings.HasPrefix(name, "$"):
		return fmt.Errorf("field name %q starts with '$'", name)
	}

	return nil
}

// Name returns the record type name.
func (s *Schema) Name() string {
	return s.name
}

// Fields returns the fields in declaration order.
func (s *Schema) Fields() []FieldSpec {
	return slices.Clone(s.fields)
}

// FieldNames returns the field names in declaration order.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}

	return names
}

// Len returns the number of fields.
func (s *Schema) Len() int {
	return len(s.fields)
}

// Field looks a field up by name.
func (s *Schema) Field(name string) (FieldSpec, bool) {
	i, ok := s.index[name]
	if !ok {
		return FieldSpec{}, false
	}

	return s.fields[i], true
}

// Allows reports whether the field exists and permits op.
func (s *Schema) Allows(name string, op Operator) bool {
	f, ok := s.Field(name)
	return ok && f.Ops.Has(op)
}

// NestedSchema returns the nested schema of a field, or nil when the field is
// absent or not nested.
func (s *Schema) NestedSchema(name string) *Schema {
	f, ok := s.Field(name)
	if !ok {
		return nil
	}

	return f.Nested
}

// String returns the schema name.
func (s *Schema) String() string {
	return s.name
}

// Registry maps record type names to schemas. It is not safe for concurrent
// registration; populate it up front and share it read-only.
type Registry struct {
	schemas map[string]*Schema
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[string]*Schema)}
}

// Register adds schemas to the registry. A name may be registered only once.
func (r *Registry) Register(schemas ...*Schema) error {
	for _, s := range schemas {
		if s == nil {
			return errors.New("register nil schema")
		}

		if _, dup := r.schemas[s.name]; dup {
			return fmt.Errorf("schema %q already registered", s.name)
		}

		r.schemas[s.name] = s
	}

	return nil
}

// Lookup returns the schema registered under name.
func (r *Registry) Lookup(name string) (*Schema, bool) {
	s, ok := r.schemas[name]
	return s, ok
}

// Names returns the registered names in ascending order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Len returns the number of registered schemas.
func (r *Registry) Len() int {
	return len(r.schemas)
}
