package update

import (
	"fmt"
	"slices"

	"mongo-ops-generator/internal/match"
	"mongo-ops-generator/schema"
)

// Mutation is one accumulated edit.
type Mutation struct {
	// Op is the update operator.
	Op schema.Operator
	// Path is the dot delimited path from the root record, e.g. "address.city".
	Path string
	// Value is passed through to the document untouched.
	Value any
}

// String returns a short description such as "$set address.city".
func (m Mutation) String() string {
	return m.Op.Key() + " " + m.Path
}

// Builder accumulates mutations for one record type and merges them into a
// single update document.
//
// A Builder is a single-use accumulator: after a successful Build every
// further call fails with ErrAlreadyBuilt. It is not safe for concurrent use.
type Builder struct {
	schema    *schema.Schema
	mutations []Mutation
	built     bool
}

// New returns an empty builder bound to s.
func New(s *schema.Schema) *Builder {
	if s == nil {
		panic("update: New called with nil schema")
	}

	return &Builder{schema: s}
}

// Schema returns the schema the builder is bound to.
func (b *Builder) Schema() *schema.Schema {
	return b.schema
}

// Mutations returns a copy of the accumulated mutations in insertion order.
func (b *Builder) Mutations() []Mutation {
	return slices.Clone(b.mutations)
}

// Len returns the number of accumulated mutations.
func (b *Builder) Len() int {
	return len(b.mutations)
}

// Built reports whether Build has succeeded.
func (b *Builder) Built() bool {
	return b.built
}

// Mutate records op on field with value.
func (b *Builder) Mutate(field string, op schema.Operator, value any) error {
	if err := b.checkOpen(); err != nil {
		return err
	}

	if err := b.checkOperator(field, op); err != nil {
		return err
	}

	b.mutations = append(b.mutations, Mutation{Op: op, Path: field, Value: value})

	return nil
}

// Set records a $set of field.
func (b *Builder) Set(field string, value any) error {
	return b.Mutate(field, schema.OpSet, value)
}

// Push records a $push onto field.
func (b *Builder) Push(field string, value any) error {
	return b.Mutate(field, schema.OpPush, value)
}

// Pull records a $pull from field.
func (b *Builder) Pull(field string, value any) error {
	return b.Mutate(field, schema.OpPull, value)
}

// WithNested edits the sub-record stored under field through a child builder
// bound to the field's nested schema. edit runs synchronously. When it returns
// an error nothing is merged and the error is returned unchanged; otherwise
// every child mutation is appended with its path prefixed by field.
func (b *Builder) WithNested(field string, edit func(*Builder) error) error {
	if err := b.checkOpen(); err != nil {
		return err
	}

	if _, ok := b.schema.Field(field); !ok {
		return b.unknownField(field, "")
	}

	nested := b.schema.NestedSchema(field)
	if nested == nil {
		return &Error{Kind: ErrNotNestable, Schema: b.schema.Name(), Field: field}
	}

	if edit == nil {
		return nil
	}

	child := New(nested)
	if err := edit(child); err != nil {
		return err
	}

	for _, m := range child.mutations {
		m.Path = JoinPath(field, m.Path)
		b.mutations = append(b.mutations, m)
	}

	return nil
}

// MutatePath records op on a raw dot delimited path. Only the first segment is
// checked against the schema; when the path has a single segment the field's
// operator set is enforced as in Mutate. Whatever follows the first separator
// is taken as is, which makes MutatePath the escape hatch for dynamic
// sub-document updates. The empty path fails with ErrInvalidPath.
func (b *Builder) MutatePath(path string, op schema.Operator, value any) error {
	if err := b.checkOpen(); err != nil {
		return err
	}

	if path == "" {
		return &Error{Kind: ErrInvalidPath, Schema: b.schema.Name(), Op: op, Detail: "empty path"}
	}

	field, deep := head(path)
	if !deep {
		if err := b.checkOperator(field, op); err != nil {
			return err
		}
	} else if _, ok := b.schema.Field(field); !ok {
		return b.unknownField(field, path)
	}

	b.mutations = append(b.mutations, Mutation{Op: op, Path: path, Value: value})

	return nil
}

// SetPath records a $set of a raw path.
func (b *Builder) SetPath(path string, value any) error {
	return b.MutatePath(path, schema.OpSet, value)
}

// Build merges the accumulated mutations into an update document.
//
// It fails with ErrConflictingMutation when two mutations share an operator
// and path, or when one path is both $set and $push/$pull. On success the
// builder is consumed.
func (b *Builder) Build() (Document, error) {
	if err := b.checkOpen(); err != nil {
		return nil, err
	}

	if err := b.checkConflicts(); err != nil {
		return nil, err
	}

	doc := make(Document)
	for _, m := range b.mutations {
		doc.put(m.Op, m.Path, m.Value)
	}

	b.built = true

	return doc, nil
}

type opPath struct {
	op   schema.Operator
	path string
}

func (b *Builder) checkConflicts() error {
	seen := make(map[opPath]struct{}, len(b.mutations))

	for _, m := range b.mutations {
		if _, dup := seen[opPath{m.Op, m.Path}]; dup {
			return b.conflict(m, "duplicate "+m.Op.Key())
		}

		if other, ok := b.crossConflict(seen, m); ok {
			return b.conflict(m, fmt.Sprintf("%s conflicts with %s", m.Op.Key(), other.Key()))
		}

		seen[opPath{m.Op, m.Path}] = struct{}{}
	}

	return nil
}

// crossConflict finds an earlier operator on m.Path that cannot coexist with
// m.Op: $set excludes both array operators, while $push and $pull may share a
// path.
func (b *Builder) crossConflict(seen map[opPath]struct{}, m Mutation) (schema.Operator, bool) {
	var rivals []schema.Operator
	if m.Op == schema.OpSet {
		rivals = []schema.Operator{schema.OpPush, schema.OpPull}
	} else {
		rivals = []schema.Operator{schema.OpSet}
	}

	for _, op := range rivals {
		if _, ok := seen[opPath{op, m.Path}]; ok {
			return op, true
		}
	}

	return 0, false
}

func (b *Builder) conflict(m Mutation, detail string) error {
	return &Error{
		Kind:   ErrConflictingMutation,
		Schema: b.schema.Name(),
		Path:   m.Path,
		Op:     m.Op,
		Detail: detail,
	}
}

func (b *Builder) checkOpen() error {
	if b.built {
		return &Error{Kind: ErrAlreadyBuilt, Schema: b.schema.Name()}
	}

	return nil
}

func (b *Builder) checkOperator(field string, op schema.Operator) error {
	f, ok := b.schema.Field(field)
	if !ok {
		return b.unknownField(field, "")
	}

	if !f.Ops.Has(op) {
		return &Error{
			Kind:   ErrOperatorNotAllowed,
			Schema: b.schema.Name(),
			Field:  field,
			Op:     op,
			Detail: "field allows " + f.Ops.String(),
		}
	}

	return nil
}

func (b *Builder) unknownField(field, path string) error {
	return &Error{
		Kind:        ErrUnknownField,
		Schema:      b.schema.Name(),
		Field:       field,
		Path:        path,
		Suggestions: match.Suggest(field, b.schema.FieldNames(), match.DefaultThreshold),
	}
}
