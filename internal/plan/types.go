package plan

import (
	"mongo-ops-generator/internal/diagnostic"
	"mongo-ops-generator/schema"
)

// GenerationPlan is the final output of the resolution pipeline.
// It contains everything needed for code generation.
type GenerationPlan struct {
	// Package is the name of the package generated code belongs to.
	Package string
	// Imports lists the import paths field types need.
	Imports []string
	// Types lists the planned builders; nested types precede the types
	// that embed them.
	Types []TypePlan
	// Registry holds every schema built from the file, selected or not.
	Registry *schema.Registry
	// Diagnostics contains all warnings and errors from resolution.
	Diagnostics diagnostic.Diagnostics
}

// Lookup returns the planned type whose schema is called name.
func (p *GenerationPlan) Lookup(name string) (*TypePlan, bool) {
	for i := range p.Types {
		if p.Types[i].Schema.Name() == name {
			return &p.Types[i], true
		}
	}

	return nil, false
}

// TypePlan describes the typed builder of one schema.
type TypePlan struct {
	// Schema is the runtime schema the builder binds to.
	Schema *schema.Schema
	// GoName is the Go identifier prefix, e.g. "User" for UserUpdateBuilder.
	GoName string
	// Fields in schema order.
	Fields []FieldPlan
}

// BuilderName returns the typed builder type name, e.g. "UserUpdateBuilder".
func (t *TypePlan) BuilderName() string {
	return t.GoName + "UpdateBuilder"
}

// SchemaVar returns the package-level schema variable name, e.g. "UserSchema".
func (t *TypePlan) SchemaVar() string {
	return t.GoName + "Schema"
}

// FieldPlan describes the generated methods of one field.
type FieldPlan struct {
	// Spec is the field as declared in the schema.
	Spec schema.FieldSpec
	// GoName is the Go identifier used in method names, e.g. "PasswordHash".
	GoName string
	// ValueType is the parameter type of Set<GoName>; "any" when unknown.
	ValueType string
	// ElemType is the parameter type of Push<GoName> and Pull<GoName>; "any"
	// when the field type is unknown or not a slice.
	ElemType string
	// Nested is the planned type of the nested schema, nil when the field is
	// not nestable.
	Nested *TypePlan
}

// Allows reports whether the field permits op.
func (f *FieldPlan) Allows(op schema.Operator) bool {
	return f.Spec.Ops.Has(op)
}

// MethodNames returns the names of the methods generated for the field.
func (f *FieldPlan) MethodNames() []string {
	var names []string

	for _, op := range f.Spec.Ops.Operators() {
		names = append(names, methodPrefix(op)+f.GoName)
	}

	if f.Nested != nil {
		names = append(names, "With"+f.GoName, f.GoName+"Path")
	}

	return names
}

// reservedMethods are generated on every builder regardless of its fields.
var reservedMethods = []string{"SetPath", "Err", "Builder", "Build"}

func methodPrefix(op schema.Operator) string {
	switch op {
	case schema.OpSet:
		return "Set"
	case schema.OpPush:
		return "Push"
	case schema.OpPull:
		return "Pull"
	default:
		return ""
	}
}
