package schemafile

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// File represents the root of a YAML schema declaration file.
type File struct {
	// Version of the file format (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Package is the Go package name generated code is written into.
	Package string `yaml:"package,omitempty"`

	// Imports lists extra import paths needed by field types.
	Imports []string `yaml:"imports,omitempty"`

	// Schemas declares the record types, in any order.
	Schemas []SchemaDef `yaml:"schemas"`
}

// SchemaDef declares one record type.
type SchemaDef struct {
	// Name of the record type; also the Go type name prefix of generated code.
	Name string `yaml:"name"`

	// Fields in declaration order.
	Fields []FieldDef `yaml:"fields"`
}

// FieldDef declares one field of a record type.
type FieldDef struct {
	// Name is the stored field name and path segment.
	Name string `yaml:"name"`

	// Ops lists the permitted operators ("set", "push", "pull") or "none".
	Ops OpList `yaml:"ops,omitempty"`

	// Nested names another schema in the file describing the sub-record.
	Nested string `yaml:"nested,omitempty"`

	// Type is the Go type of the field value (optional).
	Type string `yaml:"type,omitempty"`

	// GoName overrides the Go identifier used in generated method names.
	GoName string `yaml:"go_name,omitempty"`
}

// OpList is a list of operator names that can be unmarshaled from a
// sequence or from a single, optionally comma separated, scalar.
type OpList []string

// UnmarshalYAML implements custom YAML unmarshaling for OpList.
func (o *OpList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string

		if err := node.Decode(&str); err != nil {
			return err
		}

		var ops OpList

		for part := range strings.SplitSeq(str, ",") {
			if part = strings.TrimSpace(part); part != "" {
				ops = append(ops, part)
			}
		}

		*o = ops

		return nil

	case yaml.SequenceNode:
		var arr []string

		if err := node.Decode(&arr); err != nil {
			return err
		}

		*o = arr

		return nil

	default:
		return fmt.Errorf("line %d: expected operator or list of operators", node.Line)
	}
}

// HasNone reports whether the list contains the "none" marker.
func (o OpList) HasNone() bool {
	for _, op := range o {
		if strings.EqualFold(strings.TrimSpace(op), "none") {
			return true
		}
	}

	return false
}

// Lookup returns the schema declared under name.
func (f *File) Lookup(name string) (*SchemaDef, bool) {
	for i := range f.Schemas {
		if f.Schemas[i].Name == name {
			return &f.Schemas[i], true
		}
	}

	return nil, false
}

// SchemaNames returns the declared schema names in file order.
func (f *File) SchemaNames() []string {
	names := make([]string, len(f.Schemas))
	for i, s := range f.Schemas {
		names[i] = s.Name
	}

	return names
}
