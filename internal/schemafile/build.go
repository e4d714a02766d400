package schemafile

import (
	"fmt"

	"mongo-ops-generator/schema"
)

// Build validates f and turns it into schemas. Nested schemas are constructed
// before the schemas that reference them. The returned slice is in that
// dependency order; every schema is also registered in the registry.
func Build(f *File) (*schema.Registry, []*schema.Schema, error) {
	if diags := Validate(f); diags.HasErrors() {
		return nil, nil, fmt.Errorf("invalid schema file: %w", diags.Error())
	}

	order, _, err := nestedOrder(f)
	if err != nil {
		return nil, nil, err
	}

	reg := schema.NewRegistry()
	built := make([]*schema.Schema, 0, len(order))

	for _, idx := range order {
		sd := &f.Schemas[idx]

		specs := make([]schema.FieldSpec, 0, len(sd.Fields))

		for i := range sd.Fields {
			fd := &sd.Fields[i]

			ops, err := fieldOps(fd)
			if err != nil {
				return nil, nil, fmt.Errorf("schema %s: field %s: %w", sd.Name, fd.Name, err)
			}

			spec := schema.FieldSpec{Name: fd.Name, Ops: ops}

			if fd.Nested != "" {
				nested, ok := reg.Lookup(fd.Nested)
				if !ok {
					return nil, nil, fmt.Errorf("schema %s: field %s: nested schema %q not built", sd.Name, fd.Name, fd.Nested)
				}

				spec.Nested = nested
			}

			specs = append(specs, spec)
		}

		s, err := schema.New(sd.Name, specs...)
		if err != nil {
			return nil, nil, err
		}

		if err := reg.Register(s); err != nil {
			return nil, nil, err
		}

		built = append(built, s)
	}

	return reg, built, nil
}

// FromSchemas describes schemas as a File. Nested schemas that are not in
// the list are added so the file is self-contained. types optionally maps
// "Schema.field" to a Go type string.
func FromSchemas(pkg string, schemas []*schema.Schema, types map[string]string) *File {
	f := &File{
		Version: CurrentVersion,
		Package: pkg,
	}

	seen := map[string]struct{}{}

	var add func(s *schema.Schema)
	add = func(s *schema.Schema) {
		if _, ok := seen[s.Name()]; ok {
			return
		}

		seen[s.Name()] = struct{}{}

		sd := SchemaDef{Name: s.Name()}

		for _, spec := range s.Fields() {
			fd := FieldDef{
				Name: spec.Name,
				Ops:  OpList(spec.Ops.Strings()),
				Type: types[s.Name()+"."+spec.Name],
			}

			if spec.Nested != nil {
				fd.Nested = spec.Nested.Name()
				add(spec.Nested)
			}

			sd.Fields = append(sd.Fields, fd)
		}

		f.Schemas = append(f.Schemas, sd)
	}

	for _, s := range schemas {
		add(s)
	}

	return f
}
