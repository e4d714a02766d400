package plan

import (
	"gopkg.in/yaml.v3"

	"mongo-ops-generator/internal/common"
	"mongo-ops-generator/internal/schemafile"
	"mongo-ops-generator/schema"
)

// Export turns a resolved plan back into a schema file. Types and Go names
// are written only where they differ from what resolution would derive, so
// an exported file resolves to the same plan.
func Export(p *GenerationPlan) *schemafile.File {
	schemas := make([]*schema.Schema, 0, len(p.Types))
	types := map[string]string{}
	goNames := map[string]string{}

	for _, tp := range p.Types {
		schemas = append(schemas, tp.Schema)

		for _, fp := range tp.Fields {
			key := tp.Schema.Name() + "." + fp.Spec.Name

			if fp.ValueType != "any" {
				types[key] = fp.ValueType
			}

			if fp.GoName != common.ExportedName(fp.Spec.Name) {
				goNames[key] = fp.GoName
			}
		}
	}

	f := schemafile.FromSchemas(p.Package, schemas, types)
	f.Imports = p.Imports

	for i := range f.Schemas {
		sd := &f.Schemas[i]
		for j := range sd.Fields {
			sd.Fields[j].GoName = goNames[sd.Name+"."+sd.Fields[j].Name]
		}
	}

	return f
}

// ExportYAML generates the exported schema file as YAML.
func ExportYAML(p *GenerationPlan) ([]byte, error) {
	return yaml.Marshal(Export(p))
}
