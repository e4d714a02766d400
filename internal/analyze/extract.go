package analyze

import (
	"fmt"
	"strings"

	"mongo-ops-generator/internal/common"
	"mongo-ops-generator/internal/diagnostic"
	"mongo-ops-generator/internal/match"
	"mongo-ops-generator/internal/schemafile"
)

// Diagnostic codes reported by Extract.
const (
	CodeUnknownPackage  = "unknown_package"
	CodeUnknownType     = "unknown_type"
	CodeNotStruct       = "not_struct"
	CodeInvalidTag      = "invalid_tag"
	CodeNestedNotStruct = "nested_not_struct"
	CodeEmbeddedSkipped = "embedded_skipped"
	CodeNoSchemas       = "no_schemas"
)

// ExtractConfig selects what Extract reads.
type ExtractConfig struct {
	// PkgPath is the import path of the package holding the record types.
	PkgPath string
	// Types lists root type names. Empty means every exported struct with at
	// least one `mongo` tag.
	Types []string
	// TargetPkgPath is the package generated code is written into; type
	// expressions are rendered relative to it. Empty means PkgPath.
	TargetPkgPath string
	// PackageName overrides the package name recorded in the file.
	PackageName string
}

// Extract reads the struct tags of the selected types, and of every struct
// they nest, into a schema file. Field types are recorded as Go expressions
// valid inside the target package.
func Extract(graph *TypeGraph, cfg ExtractConfig) (*schemafile.File, *diagnostic.Diagnostics) {
	diags := &diagnostic.Diagnostics{}

	pkg, ok := graph.Packages[cfg.PkgPath]
	if !ok {
		diags.AddError(CodeUnknownPackage, fmt.Sprintf("package %q was not loaded", cfg.PkgPath), "", "")
		return nil, diags
	}

	target := cfg.TargetPkgPath
	if target == "" {
		target = cfg.PkgPath
	}

	f := &schemafile.File{
		Version: schemafile.CurrentVersion,
		Package: cfg.PackageName,
	}

	if f.Package == "" {
		f.Package = pkg.Name
		if target != cfg.PkgPath {
			f.Package = common.PkgAlias(target)
		}
	}

	x := &extractor{
		graph:    graph,
		diags:    diags,
		stringer: NewTypeStringer(target),
		queued:   make(map[TypeID]bool),
	}

	for _, root := range x.roots(pkg, cfg.Types) {
		x.enqueue(root)
	}

	for len(x.queue) > 0 {
		t := x.queue[0]
		x.queue = x.queue[1:]

		f.Schemas = append(f.Schemas, x.schemaDef(t))
	}

	if len(f.Schemas) == 0 && !diags.HasErrors() {
		diags.AddWarning(CodeNoSchemas,
			fmt.Sprintf("no struct in %s carries a %q tag", cfg.PkgPath, TagKey), "", "")
	}

	f.Imports = x.stringer.Imports()

	return f, diags
}

type extractor struct {
	graph    *TypeGraph
	diags    *diagnostic.Diagnostics
	stringer *TypeStringer
	queue    []*TypeInfo
	queued   map[TypeID]bool
}

func (x *extractor) enqueue(t *TypeInfo) {
	if x.queued[t.ID] {
		return
	}

	x.queued[t.ID] = true
	x.queue = append(x.queue, t)
}

// roots resolves the requested type names, or finds every tagged struct.
func (x *extractor) roots(pkg *PackageInfo, names []string) []*TypeInfo {
	var roots []*TypeInfo

	if len(names) == 0 {
		for _, id := range pkg.Types {
			t := x.graph.GetType(id)
			if t.Kind == TypeKindStruct && hasMongoTag(t) {
				roots = append(roots, t)
			}
		}

		return roots
	}

	known := make([]string, len(pkg.Types))
	for i, id := range pkg.Types {
		known[i] = id.Name
	}

	for _, name := range names {
		t := x.graph.GetType(TypeID{PkgPath: pkg.Path, Name: name})
		if t == nil {
			x.diags.AddError(CodeUnknownType,
				fmt.Sprintf("type %s not found in %s", name, pkg.Path), name, "",
				match.Suggest(name, known, match.DefaultThreshold)...)

			continue
		}

		if t.Kind != TypeKindStruct {
			x.diags.AddError(CodeNotStruct,
				fmt.Sprintf("type %s is not a struct (kind: %s)", name, t.Kind), name, "")

			continue
		}

		roots = append(roots, t)
	}

	return roots
}

func hasMongoTag(t *TypeInfo) bool {
	for i := range t.Fields {
		if t.Fields[i].HasTag(TagKey) {
			return true
		}
	}

	return false
}

func (x *extractor) schemaDef(t *TypeInfo) schemafile.SchemaDef {
	sd := schemafile.SchemaDef{Name: t.ID.Name}

	for i := range t.Fields {
		field := &t.Fields[i]

		if !field.Exported || field.BSONSkipped() {
			continue
		}

		if field.Embedded {
			x.diags.AddInfo(CodeEmbeddedSkipped, "embedded fields are not part of the schema", sd.Name, field.Name)
			continue
		}

		tag, err := ParseTag(field.Tag.Get(TagKey))
		if err != nil {
			x.diags.AddError(CodeInvalidTag, err.Error(), sd.Name, field.Name)
			continue
		}

		fd := schemafile.FieldDef{
			Name:   storedName(field, tag),
			Ops:    schemafile.OpList(tag.Ops.Strings()),
			Type:   x.stringer.TypeString(field.Type),
			GoName: field.Name,
		}

		if tag.Nested {
			nested := field.Type.StructTarget()
			if nested == nil {
				x.diags.AddError(CodeNestedNotStruct,
					fmt.Sprintf("nested field has type %s, want a named struct or pointer to one", fd.Type),
					sd.Name, field.Name)

				continue
			}

			fd.Nested = nested.ID.Name
			x.enqueue(nested)
		}

		sd.Fields = append(sd.Fields, fd)
	}

	return sd
}

// storedName picks the path name of a field: the tag's name= option, then
// the bson tag, then the json tag, else the lower-cased Go name.
func storedName(field *FieldInfo, tag Tag) string {
	if tag.Name != "" {
		return tag.Name
	}

	if name := field.BSONName(); name != "" {
		return name
	}

	if name, skip := field.tagName("json"); name != "" && !skip {
		return name
	}

	return strings.ToLower(field.Name)
}
