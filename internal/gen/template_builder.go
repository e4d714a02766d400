package gen

import (
	"slices"
	"strings"

	"mongo-ops-generator/internal/common"
	"mongo-ops-generator/internal/plan"
	"mongo-ops-generator/schema"
)

// templateData holds all data needed for the builder template.
type templateData struct {
	PackageName      string
	Filename         string
	StdImports       []importSpec
	Imports          []importSpec
	GenerateComments bool
	Type             typeData
}

// importSpec represents an import statement.
type importSpec struct {
	Alias string
	Path  string
}

// typeData describes the schema variable and builder of one type.
type typeData struct {
	SchemaName string
	SchemaVar  string
	Builder    string
	Fields     []fieldData
}

// fieldData describes the schema entry and methods of one field.
type fieldData struct {
	Name      string
	GoName    string
	OpsExpr   string
	ValueType string
	ElemType  string
	Set       bool
	Push      bool
	Pull      bool
	// For nested fields
	NestedVar     string
	NestedBuilder string
}

// buildTemplateData constructs the template data from a planned type.
func (g *Generator) buildTemplateData(pkgName string, fileImports []string, tp *plan.TypePlan) *templateData {
	data := &templateData{
		PackageName:      pkgName,
		Filename:         filename(tp),
		GenerateComments: g.config.GenerateComments,
		Type: typeData{
			SchemaName: tp.Schema.Name(),
			SchemaVar:  tp.SchemaVar(),
			Builder:    tp.BuilderName(),
		},
	}

	for i := range tp.Fields {
		fp := &tp.Fields[i]

		fd := fieldData{
			Name:      fp.Spec.Name,
			GoName:    fp.GoName,
			OpsExpr:   opsExpr(fp.Spec.Ops),
			ValueType: fp.ValueType,
			ElemType:  fp.ElemType,
			Set:       fp.Allows(schema.OpSet),
			Push:      fp.Allows(schema.OpPush),
			Pull:      fp.Allows(schema.OpPull),
		}

		if fp.Nested != nil {
			fd.NestedVar = fp.Nested.SchemaVar()
			fd.NestedBuilder = fp.Nested.BuilderName()
		}

		data.Type.Fields = append(data.Type.Fields, fd)
	}

	data.StdImports, data.Imports = g.collectImports(fileImports, data.Type.Fields)

	return data
}

// collectImports returns the runtime imports plus the file imports that the
// field types of this builder refer to, split into standard library paths and
// the rest so they render as separate groups.
func (g *Generator) collectImports(fileImports []string, fields []fieldData) (std, other []importSpec) {
	paths := []string{
		g.config.RuntimePath + "/schema",
		g.config.RuntimePath + "/update",
	}

	for _, p := range fileImports {
		qualifier := common.PkgAlias(p) + "."

		if slices.ContainsFunc(fields, func(f fieldData) bool {
			return strings.Contains(f.ValueType, qualifier) || strings.Contains(f.ElemType, qualifier)
		}) {
			paths = append(paths, p)
		}
	}

	slices.Sort(paths)
	paths = slices.Compact(paths)

	for _, p := range paths {
		if g.isStdlib(p) {
			std = append(std, importSpec{Path: p})
		} else {
			other = append(other, importSpec{Path: p})
		}
	}

	return std, other
}

// isStdlib reports whether path looks like a standard library import: no dot
// in its first element and not under the runtime module.
func (g *Generator) isStdlib(path string) bool {
	if path == g.config.RuntimePath || strings.HasPrefix(path, g.config.RuntimePath+"/") {
		return false
	}

	first, _, _ := strings.Cut(path, "/")

	return !strings.Contains(first, ".")
}

// opsExpr renders an operator set as a Go expression, e.g.
// "schema.Ops(schema.OpSet, schema.OpPush)" or "schema.None".
func opsExpr(ops schema.OperatorSet) string {
	if ops.IsEmpty() {
		return "schema.None"
	}

	names := make([]string, 0, 3)

	for _, op := range ops.Operators() {
		switch op {
		case schema.OpSet:
			names = append(names, "schema.OpSet")
		case schema.OpPush:
			names = append(names, "schema.OpPush")
		case schema.OpPull:
			names = append(names, "schema.OpPull")
		}
	}

	return "schema.Ops(" + strings.Join(names, ", ") + ")"
}
