package plan

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"mongo-ops-generator/internal/common"
	"mongo-ops-generator/internal/diagnostic"
	"mongo-ops-generator/internal/schemafile"
	"mongo-ops-generator/schema"
)

// Diagnostic codes reported by Resolve, in addition to the schema file codes.
const (
	CodeUnknownType     = "unknown_type"
	CodeGoNameCollision = "go_name_collision"
	CodeMethodCollision = "method_name_collision"
	CodeUntypedField    = "untyped_field"
)

// ErrResolution is returned when the plan has error diagnostics.
var ErrResolution = errors.New("resolution failed")

// ResolutionConfig holds configuration for the resolution process.
type ResolutionConfig struct {
	// Types limits generation to these schemas and the schemas they nest.
	// Empty means every schema in the file.
	Types []string
	// StrictMode fails on warnings too.
	StrictMode bool
}

// DefaultConfig returns the default resolution configuration.
func DefaultConfig() ResolutionConfig {
	return ResolutionConfig{}
}

// Resolver performs the resolution pipeline.
type Resolver struct {
	file   *schemafile.File
	config ResolutionConfig
}

// NewResolver creates a new Resolver.
func NewResolver(file *schemafile.File, config ResolutionConfig) *Resolver {
	return &Resolver{file: file, config: config}
}

// Resolve validates the schema file and produces a generation plan. When the
// returned error wraps ErrResolution the plan is still returned so callers
// can report its diagnostics.
func (r *Resolver) Resolve() (*GenerationPlan, error) {
	p := &GenerationPlan{}
	p.Diagnostics.Merge(*schemafile.Validate(r.file))

	if p.Diagnostics.HasErrors() {
		return p, r.fail(p)
	}

	p.Package = r.file.Package
	p.Imports = slices.Clone(r.file.Imports)

	reg, ordered, err := schemafile.Build(r.file)
	if err != nil {
		return p, fmt.Errorf("%w: %w", ErrResolution, err)
	}

	p.Registry = reg
	selected := r.selectTypes(reg, &p.Diagnostics)

	// Capacity is fixed up front: FieldPlan.Nested points into this slice.
	p.Types = make([]TypePlan, 0, len(ordered))
	planned := make(map[string]*TypePlan, len(ordered))

	for _, s := range ordered {
		if !selected[s.Name()] {
			continue
		}

		p.Types = append(p.Types, r.typePlan(s, planned, &p.Diagnostics))
		planned[s.Name()] = &p.Types[len(p.Types)-1]
	}

	checkTypeNames(p)

	for i := range p.Types {
		checkMethodNames(&p.Types[i], &p.Diagnostics)
	}

	if r.config.StrictMode {
		for _, w := range p.Diagnostics.Warnings {
			p.Diagnostics.AddError(w.Code, w.Message+" (strict mode)", w.Schema, w.Field)
		}
	}

	if p.Diagnostics.HasErrors() {
		return p, r.fail(p)
	}

	return p, nil
}

func (r *Resolver) fail(p *GenerationPlan) error {
	return fmt.Errorf("%w: %w", ErrResolution, p.Diagnostics.Error())
}

func (r *Resolver) typePlan(s *schema.Schema, planned map[string]*TypePlan, diags *diagnostic.Diagnostics) TypePlan {
	tp := TypePlan{
		Schema: s,
		GoName: common.ExportedName(s.Name()),
	}

	sd, _ := r.file.Lookup(s.Name())

	for i, spec := range s.Fields() {
		fd := sd.Fields[i]

		fp := FieldPlan{
			Spec:      spec,
			GoName:    fd.GoName,
			ValueType: fd.Type,
			ElemType:  elemType(fd.Type),
		}

		if fp.GoName == "" {
			fp.GoName = common.ExportedName(spec.Name)
		}

		if fp.ValueType == "" {
			fp.ValueType = "any"

			if !spec.Ops.IsEmpty() {
				diags.AddInfo(CodeUntypedField, "no type given; generated parameters use any", s.Name(), spec.Name)
			}
		}

		if spec.Nested != nil {
			fp.Nested = planned[spec.Nested.Name()]
		}

		tp.Fields = append(tp.Fields, fp)
	}

	return tp
}

// elemType returns the element type of a slice type expression, or "any".
func elemType(typ string) string {
	if elem, ok := strings.CutPrefix(typ, "[]"); ok && elem != "" {
		return elem
	}

	return "any"
}

// checkTypeNames reports schemas whose names map to the same Go identifier,
// e.g. "user" and "User".
func checkTypeNames(p *GenerationPlan) {
	seen := make(map[string]string, len(p.Types))

	for _, tp := range p.Types {
		if other, ok := seen[tp.GoName]; ok {
			p.Diagnostics.AddError(CodeGoNameCollision,
				fmt.Sprintf("schemas %q and %q both generate %s", other, tp.Schema.Name(), tp.BuilderName()),
				tp.Schema.Name(), "")

			continue
		}

		seen[tp.GoName] = tp.Schema.Name()
	}
}

// checkMethodNames reports fields whose generated methods collide with each
// other or with the methods every builder has.
func checkMethodNames(tp *TypePlan, diags *diagnostic.Diagnostics) {
	owner := make(map[string]string)
	for _, m := range reservedMethods {
		owner[m] = ""
	}

	goNames := make(map[string]string, len(tp.Fields))

	for i := range tp.Fields {
		fp := &tp.Fields[i]
		name := fp.Spec.Name

		if other, ok := goNames[fp.GoName]; ok {
			diags.AddError(CodeGoNameCollision,
				fmt.Sprintf("fields %q and %q both map to Go name %s", other, name, fp.GoName),
				tp.Schema.Name(), name)

			continue
		}

		goNames[fp.GoName] = name

		for _, m := range fp.MethodNames() {
			other, taken := owner[m]
			if !taken {
				owner[m] = name
				continue
			}

			by := "the builder itself"
			if other != "" {
				by = fmt.Sprintf("field %q", other)
			}

			diags.AddError(CodeMethodCollision,
				fmt.Sprintf("method %s.%s is already generated for %s", tp.BuilderName(), m, by),
				tp.Schema.Name(), name)
		}
	}
}
