package gen

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"log/slog"
	"path/filepath"
	"text/template"

	"golang.org/x/tools/imports"

	"mongo-ops-generator/internal/common"
	"mongo-ops-generator/internal/plan"
)

// DefaultRuntimePath is the import path prefix of the schema and update
// packages generated code depends on.
const DefaultRuntimePath = "mongo-ops-generator"

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// PackageName is the name of the generated package. Empty means the
	// package recorded in the plan.
	PackageName string
	// OutputDir is the directory where generated files are written.
	OutputDir string
	// GenerateComments enables generation of doc comments.
	GenerateComments bool
	// RuntimePath is the import path prefix of the schema and update packages.
	RuntimePath string
	// Logger receives debug output; nil discards it.
	Logger *slog.Logger
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		OutputDir:        "./generated",
		GenerateComments: true,
		RuntimePath:      DefaultRuntimePath,
	}
}

// ErrNoPackageName is returned when neither the config nor the plan names
// the generated package.
var ErrNoPackageName = errors.New("no package name for generated code")

// Generator generates Go code from a generation plan.
type Generator struct {
	config GeneratorConfig
	log    *slog.Logger
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	if config.RuntimePath == "" {
		config.RuntimePath = DefaultRuntimePath
	}

	log := config.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return &Generator{config: config, log: log}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the name of the file (e.g., "user_settings_update.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// Generate generates one file per planned type.
func (g *Generator) Generate(p *plan.GenerationPlan) ([]GeneratedFile, error) {
	pkgName := g.config.PackageName
	if pkgName == "" {
		pkgName = p.Package
	}

	if pkgName == "" {
		return nil, ErrNoPackageName
	}

	files := make([]GeneratedFile, 0, len(p.Types))

	for i := range p.Types {
		tp := &p.Types[i]

		file, err := g.generateType(pkgName, p.Imports, tp)
		if err != nil {
			return nil, fmt.Errorf("generating %s: %w", tp.BuilderName(), err)
		}

		g.log.Debug("generated builder",
			"type", tp.BuilderName(), "file", file.Filename, "bytes", len(file.Content))

		files = append(files, *file)
	}

	return files, nil
}

// generateType generates the schema variable and typed builder of one type.
func (g *Generator) generateType(pkgName string, fileImports []string, tp *plan.TypePlan) (*GeneratedFile, error) {
	data := g.buildTemplateData(pkgName, fileImports, tp)

	var buf bytes.Buffer
	if err := builderTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	// Format the generated code
	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		// Best-effort: write unformatted code to a sidecar file to aid debugging.
		if g.config.OutputDir != "" {
			_ = writeDebugUnformatted(g.config.OutputDir, data.Filename, buf.Bytes())
		}
		// Return unformatted code for debugging
		return &GeneratedFile{
			Filename: data.Filename,
			Content:  buf.Bytes(),
		}, fmt.Errorf("formatting code: %w (unformatted code returned)", err)
	}

	fixed, err := imports.Process(filepath.Join(g.config.OutputDir, data.Filename), formatted, &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		return &GeneratedFile{
			Filename: data.Filename,
			Content:  formatted,
		}, fmt.Errorf("fixing imports: %w", err)
	}

	return &GeneratedFile{
		Filename: data.Filename,
		Content:  fixed,
	}, nil
}

// filename returns the output file name of a type, e.g. "user_settings_update.go".
func filename(tp *plan.TypePlan) string {
	return common.SnakeName(tp.GoName) + "_update.go"
}

// Template for one builder file

var builderTemplate = template.Must(template.New("builder").Parse(`// Code generated by mongo-ops-generator. DO NOT EDIT.

package {{.PackageName}}

import (
{{range .StdImports}}	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{end}}{{if and .StdImports .Imports}}
{{end}}{{range .Imports}}	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{end}})
{{with .Type}}{{$b := .Builder}}
{{if $.GenerateComments}}// {{.SchemaVar}} lists the update operators each {{.SchemaName}} field permits.
{{end}}var {{.SchemaVar}} = schema.MustNew({{printf "%q" .SchemaName}},{{range .Fields}}
	schema.FieldSpec{Name: {{printf "%q" .Name}}, Ops: {{.OpsExpr}}{{if .NestedVar}}, Nested: {{.NestedVar}}{{end}}},{{end}}
)

{{if $.GenerateComments}}// {{$b}} builds {{.SchemaName}} update documents. The first failing call is
// kept and returned by Err and Build; later calls are ignored.
{{end}}type {{$b}} struct {
	b   *update.Builder
	err error
}

{{if $.GenerateComments}}// New{{$b}} returns an empty {{$b}}.
{{end}}func New{{$b}}() *{{$b}} {
	return &{{$b}}{b: update.New({{.SchemaVar}})}
}
{{range .Fields}}{{if .Set}}
{{if $.GenerateComments}}// Set{{.GoName}} records a $set of {{.Name}}.
{{end}}func (u *{{$b}}) Set{{.GoName}}(v {{.ValueType}}) *{{$b}} {
	if u.err == nil {
		u.err = u.b.Set({{printf "%q" .Name}}, v)
	}

	return u
}
{{end}}{{if .Push}}
{{if $.GenerateComments}}// Push{{.GoName}} records a $push onto {{.Name}}.
{{end}}func (u *{{$b}}) Push{{.GoName}}(v {{.ElemType}}) *{{$b}} {
	if u.err == nil {
		u.err = u.b.Push({{printf "%q" .Name}}, v)
	}

	return u
}
{{end}}{{if .Pull}}
{{if $.GenerateComments}}// Pull{{.GoName}} records a $pull from {{.Name}}.
{{end}}func (u *{{$b}}) Pull{{.GoName}}(v {{.ElemType}}) *{{$b}} {
	if u.err == nil {
		u.err = u.b.Pull({{printf "%q" .Name}}, v)
	}

	return u
}
{{end}}{{if .NestedBuilder}}
{{if $.GenerateComments}}// With{{.GoName}} edits {{.Name}} with the nested {{.NestedBuilder}}.
{{end}}func (u *{{$b}}) With{{.GoName}}(edit func(*{{.NestedBuilder}})) *{{$b}} {
	if u.err == nil {
		u.err = u.b.WithNested({{printf "%q" .Name}}, func(b *update.Builder) error {
			nested := &{{.NestedBuilder}}{b: b}
			if edit != nil {
				edit(nested)
			}

			return nested.err
		})
	}

	return u
}

{{if $.GenerateComments}}// {{.GoName}}Path records a $set of a raw path below {{.Name}}.
{{end}}func (u *{{$b}}) {{.GoName}}Path(sub string, v any) *{{$b}} {
	if u.err == nil {
		u.err = u.b.SetPath(update.JoinPath({{printf "%q" .Name}}, sub), v)
	}

	return u
}
{{end}}{{end}}
{{if $.GenerateComments}}// SetPath records a $set of a raw dot delimited path. Only the first
// segment is checked against {{.SchemaVar}}.
{{end}}func (u *{{$b}}) SetPath(path string, v any) *{{$b}} {
	if u.err == nil {
		u.err = u.b.SetPath(path, v)
	}

	return u
}

{{if $.GenerateComments}}// Err returns the first error recorded by the builder.
{{end}}func (u *{{$b}}) Err() error {
	return u.err
}

{{if $.GenerateComments}}// Builder returns the underlying untyped builder.
{{end}}func (u *{{$b}}) Builder() *update.Builder {
	return u.b
}

{{if $.GenerateComments}}// Build returns the update document, or the first recorded error.
{{end}}func (u *{{$b}}) Build() (update.Document, error) {
	if u.err != nil {
		return nil, u.err
	}

	return u.b.Build()
}
{{end}}`))
