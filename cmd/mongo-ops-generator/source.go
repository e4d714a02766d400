package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mongo-ops-generator/internal/analyze"
	"mongo-ops-generator/internal/diagnostic"
	"mongo-ops-generator/internal/plan"
	"mongo-ops-generator/internal/schemafile"
)

// source selects where schemas come from: a YAML file or a Go package.
type source struct {
	schemaPath  string
	pkgPattern  string
	types       []string
	targetPkg   string
	packageName string
	strict      bool
}

func (s *source) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.schemaPath, "schema", "", "YAML schema file")
	cmd.Flags().StringVar(&s.pkgPattern, "pkg", "", "Go package whose `mongo` struct tags declare the schemas")
	cmd.Flags().StringSliceVar(&s.types, "types", nil, "Limit to these types and the types they nest (comma separated)")
	cmd.Flags().StringVar(&s.targetPkg, "target-pkg", "", "Import path of the generated package when it differs from --pkg")
	cmd.Flags().StringVar(&s.packageName, "package", "", "Name of the generated package (default: from the schemas)")
	cmd.Flags().BoolVar(&s.strict, "strict", false, "Treat warnings as errors")
	cmd.MarkFlagsMutuallyExclusive("schema", "pkg")
	cmd.MarkFlagsOneRequired("schema", "pkg")
}

// load reads the schema file, or extracts it from the package.
func (c *cli) load(ctx context.Context, s *source) (*schemafile.File, *diagnostic.Diagnostics, error) {
	if s.schemaPath != "" {
		c.log.Debug("loading schema file", "path", s.schemaPath)

		f, err := schemafile.LoadFile(s.schemaPath)
		if err != nil {
			return nil, nil, err
		}

		if s.packageName != "" {
			f.Package = s.packageName
		}

		return f, &diagnostic.Diagnostics{}, nil
	}

	c.log.Debug("loading package", "pattern", s.pkgPattern)

	graph, err := analyze.NewAnalyzer(analyze.Config{Logger: c.log}).LoadPackages(ctx, s.pkgPattern)
	if err != nil {
		return nil, nil, err
	}

	if len(graph.Packages) != 1 {
		return nil, nil, fmt.Errorf("pattern %q matched %d packages, want 1", s.pkgPattern, len(graph.Packages))
	}

	var pkgPath string
	for path := range graph.Packages {
		pkgPath = path
	}

	f, diags := analyze.Extract(graph, analyze.ExtractConfig{
		PkgPath:       pkgPath,
		Types:         s.types,
		TargetPkgPath: s.targetPkg,
		PackageName:   s.packageName,
	})

	return f, diags, nil
}

// resolve loads the schemas and resolves them into a generation plan. The
// returned diagnostics cover loading and resolution; the error is non-nil
// whenever they contain errors.
func (c *cli) resolve(ctx context.Context, s *source) (*plan.GenerationPlan, *diagnostic.Diagnostics, error) {
	f, diags, err := c.load(ctx, s)
	if err != nil {
		return nil, nil, err
	}

	if diags.HasErrors() {
		return nil, diags, errCheckFailed
	}

	p, err := plan.NewResolver(f, plan.ResolutionConfig{
		Types:      s.types,
		StrictMode: s.strict,
	}).Resolve()
	diags.Merge(p.Diagnostics)

	if errors.Is(err, plan.ErrResolution) {
		return p, diags, errCheckFailed
	}

	if err != nil {
		return nil, diags, err
	}

	return p, diags, nil
}

// printDiagnostics writes every diagnostic, coloured by severity, and a
// summary line when anything was reported.
func (c *cli) printDiagnostics(diags *diagnostic.Diagnostics, summary bool) {
	if diags == nil {
		return
	}

	for _, d := range diags.All() {
		switch d.Severity {
		case diagnostic.SeverityError:
			fmt.Fprintln(c.errOut, red("error:"), d.String())
		case diagnostic.SeverityWarning:
			fmt.Fprintln(c.errOut, yellow("warning:"), d.String())
		default:
			if c.verbose {
				fmt.Fprintln(c.errOut, cyan("info:"), d.String())
			}
		}
	}

	if !summary {
		return
	}

	line := fmt.Sprintf("%d errors, %d warnings", len(diags.Errors), len(diags.Warnings))
	if diags.HasErrors() {
		fmt.Fprintln(c.errOut, red(line))
	} else {
		fmt.Fprintln(c.errOut, green(line))
	}
}

// typesLabel renders the --types selection for log output.
func typesLabel(types []string) string {
	if len(types) == 0 {
		return "all"
	}

	return strings.Join(types, ",")
}
