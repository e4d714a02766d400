package main

import (
	"github.com/spf13/cobra"

	"mongo-ops-generator/internal/gen"
)

func (c *cli) newGenCmd() *cobra.Command {
	var (
		src        source
		outDir     string
		noComments bool
	)

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generates typed update builders",
		Example: `  mongo-ops-generator gen --pkg ./models --out ./models
  mongo-ops-generator gen --schema schema.yaml --out ./updates --package updates`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, diags, err := c.resolve(cmd.Context(), &src)
			c.printDiagnostics(diags, false)

			if err != nil {
				return err
			}

			cfg := gen.DefaultGeneratorConfig()
			cfg.OutputDir = outDir
			cfg.PackageName = src.packageName
			cfg.GenerateComments = !noComments
			cfg.Logger = c.log

			files, err := gen.NewGenerator(cfg).Generate(p)
			if err != nil {
				return err
			}

			if err := gen.WriteFiles(files, outDir); err != nil {
				return err
			}

			c.log.Info("generated update builders",
				"types", typesLabel(src.types), "files", len(files), "dir", outDir)

			return nil
		},
	}

	src.addFlags(cmd)
	cmd.Flags().StringVar(&outDir, "out", ".", "Output directory")
	cmd.Flags().BoolVar(&noComments, "no-comments", false, "Omit doc comments from generated code")

	return cmd
}
