package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mongo-ops-generator/internal/plan"
)

func (c *cli) newExportCmd() *cobra.Command {
	var (
		src     source
		outFile string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Writes schemas as a YAML schema file",
		Long: `Writes schemas as a YAML schema file.

Reading --pkg turns struct tags into the YAML declaration; reading --schema
normalizes an existing file (defaults filled in, nested types first).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, diags, err := c.resolve(cmd.Context(), &src)
			c.printDiagnostics(diags, false)

			if err != nil {
				return err
			}

			data, err := plan.ExportYAML(p)
			if err != nil {
				return fmt.Errorf("marshaling schema file: %w", err)
			}

			if outFile == "" {
				_, err = c.out.Write(data)
				return err
			}

			if err := os.WriteFile(outFile, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", outFile, err)
			}

			c.log.Info("exported schemas", "types", len(p.Types), "file", outFile)

			return nil
		},
	}

	src.addFlags(cmd)
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Output file (default: stdout)")

	return cmd
}
