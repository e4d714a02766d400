package main

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"mongo-ops-generator/internal/script"
)

func (c *cli) newPreviewCmd() *cobra.Command {
	var (
		src        source
		scriptPath string
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Replays a mutation script and prints the update document",
		Example: `  mongo-ops-generator preview --schema schema.yaml --script steps.yaml
  mongo-ops-generator preview --pkg ./models --script steps.json -v`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, diags, err := c.resolve(cmd.Context(), &src)
			c.printDiagnostics(diags, false)

			if err != nil {
				return err
			}

			s, err := script.LoadFile(scriptPath)
			if err != nil {
				return err
			}

			b, err := script.Replay(p.Registry, s)
			if err != nil {
				return err
			}

			c.log.Debug("replayed script", "schema", s.Schema, "mutations", b.Len())

			if c.verbose {
				fmt.Fprint(c.errOut, spew.Sdump(b.Mutations()))
			}

			doc, err := b.Build()
			if err != nil {
				return err
			}

			data, err := doc.MarshalIndent("", "  ")
			if err != nil {
				return fmt.Errorf("encoding update document: %w", err)
			}

			_, err = fmt.Fprintln(c.out, string(data))

			return err
		},
	}

	src.addFlags(cmd)
	cmd.Flags().StringVar(&scriptPath, "script", "", "Mutation script (YAML or JSON)")
	_ = cmd.MarkFlagRequired("script")

	return cmd
}
