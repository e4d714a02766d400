package main

import (
	"errors"

	"github.com/spf13/cobra"
)

func (c *cli) newCheckCmd() *cobra.Command {
	var src source

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validates schemas and prints diagnostics",
		Long: `Validates schemas and prints diagnostics.

The exit status is 1 when any error is reported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, diags, err := c.resolve(cmd.Context(), &src)
			c.printDiagnostics(diags, true)

			if errors.Is(err, errCheckFailed) {
				// Diagnostics are the report; skip cobra's error line.
				cmd.SilenceErrors = true
				return err
			}

			if err != nil {
				return err
			}

			c.log.Debug("schemas ok", "types", len(p.Types))

			return nil
		},
	}

	src.addFlags(cmd)

	return cmd
}
