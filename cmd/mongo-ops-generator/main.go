// Package main provides the CLI entrypoint for mongo-ops-generator.
//
// mongo-ops-generator turns record type declarations into typed MongoDB
// update builders:
//   - Reads schemas from `mongo` struct tags (--pkg) or a YAML file (--schema)
//   - Validates them and reports diagnostics (check)
//   - Generates typed builders over the update package (gen)
//   - Exports struct tag schemas as YAML (export)
//   - Replays mutation scripts and prints the update document (preview)
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
)

// errCheckFailed makes the process exit with status 1 after diagnostics
// have already been printed.
var errCheckFailed = errors.New("check failed")

func main() {
	if err := execRootCmd(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

func execRootCmd(args []string, out, errOut io.Writer) error {
	rootCmd := newRootCmd(out, errOut)
	rootCmd.SetArgs(args)

	return rootCmd.Execute()
}

// cli carries state shared by all commands.
type cli struct {
	verbose bool
	log     *slog.Logger
	out     io.Writer
	errOut  io.Writer
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	c := &cli{out: out, errOut: errOut}

	rootCmd := &cobra.Command{
		Use:          "mongo-ops-generator",
		Short:        "Schema-driven MongoDB update document builders",
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			c.setupLogger()
		},
	}

	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		c.newGenCmd(),
		c.newCheckCmd(),
		c.newExportCmd(),
		c.newPreviewCmd(),
		c.newVersionCmd(),
	)

	return rootCmd
}

func (c *cli) setupLogger() {
	level := slog.LevelInfo
	if c.verbose {
		level = slog.LevelDebug
	}

	c.log = slog.New(slog.NewTextHandler(c.errOut, &slog.HandlerOptions{Level: level}))
}

func (c *cli) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints the version of mongo-ops-generator",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Fprintln(c.out, "mongo-ops-generator version", version)
		},
	}
}
