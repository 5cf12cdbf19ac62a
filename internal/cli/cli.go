// Package cli implements the licensefinder command-line interface.
//
// The single root command reads an npm package-lock.json, resolves the
// license of every dependency and writes a CSV report:
//
//	licensefinder [flags] <package-lock.json> <output.csv>
//
// # Logging
//
// Lookup progress is logged to stderr through charmbracelet/log; --verbose
// (-v) enables debug output. The confirmation line, the license tally and
// the unresolved list go to stdout.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/licensefinder/pkg/buildinfo"
	"github.com/matzehuels/licensefinder/pkg/errors"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display and temp directories.
	appName = "licensefinder"

	usage = appName + " <package-lock.json> <output.csv>"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	out    io.Writer // report summary
	errOut io.Writer // logs and run statistics
}

// New creates a CLI that prints the summary to out and logs to errOut.
func New(out, errOut io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(errOut, level),
		out:    out,
		errOut: errOut,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command.
func (c *CLI) RootCommand() *cobra.Command {
	var opts options

	root := &cobra.Command{
		Use:   usage,
		Short: "Licensefinder reports the license of every npm dependency",
		Long: `Licensefinder reads an npm package-lock.json and writes a CSV report with the
license, homepage and tarball URL of every dependency.

Licenses missing from the lockfile are looked up in the npm registry, then
through the GitHub license API for the package homepage, and finally in the
package.json inside the published tarball.`,
		Example: `  licensefinder package-lock.json licenses.csv
  GITHUB_TOKEN=... licensefinder -v --work-dir /tmp package-lock.json out.csv`,
		Version:       buildinfo.Version,
		Args:          positionalArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.verbose {
				c.SetLogLevel(LogDebug)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd.Context(), cmd.Flags(), args[0], args[1], opts)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.out)
	root.SetErr(c.errOut)
	opts.register(root)

	root.AddCommand(c.completionCommand())

	return root
}

func positionalArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return errors.New(errors.ErrCodeInvalidInput,
			"please provide the path to package-lock.json and the output CSV file (usage: %s)", usage)
	}
	for _, a := range args {
		if err := errors.ValidatePath(a); err != nil {
			return err
		}
	}
	return nil
}
