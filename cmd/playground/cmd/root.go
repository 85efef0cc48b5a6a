// Package cmd provides the CLI commands for playground.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	perrors "github.com/openplayground/catalog/internal/errors"
	"github.com/openplayground/catalog/internal/profiling"
	"github.com/openplayground/catalog/pkg/version"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	debug     bool
	configDir string
	catalog   string

	profile  profiling.Options
	profiler *profiling.Session
}

// NewRootCmd creates the root command for the playground CLI.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "playground",
		Short: "Browse the OpenPlayground project catalog",
		Long: `playground searches, filters and bookmarks the projects listed in an
OpenPlayground projects.json catalog.

It can browse the catalog in the terminal, serve it over HTTP, or expose it
to AI assistants as an MCP server.

Run 'playground browse' in a directory holding projects.json to get started.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("playground version {{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging to stderr and ~/.openplayground/logs/")
	cmd.PersistentFlags().StringVar(&opts.configDir, "config-dir", ".", "Directory holding .playground.yaml")
	cmd.PersistentFlags().StringVar(&opts.catalog, "catalog", "", "Path to projects.json (overrides catalog.path)")

	cmd.PersistentFlags().StringVar(&opts.profile.CPU, "profile-cpu", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&opts.profile.Heap, "profile-mem", "", "Write memory profile to file")
	cmd.PersistentFlags().StringVar(&opts.profile.Trace, "profile-trace", "", "Write execution trace to file")

	cmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		return opts.startProfiling()
	}
	cmd.PersistentPostRunE = func(_ *cobra.Command, _ []string) error {
		return opts.stopProfiling()
	}

	cmd.AddCommand(newSearchCmd(opts))
	cmd.AddCommand(newCategoriesCmd(opts))
	cmd.AddCommand(newBookmarkCmd(opts))
	cmd.AddCommand(newThemeCmd(opts))
	cmd.AddCommand(newBrowseCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newMCPCmd(opts))
	cmd.AddCommand(newConfigCmd(opts))
	cmd.AddCommand(newDoctorCmd(opts))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func (o *globalOptions) startProfiling() error {
	if !o.profile.Enabled() {
		return nil
	}
	s, err := profiling.Start(o.profile)
	if err != nil {
		return err
	}
	o.profiler = s
	return nil
}

func (o *globalOptions) stopProfiling() error {
	if o.profiler == nil {
		return nil
	}
	err := o.profiler.Stop()
	o.profiler = nil
	return err
}

// Execute runs the root command and prints any error for the terminal.
func Execute() error {
	cmd := NewRootCmd()
	err := cmd.Execute()
	if err != nil {
		_, _ = fmt.Fprint(cmd.ErrOrStderr(), perrors.FormatForCLI(err))
	}
	return err
}
