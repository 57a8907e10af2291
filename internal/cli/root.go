package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// This is typically called by the main package during initialization with values
// injected via ldflags at build time.
//
// Parameters:
//   - v: semantic version string (e.g., "v1.2.3")
//   - c: git commit SHA (short or long form)
//   - d: build timestamp (e.g., "2025-12-20T14:32:01Z")
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the flowboard CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The function sets up the root command with all subcommands (edit, serve,
// export, list), configures logging based on the --verbose flag, and
// executes the command tree.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the CLI under the given context so signal-driven
// cancellation reaches long-running commands like serve and edit.
func ExecuteContext(ctx context.Context) error {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "flowboard",
		Short:        "FlowBoard edits node-based workflow canvases",
		Long:         `FlowBoard is a tool for building node-based workflow canvases: edit them interactively in the terminal, serve them over HTTP, and export them as images.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("flowboard %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+defaultConfigPath()+")")

	root.AddCommand(newEditCmd(&configPath))
	root.AddCommand(newServeCmd(&configPath))
	root.AddCommand(newExportCmd(&configPath))
	root.AddCommand(newListCmd(&configPath))
	root.AddCommand(newCompletionCmd())

	return root.ExecuteContext(ctx)
}

// resolveConfig loads the config honoring the --config flag.
func resolveConfig(configPath *string) (Config, error) {
	path := *configPath
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}
	return loadConfig(path, explicit)
}
