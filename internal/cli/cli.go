// Package cli implements the flowboard command-line interface.
//
// This package provides commands for editing workflow canvases in the
// terminal, serving the HTTP API, exporting workflows as images, and
// listing stored workflows. The CLI is built using cobra and supports
// verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - edit: Open a workflow in the interactive terminal canvas editor
//   - serve: Run the HTTP API over a configured store
//   - export: Render a workflow as SVG, PNG, or DOT
//   - list: Show stored workflow IDs
//
// # Configuration
//
// Commands read an optional TOML config file (--config, default
// ~/.config/flowboard/config.toml) selecting the store backend and canvas
// tuning. Flags override config values.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/flowboardhq/flowboard/internal/cli"
//
//	func main() {
//	    if err := cli.Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

// appName is the application name used for directories and display.
const appName = "flowboard"
