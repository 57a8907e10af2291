package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowboardhq/flowboard/pkg/render"
	"github.com/flowboardhq/flowboard/pkg/workflow"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	output string  // output file path; extension selects the format when --format is unset
	format string  // svg, png, or dot
	scale  float64 // raster scale for PNG output
}

// newExportCmd creates the export command rendering a stored workflow to a
// file.
func newExportCmd(configPath *string) *cobra.Command {
	opts := exportOpts{scale: 1}

	cmd := &cobra.Command{
		Use:   "export <workflow-id>",
		Short: "Export a workflow as SVG, PNG, or DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			id := args[0]

			cfg, err := resolveConfig(configPath)
			if err != nil {
				return err
			}
			st, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			wf, err := st.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			format := opts.format
			output := opts.output
			if output == "" {
				if format == "" {
					format = "svg"
				}
				output = id + "." + format
			} else if format == "" {
				format = strings.TrimPrefix(filepath.Ext(output), ".")
			}

			p := newProgress(logger)
			data, err := renderAs(wf, format, opts.scale)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			p.done(fmt.Sprintf("Exported %s to %s", id, output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <id>.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: svg, png, dot (default from extension)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 1, "raster scale for PNG output")
	return cmd
}

// renderAs dispatches to the renderer for the requested format.
func renderAs(wf workflow.Workflow, format string, scale float64) ([]byte, error) {
	switch format {
	case "svg":
		return render.SVG(wf), nil
	case "png":
		return render.PNG(wf, render.WithScale(scale))
	case "dot":
		return []byte(render.ToDOT(wf)), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}
