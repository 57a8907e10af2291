package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/flowboardhq/flowboard/pkg/store"
	"github.com/flowboardhq/flowboard/pkg/workflow"
)

// newEditCmd creates the edit command opening the terminal canvas editor.
func newEditCmd(configPath *string) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "edit [workflow-id]",
		Short: "Edit a workflow in the interactive canvas",
		Long: `Edit opens a workflow in the terminal canvas editor. Without an ID a new
workflow is created and assigned one on first save.

Controls:
  mouse drag       move nodes, or drag on empty space for marquee selection
  shift            additive selection (click or marquee)
  ctrl+wheel       zoom around the cursor
  wheel            pan vertically
  arrows / hjkl    pan the viewport
  + / -            zoom in / out at the view center
  n                add a node
  c                connect the two selected nodes
  g                group the selected nodes
  x                delete the selected nodes, groups and connections
  ctrl+z / ctrl+y  undo / redo
  ctrl+s           save
  q                quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg, err := resolveConfig(configPath)
			if err != nil {
				return err
			}
			st, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			var wf workflow.Workflow
			if len(args) == 1 {
				wf, err = st.Get(cmd.Context(), args[0])
				if err != nil && !errors.Is(err, store.ErrNotFound) {
					return err
				}
				if errors.Is(err, store.ErrNotFound) {
					wf = workflow.Workflow{ID: args[0], Name: name}
				}
			} else {
				wf = workflow.Workflow{ID: workflow.NewID(), Name: name}
			}

			m, err := newEditorModel(wf, st, cfg.Canvas)
			if err != nil {
				return err
			}

			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
			final, err := p.Run()
			if err != nil {
				return fmt.Errorf("editor: %w", err)
			}

			if em, ok := final.(*editorModel); ok && em.saveErr != nil {
				return em.saveErr
			}
			logger.Debug("editor closed", "workflow", wf.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "name for a newly created workflow")
	return cmd
}
