package preview

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/concatenator-dev/concatenator/internal/cli"
	"github.com/concatenator-dev/concatenator/internal/logging"
	"github.com/concatenator-dev/concatenator/internal/runtime"
	"github.com/concatenator-dev/concatenator/internal/tui"
)

// New creates the preview sub-command for the CLI.
func New() *cobra.Command {
	previewCommand := &cobra.Command{
		Use:   "preview",
		Short: "Step through the wizard interactively",
		Long: `Show the step bar in an interactive terminal program.

Move between steps with the arrow keys and switch the current step between
active, ongoing and failed to see every indicator.`,
		Example: `
# Preview the definition in the current directory, or the built-in wizard
concatenator preview

# Start on the alignment step without the alternate screen
concatenator preview --active alignment --inline
`,
		Args: cobra.NoArgs,
		RunE: runPreview,
	}

	previewCommand.Flags().StringP("active", "a", "0", "Key or zero-based index of the first current step")
	previewCommand.Flags().Bool("inline", false, "Draw below the prompt instead of using the alternate screen")

	return previewCommand
}

func runPreview(cmd *cobra.Command, args []string) error {
	logger := logging.GetLogger(cmd)

	rt, err := cli.GetRuntime(cmd.Context())
	if err != nil {
		return err
	}

	active, _ := cmd.Flags().GetString("active")
	model, err := NewModel(cmd.Context(), rt, active, logging.GetObservableLogger(cmd), logger)
	if err != nil {
		return err
	}

	var options []tea.ProgramOption
	if inline, _ := cmd.Flags().GetBool("inline"); !inline {
		options = append(options, tea.WithAltScreen())
	}
	options = append(options, tea.WithOutput(cmd.OutOrStdout()))

	logger.Debug("Starting preview", "steps", model.Bar().Len(), "builtin", rt.Builtin())
	return tui.Run(cmd.Context(), model, options...)
}

// NewModel builds the preview model for the definition held by rt and
// activates the step named by active.
func NewModel(ctx context.Context, rt *runtime.Runtime, active string, recorder tui.MetricsRecorder, logger *log.Logger) (*tui.Model, error) {
	m, err := rt.Manifest(ctx)
	if err != nil {
		return nil, err
	}

	options := []tui.Option{tui.WithTitle(m.Title), tui.WithLogger(logger)}
	if recorder != nil {
		options = append(options, tui.WithRecorder(recorder))
	}
	model, err := tui.New(rt.TerminalBarFactory(ctx), options...)
	if err != nil {
		return nil, err
	}
	if err := cli.ActivateStep(model.Bar(), active); err != nil {
		return nil, fmt.Errorf("invalid --active: %w", err)
	}
	return model, nil
}
