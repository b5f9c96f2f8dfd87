package validate

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/concatenator-dev/concatenator/internal/cli"
	"github.com/concatenator-dev/concatenator/internal/logging"
	"github.com/concatenator-dev/concatenator/internal/ui"
)

// New creates the validate sub-command for the CLI.
func New() *cobra.Command {
	validateCommand := &cobra.Command{
		Use:   "validate",
		Short: "Validate a wizard definition",
		Long:  `Validate a wizard definition against the JSON schema and print the resolved steps`,
		Example: `
# Validate the definition in the current directory (./concatenator.yaml)
concatenator validate

# Validate an explicit file with an override and print the result as JSON
concatenator validate -f ./wizard.yaml --set steps.1.weight=5 -o json
`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			if !slices.Contains(cli.OutputFormats, output) {
				return fmt.Errorf("invalid output format %q (valid: %s)", output, strings.Join(cli.OutputFormats, ", "))
			}
			return nil
		},
		RunE: runValidate,
	}

	validateCommand.Flags().StringP("output", "o", cli.OutputFormatTable, "Output format (table|json)")
	validateCommand.Flags().Bool("wide", false, "Show weights and layout anchors in table output")

	return validateCommand
}

func runValidate(cmd *cobra.Command, args []string) error {
	logger := logging.GetLogger(cmd)

	rt, err := cli.GetRuntime(cmd.Context())
	if err != nil {
		return err
	}
	if rt.Builtin() {
		return fmt.Errorf("definition %s not found", rt.ManifestPath())
	}

	info, err := os.Stat(rt.ManifestPath())
	if err != nil {
		return fmt.Errorf("failed to stat definition: %w", err)
	}

	m, err := rt.Manifest(cmd.Context())
	if err != nil {
		return err
	}
	b, err := rt.TerminalBar(cmd.Context())
	if err != nil {
		return err
	}

	vm := cli.DefinitionToViewModel(rt.ManifestPath(), info.ModTime(), info.Size(), m, b)
	logger.Info("Definition validated successfully", "file", vm.File, "steps", len(vm.Steps))

	output, _ := cmd.Flags().GetString("output")
	if output == cli.OutputFormatJSON {
		return cli.WriteJSON(cmd.OutOrStdout(), vm)
	}

	wide, _ := cmd.Flags().GetBool("wide")
	title := vm.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s  %s, %s, modified %s\n", title, vm.APIVersion, vm.Size, vm.Age)
	fmt.Fprintf(cmd.OutOrStdout(), "total weight %d, minimum width %d cells\n\n", vm.TotalWeight, vm.MinimumWidth)
	return ui.NewTable().
		SetColumns(cli.GetTableColumns(wide)).
		SetRows(cli.StepRows(vm.Steps)).
		Fprint(cmd.OutOrStdout())
}
