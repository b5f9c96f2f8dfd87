package show

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/concatenator-dev/concatenator/internal/cli"
	"github.com/concatenator-dev/concatenator/internal/logging"
	"github.com/concatenator-dev/concatenator/internal/render/term"
	"github.com/concatenator-dev/concatenator/internal/runtime"
	"github.com/concatenator-dev/concatenator/internal/stepbar"
	"github.com/concatenator-dev/concatenator/internal/ui"
)

// DefaultTemplate prints one line per step.
const DefaultTemplate = `{{if .Current}}▶{{else}} {{end}} {{color .Color (printf "%-8s" .Status)}} {{.Label}}{{if .Key}} ({{.Key}}){{end}}
`

// StepData is the value a --template is executed with, once per step.
type StepData struct {
	cli.StepViewModel
	Title string
	Count int
	Color *color.Color
}

var statusColors = map[stepbar.Status]*color.Color{
	stepbar.StatusComplete: color.New(color.FgGreen),
	stepbar.StatusActive:   color.New(color.FgYellow, color.Bold),
	stepbar.StatusOngoing:  color.New(color.FgCyan, color.Bold),
	stepbar.StatusFailed:   color.New(color.FgRed, color.Bold),
	stepbar.StatusPending:  color.New(color.FgWhite),
	stepbar.StatusFinal:    color.New(color.FgWhite),
}

// StatusColor returns the colour used for a status name in templates.
func StatusColor(name string) *color.Color {
	status, err := stepbar.ParseStatus(name)
	if err != nil {
		return color.New(color.Reset)
	}
	return statusColors[status]
}

// New creates the show sub-command for the CLI.
func New() *cobra.Command {
	showCommand := &cobra.Command{
		Use:   "show",
		Short: "Print the step bar",
		Long:  `Print the step bar for a given current step and status`,
		Example: `
# Show the bar with the first step active
concatenator show

# Show the alignment step while it is running, 100 columns wide
concatenator show --active alignment --status ongoing --width 100

# Add a table of the steps and their layout anchors
concatenator show --active 2 --table --wide

# Print the steps through a template
concatenator show --template '{{.Index}} {{.Label | upper}} {{color .Color .Status}}{{"\n"}}'
`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			width, _ := cmd.Flags().GetInt("width")
			if !runtime.ValidateTerminalWidth(width) {
				return fmt.Errorf("invalid width %d: must be 0 or at least %d", width, runtime.MinTerminalWidth)
			}
			return nil
		},
		RunE: runShow,
	}

	showCommand.Flags().StringP("active", "a", "0", "Key or zero-based index of the current step (-1 for none)")
	showCommand.Flags().StringP("status", "s", "", "Status of the current step (active|ongoing|failed)")
	showCommand.Flags().IntP("width", "w", 0, "Width in columns (default: terminal width)")
	showCommand.Flags().Bool("table", false, "Print a table of the steps below the bar")
	showCommand.Flags().Bool("wide", false, "Show weights and layout anchors in the table")
	showCommand.Flags().String("template", "", "Print the steps through a Go template instead of drawing the bar")
	showCommand.Flags().String("template-file", "", "Read the --template from a file")

	showCommand.MarkFlagsMutuallyExclusive("template", "template-file")
	showCommand.MarkFlagsMutuallyExclusive("template", "table")
	showCommand.MarkFlagsMutuallyExclusive("template-file", "table")

	return showCommand
}

func runShow(cmd *cobra.Command, args []string) error {
	logger := logging.GetLogger(cmd)

	rt, err := cli.GetRuntime(cmd.Context())
	if err != nil {
		return err
	}
	m, err := rt.Manifest(cmd.Context())
	if err != nil {
		return err
	}
	b, err := rt.TerminalBar(cmd.Context())
	if err != nil {
		return err
	}

	active, _ := cmd.Flags().GetString("active")
	status, _ := cmd.Flags().GetString("status")
	if err := cli.ActivateStep(b, active); err != nil {
		return err
	}
	if err := cli.ApplyStatus(b, status); err != nil {
		return err
	}
	logger.Debug("Showing bar", "step", b.Active(), "status", status, "builtin", rt.Builtin())

	width, _ := cmd.Flags().GetInt("width")
	if width == 0 {
		width = ui.TerminalWidth(runtime.DefaultTerminalWidth)
	}

	tmpl, err := loadTemplate(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	vms := cli.StepsToViewModels(m, b, float64(width))

	if tmpl != nil {
		return executeTemplate(out, tmpl, m.Title, vms)
	}

	fmt.Fprintln(out, term.Render(b, width).String())

	if table, _ := cmd.Flags().GetBool("table"); table {
		wide, _ := cmd.Flags().GetBool("wide")
		fmt.Fprintln(out)
		return ui.NewTable().
			SetMaxWidth(width).
			SetColumns(cli.GetTableColumns(wide)).
			SetRows(cli.StepRows(vms)).
			Fprint(out)
	}
	return nil
}

// loadTemplate parses --template or --template-file, or returns nil when
// neither is set.
func loadTemplate(cmd *cobra.Command) (*template.Template, error) {
	templateStr, _ := cmd.Flags().GetString("template")
	templateFile, _ := cmd.Flags().GetString("template-file")

	switch {
	case templateFile != "":
		data, err := os.ReadFile(templateFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read template file %q: %w", templateFile, err)
		}
		templateStr = string(data)
	case templateStr == "":
		return nil, nil
	}
	return ParseTemplate(templateStr)
}

// ParseTemplate parses a step template with the sprig functions and a
// "color" function taking a *color.Color.
func ParseTemplate(text string) (*template.Template, error) {
	funs := map[string]any{
		"color": func(c *color.Color, text string) string {
			if c == nil {
				return text
			}
			return c.SprintFunc()(text)
		},
		"statusColor": StatusColor,
	}

	tmpl, err := template.New("show").Funcs(funs).Funcs(sprig.FuncMap()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse step template: %w", err)
	}
	return tmpl, nil
}

func executeTemplate(w io.Writer, tmpl *template.Template, title string, vms []cli.StepViewModel) error {
	for _, vm := range vms {
		data := StepData{
			StepViewModel: vm,
			Title:         title,
			Count:         len(vms),
			Color:         StatusColor(vm.Status),
		}
		if err := tmpl.Execute(w, data); err != nil {
			return fmt.Errorf("failed to execute step template: %w", err)
		}
	}
	return nil
}
