package initialize

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/concatenator-dev/concatenator/internal/logging"
	"github.com/concatenator-dev/concatenator/internal/manifest"
	"github.com/concatenator-dev/concatenator/internal/manifest/schema"
	"github.com/concatenator-dev/concatenator/internal/render/term"
	"github.com/concatenator-dev/concatenator/internal/stepbar"
	"github.com/concatenator-dev/concatenator/internal/ui"
	"github.com/concatenator-dev/concatenator/internal/util"
)

// Dry-run mode constants
const (
	DryRunPreviewHeader = "=== DRY RUN MODE - PREVIEW OF GENERATED DEFINITION ===\n"
	DryRunPreviewFooter = "\n=== END PREVIEW ===\n\nThis is a preview. Use --dry-run=false to actually save the definition."
)

// Step sources
const (
	StepsBuiltin = "builtin"
	StepsCustom  = "custom"
)

// ThemeCustom selects colours typed in by the user.
const ThemeCustom = "custom"

// ThemePreset is a named set of theme colours.
type ThemePreset struct {
	Name  string
	Bold  string
	Base  string
	Alert string
}

// ThemePresets are offered by the theme step, in display order.
var ThemePresets = []ThemePreset{
	{Name: "default", Bold: stepbar.DefaultBold, Base: stepbar.DefaultBase, Alert: stepbar.DefaultAlert},
	{Name: "ocean", Bold: "#0b3d91", Base: "#5b8fb9", Alert: "#d43c3c"},
	{Name: "forest", Bold: "#1b4d3e", Base: "#6b8f71", Alert: "#c0392b"},
	{Name: "mono", Bold: "#000000", Base: "#8a8a8a", Alert: "#000000"},
}

// WizardConfig holds the collected configuration data
type WizardConfig struct {
	Title       string
	StepsSource string
	BuiltinKeys []string
	StepsText   string
	Theme       string
	Bold        string
	Base        string
	Alert       string
	OutputPath  string
	DryRun      bool
	ConfirmSave bool
}

// New creates and returns a new cobra command for creating a wizard definition.
func New() *cobra.Command {
	initCommand := &cobra.Command{
		Use:     "init",
		Aliases: []string{"initialize"},
		Short:   "Create a wizard definition interactively",
		Long:    `Create a wizard definition interactively. The progress of the form is shown with the step bar itself.`,
		Args:    cobra.NoArgs,
		RunE:    runInit,
		Example: `
# Create ./concatenator.yaml
concatenator init

# Save the definition to another file
concatenator init --output wizard.yaml

# Preview the generated definition without saving it
concatenator init --dry-run
		`,
	}

	initCommand.Flags().StringP("output", "o", manifest.DefaultManifestPath, "The output file path.")
	initCommand.Flags().BoolP("dry-run", "d", false, "Preview the generated definition without saving it")
	initCommand.Flags().Bool("force", false, "Overwrite an existing file without asking")

	return initCommand
}

// runInit is the main function for the init command
func runInit(cmd *cobra.Command, _ []string) error {
	logger := logging.GetLogger(cmd)
	logger.Info("Starting wizard definition", "cmd", "init")

	outputPath, _ := cmd.Flags().GetString("output")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	force, _ := cmd.Flags().GetBool("force")

	if !dryRun && !force && manifest.Exists(outputPath) {
		overwrite := false
		form := ui.CreateConfirmForm(
			fmt.Sprintf("%s already exists", outputPath),
			"Do you want to replace it?",
			"Yes, replace it",
			"No, keep it",
			&overwrite,
		)
		if err := ui.CollectWithForm(form, "failed to confirm overwrite"); err != nil {
			return err
		}
		if !overwrite {
			logger.Info("Keeping existing definition", "file", outputPath)
			return nil
		}
	}

	config := &WizardConfig{
		StepsSource: StepsBuiltin,
		Theme:       ThemePresets[0].Name,
		OutputPath:  outputPath,
		DryRun:      dryRun,
	}
	for _, s := range manifest.DefaultSteps() {
		config.BuiltinKeys = append(config.BuiltinKeys, s.Key)
	}

	progress := ui.NewProgressTracker(ui.InitSteps...)
	out := cmd.OutOrStdout()
	showProgress := func() {
		fmt.Fprintln(out, progress.View(ui.TerminalWidth(ui.TableMaxWidth)))
	}

	collectors := []func(*WizardConfig, *ui.ProgressTracker) error{
		collectTitle,
		collectSteps,
		collectTheme,
	}
	for _, collect := range collectors {
		showProgress()
		if err := collect(config, progress); err != nil {
			progress.Fail()
			showProgress()
			return err
		}
	}

	showProgress()
	m, err := showSummaryAndSave(cmd, config, progress)
	if err != nil {
		progress.Fail()
		return fmt.Errorf("failed to save definition: %w", err)
	}
	if m == nil {
		logger.Info("Definition discarded")
		return nil
	}
	showProgress()

	logger.Info("Wizard definition completed",
		"title", m.Title,
		"steps", len(m.Steps),
		"theme", config.Theme,
		"file", config.OutputPath,
		"dryRun", config.DryRun)

	return nil
}

// collectTitle collects the wizard title from user input
func collectTitle(config *WizardConfig, progress *ui.ProgressTracker) error {
	form := ui.CreateInputForm(
		progress.GetCurrentStep(),
		"Concatenator",
		"Shown above the bar by the preview. May reference ${VARIABLES}.",
		func(s string) error { return util.ValidateNonEmpty(s, "title") },
		&config.Title,
	)

	if err := ui.CollectWithForm(form, "failed to get the title"); err != nil {
		return err
	}
	progress.NextStep()
	return nil
}

// collectSteps collects the steps, either a subset of the built-in wizard or
// typed in one per line.
func collectSteps(config *WizardConfig, progress *ui.ProgressTracker) error {
	sourceForm := ui.CreateSelectForm(
		progress.GetCurrentStep(),
		"Where do the steps come from?",
		[]huh.Option[string]{
			huh.NewOption("Built-in alignment wizard", StepsBuiltin),
			huh.NewOption("Type my own", StepsCustom),
		},
		&config.StepsSource,
	)
	if err := ui.CollectWithForm(sourceForm, "failed to get the step source"); err != nil {
		return err
	}

	var form *huh.Form
	switch config.StepsSource {
	case StepsBuiltin:
		var options []huh.Option[string]
		for _, s := range manifest.DefaultSteps() {
			options = append(options, huh.NewOption(s.Label, s.Key).Selected(slices.Contains(config.BuiltinKeys, s.Key)))
		}
		form = ui.CreateMultiSelectForm(
			progress.GetCurrentStep(),
			"Pick the steps to keep",
			options,
			&config.BuiltinKeys,
		)
	default:
		form = ui.CreateTextForm(
			progress.GetCurrentStep(),
			"Input Files\nSequence Alignment:3\nExport",
			"One step per line. Append :N to give the gap after a step weight N.",
			util.ValidateStepLines,
			&config.StepsText,
		)
	}
	if err := ui.CollectWithForm(form, "failed to get the steps"); err != nil {
		return err
	}
	if _, err := resolveSteps(config); err != nil {
		return err
	}

	progress.NextStep()
	return nil
}

// collectTheme collects the colours of the bar
func collectTheme(config *WizardConfig, progress *ui.ProgressTracker) error {
	options := make([]huh.Option[string], 0, len(ThemePresets)+1)
	for _, p := range ThemePresets {
		options = append(options, huh.NewOption(p.Name, p.Name))
	}
	options = append(options, huh.NewOption("custom colours", ThemeCustom))

	presetForm := ui.CreateSelectForm(progress.GetCurrentStep(), "Pick the colours of the bar", options, &config.Theme)
	if err := ui.CollectWithForm(presetForm, "failed to get the theme"); err != nil {
		return err
	}

	if config.Theme == ThemeCustom {
		defaults := ThemePresets[0]
		config.Bold, config.Base, config.Alert = defaults.Bold, defaults.Base, defaults.Alert
		form := ui.NewWizardForm(
			ui.CreateInputGroup("Bold colour", defaults.Bold, "Current and completed steps", manifest.ValidateColor, &config.Bold),
			ui.CreateInputGroup("Base colour", defaults.Base, "Pending steps; the weak tone is derived from it", manifest.ValidateColor, &config.Base),
			ui.CreateInputGroup("Alert colour", defaults.Alert, "Failed steps", manifest.ValidateColor, &config.Alert),
		)
		if err := ui.CollectWithForm(form, "failed to get the colours"); err != nil {
			return err
		}
	}

	progress.NextStep()
	return nil
}

// resolveSteps returns the steps chosen by config.
func resolveSteps(config *WizardConfig) ([]manifest.Step, error) {
	if config.StepsSource == StepsCustom {
		return util.ParseStepLines(config.StepsText)
	}
	var steps []manifest.Step
	for _, s := range manifest.DefaultSteps() {
		if slices.Contains(config.BuiltinKeys, s.Key) {
			steps = append(steps, s)
		}
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("at least one step is required")
	}
	return steps, nil
}

// resolveTheme returns the colours chosen by config.
func resolveTheme(config *WizardConfig) (manifest.Theme, error) {
	if config.Theme == ThemeCustom {
		return manifest.Theme{Bold: config.Bold, Base: config.Base, Alert: config.Alert}, nil
	}
	for _, p := range ThemePresets {
		if p.Name == config.Theme {
			return manifest.Theme{Bold: p.Bold, Base: p.Base, Alert: p.Alert}, nil
		}
	}
	return manifest.Theme{}, fmt.Errorf("unknown theme %q", config.Theme)
}

// buildManifest turns the collected answers into a validated definition
// with every default filled in.
func buildManifest(config *WizardConfig) (*manifest.Manifest, error) {
	version, err := schema.GetLatestManifestVersion()
	if err != nil {
		return nil, err
	}
	steps, err := resolveSteps(config)
	if err != nil {
		return nil, err
	}
	theme, err := resolveTheme(config)
	if err != nil {
		return nil, err
	}

	m := &manifest.Manifest{
		APIVersion: version,
		Title:      strings.TrimSpace(config.Title),
		Steps:      steps,
		Theme:      theme,
	}
	if err := manifest.FillManifestWithDefaults(m, version); err != nil {
		return nil, fmt.Errorf("failed to apply defaults to definition: %w", err)
	}
	if err := validateManifest(m); err != nil {
		return nil, fmt.Errorf("definition validation failed: %w", err)
	}
	return m, nil
}

// validateManifest performs end-to-end validation by converting the
// definition to the map form it has on disk and validating it against the
// JSON schema.
func validateManifest(m *manifest.Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to convert definition to YAML: %w", err)
	}

	var obj map[string]any
	if err := yaml.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("failed to parse definition YAML: %w", err)
	}

	if err := manifest.ValidateManifest(obj, m.APIVersion); err != nil {
		return err
	}
	if err := manifest.ValidateSteps(m.Steps); err != nil {
		return err
	}
	return manifest.ValidateTheme(m.Theme)
}

// renderSummary describes the collected answers.
func renderSummary(config *WizardConfig, m *manifest.Manifest) string {
	var summary strings.Builder

	summary.WriteString("Definition Summary:\n\n")
	fmt.Fprintf(&summary, "Title: %s\n", m.Title)
	fmt.Fprintf(&summary, "Output: %s\n", config.OutputPath)
	if config.DryRun {
		summary.WriteString("Mode: DRY RUN (preview only)\n")
	} else {
		summary.WriteString("Mode: SAVE DEFINITION\n")
	}
	summary.WriteString("\n")

	summary.WriteString("Steps:\n")
	for i, s := range m.Steps {
		fmt.Fprintf(&summary, "  %d. %s (%s, weight %d)\n", i+1, s.Label, s.Key, manifest.StepWeight(s))
	}
	summary.WriteString("\n")

	fmt.Fprintf(&summary, "Theme: %s (bold %s, base %s, alert %s)\n\n", config.Theme, m.Theme.Bold, m.Theme.Base, m.Theme.Alert)

	summary.WriteString("Next steps:\n")
	if config.DryRun {
		summary.WriteString("  1. Review the preview below\n")
		summary.WriteString("  2. Run without --dry-run to save the definition\n")
	} else {
		summary.WriteString("  1. Validate: concatenator validate -f " + config.OutputPath + "\n")
		summary.WriteString("  2. Try it: concatenator preview -f " + config.OutputPath + "\n")
	}
	return summary.String()
}

// renderBar draws the definition as the terminal host would, without colour.
func renderBar(m *manifest.Manifest, width int) (string, error) {
	palette, err := m.Palette()
	if err != nil {
		return "", err
	}
	b := term.NewBar(stepbar.WithPalette(palette))
	m.AddSteps(b)
	b.ActivateIndex(0)
	return term.Render(b, width, term.WithColorProfile(termenv.Ascii)).String(), nil
}

// showSummaryAndSave displays the summary and saves the definition. It
// returns nil without error when the user discards the definition.
func showSummaryAndSave(cmd *cobra.Command, config *WizardConfig, progress *ui.ProgressTracker) (*manifest.Manifest, error) {
	m, err := buildManifest(config)
	if err != nil {
		return nil, err
	}

	config.ConfirmSave = true
	form := ui.NewWizardForm(
		ui.CreateNoteGroup(progress.GetCurrentStep(), renderSummary(config, m)),
		ui.CreateConfirmGroup("Write this definition?", "", "Yes", "No, discard it", &config.ConfirmSave),
	)
	if err := ui.CollectWithForm(form, "failed to show summary"); err != nil {
		return nil, err
	}
	if !config.ConfirmSave {
		return nil, nil
	}
	progress.NextStep()

	if config.DryRun {
		return m, showManifestPreview(cmd, m)
	}

	if err := manifest.Save(m, config.OutputPath); err != nil {
		return nil, fmt.Errorf("failed to save definition to %s: %w", config.OutputPath, err)
	}
	return m, nil
}

// showManifestPreview displays a preview of the generated definition in dry-run mode
func showManifestPreview(cmd *cobra.Command, m *manifest.Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal definition for preview: %w", err)
	}
	bar, err := renderBar(m, ui.TerminalWidth(ui.TableMaxWidth))
	if err != nil {
		return err
	}

	var preview strings.Builder
	preview.WriteString(DryRunPreviewHeader)
	preview.WriteString(string(data))
	preview.WriteString("\n")
	preview.WriteString(bar)
	preview.WriteString(DryRunPreviewFooter)

	fmt.Fprintln(cmd.OutOrStdout(), preview.String())
	return nil
}
