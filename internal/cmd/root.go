// Copyright 2025 The Concatenator Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cmd provides the commands for the Concatenator application.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/concatenator-dev/concatenator/internal/cli"
	initialize "github.com/concatenator-dev/concatenator/internal/cmd/initialize"
	"github.com/concatenator-dev/concatenator/internal/cmd/preview"
	"github.com/concatenator-dev/concatenator/internal/cmd/render"
	"github.com/concatenator-dev/concatenator/internal/cmd/show"
	"github.com/concatenator-dev/concatenator/internal/cmd/validate"
	"github.com/concatenator-dev/concatenator/internal/logging"
	"github.com/concatenator-dev/concatenator/internal/manifest"
	"github.com/concatenator-dev/concatenator/internal/runtime"
)

// Version is set at build time.
var Version = "dev"

// NewRootCommand creates a new root command for the Concatenator application. The root command is the main entry point for the application.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "concatenator",
		Short: "Step progress bar for multi-step wizards",
		Long: `Concatenator draws the step progress bar of a multi-step wizard.

The steps, colours and spacing come from a wizard definition (concatenator.yaml).
Without one, the built-in five-step alignment wizard is shown.`,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logLevel, _ := cmd.Flags().GetString("log-level")
			noColor, _ := cmd.Flags().GetBool("no-color")
			quiet, _ := cmd.Flags().GetBool("quiet")

			cmd.SilenceErrors = quiet
			cmd.SilenceUsage = true

			if err := logging.SetupCharmLogger(cmd, logLevel, noColor, quiet); err != nil {
				return err
			}
			return setupRuntime(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			reportMetrics(cmd)
			if rt := runtime.FromRuntime(cmd.Context()); rt != nil {
				return rt.Close()
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringP("log-level", "l", log.InfoLevel.String(), "Set the logging level (debug|info|warn|error|fatal)")
	rootCmd.PersistentFlags().Bool("no-color", false, "If specified, output won't contain any color.")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Quiet or silent mode. Do not show logs or error messages.")
	rootCmd.PersistentFlags().StringP("file", "f", "", fmt.Sprintf("Path to the wizard definition (default %q, or $%s)", manifest.DefaultManifestPath, runtime.ManifestEnvVar))
	rootCmd.PersistentFlags().StringArray("set", nil, "Override a definition value (e.g. --set steps.0.label=Input --set theme.bold=#202020)")

	rootCmd.AddCommand(
		initialize.New(),
		validate.New(),
		show.New(),
		render.New(),
		preview.New(),
	)

	return rootCmd
}

// setupRuntime stores a Runtime built from the persistent flags in the
// command context.
func setupRuntime(cmd *cobra.Command) error {
	file, _ := cmd.Flags().GetString("file")
	if file == "" {
		file = os.Getenv(runtime.ManifestEnvVar)
	}

	values, _ := cmd.Flags().GetStringArray("set")
	overrides, err := manifest.ParseOverrides(values)
	if err != nil {
		return err
	}

	logger := logging.GetLogger(cmd)
	rt := runtime.New(
		runtime.WithBuiltinFallback(true),
		runtime.WithManifestPath(file),
		runtime.WithOverrides(overrides...),
		runtime.WithLogger(runtime.NewLoggerAdapter(logger)),
	)
	logger.Debug("Runtime ready", "file", rt.ManifestPath(), "overrides", len(overrides))

	cmd.SetContext(runtime.WithRuntime(cmd.Context(), rt))
	return nil
}

// reportMetrics logs the counters collected during the command at debug level.
func reportMetrics(cmd *cobra.Command) {
	obs := logging.GetObservableLogger(cmd)
	collector := obs.Collector()
	if collector == nil {
		return
	}
	logger := obs.Logger()
	for _, m := range collector.Snapshot() {
		logger.Debug("Metric", "name", m.Name, "value", m.Value, "count", m.Count, "tags", m.Tags)
	}
}

// Execute is the main entry point for the Concatenator application.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := fang.Execute(ctx, NewRootCommand(), fang.WithVersion(Version)); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			os.Exit(cli.ExitTimedOut)
		}

		os.Exit(cli.ExitError)
	}
}
