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

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cast"

	"github.com/concatenator-dev/concatenator/internal/manifest"
	"github.com/concatenator-dev/concatenator/internal/runtime"
	"github.com/concatenator-dev/concatenator/internal/stepbar"
	"github.com/concatenator-dev/concatenator/internal/ui"
)

// StepViewModel represents the curated output structure for json output
// matching what is displayed in table mode.
type StepViewModel struct {
	Index   int    `json:"index" yaml:"index"`
	Key     string `json:"key,omitempty" yaml:"key,omitempty"`
	Label   string `json:"label" yaml:"label"`
	Weight  int    `json:"weight" yaml:"weight"`
	Status  string `json:"status" yaml:"status"`
	Current bool   `json:"current" yaml:"current"`
	Anchor  int    `json:"anchor" yaml:"anchor"`
}

// DefinitionViewModel summarises a validated definition.
type DefinitionViewModel struct {
	File         string          `json:"file" yaml:"file"`
	Builtin      bool            `json:"builtin" yaml:"builtin"`
	APIVersion   string          `json:"apiVersion" yaml:"apiVersion"`
	Title        string          `json:"title,omitempty" yaml:"title,omitempty"`
	Modified     string          `json:"modified,omitempty" yaml:"modified,omitempty"`
	Age          string          `json:"age,omitempty" yaml:"age,omitempty"`
	Size         string          `json:"size,omitempty" yaml:"size,omitempty"`
	TotalWeight  int             `json:"totalWeight" yaml:"totalWeight"`
	MinimumWidth int             `json:"minimumWidth" yaml:"minimumWidth"`
	Steps        []StepViewModel `json:"steps" yaml:"steps"`
}

// StepsToViewModels describes the steps of b laid out width cells wide. Keys
// are taken from m, whose steps must be the ones b was built from.
func StepsToViewModels(m *manifest.Manifest, b *stepbar.Bar, width float64) []StepViewModel {
	width = max(width, b.MinimumWidth())
	anchors := b.Layout(width)
	steps := b.Steps()

	vms := make([]StepViewModel, len(steps))
	for i, s := range steps {
		vm := StepViewModel{
			Index:   i,
			Label:   s.Label,
			Weight:  s.Weight,
			Status:  s.Status.String(),
			Current: i == b.Active(),
			Anchor:  int(math.Round(anchors[i])),
		}
		if m != nil && i < len(m.Steps) {
			vm.Key = m.Steps[i].Key
		}
		vms[i] = vm
	}
	return vms
}

// DefinitionToViewModel converts a loaded definition for output. Size and
// modification time are only filled for definitions read from disk.
func DefinitionToViewModel(file string, modified time.Time, size int64, m *manifest.Manifest, b *stepbar.Bar) DefinitionViewModel {
	vm := DefinitionViewModel{
		File:         file,
		Builtin:      modified.IsZero(),
		APIVersion:   m.APIVersion,
		Title:        m.Title,
		MinimumWidth: int(math.Ceil(b.MinimumWidth())),
		Steps:        StepsToViewModels(m, b, 0),
	}
	for _, s := range b.Steps() {
		vm.TotalWeight += s.Weight
	}
	if !modified.IsZero() {
		vm.Modified = modified.Format(time.RFC3339)
		vm.Age = humanize.Time(modified)
		vm.Size = humanize.Bytes(uint64(max(size, 0)))
	}
	return vm
}

// StepRows converts view models into table rows.
func StepRows(vms []StepViewModel) []ui.Row {
	rows := make([]ui.Row, len(vms))
	for i, vm := range vms {
		current := ""
		if vm.Current {
			current = ui.CurrentMarker
		}
		rows[i] = ui.Row{
			"current": current,
			"index":   strconv.Itoa(vm.Index),
			"key":     vm.Key,
			"label":   vm.Label,
			"weight":  strconv.Itoa(vm.Weight),
			"status":  vm.Status,
			"anchor":  strconv.Itoa(vm.Anchor),
		}
	}
	return rows
}

// GetTableColumns returns the step table columns; detailed adds the weight
// and layout columns.
func GetTableColumns(detailed bool) []ui.Column {
	return []ui.Column{
		{
			Title:     " ",
			Key:       "current",
			Width:     1,
			StyleFunc: ui.GetCurrentStyle,
			Condition: true,
		},
		{
			Title: "#",
			Key:   "index",
			Width: 3,
			StyleFunc: func(value string) lipgloss.Style {
				return lipgloss.NewStyle().Foreground(lipgloss.Color(ui.ColorGray))
			},
			Condition: true,
		},
		{
			Title:    "KEY",
			Key:      "key",
			MinWidth: 6,
			MaxWidth: 20,
			StyleFunc: func(value string) lipgloss.Style {
				return lipgloss.NewStyle().Foreground(lipgloss.Color(ui.ColorBrightCyan))
			},
			Condition: true,
		},
		{
			Title:    "LABEL",
			Key:      "label",
			MinWidth: 10,
			MaxWidth: 40,
			StyleFunc: func(value string) lipgloss.Style {
				return lipgloss.NewStyle().Foreground(lipgloss.Color(ui.ColorBrightWhite))
			},
			Condition: true,
		},
		{
			Title:     "STATUS",
			Key:       "status",
			MinWidth:  8,
			MaxWidth:  10,
			StyleFunc: ui.GetStatusStyle,
			Condition: true,
		},
		{
			Title: "WEIGHT",
			Key:   "weight",
			Width: 6,
			StyleFunc: func(value string) lipgloss.Style {
				return lipgloss.NewStyle().Foreground(lipgloss.Color(ui.ColorGray))
			},
			Condition: detailed,
		},
		{
			Title: "ANCHOR",
			Key:   "anchor",
			Width: 6,
			StyleFunc: func(value string) lipgloss.Style {
				return lipgloss.NewStyle().Foreground(lipgloss.Color(ui.ColorGray))
			},
			Condition: detailed,
		},
	}
}

// ActivateStep selects the current step of b. The selector is a step key or
// a zero-based index; an empty selector leaves the bar untouched.
func ActivateStep(b *stepbar.Bar, selector string) error {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return nil
	}
	if index, ok := b.Index(selector); ok {
		b.ActivateIndex(index)
		return nil
	}
	index, err := cast.ToIntE(selector)
	if err != nil {
		return fmt.Errorf("unknown step %q: not a key or an index", selector)
	}
	if index < -1 || index > b.Len() {
		return fmt.Errorf("step index %d out of range [-1, %d]", index, b.Len())
	}
	b.ActivateIndex(index)
	return nil
}

// ApplyStatus sets the status of the current step from its name. An empty
// name leaves the bar untouched.
func ApplyStatus(b *stepbar.Bar, name string) error {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	status, err := stepbar.ParseStatus(name)
	if err != nil {
		return err
	}
	b.SetStatus(status)
	return nil
}

// WriteJSON writes v as indented JSON, highlighted when w is the terminal.
func WriteJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	colored, err := ColorizeJSONWithChroma(data)
	if err != nil {
		colored = string(data)
	}
	_, err = fmt.Fprintln(w, colored)
	return err
}

// ColorizeJSONWithChroma applies syntax highlighting to JSON using chroma
func ColorizeJSONWithChroma(data []byte) (string, error) {
	// Check if we're outputting to a terminal that supports colors
	if !ui.IsTerminal() {
		return string(data), nil
	}

	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}

	style := styles.Get("github")
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, string(data))
	if err != nil {
		return "", fmt.Errorf("failed to tokenize JSON: %w", err)
	}

	var result strings.Builder
	err = formatter.Format(&result, style, iterator)
	if err != nil {
		return "", fmt.Errorf("failed to format JSON: %w", err)
	}

	return result.String(), nil
}

// GetRuntime returns the runtime stored in the command context.
// This is a common utility function used across multiple commands.
func GetRuntime(ctx context.Context) (*runtime.Runtime, error) {
	rt := runtime.FromRuntime(ctx)
	if rt == nil {
		return nil, fmt.Errorf("runtime not initialized")
	}
	return rt, nil
}
