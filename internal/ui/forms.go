// Package ui provides the styled output and the huh forms used by the
// init wizard.
package ui

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// formLines is the height of the multi-line step list editor.
const formLines = 6

// NewWizardForm wraps groups in a form with the wizard's theme and key help.
func NewWizardForm(groups ...*huh.Group) *huh.Form {
	return huh.NewForm(groups...).
		WithTheme(huh.ThemeCharm()).
		WithShowHelp(true)
}

// CreateInputGroup asks for a single line, e.g. the wizard title or a colour.
func CreateInputGroup(title, placeholder, description string, validator func(string) error, value *string) *huh.Group {
	input := huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Description(description).
		Value(value)

	if validator != nil {
		input.Validate(validator)
	}

	return huh.NewGroup(input)
}

// CreateConfirmGroup asks a yes/no question such as overwriting a definition.
func CreateConfirmGroup(title, description, affirmative, negative string, value *bool) *huh.Group {
	return huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Description(description).
			Affirmative(affirmative).
			Negative(negative).
			Value(value),
	)
}

// CreateSelectGroup picks one option, e.g. a theme preset.
func CreateSelectGroup(title, description string, options []huh.Option[string], value *string) *huh.Group {
	return huh.NewGroup(
		huh.NewSelect[string]().
			Title(title).
			Description(description).
			Options(options...).
			Value(value),
	)
}

// CreateMultiSelectGroup picks any number of options, e.g. built-in steps.
func CreateMultiSelectGroup(title, description string, options []huh.Option[string], value *[]string) *huh.Group {
	return huh.NewGroup(
		huh.NewMultiSelect[string]().
			Title(title).
			Description(description).
			Options(options...).
			Value(value),
	)
}

// CreateNoteGroup shows read-only text such as the definition summary.
func CreateNoteGroup(title, description string) *huh.Group {
	return huh.NewGroup(
		huh.NewNote().
			Title(title).
			Description(description),
	)
}

// CreateTextGroup edits a step list, one "Label" or "Label:weight" per line.
func CreateTextGroup(title, placeholder, description string, validator func(string) error, value *string) *huh.Group {
	text := huh.NewText().
		Title(title).
		Placeholder(placeholder).
		Description(description).
		Lines(formLines).
		Value(value)

	if validator != nil {
		text.Validate(validator)
	}

	return huh.NewGroup(text)
}

func CreateInputForm(title, placeholder, description string, validator func(string) error, value *string) *huh.Form {
	return NewWizardForm(CreateInputGroup(title, placeholder, description, validator, value))
}

func CreateConfirmForm(title, description, affirmative, negative string, value *bool) *huh.Form {
	return NewWizardForm(CreateConfirmGroup(title, description, affirmative, negative, value))
}

func CreateSelectForm(title, description string, options []huh.Option[string], value *string) *huh.Form {
	return NewWizardForm(CreateSelectGroup(title, description, options, value))
}

func CreateMultiSelectForm(title, description string, options []huh.Option[string], value *[]string) *huh.Form {
	return NewWizardForm(CreateMultiSelectGroup(title, description, options, value))
}

func CreateTextForm(title, placeholder, description string, validator func(string) error, value *string) *huh.Form {
	return NewWizardForm(CreateTextGroup(title, placeholder, description, validator, value))
}

// CollectWithForm runs form and prefixes its error with errorMsg. A user
// abort surfaces as huh.ErrUserAborted.
func CollectWithForm(form *huh.Form, errorMsg string) error {
	if err := form.Run(); err != nil {
		return fmt.Errorf("%s: %w", errorMsg, err)
	}
	return nil
}
