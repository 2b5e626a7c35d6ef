package prompt

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
)

// Form is a Prompter rendering each question as a huh field. It requires a
// terminal on stdin and stdout.
type Form struct{}

// Input implements Prompter.
func (f *Form) Input(title, def string) (string, error) {
	value := def
	err := huh.NewInput().
		Title(title).
		Placeholder(def).
		Value(&value).
		Run()
	if err != nil {
		return "", formErr(err)
	}
	if strings.TrimSpace(value) == "" {
		return def, nil
	}
	return strings.TrimSpace(value), nil
}

// Confirm implements Prompter.
func (f *Form) Confirm(title string, def bool) (bool, error) {
	value := def
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&value).
		Run()
	if err != nil {
		return false, formErr(err)
	}
	return value, nil
}

// Select implements Prompter.
func (f *Form) Select(title string, options []string, def string) (string, error) {
	value := def
	err := huh.NewSelect[string]().
		Title(title).
		Options(huh.NewOptions(options...)...).
		Value(&value).
		Run()
	if err != nil {
		return "", formErr(err)
	}
	return value, nil
}

func formErr(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrAborted
	}
	return err
}
