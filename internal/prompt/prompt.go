package prompt

import (
	"errors"
	"io"
	"os"

	"golang.org/x/term"
)

var (
	// ErrNoInput is returned when input ends before an answer was given.
	ErrNoInput = errors.New("no input")
	// ErrAborted is returned when the user cancels a form.
	ErrAborted = errors.New("aborted by user")
	// ErrTooManyAttempts is returned when a bounded validation loop runs out
	// of attempts.
	ErrTooManyAttempts = errors.New("too many invalid attempts")
)

// Prompter asks the user questions. Empty answers select the default.
type Prompter interface {
	// Input asks for free text.
	Input(title, def string) (string, error)
	// Confirm asks a yes/no question.
	Confirm(title string, def bool) (bool, error)
	// Select offers options; implementations may also accept free text.
	Select(title string, options []string, def string) (string, error)
}

// New returns a Form prompter when both in and out are terminals and a Line
// prompter otherwise.
func New(in io.Reader, out io.Writer) Prompter {
	if isTerminal(in) && isTerminal(out) {
		return &Form{}
	}
	return NewLine(in, out)
}

func isTerminal(v interface{}) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
