package paths

import (
	"fmt"

	"github.com/devstrap-labs/devstrap/internal/prompt"
	"github.com/devstrap-labs/devstrap/internal/ui"
)

// Resolver asks for an install root until a valid one is given.
type Resolver struct {
	Prompter    prompt.Prompter
	Out         *ui.Printer
	MaxAttempts int
}

// Resolve prompts for the directory to install what into, offering
// defaultRoot. Invalid roots are reported and re-asked at most MaxAttempts
// times. It returns the absolute path root/name.
func (r *Resolver) Resolve(what, defaultRoot, name string) (string, error) {
	attempts := r.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	title := fmt.Sprintf("Directory to install the %s into", what)
	for i := 0; i < attempts; i++ {
		root, err := r.Prompter.Input(title, defaultRoot)
		if err != nil {
			return "", fmt.Errorf("reading %s directory: %w", what, err)
		}

		target, err := ValidateTarget(root, name)
		if err != nil {
			r.Out.Warn("%v", err)
			continue
		}
		return target, nil
	}
	return "", fmt.Errorf("resolving %s directory: %w", what, prompt.ErrTooManyAttempts)
}
