package branch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/devstrap-labs/devstrap/internal/prompt"
	"github.com/devstrap-labs/devstrap/internal/repo"
	"github.com/devstrap-labs/devstrap/internal/ui"
)

var (
	// ErrUnknownBranch is returned when a requested branch is missing from
	// at least one repository.
	ErrUnknownBranch = errors.New("branch not found")
	// ErrNoCommonBranch is returned when the repositories share no branch.
	ErrNoCommonBranch = errors.New("repositories have no branch in common")
)

// Coordinator selects and applies a branch across repositories.
type Coordinator struct {
	Prompter    prompt.Prompter
	Out         *ui.Printer
	MaxAttempts int
}

// Select returns the branch to use for primary and others. A non-empty fixed
// branch is validated without prompting. Otherwise the primary repository's
// current branch is offered; if declined, the branches common to all
// repositories are listed and the user is asked until a branch present in
// every repository is named.
func (c *Coordinator) Select(ctx context.Context, fixed, primary string, others ...string) (string, error) {
	dirs := append([]string{primary}, others...)

	if fixed != "" {
		if missing := missingIn(ctx, fixed, dirs); len(missing) > 0 {
			return "", fmt.Errorf("%q in %s: %w", fixed, strings.Join(missing, ", "), ErrUnknownBranch)
		}
		return fixed, nil
	}

	current, err := repo.CurrentBranch(ctx, primary)
	if err != nil {
		c.Out.Warn("could not read current branch of %s: %v", primary, err)
		current = ""
	}

	if current != "" {
		missing := missingIn(ctx, current, dirs)
		if len(missing) == 0 {
			use, err := c.Prompter.Confirm(fmt.Sprintf("Use branch %q in both repositories?", current), true)
			if err != nil {
				return "", fmt.Errorf("confirming branch: %w", err)
			}
			if use {
				return current, nil
			}
		} else {
			c.Out.Warn("branch %q does not exist in %s", current, strings.Join(missing, ", "))
		}
	}

	common, err := commonBranches(ctx, dirs)
	if err != nil {
		return "", err
	}
	if len(common) == 0 {
		return "", ErrNoCommonBranch
	}

	def := ""
	for _, b := range common {
		if b == current {
			def = current
			break
		}
	}

	attempts := c.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		answer, err := c.Prompter.Select("Branches available in both repositories:", common, def)
		if err != nil {
			return "", fmt.Errorf("selecting branch: %w", err)
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			c.Out.Warn("a branch name is required")
			continue
		}
		if missing := missingIn(ctx, answer, dirs); len(missing) > 0 {
			c.Out.Warn("branch %q does not exist in %s", answer, strings.Join(missing, ", "))
			continue
		}
		return answer, nil
	}
	return "", fmt.Errorf("selecting branch: %w", prompt.ErrTooManyAttempts)
}

// Apply checks out branch in every directory, in order, stopping at the
// first failure.
func (c *Coordinator) Apply(ctx context.Context, branch string, dirs ...string) error {
	for _, dir := range dirs {
		if err := repo.Checkout(ctx, dir, branch); err != nil {
			return fmt.Errorf("checking out %q in %s: %w", branch, dir, err)
		}
		c.Out.OK("%s on %s", filepath.Base(dir), branch)
	}
	return nil
}

func missingIn(ctx context.Context, ref string, dirs []string) []string {
	var missing []string
	for _, dir := range dirs {
		if !repo.RefExists(ctx, dir, ref) {
			missing = append(missing, filepath.Base(dir))
		}
	}
	return missing
}

// commonBranches returns the primary repository's branches that also exist
// in every other repository, in the primary's order.
func commonBranches(ctx context.Context, dirs []string) ([]string, error) {
	branches, err := repo.Branches(ctx, dirs[0])
	if err != nil {
		return nil, fmt.Errorf("listing branches of %s: %w", dirs[0], err)
	}

	var common []string
	for _, b := range branches {
		if len(missingIn(ctx, b, dirs[1:])) == 0 {
			common = append(common, b)
		}
	}
	return common, nil
}
