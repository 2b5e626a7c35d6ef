package repo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
)

var (
	// ErrGitNotFound is returned when git is not on PATH.
	ErrGitNotFound = errors.New("git is required but not found in PATH")
	// ErrDetachedHead is returned by CurrentBranch when HEAD is not a branch.
	ErrDetachedHead = errors.New("HEAD is detached")
)

// EnsureGit checks that git is available on PATH.
func EnsureGit() error {
	if _, err := exec.LookPath("git"); err != nil {
		return ErrGitNotFound
	}
	return nil
}

// run executes git in dir and returns trimmed stdout. On failure the error
// includes stderr.
func run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
		}
		return "", fmt.Errorf("git %s: %w\n%s", strings.Join(args, " "), err, msg)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Clone clones url into dest. dest must not exist; a partial clone is
// removed on failure.
func Clone(ctx context.Context, url, dest string) error {
	if err := EnsureGit(); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, "git", "clone", url, dest)
	output, err := cmd.CombinedOutput()
	if err != nil {
		_ = os.RemoveAll(dest)
		return fmt.Errorf("git clone %s: %w\n%s", url, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// CurrentBranch returns the branch checked out in dir.
func CurrentBranch(ctx context.Context, dir string) (string, error) {
	branch, err := run(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	if branch == "HEAD" {
		return "", ErrDetachedHead
	}
	return branch, nil
}

// Branches returns the local branches and origin's remote branches in dir,
// without the origin/ prefix, de-duplicated and sorted.
func Branches(ctx context.Context, dir string) ([]string, error) {
	out, err := run(ctx, dir, "for-each-ref", "--format=%(refname)", "refs/heads", "refs/remotes/origin")
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var branches []string
	for _, ref := range strings.Split(out, "\n") {
		var name string
		switch {
		case strings.HasPrefix(ref, "refs/heads/"):
			name = strings.TrimPrefix(ref, "refs/heads/")
		case strings.HasPrefix(ref, "refs/remotes/origin/"):
			name = strings.TrimPrefix(ref, "refs/remotes/origin/")
		}
		if name == "" || name == "HEAD" || seen[name] {
			continue
		}
		seen[name] = true
		branches = append(branches, name)
	}
	sort.Strings(branches)
	return branches, nil
}

// RefExists reports whether ref names a local branch, a branch on origin or
// a tag in dir.
func RefExists(ctx context.Context, dir, ref string) bool {
	if ref == "" {
		return false
	}
	for _, full := range []string{"refs/heads/" + ref, "refs/remotes/origin/" + ref, "refs/tags/" + ref} {
		if _, err := run(ctx, dir, "show-ref", "--verify", "--quiet", full); err == nil {
			return true
		}
	}
	return false
}

// Checkout checks out ref in dir. A branch that only exists on origin gets a
// local tracking branch.
func Checkout(ctx context.Context, dir, ref string) error {
	if _, err := run(ctx, dir, "checkout", ref); err != nil {
		return err
	}
	return nil
}

// Version returns the output of `git --version` without the "git version"
// prefix (e.g. "2.43.0").
func Version(ctx context.Context) (string, error) {
	if err := EnsureGit(); err != nil {
		return "", err
	}
	out, err := run(ctx, "", "--version")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.TrimPrefix(out, "git version")), nil
}
