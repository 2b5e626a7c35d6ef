package branch

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/devstrap-labs/devstrap/internal/gittest"
	"github.com/devstrap-labs/devstrap/internal/prompt"
	"github.com/devstrap-labs/devstrap/internal/repo"
	"github.com/devstrap-labs/devstrap/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupPair clones a framework and an extension repository. The framework has
// branches develop and only-framework; the extension has develop.
func setupPair(t *testing.T) (framework, extension string) {
	t.Helper()
	ctx := context.Background()
	origins := t.TempDir()
	fwOrigin := gittest.Init(t, filepath.Join(origins, "framework"), "develop", "only-framework")
	extOrigin := gittest.Init(t, filepath.Join(origins, "extension"), "develop")

	work := t.TempDir()
	framework = filepath.Join(work, "framework")
	extension = filepath.Join(work, "extension")
	require.NoError(t, repo.Clone(ctx, fwOrigin, framework))
	require.NoError(t, repo.Clone(ctx, extOrigin, extension))
	return framework, extension
}

func newCoordinator(input string) (*Coordinator, *bytes.Buffer) {
	var diag bytes.Buffer
	return &Coordinator{
		Prompter:    prompt.NewLine(strings.NewReader(input), &bytes.Buffer{}),
		Out:         ui.New(&diag),
		MaxAttempts: 3,
	}, &diag
}

func TestSelectAcceptsCurrentBranch(t *testing.T) {
	fw, ext := setupPair(t)
	c, _ := newCoordinator("\n")

	got, err := c.Select(context.Background(), "", fw, ext)
	require.NoError(t, err)
	assert.Equal(t, "main", got)
}

func TestSelectRejectsUnknownAndReprompts(t *testing.T) {
	fw, ext := setupPair(t)
	c, diag := newCoordinator("n\nno-such-branch\nonly-framework\ndevelop\n")

	got, err := c.Select(context.Background(), "", fw, ext)
	require.NoError(t, err)
	assert.Equal(t, "develop", got)
	assert.Contains(t, diag.String(), `branch "no-such-branch" does not exist`)
	assert.Contains(t, diag.String(), `branch "only-framework" does not exist in extension`)
}

func TestSelectByNumber(t *testing.T) {
	fw, ext := setupPair(t)
	c, _ := newCoordinator("n\n1\n")

	got, err := c.Select(context.Background(), "", fw, ext)
	require.NoError(t, err)
	assert.Equal(t, "develop", got, "common branches are sorted: develop, main")
}

func TestSelectBounded(t *testing.T) {
	fw, ext := setupPair(t)
	c, _ := newCoordinator("n\nx\ny\nz\n")

	_, err := c.Select(context.Background(), "", fw, ext)
	assert.ErrorIs(t, err, prompt.ErrTooManyAttempts)
}

func TestSelectFixed(t *testing.T) {
	fw, ext := setupPair(t)
	c, _ := newCoordinator("")

	got, err := c.Select(context.Background(), "develop", fw, ext)
	require.NoError(t, err)
	assert.Equal(t, "develop", got)

	_, err = c.Select(context.Background(), "only-framework", fw, ext)
	assert.ErrorIs(t, err, ErrUnknownBranch)
}

func TestSelectCurrentMissingInExtension(t *testing.T) {
	fw, ext := setupPair(t)
	gittest.Git(t, fw, "checkout", "-q", "only-framework")
	c, diag := newCoordinator("develop\n")

	got, err := c.Select(context.Background(), "", fw, ext)
	require.NoError(t, err)
	assert.Equal(t, "develop", got)
	assert.Contains(t, diag.String(), `branch "only-framework" does not exist in extension`)
}

func TestSelectNoCommonBranch(t *testing.T) {
	ctx := context.Background()
	origins := t.TempDir()
	fwOrigin := gittest.Init(t, filepath.Join(origins, "framework"), "develop")
	extOrigin := gittest.Init(t, filepath.Join(origins, "extension"))
	gittest.Git(t, extOrigin, "branch", "-m", "main", "trunk")

	work := t.TempDir()
	fw := filepath.Join(work, "framework")
	ext := filepath.Join(work, "extension")
	require.NoError(t, repo.Clone(ctx, fwOrigin, fw))
	require.NoError(t, repo.Clone(ctx, extOrigin, ext))

	c, diag := newCoordinator("")
	_, err := c.Select(ctx, "", fw, ext)
	assert.ErrorIs(t, err, ErrNoCommonBranch)
	assert.Contains(t, diag.String(), `branch "main" does not exist in extension`)
}

func TestApplyChecksOutEveryRepository(t *testing.T) {
	fw, ext := setupPair(t)
	c, _ := newCoordinator("")
	ctx := context.Background()

	require.NoError(t, c.Apply(ctx, "develop", fw, ext))
	for _, dir := range []string{fw, ext} {
		current, err := repo.CurrentBranch(ctx, dir)
		require.NoError(t, err)
		assert.Equal(t, "develop", current, dir)
	}

	assert.Error(t, c.Apply(ctx, "only-framework", fw, ext))
}
