package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputDefaultAndValue(t *testing.T) {
	var out bytes.Buffer
	l := NewLine(strings.NewReader("\n/opt/sims\n"), &out)

	got, err := l.Input("Install root", "/home/dev")
	require.NoError(t, err)
	assert.Equal(t, "/home/dev", got)

	got, err = l.Input("Install root", "/home/dev")
	require.NoError(t, err)
	assert.Equal(t, "/opt/sims", got)

	assert.Contains(t, out.String(), "Install root [/home/dev]: ")
}

func TestInputFinalLineWithoutNewline(t *testing.T) {
	l := NewLine(strings.NewReader("main"), &bytes.Buffer{})
	got, err := l.Input("Branch", "")
	require.NoError(t, err)
	assert.Equal(t, "main", got)
}

func TestInputEOF(t *testing.T) {
	l := NewLine(strings.NewReader(""), &bytes.Buffer{})
	_, err := l.Input("Branch", "main")
	assert.ErrorIs(t, err, ErrNoInput)
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		def   bool
		want  bool
	}{
		{"empty takes default no", "\n", false, false},
		{"empty takes default yes", "\n", true, true},
		{"y", "y\n", false, true},
		{"YES", "YES\n", false, true},
		{"no", "no\n", true, false},
		{"invalid then yes", "maybe\ny\n", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLine(strings.NewReader(tt.input), &bytes.Buffer{})
			got, err := l.Confirm("Continue?", tt.def)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfirmBounded(t *testing.T) {
	l := NewLine(strings.NewReader("a\nb\nc\n"), &bytes.Buffer{})
	l.ConfirmAttempts = 3
	_, err := l.Confirm("Continue?", false)
	assert.ErrorIs(t, err, ErrTooManyAttempts)
}

func TestSelect(t *testing.T) {
	options := []string{"main", "develop", "release-1.0"}

	var out bytes.Buffer
	l := NewLine(strings.NewReader("2\nfeature-x\n\n9\n"), &out)

	got, err := l.Select("Branches:", options, "main")
	require.NoError(t, err)
	assert.Equal(t, "develop", got)

	got, err = l.Select("Branches:", options, "main")
	require.NoError(t, err)
	assert.Equal(t, "feature-x", got, "free text is passed through")

	got, err = l.Select("Branches:", options, "main")
	require.NoError(t, err)
	assert.Equal(t, "main", got, "empty answer takes the default")

	got, err = l.Select("Branches:", options, "main")
	require.NoError(t, err)
	assert.Equal(t, "9", got, "out-of-range numbers are returned verbatim")

	assert.Contains(t, out.String(), "  3) release-1.0")
}

func TestNewPicksLineForNonTerminals(t *testing.T) {
	p := New(strings.NewReader(""), &bytes.Buffer{})
	_, ok := p.(*Line)
	assert.True(t, ok, "expected *Line for non-terminal streams, got %T", p)
}
