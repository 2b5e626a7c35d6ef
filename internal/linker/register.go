package linker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/devstrap-labs/devstrap/internal/platform"
	"github.com/gofrs/flock"
)

// lockTimeout is how long Register waits for the config file lock.
const lockTimeout = 5 * time.Second

// Registration describes what Register did.
type Registration int

const (
	// Created means the config file did not exist and was written with a
	// single registration line.
	Created Registration = iota
	// Appended means the key was missing and a new line was added.
	Appended
	// Extended means the key existed and the value was added to its list.
	Extended
	// AlreadyRegistered means the value was already listed; nothing changed.
	AlreadyRegistered
)

func (r Registration) String() string {
	switch r {
	case Created:
		return "created"
	case Appended:
		return "appended"
	case Extended:
		return "extended"
	case AlreadyRegistered:
		return "already registered"
	default:
		return "unknown"
	}
}

// entry is one KEY=VALUE line in the config file.
type entry struct {
	line   int // index into file lines
	export bool
	quote  byte   // quote character around the value, 0 if unquoted
	raw    string // value as written, without the surrounding quotes
	key    string
	values []string
}

// parseEntries returns the KEY=VALUE lines of a config file. Blank lines,
// comments and lines without '=' are skipped but keep their position.
func parseEntries(lines []string, sep string) []entry {
	var entries []entry
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		export := false
		if rest, ok := strings.CutPrefix(line, "export "); ok {
			export = true
			line = strings.TrimSpace(rest)
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		raw, quote := stripQuotes(strings.TrimSpace(value))
		entries = append(entries, entry{
			line:   i,
			export: export,
			quote:  quote,
			raw:    raw,
			key:    strings.TrimSpace(key),
			values: splitList(decode(raw, quote), sep),
		})
	}
	return entries
}

func stripQuotes(v string) (string, byte) {
	if len(v) < 2 || (v[0] != '"' && v[0] != '\'') || v[len(v)-1] != v[0] {
		return v, 0
	}
	return v[1 : len(v)-1], v[0]
}

var (
	doubleQuoteEscaper   = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "$", `\$`, "`", "\\`")
	doubleQuoteUnescaper = strings.NewReplacer(`\\`, `\`, `\"`, `"`, `\$`, `$`, "\\`", "`")
)

// shellSpecial lists characters that end or alter an unquoted assignment
// value when the file is sourced.
const shellSpecial = " \t;&|<>()$`\"'\\"

func decode(raw string, quote byte) string {
	switch quote {
	case '"':
		return doubleQuoteUnescaper.Replace(raw)
	case '\'':
		return strings.ReplaceAll(raw, `'\''`, "'")
	default:
		return raw
	}
}

func encode(value string, quote byte) string {
	switch quote {
	case '"':
		return doubleQuoteEscaper.Replace(value)
	case '\'':
		return strings.ReplaceAll(value, "'", `'\''`)
	default:
		return value
	}
}

func splitList(v, sep string) []string {
	var out []string
	for _, part := range strings.Split(v, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (e entry) has(value string) bool {
	want := filepath.Clean(value)
	for _, v := range e.values {
		if filepath.Clean(v) == want {
			return true
		}
	}
	return false
}

// withValue renders the entry with value appended to its list. Existing
// text is kept as written; only the new value is escaped for the entry's
// quoting. An unquoted entry that would need quoting gets double quotes.
func (e entry) withValue(value, sep string) string {
	join := ""
	if strings.TrimSpace(e.raw) != "" {
		join = sep
	}
	quote := e.quote
	if quote == 0 && strings.ContainsAny(join+value, shellSpecial) {
		quote = '"'
	}
	inner := e.raw + join + encode(value, quote)
	if quote != 0 {
		inner = string(quote) + inner + string(quote)
	}

	prefix := ""
	if e.export {
		prefix = "export "
	}
	return prefix + e.key + "=" + inner
}

// Registry is one list-valued key in a KEY=VALUE config file.
type Registry struct {
	Path      string
	Key       string
	Separator string // list separator; empty means os.PathListSeparator
}

func (r Registry) sep() string {
	if r.Separator == "" {
		return string(os.PathListSeparator)
	}
	return r.Separator
}

// IsRegistered reports whether value is listed under key in the config file.
// A missing file is not an error.
func IsRegistered(configPath, key, value string) (bool, error) {
	return Registry{Path: configPath, Key: key}.IsRegistered(value)
}

// Register records value under key in the config file at configPath using
// the OS path list separator. See Registry.Register.
func Register(configPath, key, value string) (Registration, error) {
	return Registry{Path: configPath, Key: key}.Register(value)
}

// IsRegistered reports whether value is listed under the registry's key.
// A missing file is not an error.
func (r Registry) IsRegistered(value string) (bool, error) {
	lines, err := readLines(r.Path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	for _, e := range parseEntries(lines, r.sep()) {
		if e.key == r.Key && e.has(value) {
			return true, nil
		}
	}
	return false, nil
}

// Register records value under the registry's key: a missing file is
// created with the single line KEY=value, a missing key gets a new line, and
// an existing key gets value added to its list unless it is already there.
// The file is edited under an advisory lock. A config file that is a symlink
// is edited through the link.
func (r Registry) Register(value string) (Registration, error) {
	if r.Key == "" || value == "" {
		return 0, fmt.Errorf("registration needs a key and a value")
	}
	sep := r.sep()

	path, err := resolvePath(r.Path)
	if err != nil {
		return 0, err
	}

	lock, err := lockFile(path)
	if err != nil {
		return 0, err
	}
	defer lock.Unlock()

	lines, err := readLines(path)
	if os.IsNotExist(err) {
		line := entry{key: r.Key}.withValue(value, sep)
		if err := writeLines(path, []string{line}, 0644); err != nil {
			return 0, err
		}
		return Created, nil
	}
	if err != nil {
		return 0, err
	}

	var last *entry
	for _, e := range parseEntries(lines, sep) {
		if e.key != r.Key {
			continue
		}
		if e.has(value) {
			return AlreadyRegistered, nil
		}
		last = &e
	}

	result := Appended
	if last != nil {
		lines[last.line] = last.withValue(value, sep)
		result = Extended
	} else {
		lines = append(lines, entry{key: r.Key}.withValue(value, sep))
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := writeLines(path, lines, mode); err != nil {
		return 0, err
	}
	return result, nil
}

// resolvePath follows symlinks so the rename in writeLines replaces the
// link's target, not the link. A missing file resolves to itself.
func resolvePath(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved, nil
	}
	if !os.IsNotExist(err) {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	// A dangling link: write to where it points.
	if target, linkErr := os.Readlink(path); linkErr == nil {
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(path), target)
		}
		return target, nil
	}
	return path, nil
}

func lockFile(configPath string) (*flock.Flock, error) {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	lock := flock.New(configPath + ".lock")
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	locked, err := lock.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("acquiring lock on %s: %w", configPath, err)
	}
	if !locked {
		return nil, fmt.Errorf("timeout waiting for lock on %s", configPath)
	}
	return lock, nil
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSuffix(string(data), "\n")
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}

// writeLines replaces path atomically with lines, newline-terminated.
func writeLines(path string, lines []string, mode os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	content := strings.Join(lines, "\n") + "\n"
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := platform.SetMode(tmpName, mode); err != nil {
		return fmt.Errorf("setting mode on %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
