package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Log file names written inside the extension directory.
const (
	BuildLog = "build.log"
	TestLog  = "test.log"
)

// ErrToolNotFound is returned when the build tool is not on PATH.
var ErrToolNotFound = errors.New("build tool not found in PATH")

// Job describes one invocation of the build tool.
type Job struct {
	Name    string // "build" or "test"; used in the log header
	Dir     string
	Tool    string
	Args    []string
	Env     map[string]string // added to the inherited environment
	LogPath string
}

// Result is the outcome of a job that started.
type Result struct {
	RunID    string
	ExitCode int
	LogPath  string
	Duration time.Duration
}

// OK reports whether the job exited with status 0.
func (r *Result) OK() bool { return r.ExitCode == 0 }

// Run executes job with combined stdout and stderr written to job.LogPath,
// which is truncated first. A non-zero exit status is reported in the
// Result; an error means the job could not be run at all or was stopped
// because ctx ended.
func Run(ctx context.Context, job Job) (*Result, error) {
	toolPath, err := exec.LookPath(job.Tool)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", job.Tool, ErrToolNotFound)
	}

	if err := os.MkdirAll(filepath.Dir(job.LogPath), 0755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	logFile, err := os.Create(job.LogPath)
	if err != nil {
		return nil, fmt.Errorf("creating log file %s: %w", job.LogPath, err)
	}
	defer logFile.Close()

	res := &Result{RunID: uuid.NewString(), LogPath: job.LogPath}
	writeHeader(logFile, job, res.RunID)

	cmd := exec.CommandContext(ctx, toolPath, job.Args...)
	cmd.Dir = job.Dir
	cmd.Env = environ(job.Env)
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	start := time.Now()
	err = cmd.Run()
	res.Duration = time.Since(start)

	// A tool killed because ctx ended has no meaningful exit status.
	if ctxErr := ctx.Err(); ctxErr != nil {
		fmt.Fprintf(logFile, "\n# interrupted after %s: %v\n", res.Duration.Round(time.Millisecond), ctxErr)
		return nil, fmt.Errorf("running %s %s: %w", job.Tool, job.Name, ctxErr)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			fmt.Fprintf(logFile, "\n# exit status %d after %s\n", res.ExitCode, res.Duration.Round(time.Millisecond))
			return res, nil
		}
		return nil, fmt.Errorf("running %s %s: %w", job.Tool, job.Name, err)
	}

	fmt.Fprintf(logFile, "\n# exit status 0 after %s\n", res.Duration.Round(time.Millisecond))
	return res, nil
}

func writeHeader(f *os.File, job Job, runID string) {
	fmt.Fprintf(f, "# %s run %s at %s\n", job.Name, runID, time.Now().Format(time.RFC3339))
	fmt.Fprintf(f, "# dir: %s\n", job.Dir)
	fmt.Fprintf(f, "# command: %s\n", strings.Join(append([]string{job.Tool}, job.Args...), " "))

	keys := make([]string, 0, len(job.Env))
	for k := range job.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(f, "# env: %s=%s\n", k, job.Env[k])
	}
	fmt.Fprintln(f)
}

// environ returns the process environment with extra set or replaced.
func environ(extra map[string]string) []string {
	env := os.Environ()
	for k, v := range extra {
		env = setEnv(env, k, v)
	}
	return env
}

// setEnv sets or replaces an environment variable in the env slice.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}
