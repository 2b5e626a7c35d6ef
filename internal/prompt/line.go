package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// defaultConfirmAttempts bounds how often an unrecognised y/n answer is re-asked.
const defaultConfirmAttempts = 5

// Line is a Prompter that reads one answer per line.
type Line struct {
	r *bufio.Reader
	w io.Writer

	// ConfirmAttempts bounds re-asking after unrecognised y/n answers.
	ConfirmAttempts int
}

// NewLine returns a Line prompter reading from r and writing questions to w.
func NewLine(r io.Reader, w io.Writer) *Line {
	return &Line{
		r:               bufio.NewReader(r),
		w:               w,
		ConfirmAttempts: defaultConfirmAttempts,
	}
}

// readLine returns the next trimmed line. A final line without a newline is
// still returned; EOF with nothing read is ErrNoInput.
func (l *Line) readLine() (string, error) {
	line, err := l.r.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimSpace(line), nil
		}
		if err == io.EOF {
			return "", ErrNoInput
		}
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Input implements Prompter.
func (l *Line) Input(title, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(l.w, "%s [%s]: ", title, def)
	} else {
		fmt.Fprintf(l.w, "%s: ", title)
	}

	answer, err := l.readLine()
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Confirm implements Prompter.
func (l *Line) Confirm(title string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}

	attempts := l.ConfirmAttempts
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		fmt.Fprintf(l.w, "%s [%s]: ", title, hint)
		answer, err := l.readLine()
		if err != nil {
			return false, err
		}
		if yes, ok := parseYesNo(answer, def); ok {
			return yes, nil
		}
		fmt.Fprintln(l.w, "Please answer y or n.")
	}
	return false, ErrTooManyAttempts
}

// Select implements Prompter. The answer may be a list number or free text.
func (l *Line) Select(title string, options []string, def string) (string, error) {
	fmt.Fprintf(l.w, "%s\n", title)
	for i, opt := range options {
		fmt.Fprintf(l.w, "  %d) %s\n", i+1, opt)
	}

	answer, err := l.Input("Enter a number or name", def)
	if err != nil {
		return "", err
	}
	if n, convErr := strconv.Atoi(answer); convErr == nil && n >= 1 && n <= len(options) {
		return options[n-1], nil
	}
	return answer, nil
}

func parseYesNo(answer string, def bool) (yes bool, ok bool) {
	switch strings.ToLower(answer) {
	case "":
		return def, true
	case "y", "yes":
		return true, true
	case "n", "no":
		return false, true
	default:
		return false, false
	}
}
