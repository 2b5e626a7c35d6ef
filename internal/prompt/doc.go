// Package prompt reads answers from the user. Line is a plain
// question-and-answer prompter over any reader/writer pair and is what tests
// and piped input use; Form renders the same questions with charmbracelet/huh
// when attached to a terminal.
package prompt
