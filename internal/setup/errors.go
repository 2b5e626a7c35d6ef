package setup

import (
	"errors"
	"fmt"
)

// Step names a stage of the setup sequence that can fail.
type Step string

const (
	StepFramework Step = "framework"
	StepExtension Step = "extension"
	StepClone     Step = "clone"
	StepCheckout  Step = "checkout"
	StepLink      Step = "link"
	StepRegister  Step = "register"
	StepBuild     Step = "build"
	StepTest      Step = "test"
)

// Sentinels matched with errors.Is against a *StepError.
var (
	ErrCloneFailed    = errors.New("clone failed")
	ErrCheckoutFailed = errors.New("checkout failed")
	ErrLinkFailed     = errors.New("link failed")
	ErrRegisterFailed = errors.New("registration failed")
	ErrBuildFailed    = errors.New("build failed")
	ErrTestFailed     = errors.New("tests failed")
)

var stepSentinels = map[Step]error{
	StepClone:    ErrCloneFailed,
	StepCheckout: ErrCheckoutFailed,
	StepLink:     ErrLinkFailed,
	StepRegister: ErrRegisterFailed,
	StepBuild:    ErrBuildFailed,
	StepTest:     ErrTestFailed,
}

// StepError reports which step failed, on what, and where its log is.
type StepError struct {
	Step    Step
	Target  string // repository, path or command the step acted on
	LogPath string // set for build and test failures
	Err     error
}

func (e *StepError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Step, e.Target, e.Err)
	if e.LogPath != "" {
		msg += fmt.Sprintf(" (see %s)", e.LogPath)
	}
	return msg
}

// Unwrap exposes both the step's sentinel and the underlying cause.
func (e *StepError) Unwrap() []error {
	if sentinel, ok := stepSentinels[e.Step]; ok {
		return []error{sentinel, e.Err}
	}
	return []error{e.Err}
}
