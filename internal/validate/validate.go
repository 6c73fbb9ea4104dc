// Package validate holds the pre-flight checks applied to user input before
// it is sent to the backend. Every validator returns a value; none panic.
package validate

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Limits shared by the task validators and the UI input widgets.
const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 1000
	MinPasswordLength    = 8
)

// Result collects every violated rule of a multi-field check
type Result struct {
	IsValid bool
	Errors  []string
}

// Err joins the violations into one error, or nil when valid
func (r Result) Err() error {
	if r.IsValid {
		return nil
	}
	errs := make([]error, 0, len(r.Errors))
	for _, msg := range r.Errors {
		errs = append(errs, errors.New(msg))
	}
	return errors.Join(errs...)
}

// String renders the violations on one line
func (r Result) String() string {
	return strings.Join(r.Errors, "; ")
}

// FieldResult is the outcome of a single-field check
type FieldResult struct {
	IsValid bool
	Error   string
}

func newResult(errs []string) Result {
	if len(errs) == 0 {
		return Result{IsValid: true, Errors: []string{}}
	}
	return Result{IsValid: false, Errors: errs}
}

func valid() FieldResult {
	return FieldResult{IsValid: true}
}

func invalid(format string, args ...any) FieldResult {
	return FieldResult{IsValid: false, Error: fmt.Sprintf(format, args...)}
}

// length counts characters, not bytes.
func length(s string) int {
	return utf8.RuneCountInString(s)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
