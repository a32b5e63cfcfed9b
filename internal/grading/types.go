// Package grading runs a submission against pyramid test cases and turns
// the verdicts into a score and feedback.
package grading

import (
	"context"
	"strings"

	"github.com/zinc-sig/pyramid/internal/shape"
)

// TestCase is one fixed input/expected-shape pair.
type TestCase struct {
	Name       string   `json:"name" yaml:"name"`
	Stdin      []string `json:"stdin" yaml:"stdin"`
	Size       int      `json:"size,omitempty" yaml:"size"`
	Expected   []string `json:"expected" yaml:"expected"`
	Points     float64  `json:"points" yaml:"points"`
	Robustness bool     `json:"robustness,omitempty" yaml:"robustness"`
}

// Script returns the stdin fed to the program: one token per line.
func (c TestCase) Script() string {
	if len(c.Stdin) == 0 {
		return ""
	}
	return strings.Join(c.Stdin, "\n") + "\n"
}

// ExecutionResult is what an Executor reports for a single run.
type ExecutionResult struct {
	Succeeded  bool   `json:"succeeded"`
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
	Diagnostic string `json:"diagnostic,omitempty"`
}

// Executor compiles or interprets source and runs it with the given stdin.
//
// Implementations enforce their own time ceiling and must return a failed
// result rather than block forever. A returned error is treated the same as
// a failed result.
type Executor interface {
	Execute(ctx context.Context, source, stdin string) (ExecutionResult, error)
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, source, stdin string) (ExecutionResult, error)

func (f ExecutorFunc) Execute(ctx context.Context, source, stdin string) (ExecutionResult, error) {
	return f(ctx, source, stdin)
}

// Verdict is the outcome of a single test case.
type Verdict struct {
	Case            TestCase           `json:"case"`
	Passed          bool               `json:"passed"`
	Actual          []string           `json:"actual"`
	Diagnostic      string             `json:"diagnostic"`
	Mismatch        shape.MismatchKind `json:"mismatch,omitempty"`
	ExecutionFailed bool               `json:"execution_failed,omitempty"`
}

// executionFailed reports whether the run never got past the first case.
func executionFailed(verdicts []Verdict) bool {
	return len(verdicts) > 0 && verdicts[0].ExecutionFailed
}
