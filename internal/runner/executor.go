// Package runner executes a single process with piped stdin and captured
// output, enforcing an optional wall-clock timeout.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
	"time"
)

// Status is the outcome of a process run.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusTimeout Status = "timeout"
)

// DefaultMaxOutput caps captured stdout and stderr.
const DefaultMaxOutput = 1 << 20

type Config struct {
	Command   string
	Args      []string
	Stdin     string
	Dir       string
	Env       []string
	Timeout   time.Duration
	MaxOutput int // bytes per stream, DefaultMaxOutput when zero
}

type Result struct {
	Command       string
	Status        Status
	ExitCode      int
	Signal        string // set when the process was killed by a signal
	Stdout        string
	Stderr        string
	Truncated     bool
	ExecutionTime int64 // milliseconds
}

// FullCommand renders the command line for logs.
func (c *Config) FullCommand() string {
	if len(c.Args) == 0 {
		return c.Command
	}
	return c.Command + " " + strings.Join(c.Args, " ")
}

// Execute runs the configured command to completion.
//
// A non-zero exit is not an error: it is reported through Status and
// ExitCode. An error is returned only when the process cannot be started.
// On timeout the process is killed and ExitCode is -1.
func Execute(ctx context.Context, config *Config) (*Result, error) {
	if config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}

	limit := config.MaxOutput
	if limit <= 0 {
		limit = DefaultMaxOutput
	}
	stdout := &limitedBuffer{limit: limit}
	stderr := &limitedBuffer{limit: limit}

	cmd := exec.CommandContext(ctx, config.Command, config.Args...)
	cmd.Stdin = strings.NewReader(config.Stdin)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.Dir = config.Dir
	if len(config.Env) > 0 {
		cmd.Env = config.Env
	}
	// Without a bounded wait, a grandchild holding the pipes open would keep
	// Wait blocked after the kill.
	cmd.WaitDelay = 500 * time.Millisecond

	startTime := time.Now()
	err := cmd.Run()
	executionTime := time.Since(startTime).Milliseconds()

	result := &Result{
		Command:       config.FullCommand(),
		Status:        StatusSuccess,
		Stdout:        stdout.String(),
		Stderr:        stderr.String(),
		Truncated:     stdout.truncated || stderr.truncated,
		ExecutionTime: executionTime,
	}

	if ctx.Err() == context.DeadlineExceeded {
		result.Status = StatusTimeout
		result.ExitCode = -1
		return result, nil
	}

	if err != nil {
		var exitError *exec.ExitError
		if !errors.As(err, &exitError) {
			if errors.Is(err, exec.ErrWaitDelay) {
				return result, nil
			}
			return nil, fmt.Errorf("failed to start command: %w", err)
		}

		result.Status = StatusFailed
		result.ExitCode = 1
		if status, ok := exitError.Sys().(syscall.WaitStatus); ok {
			result.ExitCode = status.ExitStatus()
			if status.Signaled() {
				result.Signal = status.Signal().String()
			}
		}
	}

	return result, nil
}

// limitedBuffer keeps the first limit bytes written and drops the rest.
type limitedBuffer struct {
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	room := b.limit - b.buf.Len()
	if room <= 0 {
		b.truncated = b.truncated || len(p) > 0
		return len(p), nil
	}
	if len(p) > room {
		b.buf.Write(p[:room])
		b.truncated = true
		return len(p), nil
	}
	return b.buf.Write(p)
}

func (b *limitedBuffer) String() string {
	return b.buf.String()
}
