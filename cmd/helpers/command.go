package helpers

import (
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/zinc-sig/pyramid/cmd/config"
	"github.com/zinc-sig/pyramid/internal/fixtures"
	"github.com/zinc-sig/pyramid/internal/grading"
	"github.com/zinc-sig/pyramid/internal/sandbox"
)

// ParseTimeout parses and validates a timeout duration string
func ParseTimeout(timeoutStr string) (time.Duration, error) {
	if timeoutStr == "" {
		return 0, nil
	}

	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout duration: %w", err)
	}

	if timeout <= 0 {
		return 0, fmt.Errorf("timeout must be positive")
	}

	return timeout, nil
}

// ReadSource reads the submission from path, or from stdin when path is "-".
func ReadSource(path string, stdin io.Reader) (string, error) {
	if path == "" {
		return "", fmt.Errorf("required flag 'source' not set")
	}

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read source: %w", err)
	}
	return string(data), nil
}

// LoadCases returns the fixture file's cases, or the built-in set.
func LoadCases(path string) ([]grading.TestCase, error) {
	if path == "" {
		return fixtures.Default(), nil
	}
	cases, err := fixtures.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load test cases: %w", err)
	}
	return cases, nil
}

// NewGrader builds a grader over a C executor. The returned executor must be
// closed by the caller.
func NewGrader(cfg *config.GraderConfig, logger *zap.Logger, verbose io.Writer) (*grading.Grader, *sandbox.CExecutor, error) {
	timeout, err := ParseTimeout(cfg.TimeoutStr)
	if err != nil {
		return nil, nil, err
	}
	cfg.Timeout = timeout

	cases, err := LoadCases(cfg.Cases)
	if err != nil {
		return nil, nil, err
	}

	executor, err := sandbox.NewCExecutor(sandbox.Config{
		Compiler:  cfg.Compiler,
		CFlags:    cfg.CFlags,
		Timeout:   timeout,
		CacheSize: cfg.BuildCache,
		Logger:    logger,
		Verbose:   verbose,
	})
	if err != nil {
		return nil, nil, err
	}

	return grading.NewGrader(executor, cases, grading.WithLogger(logger)), executor, nil
}
