// Package sandbox compiles C submissions and runs them through the process
// runner.
package sandbox

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang/groupcache/lru"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/zinc-sig/pyramid/internal/grading"
	"github.com/zinc-sig/pyramid/internal/runner"
)

const (
	DefaultCompiler = "cc"
	DefaultTimeout  = 3 * time.Second

	// DefaultCacheSize is the number of compiled builds kept on disk.
	DefaultCacheSize = 64

	// compileTimeout bounds a single compiler invocation.
	compileTimeout = 30 * time.Second
)

// Config controls compilation and execution.
type Config struct {
	Compiler  string
	CFlags    []string
	Timeout   time.Duration // per run, DefaultTimeout when zero
	CacheSize int           // builds kept, DefaultCacheSize when zero
	Logger    *zap.Logger
	Verbose   io.Writer // receives runner execution blocks when set
}

// CExecutor implements grading.Executor for C sources.
//
// Builds are cached by source hash. At most CacheSize builds are kept; the
// least recently used one is removed from disk once no run is using it.
type CExecutor struct {
	config Config
	dir    string

	group singleflight.Group

	mu    sync.Mutex
	cache *lru.Cache
}

type build struct {
	dir     string
	binary  string
	failed  string // compiler diagnostic
	refs    int
	cached  bool
	evicted bool
}

var _ grading.Executor = (*CExecutor)(nil)

// NewCExecutor creates the executor and its build directory.
func NewCExecutor(config Config) (*CExecutor, error) {
	if config.Compiler == "" {
		config.Compiler = DefaultCompiler
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.CacheSize <= 0 {
		config.CacheSize = DefaultCacheSize
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	dir, err := os.MkdirTemp("", "pyramid-build-")
	if err != nil {
		return nil, fmt.Errorf("failed to create build directory: %w", err)
	}

	e := &CExecutor{
		config: config,
		dir:    dir,
		cache:  lru.New(config.CacheSize),
	}
	e.cache.OnEvicted = func(_ lru.Key, value any) {
		b := value.(*build)
		b.evicted = true
		if b.refs == 0 {
			e.removeBuild(b)
		}
	}
	return e, nil
}

// Execute runs source with stdin, compiling it unless a build is cached.
//
// Compile errors, timeouts and signal deaths yield a failed result. A normal
// non-zero exit is a successful run whose output is still graded.
func (e *CExecutor) Execute(ctx context.Context, source, stdin string) (grading.ExecutionResult, error) {
	b, err := e.acquire(ctx, source)
	if err != nil {
		return grading.ExecutionResult{}, err
	}
	defer e.release(b)

	if b.failed != "" {
		return grading.ExecutionResult{Diagnostic: b.failed}, nil
	}

	config := &runner.Config{
		Command: b.binary,
		Stdin:   stdin,
		Dir:     b.dir,
		Timeout: e.config.Timeout,
	}
	if e.config.Verbose != nil {
		runner.PrintPreExecution(e.config.Verbose, config)
	}

	result, err := runner.Execute(ctx, config)
	if err != nil {
		return grading.ExecutionResult{}, fmt.Errorf("failed to run submission: %w", err)
	}
	if e.config.Verbose != nil {
		runner.PrintPostExecution(e.config.Verbose, result)
	}

	e.config.Logger.Debug("submission run",
		zap.String("status", string(result.Status)),
		zap.Int("exit_code", result.ExitCode),
		zap.Int64("duration_ms", result.ExecutionTime))

	out := grading.ExecutionResult{
		Succeeded: true,
		Stdout:    result.Stdout,
		Stderr:    result.Stderr,
	}
	switch {
	case result.Status == runner.StatusTimeout:
		out.Succeeded = false
		out.Diagnostic = fmt.Sprintf("program timed out after %s", e.config.Timeout)
	case result.Signal != "":
		out.Succeeded = false
		out.Diagnostic = fmt.Sprintf("program terminated by signal: %s", result.Signal)
	}
	return out, nil
}

// acquire returns a build of source with a reference held. Compilation is
// shared between concurrent callers and does not inherit ctx cancellation.
func (e *CExecutor) acquire(ctx context.Context, source string) (*build, error) {
	sum := sha256.Sum256([]byte(source))
	key := hex.EncodeToString(sum[:])

	for {
		e.mu.Lock()
		if v, ok := e.cache.Get(key); ok {
			b := v.(*build)
			b.refs++
			e.mu.Unlock()
			return b, nil
		}
		e.mu.Unlock()

		v, err, _ := e.group.Do(key, func() (any, error) {
			e.mu.Lock()
			if v, ok := e.cache.Get(key); ok {
				e.mu.Unlock()
				return v, nil
			}
			e.mu.Unlock()

			b, cacheable, err := e.doCompile(context.WithoutCancel(ctx), key, source)
			if err != nil {
				return nil, err
			}
			if cacheable {
				e.mu.Lock()
				b.cached = true
				e.cache.Add(key, b)
				e.mu.Unlock()
			}
			return b, nil
		})
		if err != nil {
			return nil, err
		}

		b := v.(*build)
		e.mu.Lock()
		if b.evicted {
			// pushed out before this caller could pin it
			e.mu.Unlock()
			continue
		}
		b.refs++
		e.mu.Unlock()
		return b, nil
	}
}

func (e *CExecutor) release(b *build) {
	e.mu.Lock()
	defer e.mu.Unlock()
	b.refs--
	if b.refs == 0 && (b.evicted || !b.cached) {
		e.removeBuild(b)
	}
}

func (e *CExecutor) removeBuild(b *build) {
	if err := os.RemoveAll(b.dir); err != nil {
		e.config.Logger.Warn("failed to remove build", zap.String("dir", b.dir), zap.Error(err))
	}
}

// doCompile builds source in a fresh directory. Compiler verdicts are
// cacheable; a compiler timeout is not.
func (e *CExecutor) doCompile(ctx context.Context, key, source string) (*build, bool, error) {
	dir, err := os.MkdirTemp(e.dir, key[:16]+"-")
	if err != nil {
		return nil, false, fmt.Errorf("failed to create build directory: %w", err)
	}
	b := &build{dir: dir}

	src := filepath.Join(dir, "main.c")
	if err := os.WriteFile(src, []byte(source), 0644); err != nil {
		e.removeBuild(b)
		return nil, false, fmt.Errorf("failed to write source file: %w", err)
	}

	binary := filepath.Join(dir, "main")
	args := append(append([]string{}, e.config.CFlags...), "-o", binary, src)
	config := &runner.Config{
		Command: e.config.Compiler,
		Args:    args,
		Dir:     dir,
		Timeout: compileTimeout,
	}

	log := e.config.Logger.With(zap.String("build", filepath.Base(dir)))
	log.Debug("compiling submission", zap.String("command", config.FullCommand()))

	result, err := runner.Execute(ctx, config)
	if err != nil {
		e.removeBuild(b)
		return nil, false, fmt.Errorf("failed to run compiler: %w", err)
	}
	if result.Status != runner.StatusSuccess {
		diagnostic := strings.TrimSpace(result.Stderr)
		if diagnostic == "" {
			diagnostic = fmt.Sprintf("compiler exited with %s (code %d)", result.Status, result.ExitCode)
		}
		log.Info("compilation failed", zap.String("stderr", diagnostic))
		b.failed = "compilation failed: " + diagnostic
		return b, result.Status != runner.StatusTimeout, nil
	}

	log.Debug("compiled submission", zap.Int64("duration_ms", result.ExecutionTime))
	b.binary = binary
	return b, true, nil
}

// Close removes all build artifacts.
func (e *CExecutor) Close() error {
	if err := os.RemoveAll(e.dir); err != nil {
		return fmt.Errorf("failed to remove build directory: %w", err)
	}
	return nil
}
