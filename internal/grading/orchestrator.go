package grading

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/zinc-sig/pyramid/internal/shape"
)

// FallbackExecutionDiagnostic is used when a failed execution carries no message.
const FallbackExecutionDiagnostic = "program failed to run"

// Run executes cases in order and collects one verdict per executed case.
//
// The first execution failure is recorded and ends the run, so the result
// may be shorter than cases. cases is never modified.
func Run(ctx context.Context, source string, cases []TestCase, executor Executor, logger *zap.Logger) []Verdict {
	if logger == nil {
		logger = zap.NewNop()
	}

	verdicts := make([]Verdict, 0, len(cases))
	for i, tc := range cases {
		log := logger.With(zap.Int("case", i+1), zap.String("name", tc.Name))
		log.Debug("running test case", zap.String("stdin", tc.Script()))

		result := execute(ctx, executor, source, tc.Script())
		if !result.Succeeded {
			diagnostic := result.Diagnostic
			if diagnostic == "" {
				diagnostic = FallbackExecutionDiagnostic
			}
			log.Info("execution failed, skipping remaining cases",
				zap.String("diagnostic", diagnostic),
				zap.Int("skipped", len(cases)-i-1))

			verdicts = append(verdicts, Verdict{
				Case:            tc,
				Actual:          []string{},
				Diagnostic:      diagnostic,
				ExecutionFailed: true,
			})
			break
		}

		actual := shape.Normalize(result.Stdout)
		cmp := shape.Compare(tc.Expected, actual, tc.Size)
		log.Debug("test case compared",
			zap.Bool("passed", cmp.Passed),
			zap.String("diagnostic", cmp.Diagnostic))

		verdicts = append(verdicts, Verdict{
			Case:       tc,
			Passed:     cmp.Passed,
			Actual:     actual,
			Diagnostic: cmp.Diagnostic,
			Mismatch:   cmp.Mismatch,
		})
	}

	return verdicts
}

// execute calls the executor and folds errors and panics into a failed result.
func execute(ctx context.Context, executor Executor, source, stdin string) (result ExecutionResult) {
	defer func() {
		if r := recover(); r != nil {
			result = ExecutionResult{Diagnostic: fmt.Sprintf("executor panic: %v", r)}
		}
	}()

	if executor == nil {
		return ExecutionResult{Diagnostic: "no executor configured"}
	}

	res, err := executor.Execute(ctx, source, stdin)
	if err != nil {
		diagnostic := res.Diagnostic
		if diagnostic == "" {
			diagnostic = err.Error()
		}
		return ExecutionResult{Stdout: res.Stdout, Stderr: res.Stderr, Diagnostic: diagnostic}
	}
	return res
}
