package grading

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrEmptySource is returned for blank submissions.
var ErrEmptySource = errors.New("source is empty")

// Report statuses.
const (
	StatusGraded          = "graded"
	StatusExecutionFailed = "execution_failed"
	StatusError           = "error"
)

// Report is everything a grading run produces.
type Report struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Verdicts  []Verdict `json:"verdicts"`
	Breakdown Breakdown `json:"breakdown"`
	Score     int       `json:"score"`
	Tier      string    `json:"tier"`
	Feedback  string    `json:"feedback"`
	Error     string    `json:"error,omitempty"`
	StartedAt time.Time `json:"started_at"`
	Duration  int64     `json:"duration"` // milliseconds
}

// Grader binds an executor to a fixed set of test cases.
type Grader struct {
	executor Executor
	cases    []TestCase
	logger   *zap.Logger
	now      func() time.Time
}

// Option configures a Grader.
type Option func(*Grader)

// WithLogger sets the logger used for per-case events.
func WithLogger(l *zap.Logger) Option { return func(g *Grader) { g.logger = l } }

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option { return func(g *Grader) { g.now = now } }

// NewGrader creates a Grader. cases is copied.
func NewGrader(executor Executor, cases []TestCase, opts ...Option) *Grader {
	g := &Grader{
		executor: executor,
		cases:    append([]TestCase(nil), cases...),
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Cases returns a copy of the grader's test cases.
func (g *Grader) Cases() []TestCase {
	return append([]TestCase(nil), g.cases...)
}

// Grade runs every case against source and scores the result.
//
// Grade always returns a report. Blank sources and internal faults yield a
// report with StatusError and a zero score alongside the error.
func (g *Grader) Grade(ctx context.Context, source string) (report *Report, err error) {
	started := g.now()
	report = &Report{
		ID:        uuid.NewString(),
		Verdicts:  []Verdict{},
		StartedAt: started,
	}
	log := g.logger.With(zap.String("report_id", report.ID))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal grading error: %v", r)
			log.Error("grading aborted", zap.Any("panic", r))
			failReport(report, err)
		}
		report.Duration = g.now().Sub(started).Milliseconds()
	}()

	if strings.TrimSpace(source) == "" {
		failReport(report, ErrEmptySource)
		return report, ErrEmptySource
	}

	log.Info("grading submission", zap.Int("cases", len(g.cases)))

	verdicts := Run(ctx, source, g.cases, g.executor, log)
	breakdown := Score(verdicts, source)

	report.Verdicts = verdicts
	report.Breakdown = breakdown
	report.Score = breakdown.Total
	report.Tier = Tier(breakdown.Total)
	report.Feedback = ComposeFeedback(verdicts, breakdown.Total)
	report.Status = StatusGraded
	if executionFailed(verdicts) {
		report.Status = StatusExecutionFailed
	}

	log.Info("grading finished",
		zap.String("status", report.Status),
		zap.Int("score", report.Score),
		zap.Int("executed", len(verdicts)))

	return report, nil
}

func failReport(r *Report, err error) {
	r.Status = StatusError
	r.Score = 0
	r.Breakdown = zeroBreakdown()
	r.Tier = Tier(0)
	r.Feedback = InternalErrorFeedback
	r.Error = err.Error()
}
