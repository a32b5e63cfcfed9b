// Package output renders grading reports as JSON and as a human summary.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/zinc-sig/pyramid/internal/grading"
)

// Test is the per-case entry of a report.
type Test struct {
	Name            string   `json:"name"`
	Input           string   `json:"input"`
	Passed          bool     `json:"passed"`
	Diagnostic      string   `json:"diagnostic"`
	Mismatch        string   `json:"mismatch,omitempty"`
	Expected        []string `json:"expected"`
	Actual          []string `json:"actual"`
	ExecutionFailed bool     `json:"execution_failed,omitempty"`
	Points          float64  `json:"points"`
	Robustness      bool     `json:"robustness,omitempty"`
}

type Breakdown struct {
	Functional float64 `json:"functional"`
	Robustness float64 `json:"robustness"`
	Quality    float64 `json:"quality"`
}

// Report is the JSON document printed, stored, uploaded and delivered.
type Report struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Score     int       `json:"score"`
	Tier      string    `json:"tier"`
	Breakdown Breakdown `json:"breakdown"`
	Feedback  string    `json:"feedback"`
	Error     string    `json:"error,omitempty"`
	Tests     []Test    `json:"tests"`
	Executed  int       `json:"executed"`
	Total     int       `json:"total"`
	StartedAt time.Time `json:"started_at"`
	Duration  int64     `json:"duration"` // milliseconds
	Source    string    `json:"source,omitempty"`
	Context   any       `json:"context,omitempty"`

	// Delivery status, local output only.
	WebhookSent  bool     `json:"webhook_sent,omitempty"`
	WebhookError string   `json:"webhook_error,omitempty"`
	Uploads      []string `json:"uploads,omitempty"`
}

// FromGrading converts a grading report. total is the number of cases the
// grader was configured with.
func FromGrading(r *grading.Report, total int) *Report {
	out := &Report{
		ID:     r.ID,
		Status: r.Status,
		Score:  r.Score,
		Tier:   r.Tier,
		Breakdown: Breakdown{
			Functional: r.Breakdown.Functional.Round(2).InexactFloat64(),
			Robustness: r.Breakdown.Robustness.Round(2).InexactFloat64(),
			Quality:    r.Breakdown.Quality.Round(2).InexactFloat64(),
		},
		Feedback:  r.Feedback,
		Error:     r.Error,
		Tests:     make([]Test, 0, len(r.Verdicts)),
		Executed:  len(r.Verdicts),
		Total:     total,
		StartedAt: r.StartedAt,
		Duration:  r.Duration,
	}

	for _, v := range r.Verdicts {
		out.Tests = append(out.Tests, Test{
			Name:            v.Case.Name,
			Input:           v.Case.Script(),
			Passed:          v.Passed,
			Diagnostic:      v.Diagnostic,
			Mismatch:        string(v.Mismatch),
			Expected:        v.Case.Expected,
			Actual:          v.Actual,
			ExecutionFailed: v.ExecutionFailed,
			Points:          v.Case.Points,
			Robustness:      v.Case.Robustness,
		})
	}
	return out
}

// Payload returns a copy without local delivery status, for sending out.
func (r *Report) Payload() *Report {
	p := *r
	p.WebhookSent = false
	p.WebhookError = ""
	p.Uploads = nil
	return &p
}

// Passed counts passing tests.
func (r *Report) Passed() int {
	n := 0
	for _, t := range r.Tests {
		if t.Passed {
			n++
		}
	}
	return n
}

// WriteJSON writes r as a single line of JSON.
func WriteJSON(w io.Writer, r *Report) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// Decode parses a report produced by WriteJSON or json.Marshal.
func Decode(data []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("invalid report JSON: %w", err)
	}
	return &r, nil
}

// EscapeInput shows newlines in a stdin script as \n.
func EscapeInput(s string) string {
	return strings.ReplaceAll(s, "\n", `\n`)
}

// WriteSummary prints a table of test results followed by the score.
func WriteSummary(w io.Writer, r *Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TEST\tINPUT\tRESULT\tDETAIL")
	for _, t := range r.Tests {
		result := "PASS"
		switch {
		case t.ExecutionFailed:
			result = "ERROR"
		case !t.Passed:
			result = "FAIL"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.Name, EscapeInput(t.Input), result, t.Diagnostic)
	}
	if skipped := r.Total - r.Executed; skipped > 0 && r.Executed > 0 {
		fmt.Fprintf(tw, "(%d not run)\t\t\t\n", skipped)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Passed:   %d/%d\n", r.Passed(), r.Total)
	fmt.Fprintf(w, "Score:    %d/100 (%s)\n", r.Score, r.Tier)
	fmt.Fprintf(w, "          functional %.2f, robustness %.2f, quality %.2f\n",
		r.Breakdown.Functional, r.Breakdown.Robustness, r.Breakdown.Quality)
	_, err := fmt.Fprintf(w, "Feedback: %s\n", r.Feedback)
	return err
}
