package grading

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/zinc-sig/pyramid/internal/shape"
)

// verdictsFor marks the cases at the given indexes as failed with kind.
func verdictsFor(cases []TestCase, kind shape.MismatchKind, failed ...int) []Verdict {
	fail := make(map[int]bool, len(failed))
	for _, i := range failed {
		fail[i] = true
	}
	verdicts := make([]Verdict, 0, len(cases))
	for i, c := range cases {
		v := Verdict{Case: c, Passed: !fail[i], Diagnostic: shape.PassedDiagnostic}
		if fail[i] {
			v.Mismatch = kind
			v.Diagnostic = string(kind)
		}
		verdicts = append(verdicts, v)
	}
	return verdicts
}

func TestScore(t *testing.T) {
	const hardcoded = `int main() { printf("  *\n"); printf(" * *\n"); return 0; }`
	const noLoopNoLiteral = `int main() { return 0; }`

	tests := []struct {
		name     string
		verdicts []Verdict
		source   string
		want     int
	}{
		{
			name:     "everything passes",
			verdicts: verdictsFor(pyramidCases(), ""),
			source:   goodSource,
			want:     100,
		},
		{
			name:     "robustness cases fail",
			verdicts: verdictsFor(pyramidCases(), shape.MismatchLineCount, 3, 4, 5),
			source:   goodSource,
			want:     57, // 50/75*70 + 0 + 10 = 56.67
		},
		{
			name:     "one robustness case fails",
			verdicts: verdictsFor(pyramidCases(), shape.MismatchLeadingSpaces, 5),
			source:   goodSource,
			want:     89, // 70/75*70 + 2/3*20 + 10 = 88.67
		},
		{
			name:     "hardcoded rows without loops",
			verdicts: verdictsFor(pyramidCases(), ""),
			source:   hardcoded,
			want:     90, // 70 + 20 + (10 - 5 - 5)
		},
		{
			name:     "no loop and no literal",
			verdicts: verdictsFor(pyramidCases(), ""),
			source:   noLoopNoLiteral,
			want:     95,
		},
		{
			name:     "no robustness cases gives zero robustness",
			verdicts: verdictsFor(pyramidCases()[:3], ""),
			source:   goodSource,
			want:     80,
		},
		{
			name:     "no verdicts",
			verdicts: nil,
			source:   goodSource,
			want:     10,
		},
		{
			name: "zero total weight",
			verdicts: []Verdict{
				{Case: TestCase{Name: "free"}, Passed: true},
			},
			source: goodSource,
			want:   10,
		},
		{
			name: "half rounds up",
			verdicts: []Verdict{
				{Case: TestCase{Points: 1}, Passed: true},
				{Case: TestCase{Points: 3}},
			},
			source: goodSource,
			want:   28, // 17.5 + 0 + 10 = 27.5
		},
		{
			name: "execution failure on first case",
			verdicts: []Verdict{
				{Case: pyramidCases()[0], ExecutionFailed: true, Diagnostic: "boom"},
			},
			source: goodSource,
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.verdicts, tt.source)
			assert.Equal(t, tt.want, got.Total)
		})
	}
}

func TestScoreComponents(t *testing.T) {
	got := Score(verdictsFor(pyramidCases(), shape.MismatchLeadingSpaces, 1, 3), goodSource)

	// 45/75*70 = 42, 2/3*20 = 13.33
	assert.True(t, got.Functional.Equal(decimal.NewFromInt(42)), "functional = %s", got.Functional)
	assert.Equal(t, "13.33", got.Robustness.StringFixed(2))
	assert.True(t, got.Quality.Equal(decimal.NewFromInt(10)), "quality = %s", got.Quality)
	assert.Equal(t, 65, got.Total)
}

func TestScoreExecutionFailureIgnoresOtherVerdicts(t *testing.T) {
	verdicts := verdictsFor(pyramidCases(), "")
	verdicts[0].Passed = false
	verdicts[0].ExecutionFailed = true

	got := Score(verdicts, goodSource)
	assert.Equal(t, 0, got.Total)
	assert.True(t, got.Quality.IsZero())
}

func TestScoreLaterExecutionFailureIsNotZero(t *testing.T) {
	verdicts := verdictsFor(pyramidCases()[:2], "")
	verdicts[1].Passed = false
	verdicts[1].ExecutionFailed = true

	// 10/30*70 + 0 + 10 = 33.33
	assert.Equal(t, 33, Score(verdicts, goodSource).Total)
}

func TestScoreMonotonic(t *testing.T) {
	cases := pyramidCases()
	for failed := 0; failed < len(cases); failed++ {
		verdicts := verdictsFor(cases, shape.MismatchContent, failed)
		before := Score(verdicts, goodSource).Total

		extra := Verdict{
			Case:   TestCase{Name: "extra", Stdin: []string{"2"}, Expected: shape.Pyramid(2), Points: 15},
			Passed: true,
		}
		after := Score(append(verdicts, extra), goodSource).Total
		assert.GreaterOrEqual(t, after, before, "failing case %d", failed)
	}
}

func TestQualityHeuristics(t *testing.T) {
	tests := []struct {
		source        string
		wantLoop      bool
		wantHardcoded bool
	}{
		{source: goodSource, wantLoop: true},
		{source: `while(1){}`, wantLoop: true},
		{source: `do { } while (0);`, wantLoop: true},
		{source: `int format = 1; int done;`, wantLoop: false},
		{source: `puts("**");`, wantHardcoded: true},
		{source: `puts("* *");`, wantHardcoded: true},
		{source: `char c[] = {'*', '*'};`, wantHardcoded: false},
		{source: `char *s = '* *';`, wantHardcoded: true},
		{source: `printf("*"); printf("*");`, wantHardcoded: false},
		{source: "printf(\"*\n*\");", wantHardcoded: false},
		{source: `printf("%*d", w, x);`, wantHardcoded: false},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.wantLoop, HasLoop(tt.source))
			assert.Equal(t, tt.wantHardcoded, HasHardcodedRows(tt.source))
		})
	}
}

func TestTier(t *testing.T) {
	assert.Equal(t, "excellent", Tier(100))
	assert.Equal(t, "excellent", Tier(85))
	assert.Equal(t, "good", Tier(84))
	assert.Equal(t, "good", Tier(60))
	assert.Equal(t, "poor", Tier(59))
	assert.Equal(t, "poor", Tier(0))
}

func TestScoreFromRun(t *testing.T) {
	verdicts := Run(context.Background(), goodSource, pyramidCases(), pyramidExecutor{validate: true}, nil)
	assert.Equal(t, 100, Score(verdicts, goodSource).Total)
}
