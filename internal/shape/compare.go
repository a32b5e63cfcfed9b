package shape

import (
	"fmt"
	"strings"
)

// MismatchKind classifies the first discrepancy found by Compare.
type MismatchKind string

const (
	MismatchNone          MismatchKind = ""
	MismatchLineCount     MismatchKind = "line_count"
	MismatchLeadingSpaces MismatchKind = "leading_spaces"
	MismatchContent       MismatchKind = "content"
	MismatchStarCount     MismatchKind = "star_count"
)

// PassedDiagnostic is the diagnostic of a successful comparison.
const PassedDiagnostic = "passed"

// Comparison is the outcome of comparing two shapes.
type Comparison struct {
	Passed     bool         `json:"passed"`
	Mismatch   MismatchKind `json:"mismatch,omitempty"`
	Line       int          `json:"line,omitempty"` // 1-based, zero for line count mismatches
	Expected   int          `json:"expected,omitempty"`
	Got        int          `json:"got,omitempty"`
	Size       int          `json:"size,omitempty"`
	Diagnostic string       `json:"diagnostic"`
}

// Compare checks actual against expected and reports the first discrepancy.
//
// Checks run in a fixed order: line count, then per line the leading space
// run, the whitespace-collapsed content and the glyph count. size is the
// pyramid height of the case and is only carried through for reporting.
func Compare(expected, actual []string, size int) Comparison {
	if len(actual) != len(expected) {
		return Comparison{
			Mismatch:   MismatchLineCount,
			Expected:   len(expected),
			Got:        len(actual),
			Size:       size,
			Diagnostic: fmt.Sprintf("wrong number of lines: expected %d, got %d", len(expected), len(actual)),
		}
	}

	for i := range expected {
		want, got := expected[i], actual[i]
		line := i + 1

		wantLead, gotLead := leadingSpaces(want), leadingSpaces(got)
		if wantLead != gotLead {
			return Comparison{
				Mismatch:   MismatchLeadingSpaces,
				Line:       line,
				Expected:   wantLead,
				Got:        gotLead,
				Size:       size,
				Diagnostic: fmt.Sprintf("line %d: wrong number of leading spaces (expected %d, got %d)", line, wantLead, gotLead),
			}
		}

		wantTrim, gotTrim := strings.TrimSpace(want), strings.TrimSpace(got)
		if wantTrim != gotTrim && collapse(wantTrim) != collapse(gotTrim) {
			return Comparison{
				Mismatch:   MismatchContent,
				Line:       line,
				Size:       size,
				Diagnostic: fmt.Sprintf("line %d: wrong star content", line),
			}
		}

		wantStars := strings.Count(wantTrim, string(Glyph))
		gotStars := strings.Count(gotTrim, string(Glyph))
		if wantStars != gotStars {
			return Comparison{
				Mismatch:   MismatchStarCount,
				Line:       line,
				Expected:   wantStars,
				Got:        gotStars,
				Size:       size,
				Diagnostic: fmt.Sprintf("line %d: wrong number of stars (expected %d, got %d)", line, wantStars, gotStars),
			}
		}
	}

	return Comparison{Passed: true, Size: size, Diagnostic: PassedDiagnostic}
}

func leadingSpaces(s string) int {
	return len(s) - len(strings.TrimLeft(s, " "))
}

// collapse reduces every whitespace run to a single space.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
