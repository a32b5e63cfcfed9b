package grading

import (
	"strings"

	"github.com/zinc-sig/pyramid/internal/shape"
)

const (
	ExecutionFailedFeedback = "The program does not compile or run. Fix the compilation errors and try again."
	PerfectFeedback         = "Excellent! Your solution is perfect, all tests passed."

	AlignmentFeedback  = "There are problems with the number of leading spaces (pyramid alignment)."
	StarFeedback       = "There are problems with the number or placement of stars in each row."
	ValidationFeedback = "The program does not fully handle non-positive input (0 or negative). Make sure it keeps asking for a number until a positive value is entered."

	GoodTierFeedback     = "Good work! There are a few small issues to fix, check the test case details."
	ProgressTierFeedback = "Nice progress, but some tests failed. Check the pyramid alignment and the number of stars in each row."
	NeedsWorkFeedback    = "The code needs more work. Check the loop logic, the handling of invalid input and the structure of the pyramid."

	// InternalErrorFeedback is shown when grading itself fails.
	InternalErrorFeedback = "An error occurred while grading."
)

// ComposeFeedback turns verdicts and the final score into a message.
func ComposeFeedback(verdicts []Verdict, score int) string {
	if executionFailed(verdicts) {
		return ExecutionFailedFeedback
	}
	if score == 100 {
		return PerfectFeedback
	}

	var alignment, stars, validation bool
	for _, v := range verdicts {
		if v.Passed {
			continue
		}
		switch v.Mismatch {
		case shape.MismatchLeadingSpaces:
			alignment = true
		case shape.MismatchContent, shape.MismatchStarCount:
			stars = true
		}
		if v.Case.Robustness {
			validation = true
		}
	}

	var messages []string
	if alignment {
		messages = append(messages, AlignmentFeedback)
	}
	if stars {
		messages = append(messages, StarFeedback)
	}
	if validation {
		messages = append(messages, ValidationFeedback)
	}
	if len(messages) > 0 {
		return strings.Join(messages, " ")
	}

	switch {
	case score >= 80:
		return GoodTierFeedback
	case score >= 60:
		return ProgressTierFeedback
	default:
		return NeedsWorkFeedback
	}
}
