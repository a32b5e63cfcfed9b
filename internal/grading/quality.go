package grading

import "regexp"

var (
	loopKeyword = regexp.MustCompile(`\b(for|while|do)\b`)

	// A string or char literal on one line holding two or more stars, e.g.
	// printf("* * *\n"), suggests the rows are printed rather than built.
	hardcodedRow = []*regexp.Regexp{
		regexp.MustCompile(`"[^"\n]*\*[^"\n]*\*[^"\n]*"`),
		regexp.MustCompile(`'[^'\n]*\*[^'\n]*\*[^'\n]*'`),
	}
)

// HasLoop reports whether source mentions a looping keyword.
func HasLoop(source string) bool {
	return loopKeyword.MatchString(source)
}

// HasHardcodedRows reports whether source contains a literal with at least
// two stars.
func HasHardcodedRows(source string) bool {
	for _, re := range hardcodedRow {
		if re.MatchString(source) {
			return true
		}
	}
	return false
}
