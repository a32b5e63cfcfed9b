// Package shape turns captured program output into pyramid rows and
// compares them against an expected figure.
package shape

import (
	"strings"
	"unicode"
)

// Glyph is the only non-space character a shape line may contain.
const Glyph = '*'

// Normalize extracts the shape lines from raw program output.
//
// Prompts, diagnostics and partial lines are dropped: a line survives only
// when it contains at least one glyph and nothing but glyphs and spaces.
// Leading spaces are kept, trailing whitespace is removed. A row whose
// leading whitespace holds anything other than spaces, such as \v or \f,
// is dropped.
func Normalize(raw string) []string {
	lines := []string{}
	if raw == "" {
		return lines
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.ReplaceAll(line, "\r", "")
		line = strings.ReplaceAll(line, "\t", " ")

		if !strings.ContainsRune(line, Glyph) {
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		line = strings.TrimRightFunc(line, unicode.IsSpace)
		if !IsShapeLine(line) {
			continue
		}

		lines = append(lines, line)
	}

	return lines
}

// IsShapeLine reports whether s is a non-blank row of glyphs and spaces
// without trailing whitespace.
func IsShapeLine(s string) bool {
	if s == "" || strings.TrimSpace(s) == "" {
		return false
	}
	if strings.HasSuffix(s, " ") {
		return false
	}
	for _, r := range s {
		if r != Glyph && r != ' ' {
			return false
		}
	}
	return true
}

// Pyramid renders the centered pyramid of the given height, e.g. for 3:
//
//	  *
//	 * *
//	* * *
func Pyramid(height int) []string {
	if height <= 0 {
		return []string{}
	}

	rows := make([]string, 0, height)
	for row := 1; row <= height; row++ {
		stars := strings.TrimSuffix(strings.Repeat("* ", row), " ")
		rows = append(rows, strings.Repeat(" ", height-row)+stars)
	}
	return rows
}
