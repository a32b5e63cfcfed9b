package shape

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "empty output",
			raw:  "",
			want: []string{},
		},
		{
			name: "single star",
			raw:  "*\n",
			want: []string{"*"},
		},
		{
			name: "prompt lines are dropped",
			raw:  "Enter a positive number: \n   *\n  * *\n * * *\n* * * *\n",
			want: []string{"   *", "  * *", " * * *", "* * * *"},
		},
		{
			name: "prompt on the same line as a row is dropped",
			raw:  "Enter n: *\n*\n",
			want: []string{"*"},
		},
		{
			name: "carriage returns are removed",
			raw:  "  *\r\n * *\r\n* * *\r\n",
			want: []string{"  *", " * *", "* * *"},
		},
		{
			name: "tabs become single spaces",
			raw:  "\t*\n*\t*\n",
			want: []string{" *", "* *"},
		},
		{
			name: "trailing whitespace is stripped and leading kept",
			raw:  "   *   \n  * *\t\n",
			want: []string{"   *", "  * *"},
		},
		{
			name: "blank and whitespace-only lines are dropped",
			raw:  "\n   \n\t\n*\n\n",
			want: []string{"*"},
		},
		{
			name: "invalid input message between pyramids",
			raw:  "Enter n: Invalid input, try again.\nEnter n:   *\n  *\n * *\n* * *",
			want: []string{"  *", " * *", "* * *"},
		},
		{
			name: "other glyphs are rejected",
			raw:  "* # *\n*+*\n**\n",
			want: []string{"**"},
		},
		{
			name: "leading vertical tab is rejected",
			raw:  "\v*\n*\n",
			want: []string{"*"},
		},
		{
			name: "no trailing newline",
			raw:  " *\n* *",
			want: []string{" *", "* *"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func FuzzNormalize(f *testing.F) {
	seeds := []string{
		"",
		"*",
		"   *\n  * *\n",
		"Enter: \t* *\r\n",
		"\x00*\n* \v\n",
		"Number: 4\n   *\n  * *\n * * *\n* * * *\n",
		"**\t\t**  \n\f*",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		for _, line := range Normalize(raw) {
			if strings.TrimSpace(line) == "" {
				t.Fatalf("blank line returned for %q", raw)
			}
			if strings.Trim(line, "* ") != "" {
				t.Fatalf("line %q contains characters other than glyphs and spaces", line)
			}
			if strings.HasSuffix(line, " ") {
				t.Fatalf("line %q keeps trailing whitespace", line)
			}
		}
	})
}

func TestPyramid(t *testing.T) {
	assert.Empty(t, Pyramid(0))
	assert.Empty(t, Pyramid(-3))
	assert.Equal(t, []string{"*"}, Pyramid(1))
	assert.Equal(t, []string{
		"   *",
		"  * *",
		" * * *",
		"* * * *",
	}, Pyramid(4))

	for _, line := range Pyramid(9) {
		assert.True(t, IsShapeLine(line), "line %q", line)
	}
}

func TestIsShapeLine(t *testing.T) {
	assert.True(t, IsShapeLine("*"))
	assert.True(t, IsShapeLine("  * *"))
	assert.False(t, IsShapeLine(""))
	assert.False(t, IsShapeLine("   "))
	assert.False(t, IsShapeLine("* "))
	assert.False(t, IsShapeLine("*x"))
	assert.False(t, IsShapeLine("\t*"))
}
