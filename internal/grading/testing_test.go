package grading

import (
	"context"
	"strings"
	"sync"

	"github.com/zinc-sig/pyramid/internal/shape"
)

// scriptedExecutor returns canned results in call order and records stdin.
type scriptedExecutor struct {
	mu      sync.Mutex
	results []ExecutionResult
	errs    []error
	calls   []string
}

func (s *scriptedExecutor) Execute(_ context.Context, _ string, stdin string) (ExecutionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := len(s.calls)
	s.calls = append(s.calls, stdin)

	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	if i < len(s.results) {
		return s.results[i], err
	}
	return ExecutionResult{Succeeded: true}, err
}

// pyramidExecutor behaves like a correct solution: it skips non-positive
// tokens and prints the pyramid for the first positive one.
type pyramidExecutor struct {
	// mangle rewrites the printed rows, e.g. to break alignment.
	mangle func(rows []string) []string
	// validate makes the program retry on invalid input.
	validate bool
}

func (p pyramidExecutor) Execute(_ context.Context, _ string, stdin string) (ExecutionResult, error) {
	var out strings.Builder
	for _, tok := range strings.Fields(stdin) {
		out.WriteString("Enter a positive number: ")
		n := atoi(tok)
		if n <= 0 && p.validate {
			out.WriteString("Invalid input.\n")
			continue
		}
		out.WriteString("\n")
		rows := shape.Pyramid(n)
		if p.mangle != nil {
			rows = p.mangle(rows)
		}
		out.WriteString(strings.Join(rows, "\n"))
		out.WriteString("\n")
		break
	}
	return ExecutionResult{Succeeded: true, Stdout: out.String()}, nil
}

func atoi(s string) int {
	n, neg := 0, false
	for i, r := range s {
		if i == 0 && r == '-' {
			neg = true
			continue
		}
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	if neg {
		return -n
	}
	return n
}

const goodSource = `#include <stdio.h>

int main(void) {
    int n = 0;
    do {
        printf("Enter a positive number: ");
        scanf("%d", &n);
    } while (n <= 0);
    for (int i = 1; i <= n; i++) {
        for (int s = 0; s < n - i; s++) putchar(' ');
        for (int j = 0; j < i; j++) printf(j ? " *" : "*");
        putchar('\n');
    }
    return 0;
}
`

// pyramidCases mirrors the default fixture set.
func pyramidCases() []TestCase {
	return []TestCase{
		{Name: "n=1", Stdin: []string{"1"}, Size: 1, Expected: shape.Pyramid(1), Points: 10},
		{Name: "n=4", Stdin: []string{"4"}, Size: 4, Expected: shape.Pyramid(4), Points: 20},
		{Name: "n=5", Stdin: []string{"5"}, Size: 5, Expected: shape.Pyramid(5), Points: 20},
		{Name: "zero then 4", Stdin: []string{"0", "4"}, Size: 4, Expected: shape.Pyramid(4), Points: 10, Robustness: true},
		{Name: "negative then 3", Stdin: []string{"-2", "3"}, Size: 3, Expected: shape.Pyramid(3), Points: 10, Robustness: true},
		{Name: "several invalid", Stdin: []string{"0", "-5", "0", "4"}, Size: 4, Expected: shape.Pyramid(4), Points: 5, Robustness: true},
	}
}
