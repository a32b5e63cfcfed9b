package helpers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/zinc-sig/pyramid/cmd/config"
	"github.com/zinc-sig/pyramid/internal/grading"
)

// PrintContextInfo prints context configuration in verbose/dry-run mode
func PrintContextInfo(w io.Writer, context any, dryRun bool) {
	if context == nil {
		return
	}

	header := "Context Configuration"
	if dryRun {
		header = "Context Configuration (DRY RUN)"
	}

	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, "========================================")

	jsonBytes, err := json.MarshalIndent(context, "", "  ")
	if err != nil {
		fmt.Fprintf(w, "  %v\n", context)
	} else {
		fmt.Fprintf(w, "%s\n", string(jsonBytes))
	}

	fmt.Fprintln(w, "----------------------------------------")
}

// PrintGradingPlan describes what grade would do without compiling or
// running anything.
func PrintGradingPlan(w io.Writer, source string, cfg *config.GraderConfig, cases []grading.TestCase) {
	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "Grading Plan (DRY RUN)")
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "Source:   %d bytes\n", len(source))
	fmt.Fprintf(w, "Compiler: %s\n", strings.TrimSpace(cfg.Compiler+" "+strings.Join(cfg.CFlags, " ")))
	fmt.Fprintf(w, "Timeout:  %s per run\n", cfg.Timeout)
	fmt.Fprintf(w, "Cases:    %d\n", len(cases))

	var points float64
	for i, c := range cases {
		kind := ""
		if c.Robustness {
			kind = " [robustness]"
		}
		fmt.Fprintf(w, "  %d. %s (stdin %q, %g pts)%s\n", i+1, c.Name, c.Script(), c.Points, kind)
		points += c.Points
	}
	fmt.Fprintf(w, "Points:   %g\n", points)
	fmt.Fprintln(w, "----------------------------------------")
}
