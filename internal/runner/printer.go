package runner

import (
	"fmt"
	"io"
	"time"
)

// PrintPreExecution prints command details before execution
func PrintPreExecution(w io.Writer, config *Config) {
	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "Process Execution Details")
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "Command: %s\n", config.FullCommand())
	if config.Dir != "" {
		fmt.Fprintf(w, "Dir:     %s\n", config.Dir)
	}
	fmt.Fprintf(w, "Stdin:   %q\n", config.Stdin)
	if config.Timeout > 0 {
		fmt.Fprintf(w, "Timeout: %s\n", config.Timeout)
	}
	fmt.Fprintln(w, "----------------------------------------")
}

// PrintPostExecution prints execution results after command completion
func PrintPostExecution(w io.Writer, result *Result) {
	fmt.Fprintln(w, "Execution Results:")
	fmt.Fprintln(w, "----------------------------------------")
	fmt.Fprintf(w, "Status:         %s\n", result.Status)
	fmt.Fprintf(w, "Exit Code:      %d\n", result.ExitCode)
	if result.Signal != "" {
		fmt.Fprintf(w, "Signal:         %s\n", result.Signal)
	}
	fmt.Fprintf(w, "Execution Time: %s\n", time.Duration(result.ExecutionTime)*time.Millisecond)
	if result.Truncated {
		fmt.Fprintln(w, "Output:         truncated")
	}
	fmt.Fprintln(w, "========================================")
}
