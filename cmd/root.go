package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zinc-sig/pyramid/internal/logging"
)

var (
	verbose bool
	logger  = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "pyramid",
	Short: "An output-shape autograder for pyramid programs",
	Long: `Pyramid compiles a C submission, runs it against fixed test inputs and grades
the printed star pyramid. It reports a 0-100 score with functional, robustness
and code quality components plus feedback, as structured JSON.

Reports can be delivered to a webhook, uploaded to object storage and kept in
a SQLite or PostgreSQL database.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(verbose)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// a mismatch has already been reported as JSON
		if !errors.Is(err, errMismatch) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging and execution details on stderr")

	rootCmd.AddCommand(gradeCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
}
