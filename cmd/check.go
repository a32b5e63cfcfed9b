package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zinc-sig/pyramid/cmd/config"
	"github.com/zinc-sig/pyramid/cmd/helpers"
	"github.com/zinc-sig/pyramid/internal/shape"
)

// errMismatch is returned after a failed comparison has been printed.
var errMismatch = errors.New("shape mismatch")

var checkFlags config.CheckFlags

type checkResult struct {
	Input        string   `json:"input"`
	ExpectedFile string   `json:"expected_file,omitempty"`
	Actual       []string `json:"actual"`
	Want         []string `json:"want"`
	shape.Comparison
}

var checkCmd = &cobra.Command{
	Use:   "check -i <actual> (-e <expected> | -n <height>)",
	Short: "Compare captured program output with a pyramid",
	Long: `Normalize captured program output and compare it with an expected shape file
or with the pyramid of the given height. The verdict is printed as JSON.

Exits with status 1 when the shapes differ.`,
	Example: `  pyramid check -i output.txt -n 4
  pyramid check -i output.txt -e expected.txt`,
	RunE: checkCommand,
}

func checkCommand(cmd *cobra.Command, args []string) error {
	if checkFlags.Input == "" {
		return fmt.Errorf("required flag 'input' not set")
	}
	if (checkFlags.Expected == "") == (checkFlags.Size <= 0) {
		return fmt.Errorf("exactly one of --expected or --size is required")
	}

	raw, err := os.ReadFile(checkFlags.Input)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	var want []string
	size := checkFlags.Size
	if checkFlags.Expected != "" {
		data, err := os.ReadFile(checkFlags.Expected)
		if err != nil {
			return fmt.Errorf("failed to read expected: %w", err)
		}
		want = shape.Normalize(string(data))
		size = len(want)
	} else {
		want = shape.Pyramid(size)
	}

	actual := shape.Normalize(string(raw))
	result := checkResult{
		Input:        checkFlags.Input,
		ExpectedFile: checkFlags.Expected,
		Actual:       actual,
		Want:         want,
		Comparison:   shape.Compare(want, actual, size),
	}

	logger.Debug("shape compared",
		zap.Bool("passed", result.Passed),
		zap.String("diagnostic", result.Diagnostic))

	if err := helpers.OutputJSON(cmd.OutOrStdout(), result); err != nil {
		return err
	}
	if !result.Passed {
		return errMismatch
	}
	return nil
}

func init() {
	checkCmd.Flags().StringVarP(&checkFlags.Input, "input", "i", "", "Captured program output (required)")
	checkCmd.Flags().StringVarP(&checkFlags.Expected, "expected", "e", "", "File holding the expected shape")
	checkCmd.Flags().IntVarP(&checkFlags.Size, "size", "n", 0, "Height of the expected pyramid")
	_ = checkCmd.MarkFlagRequired("input")
}
