// Package fixtures provides the pyramid test cases and loads custom sets
// from YAML or JSON files.
package fixtures

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zinc-sig/pyramid/internal/grading"
	"github.com/zinc-sig/pyramid/internal/shape"
)

// ErrNoCases is returned for a fixture file without cases.
var ErrNoCases = errors.New("fixture file defines no cases")

// File is the on-disk fixture format.
type File struct {
	Cases []grading.TestCase `yaml:"cases" json:"cases"`
}

// Default returns the standard pyramid suite: three plain heights and three
// cases that feed invalid numbers before a valid one.
func Default() []grading.TestCase {
	return []grading.TestCase{
		{Name: "Test 1: n=1", Stdin: []string{"1"}, Size: 1, Expected: shape.Pyramid(1), Points: 10},
		{Name: "Test 2: n=4", Stdin: []string{"4"}, Size: 4, Expected: shape.Pyramid(4), Points: 20},
		{Name: "Test 3: n=5", Stdin: []string{"5"}, Size: 5, Expected: shape.Pyramid(5), Points: 20},
		{Name: "Test 4: invalid input then 4", Stdin: []string{"0", "4"}, Size: 4, Expected: shape.Pyramid(4), Points: 10, Robustness: true},
		{Name: "Test 5: negative input then 3", Stdin: []string{"-2", "3"}, Size: 3, Expected: shape.Pyramid(3), Points: 10, Robustness: true},
		{Name: "Test 6: several invalid inputs", Stdin: []string{"0", "-5", "0", "4"}, Size: 4, Expected: shape.Pyramid(4), Points: 5, Robustness: true},
	}
}

// Load reads a fixture file. JSON files are accepted as YAML.
func Load(path string) ([]grading.TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}
	return Parse(data)
}

// Parse decodes fixture data, fills in generated pyramids for cases that
// only give a size, and validates the result.
func Parse(data []byte) ([]grading.TestCase, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid fixture data: %w", err)
	}
	if len(f.Cases) == 0 {
		return nil, ErrNoCases
	}

	for i := range f.Cases {
		c := &f.Cases[i]
		if len(c.Expected) == 0 && c.Size > 0 {
			c.Expected = shape.Pyramid(c.Size)
		}
		if err := Validate(*c); err != nil {
			return nil, fmt.Errorf("case %d: %w", i+1, err)
		}
	}

	return f.Cases, nil
}

// Validate checks a single test case.
func Validate(c grading.TestCase) error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	if c.Points < 0 {
		return fmt.Errorf("%s: points must not be negative", c.Name)
	}
	if len(c.Expected) == 0 {
		return fmt.Errorf("%s: expected shape or size is required", c.Name)
	}
	for i, line := range c.Expected {
		if !shape.IsShapeLine(line) {
			return fmt.Errorf("%s: expected line %d %q is not a shape line", c.Name, i+1, line)
		}
	}
	return nil
}
