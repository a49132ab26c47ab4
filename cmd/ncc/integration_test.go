package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// PreprocessTestSpec represents a single preprocessor test case
type PreprocessTestSpec struct {
	Name   string   `yaml:"name"`
	Input  string   `yaml:"input"`
	Args   []string `yaml:"args"`   // Extra command line flags
	Expect []string `yaml:"expect"` // Non-blank output lines, in order
	Error  string   `yaml:"error"`  // Substring of the reported error
	Skip   string   `yaml:"skip,omitempty"`
}

// PreprocessTestFile represents the preprocess.yaml file structure
type PreprocessTestFile struct {
	Tests []PreprocessTestSpec `yaml:"tests"`
}

// normalizeOutput trims each line and drops empty ones.
func normalizeOutput(s string) []string {
	var normalized []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		normalized = append(normalized, line)
	}
	return normalized
}

func TestIntegrationPreprocess(t *testing.T) {
	data, err := os.ReadFile("../../testdata/preprocess.yaml")
	if err != nil {
		t.Fatalf("reading preprocess.yaml: %v", err)
	}

	var testFile PreprocessTestFile
	if err := yaml.Unmarshal(data, &testFile); err != nil {
		t.Fatalf("failed to parse preprocess.yaml: %v", err)
	}
	if len(testFile.Tests) == 0 {
		t.Fatal("no test cases in preprocess.yaml")
	}

	for _, tc := range testFile.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			if tc.Skip != "" {
				t.Skip(tc.Skip)
			}

			src := filepath.Join(t.TempDir(), "test.c")
			if err := os.WriteFile(src, []byte(tc.Input), 0644); err != nil {
				t.Fatalf("failed to write test file: %v", err)
			}

			out, errOut, err := execute(t, append(tc.Args, src)...)

			if tc.Error != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got output:\n%s", tc.Error, out)
				}
				if !strings.Contains(errOut, tc.Error) {
					t.Errorf("stderr = %q, want it to contain %q", errOut, tc.Error)
				}
				return
			}
			if err != nil {
				t.Fatalf("ncc failed: %v\nStderr: %s", err, errOut)
			}

			got := normalizeOutput(out)
			if strings.Join(got, "\n") != strings.Join(tc.Expect, "\n") {
				t.Errorf("Output mismatch\n--- want ---\n%s\n--- got ---\n%s",
					strings.Join(tc.Expect, "\n"), strings.Join(got, "\n"))
			}
		})
	}
}
