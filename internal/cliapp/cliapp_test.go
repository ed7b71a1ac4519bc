// ABOUTME: Tests for the root command's solve-once path: stdin/file input, --output, exit codes

package cliapp

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stojg/ga-assign/internal/model"
)

const sampleInputJSON = `{
	"groups": [{"id": 1, "size": 2}, {"id": 2, "size": 2}],
	"students": [
		{"id": 1, "possible_groups": [1, 2]},
		{"id": 2, "possible_groups": [1, 2]},
		{"id": 3, "possible_groups": [1, 2]},
		{"id": 4, "possible_groups": [1, 2]}
	]
}`

func TestCommand_SolvesFromFileAndWritesOutput(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "input.json")
	outputPath := filepath.Join(dir, "output.json")

	if err := os.WriteFile(inputPath, []byte(sampleInputJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := Command()
	args := []string{"ga-assign", "--runs", "1", "--output", outputPath, inputPath}
	if err := cmd.Run(context.Background(), args); err != nil {
		t.Fatalf("command failed: %v", err)
	}

	raw, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}

	var out model.ProblemOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(out.Assignments) != 4 {
		t.Errorf("got %d assignments, want 4", len(out.Assignments))
	}
}

func TestCommand_RejectsMissingInputArgument(t *testing.T) {
	cmd := Command()
	err := cmd.Run(context.Background(), []string{"ga-assign", "--runs", "1"})
	if err == nil {
		t.Fatal("expected an error for missing positional input argument")
	}
}

func TestCommand_RejectsInvalidProblemInput(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(inputPath, []byte(`{"groups": [{"id": 1, "size": -1}]}`), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := Command()
	err := cmd.Run(context.Background(), []string{"ga-assign", "--runs", "1", inputPath})
	if err == nil {
		t.Fatal("expected an error for a negative group size")
	}
}

func TestCommand_WritesToStdoutWhenNoOutputFlag(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "input.json")
	if err := os.WriteFile(inputPath, []byte(sampleInputJSON), 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	orig := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	cmd := Command()
	args := []string{"ga-assign", "--runs", "1", inputPath}
	runErr := cmd.Run(context.Background(), args)

	w.Close()
	os.Stdout = orig
	buf.ReadFrom(r)

	if runErr != nil {
		t.Fatalf("command failed: %v", runErr)
	}
	if buf.Len() == 0 {
		t.Error("expected solve output on stdout, got none")
	}
}
