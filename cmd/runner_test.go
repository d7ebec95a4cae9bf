package main

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/amosley/joinboard/internal/etl"
	"github.com/amosley/joinboard/internal/shared"
	tu "github.com/amosley/joinboard/internal/testing"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			source := tu.NewMockSource()

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Source:     source,
				Hasher:     tu.PlainHasher{},
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.source != source {
				t.Error("expected source to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})
			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{HTTPClient: nil})
			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, true)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) != 3 {
			t.Errorf("expected 3 commands, got %d", len(commands))
		}

		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
			}
		}
	})

	t.Run("loadConfig", func(t *testing.T) {
		t.Run("missing file keeps current config", func(t *testing.T) {
			config := shared.DefaultConfig()
			runner := NewRunner(RunnerOpts{Config: config})

			got := runner.loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
			if got != config {
				t.Error("expected current config to be kept")
			}
		})

		t.Run("valid file replaces config", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			content := "[database]\npath = \"other.db\"\n"
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}

			runner := NewRunner(RunnerOpts{})
			got := runner.loadConfig(path)
			if got.Database.Path != "other.db" {
				t.Errorf("expected loaded config, got path %s", got.Database.Path)
			}
			if runner.config != got {
				t.Error("expected runner config to be replaced")
			}
		})
	})
}

func TestPrintSummary(t *testing.T) {
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{Output: output})

	report := etl.NewReport()
	report.Success("users")
	report.Failure("tasks", "t9", os.ErrInvalid)
	report.FinishedAt = report.StartedAt.Add(time.Second)
	report.FinalState = etl.Completed

	runner.printSummary(report)

	result := output.String()
	if !strings.Contains(result, "Migration Summary") {
		t.Errorf("expected summary header, got:\n%s", result)
	}
	if !strings.Contains(result, "1 records failed:") {
		t.Errorf("expected failure section, got:\n%s", result)
	}
	if !strings.Contains(result, "tasks t9") {
		t.Errorf("expected failure detail, got:\n%s", result)
	}
}

func TestExportReport(t *testing.T) {
	report := etl.NewReport()
	report.Success("users")
	report.FinishedAt = report.StartedAt.Add(time.Second)
	report.FinalState = etl.Completed

	runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

	t.Run("no path is a no-op", func(t *testing.T) {
		if err := runner.exportReport(report, "", "json"); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("writes each format", func(t *testing.T) {
		dir := t.TempDir()
		for _, format := range []string{"json", "csv", "markdown", "text"} {
			path := filepath.Join(dir, "report."+format)
			if err := runner.exportReport(report, path, format); err != nil {
				t.Fatalf("failed to export %s: %v", format, err)
			}
			tu.AssertFileExists(t, path)
		}
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		err := runner.exportReport(report, filepath.Join(t.TempDir(), "report.xml"), "xml")
		if err == nil {
			t.Fatal("expected error for unknown format")
		}
		if !strings.Contains(err.Error(), "unknown report format") {
			t.Errorf("expected format error, got %v", err)
		}
	})
}
