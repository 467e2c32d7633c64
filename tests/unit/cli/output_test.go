package cli_test

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/relief-cnc/dmap2gcode/internal/cli"
)

func TestPrintSummary(t *testing.T) {
	tests := []struct {
		name       string
		stats      *cli.ConversionStats
		wantOutput []string // Strings that should appear in output
	}{
		{
			name: "Typical conversion results",
			stats: &cli.ConversionStats{
				TotalLines:     1000,
				RapidMoves:     250,
				CutMoves:       700,
				ArcMoves:       50,
				Passes:         3,
				BytesOut:       50000,
				ProcessingTime: 100 * time.Millisecond,
			},
			wantOutput: []string{
				"1,000",  // Total lines (formatted with comma)
				"250",    // Rapid moves
				"700",    // Cut moves
				"50",     // Arc moves
				"50,000", // Output size (formatted with comma)
				"0.1s",   // Processing time (formatted as seconds)
			},
		},
		{
			name: "Single finish pass, no arcs",
			stats: &cli.ConversionStats{
				TotalLines:     500,
				RapidMoves:     64,
				CutMoves:       436,
				ArcMoves:       0,
				Passes:         1,
				BytesOut:       25000,
				ProcessingTime: 50 * time.Millisecond,
			},
			wantOutput: []string{
				"500",
				"64",
				"436",
				"25,000",
			},
		},
		{
			name: "Multi-layer roughing plus finish",
			stats: &cli.ConversionStats{
				TotalLines:     4000,
				RapidMoves:     900,
				CutMoves:       3000,
				ArcMoves:       100,
				Passes:         4,
				BytesOut:       200000,
				ProcessingTime: 250 * time.Millisecond,
			},
			wantOutput: []string{
				"4,000",
				"900",
				"3,000",
				"200,000",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Capture stdout
			oldStdout := os.Stdout
			r, w, _ := os.Pipe()
			os.Stdout = w

			cli.PrintSummary(tt.stats)

			w.Close()
			os.Stdout = oldStdout

			var buf bytes.Buffer
			io.Copy(&buf, r)
			output := buf.String()

			// Check all expected strings are present
			for _, want := range tt.wantOutput {
				if !strings.Contains(output, want) {
					t.Errorf("PrintSummary() output missing %q\nGot:\n%s", want, output)
				}
			}
		})
	}
}

func TestPrintError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantExitCode int
		wantOutput   string
	}{
		{
			name:         "Generic error",
			err:          os.ErrNotExist,
			wantExitCode: 1,
			wantOutput:   "file does not exist",
		},
		{
			name:         "Custom error message",
			err:          &cli.InvalidStrategyError{Strategy: "invalid-strategy"},
			wantExitCode: 2,
			wantOutput:   "invalid-strategy",
		},
		{
			name:         "File operation error",
			err:          os.ErrPermission,
			wantExitCode: 1,
			wantOutput:   "permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Capture stderr
			oldStderr := os.Stderr
			r, w, _ := os.Pipe()
			os.Stderr = w

			exitCode := cli.PrintError(tt.err)

			w.Close()
			os.Stderr = oldStderr

			var buf bytes.Buffer
			io.Copy(&buf, r)
			output := buf.String()

			// Check exit code
			if exitCode != tt.wantExitCode {
				t.Errorf("PrintError() exit code = %d, want %d", exitCode, tt.wantExitCode)
			}

			// Check error message is present
			if !strings.Contains(output, tt.wantOutput) {
				t.Errorf("PrintError() output missing %q\nGot:\n%s", tt.wantOutput, output)
			}
		})
	}
}

func TestPrintErrorNilError(t *testing.T) {
	// Edge case: nil error should not panic
	exitCode := cli.PrintError(nil)
	if exitCode != 0 {
		t.Errorf("PrintError(nil) exit code = %d, want 0", exitCode)
	}
}

func TestPrintWarning(t *testing.T) {
	tests := []struct {
		name       string
		format     string
		args       []interface{}
		wantOutput string
	}{
		{
			name:       "Simple warning message",
			format:     "This is a test warning",
			args:       nil,
			wantOutput: "WARNING: This is a test warning",
		},
		{
			name:       "Warning with formatting",
			format:     "Unknown scan direction %q, defaulting to alternating",
			args:       []interface{}{"diag"},
			wantOutput: `WARNING: Unknown scan direction "diag", defaulting to alternating`,
		},
		{
			name:       "Warning with multiple parameters",
			format:     "tool_width computed as %d for tool diameter %v",
			args:       []interface{}{0, 4.0},
			wantOutput: "WARNING: tool_width computed as 0 for tool diameter 4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Capture stderr
			oldStderr := os.Stderr
			r, w, _ := os.Pipe()
			os.Stderr = w

			cli.PrintWarning(tt.format, tt.args...)

			w.Close()
			os.Stderr = oldStderr

			var buf bytes.Buffer
			io.Copy(&buf, r)
			output := strings.TrimSpace(buf.String())

			// Check warning message is present
			if !strings.Contains(output, tt.wantOutput) {
				t.Errorf("PrintWarning() output = %q, want to contain %q", output, tt.wantOutput)
			}
		})
	}
}
