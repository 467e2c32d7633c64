package gcode

import (
	"bufio"
	"fmt"
	"io"
)

// BufferedWriter wraps a buffered writer for incremental GCode writing
type BufferedWriter struct {
	writer    *bufio.Writer
	lineCount int
}

// NewBufferedWriter creates a new buffered writer for GCode files
func NewBufferedWriter(w io.Writer) *BufferedWriter {
	return &BufferedWriter{
		writer: bufio.NewWriter(w),
	}
}

// WriteLine writes a single line to the buffer
func (bw *BufferedWriter) WriteLine(line string) error {
	if _, err := bw.writer.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("failed to write line: %w", err)
	}

	bw.lineCount++

	// Auto-flush every 1000 lines
	if bw.lineCount%1000 == 0 {
		if err := bw.writer.Flush(); err != nil {
			return fmt.Errorf("failed to auto-flush: %w", err)
		}
	}

	return nil
}

// Flush ensures all buffered data is written
func (bw *BufferedWriter) Flush() error {
	if err := bw.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush: %w", err)
	}
	return nil
}

// LineCount returns the number of lines written
func (bw *BufferedWriter) LineCount() int {
	return bw.lineCount
}
