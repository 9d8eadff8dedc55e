package adapters

import (
	"fmt"
	"io"
	"os"
	"sync"

	"resume-parser/internal/logging/types"
)

// StreamConfig configures an adapter that writes to a process stream
type StreamConfig struct {
	Format    string `yaml:"format"`    // json or text
	Colorized bool   `yaml:"colorized"` // only applies to text
}

// StreamAdapter writes one line per entry to an io.Writer
type StreamAdapter struct {
	name   string
	config StreamConfig
	out    io.Writer
	mu     sync.Mutex
}

// NewStdoutAdapter writes entries to the process stdout
func NewStdoutAdapter(name string, config StreamConfig) *StreamAdapter {
	return NewStreamAdapter(name, os.Stdout, config)
}

// NewStderrAdapter writes entries to the process stderr
func NewStderrAdapter(name string, config StreamConfig) *StreamAdapter {
	return NewStreamAdapter(name, os.Stderr, config)
}

// NewStreamAdapter writes entries to out
func NewStreamAdapter(name string, out io.Writer, config StreamConfig) *StreamAdapter {
	return &StreamAdapter{name: name, config: config, out: out}
}

func (a *StreamAdapter) Write(entry *types.LogEntry) error {
	line, err := formatEntry(a.config.Format, entry, a.config.Colorized)
	if err != nil {
		return fmt.Errorf("failed to format log entry: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	_, err = fmt.Fprintln(a.out, line)
	return err
}

func (a *StreamAdapter) Close() error { return nil }

func (a *StreamAdapter) Health() error { return nil }

func (a *StreamAdapter) Name() string { return a.name }
