// Package sink routes rendered manifest text to its destination: a file
// (truncated on open) or the process's standard output.
package sink

import (
	"fmt"
	"io"
	"os"
)

// StdoutDest is the destination value selecting standard output. An empty
// destination selects standard output as well.
const StdoutDest = "-"

// Sink is an output destination, opened once per run and kept open across
// all specs that write to it.
type Sink interface {
	io.WriteCloser

	// Name describes the destination for logging.
	Name() string
}

// New opens the sink for dest. "" and "-" select standard output; any
// other value is created as a file, replacing existing content.
func New(dest string) (Sink, error) {
	if dest == "" || dest == StdoutDest {
		return stdoutSink{}, nil
	}

	f, err := os.Create(dest)
	if err != nil {
		return nil, fmt.Errorf("open render destination %s: %w", dest, err)
	}
	return &fileSink{f: f}, nil
}

type stdoutSink struct{}

func (stdoutSink) Write(p []byte) (int, error) { return os.Stdout.Write(p) }

// Close is a no-op: stdout is not ours to close.
func (stdoutSink) Close() error { return nil }

func (stdoutSink) Name() string { return "stdout" }

type fileSink struct {
	f *os.File
}

func (s *fileSink) Write(p []byte) (int, error) { return s.f.Write(p) }

func (s *fileSink) Close() error { return s.f.Close() }

func (s *fileSink) Name() string { return s.f.Name() }
