// Package execs runs external commands with structured argument lists.
// Commands are never passed through a shell, so arguments need no quoting
// and cannot be reinterpreted.
package execs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// ErrCommandExecution is returned when command execution fails.
var ErrCommandExecution = errors.New("command execution failed")

// Result holds the captured output of a command execution.
type Result struct {
	Stdout []byte
	Stderr []byte
}

// Runner executes external commands. The production implementation is
// ExecRunner; tests substitute a recording fake.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) (*Result, error)
}

// ExecRunner runs commands via os/exec, capturing stdout and stderr.
type ExecRunner struct{}

// Run executes name with args in dir (the process working directory when
// dir is empty). A non-zero exit or start failure returns an error
// wrapping ErrCommandExecution, with any captured output still attached
// to the Result.
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (*Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("running command", "cmd", name, "args", strings.Join(args, " "))

	err := cmd.Run()
	result := &Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		return result, fmt.Errorf("%w: %s: %w (stderr: %s)",
			ErrCommandExecution, name, err, strings.TrimSpace(stderr.String()))
	}

	return result, nil
}
