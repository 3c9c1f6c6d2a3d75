package renderer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Context is the run-scoped state shared by every spec in a render run:
// one temporary working directory holding fetched charts and materialized
// values files. Created once at run start and released at run end.
type Context struct {
	// ID identifies the run in logs.
	ID string

	// WorkDir is the temporary working directory for this run.
	WorkDir string
}

// NewContext creates the working directory for a render run.
func NewContext() (*Context, error) {
	dir, err := os.MkdirTemp("", "helm2yaml-")
	if err != nil {
		return nil, fmt.Errorf("create working directory: %w", err)
	}

	c := &Context{
		ID:      uuid.New().String(),
		WorkDir: dir,
	}
	slog.Debug("created render context", "run_id", c.ID, "workdir", dir)
	return c, nil
}

// ChartsDir is where fetched charts are unpacked, one subdirectory per
// chart name. Specs with colliding chart names within a run overwrite
// each other here; last writer wins.
func (c *Context) ChartsDir() string {
	return filepath.Join(c.WorkDir, "charts")
}

// Close removes the working directory. Best effort: a failure is logged,
// not returned, since the run's output is already emitted by then.
func (c *Context) Close() {
	if err := os.RemoveAll(c.WorkDir); err != nil {
		slog.Warn("failed to remove working directory", "workdir", c.WorkDir, "error", err)
	}
}
