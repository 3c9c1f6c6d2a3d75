// Package parser selects spec parsers by format tag. The set of parsers
// is closed: every supported format is registered at construction time.
package parser

import (
	"sync"

	"github.com/MichaelVL/helm2yaml/pkg/parser/common"
	"github.com/MichaelVL/helm2yaml/pkg/parser/fluxcd"
	"github.com/MichaelVL/helm2yaml/pkg/parser/helmsman"
)

// Registry manages registered parsers with thread-safe operations.
type Registry struct {
	parsers map[common.Format]common.Parser

	mu sync.RWMutex
}

// NewRegistry creates a Registry holding all supported format parsers.
func NewRegistry() *Registry {
	return &Registry{
		parsers: map[common.Format]common.Parser{
			common.FormatHelmsman: helmsman.New(),
			common.FormatFluxCD:   fluxcd.New(),
		},
	}
}

// Get retrieves a parser by format from this registry.
func (r *Registry) Get(format common.Format) (common.Parser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.parsers[format]
	return p, ok
}

// List returns all registered formats.
func (r *Registry) List() []common.Format {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]common.Format, 0, len(r.parsers))
	for f := range r.parsers {
		formats = append(formats, f)
	}
	return formats
}
