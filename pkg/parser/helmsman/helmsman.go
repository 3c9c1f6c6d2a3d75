// Package helmsman parses multi-app Helmsman desired-state files into
// canonical release specs. The format carries its own repository table
// (helmRepos) and references charts as "<alias>/<chart>"; the parser
// resolves every alias to a concrete URL before emitting a spec.
package helmsman

import (
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
	"gopkg.in/yaml.v3"

	"github.com/MichaelVL/helm2yaml/pkg/parser/common"
	"github.com/MichaelVL/helm2yaml/pkg/release"
)

// maxSuggestionDistance bounds how far an alias may be from a registered
// repository name before we stop suggesting it.
const maxSuggestionDistance = 3

type document struct {
	HelmRepos map[string]string `yaml:"helmRepos"`
	Apps      map[string]app    `yaml:"apps"`
}

type app struct {
	Chart       string         `yaml:"chart"`
	Version     string         `yaml:"version"`
	Namespace   string         `yaml:"namespace"`
	Enabled     bool           `yaml:"enabled"`
	Set         map[string]any `yaml:"set"`
	ValuesFiles []string       `yaml:"valuesFiles"`
}

// Parser parses Helmsman desired-state documents.
type Parser struct{}

// New creates a Helmsman parser.
func New() *Parser {
	return &Parser{}
}

// Parse emits one release spec per enabled app, in app-name order.
// An app whose chart references an unknown repository alias fails the
// whole document with a ParseError, even if the app is disabled.
func (p *Parser) Parse(path string, doc []byte) ([]release.Spec, error) {
	var d document
	if err := yaml.Unmarshal(doc, &d); err != nil {
		return nil, &common.ParseError{File: path, Reason: "invalid YAML", Err: err}
	}

	dir := filepath.Dir(path)
	slog.Debug("loaded helmsman spec", "file", path, "dir", dir, "apps", len(d.Apps))

	specs := make([]release.Spec, 0, len(d.Apps))
	for _, name := range slices.Sorted(maps.Keys(d.Apps)) {
		a := d.Apps[name]

		alias, chart, _ := strings.Cut(a.Chart, "/")
		repo, ok := d.HelmRepos[alias]
		if !ok {
			reason := fmt.Sprintf("repo %q not found", alias)
			if s := closestAlias(alias, d.HelmRepos); s != "" {
				reason = fmt.Sprintf("%s (did you mean %q?)", reason, s)
			}
			return nil, &common.ParseError{File: path, Reason: reason}
		}

		if !a.Enabled {
			slog.Info("skipping disabled deployment", "app", name)
			continue
		}

		if chart == "" {
			return nil, &common.ParseError{File: path,
				Reason: fmt.Sprintf("app %q: chart %q has no chart name after the repository alias", name, a.Chart)}
		}
		if a.Version == "" {
			return nil, &common.ParseError{File: path,
				Reason: fmt.Sprintf("app %q: missing chart version", name)}
		}

		overrides := a.Set
		if overrides == nil {
			overrides = map[string]any{}
		}
		valuesFiles := a.ValuesFiles
		if valuesFiles == nil {
			valuesFiles = []string{}
		}

		specs = append(specs, release.Spec{
			ReleaseName:  name,
			Namespace:    a.Namespace,
			Repository:   repo,
			ChartName:    chart,
			ChartVersion: a.Version,
			Overrides:    overrides,
			ValuesFiles:  valuesFiles,
			SourceDir:    dir,
		})
	}

	return specs, nil
}

// closestAlias returns the registered repository alias nearest to the
// unknown one, or "" when nothing is plausibly close.
func closestAlias(alias string, repos map[string]string) string {
	best := ""
	bestDist := maxSuggestionDistance + 1
	for _, candidate := range slices.Sorted(maps.Keys(repos)) {
		if d := levenshtein.ComputeDistance(alias, candidate); d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}
