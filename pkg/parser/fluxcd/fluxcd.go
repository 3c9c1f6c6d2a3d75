// Package fluxcd parses single-app FluxCD HelmRelease resources into
// canonical release specs. The chart coordinates are given directly
// (repository URL, name, version) with no alias indirection, and inline
// values take the place of values files.
package fluxcd

import (
	"log/slog"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/MichaelVL/helm2yaml/pkg/parser/common"
	"github.com/MichaelVL/helm2yaml/pkg/release"
)

type document struct {
	Metadata struct {
		Namespace string `yaml:"namespace"`
	} `yaml:"metadata"`
	Spec struct {
		ReleaseName string         `yaml:"releaseName"`
		Chart       map[string]any `yaml:"chart"`
		Values      map[string]any `yaml:"values"`
	} `yaml:"spec"`
}

// Parser parses FluxCD HelmRelease documents.
type Parser struct{}

// New creates a FluxCD parser.
func New() *Parser {
	return &Parser{}
}

// Parse emits exactly one release spec. The chart fields are populated
// only when repository, name and version are all present; otherwise the
// spec is emitted with the chart fields unset. This lenient merge is
// deliberate and mirrors the format's historical handling.
func (p *Parser) Parse(path string, doc []byte) ([]release.Spec, error) {
	var d document
	if err := yaml.Unmarshal(doc, &d); err != nil {
		return nil, &common.ParseError{File: path, Reason: "invalid YAML", Err: err}
	}

	spec := release.Spec{
		ReleaseName: d.Spec.ReleaseName,
		Namespace:   d.Metadata.Namespace,
		Overrides:   flatten("", d.Spec.Values),
		ValuesFiles: []string{},
		SourceDir:   filepath.Dir(path),
	}

	repo, repoOK := stringKey(d.Spec.Chart, "repository")
	name, nameOK := stringKey(d.Spec.Chart, "name")
	version, versionOK := stringKey(d.Spec.Chart, "version")
	if repoOK && nameOK && versionOK {
		spec.Repository = repo
		spec.ChartName = name
		spec.ChartVersion = version
	} else {
		slog.Warn("incomplete chart reference, emitting spec with chart fields unset",
			"file", path, "release", spec.ReleaseName)
	}

	return []release.Spec{spec}, nil
}

func stringKey(m map[string]any, key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// flatten turns nested value mappings into dotted-path override keys.
// Scalars and sequences are leaves.
func flatten(prefix string, values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	flattenInto(prefix, values, out)
	return out
}

func flattenInto(prefix string, values map[string]any, out map[string]any) {
	for k, v := range values {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			flattenInto(key, nested, out)
			continue
		}
		out[key] = v
	}
}
