// Package manifest synthesizes auxiliary Kubernetes manifests and
// inspects rendered manifest streams.
package manifest

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/namespace.yaml.tmpl
var namespaceTemplate string

// Namespace renders a minimal Namespace resource manifest for name.
// Helm creates release namespaces implicitly on install; when manifests
// are only rendered, the namespace has to be emitted explicitly.
func Namespace(name string) (string, error) {
	tmpl, err := template.New("namespace").Parse(namespaceTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse namespace template: %w", err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, struct{ Name string }{Name: name}); err != nil {
		return "", fmt.Errorf("failed to render namespace manifest: %w", err)
	}

	return buf.String(), nil
}
