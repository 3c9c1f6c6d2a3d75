// Package release defines the canonical chart-release model shared by all
// spec parsers and the render pipeline.
package release

// Spec describes one chart release to render. Every parser produces Specs
// in this shape regardless of the input format, so the render pipeline is
// schema-agnostic.
//
// A Spec is created by a parser, consumed once by the pipeline, and not
// mutated in between.
type Spec struct {
	// ReleaseName identifies the release, unique within one invocation.
	ReleaseName string

	// Namespace is the target Kubernetes namespace.
	Namespace string

	// Repository is the concrete chart repository URL. Parsers resolve
	// repository aliases before emitting a Spec; this is never an alias.
	Repository string

	// ChartName is the chart name within the repository.
	ChartName string

	// ChartVersion is the chart version. Treated as an opaque string.
	ChartVersion string

	// Overrides maps dotted-path keys to scalar values, rendered as
	// --set key=value flags. String values may contain environment
	// substitution tokens.
	Overrides map[string]any

	// ValuesFiles lists values files as paths relative to SourceDir,
	// in the order they were declared. Resolution happens at render
	// time, not at parse time.
	ValuesFiles []string

	// SourceDir is the directory the spec document was loaded from,
	// used to resolve relative ValuesFiles entries.
	SourceDir string
}
