// Package renderer drives the external chart tooling for a sequence of
// release specs: fetch the chart, materialize interpolated values files,
// run the template render, and route the output to the configured sinks.
//
// Processing is strictly sequential and fail-fast: specs render one at a
// time in input order, and any failure aborts the remaining specs.
package renderer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/text/encoding/unicode"

	"github.com/MichaelVL/helm2yaml/pkg/envsubst"
	"github.com/MichaelVL/helm2yaml/pkg/manifest"
	"github.com/MichaelVL/helm2yaml/pkg/oci"
	"github.com/MichaelVL/helm2yaml/pkg/release"
)

// Pipeline renders release specs within one run context.
type Pipeline struct {
	cfg *Config
	run *Context
}

// New creates a Pipeline over the given run context.
func New(cfg *Config, run *Context) *Pipeline {
	return &Pipeline{cfg: cfg, run: run}
}

// Run processes specs in order. Rendered manifests are written to
// manifests; when namespaces is non-nil, a synthesized Namespace resource
// is written there for each spec. The first failure aborts the run.
func (p *Pipeline) Run(ctx context.Context, specs []release.Spec, manifests, namespaces io.Writer) error {
	if err := p.helmInit(ctx); err != nil {
		return err
	}

	for i := range specs {
		if err := p.renderOne(ctx, &specs[i], manifests, namespaces); err != nil {
			return err
		}
	}

	return nil
}

func (p *Pipeline) renderOne(ctx context.Context, s *release.Spec, manifests, namespaces io.Writer) error {
	if s.ChartName == "" || s.ChartVersion == "" {
		return fmt.Errorf("release %q has no chart coordinates, cannot render", s.ReleaseName)
	}

	if err := p.fetch(ctx, s); err != nil {
		return err
	}

	args, err := p.templateArgs(s)
	if err != nil {
		return err
	}

	timer := prometheus.NewTimer(renderDuration)
	res, err := p.cfg.runner.Run(ctx, "", p.cfg.helmBin, args...)
	timer.ObserveDuration()
	if err != nil {
		renderTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("render release %q: %w", s.ReleaseName, err)
	}
	renderTotal.WithLabelValues("success").Inc()

	text := decodeOutput(res.Stdout)
	kinds := manifest.Summarize(text)
	slog.Info("rendered release",
		"run_id", p.run.ID,
		"release", s.ReleaseName,
		"namespace", s.Namespace,
		"chart", s.ChartName,
		"version", s.ChartVersion,
		"resources", manifest.Count(kinds),
	)

	if _, err := io.WriteString(manifests, text+"\n"); err != nil {
		return fmt.Errorf("write rendered manifests for %q: %w", s.ReleaseName, err)
	}

	if namespaces != nil {
		ns, err := manifest.Namespace(s.Namespace)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(namespaces, ns+"\n"); err != nil {
			return fmt.Errorf("write namespace manifest for %q: %w", s.ReleaseName, err)
		}
	}

	return nil
}

// fetch materializes the chart under <workdir>/charts/<chart>. A failure
// is fatal for the whole run; there is no retry.
func (p *Pipeline) fetch(ctx context.Context, s *release.Spec) error {
	if err := p.cfg.fetchLimit.Wait(ctx); err != nil {
		return err
	}

	timer := prometheus.NewTimer(chartFetchDuration)
	defer timer.ObserveDuration()

	var err error
	if strings.HasPrefix(s.Repository, oci.Scheme) {
		err = oci.Pull(ctx, s.Repository, s.ChartName, s.ChartVersion, p.run.ChartsDir(),
			oci.PullOptions{PlainHTTP: p.cfg.plainHTTP})
	} else {
		args := []string{
			"fetch", "--untar",
			"--untardir", p.run.ChartsDir(),
			"--repo", s.Repository,
			"--version", s.ChartVersion,
			s.ChartName,
		}
		_, err = p.cfg.runner.Run(ctx, "", p.cfg.helmBin, args...)
	}

	if err != nil {
		chartFetchTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("fetch chart %s version %s from %s: %w",
			s.ChartName, s.ChartVersion, s.Repository, err)
	}
	chartFetchTotal.WithLabelValues("success").Inc()
	return nil
}

// templateArgs builds the render argument list and materializes the
// spec's values files into the working directory. Argument order is a
// user-visible contract: overrides then values files, each in their own
// order, chart path last.
func (p *Pipeline) templateArgs(s *release.Spec) ([]string, error) {
	args := []string{"template", s.ReleaseName, "--namespace", s.Namespace}

	if p.cfg.kubeVersion != "" {
		args = append(args, "--kube-version", p.cfg.kubeVersion)
	}
	for _, av := range p.cfg.apiVersions {
		args = append(args, "--api-versions", av)
	}

	// Override keys are sorted: YAML mappings carry no order through
	// decoding, and the flag order must be reproducible across runs.
	for _, k := range slices.Sorted(maps.Keys(s.Overrides)) {
		args = append(args, "--set", k+"="+p.overrideValue(s.Overrides[k]))
	}

	for _, vf := range s.ValuesFiles {
		path, err := p.materializeValuesFile(s, vf)
		if err != nil {
			return nil, err
		}
		args = append(args, "--values", path)
	}

	return append(args, filepath.Join(p.run.ChartsDir(), s.ChartName)), nil
}

// overrideValue renders an override as flag text. Strings pass through
// environment interpolation; other scalars use their natural form.
func (p *Pipeline) overrideValue(v any) string {
	if s, ok := v.(string); ok {
		return envsubst.Expand(s, p.cfg.env)
	}
	return fmt.Sprintf("%v", v)
}

// materializeValuesFile copies one values file from the spec's source
// directory into the working directory, interpolating environment
// references into the copy. The source file is never modified.
func (p *Pipeline) materializeValuesFile(s *release.Spec, relPath string) (string, error) {
	src := filepath.Join(s.SourceDir, relPath)
	data, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("read values file %s: %w", src, err)
	}

	expanded := envsubst.Expand(string(data), p.cfg.env)
	slog.Debug("materialized values file", "source", src, "size_bytes", len(expanded))

	dst := filepath.Join(p.run.WorkDir, relPath)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("prepare values directory: %w", err)
	}
	if err := os.WriteFile(dst, []byte(expanded), 0o644); err != nil {
		return "", fmt.Errorf("write values file %s: %w", dst, err)
	}

	return dst, nil
}

// helmInit runs a one-time helm init when configured. Helm 2 required
// client initialization before any fetch; with Helm 3 this never runs.
func (p *Pipeline) helmInit(ctx context.Context) error {
	if len(p.cfg.helmInitArgs) == 0 {
		return nil
	}

	args := append([]string{"init"}, p.cfg.helmInitArgs...)
	if _, err := p.cfg.runner.Run(ctx, "", p.cfg.helmBin, args...); err != nil {
		return fmt.Errorf("helm init: %w", err)
	}
	return nil
}

// decodeOutput converts captured command output to text. Invalid byte
// sequences are replaced rather than failing the run.
func decodeOutput(b []byte) string {
	out, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}
