/*
Copyright © 2026 The helm2yaml Authors
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/MichaelVL/helm2yaml/pkg/parser"
	"github.com/MichaelVL/helm2yaml/pkg/parser/common"
	"github.com/MichaelVL/helm2yaml/pkg/release"
	"github.com/MichaelVL/helm2yaml/pkg/renderer"
	"github.com/MichaelVL/helm2yaml/pkg/sink"
	"github.com/MichaelVL/helm2yaml/pkg/source"
)

// maxConcurrentLoads bounds concurrent spec file loads. Parsing is
// cheap; this mostly limits in-flight HTTP and API server requests.
const maxConcurrentLoads = 4

// run is the shared action behind the subcommands: load and parse the
// input files for the given format, then render every resulting release
// spec through one pipeline run.
func run(ctx context.Context, cmd *cli.Command, format common.Format) error {
	files := cmd.StringSlice("file")
	if len(files) == 0 {
		return fmt.Errorf("no input files, use -f to name at least one %s spec", format)
	}

	p, ok := parser.NewRegistry().Get(format)
	if !ok {
		return fmt.Errorf("no parser registered for format %q", format)
	}

	specs, parseErr := parseFiles(ctx, cmd, p, files)
	if len(specs) == 0 {
		if parseErr != nil {
			return parseErr
		}
		slog.Warn("no enabled releases found in input files", "files", len(files))
		return nil
	}

	if err := render(ctx, cmd, specs); err != nil {
		return err
	}

	// Parse failures surface after the good files have rendered, so one
	// broken file does not hide the others' output.
	return parseErr
}

// parseFiles loads and parses each input file independently. Files are
// fetched concurrently but the returned specs keep file order. A file
// that fails to load or parse is logged and reported in the joined
// error; it never blocks the other files.
func parseFiles(ctx context.Context, cmd *cli.Command, p common.Parser, files []string) ([]release.Spec, error) {
	loader := &source.Loader{Kubeconfig: cmd.String("kubeconfig")}

	perFile := make([][]release.Spec, len(files))
	errs := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for i, file := range files {
		g.Go(func() error {
			doc, err := loader.Load(gctx, file)
			if err != nil {
				errs[i] = fmt.Errorf("load %s: %w", file, err)
				return nil
			}
			specs, err := p.Parse(file, doc)
			if err != nil {
				errs[i] = err
				return nil
			}
			perFile[i] = specs
			return nil
		})
	}
	_ = g.Wait() // goroutines report through errs

	var specs []release.Spec
	for i := range files {
		if errs[i] != nil {
			slog.Error("skipping input file", "file", files[i], "error", errs[i])
			continue
		}
		specs = append(specs, perFile[i]...)
	}

	return specs, errors.Join(errs...)
}

func render(ctx context.Context, cmd *cli.Command, specs []release.Spec) error {
	runCtx, err := renderer.NewContext()
	if err != nil {
		return err
	}
	defer runCtx.Close()

	manifests, err := sink.New(cmd.String("render-to"))
	if err != nil {
		return err
	}
	defer manifests.Close()

	cfg := renderer.NewConfig(
		renderer.WithHelmBin(cmd.String("helm-bin")),
		renderer.WithHelmInitArgs(cmd.String("helm-init-args")),
		renderer.WithKubeVersion(cmd.String("kube-version")),
		renderer.WithAPIVersions(cmd.StringSlice("api-versions")),
		renderer.WithPlainHTTP(cmd.Bool("plain-http")),
		renderer.WithFetchRate(cmd.Float64("fetch-qps")),
	)

	slog.Info("rendering releases",
		"run_id", runCtx.ID,
		"releases", len(specs),
		"manifest_sink", manifests.Name(),
	)

	if !cmd.IsSet("render-namespace-to") {
		return renderer.New(cfg, runCtx).Run(ctx, specs, manifests, nil)
	}

	namespaces, err := sink.New(cmd.String("render-namespace-to"))
	if err != nil {
		return err
	}
	defer namespaces.Close()

	return renderer.New(cfg, runCtx).Run(ctx, specs, manifests, namespaces)
}
