// Package oci pulls Helm charts stored as OCI artifacts. Repositories
// with an oci:// URL bypass the external helm fetch and are read directly
// from the registry.
package oci

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/distribution/reference"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content"
	"oras.land/oras-go/v2/registry/remote"
)

// Scheme is the repository URL scheme selecting OCI chart distribution.
const Scheme = "oci://"

// ChartContentMediaType is the media type of the Helm chart content layer.
const ChartContentMediaType = "application/vnd.cncf.helm.chart.content.v1.tar+gzip"

// maxChartSize bounds chart layer downloads.
const maxChartSize = 256 << 20

// PullOptions configures registry access for a pull.
type PullOptions struct {
	// PlainHTTP uses HTTP instead of HTTPS (for local registries).
	PlainHTTP bool
}

// ChartReference builds and validates the registry reference for a chart
// in an oci:// repository, e.g. "oci://ghcr.io/org" + "nginx" + "1.2.3"
// -> "ghcr.io/org/nginx:1.2.3".
func ChartReference(repoURL, name, version string) (string, error) {
	base := strings.TrimSuffix(strings.TrimPrefix(repoURL, Scheme), "/")
	refStr := base + "/" + name

	named, err := reference.ParseNormalizedNamed(refStr)
	if err != nil {
		return "", fmt.Errorf("invalid OCI chart reference %q: %w", refStr, err)
	}
	if _, err := reference.WithTag(named, version); err != nil {
		return "", fmt.Errorf("invalid chart version tag %q: %w", version, err)
	}

	return refStr + ":" + version, nil
}

// Pull fetches the chart artifact and untars its content layer under
// destDir, producing destDir/<chart>/ like a helm fetch --untar would.
func Pull(ctx context.Context, repoURL, name, version, destDir string, opts PullOptions) error {
	ref, err := ChartReference(repoURL, name, version)
	if err != nil {
		return err
	}

	refNoTag := ref[:strings.LastIndex(ref, ":")]
	repo, err := remote.NewRepository(refNoTag)
	if err != nil {
		return fmt.Errorf("open OCI repository %s: %w", refNoTag, err)
	}
	repo.PlainHTTP = opts.PlainHTTP

	slog.Debug("pulling OCI chart", "reference", ref)

	manifestDesc, manifestData, err := oras.FetchBytes(ctx, repo, ref, oras.DefaultFetchBytesOptions)
	if err != nil {
		return fmt.Errorf("fetch OCI manifest for %s: %w", ref, err)
	}

	var man ocispec.Manifest
	if err := json.Unmarshal(manifestData, &man); err != nil {
		return fmt.Errorf("decode OCI manifest for %s: %w", ref, err)
	}

	layer, err := chartLayer(man)
	if err != nil {
		return fmt.Errorf("%s: %w", ref, err)
	}
	if layer.Size > maxChartSize {
		return fmt.Errorf("%s: chart layer is %d bytes, refusing to pull", ref, layer.Size)
	}

	chart, err := content.FetchAll(ctx, repo.Blobs(), layer)
	if err != nil {
		return fmt.Errorf("fetch chart layer for %s: %w", ref, err)
	}

	if err := untar(chart, destDir); err != nil {
		return fmt.Errorf("extract chart %s: %w", ref, err)
	}

	slog.Debug("pulled OCI chart", "reference", ref,
		"digest", manifestDesc.Digest.String(), "size_bytes", layer.Size)
	return nil
}

// chartLayer finds the Helm chart content layer in an artifact manifest.
func chartLayer(man ocispec.Manifest) (ocispec.Descriptor, error) {
	for _, l := range man.Layers {
		if l.MediaType == ChartContentMediaType {
			return l, nil
		}
	}
	return ocispec.Descriptor{}, fmt.Errorf("artifact has no layer with media type %s", ChartContentMediaType)
}

// untar extracts a gzipped chart tarball under destDir, rejecting entries
// that would escape it.
func untar(data []byte, destDir string) error {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("chart layer is not gzip: %w", err)
	}
	defer gz.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read chart tarball: %w", err)
		}

		target, err := secureJoin(destDir, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(hdr.Mode)&0o777)
			if err != nil {
				return err
			}
			if _, err := io.Copy(f, tr); err != nil { //nolint:gosec // size bounded by maxChartSize
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
		default:
			// Charts contain only files and directories; skip anything else.
			slog.Debug("skipping tar entry", "name", hdr.Name, "type", hdr.Typeflag)
		}
	}
}

func secureJoin(destDir, name string) (string, error) {
	target := filepath.Join(destDir, filepath.Clean(name))
	if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("chart entry %q escapes extraction directory", name)
	}
	return target, nil
}
