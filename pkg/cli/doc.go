/*
Copyright © 2026 The helm2yaml Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package cli implements the command-line interface for helm2yaml.
//
// # Overview
//
// helm2yaml translates declarative GitOps deployment specs into rendered
// Kubernetes manifests. Each subcommand selects an input schema; all of
// them normalize their input into release specs and drive the same
// render pipeline: fetch the chart, interpolate values, run the external
// helm template render, and write the output to the configured sinks.
//
// # Commands
//
// helmsman - Render Helmsman desired-state files:
//
//	helm2yaml helmsman -f desired-state.yaml
//	helm2yaml --render-to manifests.yaml helmsman -f infra.yaml -f apps.yaml
//	helm2yaml helmsman -f state.yaml --apply --no-banner  # compat flags ignored
//
// A desired-state file defines named chart repositories (helmRepos) and a
// set of apps referencing them as "alias/chart". Disabled apps are
// skipped; an app referencing an unknown alias fails its file with a
// suggestion for the closest known alias.
//
// fluxcd - Render FluxCD HelmRelease resources:
//
//	helm2yaml fluxcd -f release.yaml
//	helm2yaml --kube-version 1.29 fluxcd -f release.yaml
//
// Each HelmRelease yields one release; its nested values block is
// flattened into dotted-path overrides.
//
// # Input Sources
//
// The repeatable -f flag accepts file paths, HTTP/HTTPS URLs, and
// Kubernetes ConfigMap URIs (cm://namespace/name or
// cm://namespace/name/key). Files are parsed independently: a broken
// file is logged and skipped, the remaining files still render, and the
// run exits non-zero.
//
// # Global Flags
//
//	--log-level, -l        Log verbosity (default: INFO)
//	--log-json             Output logs in JSON format
//	--render-to            Manifest destination: file path or '-' (default: stdout)
//	--render-namespace-to  Destination for synthesized Namespace manifests
//	--helm-bin, -b         Helm binary (default: helm)
//	--helm-init-args       One-time 'helm init' arguments (Helm 2 compatibility)
//	--kube-version         Kubernetes version for the template render
//	--api-versions         API version compatibility string (repeatable)
//	--plain-http           HTTP for OCI chart registries (local development)
//	--fetch-qps            Chart fetch rate limit, fetches per second
//	--kubeconfig           Kubeconfig path for cm:// sources
//
// # Environment Variables
//
//	LOG_LEVEL     Set logging verbosity
//	KUBECONFIG    Path to kubeconfig file
//
// References of the form $NAME or ${NAME} inside values files and
// string-valued overrides are replaced from the process environment;
// unknown references pass through verbatim and $$ yields a literal $.
//
// # Exit Codes
//
//	0  Success
//	1  General error (invalid arguments, load/parse failure, render failure)
//
// # Architecture
//
// The CLI uses the urfave/cli/v3 framework and delegates to specialized
// packages:
//   - pkg/parser - Input schema parsing into release specs
//   - pkg/source - Spec loading from files, URLs and ConfigMaps
//   - pkg/renderer - Chart fetch and template render pipeline
//   - pkg/sink - Manifest output routing
//   - pkg/logging - Structured logging
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/MichaelVL/helm2yaml/pkg/cli.version=1.0.0'"
package cli
