/*
Copyright © 2026 The helm2yaml Authors
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/MichaelVL/helm2yaml/pkg/parser/common"
)

func fluxcdCmd() *cli.Command {
	return &cli.Command{
		Name:                  "fluxcd",
		EnableShellCompletion: true,
		Usage:                 "Render releases from FluxCD HelmRelease resources",
		Description: `Translates FluxCD HelmRelease custom resources into rendered manifests.
Each file holds one resource and yields exactly one release; nested values
are flattened into dotted-path overrides for the render.

# Examples

Render a HelmRelease to stdout:
  helm2yaml fluxcd -f release.yaml

Render with a pinned Kubernetes version:
  helm2yaml --kube-version 1.29 fluxcd -f release.yaml`,
		Flags: []cli.Flag{
			specFileFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(ctx, cmd, common.FormatFluxCD)
		},
	}
}
