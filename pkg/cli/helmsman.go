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

func helmsmanCmd() *cli.Command {
	return &cli.Command{
		Name:                  "helmsman",
		EnableShellCompletion: true,
		Usage:                 "Render releases from Helmsman desired-state files",
		Description: `Translates Helmsman desired-state files into rendered manifests. Each file
may define multiple apps; apps resolve their chart repository through the
file's helmRepos aliases, and disabled apps are skipped.

# Examples

Render a single desired-state file to stdout:
  helm2yaml helmsman -f desired-state.yaml

Render several files into one manifest stream:
  helm2yaml --render-to manifests.yaml helmsman -f infra.yaml -f apps.yaml

Emit Namespace manifests alongside the releases:
  helm2yaml --render-to manifests.yaml --render-namespace-to namespaces.yaml \
    helmsman -f desired-state.yaml

The --apply, --no-banner and --keep-untracked-releases flags are accepted
and ignored so helm2yaml can be swapped in where Helmsman itself is the
configured command.`,
		Flags: []cli.Flag{
			specFileFlag,
			&cli.BoolFlag{
				Name:  "apply",
				Usage: "Dummy, for compatibility with Helmsman",
			},
			&cli.BoolFlag{
				Name:  "no-banner",
				Usage: "Dummy, for compatibility with Helmsman",
			},
			&cli.BoolFlag{
				Name:  "keep-untracked-releases",
				Usage: "Dummy, for compatibility with Helmsman",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(ctx, cmd, common.FormatHelmsman)
		},
	}
}
