/*
Copyright © 2026 The helm2yaml Authors
SPDX-License-Identifier: Apache-2.0
*/

package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/MichaelVL/helm2yaml/pkg/logging"
)

// version is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/MichaelVL/helm2yaml/pkg/cli.version=1.0.0'"
var version = "dev"

// specFileFlag is the repeatable input file flag shared by the
// subcommands. Each file is parsed independently.
var specFileFlag = &cli.StringSliceFlag{
	Name:    "file",
	Aliases: []string{"f"},
	Usage:   "Deployment spec to translate (repeatable). Supports file paths, HTTP/HTTPS URLs, or ConfigMap URIs (cm://namespace/name).",
}

var kubeconfigFlag = &cli.StringFlag{
	Name:    "kubeconfig",
	Usage:   "Path to kubeconfig file (for cm:// spec sources)",
	Sources: cli.EnvVars("KUBECONFIG"),
}

// New creates the root command with all subcommands attached.
func New() *cli.Command {
	return &cli.Command{
		Name:                  "helm2yaml",
		Usage:                 "Translate GitOps deployment specs into rendered Kubernetes manifests",
		Version:               version,
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "INFO",
				Usage:   "Log verbosity (DEBUG, INFO, WARNING, ERROR, CRITICAL)",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "Output logs in JSON format",
			},
			&cli.StringFlag{
				Name:  "render-to",
				Usage: "Destination for rendered manifests: file path or '-' for stdout (default: stdout)",
			},
			&cli.StringFlag{
				Name:  "render-namespace-to",
				Usage: "Destination for synthesized Namespace manifests, one per release; omit to skip namespace output",
			},
			&cli.StringFlag{
				Name:    "helm-bin",
				Aliases: []string{"b"},
				Value:   "helm",
				Usage:   "Helm binary to invoke for chart fetch and template",
			},
			&cli.StringFlag{
				Name:  "helm-init-args",
				Usage: "Arguments for a one-time 'helm init' before rendering (Helm 2 compatibility); empty disables init",
			},
			&cli.StringFlag{
				Name:  "kube-version",
				Usage: "Kubernetes version passed to the template render",
			},
			&cli.StringSliceFlag{
				Name:  "api-versions",
				Usage: "Kubernetes API version compatibility string (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "plain-http",
				Usage: "Use HTTP instead of HTTPS for OCI chart registries (for local development)",
			},
			&cli.Float64Flag{
				Name:  "fetch-qps",
				Usage: "Rate limit for chart fetches in fetches per second; 0 disables limiting",
			},
			kubeconfigFlag,
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if err := logging.Setup(cmd.String("log-level"), cmd.Bool("log-json")); err != nil {
				return ctx, err
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			helmsmanCmd(),
			fluxcdCmd(),
		},
	}
}
