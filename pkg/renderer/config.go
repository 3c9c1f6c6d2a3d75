package renderer

import (
	"strings"

	"golang.org/x/time/rate"

	"github.com/MichaelVL/helm2yaml/pkg/envsubst"
	"github.com/MichaelVL/helm2yaml/pkg/execs"
)

// defaultHelmBin is the helm binary name resolved via PATH.
const defaultHelmBin = "helm"

// Config controls pipeline behavior. Construct with NewConfig; the zero
// value is not usable.
type Config struct {
	helmBin      string
	helmInitArgs []string
	kubeVersion  string
	apiVersions  []string
	plainHTTP    bool
	fetchLimit   *rate.Limiter
	runner       execs.Runner
	env          map[string]string
}

// Option customizes a Config.
type Option func(*Config)

// NewConfig creates a pipeline configuration with the given options
// applied over defaults: helm from PATH, unlimited fetch rate, the real
// command runner, and the process environment for interpolation.
func NewConfig(opts ...Option) *Config {
	cfg := &Config{
		helmBin:    defaultHelmBin,
		fetchLimit: rate.NewLimiter(rate.Inf, 0),
		runner:     execs.ExecRunner{},
		env:        envsubst.Environ(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithHelmBin sets the helm binary path. Empty keeps the default.
func WithHelmBin(bin string) Option {
	return func(c *Config) {
		if bin != "" {
			c.helmBin = bin
		}
	}
}

// WithHelmInitArgs sets arguments for a one-time helm init invocation
// before the run, for Helm 2 compatibility. The empty string disables
// init entirely (Helm 3 has no init).
func WithHelmInitArgs(args string) Option {
	return func(c *Config) {
		c.helmInitArgs = strings.Fields(args)
	}
}

// WithKubeVersion sets the Kubernetes version passed to the render.
func WithKubeVersion(version string) Option {
	return func(c *Config) {
		c.kubeVersion = version
	}
}

// WithAPIVersions sets Kubernetes API version compatibility strings
// passed to the render.
func WithAPIVersions(versions []string) Option {
	return func(c *Config) {
		c.apiVersions = versions
	}
}

// WithPlainHTTP uses HTTP for OCI registries (local development).
func WithPlainHTTP(plain bool) Option {
	return func(c *Config) {
		c.plainHTTP = plain
	}
}

// WithFetchRate limits chart fetches to qps per second. Zero or negative
// keeps fetches unlimited.
func WithFetchRate(qps float64) Option {
	return func(c *Config) {
		if qps > 0 {
			c.fetchLimit = rate.NewLimiter(rate.Limit(qps), 1)
		}
	}
}

// WithRunner substitutes the command runner. Used by tests.
func WithRunner(r execs.Runner) Option {
	return func(c *Config) {
		c.runner = r
	}
}

// WithEnv substitutes the interpolation environment. Used by tests.
func WithEnv(env map[string]string) Option {
	return func(c *Config) {
		c.env = env
	}
}

// HelmBin returns the configured helm binary.
func (c *Config) HelmBin() string { return c.helmBin }

// KubeVersion returns the configured Kubernetes version, if any.
func (c *Config) KubeVersion() string { return c.kubeVersion }
