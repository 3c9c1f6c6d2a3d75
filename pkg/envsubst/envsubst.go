// Package envsubst expands shell-style environment variable references in
// strings and file contents. Substitution is non-strict: references to
// unset variables are left verbatim, so expansion never fails.
package envsubst

import (
	"os"
	"regexp"
	"strings"
)

// token matches $$, $NAME and ${NAME} where NAME is a C-style identifier.
var token = regexp.MustCompile(`\$(\$|[A-Za-z_][A-Za-z0-9_]*|\{[A-Za-z_][A-Za-z0-9_]*\})`)

// Expand replaces $NAME and ${NAME} tokens in s with values from env.
// "$$" escapes to a literal "$". Tokens naming an unset variable, and
// malformed references such as a trailing "$", pass through unchanged.
func Expand(s string, env map[string]string) string {
	return token.ReplaceAllStringFunc(s, func(tok string) string {
		name := tok[1:]
		if name == "$" {
			return "$"
		}
		name = strings.TrimSuffix(strings.TrimPrefix(name, "{"), "}")
		if v, ok := env[name]; ok {
			return v
		}
		return tok
	})
}

// ExpandEnviron expands s against the process environment.
func ExpandEnviron(s string) string {
	return Expand(s, Environ())
}

// Environ returns the process environment as a map.
func Environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if i := strings.Index(kv, "="); i >= 0 {
			env[kv[:i]] = kv[i+1:]
		}
	}
	return env
}
