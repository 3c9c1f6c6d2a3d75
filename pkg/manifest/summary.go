package manifest

import (
	"errors"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

type docHeader struct {
	Kind     string `yaml:"kind"`
	Metadata struct {
		Name string `yaml:"name"`
	} `yaml:"metadata"`
}

// Summarize counts resource kinds in a multi-document manifest stream.
// Documents without a kind are ignored, as is anything after the first
// undecodable document. Used for logging only; this is not validation.
func Summarize(manifests string) map[string]int {
	kinds := make(map[string]int)

	dec := yaml.NewDecoder(strings.NewReader(manifests))
	for {
		var h docHeader
		err := dec.Decode(&h)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			break
		}
		if h.Kind != "" {
			kinds[h.Kind]++
		}
	}

	return kinds
}

// Count returns the total number of resources in a summary.
func Count(kinds map[string]int) int {
	total := 0
	for _, n := range kinds {
		total += n
	}
	return total
}
