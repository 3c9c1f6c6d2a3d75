// Package common defines the shared parser contract: the closed set of
// supported spec formats, the Parser interface every format implements,
// and the ParseError type distinguishing schema problems from I/O failures.
package common

import (
	"fmt"

	"github.com/MichaelVL/helm2yaml/pkg/release"
)

const (
	// FormatHelmsman identifies multi-app Helmsman desired-state files.
	FormatHelmsman Format = "helmsman"

	// FormatFluxCD identifies single-app FluxCD HelmRelease resources.
	FormatFluxCD Format = "fluxcd"
)

// Format identifies an input spec format.
type Format string

// Parser converts one spec document into canonical release specs.
// The path is the document's origin, used for error reporting and for
// resolving relative values-file paths.
type Parser interface {
	Parse(path string, doc []byte) ([]release.Spec, error)
}

// ParseFormat converts a string to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case string(FormatHelmsman):
		return FormatHelmsman, nil
	case string(FormatFluxCD):
		return FormatFluxCD, nil
	default:
		return "", fmt.Errorf("unknown spec format: %s", s)
	}
}

// SupportedFormats returns all supported spec formats.
func SupportedFormats() []Format {
	return []Format{FormatHelmsman, FormatFluxCD}
}

// ParseError reports a malformed or schema-inconsistent spec document.
// It is distinct from I/O errors: a ParseError means the document was read
// but could not be turned into release specs.
type ParseError struct {
	// File is the document the error originates from.
	File string
	// Reason describes what was wrong with the document.
	Reason string
	// Err is the underlying cause, if any.
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %s: %v", e.File, e.Reason, e.Err)
	}
	return fmt.Sprintf("parse %s: %s", e.File, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
