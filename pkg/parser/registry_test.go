package parser

import (
	"testing"

	"github.com/MichaelVL/helm2yaml/pkg/parser/common"
)

func TestRegistryHoldsAllFormats(t *testing.T) {
	r := NewRegistry()

	for _, f := range common.SupportedFormats() {
		if _, ok := r.Get(f); !ok {
			t.Errorf("Get(%s) = not found, want parser", f)
		}
	}

	if len(r.List()) != len(common.SupportedFormats()) {
		t.Errorf("List() has %d formats, want %d", len(r.List()), len(common.SupportedFormats()))
	}
}

func TestRegistryUnknownFormat(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Get(common.Format("kustomize")); ok {
		t.Error("Get(kustomize) found a parser, want none")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    common.Format
		wantErr bool
	}{
		{"helmsman", common.FormatHelmsman, false},
		{"fluxcd", common.FormatFluxCD, false},
		{"", "", true},
		{"Helmsman", "", true},
		{"flux", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := common.ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
