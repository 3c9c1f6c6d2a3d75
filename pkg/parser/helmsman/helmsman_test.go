package helmsman

import (
	"errors"
	"strings"
	"testing"

	"github.com/MichaelVL/helm2yaml/pkg/parser/common"
)

const basicSpec = `
helmRepos:
  stable: https://charts.example.com
apps:
  nginx:
    chart: stable/nginx
    version: 1.2.3
    namespace: web
    enabled: true
    set:
      replicaCount: 3
`

func TestParseBasic(t *testing.T) {
	specs, err := New().Parse("deploy/spec.yaml", []byte(basicSpec))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(specs) != 1 {
		t.Fatalf("got %d specs, want 1", len(specs))
	}

	s := specs[0]
	if s.ReleaseName != "nginx" {
		t.Errorf("ReleaseName = %q, want nginx", s.ReleaseName)
	}
	if s.Repository != "https://charts.example.com" {
		t.Errorf("Repository = %q, want resolved URL", s.Repository)
	}
	if s.ChartName != "nginx" {
		t.Errorf("ChartName = %q, want nginx", s.ChartName)
	}
	if s.ChartVersion != "1.2.3" {
		t.Errorf("ChartVersion = %q, want 1.2.3", s.ChartVersion)
	}
	if s.Namespace != "web" {
		t.Errorf("Namespace = %q, want web", s.Namespace)
	}
	if got := s.Overrides["replicaCount"]; got != 3 {
		t.Errorf("Overrides[replicaCount] = %v, want 3", got)
	}
	if len(s.ValuesFiles) != 0 {
		t.Errorf("ValuesFiles = %v, want empty", s.ValuesFiles)
	}
	if s.SourceDir != "deploy" {
		t.Errorf("SourceDir = %q, want deploy", s.SourceDir)
	}
}

func TestParseSourceDirDefaultsToDot(t *testing.T) {
	specs, err := New().Parse("spec.yaml", []byte(basicSpec))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if specs[0].SourceDir != "." {
		t.Errorf("SourceDir = %q, want .", specs[0].SourceDir)
	}
}

func TestParseDisabledAppsSkipped(t *testing.T) {
	doc := `
helmRepos:
  stable: https://charts.example.com
apps:
  one:
    chart: stable/one
    version: 1.0.0
    namespace: a
    enabled: true
  two:
    chart: stable/two
    version: 2.0.0
    namespace: b
    enabled: false
  three:
    chart: stable/three
    version: 3.0.0
    namespace: c
    enabled: true
`
	specs, err := New().Parse("spec.yaml", []byte(doc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("got %d specs, want 2 (enabled apps only)", len(specs))
	}
	for _, s := range specs {
		if s.ReleaseName == "two" {
			t.Error("disabled app emitted")
		}
	}
}

func TestParseDeterministicOrder(t *testing.T) {
	doc := `
helmRepos:
  r: https://r.example.com
apps:
  zeta:
    chart: r/zeta
    version: 1.0.0
    enabled: true
  alpha:
    chart: r/alpha
    version: 1.0.0
    enabled: true
`
	specs, err := New().Parse("spec.yaml", []byte(doc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if specs[0].ReleaseName != "alpha" || specs[1].ReleaseName != "zeta" {
		t.Errorf("order = [%s %s], want [alpha zeta]", specs[0].ReleaseName, specs[1].ReleaseName)
	}
}

func TestParseUnknownRepo(t *testing.T) {
	doc := `
helmRepos:
  stable: https://charts.example.com
apps:
  nginx:
    chart: stabel/nginx
    version: 1.2.3
    enabled: true
`
	_, err := New().Parse("spec.yaml", []byte(doc))
	if err == nil {
		t.Fatal("expected ParseError for unknown repo alias")
	}
	var perr *common.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error type = %T, want *common.ParseError", err)
	}
	if !strings.Contains(perr.Reason, `"stabel"`) {
		t.Errorf("Reason = %q, want unknown alias named", perr.Reason)
	}
	if !strings.Contains(perr.Reason, `did you mean "stable"`) {
		t.Errorf("Reason = %q, want a suggestion for stable", perr.Reason)
	}
}

func TestParseUnknownRepoOnDisabledAppStillFails(t *testing.T) {
	doc := `
helmRepos:
  stable: https://charts.example.com
apps:
  nginx:
    chart: missing/nginx
    version: 1.2.3
    enabled: false
`
	_, err := New().Parse("spec.yaml", []byte(doc))
	var perr *common.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want ParseError even for disabled app", err)
	}
}

func TestParseChartNameIsRemainderAfterFirstSlash(t *testing.T) {
	doc := `
helmRepos:
  stable: https://charts.example.com
apps:
  app:
    chart: stable/group/nginx
    version: 1.0.0
    enabled: true
`
	specs, err := New().Parse("spec.yaml", []byte(doc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if specs[0].ChartName != "group/nginx" {
		t.Errorf("ChartName = %q, want group/nginx", specs[0].ChartName)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "invalid yaml",
			doc:  "helmRepos: [unclosed",
		},
		{
			name: "chart without slash",
			doc: `
helmRepos:
  stable: https://charts.example.com
apps:
  app:
    chart: nginx
    version: 1.0.0
    enabled: true
`,
		},
		{
			name: "missing version",
			doc: `
helmRepos:
  stable: https://charts.example.com
apps:
  app:
    chart: stable/nginx
    enabled: true
`,
		},
		{
			name: "empty chart name after alias",
			doc: `
helmRepos:
  stable: https://charts.example.com
apps:
  app:
    chart: stable/
    version: 1.0.0
    enabled: true
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Parse("spec.yaml", []byte(tt.doc))
			var perr *common.ParseError
			if !errors.As(err, &perr) {
				t.Errorf("err = %v, want *common.ParseError", err)
			}
		})
	}
}

func TestParseValuesFilesOrderPreserved(t *testing.T) {
	doc := `
helmRepos:
  stable: https://charts.example.com
apps:
  app:
    chart: stable/nginx
    version: 1.0.0
    enabled: true
    valuesFiles:
      - base.yaml
      - env/prod.yaml
      - overrides.yaml
`
	specs, err := New().Parse("spec.yaml", []byte(doc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := []string{"base.yaml", "env/prod.yaml", "overrides.yaml"}
	got := specs[0].ValuesFiles
	if len(got) != len(want) {
		t.Fatalf("ValuesFiles = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ValuesFiles[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseEmptyDocument(t *testing.T) {
	specs, err := New().Parse("spec.yaml", []byte("helmRepos: {}\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(specs) != 0 {
		t.Errorf("got %d specs from empty apps, want 0", len(specs))
	}
}
