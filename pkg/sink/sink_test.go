package sink

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewStdout(t *testing.T) {
	for _, dest := range []string{"", "-"} {
		t.Run("dest "+dest, func(t *testing.T) {
			s, err := New(dest)
			if err != nil {
				t.Fatalf("New(%q) failed: %v", dest, err)
			}
			if s.Name() != "stdout" {
				t.Errorf("Name() = %q, want stdout", s.Name())
			}
			if err := s.Close(); err != nil {
				t.Errorf("Close() = %v, want nil", err)
			}
		})
	}
}

func TestNewFileOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := os.WriteFile(path, []byte("previous content that is longer"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := New(path)
	if err != nil {
		t.Fatalf("New(%q) failed: %v", path, err)
	}
	if _, err := s.Write([]byte("new\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new\n" {
		t.Errorf("file content = %q, want overwritten with %q", got, "new\n")
	}
}

func TestNewUnwritableDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "out.yaml"))
	if err == nil {
		t.Error("New in missing directory succeeded, want error")
	}
}
