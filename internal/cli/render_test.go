package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "png", []string{"png"}},
		{"multiple formats", "svg,png,dot", []string{"svg", "png", "dot"}},
		{"json only", "json", []string{"json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Errorf("parseFormats(%q) length = %d, want %d", tt.input, len(got), len(tt.want))
				return
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
				}
			}
		})
	}
}

func TestWriteArtifacts(t *testing.T) {
	artifacts := map[string][]byte{
		"svg": []byte("<svg/>"),
		"dot": []byte("digraph G {}\n"),
	}

	t.Run("single format with explicit output", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "result.svg")
		paths, err := writeArtifacts(context.Background(), artifactWriteParams{
			artifacts: artifacts,
			formats:   []string{"svg"},
			input:     "app.json",
			output:    out,
		})
		if err != nil {
			t.Fatalf("writeArtifacts() error: %v", err)
		}
		if len(paths) != 1 || paths[0] != out {
			t.Fatalf("paths = %v, want [%s]", paths, out)
		}
		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("read output: %v", err)
		}
		if string(data) != "<svg/>" {
			t.Errorf("content = %q, want %q", data, "<svg/>")
		}
	})

	t.Run("derives name from input", func(t *testing.T) {
		dir := t.TempDir()
		input := filepath.Join(dir, "app.json")
		paths, err := writeArtifacts(context.Background(), artifactWriteParams{
			artifacts: artifacts,
			formats:   []string{"svg"},
			input:     input,
		})
		if err != nil {
			t.Fatalf("writeArtifacts() error: %v", err)
		}
		want := filepath.Join(dir, "app.svg")
		if len(paths) != 1 || paths[0] != want {
			t.Errorf("paths = %v, want [%s]", paths, want)
		}
	})

	t.Run("multiple formats share a base", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "out")
		paths, err := writeArtifacts(context.Background(), artifactWriteParams{
			artifacts: artifacts,
			formats:   []string{"svg", "dot"},
			input:     "app.json",
			output:    base,
		})
		if err != nil {
			t.Fatalf("writeArtifacts() error: %v", err)
		}
		want := []string{base + ".svg", base + ".dot"}
		if len(paths) != len(want) {
			t.Fatalf("paths = %v, want %v", paths, want)
		}
		for i, p := range want {
			if paths[i] != p {
				t.Errorf("paths[%d] = %q, want %q", i, paths[i], p)
			}
			if _, err := os.Stat(p); err != nil {
				t.Errorf("artifact %s not written: %v", p, err)
			}
		}
	})

	t.Run("missing artifact", func(t *testing.T) {
		_, err := writeArtifacts(context.Background(), artifactWriteParams{
			artifacts: artifacts,
			formats:   []string{"png"},
			input:     "app.json",
			output:    filepath.Join(t.TempDir(), "x.png"),
		})
		if err == nil {
			t.Error("writeArtifacts() with missing artifact should fail")
		}
	})
}
