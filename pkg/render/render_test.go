package render

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

const sampleDOT = `digraph G {
  rankdir=LR;
  a [label="load"];
  b [label="save"];
  a -> b;
}`

func TestSVG(t *testing.T) {
	out, err := SVG(context.Background(), sampleDOT)
	if err != nil {
		t.Fatalf("SVG() error = %v", err)
	}
	if !strings.Contains(string(out), "<svg") {
		t.Errorf("SVG() output missing <svg element")
	}
	if !strings.Contains(string(out), "load") {
		t.Errorf("SVG() output missing node label")
	}
}

func TestPNG(t *testing.T) {
	out, err := PNG(context.Background(), sampleDOT)
	if err != nil {
		t.Fatalf("PNG() error = %v", err)
	}
	pngMagic := []byte{0x89, 'P', 'N', 'G'}
	if !bytes.HasPrefix(out, pngMagic) {
		t.Errorf("PNG() output missing PNG signature")
	}
}

func TestRender_DOTPassthrough(t *testing.T) {
	out, err := Render(context.Background(), sampleDOT, FormatDOT)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if string(out) != sampleDOT {
		t.Errorf("Render(FormatDOT) altered input")
	}
}

func TestSVG_InvalidDOT(t *testing.T) {
	if _, err := SVG(context.Background(), "digraph {"); err == nil {
		t.Errorf("SVG() expected error for malformed DOT")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"svg", FormatSVG, false},
		{"png", FormatPNG, false},
		{"dot", FormatDOT, false},
		{"pdf", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
