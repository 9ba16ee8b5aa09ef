package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

// Format selects the image encoding for [Render].
type Format string

const (
	// FormatSVG renders scalable vector graphics.
	FormatSVG Format = "svg"
	// FormatPNG renders a raster image.
	FormatPNG Format = "png"
	// FormatDOT passes the DOT text through unrendered, which lets
	// callers treat "write the DOT itself" as just another format.
	FormatDOT Format = "dot"
)

// ParseFormat converts a user-supplied format name. Returns an error
// naming the valid values for anything unknown.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatSVG, FormatPNG, FormatDOT:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown format %q (want svg, png or dot)", s)
	}
}

// Render lays out a DOT graph description and encodes it in the given
// format. The context cancels long layout runs.
func Render(ctx context.Context, dot string, format Format) ([]byte, error) {
	switch format {
	case FormatSVG:
		return SVG(ctx, dot)
	case FormatPNG:
		return PNG(ctx, dot)
	case FormatDOT:
		return []byte(dot), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// SVG renders a DOT graph description to SVG using Graphviz.
func SVG(ctx context.Context, dot string) ([]byte, error) {
	return run(ctx, dot, graphviz.SVG)
}

// PNG renders a DOT graph description to PNG using Graphviz.
func PNG(ctx context.Context, dot string) ([]byte, error) {
	return run(ctx, dot, graphviz.PNG)
}

func run(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
