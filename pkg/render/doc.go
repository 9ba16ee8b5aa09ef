// Package render turns DOT graph descriptions into images.
//
// # Overview
//
// This package is a thin wrapper around the Graphviz layout engine.
// Callers produce DOT text (for example with the inline package's DOT
// export) and pick an output [Format]; the package handles layout and
// encoding:
//
//	dot := flat.DOT(inline.DOTOptions{})
//	svg, err := render.SVG(ctx, dot)
//	png, err := render.PNG(ctx, dot)
//
// [FormatDOT] is a passthrough so that command pipelines can treat the
// raw DOT text as one more output format.
package render
