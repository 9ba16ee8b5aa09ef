package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"
)

// Format identifies a document encoding.
type Format string

const (
	// FormatJSON is the primary interchange format.
	FormatJSON Format = "json"
	// FormatYAML decodes the same schema from YAML.
	FormatYAML Format = "yaml"
	// FormatHCL decodes graph/node/link blocks. HCL is input-only.
	FormatHCL Format = "hcl"
)

// ErrUnknownFormat is returned by [ParseFormat] and [Decode] for formats
// this package does not handle.
var ErrUnknownFormat = errors.New("unknown document format")

// ParseFormat converts a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, Format("yml"):
		return FormatYAML, nil
	case FormatHCL:
		return FormatHCL, nil
	default:
		return "", fmt.Errorf("%w: %q (want json, yaml or hcl)", ErrUnknownFormat, s)
	}
}

// DetectFormat picks a format from the file name's extension, falling
// back to content sniffing when the extension is missing or unknown.
// Sniffing treats a leading '{' or '[' as JSON, a `graph "` block header
// as HCL, and anything else as YAML.
func DetectFormat(name string, data []byte) Format {
	switch {
	case hasSuffixFold(name, ".json"):
		return FormatJSON
	case hasSuffixFold(name, ".yaml"), hasSuffixFold(name, ".yml"):
		return FormatYAML
	case hasSuffixFold(name, ".hcl"):
		return FormatHCL
	}

	head := strings.TrimLeft(string(data), " \t\r\n")
	switch {
	case strings.HasPrefix(head, "{"), strings.HasPrefix(head, "["):
		return FormatJSON
	case strings.HasPrefix(head, "graph \""), strings.Contains(head, "\ngraph \""):
		return FormatHCL
	default:
		return FormatYAML
	}
}

func hasSuffixFold(name, suffix string) bool {
	return strings.HasSuffix(strings.ToLower(name), suffix)
}

// Decode parses a document in the given format.
func Decode(data []byte, format Format) (*Document, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(data)
	case FormatYAML:
		return decodeYAML(data)
	case FormatHCL:
		return decodeHCL(data, "document.hcl")
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Load reads a document from a local file, detecting the format from the
// file extension (or the content when the extension is unknown).
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	format := DetectFormat(path, data)
	if format == FormatHCL {
		return decodeHCL(data, path)
	}
	doc, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return doc, nil
}

func decodeJSON(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return &doc, nil
}

func decodeYAML(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return &doc, nil
}

// HCL wire structs. Block labels carry the names; attribute metadata is
// restricted to string values by the HCL type system.
type hclDocument struct {
	Graphs []hclGraph `hcl:"graph,block"`
}

type hclGraph struct {
	Name         string            `hcl:"name,label"`
	GroupInputs  []string          `hcl:"group_inputs,optional"`
	GroupOutputs []string          `hcl:"group_outputs,optional"`
	Nodes        []hclNode         `hcl:"node,block"`
	Links        []hclLink         `hcl:"link,block"`
	Meta         map[string]string `hcl:"meta,optional"`
}

type hclNode struct {
	Name    string            `hcl:"name,label"`
	Group   string            `hcl:"group,optional"`
	Inputs  []string          `hcl:"inputs,optional"`
	Outputs []string          `hcl:"outputs,optional"`
	Meta    map[string]string `hcl:"meta,optional"`
}

type hclLink struct {
	From string `hcl:"from"`
	To   string `hcl:"to"`
}

func decodeHCL(data []byte, filename string) (*Document, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse hcl: %s", diags.Error())
	}

	var wire hclDocument
	if diags := gohcl.DecodeBody(file.Body, nil, &wire); diags.HasErrors() {
		return nil, fmt.Errorf("decode hcl: %s", diags.Error())
	}

	doc := &Document{Graphs: make([]GraphDef, len(wire.Graphs))}
	for i, g := range wire.Graphs {
		def := GraphDef{
			Name:         g.Name,
			GroupInputs:  g.GroupInputs,
			GroupOutputs: g.GroupOutputs,
			Meta:         metaToAny(g.Meta),
		}
		for _, n := range g.Nodes {
			def.Nodes = append(def.Nodes, NodeDef{
				Name:    n.Name,
				Group:   n.Group,
				Inputs:  n.Inputs,
				Outputs: n.Outputs,
				Meta:    metaToAny(n.Meta),
			})
		}
		for _, l := range g.Links {
			def.Links = append(def.Links, LinkDef{From: l.From, To: l.To})
		}
		doc.Graphs[i] = def
	}
	return doc, nil
}

func metaToAny(m map[string]string) map[string]any {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
