// Package document reads and writes the serialization formats around the
// flattening engine.
//
// # Overview
//
// Two formats live here. Graph documents are the input side: files that
// define named logical graphs with nodes, links and a group interface,
// decoded from JSON, YAML or HCL into one [Document] structure and turned
// into a [logical.Library] for flattening. [FlatGraph] is the output
// side: the deterministic JSON encoding of a flattened instance graph.
//
// # Graph Documents
//
// A document holds one or more named graphs. The first graph is the
// default root; group nodes reference other graphs by name:
//
//	{
//	  "graphs": [
//	    {
//	      "name": "main",
//	      "nodes": [
//	        {"name": "a", "outputs": ["value"]},
//	        {"name": "g", "group": "blur", "inputs": ["image"]}
//	      ],
//	      "links": [{"from": "a.value", "to": "g.image"}]
//	    },
//	    {
//	      "name": "blur",
//	      "group_inputs": ["image"],
//	      "nodes": [{"name": "f", "inputs": ["in"]}],
//	      "links": [{"from": "$image", "to": "f.in"}]
//	    }
//	  ]
//	}
//
// The same schema decodes from YAML. HCL replaces the arrays with blocks:
//
//	graph "main" {
//	  node "a" {
//	    outputs = ["value"]
//	  }
//	  link {
//	    from = "a.value"
//	    to   = "g.image"
//	  }
//	}
//
// # Endpoint Syntax
//
// Link endpoints use "node.socket" for node sockets and "$name" for the
// enclosing graph's interface sockets. Whether an endpoint exists is
// checked during flattening, not loading, so documents with stale links
// load fine and produce diagnostics instead of errors.
package document
