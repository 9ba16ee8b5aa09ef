// Package buildinfo carries the version stamp baked in at build time.
//
// Release builds overwrite the defaults with ldflags:
//
//	go build -ldflags "\
//	  -X github.com/matzehuels/flatgraph/pkg/buildinfo.Version=v1.0.0 \
//	  -X github.com/matzehuels/flatgraph/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	  -X github.com/matzehuels/flatgraph/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// A plain `go build` yields the "dev" stamp, which is how local builds
// identify themselves in logs and the health endpoint.
package buildinfo

import "fmt"

// Set via ldflags; see the package comment.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Short returns a one-line stamp such as "v1.0.0 (3f2a91c)", suitable
// for log fields and API payloads.
func Short() string {
	return fmt.Sprintf("%s (%s)", Version, Commit)
}

// String returns the multi-line form for --version style output.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
