package cache

// Keyer builds cache keys for each pipeline stage. Splitting key
// construction from storage lets callers scope or namespace keys
// without touching the cache implementations.
type Keyer interface {
	// FlatKey builds the key for a flattened graph. docHash is the
	// hash of the source document bytes.
	FlatKey(docHash string, opts FlatKeyOpts) string

	// ArtifactKey builds the key for a rendered artifact. flatHash is
	// the hash of the flattened graph encoding.
	ArtifactKey(flatHash string, opts ArtifactKeyOpts) string
}

// FlatKeyOpts are the flatten parameters that affect the result.
type FlatKeyOpts struct {
	Graph    string // entry graph name, "" for the document default
	MaxDepth int
}

// ArtifactKeyOpts are the render parameters that affect the artifact.
type ArtifactKeyOpts struct {
	Format   string
	Detailed bool
	RankDir  string
}

// DefaultKeyer is the standard key builder. Keys are "stage:hash" where
// the hash covers the input hash plus every option that changes the
// output.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// FlatKey generates a key for a flattened graph.
func (k *DefaultKeyer) FlatKey(docHash string, opts FlatKeyOpts) string {
	return hashKey("flat", docHash, opts.Graph, opts.MaxDepth)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(flatHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", flatHash, opts.Format, opts.Detailed, opts.RankDir)
}
