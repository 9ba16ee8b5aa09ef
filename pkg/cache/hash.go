package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Hash returns the hex SHA-256 of data. The pipeline uses it to
// fingerprint document bytes and flattened-graph encodings.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey derives a "stage:hash" key from the parts that influence a
// stage's output. Parts are rendered with %v and separated by an
// unprintable byte so adjacent values cannot run together.
func hashKey(stage string, parts ...any) string {
	var b bytes.Buffer
	for _, p := range parts {
		fmt.Fprintf(&b, "%v\x1f", p)
	}
	return stage + ":" + Hash(b.Bytes())
}
