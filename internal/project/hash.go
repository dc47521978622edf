package project

import "crypto/sha256"

// Digest is a fixed 256-bit content hash.
type Digest [32]byte

// HashBytes digests raw module content.
func HashBytes(content []byte) Digest {
	return sha256.Sum256(content)
}

// Combine builds the aggregate module hash: H(content || dep1 || dep2 ...).
// Dependency order must be deterministic; callers pass them sorted.
func Combine(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
