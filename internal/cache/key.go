package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// domainResult versions the key composition; changing how keys are built
// must never collide with keys from an older scheme.
const domainResult = "sift/result/v1"

// Key composes a result-cache key from a dataset identity and the ordered
// condition lineage applied so far. The null byte separators keep
// ("a", ["b c"]) and ("a b", ["c"]) from colliding however the raw parts
// are spelled.
func Key(identity string, lineage []string) string {
	h := sha256.New()
	h.Write([]byte(domainResult))
	h.Write([]byte{0x00})
	h.Write([]byte(identity))
	for _, c := range lineage {
		h.Write([]byte{0x00})
		h.Write([]byte(c))
	}
	return hex.EncodeToString(h.Sum(nil))
}
