package value

import (
	"crypto/sha256"
	"encoding/hex"
)

// Domain prefixes for content-addressed hashing. The version suffix leaves
// room for changing the canonical form without silently colliding with
// fingerprints computed by older builds.
const domainRecord = "sift/record/v1"

// Fingerprint computes a stable content hash of a record value.
// Format: SHA256(domain + 0x00 + canonical JSON). The null byte prevents
// domain/payload boundary ambiguity.
func Fingerprint(v any) string {
	h := sha256.New()
	h.Write([]byte(domainRecord))
	h.Write([]byte{0x00})
	h.Write([]byte(Canonical(v)))
	return hex.EncodeToString(h.Sum(nil))
}
