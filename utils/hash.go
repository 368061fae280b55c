package utils

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// visitorHashLength keeps hashes short enough to index while retaining
// plenty of dedup entropy.
const visitorHashLength = 32

// HashVisitor derives a pseudonymous identifier from a client address for
// reaction dedup. It is a best-effort signal: addresses are spoofable, so
// this is not an authentication boundary.
func HashVisitor(remoteAddr string) string {
	sum := blake2b.Sum256([]byte(remoteAddr))
	return hex.EncodeToString(sum[:])[:visitorHashLength]
}
