package crypto

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"claimwire/internal/domain"
)

// HashBytes returns the blake2b-256 digest of b.
func HashBytes(b []byte) [32]byte {
	return blake2b.Sum256(b)
}

// HashStr hashes the UTF-8 bytes of s and returns the digest in the wire
// form used throughout the protocol (0x-prefixed lowercase hex).
func HashStr(s string) domain.Hash {
	sum := blake2b.Sum256([]byte(s))
	return domain.Hash("0x" + hex.EncodeToString(sum[:]))
}
