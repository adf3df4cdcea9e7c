package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"claimwire/internal/domain"
)

// SeedSize is the entropy an identity is derived from.
const SeedSize = 32

// boxKeyContext separates the box-key derivation from the signing seed.
var boxKeyContext = []byte("claimwire/box-key/v1")

// GenerateIdentity creates an identity from fresh entropy.
func GenerateIdentity() (domain.Identity, error) {
	seed := make([]byte, SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return domain.Identity{}, err
	}
	return IdentityFromSeed(seed)
}

// IdentityFromSeed deterministically derives the full key set from a seed:
// the Ed25519 signing pair directly, the Curve25519 box pair from a
// domain-separated blake2b digest of the seed, and the address from the
// signing public key.
func IdentityFromSeed(seed []byte) (domain.Identity, error) {
	if len(seed) != SeedSize {
		return domain.Identity{}, fmt.Errorf("identity seed must be %d bytes, got %d", SeedSize, len(seed))
	}

	priv := ed25519.NewKeyFromSeed(seed)
	var signPriv domain.Ed25519Private
	var signPub domain.Ed25519Public
	copy(signPriv[:], priv)
	copy(signPub[:], priv.Public().(ed25519.PublicKey))

	scalar := HashBytes(append(append([]byte{}, seed...), boxKeyContext...))
	boxPriv, boxPub := boxKeypairFromScalar(scalar)

	return domain.Identity{
		Address:  AddressFromSigningKey(signPub),
		Seed:     append([]byte(nil), seed...),
		SignPub:  signPub,
		SignPriv: signPriv,
		BoxPub:   boxPub,
		BoxPriv:  boxPriv,
	}, nil
}
