package crypto

import (
	"encoding/hex"
	"fmt"

	"claimwire/internal/domain"
)

// AddressFromSigningKey derives the wire address for a signing public key.
func AddressFromSigningKey(pub domain.Ed25519Public) domain.Address {
	return domain.Address(domain.AddressPrefix + hex.EncodeToString(pub[:]))
}

// SigningKeyFromAddress recovers the signing public key an address encodes.
func SigningKeyFromAddress(addr domain.Address) (domain.Ed25519Public, error) {
	var pub domain.Ed25519Public
	if !addr.Valid() {
		return pub, fmt.Errorf("malformed address %q", addr)
	}
	raw, err := hex.DecodeString(string(addr)[len(domain.AddressPrefix):])
	if err != nil {
		return pub, fmt.Errorf("malformed address %q: %w", addr, err)
	}
	copy(pub[:], raw)
	return pub, nil
}
