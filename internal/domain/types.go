package domain

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Hash is a blake2b-256 digest as a 0x-prefixed lowercase hex string.
type Hash string

func (h Hash) String() string { return string(h) }

// Valid reports whether h is a well-formed hash string.
func (h Hash) Valid() bool {
	s := string(h)
	if len(s) != 66 || !strings.HasPrefix(s, "0x") {
		return false
	}
	return isLowerHex(s[2:])
}

// Signature is an Ed25519 signature as a 0x-prefixed lowercase hex string.
type Signature string

func (s Signature) String() string { return string(s) }

// Valid reports whether s is a well-formed signature string.
func (s Signature) Valid() bool {
	str := string(s)
	if len(str) != 130 || !strings.HasPrefix(str, "0x") {
		return false
	}
	return isLowerHex(str[2:])
}

// Bytes returns the raw signature bytes, or nil if s is malformed.
func (s Signature) Bytes() []byte {
	if !s.Valid() {
		return nil
	}
	b, err := hex.DecodeString(string(s)[2:])
	if err != nil {
		return nil
	}
	return b
}

// AddressPrefix marks claimwire addresses on the wire.
const AddressPrefix = "cw"

// Address identifies a party. It is the hex encoding of the identity's
// Ed25519 signing public key with the "cw" prefix, so verifiers can recover
// the key from the address alone.
type Address string

func (a Address) String() string { return string(a) }

// Valid reports whether a is a well-formed address.
func (a Address) Valid() bool {
	s := string(a)
	if len(s) != len(AddressPrefix)+64 || !strings.HasPrefix(s, AddressPrefix) {
		return false
	}
	return isLowerHex(s[len(AddressPrefix):])
}

// Ed25519Public is a signing public key.
type Ed25519Public [32]byte

func (p Ed25519Public) Slice() []byte { return p[:] }

// Ed25519Private is a signing private key (ed25519.PrivateKey layout).
type Ed25519Private [64]byte

func (k Ed25519Private) Slice() []byte { return k[:] }

// BoxPublicKey is a Curve25519 encryption public key. It serializes as a
// plain lowercase hex string on the wire.
type BoxPublicKey [32]byte

func (p BoxPublicKey) Slice() []byte { return p[:] }

// Hex returns the lowercase hex form used on the wire.
func (p BoxPublicKey) Hex() string { return hex.EncodeToString(p[:]) }

// ParseBoxPublicKey decodes the wire hex form of a box public key.
func ParseBoxPublicKey(s string) (BoxPublicKey, error) {
	var p BoxPublicKey
	b, err := hex.DecodeString(s)
	if err != nil {
		return p, fmt.Errorf("box public key: %w", err)
	}
	if len(b) != len(p) {
		return p, fmt.Errorf("box public key: want %d bytes, got %d", len(p), len(b))
	}
	copy(p[:], b)
	return p, nil
}

// MarshalJSON encodes the key as its hex wire form.
func (p BoxPublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Hex())
}

// UnmarshalJSON mirrors MarshalJSON.
func (p *BoxPublicKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	k, err := ParseBoxPublicKey(s)
	if err != nil {
		return err
	}
	*p = k
	return nil
}

// BoxPrivateKey is a Curve25519 encryption private key.
type BoxPrivateKey [32]byte

func (k BoxPrivateKey) Slice() []byte { return k[:] }

// Identity holds a party's long-term key material. The box pair encrypts,
// the signing pair authenticates, and the address is derived from the
// signing public key.
type Identity struct {
	Address  Address
	Seed     []byte
	SignPub  Ed25519Public
	SignPriv Ed25519Private
	BoxPub   BoxPublicKey
	BoxPriv  BoxPrivateKey
}

// Public projects the shareable part of an identity.
func (id Identity) Public() PublicIdentity {
	return PublicIdentity{Address: id.Address, BoxPublicKey: id.BoxPub}
}

// PublicIdentity is what a sender must know about a receiver: where to
// address the envelope and which key to encrypt against.
type PublicIdentity struct {
	Address      Address      `json:"address"`
	BoxPublicKey BoxPublicKey `json:"boxPublicKey"`
}

func isLowerHex(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		default:
			return false
		}
	}
	return len(s) > 0
}
