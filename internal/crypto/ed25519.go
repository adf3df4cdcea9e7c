package crypto

import (
	"crypto/ed25519"
	"encoding/hex"

	"claimwire/internal/domain"
)

// SignEd25519 signs msg with priv and returns the raw signature.
func SignEd25519(priv domain.Ed25519Private, msg []byte) []byte {
	return ed25519.Sign(ed25519.PrivateKey(priv[:]), msg)
}

// VerifyEd25519 verifies sig over msg with pub.
func VerifyEd25519(pub domain.Ed25519Public, msg, sig []byte) bool {
	if len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub[:]), msg, sig)
}

// SignStr signs the UTF-8 bytes of s and returns the signature in wire form.
func SignStr(priv domain.Ed25519Private, s string) domain.Signature {
	sig := SignEd25519(priv, []byte(s))
	return domain.Signature("0x" + hex.EncodeToString(sig))
}

// VerifyStr checks a wire-form signature over the UTF-8 bytes of s against
// the signing key recoverable from addr. Malformed signatures or addresses
// verify as false, never as an error.
func VerifyStr(s string, sig domain.Signature, addr domain.Address) bool {
	pub, err := SigningKeyFromAddress(addr)
	if err != nil {
		return false
	}
	raw := sig.Bytes()
	if raw == nil {
		return false
	}
	return VerifyEd25519(pub, []byte(s), raw)
}
