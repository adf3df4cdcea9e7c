package crypto

import (
	"crypto/rand"
	"errors"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/nacl/box"

	"claimwire/internal/domain"
)

// NonceSize is the NaCl box nonce length.
const NonceSize = 24

// ErrBoxOpen indicates a ciphertext could not be opened with the given keys.
var ErrBoxOpen = errors.New("box: cannot open ciphertext")

// EncryptAsymmetric seals plaintext for the receiver with a fresh random
// nonce, authenticated by the sender's box private key.
func EncryptAsymmetric(
	plaintext []byte,
	receiverPub domain.BoxPublicKey,
	senderPriv domain.BoxPrivateKey,
) (ciphertext, nonce []byte, err error) {
	var n [NonceSize]byte
	if _, err := rand.Read(n[:]); err != nil {
		return nil, nil, err
	}
	peer := [32]byte(receiverPub)
	priv := [32]byte(senderPriv)
	ct := box.Seal(nil, plaintext, &n, &peer, &priv)
	return ct, n[:], nil
}

// DecryptAsymmetric opens a sealed ciphertext with the receiver's box
// private key and the sender's declared box public key.
func DecryptAsymmetric(
	ciphertext, nonce []byte,
	senderPub domain.BoxPublicKey,
	receiverPriv domain.BoxPrivateKey,
) ([]byte, error) {
	if len(nonce) != NonceSize {
		return nil, ErrBoxOpen
	}
	var n [NonceSize]byte
	copy(n[:], nonce)
	peer := [32]byte(senderPub)
	priv := [32]byte(receiverPriv)
	plain, ok := box.Open(nil, ciphertext, &n, &peer, &priv)
	if !ok {
		return nil, ErrBoxOpen
	}
	return plain, nil
}

// boxKeypairFromScalar clamps the scalar per RFC 7748 and derives the
// matching public key.
func boxKeypairFromScalar(scalar [32]byte) (domain.BoxPrivateKey, domain.BoxPublicKey) {
	scalar[0] &= 248
	scalar[31] &= 127
	scalar[31] |= 64

	var pub [32]byte
	curve25519.ScalarBaseMult(&pub, &scalar)
	return domain.BoxPrivateKey(scalar), domain.BoxPublicKey(pub)
}
