package identity

import (
	"encoding/hex"
	"fmt"
	"unicode"

	"claimwire/internal/crypto"
	"claimwire/internal/domain"
)

const (
	// minPassphraseLength defines the minimum number of characters required for a passphrase.
	minPassphraseLength = 12
)

var (
	// ErrWeakPassphrase is returned when the passphrase fails the strength policy.
	ErrWeakPassphrase = fmt.Errorf(
		"passphrase is too weak (must be at least %d characters and include upper, lower, "+
			"number, and symbol)",
		minPassphraseLength,
	)

	// ErrBadSeed is returned when a recovery seed is not the right size.
	ErrBadSeed = fmt.Errorf("seed must be %d hex-encoded bytes", crypto.SeedSize)
)

// Service manages identity creation and access using a backing keystore.
//
// An identity contains:
//   - Ed25519 key pair for signing envelopes; its public key is the address.
//   - Curve25519 key pair for box encryption, derived from the same seed.
type Service struct {
	keys domain.Keystore
}

// New returns an identity service backed by the given keystore.
func New(keys domain.Keystore) *Service { return &Service{keys: keys} }

// Generate creates a new identity from a fresh random seed and saves it
// sealed under the passphrase.
func (s *Service) Generate(passphrase string) (domain.Identity, error) {
	if !isSecurePassphrase(passphrase) {
		return domain.Identity{}, ErrWeakPassphrase
	}

	id, err := crypto.GenerateIdentity()
	if err != nil {
		return domain.Identity{}, err
	}
	if err := s.keys.SaveIdentity(passphrase, id); err != nil {
		return domain.Identity{}, err
	}
	return id, nil
}

// Recover rebuilds an identity from a hex-encoded seed and saves it sealed
// under the passphrase. The same seed always yields the same address, so a
// lost keystore is recoverable from the seed alone.
func (s *Service) Recover(passphrase, seedHex string) (domain.Identity, error) {
	if !isSecurePassphrase(passphrase) {
		return domain.Identity{}, ErrWeakPassphrase
	}

	seed, err := hex.DecodeString(seedHex)
	if err != nil || len(seed) != crypto.SeedSize {
		return domain.Identity{}, ErrBadSeed
	}
	id, err := crypto.IdentityFromSeed(seed)
	if err != nil {
		return domain.Identity{}, err
	}
	if err := s.keys.SaveIdentity(passphrase, id); err != nil {
		return domain.Identity{}, err
	}
	return id, nil
}

// Load decrypts and returns a stored identity.
func (s *Service) Load(passphrase string, address domain.Address) (domain.Identity, error) {
	return s.keys.LoadIdentity(passphrase, address)
}

// List returns the addresses of all stored identities.
func (s *Service) List() ([]domain.Address, error) {
	return s.keys.ListIdentities()
}

// isSecurePassphrase enforces a basic strength policy.
func isSecurePassphrase(passphrase string) bool {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	if len(passphrase) < minPassphraseLength {
		return false
	}
	for _, r := range passphrase {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}

// Compile-time assertion that Service implements domain.IdentityService.
var _ domain.IdentityService = (*Service)(nil)
