// Package identity manages creation, recovery and loading of local identities.
//
// It enforces passphrase policy, derives signing and box key pairs from a
// random seed, and persists identities sealed via the domain.Keystore.
package identity
