package domain

import "context"

// Keystore persists identities at rest, sealed under a passphrase.
type Keystore interface {
	SaveIdentity(passphrase string, id Identity) error
	LoadIdentity(passphrase string, address Address) (Identity, error)
	ListIdentities() ([]Address, error)
}

// Directory resolves receiver addresses to their public identities. A
// sender must resolve the receiver before it can encrypt anything for them.
type Directory interface {
	Register(ctx context.Context, pub PublicIdentity) error
	Resolve(ctx context.Context, address Address) (PublicIdentity, error)
}

// Mailbox moves sealed envelopes between parties. Fetch returns queued
// envelopes oldest first; Ack removes the first count envelopes so a
// crashed receiver never loses unprocessed mail.
type Mailbox interface {
	Post(ctx context.Context, env EncryptedMessage) error
	Fetch(ctx context.Context, address Address, limit int) ([]EncryptedMessage, error)
	Ack(ctx context.Context, address Address, count int) error
}

// Carrier is the full client-side contract for a delivery service.
type Carrier interface {
	Directory
	Mailbox
}

// IdentityService manages local identities: key generation, seed recovery
// and sealed persistence.
type IdentityService interface {
	Generate(passphrase string) (Identity, error)
	Recover(passphrase, seedHex string) (Identity, error)
	Load(passphrase string, address Address) (Identity, error)
	List() ([]Address, error)
}

// ContactBook caches resolved public identities on the client so a flaky
// directory does not block sending to known peers.
type ContactBook interface {
	SaveContact(pub PublicIdentity) error
	LoadContact(address Address) (PublicIdentity, bool, error)
	ListContacts() ([]PublicIdentity, error)
}

// Cursor remembers how far a receiver has read its mailbox, as the
// receivedAt of the last processed envelope.
type Cursor interface {
	SaveCursor(address Address, receivedAt int64) error
	LoadCursor(address Address) (int64, bool, error)
}
