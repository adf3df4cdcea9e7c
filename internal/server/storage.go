package server

import (
	"context"

	"claimwire/internal/domain"
)

// DirectoryStore persists registered identities server-side.
type DirectoryStore interface {
	Put(ctx context.Context, pub domain.PublicIdentity) error
	Get(ctx context.Context, address domain.Address) (domain.PublicIdentity, bool, error)
}

// MailboxStore queues sealed envelopes per receiver, oldest first.
type MailboxStore interface {
	Append(ctx context.Context, env domain.EncryptedMessage) error
	List(ctx context.Context, address domain.Address, limit int) ([]domain.EncryptedMessage, error)
	Drop(ctx context.Context, address domain.Address, count int) error
}
