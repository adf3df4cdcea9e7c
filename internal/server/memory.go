package server

import (
	"context"
	"sync"

	"claimwire/internal/domain"
)

// MemoryDirectory is an in-process DirectoryStore for development and
// tests.
type MemoryDirectory struct {
	mu     sync.RWMutex
	byAddr map[domain.Address]domain.PublicIdentity
}

// NewMemoryDirectory returns an empty in-memory directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{byAddr: make(map[domain.Address]domain.PublicIdentity)}
}

func (d *MemoryDirectory) Put(_ context.Context, pub domain.PublicIdentity) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byAddr[pub.Address] = pub
	return nil
}

func (d *MemoryDirectory) Get(_ context.Context, address domain.Address) (domain.PublicIdentity, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	pub, ok := d.byAddr[address]
	return pub, ok, nil
}

// MemoryMailbox is an in-process MailboxStore for development and tests.
type MemoryMailbox struct {
	mu     sync.Mutex
	queues map[domain.Address][]domain.EncryptedMessage
}

// NewMemoryMailbox returns an empty in-memory mailbox.
func NewMemoryMailbox() *MemoryMailbox {
	return &MemoryMailbox{queues: make(map[domain.Address][]domain.EncryptedMessage)}
}

func (m *MemoryMailbox) Append(_ context.Context, env domain.EncryptedMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queues[env.Receiver] = append(m.queues[env.Receiver], env)
	return nil
}

func (m *MemoryMailbox) List(_ context.Context, address domain.Address, limit int) ([]domain.EncryptedMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q := m.queues[address]
	if limit > 0 && limit < len(q) {
		q = q[:limit]
	}
	out := make([]domain.EncryptedMessage, len(q))
	copy(out, q)
	return out, nil
}

func (m *MemoryMailbox) Drop(_ context.Context, address domain.Address, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	q := m.queues[address]
	if count >= len(q) {
		delete(m.queues, address)
		return nil
	}
	if count > 0 {
		m.queues[address] = q[count:]
	}
	return nil
}

var (
	_ DirectoryStore = (*MemoryDirectory)(nil)
	_ MailboxStore   = (*MemoryMailbox)(nil)
)
