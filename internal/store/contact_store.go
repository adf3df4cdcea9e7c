package store

import (
	"path/filepath"
	"sort"
	"sync"

	"claimwire/internal/domain"
)

const contactsFile = "contacts.json"

// ContactFileStore caches resolved public identities.
type ContactFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewContactFileStore returns a ContactFileStore rooted at dir.
func NewContactFileStore(dir string) *ContactFileStore {
	return &ContactFileStore{dir: dir}
}

// SaveContact stores or updates the given public identity.
func (s *ContactFileStore) SaveContact(pub domain.PublicIdentity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, contactsFile)
	contacts := make(map[domain.Address]domain.PublicIdentity)
	_ = readJSON(path, &contacts)
	contacts[pub.Address] = pub
	return writeJSON(path, contacts, 0o600)
}

// LoadContact retrieves the cached identity for address.
func (s *ContactFileStore) LoadContact(address domain.Address) (domain.PublicIdentity, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, contactsFile)
	contacts := make(map[domain.Address]domain.PublicIdentity)
	if err := readJSON(path, &contacts); err != nil {
		return domain.PublicIdentity{}, false, err
	}
	pub, ok := contacts[address]
	return pub, ok, nil
}

// ListContacts returns every cached identity, sorted by address.
func (s *ContactFileStore) ListContacts() ([]domain.PublicIdentity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, contactsFile)
	contacts := make(map[domain.Address]domain.PublicIdentity)
	if err := readJSON(path, &contacts); err != nil {
		return nil, err
	}
	out := make([]domain.PublicIdentity, 0, len(contacts))
	for _, pub := range contacts {
		out = append(out, pub)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out, nil
}

// Compile-time assertion that ContactFileStore implements domain.ContactBook.
var _ domain.ContactBook = (*ContactFileStore)(nil)
