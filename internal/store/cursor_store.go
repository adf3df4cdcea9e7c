package store

import (
	"path/filepath"
	"sync"

	"claimwire/internal/domain"
)

const cursorsFile = "cursors.json"

// CursorFileStore remembers, per address, the receivedAt of the last
// envelope the client processed.
type CursorFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewCursorFileStore returns a CursorFileStore rooted at dir.
func NewCursorFileStore(dir string) *CursorFileStore {
	return &CursorFileStore{dir: dir}
}

// SaveCursor records receivedAt for address. It never moves backwards.
func (s *CursorFileStore) SaveCursor(address domain.Address, receivedAt int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, cursorsFile)
	cursors := make(map[domain.Address]int64)
	_ = readJSON(path, &cursors)
	if receivedAt <= cursors[address] {
		return nil
	}
	cursors[address] = receivedAt
	return writeJSON(path, cursors, 0o600)
}

// LoadCursor retrieves the cursor for address.
func (s *CursorFileStore) LoadCursor(address domain.Address) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, cursorsFile)
	cursors := make(map[domain.Address]int64)
	if err := readJSON(path, &cursors); err != nil {
		return 0, false, err
	}
	at, ok := cursors[address]
	return at, ok, nil
}

// Compile-time assertion that CursorFileStore implements domain.Cursor.
var _ domain.Cursor = (*CursorFileStore)(nil)
