package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"claimwire/internal/domain"
	"claimwire/internal/util/memzero"
)

// identityExt marks sealed identity files under the keystore directory.
const identityExt = ".identity.enc"

// ErrNotFound is returned when no identity exists for an address.
var ErrNotFound = errors.New("store: identity not found")

// FileKeystore persists identities on disk, one sealed file per address.
type FileKeystore struct {
	dir string
	mu  sync.Mutex
}

// NewFileKeystore returns a FileKeystore rooted at dir, creating the
// directory if needed.
func NewFileKeystore(dir string) (*FileKeystore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &FileKeystore{dir: dir}, nil
}

// SaveIdentity seals id under passphrase and writes it to disk.
func (s *FileKeystore) SaveIdentity(passphrase string, id domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !id.Address.Valid() {
		return fmt.Errorf("store: refusing to save identity with address %q", id.Address)
	}
	raw, err := json.Marshal(id)
	if err != nil {
		return err
	}
	defer memzero.Zero(raw)

	N, r, p := scryptParamsDefault()
	sealed, err := seal(passphrase, raw, N, r, p)
	if err != nil {
		return err
	}
	return writeFile(s.path(id.Address), sealed, 0o600)
}

// LoadIdentity reads and opens the identity stored for address.
func (s *FileKeystore) LoadIdentity(passphrase string, address domain.Address) (domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path(address))
	if errors.Is(err, os.ErrNotExist) {
		return domain.Identity{}, fmt.Errorf("%w: %s", ErrNotFound, address)
	}
	if err != nil {
		return domain.Identity{}, err
	}
	raw, err := open(passphrase, b)
	if err != nil {
		return domain.Identity{}, err
	}
	defer memzero.Zero(raw)

	var id domain.Identity
	if err := json.Unmarshal(raw, &id); err != nil {
		return domain.Identity{}, err
	}
	return id, nil
}

// ListIdentities returns the addresses with a sealed identity on disk,
// sorted for stable output.
func (s *FileKeystore) ListIdentities() ([]domain.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var out []domain.Address
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, identityExt) {
			continue
		}
		addr := domain.Address(strings.TrimSuffix(name, identityExt))
		if !addr.Valid() {
			continue
		}
		out = append(out, addr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (s *FileKeystore) path(addr domain.Address) string {
	return filepath.Join(s.dir, string(addr)+identityExt)
}

// Compile-time assertion that FileKeystore implements domain.Keystore.
var _ domain.Keystore = (*FileKeystore)(nil)
