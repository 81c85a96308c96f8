package store

import (
	"os"
	"path/filepath"
	"sort"
	"sync"

	"sigsetup/internal/domain"
)

const accountsFile = "accounts.json"

// AccountFileStore keeps the registry of onboarded accounts on disk.
type AccountFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewAccountFileStore returns a store rooted at dir, creating it if needed.
func NewAccountFileStore(dir string) (*AccountFileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &AccountFileStore{dir: dir}, nil
}

func (s *AccountFileStore) path() string { return filepath.Join(s.dir, accountsFile) }

// Get returns the record for number, if one exists.
func (s *AccountFileStore) Get(number domain.PhoneNumber) (domain.AccountRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := make(map[string]domain.AccountRecord)
	if err := readJSON(s.path(), &m); err != nil {
		return domain.AccountRecord{}, false, err
	}
	rec, ok := m[number.String()]
	return rec, ok, nil
}

// Upsert inserts or replaces the record keyed by its number.
func (s *AccountFileStore) Upsert(rec domain.AccountRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := make(map[string]domain.AccountRecord)
	if err := readJSON(s.path(), &m); err != nil {
		return err
	}
	m[rec.Number.String()] = rec
	return writeJSON(s.path(), m, 0o600)
}

// List returns all records ordered by number.
func (s *AccountFileStore) List() ([]domain.AccountRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := make(map[string]domain.AccountRecord)
	if err := readJSON(s.path(), &m); err != nil {
		return nil, err
	}
	recs := make([]domain.AccountRecord, 0, len(m))
	for _, rec := range m {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Number < recs[j].Number })
	return recs, nil
}

// Compile-time assertion that AccountFileStore implements domain.AccountStore.
var _ domain.AccountStore = (*AccountFileStore)(nil)
