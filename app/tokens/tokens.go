// Package tokens persists the auth credentials the client attaches to
// outgoing requests. Tokens are optional: an empty store means requests go
// out unauthenticated.
package tokens

import (
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

// Storage keys, fixed for compatibility with the web client's local storage.
const (
	TokenKey        = "authToken"
	RefreshTokenKey = "refreshToken"
)

// Store reads and writes the persisted bearer credentials.
type Store interface {
	Token() string
	RefreshToken() string
	Set(access, refresh string) error
	Clear() error
}

// MemoryStore keeps tokens in process memory. Used in tests and by callers
// that don't want credentials on disk.
type MemoryStore struct {
	mu      sync.RWMutex
	access  string
	refresh string
}

// NewMemoryStore returns an empty in-memory token store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Token returns the access token, or "" when logged out.
func (s *MemoryStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

// RefreshToken returns the refresh token, or "" when logged out.
func (s *MemoryStore) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

// Set stores both tokens.
func (s *MemoryStore) Set(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	s.refresh = refresh
	return nil
}

// Clear removes both tokens.
func (s *MemoryStore) Clear() error {
	return s.Set("", "")
}

// BadgerStore persists tokens in an embedded Badger database so a login
// survives process restarts.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens (or creates) a token store at path. An empty path
// opens an in-memory database.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(path)
	}
	opts = opts.WithLogger(nil).WithSyncWrites(true)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open token store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// Token returns the access token, or "" when none is stored.
func (s *BadgerStore) Token() string {
	return s.get(TokenKey)
}

// RefreshToken returns the refresh token, or "" when none is stored.
func (s *BadgerStore) RefreshToken() string {
	return s.get(RefreshTokenKey)
}

// Set stores both tokens.
func (s *BadgerStore) Set(access, refresh string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(TokenKey), []byte(access)); err != nil {
			return err
		}
		return txn.Set([]byte(RefreshTokenKey), []byte(refresh))
	})
}

// Clear removes both tokens.
func (s *BadgerStore) Clear() error {
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(TokenKey)); err != nil && err != badger.ErrKeyNotFound {
			return err
		}
		if err := txn.Delete([]byte(RefreshTokenKey)); err != nil && err != badger.ErrKeyNotFound {
			return err
		}
		return nil
	})
}

func (s *BadgerStore) get(key string) string {
	var value string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if err != nil {
		return ""
	}
	return value
}
