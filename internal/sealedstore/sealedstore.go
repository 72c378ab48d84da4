// Package sealedstore durably persists the enclave's key material, the
// one piece of state a trust engine restart must not lose (spec.md §9 —
// everything else, the repository registry included, is documented as
// in-memory only). It wraps a single LevelDB database, keyed by the fixed
// sealed-storage object identifier the original TA addressed its
// persistent object under.
package sealedstore

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/syndtr/goleveldb/leveldb"
)

// ObjectUUID is the fixed identifier the enclave's persistent key-pair
// object is stored under, carried over unchanged from the TA's
// tee_key_pair_uuid constant.
const ObjectUUID = "12345678-1234-1234-1212-121212121212"

// ErrNotFound is returned by Get when no value has been Put for a key.
var ErrNotFound = errors.New("sealedstore: object not found")

func init() {
	if _, err := uuid.Parse(ObjectUUID); err != nil {
		panic("sealedstore: ObjectUUID is not a valid UUID: " + err.Error())
	}
}

// Store is a durable, sealed key-value object store backed by LevelDB.
// It holds exactly one logical object class today (the enclave keypair),
// but is not restricted to it.
type Store struct {
	db *leveldb.DB
}

// Open opens (creating if absent) the LevelDB database at dir.
func Open(dir string) (*Store, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("sealedstore: open %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("sealedstore: close: %w", err)
	}
	return nil
}

// Get returns the bytes stored under key, or ErrNotFound.
func (s *Store) Get(key string) ([]byte, error) {
	val, err := s.db.Get([]byte(key), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("sealedstore: get %s: %w", key, err)
	}
	return val, nil
}

// Put writes val under key, overwriting any existing value.
func (s *Store) Put(key string, val []byte) error {
	if err := s.db.Put([]byte(key), val, nil); err != nil {
		return fmt.Errorf("sealedstore: put %s: %w", key, err)
	}
	return nil
}

// Has reports whether key currently has a stored value.
func (s *Store) Has(key string) (bool, error) {
	ok, err := s.db.Has([]byte(key), nil)
	if err != nil {
		return false, fmt.Errorf("sealedstore: has %s: %w", key, err)
	}
	return ok, nil
}
