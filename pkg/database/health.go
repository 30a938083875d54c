package database

import (
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/pkg/errors"
)

var (
	keyCorrupted = []byte("dbCorrupted")
	keyVersion   = []byte("dbVersion")
)

// StoreHealthTracker tracks the health and the scheme version of a store in its own realm.
type StoreHealthTracker struct {
	store     kvstore.KVStore
	dbVersion byte
}

// NewStoreHealthTracker creates a new StoreHealthTracker and records the version on fresh stores.
func NewStoreHealthTracker(store kvstore.KVStore, realm []byte, dbVersion byte) (*StoreHealthTracker, error) {
	s := &StoreHealthTracker{
		store:     store.WithRealm(realm),
		dbVersion: dbVersion,
	}

	if err := s.setDatabaseVersion(); err != nil {
		return nil, err
	}

	return s, nil
}

// MarkCorrupted marks the store as in use. It stays marked if the process dies before MarkHealthy.
func (s *StoreHealthTracker) MarkCorrupted() error {
	if err := s.store.Set(keyCorrupted, []byte{}); err != nil {
		return Wrap(err, "failed to set database health status")
	}
	return s.store.Flush()
}

func (s *StoreHealthTracker) MarkHealthy() error {
	if err := s.store.Delete(keyCorrupted); err != nil {
		return Wrap(err, "failed to set database health status")
	}
	return nil
}

func (s *StoreHealthTracker) IsCorrupted() (bool, error) {
	contains, err := s.store.Has(keyCorrupted)
	if err != nil {
		return true, Wrap(err, "failed to read database health status")
	}
	return contains, nil
}

// DatabaseVersion returns the database version.
func (s *StoreHealthTracker) DatabaseVersion() (byte, error) {
	value, err := s.store.Get(keyVersion)
	if err != nil {
		return 0, Wrap(err, "failed to read database version")
	}

	if len(value) < 1 {
		return 0, errors.Wrap(ErrDatabase, "database version is empty")
	}

	return value[0], nil
}

func (s *StoreHealthTracker) setDatabaseVersion() error {
	_, err := s.store.Get(keyVersion)
	if err == nil {
		return nil
	}
	if !errors.Is(err, kvstore.ErrKeyNotFound) {
		return Wrap(err, "failed to read database version")
	}

	// fresh database
	if err := s.store.Set(keyVersion, []byte{s.dbVersion}); err != nil {
		return Wrap(err, "failed to set database version")
	}
	return nil
}

// CheckCorrectDatabaseVersion checks whether the stored version matches the expected one.
func (s *StoreHealthTracker) CheckCorrectDatabaseVersion() (bool, error) {
	version, err := s.DatabaseVersion()
	if err != nil {
		return false, err
	}
	return version == s.dbVersion, nil
}
