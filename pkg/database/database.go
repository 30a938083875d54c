package database

import (
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/pkg/errors"
)

// Engine is a database engine.
type Engine string

const (
	EngineUnknown Engine = "unknown"
	EnginePebble  Engine = "pebble"
	EngineMapDB   Engine = "mapdb"
)

var (
	// ErrDatabase wraps all errors returned by the underlying store.
	ErrDatabase = errors.New("database error")
)

// Wrap wraps an error of the underlying store, adding the given message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(errors.WithMessage(ErrDatabase, err.Error()), message)
}

// Database holds the underlying KVStore and the engine it was opened with.
type Database struct {
	store  kvstore.KVStore
	engine Engine
	path   string
}

// New creates a new Database instance.
func New(store kvstore.KVStore, engine Engine, path string) *Database {
	return &Database{
		store:  store,
		engine: engine,
		path:   path,
	}
}

// KVStore returns the underlying KVStore.
func (db *Database) KVStore() kvstore.KVStore {
	return db.store
}

// Engine returns the engine of the database.
func (db *Database) Engine() Engine {
	return db.engine
}

// Path returns the directory of the database. It is empty for in-memory databases.
func (db *Database) Path() string {
	return db.path
}
