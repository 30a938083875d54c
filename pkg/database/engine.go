package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/gohornet/verdict/pkg/utils"
	"github.com/iotaledger/hive.go/kvstore/mapdb"
	"github.com/iotaledger/hive.go/kvstore/pebble"
)

const (
	dbInfoFileName = "dbinfo"
)

type databaseInfo struct {
	Engine string `toml:"databaseEngine"`
}

// DatabaseEngine parses a string and returns an engine.
// Returns an error if the engine is unknown or not allowed.
func DatabaseEngine(engineStr string, allowedEngines ...Engine) (Engine, error) {

	engine := Engine(strings.ToLower(engineStr))

	if len(allowedEngines) == 0 {
		allowedEngines = []Engine{EnginePebble, EngineMapDB}
	}

	supported := make([]string, len(allowedEngines))
	for i, allowedEngine := range allowedEngines {
		if engine == allowedEngine {
			return engine, nil
		}
		supported[i] = string(allowedEngine)
	}

	return EngineUnknown, fmt.Errorf("unknown database engine: %s, supported engines: %s", engine, strings.Join(supported, "/"))
}

// CheckDatabaseEngine checks if the correct database engine is used.
// A "database info file" is stored in the database folder on creation,
// later openings must use the engine recorded in it.
func CheckDatabaseEngine(dbPath string, createDatabaseIfNotExists bool, dbEngine ...Engine) (Engine, error) {

	if len(dbEngine) > 0 && dbEngine[0] == EngineMapDB {
		// in-memory, nothing to check
		return EngineMapDB, nil
	}

	if createDatabaseIfNotExists && len(dbEngine) == 0 {
		return EngineUnknown, errors.New("the database engine must be specified if the database should be newly created")
	}

	dbExists, err := DatabaseExists(dbPath)
	if err != nil {
		return EngineUnknown, err
	}

	if !dbExists && !createDatabaseIfNotExists {
		return EngineUnknown, fmt.Errorf("database not found (%s)", dbPath)
	}

	dbInfoFilePath := filepath.Join(dbPath, dbInfoFileName)
	if _, err := os.Stat(dbInfoFilePath); err != nil {
		if !os.IsNotExist(err) {
			return EngineUnknown, fmt.Errorf("unable to check database info file (%s): %w", dbInfoFilePath, err)
		}

		if len(dbEngine) == 0 {
			return EngineUnknown, fmt.Errorf("database info file not found (%s)", dbInfoFilePath)
		}

		if err := storeDatabaseInfoToFile(dbInfoFilePath, dbEngine[0]); err != nil {
			return EngineUnknown, err
		}

		return dbEngine[0], nil
	}

	dbEngineFromInfoFile, err := LoadDatabaseEngineFromFile(dbInfoFilePath)
	if err != nil {
		return EngineUnknown, err
	}

	if len(dbEngine) > 0 && dbEngineFromInfoFile != dbEngine[0] {
		return EngineUnknown, fmt.Errorf("database engine does not match the configuration: '%v' != '%v'", dbEngineFromInfoFile, dbEngine[0])
	}

	return dbEngineFromInfoFile, nil
}

// LoadDatabaseEngineFromFile returns the engine from the "database info file".
func LoadDatabaseEngineFromFile(path string) (Engine, error) {

	var info databaseInfo

	if err := utils.ReadTOMLFromFile(path, &info); err != nil {
		return EngineUnknown, fmt.Errorf("unable to read database info file: %w", err)
	}

	return DatabaseEngine(info.Engine)
}

func storeDatabaseInfoToFile(filePath string, engine Engine) error {
	dirPath := filepath.Dir(filePath)

	if err := os.MkdirAll(dirPath, 0700); err != nil {
		return fmt.Errorf("could not create database dir '%s': %w", dirPath, err)
	}

	info := &databaseInfo{
		Engine: string(engine),
	}

	return utils.WriteTOMLToFile(filePath, info, 0660, "# auto-generated\n# !!! do not modify this file !!!")
}

// DatabaseWithDefaultSettings opens a database with default settings.
// It also checks if the database engine is correct.
func DatabaseWithDefaultSettings(path string, createDatabaseIfNotExists bool, dbEngine ...Engine) (*Database, error) {

	targetEngine, err := CheckDatabaseEngine(path, createDatabaseIfNotExists, dbEngine...)
	if err != nil {
		return nil, err
	}

	switch targetEngine {
	case EnginePebble:
		db, err := NewPebbleDB(path, false)
		if err != nil {
			return nil, err
		}
		return New(pebble.New(db), EnginePebble, path), nil

	case EngineMapDB:
		return New(mapdb.NewMapDB(), EngineMapDB, ""), nil

	default:
		return nil, fmt.Errorf("unknown database engine: %s, supported engines: pebble/mapdb", targetEngine)
	}
}
