package indexer

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/gohornet/verdict/pkg/model/ledger"
)

// Engine is the relational database used by the indexer.
type Engine string

const (
	EngineSQLite   Engine = "sqlite"
	EnginePostgres Engine = "postgres"
)

var (
	ErrNotFound = errors.New("record not found for given filter")
)

type Indexer struct {
	db *gorm.DB
}

// Dialector returns the gorm dialector for the engine.
// For sqlite the dsn is a directory the database file is created in, for postgres it is a connection string.
func Dialector(engineStr string, dsn string) (gorm.Dialector, error) {
	switch Engine(strings.ToLower(engineStr)) {
	case EngineSQLite:
		if err := os.MkdirAll(dsn, 0700); err != nil {
			return nil, errors.Wrapf(err, "unable to create indexer directory %s", dsn)
		}
		return sqlite.Open(filepath.Join(dsn, "indexer.db")), nil

	case EnginePostgres:
		if len(dsn) == 0 {
			return nil, errors.New("postgres indexer needs a connection string")
		}
		return postgres.Open(dsn), nil

	default:
		return nil, errors.Errorf("unknown indexer engine: %s, supported engines: sqlite/postgres", engineStr)
	}
}

func NewIndexer(dialector gorm.Dialector) (*Indexer, error) {

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	// Create the tables and indexes if needed
	if err := db.AutoMigrate(&status{}, &poll{}, &vote{}); err != nil {
		return nil, errors.Wrap(err, "unable to migrate indexer tables")
	}

	return &Indexer{
		db: db,
	}, nil
}

func upsertPoll(p *ledger.Poll, tx *gorm.DB) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{"vote_counts", "total_votes", "updated_at"}),
	}).Create(pollRowFromPoll(p)).Error
}

func insertVote(v *ledger.VoteRecord, tx *gorm.DB) error {
	return tx.Clauses(clause.OnConflict{
		DoNothing: true,
	}).Create(voteRowFromVoteRecord(v)).Error
}

func updateStatus(tx *gorm.DB) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"applied_events": gorm.Expr("statuses.applied_events + 1")}),
	}).Create(&status{ID: 1, AppliedEvents: 1}).Error
}

// transaction runs f in a transaction and rolls it back on errors or panics.
func (i *Indexer) transaction(f func(tx *gorm.DB) error) (err error) {
	tx := i.db.Begin()
	if err := tx.Error; err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := f(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// ApplyPollCreated adds a new poll to the index.
func (i *Indexer) ApplyPollCreated(p *ledger.Poll) error {
	return i.transaction(func(tx *gorm.DB) error {
		if err := upsertPoll(p, tx); err != nil {
			return err
		}
		return updateStatus(tx)
	})
}

// ApplyVoteCast stores the vote and the updated counters of its poll.
func (i *Indexer) ApplyVoteCast(p *ledger.Poll, v *ledger.VoteRecord) error {
	return i.transaction(func(tx *gorm.DB) error {
		if err := upsertPoll(p, tx); err != nil {
			return err
		}
		if err := insertVote(v, tx); err != nil {
			return err
		}
		return updateStatus(tx)
	})
}

// AppliedEvents returns the amount of ledger events applied to the index.
func (i *Indexer) AppliedEvents() (uint64, error) {
	s := &status{}
	if err := i.db.Take(s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return s.AppliedEvents, nil
}

func (i *Indexer) CloseDatabase() error {
	sqlDB, err := i.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
