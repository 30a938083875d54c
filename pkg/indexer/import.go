package indexer

import (
	"gorm.io/gorm"

	"github.com/gohornet/verdict/pkg/model/ledger"
)

// ImportTransaction rebuilds the index from the ledger in a single transaction.
type ImportTransaction struct {
	tx *gorm.DB
}

func (i *Indexer) ImportTransaction() *ImportTransaction {
	return &ImportTransaction{
		tx: i.db.Begin(),
	}
}

func (i *ImportTransaction) AddPoll(p *ledger.Poll) error {
	if err := upsertPoll(p, i.tx); err != nil {
		i.tx.Rollback()
		return err
	}
	return nil
}

func (i *ImportTransaction) AddVoteRecord(v *ledger.VoteRecord) error {
	if err := insertVote(v, i.tx); err != nil {
		i.tx.Rollback()
		return err
	}
	return nil
}

func (i *ImportTransaction) Finalize() error {
	if err := updateStatus(i.tx); err != nil {
		i.tx.Rollback()
		return err
	}
	return i.tx.Commit().Error
}

func (i *ImportTransaction) Cancel() error {
	return i.tx.Rollback().Error
}

// ImportLedger brings the index up to date with the polls and votes stored in the ledger.
// Rows already present are updated, so it can run on a partially filled index.
func (i *Indexer) ImportLedger(l *ledger.Ledger) error {
	importTx := i.ImportTransaction()

	var polls []*ledger.Poll
	if err := l.ForEachPoll(func(p *ledger.Poll) bool {
		polls = append(polls, p)
		return true
	}); err != nil {
		_ = importTx.Cancel()
		return err
	}

	for _, p := range polls {
		if err := importTx.AddPoll(p); err != nil {
			return err
		}

		var innerErr error
		if err := l.ForEachVoteRecord(p.Address, func(v *ledger.VoteRecord) bool {
			innerErr = importTx.AddVoteRecord(v)
			return innerErr == nil
		}); err != nil {
			_ = importTx.Cancel()
			return err
		}
		if innerErr != nil {
			return innerErr
		}
	}

	return importTx.Finalize()
}
