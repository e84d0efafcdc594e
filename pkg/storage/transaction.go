package storage

import (
	"github.com/iotaledger/chainstore/pkg/storage/kvstore"
	"github.com/iotaledger/hive.go/log"
)

// Transaction exposes the tables on top of pending writes.
type Transaction struct {
	*View

	logger log.Logger
	tx     *kvstore.Transaction
}

func newTransaction(logger log.Logger, tx *kvstore.Transaction) *Transaction {
	return &Transaction{
		View:   newView(tx),
		logger: logger,
		tx:     tx,
	}
}

// Transaction starts a nested transaction that commits into this one.
func (t *Transaction) Transaction() *Transaction {
	return newTransaction(t.logger, t.tx.Transaction())
}

// Changes returns the pending writes.
func (t *Transaction) Changes() *kvstore.Changeset {
	return t.tx.Changes()
}

func (t *Transaction) Commit() error {
	operations := t.tx.Changes().Len()
	if err := t.tx.Commit(); err != nil {
		return err
	}

	t.logger.LogTrace("transaction committed", "operations", operations)

	return nil
}

// Cancel discards the pending writes.
func (t *Transaction) Cancel() {
	t.tx.Cancel()
}
