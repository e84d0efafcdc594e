package database

import (
	"github.com/iotaledger/chainstore/pkg/storage/kvstore"
	"github.com/iotaledger/hive.go/ierrors"
)

// storeError marks an engine failure as kvstore.ErrStore while keeping the cause.
func storeError(err error, format string, args ...any) error {
	if ierrors.Is(err, kvstore.ErrStore) {
		return ierrors.Wrapf(err, format, args...)
	}

	return ierrors.Join(kvstore.ErrStore, ierrors.Wrapf(err, format, args...))
}

func FlushAndClose(store kvstore.Store) error {
	if err := store.Flush(); err != nil {
		return ierrors.Wrap(err, "failed to flush database")
	}

	return store.Close()
}
