package database

import (
	"github.com/iotaledger/chainstore/pkg/storage/column"
	"github.com/iotaledger/chainstore/pkg/storage/kvstore"
	hivekvstore "github.com/iotaledger/hive.go/kvstore"
)

// PrefixHealth is the realm of the health flags in the metadata column.
var PrefixHealth = []byte{255}

// newHealthTracker tracks the health flags in the metadata column. The schema version is kept by CheckVersion, so
// the tracker is created without one and never writes on its own.
func newHealthTracker(store kvstore.ReadWriter) (*hivekvstore.StoreHealthTracker, error) {
	return hivekvstore.NewStoreHealthTracker(kvstore.NewColumnKVStore(store, column.Metadata, nil), PrefixHealth, hivekvstore.StoreVersionNone, nil)
}

// IsCorrupted returns true if the database was not shut down cleanly.
func IsCorrupted(store kvstore.ReadWriter) (bool, error) {
	healthTracker, err := newHealthTracker(store)
	if err != nil {
		return false, err
	}

	return healthTracker.IsCorrupted()
}
