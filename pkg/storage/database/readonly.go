package database

import (
	"github.com/iotaledger/chainstore/pkg/storage/kvstore"
	"github.com/iotaledger/hive.go/ierrors"
)

// readOnlyStore rejects every changeset.
type readOnlyStore struct {
	kvstore.Store
}

func (r *readOnlyStore) Apply(*kvstore.Changeset) error {
	return ErrReadOnly
}

// NewReadOnlyDBInstance opens an existing database without writing to it. The stored version has to match the
// config and the health flag is only reported, so a database that was not shut down cleanly can still be inspected.
func NewReadOnlyDBInstance(dbConfig Config) (store kvstore.Store, corrupted bool, err error) {
	var engineStore kvstore.Store
	switch {
	case dbConfig.Engine == EngineLevelDB && dbConfig.Directory != "":
		engineStore, err = OpenLevelDBReadOnly(dbConfig.Directory)
	default:
		engineStore, err = StoreWithDefaultSettings(dbConfig)
	}
	if err != nil {
		return nil, false, err
	}

	store = newLockedStore(&readOnlyStore{Store: engineStore})

	version, exists, err := StoredVersion(store)
	if err != nil {
		return nil, false, ierrors.Join(err, store.Close())
	}
	if !exists {
		return nil, false, ierrors.Join(ierrors.Wrapf(ErrNoVersion, "database in %s", dbConfig.Directory), store.Close())
	}
	if version != dbConfig.Version {
		return nil, false, ierrors.Join(ierrors.Wrapf(ErrIncompatibleVersion, "supported version: %d, version of database: %d", dbConfig.Version, version), store.Close())
	}

	if corrupted, err = IsCorrupted(store); err != nil {
		return nil, false, ierrors.Join(err, store.Close())
	}

	return store, corrupted, nil
}
