package database

import (
	"github.com/iotaledger/chainstore/pkg/storage/kvstore"
	"github.com/iotaledger/hive.go/db"
	"github.com/iotaledger/hive.go/ierrors"
	hivekvstore "github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/kvstore/mapdb"
)

// DBInstance is a Store opened from a Config. It verifies the schema version and tracks whether the database was
// shut down cleanly.
type DBInstance struct {
	*lockedStore

	healthTracker *hivekvstore.StoreHealthTracker
	dbConfig      Config
}

// StoreWithDefaultSettings opens the engine named in the config without any wrappers.
func StoreWithDefaultSettings(dbConfig Config) (kvstore.Store, error) {
	switch dbConfig.Engine {
	case db.EngineMapDB:
		return NewHiveStore(mapdb.NewMapDB()), nil
	case EngineLevelDB:
		if dbConfig.Directory == "" {
			return NewMemoryLevelDB()
		}

		return OpenLevelDB(dbConfig.Directory, dbConfig.Sync)
	default:
		return nil, ierrors.Wrapf(ErrEngineNotSupported, "engine %q", dbConfig.Engine)
	}
}

// NewDBInstance opens the database and marks it as in use until it is closed.
func NewDBInstance(dbConfig Config, wrappers ...func(kvstore.Store) (kvstore.Store, error)) (*DBInstance, error) {
	store, err := StoreWithDefaultSettings(dbConfig)
	if err != nil {
		return nil, err
	}

	if dbConfig.CacheSize > 0 {
		store = NewCachedStore(store, dbConfig.CacheSize)
	}

	for _, wrap := range wrappers {
		if store, err = wrap(store); err != nil {
			return nil, ierrors.Wrap(err, "failed to wrap store")
		}
	}

	return NewDBInstanceFromStore(store, dbConfig)
}

// NewDBInstanceFromStore takes ownership of an already opened store.
func NewDBInstanceFromStore(store kvstore.Store, dbConfig Config) (*DBInstance, error) {
	d := &DBInstance{
		lockedStore: newLockedStore(store),
		dbConfig:    dbConfig,
	}

	if err := CheckVersion(d, dbConfig.Version); err != nil {
		return nil, ierrors.Join(err, store.Close())
	}

	healthTracker, err := newHealthTracker(d.lockedStore)
	if err != nil {
		return nil, ierrors.Join(err, store.Close())
	}

	corruptedDB, err := healthTracker.IsCorrupted()
	if err != nil {
		return nil, ierrors.Join(err, store.Close())
	}
	if corruptedDB {
		return nil, ierrors.Join(ierrors.Wrapf(ErrDatabaseCorrupted, "database in %s is corrupted, delete database and resync node", dbConfig.Directory), store.Close())
	}

	// the flag stays set until the database is closed cleanly
	if err = healthTracker.MarkCorrupted(); err != nil {
		return nil, ierrors.Join(err, store.Close())
	}
	if err = d.lockedStore.Flush(); err != nil {
		return nil, ierrors.Join(err, store.Close())
	}
	d.healthTracker = healthTracker

	return d, nil
}

func (d *DBInstance) Config() Config {
	return d.dbConfig
}

// Close marks the database as healthy and closes it.
func (d *DBInstance) Close() error {
	if err := d.healthTracker.MarkHealthy(); err != nil {
		return err
	}

	return d.lockedStore.Close()
}
