package storage

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/iotaledger/chainstore/pkg/storage/database"
	"github.com/iotaledger/chainstore/pkg/storage/kvstore"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/log"
	"github.com/iotaledger/hive.go/runtime/options"
)

// CurrentVersion is the schema version written by this package.
const CurrentVersion database.Version = 1

// ErrNotFound is returned by queries that require a row to exist.
var ErrNotFound = ierrors.New("not found")

// Database is the chain database. It exposes every table on top of the store it was created with.
type Database struct {
	log.Logger
	*View

	store        kvstore.Store
	shutdownOnce sync.Once

	optsLogger     log.Logger
	optsVersion    database.Version
	optsRegisterer prometheus.Registerer
}

func newDatabase(opts []options.Option[Database]) *Database {
	d := options.Apply(&Database{
		optsVersion: CurrentVersion,
	}, opts)

	if d.optsLogger != nil {
		d.Logger = d.optsLogger.NewChildLogger("Storage")
	} else {
		d.Logger = log.NewLogger(log.WithName("Storage"))
	}

	return d
}

// abort releases the logger of a database that failed to open.
func (d *Database) abort(err error) error {
	d.Logger.Shutdown()

	return err
}

// New creates a database on top of an opened store and takes ownership of it.
func New(store kvstore.Store, opts ...options.Option[Database]) (*Database, error) {
	d := newDatabase(opts)

	if d.optsRegisterer != nil {
		metered, err := database.NewMeteredStore(store, d.optsRegisterer)
		if err != nil {
			return nil, d.abort(ierrors.Join(err, store.Close()))
		}
		store = metered
	}

	if err := database.CheckVersion(store, d.optsVersion); err != nil {
		return nil, d.abort(ierrors.Join(err, store.Close()))
	}

	d.init(store)
	d.LogInfo("database created", "version", d.optsVersion)

	return d, nil
}

// Open opens the database described by the config. A config without version uses the version of the options.
func Open(dbConfig database.Config, opts ...options.Option[Database]) (*Database, error) {
	d := newDatabase(opts)

	if dbConfig.Version == 0 {
		dbConfig.Version = d.optsVersion
	}

	var wrappers []func(kvstore.Store) (kvstore.Store, error)
	if d.optsRegisterer != nil {
		wrappers = append(wrappers, func(store kvstore.Store) (kvstore.Store, error) {
			return database.NewMeteredStore(store, d.optsRegisterer)
		})
	}

	instance, err := database.NewDBInstance(dbConfig, wrappers...)
	if err != nil {
		return nil, d.abort(ierrors.Wrapf(err, "failed to open %s database in %q", dbConfig.Engine, dbConfig.Directory))
	}

	d.init(instance)
	d.LogInfo("database opened", "engine", dbConfig.Engine, "directory", dbConfig.Directory, "version", dbConfig.Version)

	return d, nil
}

// OpenReadOnly opens an existing database for inspection. Nothing is written to it: the version is compared but not
// set, the health flag is left as it is and every write fails with database.ErrReadOnly.
func OpenReadOnly(dbConfig database.Config, opts ...options.Option[Database]) (*Database, error) {
	d := newDatabase(opts)

	if dbConfig.Version == 0 {
		dbConfig.Version = d.optsVersion
	}

	store, corrupted, err := database.NewReadOnlyDBInstance(dbConfig)
	if err != nil {
		return nil, d.abort(ierrors.Wrapf(err, "failed to open %s database in %q", dbConfig.Engine, dbConfig.Directory))
	}
	if corrupted {
		d.LogWarn("database was not shut down cleanly", "directory", dbConfig.Directory)
	}

	d.init(store)
	d.LogInfo("database opened read-only", "engine", dbConfig.Engine, "directory", dbConfig.Directory, "version", dbConfig.Version)

	return d, nil
}

func (d *Database) init(store kvstore.Store) {
	d.store = store
	d.View = newView(store)
}

// Store returns the underlying store.
func (d *Database) Store() kvstore.Store {
	return d.store
}

// Transaction starts a transaction. Its writes reach the database in one changeset on Commit.
func (d *Database) Transaction() *Transaction {
	return newTransaction(d.Logger, kvstore.NewTransaction(d.store))
}

func (d *Database) Flush() error {
	if err := d.store.Flush(); err != nil {
		return ierrors.Wrap(err, "failed to flush database")
	}

	return nil
}

// Shutdown closes the store. Calls after the first one do nothing.
func (d *Database) Shutdown() (err error) {
	d.shutdownOnce.Do(func() {
		if err = d.store.Close(); err != nil {
			err = ierrors.Wrap(err, "failed to close database")

			return
		}

		d.LogInfo("database closed")
		d.Logger.Shutdown()
	})

	return err
}
