package storage

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/iotaledger/chainstore/pkg/storage/database"
	"github.com/iotaledger/hive.go/log"
	"github.com/iotaledger/hive.go/runtime/options"
)

// WithLogger sets the logger the database reports its lifecycle to.
func WithLogger(logger log.Logger) options.Option[Database] {
	return func(d *Database) {
		d.optsLogger = logger
	}
}

// WithVersion sets the schema version the database must have.
func WithVersion(version database.Version) options.Option[Database] {
	return func(d *Database) {
		d.optsVersion = version
	}
}

// WithMetrics registers the metrics of the store with the given registerer.
func WithMetrics(registerer prometheus.Registerer) options.Option[Database] {
	return func(d *Database) {
		d.optsRegisterer = registerer
	}
}
