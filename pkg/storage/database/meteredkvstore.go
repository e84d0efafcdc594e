package database

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/iotaledger/chainstore/pkg/storage/column"
	"github.com/iotaledger/chainstore/pkg/storage/kvstore"
	"github.com/iotaledger/hive.go/ierrors"
)

const metricsNamespace = "chainstore"

// meteredStore counts the calls into the wrapped store.
type meteredStore struct {
	kvstore.Store

	reads         *prometheus.CounterVec
	errors        *prometheus.CounterVec
	changesets    prometheus.Counter
	operations    *prometheus.CounterVec
	applyDuration prometheus.Histogram
}

// NewMeteredStore registers the metrics of the store at the given registerer.
func NewMeteredStore(store kvstore.Store, registerer prometheus.Registerer) (kvstore.Store, error) {
	m := &meteredStore{
		Store: store,
		reads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "reads_total",
			Help:      "Number of read calls per column and operation.",
		}, []string{"column", "operation"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "errors_total",
			Help:      "Number of failed calls per operation.",
		}, []string{"operation"}),
		changesets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "changesets_total",
			Help:      "Number of applied changesets.",
		}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "written_operations_total",
			Help:      "Number of written operations per column and kind.",
		}, []string{"column", "kind"}),
		applyDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "apply_duration_seconds",
			Help:      "Time it takes to apply a changeset.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}

	for _, collector := range []prometheus.Collector{m.reads, m.errors, m.changesets, m.operations, m.applyDuration} {
		if err := registerer.Register(collector); err != nil {
			return nil, ierrors.Wrap(err, "failed to register metric")
		}
	}

	return m, nil
}

func (m *meteredStore) countRead(col column.Column, operation string, err error) {
	m.reads.WithLabelValues(col.String(), operation).Inc()
	if err != nil {
		m.errors.WithLabelValues(operation).Inc()
	}
}

func (m *meteredStore) Get(col column.Column, key []byte) ([]byte, bool, error) {
	value, exists, err := m.Store.Get(col, key)
	m.countRead(col, "get", err)

	return value, exists, err
}

func (m *meteredStore) Has(col column.Column, key []byte) (bool, error) {
	has, err := m.Store.Has(col, key)
	m.countRead(col, "has", err)

	return has, err
}

func (m *meteredStore) Size(col column.Column, key []byte) (int, bool, error) {
	size, exists, err := m.Store.Size(col, key)
	m.countRead(col, "size", err)

	return size, exists, err
}

func (m *meteredStore) Read(col column.Column, key []byte, buf []byte) (int, bool, error) {
	n, exists, err := m.Store.Read(col, key, buf)
	m.countRead(col, "read", err)

	return n, exists, err
}

func (m *meteredStore) Iterate(col column.Column, prefix []byte, start []byte, direction kvstore.IterDirection, consumer kvstore.ConsumerFunc) error {
	err := m.Store.Iterate(col, prefix, start, direction, consumer)
	m.countRead(col, "iterate", err)

	return err
}

func (m *meteredStore) Apply(changeset *kvstore.Changeset) error {
	startTime := time.Now()
	if err := m.Store.Apply(changeset); err != nil {
		m.errors.WithLabelValues("apply").Inc()

		return err
	}
	m.applyDuration.Observe(time.Since(startTime).Seconds())
	m.changesets.Inc()

	_ = changeset.Each(func(op kvstore.Operation) error {
		kind := "set"
		if op.Delete {
			kind = "delete"
		}
		m.operations.WithLabelValues(op.Column.String(), kind).Inc()

		return nil
	})

	return nil
}
