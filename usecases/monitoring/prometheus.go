//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2026 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//
package monitoring

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "weavegraph"

// PrometheusMetrics holds every collector of the engine. All methods are
// safe to call on a nil receiver, which is how disabled metrics are
// represented.
type PrometheusMetrics struct {
	StoresLoading *prometheus.GaugeVec
	StoresLoaded  *prometheus.GaugeVec
	StoresClosing *prometheus.GaugeVec

	StorageOperations    *prometheus.CounterVec
	TransactionDurations *prometheus.HistogramVec
	BackupBytes          prometheus.Counter
	BackupDurations      prometheus.Histogram

	VectorIndexOperations      *prometheus.CounterVec
	VectorIndexSize            prometheus.Gauge
	VectorIndexTombstones      prometheus.Gauge
	VectorIndexSearchDurations *prometheus.HistogramVec

	BM25Operations      *prometheus.CounterVec
	BM25SearchDurations prometheus.Histogram

	TraversalDurations *prometheus.HistogramVec
}

var (
	defaultMetrics *PrometheusMetrics
	defaultOnce    sync.Once
)

// GetMetrics returns the process wide metrics registered on the default
// prometheus registry.
func GetMetrics() *PrometheusMetrics {
	defaultOnce.Do(func() {
		defaultMetrics = NewPrometheusMetrics(prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

// NewPrometheusMetrics registers a fresh set of collectors on reg. A nil reg
// builds working collectors that are not exported anywhere.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = noop
	}
	f := promauto.With(reg)

	return &PrometheusMetrics{
		StoresLoading: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stores_loading",
			Help:      "Number of stores in the process of being opened",
		}, []string{"backend"}),
		StoresLoaded: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stores_loaded",
			Help:      "Number of open stores",
		}, []string{"backend"}),
		StoresClosing: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stores_closing",
			Help:      "Number of stores in the process of being closed",
		}, []string{"backend"}),

		StorageOperations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_operations_total",
			Help:      "Node, edge and vector writes by operation",
		}, []string{"kind", "operation"}),
		TransactionDurations: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transaction_duration_seconds",
			Help:      "Time from opening a transaction until commit or rollback",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"mode"}),
		BackupBytes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backup_bytes_total",
			Help:      "Bytes written by backups before compression",
		}),
		BackupDurations: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backup_duration_seconds",
			Help:      "Duration of completed backups",
			Buckets:   prometheus.ExponentialBuckets(0.1, 4, 8),
		}),

		VectorIndexOperations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vector_index_operations_total",
			Help:      "HNSW inserts, deletes and rebuilds",
		}, []string{"operation"}),
		VectorIndexSize: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "vector_index_size",
			Help:      "Number of vectors in the HNSW graph including tombstones",
		}),
		VectorIndexTombstones: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "vector_index_tombstones",
			Help:      "Number of soft deleted vectors still linked in the graph",
		}),
		VectorIndexSearchDurations: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "vector_index_search_duration_seconds",
			Help:      "Duration of nearest neighbor searches",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"strategy"}),

		BM25Operations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bm25_operations_total",
			Help:      "Keyword index document inserts and deletes",
		}, []string{"operation"}),
		BM25SearchDurations: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "bm25_search_duration_seconds",
			Help:      "Duration of keyword searches",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),

		TraversalDurations: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "traversal_duration_seconds",
			Help:      "Duration of materialized traversals by terminal step",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"terminal"}),
	}
}
