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
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Move the store from unopened to loading
func (pm *PrometheusMetrics) StartLoadingStore(backend string) {
	if pm == nil {
		return
	}

	pm.StoresLoading.WithLabelValues(backend).Inc()
}

// Move the store from loading to loaded. A failed open only leaves loading.
func (pm *PrometheusMetrics) FinishLoadingStore(backend string, ok bool) {
	if pm == nil {
		return
	}

	pm.StoresLoading.WithLabelValues(backend).Dec()
	if ok {
		pm.StoresLoaded.WithLabelValues(backend).Inc()
	}
}

// Move the store from loaded to closing
func (pm *PrometheusMetrics) StartClosingStore(backend string) {
	if pm == nil {
		return
	}

	pm.StoresLoaded.WithLabelValues(backend).Dec()
	pm.StoresClosing.WithLabelValues(backend).Inc()
}

func (pm *PrometheusMetrics) FinishClosingStore(backend string) {
	if pm == nil {
		return
	}

	pm.StoresClosing.WithLabelValues(backend).Dec()
}

func (pm *PrometheusMetrics) StorageOperation(kind, operation string) {
	if pm == nil {
		return
	}

	pm.StorageOperations.With(prometheus.Labels{
		"kind":      kind,
		"operation": operation,
	}).Inc()
}

// TrackTransaction returns the function that records the transaction's
// duration once it ends.
func (pm *PrometheusMetrics) TrackTransaction(writable bool) func() {
	if pm == nil {
		return func() {}
	}

	mode := "read"
	if writable {
		mode = "write"
	}
	start := time.Now()
	return func() {
		pm.TransactionDurations.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	}
}

func (pm *PrometheusMetrics) Backup(bytes int64, took time.Duration) {
	if pm == nil {
		return
	}

	pm.BackupBytes.Add(float64(bytes))
	pm.BackupDurations.Observe(took.Seconds())
}

func (pm *PrometheusMetrics) Traversal(terminal string, took time.Duration) {
	if pm == nil {
		return
	}

	pm.TraversalDurations.WithLabelValues(terminal).Observe(took.Seconds())
}
