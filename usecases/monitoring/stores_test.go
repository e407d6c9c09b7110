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
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStores(t *testing.T) {
	m := NewPrometheusMetrics(prometheus.NewRegistry())

	t.Run("open and close lifecycle", func(t *testing.T) {
		m.StartLoadingStore("bolt")
		assert.Equal(t, float64(1), testutil.ToFloat64(m.StoresLoading.WithLabelValues("bolt")))

		m.FinishLoadingStore("bolt", true)
		assert.Equal(t, float64(0), testutil.ToFloat64(m.StoresLoading.WithLabelValues("bolt")))
		assert.Equal(t, float64(1), testutil.ToFloat64(m.StoresLoaded.WithLabelValues("bolt")))

		m.StartClosingStore("bolt")
		assert.Equal(t, float64(0), testutil.ToFloat64(m.StoresLoaded.WithLabelValues("bolt")))
		assert.Equal(t, float64(1), testutil.ToFloat64(m.StoresClosing.WithLabelValues("bolt")))

		m.FinishClosingStore("bolt")
		assert.Equal(t, float64(0), testutil.ToFloat64(m.StoresClosing.WithLabelValues("bolt")))
	})

	t.Run("failed open is not counted as loaded", func(t *testing.T) {
		m.StartLoadingStore("badger")
		m.FinishLoadingStore("badger", false)
		assert.Equal(t, float64(0), testutil.ToFloat64(m.StoresLoaded.WithLabelValues("badger")))
	})

	t.Run("operations and durations", func(t *testing.T) {
		m.StorageOperation("node", "create")
		m.StorageOperation("node", "create")
		assert.Equal(t, float64(2),
			testutil.ToFloat64(m.StorageOperations.WithLabelValues("node", "create")))

		done := m.TrackTransaction(true)
		done()
		m.Backup(1024, time.Second)
		assert.Equal(t, float64(1024), testutil.ToFloat64(m.BackupBytes))
		assert.Equal(t, 1, testutil.CollectAndCount(m.TransactionDurations))
	})
}

func TestNilMetrics(t *testing.T) {
	var m *PrometheusMetrics
	require.NotPanics(t, func() {
		m.StartLoadingStore("bolt")
		m.FinishLoadingStore("bolt", true)
		m.StartClosingStore("bolt")
		m.FinishClosingStore("bolt")
		m.StorageOperation("edge", "delete")
		m.TrackTransaction(false)()
		m.Backup(1, time.Millisecond)
		m.Traversal("collect", time.Millisecond)
	})
}

func TestNilRegistryIsNotExported(t *testing.T) {
	m := NewPrometheusMetrics(nil)
	m.StorageOperation("vector", "create")
	assert.Equal(t, float64(1),
		testutil.ToFloat64(m.StorageOperations.WithLabelValues("vector", "create")))
}
