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
package storage

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/weaviate/weavegraph/usecases/monitoring"
)

type Metrics struct {
	logger      logrus.FieldLogger
	monitoring  bool
	baseMetrics *monitoring.PrometheusMetrics
}

func NewMetrics(logger logrus.FieldLogger, prom *monitoring.PrometheusMetrics) *Metrics {
	return &Metrics{
		logger:      logger,
		monitoring:  prom != nil,
		baseMetrics: prom,
	}
}

// Operation counts one write of kind (node, edge, vector, index) and traces
// how long it took.
func (m *Metrics) Operation(kind, operation string, start time.Time) {
	took := time.Since(start)
	m.logger.WithField("action", "storage_"+kind+"_"+operation).
		WithField("took", took).
		Tracef("%s %s took %s", operation, kind, took)

	if !m.monitoring {
		return
	}
	m.baseMetrics.StorageOperation(kind, operation)
}

func (m *Metrics) TrackTransaction(writable bool) func() {
	if !m.monitoring {
		return func() {}
	}
	return m.baseMetrics.TrackTransaction(writable)
}

func (m *Metrics) Backup(start time.Time, bytes int64) {
	took := time.Since(start)
	m.logger.WithField("action", "storage_backup").
		WithField("took", took).
		WithField("bytes", bytes).
		Debugf("backup of %d bytes took %s", bytes, took)

	if !m.monitoring {
		return
	}
	m.baseMetrics.Backup(bytes, took)
}

func (m *Metrics) StartLoading(backend string) {
	if m.monitoring {
		m.baseMetrics.StartLoadingStore(backend)
	}
}

func (m *Metrics) FinishLoading(backend string, ok bool) {
	if m.monitoring {
		m.baseMetrics.FinishLoadingStore(backend, ok)
	}
}

func (m *Metrics) StartClosing(backend string) {
	if m.monitoring {
		m.baseMetrics.StartClosingStore(backend)
	}
}

func (m *Metrics) FinishClosing(backend string) {
	if m.monitoring {
		m.baseMetrics.FinishClosingStore(backend)
	}
}
