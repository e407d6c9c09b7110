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
package hnsw

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/weaviate/weavegraph/usecases/monitoring"
)

type Metrics struct {
	enabled    bool
	insert     prometheus.Counter
	delete     prometheus.Counter
	rebuild    prometheus.Counter
	size       prometheus.Gauge
	tombstones prometheus.Gauge
	searchHNSW prometheus.Observer
	searchFlat prometheus.Observer
}

func NewMetrics(prom *monitoring.PrometheusMetrics) *Metrics {
	if prom == nil {
		return &Metrics{enabled: false}
	}

	return &Metrics{
		enabled: true,
		insert: prom.VectorIndexOperations.With(prometheus.Labels{
			"operation": "create",
		}),
		delete: prom.VectorIndexOperations.With(prometheus.Labels{
			"operation": "delete",
		}),
		rebuild: prom.VectorIndexOperations.With(prometheus.Labels{
			"operation": "rebuild",
		}),
		size:       prom.VectorIndexSize,
		tombstones: prom.VectorIndexTombstones,
		searchHNSW: prom.VectorIndexSearchDurations.With(prometheus.Labels{
			"strategy": "hnsw",
		}),
		searchFlat: prom.VectorIndexSearchDurations.With(prometheus.Labels{
			"strategy": "flat",
		}),
	}
}

func (m *Metrics) Insert() {
	if !m.enabled {
		return
	}
	m.insert.Inc()
}

func (m *Metrics) Delete() {
	if !m.enabled {
		return
	}
	m.delete.Inc()
}

func (m *Metrics) Rebuild() {
	if !m.enabled {
		return
	}
	m.rebuild.Inc()
}

// SetSize reports the number of stored and of linked but deleted vectors.
func (m *Metrics) SetSize(vectors, tombstones uint64) {
	if !m.enabled {
		return
	}
	m.size.Set(float64(vectors))
	m.tombstones.Set(float64(tombstones))
}

func (m *Metrics) TrackSearch(flat bool, start time.Time) {
	if !m.enabled {
		return
	}
	took := time.Since(start).Seconds()
	if flat {
		m.searchFlat.Observe(took)
		return
	}
	m.searchHNSW.Observe(took)
}
