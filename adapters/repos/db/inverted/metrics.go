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
package inverted

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/weaviate/weavegraph/usecases/monitoring"
)

// Metrics is safe to use when built without a registry; every method is a
// no-op then.
type Metrics struct {
	enabled bool
	insert  prometheus.Counter
	delete  prometheus.Counter
	search  prometheus.Observer
}

func NewMetrics(prom *monitoring.PrometheusMetrics) *Metrics {
	if prom == nil {
		return &Metrics{}
	}
	return &Metrics{
		enabled: true,
		insert:  prom.BM25Operations.With(prometheus.Labels{"operation": "insert"}),
		delete:  prom.BM25Operations.With(prometheus.Labels{"operation": "delete"}),
		search:  prom.BM25SearchDurations,
	}
}

func (m *Metrics) Insert() {
	if m.enabled {
		m.insert.Inc()
	}
}

func (m *Metrics) Delete() {
	if m.enabled {
		m.delete.Inc()
	}
}

func (m *Metrics) TrackSearch(start time.Time) {
	if m.enabled {
		m.search.Observe(time.Since(start).Seconds())
	}
}
