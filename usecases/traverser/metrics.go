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
package traverser

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
		logger:      logger.WithField("component", "traverser"),
		monitoring:  prom != nil,
		baseMetrics: prom,
	}
}

// Terminal records a finished traversal. The duration spans from the
// construction of the traversal to its terminal step.
func (m *Metrics) Terminal(terminal string, start time.Time, results int, err error) {
	took := time.Since(start)
	entry := m.logger.WithField("action", "traversal_"+terminal).
		WithField("took", took).
		WithField("results", results)
	if err != nil {
		entry.WithError(err).Debugf("traversal ended in %s with an error", terminal)
	} else {
		entry.Tracef("traversal ended in %s after %s", terminal, took)
	}

	if !m.monitoring {
		return
	}
	m.baseMetrics.Traversal(terminal, took)
}
