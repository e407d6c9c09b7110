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

import "github.com/prometheus/client_golang/prometheus"

var noop prometheus.Registerer = noopRegistry{}

// noopRegistry accepts every collector and exports none of them. It backs
// metrics built without a registry so tests can open many stores without
// duplicate registration panics.
type noopRegistry struct{}

func (noopRegistry) Register(prometheus.Collector) error { return nil }

func (noopRegistry) MustRegister(...prometheus.Collector) {}

func (noopRegistry) Unregister(prometheus.Collector) bool { return true }
