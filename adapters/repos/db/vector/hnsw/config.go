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
	"math"

	"github.com/sirupsen/logrus"

	"github.com/weaviate/weavegraph/adapters/repos/db/vector/hnsw/distancer"
	"github.com/weaviate/weavegraph/entities/errorcompounder"
	"github.com/weaviate/weavegraph/usecases/monitoring"
)

const (
	DefaultM                     = 16
	MinM                         = 5
	MaxM                         = 48
	DefaultEFConstruction        = 128
	MinEFConstruction            = 40
	MaxEFConstruction            = 512
	DefaultEF                    = 768
	MinEF                        = 10
	MaxEF                        = 512
	DefaultLinearSearchThreshold = 1000
	DefaultDistance              = "cosine"
)

// Config of an index. Zero values are replaced by defaults in SetDefaults,
// out of range values are pulled to the nearest bound.
type Config struct {
	M              int
	EFConstruction int
	EF             int
	// LinearSearchThreshold is the number of live vectors of a label below
	// which searches scan all vectors instead of walking the graph.
	LinearSearchThreshold int
	// AutoRebuildThreshold triggers a Rebuild once the share of deleted
	// vectors still linked into the graph exceeds it. Zero disables it.
	AutoRebuildThreshold float64
	Distance             string
	// Seed makes level assignment reproducible. Zero seeds from the clock.
	Seed int64

	Logger            logrus.FieldLogger
	PrometheusMetrics *monitoring.PrometheusMetrics
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (c *Config) SetDefaults() {
	if c.M == 0 {
		c.M = DefaultM
	}
	c.M = clamp(c.M, MinM, MaxM)

	if c.EFConstruction == 0 {
		c.EFConstruction = DefaultEFConstruction
	}
	c.EFConstruction = clamp(c.EFConstruction, MinEFConstruction, MaxEFConstruction)

	if c.EF == 0 {
		c.EF = DefaultEF
	}
	c.EF = clamp(c.EF, MinEF, MaxEF)

	if c.LinearSearchThreshold == 0 {
		c.LinearSearchThreshold = DefaultLinearSearchThreshold
	}
	if c.Distance == "" {
		c.Distance = DefaultDistance
	}
	if c.Logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		c.Logger = l
	}
}

func (c Config) Validate() error {
	ec := errorcompounder.New()

	if c.LinearSearchThreshold < 0 {
		ec.Addf("linearSearchThreshold must not be negative, got %d", c.LinearSearchThreshold)
	}
	if c.AutoRebuildThreshold < 0 || c.AutoRebuildThreshold > 1 ||
		math.IsNaN(c.AutoRebuildThreshold) {
		ec.Addf("autoRebuildThreshold must be within [0, 1], got %v", c.AutoRebuildThreshold)
	}
	if _, err := distancer.ProviderByName(c.Distance); err != nil {
		ec.Add(err)
	}

	return ec.ToError()
}

// MaxConnections is the link cap of a node on level.
func (c Config) MaxConnections(level int) int {
	if level == 0 {
		return 2 * c.M
	}
	return c.M
}

// LevelMultiplier is 1/ln(M), the m_l of the level distribution.
func (c Config) LevelMultiplier() float64 {
	return 1 / math.Log(float64(c.M))
}
