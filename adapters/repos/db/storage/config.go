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
	"github.com/sirupsen/logrus"

	"github.com/weaviate/weavegraph/adapters/repos/db/inverted"
	"github.com/weaviate/weavegraph/adapters/repos/db/kv"
	"github.com/weaviate/weavegraph/adapters/repos/db/vector/hnsw"
	"github.com/weaviate/weavegraph/entities/errorcompounder"
	"github.com/weaviate/weavegraph/usecases/monitoring"
)

const (
	DefaultMaxSizeGB = 100
	DefaultMaxSpaces = 200
	// SchemaVersion is written on first open and checked on every later one.
	SchemaVersion uint32 = 1
)

// IndexConfig declares a secondary index over the property Name. An empty
// Label indexes nodes of every label.
type IndexConfig struct {
	Name   string `json:"name" yaml:"name" msgpack:"name"`
	Label  string `json:"label,omitempty" yaml:"label,omitempty" msgpack:"label"`
	Unique bool   `json:"unique,omitempty" yaml:"unique,omitempty" msgpack:"unique"`
}

func (ic IndexConfig) covers(label string) bool {
	return ic.Label == "" || ic.Label == label
}

type Config struct {
	Path    string
	Backend kv.Kind
	// MaxSizeGB bounds the bolt data file. badger ignores it.
	MaxSizeGB int
	// MaxSpaces bounds the number of key spaces, which includes one per
	// secondary index.
	MaxSpaces int
	NoSync    bool
	// InitialMmapSize is passed to bolt, mostly to keep tests from
	// remapping.
	InitialMmapSize int
	// InMemory runs badger without touching disk.
	InMemory bool

	Vector           hnsw.Config
	BM25Enabled      bool
	BM25             inverted.Config
	SecondaryIndexes []IndexConfig

	Logger            logrus.FieldLogger
	PrometheusMetrics *monitoring.PrometheusMetrics
}

func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = kv.KindBolt
	}
	if c.MaxSizeGB == 0 {
		c.MaxSizeGB = DefaultMaxSizeGB
	}
	if c.MaxSpaces == 0 {
		c.MaxSpaces = DefaultMaxSpaces
	}
	if c.Logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		c.Logger = l
	}
	if c.Vector.Logger == nil {
		c.Vector.Logger = c.Logger
	}
	if c.Vector.PrometheusMetrics == nil {
		c.Vector.PrometheusMetrics = c.PrometheusMetrics
	}
	if c.BM25.Logger == nil {
		c.BM25.Logger = c.Logger
	}
	if c.BM25.PrometheusMetrics == nil {
		c.BM25.PrometheusMetrics = c.PrometheusMetrics
	}
	c.Vector.SetDefaults()
	c.BM25.SetDefaults()
}

func (c Config) Validate() error {
	ec := errorcompounder.New()
	switch c.Backend {
	case kv.KindBolt:
		if c.Path == "" {
			ec.Addf("path is required for the %s backend", c.Backend)
		}
		if c.InMemory {
			ec.Addf("the %s backend cannot run in memory", c.Backend)
		}
	case kv.KindBadger:
		if c.Path == "" && !c.InMemory {
			ec.Addf("path is required unless the %s backend runs in memory", c.Backend)
		}
	default:
		ec.Addf("unknown backend %q", c.Backend)
	}
	if c.MaxSizeGB < 0 {
		ec.Addf("maxSizeGB must not be negative, got %d", c.MaxSizeGB)
	}
	if c.MaxSpaces < 0 {
		ec.Addf("maxSpaces must not be negative, got %d", c.MaxSpaces)
	}

	seen := map[string]bool{}
	for _, ic := range c.SecondaryIndexes {
		if ic.Name == "" {
			ec.Addf("secondary index without a name")
			continue
		}
		if seen[ic.Name] {
			ec.Addf("secondary index %q declared twice", ic.Name)
		}
		seen[ic.Name] = true
	}

	if err := c.Vector.Validate(); err != nil {
		ec.Add(err)
	}
	if c.BM25Enabled {
		if err := c.BM25.Validate(); err != nil {
			ec.Add(err)
		}
	}
	return ec.ToError()
}
