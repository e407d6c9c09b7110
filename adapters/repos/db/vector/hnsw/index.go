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
// Package hnsw is a hierarchical navigable small world index over the
// vectors of a store. The index keeps no graph in memory: vectors, links and
// the entry point live in key spaces and every operation works inside the
// transaction it is handed. Reads that want to share one decoded graph
// across goroutines build a Snapshot.
package hnsw

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/weaviate/weavegraph/adapters/repos/db/helpers"
	"github.com/weaviate/weavegraph/adapters/repos/db/kv"
	"github.com/weaviate/weavegraph/adapters/repos/db/vector/hnsw/distancer"
	"github.com/weaviate/weavegraph/adapters/repos/db/vector/hnsw/visited"
	"github.com/weaviate/weavegraph/entities/arena"
	"github.com/weaviate/weavegraph/entities/storobj"
)

// maxLevel bounds the level a vector can be assigned. Links are keyed by a
// single layer byte.
const maxLevel = 32

type Index struct {
	config   Config
	provider distancer.Provider
	logger   logrus.FieldLogger
	metrics  *Metrics

	visitedPool *visited.Pool
	arenas      *arena.Pool

	randMu sync.Mutex
	rand   *rand.Rand
}

// Result is a vector found by a search together with its distance to the
// query.
type Result struct {
	Vector   *storobj.Vector
	Distance float32
}

// Filter decides whether a candidate may be returned. It sees the vector
// with its properties.
type Filter func(v *storobj.Vector) bool

func New(cfg Config) (*Index, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid hnsw config")
	}
	provider, err := distancer.ProviderByName(cfg.Distance)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Index{
		config:      cfg,
		provider:    provider,
		logger:      cfg.Logger.WithField("component", "hnsw"),
		metrics:     NewMetrics(cfg.PrometheusMetrics),
		visitedPool: visited.NewPool(1, cfg.EFConstruction*4, 64),
		arenas:      arena.NewPool(0),
		rand:        rand.New(rand.NewSource(seed)),
	}, nil
}

func (h *Index) Config() Config {
	return h.config
}

func (h *Index) DistanceProvider() distancer.Provider {
	return h.provider
}

// randomLevel draws from the exponential level distribution
// floor(-ln(U) * m_l).
func (h *Index) randomLevel() int {
	h.randMu.Lock()
	r := h.rand.Float64()
	h.randMu.Unlock()

	if r == 0 {
		r = math.SmallestNonzeroFloat64
	}
	level := int(math.Floor(-math.Log(r) * h.config.LevelMultiplier()))
	if level > maxLevel {
		level = maxLevel
	}
	return level
}

func (h *Index) validateVector(vec []float32, dims int) error {
	if len(vec) == 0 {
		return errors.Wrap(ErrInvalidVectorData, "empty vector")
	}
	for i, f := range vec {
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return errors.Wrapf(ErrInvalidVectorData, "component %d is %v", i, f)
		}
	}
	if dims != 0 && len(vec) != dims {
		return errors.Wrapf(ErrInvalidVectorLength, "got %d dimensions, index has %d",
			len(vec), dims)
	}
	if h.provider.Type() == "cosine" && distancer.Norm(vec) == 0 {
		return errors.Wrap(ErrInvalidVectorData, "zero vector has no direction")
	}
	return nil
}

func putVector(txn kv.Txn, v *storobj.Vector) error {
	header, err := v.MarshalVector()
	if err != nil {
		return errors.Wrapf(err, "encode vector %s", v.ID)
	}
	data, err := v.MarshalData()
	if err != nil {
		return errors.Wrapf(err, "encode vector data %s", v.ID)
	}
	if err := txn.Put(helpers.VectorsSpace, storobj.DocIDKey(v.DocID), header); err != nil {
		return errors.Wrapf(err, "store vector %s", v.ID)
	}
	if err := txn.Put(helpers.VectorDataSpace, v.ID[:], data); err != nil {
		return errors.Wrapf(err, "store vector data %s", v.ID)
	}
	return nil
}

type docRef uint64

func (d docRef) String() string {
	return fmt.Sprintf("doc %d", uint64(d))
}

func vectorNotFound(docID uint64) error {
	return storobj.NewErrNotFound(storobj.ErrVectorNotFound, docRef(docID))
}
