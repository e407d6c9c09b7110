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
// Package storage is the graph store: nodes, edges and their adjacency
// lists, secondary indexes, and the vector and keyword indexes that live in
// the same key value backend. Every operation takes the transaction it runs
// in, so a caller can combine several of them atomically.
package storage

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/weaviate/weavegraph/adapters/repos/db/inverted"
	"github.com/weaviate/weavegraph/adapters/repos/db/kv"
	"github.com/weaviate/weavegraph/adapters/repos/db/kv/badgerkv"
	"github.com/weaviate/weavegraph/adapters/repos/db/kv/boltkv"
	"github.com/weaviate/weavegraph/adapters/repos/db/vector/hnsw"
)

type Storage struct {
	config  Config
	backend kv.Backend
	vectors *hnsw.Index
	// bm25 is nil unless enabled.
	bm25    *inverted.BM25
	logger  logrus.FieldLogger
	metrics *Metrics

	indexMu sync.RWMutex
	indexes map[string]IndexConfig
}

// Open opens or creates the store described by cfg and registers the
// configured secondary indexes that do not exist yet.
func Open(cfg Config) (*Storage, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid storage config")
	}

	logger := cfg.Logger.WithField("component", "storage")
	metrics := NewMetrics(logger, cfg.PrometheusMetrics)
	metrics.StartLoading(string(cfg.Backend))

	s, err := open(cfg, logger, metrics)
	metrics.FinishLoading(string(cfg.Backend), err == nil)
	if err != nil {
		return nil, err
	}

	logger.WithField("action", "storage_open").
		WithField("path", s.backend.Path()).
		WithField("backend", cfg.Backend).
		WithField("bm25", cfg.BM25Enabled).
		WithField("secondary_indexes", len(s.indexes)).
		Info("storage opened")
	return s, nil
}

func open(cfg Config, logger logrus.FieldLogger, metrics *Metrics) (*Storage, error) {
	vectors, err := hnsw.New(cfg.Vector)
	if err != nil {
		return nil, err
	}
	var bm25 *inverted.BM25
	if cfg.BM25Enabled {
		if bm25, err = inverted.NewBM25(cfg.BM25); err != nil {
			return nil, err
		}
	}

	backend, err := openBackend(cfg, logger)
	if err != nil {
		return nil, err
	}

	s := &Storage{
		config:  cfg,
		backend: backend,
		vectors: vectors,
		bm25:    bm25,
		logger:  logger,
		metrics: metrics,
		indexes: map[string]IndexConfig{},
	}
	if err := s.load(); err != nil {
		backend.Close()
		return nil, err
	}
	return s, nil
}

func openBackend(cfg Config, logger logrus.FieldLogger) (kv.Backend, error) {
	switch cfg.Backend {
	case kv.KindBadger:
		return badgerkv.Open(badgerkv.Options{
			Dir:        cfg.Path,
			InMemory:   cfg.InMemory,
			SyncWrites: !cfg.NoSync,
		}, logger)
	default:
		return boltkv.Open(boltkv.Options{
			Dir:             cfg.Path,
			MaxSizeBytes:    int64(cfg.MaxSizeGB) << 30,
			MaxSpaces:       cfg.MaxSpaces,
			InitialMmapSize: cfg.InitialMmapSize,
			NoSync:          cfg.NoSync,
		}, logger)
	}
}

// load checks the schema version and loads the index registry.
func (s *Storage) load() error {
	return s.Update(func(txn kv.Txn) error {
		if err := s.initMetadata(txn); err != nil {
			return err
		}
		registered, err := loadIndexes(txn)
		if err != nil {
			return err
		}
		for _, ic := range registered {
			s.indexes[ic.Name] = ic
		}

		created := false
		for _, ic := range s.config.SecondaryIndexes {
			if existing, ok := s.indexes[ic.Name]; ok {
				if existing != ic {
					s.logger.WithField("action", "storage_index_config_mismatch").
						WithField("index", ic.Name).
						Warnf("secondary index %q is stored as %+v, ignoring configured %+v",
							ic.Name, existing, ic)
				}
				continue
			}
			if err := s.backfillIndex(txn, ic); err != nil {
				return err
			}
			s.indexes[ic.Name] = ic
			created = true
		}
		if created {
			return saveIndexes(txn, s.indexListLocked())
		}
		return nil
	})
}

func (s *Storage) Config() Config {
	return s.config
}

func (s *Storage) Backend() kv.Backend {
	return s.backend
}

func (s *Storage) Vectors() *hnsw.Index {
	return s.vectors
}

// BM25 returns the keyword index or nil when it is disabled.
func (s *Storage) BM25() *inverted.BM25 {
	return s.bm25
}

func (s *Storage) Logger() logrus.FieldLogger {
	return s.logger
}

// Begin opens a transaction on the backend. At most one writable
// transaction exists at a time.
func (s *Storage) Begin(writable bool) (kv.Txn, error) {
	return s.backend.Begin(writable)
}

func (s *Storage) Update(fn func(txn kv.Txn) error) error {
	defer s.metrics.TrackTransaction(true)()
	return kv.Update(s.backend, fn)
}

func (s *Storage) View(fn func(txn kv.Txn) error) error {
	defer s.metrics.TrackTransaction(false)()
	return kv.View(s.backend, fn)
}

func (s *Storage) Close() error {
	s.metrics.StartClosing(string(s.config.Backend))
	defer s.metrics.FinishClosing(string(s.config.Backend))

	if err := s.backend.Close(); err != nil {
		return errors.Wrap(err, "close backend")
	}
	s.logger.WithField("action", "storage_close").
		WithField("path", s.backend.Path()).
		Debug("storage closed")
	return nil
}
