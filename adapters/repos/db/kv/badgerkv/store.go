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

// Package badgerkv implements kv.Backend on top of badger. Badger has a
// single flat keyspace, so every key carries its space as a prefix:
//
//	plain:     len(space) | space | key
//	duplicate: len(space) | space | key | value | uint16(len(value))
//
// The trailing value length lets a scan recover where the key ends, which is
// how duplicate keys are emulated.
package badgerkv

import (
	"context"
	"io"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/weaviate/weavegraph/adapters/repos/db/kv"
)

type Options struct {
	Dir        string
	InMemory   bool
	SyncWrites bool
	// MemTableSize and ValueLogFileSize are passed to badger when non-zero.
	MemTableSize     int64
	ValueLogFileSize int64
}

type Store struct {
	db     *badger.DB
	dir    string
	logger logrus.FieldLogger

	// badger allows concurrent writers with optimistic conflict detection;
	// the engine expects exactly one.
	writeLock sync.Mutex
}

func Open(opts Options, logger logrus.FieldLogger) (*Store, error) {
	badgerOpts := badger.DefaultOptions(opts.Dir).
		WithLogger(logger.WithField("component", "badger")).
		WithSyncWrites(opts.SyncWrites).
		WithInMemory(opts.InMemory)
	if opts.InMemory {
		badgerOpts = badgerOpts.WithDir("").WithValueDir("")
	}
	if opts.MemTableSize > 0 {
		badgerOpts = badgerOpts.WithMemTableSize(opts.MemTableSize)
	}
	if opts.ValueLogFileSize > 0 {
		badgerOpts = badgerOpts.WithValueLogFileSize(opts.ValueLogFileSize)
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, errors.Wrapf(err, "open badger store %q", opts.Dir)
	}

	logger.WithField("action", "badger_open").
		WithField("path", opts.Dir).
		WithField("in_memory", opts.InMemory).
		Debug("opened badger store")

	return &Store{db: db, dir: opts.Dir, logger: logger}, nil
}

func (s *Store) Begin(writable bool) (kv.Txn, error) {
	if writable {
		s.writeLock.Lock()
	}
	return &txn{
		tx:       s.db.NewTransaction(writable),
		store:    s,
		writable: writable,
	}, nil
}

func (s *Store) Backup(ctx context.Context, w io.Writer) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	cw := &countingWriter{ctx: ctx, w: w}
	if _, err := s.db.Backup(cw, 0); err != nil {
		return cw.n, errors.Wrap(err, "badger backup")
	}
	return cw.n, nil
}

func (s *Store) Kind() kv.Kind {
	return kv.KindBadger
}

func (s *Store) Path() string {
	return s.dir
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Load replays a backup produced by Backup into this store.
func (s *Store) Load(r io.Reader) error {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()
	return errors.Wrap(s.db.Load(r, 256), "badger load")
}

type countingWriter struct {
	ctx context.Context
	w   io.Writer
	n   int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
