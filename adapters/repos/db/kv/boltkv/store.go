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

// Package boltkv implements kv.Backend on top of bbolt. Every key space is a
// top-level bucket. Duplicate spaces store one nested bucket per key whose
// keys are the values.
package boltkv

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"

	"github.com/weaviate/weavegraph/adapters/repos/db/kv"
	enterrors "github.com/weaviate/weavegraph/entities/errors"
)

const FileName = "data.db"

var (
	ErrMapFull        = errors.New("database exceeds configured maximum size")
	ErrTooManySpaces  = errors.New("maximum number of key spaces reached")
	defaultLockWait   = time.Second
	defaultOpenBudget = 10 * time.Second
)

type Options struct {
	// Dir is the directory holding the data file. It is created if missing.
	Dir string
	// MaxSizeBytes rejects commits that would grow the file beyond it.
	// Zero disables the check.
	MaxSizeBytes int64
	// MaxSpaces caps the number of top-level buckets. Zero disables the check.
	MaxSpaces int
	// InitialMmapSize avoids remapping while read transactions are open.
	InitialMmapSize int
	NoSync          bool
	// OpenTimeout bounds how long Open keeps retrying while another process
	// holds the file lock.
	OpenTimeout time.Duration
}

type Store struct {
	db     *bolt.DB
	path   string
	opts   Options
	logger logrus.FieldLogger
}

func Open(opts Options, logger logrus.FieldLogger) (*Store, error) {
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create dir %q", opts.Dir)
	}
	if opts.OpenTimeout == 0 {
		opts.OpenTimeout = defaultOpenBudget
	}

	path := filepath.Join(opts.Dir, FileName)
	boltOpts := &bolt.Options{
		Timeout:         defaultLockWait,
		NoSync:          opts.NoSync,
		InitialMmapSize: opts.InitialMmapSize,
		FreelistType:    bolt.FreelistMapType,
	}

	var db *bolt.DB
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = opts.OpenTimeout
	err := backoff.RetryNotify(func() error {
		var err error
		db, err = bolt.Open(path, 0o600, boltOpts)
		if err == nil {
			return nil
		}
		if errors.Is(err, bolt.ErrTimeout) {
			return enterrors.NewTransient("open "+path, err)
		}
		return backoff.Permanent(err)
	}, policy, func(err error, wait time.Duration) {
		logger.WithField("action", "bolt_open_retry").
			WithField("path", path).
			WithField("wait", wait).
			Warn(err)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open bolt store %q", path)
	}

	logger.WithField("action", "bolt_open").
		WithField("path", path).
		Debug("opened bolt store")

	return &Store{db: db, path: path, opts: opts, logger: logger}, nil
}

func (s *Store) Begin(writable bool) (kv.Txn, error) {
	tx, err := s.db.Begin(writable)
	if err != nil {
		return nil, errors.Wrap(err, "begin bolt transaction")
	}
	return &txn{tx: tx, store: s}, nil
}

func (s *Store) Backup(ctx context.Context, w io.Writer) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var n int64
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		n, err = tx.WriteTo(&ctxWriter{ctx: ctx, w: w})
		return err
	})
	if err != nil {
		return n, errors.Wrap(err, "bolt backup")
	}
	return n, nil
}

func (s *Store) Kind() kv.Kind {
	return kv.KindBolt
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Restore writes a backup produced by Backup into dir as a fresh data file.
// dir must not hold an open store.
func Restore(r io.Reader, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create dir %q", dir)
	}
	target := filepath.Join(dir, FileName)
	tmp := target + ".restore"

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return errors.Wrapf(err, "create %q", tmp)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return errors.Wrap(err, "copy backup")
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return errors.Wrap(err, "sync restored file")
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, target)
}

type ctxWriter struct {
	ctx context.Context
	w   io.Writer
}

func (c *ctxWriter) Write(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.w.Write(p)
}
