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
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/weaviate/weavegraph/adapters/repos/db/kv"
	"github.com/weaviate/weavegraph/adapters/repos/db/kv/badgerkv"
	"github.com/weaviate/weavegraph/adapters/repos/db/kv/boltkv"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Backup writes a consistent copy of the store to path while reads and
// writes continue. With compress the copy is a zstd stream. It returns the
// number of uncompressed bytes.
func (s *Storage) Backup(ctx context.Context, path string, compress bool) (int64, error) {
	start := time.Now()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, errors.Wrapf(err, "create backup dir for %q", path)
	}
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return 0, errors.Wrapf(err, "create %q", tmp)
	}
	defer os.Remove(tmp)

	n, err := s.writeBackup(ctx, f, compress)
	if err != nil {
		f.Close()
		return 0, err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return 0, errors.Wrap(err, "sync backup")
	}
	if err := f.Close(); err != nil {
		return 0, errors.Wrap(err, "close backup")
	}
	if err := os.Rename(tmp, path); err != nil {
		return 0, errors.Wrap(err, "move backup into place")
	}

	s.metrics.Backup(start, n)
	s.logger.WithField("action", "storage_backup").
		WithField("path", path).
		WithField("compressed", compress).
		WithField("bytes", n).
		Info("backup written")
	return n, nil
}

func (s *Storage) writeBackup(ctx context.Context, w io.Writer, compress bool) (int64, error) {
	if !compress {
		n, err := s.backend.Backup(ctx, w)
		return n, errors.Wrap(err, "backup")
	}

	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return 0, errors.Wrap(err, "create zstd encoder")
	}
	n, err := s.backend.Backup(ctx, enc)
	if err != nil {
		enc.Close()
		return 0, errors.Wrap(err, "backup")
	}
	if err := enc.Close(); err != nil {
		return 0, errors.Wrap(err, "flush zstd encoder")
	}
	return n, nil
}

// Restore recreates the store described by cfg from a backup made with
// Backup, compressed or not. The target must not be open.
func Restore(src string, cfg Config) error {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid storage config")
	}
	logger := cfg.Logger.WithField("component", "storage")

	f, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "open backup %q", src)
	}
	defer f.Close()

	r, closeReader, err := backupReader(f)
	if err != nil {
		return err
	}
	defer closeReader()

	if err := restore(r, cfg, logger); err != nil {
		return errors.Wrapf(err, "restore %q", src)
	}
	logger.WithField("action", "storage_restore").
		WithField("source", src).
		WithField("path", cfg.Path).
		WithField("backend", cfg.Backend).
		Info("backup restored")
	return nil
}

func restore(r io.Reader, cfg Config, logger logrus.FieldLogger) error {
	switch cfg.Backend {
	case kv.KindBadger:
		store, err := badgerkv.Open(badgerkv.Options{
			Dir:        cfg.Path,
			InMemory:   cfg.InMemory,
			SyncWrites: true,
		}, logger)
		if err != nil {
			return err
		}
		if err := store.Load(r); err != nil {
			store.Close()
			return err
		}
		return store.Close()
	default:
		return boltkv.Restore(r, cfg.Path)
	}
}

// backupReader detects zstd compression by the frame magic number.
func backupReader(f io.Reader) (io.Reader, func(), error) {
	br := bufio.NewReader(f)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		return nil, nil, errors.Wrap(err, "read backup header")
	}
	if !bytes.Equal(head, zstdMagic) {
		return br, func() {}, nil
	}
	dec, err := zstd.NewReader(br)
	if err != nil {
		return nil, nil, errors.Wrap(err, "create zstd decoder")
	}
	return dec, dec.Close, nil
}
