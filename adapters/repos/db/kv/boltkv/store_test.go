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

package boltkv

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaviate/weavegraph/adapters/repos/db/kv"
	"github.com/weaviate/weavegraph/adapters/repos/db/kv/kvtest"
)

func openTestStore(t *testing.T, opts Options) *Store {
	logger, _ := test.NewNullLogger()
	if opts.Dir == "" {
		opts.Dir = t.TempDir()
	}
	// readers and the writer share a goroutine in tests; a large initial
	// mapping keeps bolt from remapping underneath an open reader
	opts.InitialMmapSize = 1 << 26
	s, err := Open(opts, logger)
	require.Nil(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBoltBackend(t *testing.T) {
	kvtest.RunSuite(t, func(t *testing.T) kv.Backend {
		return openTestStore(t, Options{})
	})
}

func TestBoltLimits(t *testing.T) {
	t.Run("max spaces", func(t *testing.T) {
		s := openTestStore(t, Options{MaxSpaces: 2})
		err := kv.Update(s, func(txn kv.Txn) error {
			if err := txn.Put("a", []byte("k"), []byte("v")); err != nil {
				return err
			}
			if err := txn.Put("b", []byte("k"), []byte("v")); err != nil {
				return err
			}
			return txn.Put("c", []byte("k"), []byte("v"))
		})
		assert.ErrorIs(t, err, ErrTooManySpaces)
	})

	t.Run("max size", func(t *testing.T) {
		s := openTestStore(t, Options{MaxSizeBytes: 64 * 1024})
		err := kv.Update(s, func(txn kv.Txn) error {
			for i := 0; i < 64; i++ {
				key := []byte{byte(i)}
				if err := txn.Put("blobs", key, bytes.Repeat([]byte{1}, 4096)); err != nil {
					return err
				}
			}
			return nil
		})
		assert.ErrorIs(t, err, ErrMapFull)
	})
}

func TestBoltBackupRestore(t *testing.T) {
	s := openTestStore(t, Options{})
	require.Nil(t, kv.Update(s, func(txn kv.Txn) error {
		return txn.Put("nodes", []byte("a"), []byte("alpha"))
	}))

	var buf bytes.Buffer
	_, err := s.Backup(context.Background(), &buf)
	require.Nil(t, err)

	dir := t.TempDir()
	require.Nil(t, Restore(&buf, dir))

	restored := openTestStore(t, Options{Dir: dir})
	require.Nil(t, kv.View(restored, func(txn kv.Txn) error {
		v, err := txn.Get("nodes", []byte("a"))
		require.Nil(t, err)
		assert.Equal(t, []byte("alpha"), v)
		return nil
	}))
}
