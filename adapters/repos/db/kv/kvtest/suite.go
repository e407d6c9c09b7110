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

// Package kvtest holds the behavior every kv.Backend must share. Each backend
// runs the same suite from its own tests.
package kvtest

import (
	"bytes"
	"context"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaviate/weavegraph/adapters/repos/db/kv"
)

type Factory func(t *testing.T) kv.Backend

func RunSuite(t *testing.T, open Factory) {
	t.Run("get put delete", func(t *testing.T) { testGetPutDelete(t, open(t)) })
	t.Run("prefix cursor", func(t *testing.T) { testPrefixCursor(t, open(t)) })
	t.Run("duplicate keys", func(t *testing.T) { testDuplicates(t, open(t)) })
	t.Run("snapshot isolation", func(t *testing.T) { testIsolation(t, open(t)) })
	t.Run("rollback discards writes", func(t *testing.T) { testRollback(t, open(t)) })
	t.Run("write cursor allows mutation", func(t *testing.T) { testWriteCursor(t, open(t)) })
	t.Run("drop space", func(t *testing.T) { testDropSpace(t, open(t)) })
	t.Run("closed and read-only transactions", func(t *testing.T) { testTxnState(t, open(t)) })
	t.Run("closed flag read concurrently", func(t *testing.T) { testClosedConcurrently(t, open(t)) })
	t.Run("backup", func(t *testing.T) { testBackup(t, open(t)) })
}

func testClosedConcurrently(t *testing.T, b kv.Backend) {
	for _, writable := range []bool{false, true} {
		txn, err := b.Begin(writable)
		require.Nil(t, err)

		var wg sync.WaitGroup
		seen := make([]bool, 4)
		for i := range seen {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				for !txn.Closed() {
					runtime.Gosched()
				}
				seen[i] = true
			}(i)
		}
		require.Nil(t, txn.Rollback())
		wg.Wait()
		assert.Equal(t, []bool{true, true, true, true}, seen)
	}
}

func testGetPutDelete(t *testing.T, b kv.Backend) {
	require.Nil(t, kv.Update(b, func(txn kv.Txn) error {
		return txn.Put("nodes", []byte("a"), []byte("alpha"))
	}))

	require.Nil(t, kv.View(b, func(txn kv.Txn) error {
		v, err := txn.Get("nodes", []byte("a"))
		require.Nil(t, err)
		assert.Equal(t, []byte("alpha"), v)

		_, err = txn.Get("nodes", []byte("b"))
		assert.ErrorIs(t, err, kv.ErrNotFound)

		_, err = txn.Get("missing_space", []byte("a"))
		assert.ErrorIs(t, err, kv.ErrNotFound)
		return nil
	}))

	require.Nil(t, kv.Update(b, func(txn kv.Txn) error {
		return txn.Delete("nodes", []byte("a"))
	}))
	require.Nil(t, kv.View(b, func(txn kv.Txn) error {
		_, err := txn.Get("nodes", []byte("a"))
		assert.ErrorIs(t, err, kv.ErrNotFound)
		return nil
	}))
}

func testPrefixCursor(t *testing.T, b kv.Backend) {
	require.Nil(t, kv.Update(b, func(txn kv.Txn) error {
		for _, k := range []string{"ab2", "ab1", "ac", "b", "a"} {
			if err := txn.Put("space", []byte(k), []byte("v"+k)); err != nil {
				return err
			}
		}
		// a neighbouring space with the same keys must stay invisible
		return txn.Put("spaces", []byte("ab3"), []byte("other"))
	}))

	require.Nil(t, kv.View(b, func(txn kv.Txn) error {
		pairs, err := kv.Collect(txn.Cursor("space", []byte("ab")))
		require.Nil(t, err)
		require.Len(t, pairs, 2)
		assert.Equal(t, []byte("ab1"), pairs[0].Key)
		assert.Equal(t, []byte("vab1"), pairs[0].Value)
		assert.Equal(t, []byte("ab2"), pairs[1].Key)

		n, err := kv.Count(txn.Cursor("space", nil))
		require.Nil(t, err)
		assert.Equal(t, 5, n)

		n, err = kv.Count(txn.Cursor("nope", nil))
		require.Nil(t, err)
		assert.Equal(t, 0, n)
		return nil
	}))
}

func testDuplicates(t *testing.T, b kv.Backend) {
	require.Nil(t, kv.Update(b, func(txn kv.Txn) error {
		for _, v := range []string{"v3", "v1", "v2"} {
			if err := txn.PutDup("idx", []byte("k"), []byte(v)); err != nil {
				return err
			}
		}
		// same value twice is stored once
		if err := txn.PutDup("idx", []byte("k"), []byte("v1")); err != nil {
			return err
		}
		// a longer key sharing the prefix must not leak into exact lookups
		if err := txn.PutDup("idx", []byte("kk"), []byte("x")); err != nil {
			return err
		}
		return txn.PutDup("idx", []byte("j"), []byte("y"))
	}))

	require.Nil(t, kv.View(b, func(txn kv.Txn) error {
		pairs, err := kv.Collect(txn.DupCursor("idx", []byte("k")))
		require.Nil(t, err)
		require.Len(t, pairs, 3)
		for i, want := range []string{"v1", "v2", "v3"} {
			assert.Equal(t, []byte("k"), pairs[i].Key)
			assert.Equal(t, []byte(want), pairs[i].Value)
		}

		pairs, err = kv.Collect(txn.PrefixDupCursor("idx", []byte("k")))
		require.Nil(t, err)
		assert.ElementsMatch(t, []string{"k=v1", "k=v2", "k=v3", "kk=x"}, flatten(pairs))
		return nil
	}))

	require.Nil(t, kv.Update(b, func(txn kv.Txn) error {
		if err := txn.DeleteDup("idx", []byte("k"), []byte("v2")); err != nil {
			return err
		}
		return txn.DeleteAllDup("idx", []byte("kk"))
	}))

	require.Nil(t, kv.View(b, func(txn kv.Txn) error {
		pairs, err := kv.Collect(txn.PrefixDupCursor("idx", nil))
		require.Nil(t, err)
		assert.ElementsMatch(t, []string{"j=y", "k=v1", "k=v3"}, flatten(pairs))
		return nil
	}))

	// with fixed width keys, as used by the adjacency spaces, both backends
	// order by key then value
	require.Nil(t, kv.Update(b, func(txn kv.Txn) error {
		for _, e := range [][2]string{{"bb", "2"}, {"aa", "9"}, {"bb", "1"}, {"aa", "3"}} {
			if err := txn.PutDup("adj", []byte(e[0]), []byte(e[1])); err != nil {
				return err
			}
		}
		return nil
	}))
	require.Nil(t, kv.View(b, func(txn kv.Txn) error {
		pairs, err := kv.Collect(txn.PrefixDupCursor("adj", nil))
		require.Nil(t, err)
		assert.Equal(t, []string{"aa=3", "aa=9", "bb=1", "bb=2"}, flatten(pairs))
		return nil
	}))
}

func testIsolation(t *testing.T, b kv.Backend) {
	require.Nil(t, kv.Update(b, func(txn kv.Txn) error {
		return txn.Put("nodes", []byte("a"), []byte("1"))
	}))

	reader, err := b.Begin(false)
	require.Nil(t, err)
	defer reader.Rollback()

	require.Nil(t, kv.Update(b, func(txn kv.Txn) error {
		return txn.Put("nodes", []byte("a"), []byte("2"))
	}))

	v, err := reader.Get("nodes", []byte("a"))
	require.Nil(t, err)
	assert.Equal(t, []byte("1"), v)

	require.Nil(t, kv.View(b, func(txn kv.Txn) error {
		v, err := txn.Get("nodes", []byte("a"))
		require.Nil(t, err)
		assert.Equal(t, []byte("2"), v)
		return nil
	}))
}

func testRollback(t *testing.T, b kv.Backend) {
	txn, err := b.Begin(true)
	require.Nil(t, err)
	require.Nil(t, txn.Put("nodes", []byte("a"), []byte("1")))
	v, err := txn.Get("nodes", []byte("a"))
	require.Nil(t, err, "a transaction sees its own writes")
	assert.Equal(t, []byte("1"), v)
	require.Nil(t, txn.Rollback())
	require.Nil(t, txn.Rollback(), "rollback is idempotent")

	require.Nil(t, kv.View(b, func(txn kv.Txn) error {
		_, err := txn.Get("nodes", []byte("a"))
		assert.ErrorIs(t, err, kv.ErrNotFound)
		return nil
	}))
}

func testWriteCursor(t *testing.T, b kv.Backend) {
	require.Nil(t, kv.Update(b, func(txn kv.Txn) error {
		for i := byte(0); i < 10; i++ {
			if err := txn.Put("nodes", []byte{'n', i}, []byte{i}); err != nil {
				return err
			}
		}
		return nil
	}))

	require.Nil(t, kv.Update(b, func(txn kv.Txn) error {
		c := txn.Cursor("nodes", []byte("n"))
		defer c.Close()
		for {
			k, _, ok := c.Next()
			if !ok {
				break
			}
			if err := txn.Delete("nodes", k); err != nil {
				return err
			}
		}
		return c.Err()
	}))

	require.Nil(t, kv.View(b, func(txn kv.Txn) error {
		n, err := kv.Count(txn.Cursor("nodes", nil))
		require.Nil(t, err)
		assert.Equal(t, 0, n)
		return nil
	}))
}

func testDropSpace(t *testing.T, b kv.Backend) {
	require.Nil(t, kv.Update(b, func(txn kv.Txn) error {
		if err := txn.PutDup("index_age", []byte("k"), []byte("v")); err != nil {
			return err
		}
		return txn.Put("nodes", []byte("k"), []byte("v"))
	}))
	require.Nil(t, kv.Update(b, func(txn kv.Txn) error {
		if err := txn.DropSpace("index_age"); err != nil {
			return err
		}
		return txn.DropSpace("never_created")
	}))
	require.Nil(t, kv.View(b, func(txn kv.Txn) error {
		n, err := kv.Count(txn.PrefixDupCursor("index_age", nil))
		require.Nil(t, err)
		assert.Equal(t, 0, n)

		_, err = txn.Get("nodes", []byte("k"))
		assert.Nil(t, err)
		return nil
	}))
}

func testTxnState(t *testing.T, b kv.Backend) {
	reader, err := b.Begin(false)
	require.Nil(t, err)
	assert.False(t, reader.Writable())
	assert.ErrorIs(t, reader.Put("nodes", []byte("a"), []byte("b")), kv.ErrTxNotWritable)
	require.Nil(t, reader.Commit())
	assert.True(t, reader.Closed())

	_, err = reader.Get("nodes", []byte("a"))
	assert.ErrorIs(t, err, kv.ErrTxClosed)
	assert.ErrorIs(t, reader.Commit(), kv.ErrTxClosed)

	writer, err := b.Begin(true)
	require.Nil(t, err)
	assert.True(t, writer.Writable())
	assert.ErrorIs(t, writer.Put("nodes", nil, []byte("b")), kv.ErrEmptyKey)
	require.Nil(t, writer.Rollback())

	// an open lazy cursor must not prevent the transaction from ending
	require.Nil(t, kv.Update(b, func(txn kv.Txn) error {
		return txn.Put("nodes", []byte("a"), []byte("b"))
	}))
	reader, err = b.Begin(false)
	require.Nil(t, err)
	c := reader.Cursor("nodes", nil)
	_, _, ok := c.Next()
	assert.True(t, ok)
	require.Nil(t, reader.Rollback())
}

func testBackup(t *testing.T, b kv.Backend) {
	require.Nil(t, kv.Update(b, func(txn kv.Txn) error {
		return txn.Put("nodes", []byte("a"), bytes.Repeat([]byte("x"), 1024))
	}))

	var buf bytes.Buffer
	n, err := b.Backup(context.Background(), &buf)
	require.Nil(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.True(t, n > 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = b.Backup(ctx, &buf)
	assert.ErrorIs(t, err, context.Canceled)
}

func flatten(pairs []kv.Pair) []string {
	out := make([]string, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, string(p.Key)+"="+string(p.Value))
	}
	return out
}
