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
	"sync/atomic"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"github.com/weaviate/weavegraph/adapters/repos/db/kv"
)

type txn struct {
	tx      *bolt.Tx
	store   *Store
	closed  atomic.Bool
	cursors []kv.Cursor
}

func (t *txn) Writable() bool {
	return t.tx.Writable()
}

func (t *txn) Closed() bool {
	return t.closed.Load()
}

func (t *txn) readBucket(space string) (*bolt.Bucket, error) {
	if t.closed.Load() {
		return nil, kv.ErrTxClosed
	}
	return t.tx.Bucket([]byte(space)), nil
}

func (t *txn) writeBucket(space string) (*bolt.Bucket, error) {
	if t.closed.Load() {
		return nil, kv.ErrTxClosed
	}
	if !t.tx.Writable() {
		return nil, kv.ErrTxNotWritable
	}
	if b := t.tx.Bucket([]byte(space)); b != nil {
		return b, nil
	}

	if limit := t.store.opts.MaxSpaces; limit > 0 {
		count := 0
		t.tx.ForEach(func(_ []byte, _ *bolt.Bucket) error {
			count++
			return nil
		})
		if count >= limit {
			return nil, errors.Wrapf(ErrTooManySpaces, "create space %q", space)
		}
	}

	b, err := t.tx.CreateBucket([]byte(space))
	if err != nil {
		return nil, errors.Wrapf(err, "create space %q", space)
	}
	return b, nil
}

func (t *txn) Get(space string, key []byte) ([]byte, error) {
	b, err := t.readBucket(space)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, kv.ErrNotFound
	}
	v := b.Get(key)
	if v == nil {
		return nil, kv.ErrNotFound
	}
	return v, nil
}

func (t *txn) Put(space string, key, value []byte) error {
	if len(key) == 0 {
		return kv.ErrEmptyKey
	}
	b, err := t.writeBucket(space)
	if err != nil {
		return err
	}
	// bolt references key and value until commit
	return errors.Wrapf(b.Put(clone(key), clone(value)), "put into %q", space)
}

func (t *txn) Delete(space string, key []byte) error {
	if t.closed.Load() {
		return kv.ErrTxClosed
	}
	if !t.tx.Writable() {
		return kv.ErrTxNotWritable
	}
	b := t.tx.Bucket([]byte(space))
	if b == nil {
		return nil
	}
	return errors.Wrapf(b.Delete(key), "delete from %q", space)
}

func (t *txn) Cursor(space string, prefix []byte) kv.Cursor {
	b, err := t.readBucket(space)
	if err != nil {
		return kv.NewErrCursor(err)
	}
	if b == nil {
		return kv.NewSliceCursor(nil)
	}
	c := &plainCursor{c: b.Cursor(), prefix: prefix}
	return t.track(c)
}

func (t *txn) PutDup(space string, key, value []byte) error {
	if len(key) == 0 || len(value) == 0 {
		return kv.ErrEmptyKey
	}
	b, err := t.writeBucket(space)
	if err != nil {
		return err
	}
	nested, err := b.CreateBucketIfNotExists(clone(key))
	if err != nil {
		return errors.Wrapf(err, "put dup into %q", space)
	}
	return nested.Put(clone(value), []byte{})
}

func (t *txn) DeleteDup(space string, key, value []byte) error {
	if t.closed.Load() {
		return kv.ErrTxClosed
	}
	if !t.tx.Writable() {
		return kv.ErrTxNotWritable
	}
	b := t.tx.Bucket([]byte(space))
	if b == nil {
		return nil
	}
	nested := b.Bucket(key)
	if nested == nil {
		return nil
	}
	if err := nested.Delete(value); err != nil {
		return errors.Wrapf(err, "delete dup from %q", space)
	}
	if k, _ := nested.Cursor().First(); k == nil {
		return b.DeleteBucket(key)
	}
	return nil
}

func (t *txn) DeleteAllDup(space string, key []byte) error {
	if t.closed.Load() {
		return kv.ErrTxClosed
	}
	if !t.tx.Writable() {
		return kv.ErrTxNotWritable
	}
	b := t.tx.Bucket([]byte(space))
	if b == nil {
		return nil
	}
	err := b.DeleteBucket(key)
	if err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
		return errors.Wrapf(err, "delete dups from %q", space)
	}
	return nil
}

func (t *txn) DupCursor(space string, key []byte) kv.Cursor {
	b, err := t.readBucket(space)
	if err != nil {
		return kv.NewErrCursor(err)
	}
	if b == nil {
		return kv.NewSliceCursor(nil)
	}
	nested := b.Bucket(key)
	if nested == nil {
		return kv.NewSliceCursor(nil)
	}
	c := &dupCursor{c: nested.Cursor(), key: key}
	return t.track(c)
}

func (t *txn) PrefixDupCursor(space string, prefix []byte) kv.Cursor {
	b, err := t.readBucket(space)
	if err != nil {
		return kv.NewErrCursor(err)
	}
	if b == nil {
		return kv.NewSliceCursor(nil)
	}
	c := &prefixDupCursor{bucket: b, outer: b.Cursor(), prefix: prefix}
	return t.track(c)
}

func (t *txn) DropSpace(space string) error {
	if t.closed.Load() {
		return kv.ErrTxClosed
	}
	if !t.tx.Writable() {
		return kv.ErrTxNotWritable
	}
	err := t.tx.DeleteBucket([]byte(space))
	if err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
		return errors.Wrapf(err, "drop space %q", space)
	}
	return nil
}

// track returns a snapshot of c in writable transactions and remembers lazy
// cursors so they can be released when the transaction ends.
func (t *txn) track(c kv.Cursor) kv.Cursor {
	if t.tx.Writable() {
		pairs, err := kv.Collect(c)
		if err != nil {
			return kv.NewErrCursor(err)
		}
		return kv.NewSliceCursor(pairs)
	}
	t.cursors = append(t.cursors, c)
	return c
}

func (t *txn) release() {
	for _, c := range t.cursors {
		c.Close()
	}
	t.cursors = nil
	t.closed.Store(true)
}

func (t *txn) Commit() error {
	if t.closed.Load() {
		return kv.ErrTxClosed
	}
	defer t.release()

	if !t.tx.Writable() {
		return t.tx.Rollback()
	}
	if limit := t.store.opts.MaxSizeBytes; limit > 0 && t.tx.Size() > limit {
		t.tx.Rollback()
		return errors.Wrapf(ErrMapFull, "size %d > %d", t.tx.Size(), limit)
	}
	if err := t.tx.Commit(); err != nil {
		return errors.Wrap(err, "commit bolt transaction")
	}
	return nil
}

func (t *txn) Rollback() error {
	if t.closed.Load() {
		return nil
	}
	defer t.release()
	return t.tx.Rollback()
}

type plainCursor struct {
	c       *bolt.Cursor
	prefix  []byte
	started bool
	done    bool
}

func (c *plainCursor) Next() ([]byte, []byte, bool) {
	if c.done {
		return nil, nil, false
	}
	var k, v []byte
	for {
		if !c.started {
			c.started = true
			if len(c.prefix) == 0 {
				k, v = c.c.First()
			} else {
				k, v = c.c.Seek(c.prefix)
			}
		} else {
			k, v = c.c.Next()
		}
		if k == nil || !bytes.HasPrefix(k, c.prefix) {
			c.done = true
			return nil, nil, false
		}
		// nested buckets have a nil value and belong to duplicate spaces
		if v != nil {
			return k, v, true
		}
	}
}

func (c *plainCursor) Err() error { return nil }

func (c *plainCursor) Close() { c.done = true }

type dupCursor struct {
	c       *bolt.Cursor
	key     []byte
	started bool
	done    bool
}

func (c *dupCursor) Next() ([]byte, []byte, bool) {
	if c.done {
		return nil, nil, false
	}
	var k []byte
	if !c.started {
		c.started = true
		k, _ = c.c.First()
	} else {
		k, _ = c.c.Next()
	}
	if k == nil {
		c.done = true
		return nil, nil, false
	}
	return c.key, k, true
}

func (c *dupCursor) Err() error { return nil }

func (c *dupCursor) Close() { c.done = true }

type prefixDupCursor struct {
	bucket  *bolt.Bucket
	outer   *bolt.Cursor
	inner   *dupCursor
	prefix  []byte
	started bool
	done    bool
}

func (c *prefixDupCursor) Next() ([]byte, []byte, bool) {
	for !c.done {
		if c.inner != nil {
			if k, v, ok := c.inner.Next(); ok {
				return k, v, true
			}
			c.inner = nil
		}

		var k, v []byte
		if !c.started {
			c.started = true
			if len(c.prefix) == 0 {
				k, v = c.outer.First()
			} else {
				k, v = c.outer.Seek(c.prefix)
			}
		} else {
			k, v = c.outer.Next()
		}
		if k == nil || !bytes.HasPrefix(k, c.prefix) {
			c.done = true
			break
		}
		if v != nil {
			continue
		}
		if nested := c.bucket.Bucket(k); nested != nil {
			c.inner = &dupCursor{c: nested.Cursor(), key: k}
		}
	}
	return nil, nil, false
}

func (c *prefixDupCursor) Err() error { return nil }

func (c *prefixDupCursor) Close() { c.done = true }

func clone(in []byte) []byte {
	out := make([]byte, len(in))
	copy(out, in)
	return out
}
