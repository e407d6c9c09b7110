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

package badgerkv

import (
	"encoding/binary"
	"math"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"

	"github.com/weaviate/weavegraph/adapters/repos/db/kv"
	enterrors "github.com/weaviate/weavegraph/entities/errors"
)

const dupLenSize = 2

type txn struct {
	tx       *badger.Txn
	store    *Store
	writable bool
	closed   atomic.Bool
	cursors  []kv.Cursor
}

func spacePrefix(space string) []byte {
	out := make([]byte, 1+len(space))
	out[0] = byte(len(space))
	copy(out[1:], space)
	return out
}

func plainKey(space string, key []byte) []byte {
	sp := spacePrefix(space)
	out := make([]byte, len(sp)+len(key))
	copy(out, sp)
	copy(out[len(sp):], key)
	return out
}

func dupKey(space string, key, value []byte) []byte {
	sp := spacePrefix(space)
	out := make([]byte, len(sp)+len(key)+len(value)+dupLenSize)
	n := copy(out, sp)
	n += copy(out[n:], key)
	n += copy(out[n:], value)
	binary.BigEndian.PutUint16(out[n:], uint16(len(value)))
	return out
}

// splitDup takes a composite key with the space prefix already removed.
func splitDup(rest []byte) (key, value []byte, ok bool) {
	if len(rest) < dupLenSize {
		return nil, nil, false
	}
	vlen := int(binary.BigEndian.Uint16(rest[len(rest)-dupLenSize:]))
	keyLen := len(rest) - dupLenSize - vlen
	if keyLen < 0 {
		return nil, nil, false
	}
	return rest[:keyLen], rest[keyLen : keyLen+vlen], true
}

func (t *txn) check(write bool) error {
	if t.closed.Load() {
		return kv.ErrTxClosed
	}
	if write && !t.writable {
		return kv.ErrTxNotWritable
	}
	return nil
}

func (t *txn) Writable() bool {
	return t.writable
}

func (t *txn) Closed() bool {
	return t.closed.Load()
}

func (t *txn) Get(space string, key []byte) ([]byte, error) {
	if err := t.check(false); err != nil {
		return nil, err
	}
	item, err := t.tx.Get(plainKey(space, key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get from %q", space)
	}
	return item.ValueCopy(nil)
}

func (t *txn) set(k, v []byte) error {
	err := t.tx.Set(k, v)
	if errors.Is(err, badger.ErrTxnTooBig) {
		return errors.Wrap(err, "write transaction exceeds badger limits")
	}
	return err
}

func (t *txn) Put(space string, key, value []byte) error {
	if len(key) == 0 {
		return kv.ErrEmptyKey
	}
	if err := t.check(true); err != nil {
		return err
	}
	v := make([]byte, len(value))
	copy(v, value)
	return t.set(plainKey(space, key), v)
}

func (t *txn) Delete(space string, key []byte) error {
	if err := t.check(true); err != nil {
		return err
	}
	return t.tx.Delete(plainKey(space, key))
}

func (t *txn) Cursor(space string, prefix []byte) kv.Cursor {
	if err := t.check(false); err != nil {
		return kv.NewErrCursor(err)
	}
	sp := spacePrefix(space)
	return t.track(t.newIter(sp, plainKey(space, prefix), false, nil))
}

func (t *txn) PutDup(space string, key, value []byte) error {
	if len(key) == 0 || len(value) == 0 {
		return kv.ErrEmptyKey
	}
	if len(value) > math.MaxUint16 {
		return kv.ErrValueTooLarge
	}
	if err := t.check(true); err != nil {
		return err
	}
	return t.set(dupKey(space, key, value), nil)
}

func (t *txn) DeleteDup(space string, key, value []byte) error {
	if err := t.check(true); err != nil {
		return err
	}
	return t.tx.Delete(dupKey(space, key, value))
}

func (t *txn) DeleteAllDup(space string, key []byte) error {
	pairs, err := kv.Collect(t.DupCursor(space, key))
	if err != nil {
		return err
	}
	for _, p := range pairs {
		if err := t.DeleteDup(space, key, p.Value); err != nil {
			return err
		}
	}
	return nil
}

func (t *txn) DupCursor(space string, key []byte) kv.Cursor {
	if err := t.check(false); err != nil {
		return kv.NewErrCursor(err)
	}
	sp := spacePrefix(space)
	return t.track(t.newIter(sp, plainKey(space, key), true, key))
}

func (t *txn) PrefixDupCursor(space string, prefix []byte) kv.Cursor {
	if err := t.check(false); err != nil {
		return kv.NewErrCursor(err)
	}
	sp := spacePrefix(space)
	return t.track(t.newIter(sp, plainKey(space, prefix), true, nil))
}

func (t *txn) DropSpace(space string) error {
	if err := t.check(true); err != nil {
		return err
	}
	sp := spacePrefix(space)
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = sp

	var keys [][]byte
	it := t.tx.NewIterator(opts)
	for it.Seek(sp); it.ValidForPrefix(sp); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	it.Close()

	for _, k := range keys {
		if err := t.tx.Delete(k); err != nil {
			return errors.Wrapf(err, "drop space %q", space)
		}
	}
	return nil
}

func (t *txn) newIter(sp, seek []byte, dup bool, exactKey []byte) *iterCursor {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = seek
	opts.PrefetchValues = !dup
	return &iterCursor{
		it:       t.tx.NewIterator(opts),
		spaceLen: len(sp),
		seek:     seek,
		dup:      dup,
		exactKey: exactKey,
	}
}

// track snapshots cursors in writable transactions. Badger permits a single
// open iterator per read-write transaction.
func (t *txn) track(c *iterCursor) kv.Cursor {
	if t.writable {
		pairs, err := kv.Collect(c)
		if err != nil {
			return kv.NewErrCursor(err)
		}
		return kv.NewSliceCursor(pairs)
	}
	t.cursors = append(t.cursors, c)
	return c
}

func (t *txn) finish() {
	for _, c := range t.cursors {
		c.Close()
	}
	t.cursors = nil
	t.closed.Store(true)
	if t.writable {
		t.store.writeLock.Unlock()
	}
}

func (t *txn) Commit() error {
	if t.closed.Load() {
		return kv.ErrTxClosed
	}
	defer t.finish()

	if !t.writable {
		t.tx.Discard()
		return nil
	}
	err := t.tx.Commit()
	if errors.Is(err, badger.ErrConflict) {
		return enterrors.NewTransient("commit badger transaction", err)
	}
	return errors.Wrap(err, "commit badger transaction")
}

func (t *txn) Rollback() error {
	if t.closed.Load() {
		return nil
	}
	defer t.finish()
	t.tx.Discard()
	return nil
}

type iterCursor struct {
	it       *badger.Iterator
	spaceLen int
	seek     []byte
	dup      bool
	exactKey []byte
	started  bool
	closed   bool
	err      error
}

func (c *iterCursor) Next() ([]byte, []byte, bool) {
	if c.closed {
		return nil, nil, false
	}
	for {
		if !c.started {
			c.started = true
			c.it.Seek(c.seek)
		} else {
			c.it.Next()
		}
		if !c.it.ValidForPrefix(c.seek) {
			c.Close()
			return nil, nil, false
		}

		item := c.it.Item()
		rest := item.KeyCopy(nil)[c.spaceLen:]
		if !c.dup {
			v, err := item.ValueCopy(nil)
			if err != nil {
				c.err = err
				c.Close()
				return nil, nil, false
			}
			return rest, v, true
		}

		k, v, ok := splitDup(rest)
		if !ok {
			continue
		}
		if c.exactKey != nil && len(k) != len(c.exactKey) {
			continue
		}
		return k, v, true
	}
}

func (c *iterCursor) Err() error {
	return c.err
}

func (c *iterCursor) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.it.Close()
}
