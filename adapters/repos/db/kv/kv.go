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

// Package kv is the transaction layer every other storage component is built
// on. A Backend hands out snapshot read transactions and a single exclusive
// write transaction. Data is organized in named key spaces; a space is either
// plain (one value per key) or a duplicate space (a sorted set of values per
// key), never both.
//
// Byte slices returned by a Txn or a Cursor are only valid until the
// transaction ends. Callers that need them longer must copy.
package kv

import (
	"context"
	"io"

	"github.com/pkg/errors"
)

var (
	ErrNotFound      = errors.New("key not found")
	ErrTxClosed      = errors.New("transaction already closed")
	ErrTxNotWritable = errors.New("transaction is read-only")
	ErrEmptyKey      = errors.New("key must not be empty")
	ErrValueTooLarge = errors.New("duplicate value exceeds 65535 bytes")
)

type Kind string

const (
	KindBolt   Kind = "bolt"
	KindBadger Kind = "badger"
)

type Backend interface {
	// Begin opens a transaction. A writable transaction blocks until the
	// previous writer committed or rolled back.
	Begin(writable bool) (Txn, error)
	// Backup writes a consistent copy of the store to w without blocking
	// writers and returns the number of bytes written.
	Backup(ctx context.Context, w io.Writer) (int64, error)
	Kind() Kind
	Path() string
	Close() error
}

type Txn interface {
	Get(space string, key []byte) ([]byte, error)
	Put(space string, key, value []byte) error
	Delete(space string, key []byte) error
	// Cursor iterates all entries of a plain space whose key starts with
	// prefix, in key order. An empty prefix iterates the whole space.
	Cursor(space string, prefix []byte) Cursor

	PutDup(space string, key, value []byte) error
	DeleteDup(space string, key, value []byte) error
	DeleteAllDup(space string, key []byte) error
	// DupCursor iterates the values stored under exactly key. The key half of
	// each returned pair is key itself.
	DupCursor(space string, key []byte) Cursor
	// PrefixDupCursor iterates (key, value) pairs of every key that starts
	// with prefix. Pairs come in key then value order as long as all keys in
	// the range have the same length.
	PrefixDupCursor(space string, prefix []byte) Cursor

	// DropSpace removes a space and everything in it.
	DropSpace(space string) error

	Writable() bool
	// Closed may be called from any goroutine.
	Closed() bool
	Commit() error
	Rollback() error
}

// Cursor is a forward-only iterator. Cursors opened in a writable
// transaction read a copy of the matching range taken when they are opened,
// so the caller may modify the space while iterating.
type Cursor interface {
	Next() (key, value []byte, ok bool)
	Err() error
	Close()
}

// Update runs fn in a write transaction and commits if fn returns nil.
func Update(b Backend, fn func(txn Txn) error) error {
	txn, err := b.Begin(true)
	if err != nil {
		return errors.Wrap(err, "begin write transaction")
	}
	if err := fn(txn); err != nil {
		if rerr := txn.Rollback(); rerr != nil {
			return errors.Wrapf(err, "rollback failed: %v", rerr)
		}
		return err
	}
	return txn.Commit()
}

// View runs fn in a read transaction.
func View(b Backend, fn func(txn Txn) error) error {
	txn, err := b.Begin(false)
	if err != nil {
		return errors.Wrap(err, "begin read transaction")
	}
	defer txn.Rollback()
	return fn(txn)
}

// Count returns the number of entries in the range a cursor covers.
func Count(c Cursor) (int, error) {
	defer c.Close()
	n := 0
	for {
		if _, _, ok := c.Next(); !ok {
			break
		}
		n++
	}
	return n, c.Err()
}
