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
	"encoding/hex"

	"github.com/google/uuid"

	"github.com/weaviate/weavegraph/adapters/repos/db/helpers"
	"github.com/weaviate/weavegraph/adapters/repos/db/kv"
	"github.com/weaviate/weavegraph/entities/arena"
	"github.com/weaviate/weavegraph/entities/storobj"
)

// Scan decodes the entries of a cursor one at a time. A record that fails to
// decode is reported as an error item and the scan continues with the next
// one.
type Scan[T any] struct {
	cursor kv.Cursor
	// decode returns false for entries that are skipped.
	decode func(k, v []byte) (T, bool, error)
	done   bool
}

func newScan[T any](c kv.Cursor, decode func(k, v []byte) (T, bool, error)) *Scan[T] {
	return &Scan[T]{cursor: c, decode: decode}
}

// Next returns the next item. ok is false once the scan is exhausted. An
// error with ok set belongs to one entry, an error of the cursor itself is
// reported once and ends the scan.
func (s *Scan[T]) Next() (item T, ok bool, err error) {
	for !s.done {
		k, v, more := s.cursor.Next()
		if !more {
			s.done = true
			if cerr := s.cursor.Err(); cerr != nil {
				return item, true, cerr
			}
			break
		}
		got, keep, derr := s.decode(k, v)
		if derr != nil {
			return got, true, derr
		}
		if keep {
			return got, true, nil
		}
	}
	return item, false, nil
}

func (s *Scan[T]) Close() {
	s.done = true
	s.cursor.Close()
}

// Collect drains the scan and stops at the first error.
func (s *Scan[T]) Collect() ([]T, error) {
	defer s.Close()
	var out []T
	for {
		item, ok, err := s.Next()
		if !ok {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, item)
	}
}

// NodesOfLabel scans the nodes of label in id order. Records of other labels
// are rejected by their header alone. An empty label scans every node.
func (s *Storage) NodesOfLabel(txn kv.Txn, a *arena.Arena, label string) *Scan[*storobj.Node] {
	return newScan(txn.Cursor(helpers.NodesSpace, nil),
		func(k, v []byte) (*storobj.Node, bool, error) {
			if label != "" {
				match, err := storobj.HasLabel(v, label)
				if err != nil || !match {
					return nil, false, withKey(err, k)
				}
			}
			id, err := storobj.ParseID(k)
			if err != nil {
				return nil, false, withKey(err, k)
			}
			node, err := storobj.NodeFromBinary(id, v, a)
			return node, err == nil, err
		})
}

// EdgesOfLabel is NodesOfLabel for edges.
func (s *Storage) EdgesOfLabel(txn kv.Txn, a *arena.Arena, label string) *Scan[*storobj.Edge] {
	return newScan(txn.Cursor(helpers.EdgesSpace, nil),
		func(k, v []byte) (*storobj.Edge, bool, error) {
			if label != "" {
				match, err := storobj.HasLabel(v, label)
				if err != nil || !match {
					return nil, false, withKey(err, k)
				}
			}
			id, err := storobj.ParseID(k)
			if err != nil {
				return nil, false, withKey(err, k)
			}
			edge, err := storobj.EdgeFromBinary(id, v, a)
			return edge, err == nil, err
		})
}

// Adjacency is one entry of an adjacency list: the edge and the node at its
// other end.
type Adjacency struct {
	EdgeID uuid.UUID
	Other  uuid.UUID
}

// OutEdges scans the outgoing adjacency of node. With a label only the
// entries under that label's hash are read, the caller must still compare
// the label of the loaded edge since hashes may collide. An empty label
// scans every label.
func (s *Storage) OutEdges(txn kv.Txn, node uuid.UUID, label string) *Scan[Adjacency] {
	var key []byte
	if label != "" {
		key = helpers.OutEdgeKey(node, helpers.LabelHash(label))
	}
	return adjacencyScan(txn, helpers.OutEdgesSpace, node, key)
}

// InEdges scans the incoming adjacency of node.
func (s *Storage) InEdges(txn kv.Txn, node uuid.UUID, label string) *Scan[Adjacency] {
	var key []byte
	if label != "" {
		key = helpers.InEdgeKey(node, helpers.LabelHash(label))
	}
	return adjacencyScan(txn, helpers.InEdgesSpace, node, key)
}

// adjacencyScan reads the entries under key, or every entry of node when key
// is nil.
func adjacencyScan(txn kv.Txn, space string, node uuid.UUID, key []byte) *Scan[Adjacency] {
	var c kv.Cursor
	if key == nil {
		c = txn.PrefixDupCursor(space, helpers.NodePrefix(node))
	} else {
		c = txn.DupCursor(space, key)
	}
	return newScan(c, func(k, v []byte) (Adjacency, bool, error) {
		edgeID, other, err := helpers.UnpackAdjEdgeData(v)
		if err != nil {
			return Adjacency{}, false, withKey(err, k)
		}
		return Adjacency{EdgeID: edgeID, Other: other}, true, nil
	})
}

type rawKey []byte

func (k rawKey) String() string {
	return hex.EncodeToString(k)
}

// withKey turns a decode failure into a corruption error naming the key.
func withKey(err error, k []byte) error {
	if err == nil {
		return nil
	}
	if c, ok := err.(storobj.ErrCorrupted); ok {
		if c.Key == "" {
			c.Key = rawKey(k).String()
		}
		return c
	}
	return storobj.NewErrCorruptedf(rawKey(k), "%v", err)
}
