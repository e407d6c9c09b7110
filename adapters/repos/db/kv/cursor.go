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

package kv

// Pair is a copied key/value entry.
type Pair struct {
	Key   []byte
	Value []byte
}

// SliceCursor serves a materialized range. Backends use it for cursors in
// writable transactions and for empty results.
type SliceCursor struct {
	pairs []Pair
	pos   int
	err   error
}

func NewSliceCursor(pairs []Pair) *SliceCursor {
	return &SliceCursor{pairs: pairs}
}

// NewErrCursor returns a cursor that yields nothing and reports err.
func NewErrCursor(err error) *SliceCursor {
	return &SliceCursor{err: err}
}

func (c *SliceCursor) Next() ([]byte, []byte, bool) {
	if c.pos >= len(c.pairs) {
		return nil, nil, false
	}
	p := c.pairs[c.pos]
	c.pos++
	return p.Key, p.Value, true
}

func (c *SliceCursor) Err() error {
	return c.err
}

func (c *SliceCursor) Close() {
	c.pairs = nil
}

// Collect drains c into a slice of copied pairs.
func Collect(c Cursor) ([]Pair, error) {
	defer c.Close()
	var out []Pair
	for {
		k, v, ok := c.Next()
		if !ok {
			break
		}
		out = append(out, Pair{Key: copyBytes(k), Value: copyBytes(v)})
	}
	return out, c.Err()
}

func copyBytes(in []byte) []byte {
	if in == nil {
		return nil
	}
	out := make([]byte, len(in))
	copy(out, in)
	return out
}
