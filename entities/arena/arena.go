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

// Package arena provides a region allocator for the bytes, strings and float
// slices produced while decoding records during one traversal. Everything
// handed out by an Arena is released together by Reset. Values must not be
// used after Reset unless they were cloned first.
//
// An Arena is not safe for concurrent use.
package arena

import (
	"sync"
	"unsafe"
)

const (
	DefaultChunkSize = 64 * 1024
	alignment        = 8
)

type Stats struct {
	Chunks      int
	BytesUsed   int
	BytesWasted int
	Allocs      int
	Generation  uint32
}

type Arena struct {
	chunkSize int
	chunks    [][]byte
	current   int
	offset    int
	stats     Stats
}

func New(chunkSize int) *Arena {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	a := &Arena{chunkSize: chunkSize}
	a.chunks = append(a.chunks, make([]byte, chunkSize))
	a.stats.Chunks = 1
	a.stats.Generation = 1
	return a
}

// alloc returns n bytes aligned to 8. Requests larger than a chunk get a
// dedicated chunk.
func (a *Arena) alloc(n int) []byte {
	if n == 0 {
		return nil
	}
	a.stats.Allocs++

	padded := (a.offset + alignment - 1) &^ (alignment - 1)
	if padded+n <= len(a.chunks[a.current]) {
		a.stats.BytesWasted += padded - a.offset
		a.stats.BytesUsed += n
		b := a.chunks[a.current][padded : padded+n : padded+n]
		a.offset = padded + n
		return b
	}

	size := a.chunkSize
	if n > size {
		size = n
	}
	// reuse a chunk retained by Reset if it is big enough
	next := a.current + 1
	if next < len(a.chunks) && len(a.chunks[next]) >= n {
		a.current = next
	} else {
		chunk := make([]byte, size)
		a.chunks = append(a.chunks[:next], chunk)
		a.current = next
		a.stats.Chunks = len(a.chunks)
	}
	a.offset = n
	a.stats.BytesUsed += n
	return a.chunks[a.current][:n:n]
}

// Bytes returns a zeroed slice of length n.
func (a *Arena) Bytes(n int) []byte {
	b := a.alloc(n)
	clear(b)
	return b
}

func (a *Arena) Copy(in []byte) []byte {
	b := a.alloc(len(in))
	copy(b, in)
	return b
}

// String copies in and returns a string backed by arena memory.
func (a *Arena) String(in []byte) string {
	if len(in) == 0 {
		return ""
	}
	b := a.Copy(in)
	return unsafe.String(&b[0], len(b))
}

// Float32s returns a zeroed float slice of length n.
func (a *Arena) Float32s(n int) []float32 {
	if n == 0 {
		return nil
	}
	b := a.Bytes(n * 4)
	return unsafe.Slice((*float32)(unsafe.Pointer(&b[0])), n)
}

// Reset releases every allocation at once. The first chunks are kept for
// reuse.
func (a *Arena) Reset() {
	a.current = 0
	a.offset = 0
	a.stats.BytesUsed = 0
	a.stats.BytesWasted = 0
	a.stats.Allocs = 0
	a.stats.Generation++
}

func (a *Arena) Stats() Stats {
	return a.stats
}

// Pool recycles arenas between traversals.
type Pool struct {
	pool sync.Pool
}

func NewPool(chunkSize int) *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() any {
				return New(chunkSize)
			},
		},
	}
}

func (p *Pool) Get() *Arena {
	return p.pool.Get().(*Arena)
}

func (p *Pool) Put(a *Arena) {
	a.Reset()
	p.pool.Put(a)
}
