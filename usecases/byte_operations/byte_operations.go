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

// Package byte_operations provides helper functions to (un-) marshal records
// from or into a buffer. Reads are bounds checked so a truncated record
// surfaces as ErrShortBuffer instead of a panic.
package byte_operations

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

const (
	uint16Len = 2
	uint32Len = 4
	uint64Len = 8
)

var ErrShortBuffer = errors.New("buffer too short")

type ByteOperations struct {
	Position uint64
	Buffer   []byte
}

func (bo *ByteOperations) Remaining() uint64 {
	if bo.Position >= uint64(len(bo.Buffer)) {
		return 0
	}
	return uint64(len(bo.Buffer)) - bo.Position
}

func (bo *ByteOperations) take(n uint64) ([]byte, error) {
	if n > bo.Remaining() {
		return nil, errors.Wrapf(ErrShortBuffer, "need %d bytes at offset %d, have %d",
			n, bo.Position, bo.Remaining())
	}
	out := bo.Buffer[bo.Position : bo.Position+n]
	bo.Position += n
	return out, nil
}

func (bo *ByteOperations) ReadUint8() (uint8, error) {
	b, err := bo.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (bo *ByteOperations) ReadUint16() (uint16, error) {
	b, err := bo.take(uint16Len)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (bo *ByteOperations) ReadUint32() (uint32, error) {
	b, err := bo.take(uint32Len)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (bo *ByteOperations) ReadUint64() (uint64, error) {
	b, err := bo.take(uint64Len)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (bo *ByteOperations) ReadFloat32() (float32, error) {
	bits, err := bo.ReadUint32()
	return math.Float32frombits(bits), err
}

// ReadBytesFromBuffer returns a subslice of the buffer without copying.
func (bo *ByteOperations) ReadBytesFromBuffer(length uint64) ([]byte, error) {
	return bo.take(length)
}

func (bo *ByteOperations) ReadBytesFromBufferWithUint64LengthIndicator() ([]byte, error) {
	l, err := bo.ReadUint64()
	if err != nil {
		return nil, err
	}
	return bo.take(l)
}

// ReadFloat32s decodes n little endian floats into out, which must have
// length n.
func (bo *ByteOperations) ReadFloat32s(out []float32) error {
	b, err := bo.take(uint64(len(out)) * uint32Len)
	if err != nil {
		return err
	}
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*uint32Len:]))
	}
	return nil
}

// Rest returns everything after the current position.
func (bo *ByteOperations) Rest() []byte {
	if bo.Remaining() == 0 {
		return nil
	}
	out := bo.Buffer[bo.Position:]
	bo.Position = uint64(len(bo.Buffer))
	return out
}

// The write helpers expect Buffer to be sized for the record up front.

func (bo *ByteOperations) WriteByte(b byte) error {
	bo.Buffer[bo.Position] = b
	bo.Position++
	return nil
}

func (bo *ByteOperations) WriteUint32(value uint32) {
	binary.LittleEndian.PutUint32(bo.Buffer[bo.Position:], value)
	bo.Position += uint32Len
}

func (bo *ByteOperations) WriteUint64(value uint64) {
	binary.LittleEndian.PutUint64(bo.Buffer[bo.Position:], value)
	bo.Position += uint64Len
}

func (bo *ByteOperations) WriteFloat32(value float32) {
	bo.WriteUint32(math.Float32bits(value))
}

func (bo *ByteOperations) CopyBytesToBuffer(copyBytes []byte) {
	bo.Position += uint64(copy(bo.Buffer[bo.Position:], copyBytes))
}

// CopyBytesToBufferWithUint64LengthIndicator writes a uint64 length
// indicator about the buffer that's about to follow, then writes the buffer
// itself.
func (bo *ByteOperations) CopyBytesToBufferWithUint64LengthIndicator(copyBytes []byte) {
	bo.WriteUint64(uint64(len(copyBytes)))
	bo.CopyBytesToBuffer(copyBytes)
}
