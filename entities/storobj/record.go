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

// Package storobj contains the stored representation of nodes, edges and
// vectors. Every record starts with the same discriminator:
//
//	labelLen uint64 LE | label | version uint8 | type specific fields | properties
//
// so a scan can reject records of another label by reading the first
// 8+len(label) bytes only. Properties are msgpack encoded and always last.
package storobj

import (
	"encoding/binary"
	"fmt"

	"github.com/weaviate/weavegraph/entities/arena"
	"github.com/weaviate/weavegraph/entities/values"
	bo "github.com/weaviate/weavegraph/usecases/byte_operations"
)

const (
	// LabelHeaderLength is the size of the little endian label length that
	// starts every record.
	LabelHeaderLength = 8
	// DefaultVersion is stored for records created without an explicit one.
	DefaultVersion uint8 = 1
)

// PeekLabel returns the label of an encoded record without decoding the
// rest. The returned slice aliases data.
func PeekLabel(data []byte) ([]byte, error) {
	if len(data) < LabelHeaderLength {
		return nil, ErrCorrupted{Reason: fmt.Sprintf(
			"record of %d bytes has no label header", len(data))}
	}
	l := binary.LittleEndian.Uint64(data[:LabelHeaderLength])
	if l > uint64(len(data)-LabelHeaderLength) {
		return nil, ErrCorrupted{Reason: fmt.Sprintf(
			"label length %d exceeds record of %d bytes", l, len(data))}
	}
	return data[LabelHeaderLength : LabelHeaderLength+l], nil
}

// HasLabel reports whether the record carries label. Records whose label
// length differs are rejected before the label bytes are read.
func HasLabel(data []byte, label string) (bool, error) {
	if len(data) < LabelHeaderLength {
		return false, ErrCorrupted{Reason: fmt.Sprintf(
			"record of %d bytes has no label header", len(data))}
	}
	l := binary.LittleEndian.Uint64(data[:LabelHeaderLength])
	if l != uint64(len(label)) {
		return false, nil
	}
	got, err := PeekLabel(data)
	if err != nil {
		return false, err
	}
	return string(got) == label, nil
}

// marshalRecord assembles header, fixed fields and properties into one
// exactly sized slice.
func marshalRecord(label string, version uint8, fixed []byte, props values.Properties) ([]byte, error) {
	pbuf := propertyBuffers.Get()
	defer propertyBuffers.Put(pbuf)

	if len(props) > 0 {
		if err := values.MarshalProperties(pbuf, props); err != nil {
			return nil, fmt.Errorf("encode properties: %w", err)
		}
	}

	out := make([]byte, LabelHeaderLength+len(label)+1+len(fixed)+pbuf.Len())
	w := bo.ByteOperations{Buffer: out}
	w.CopyBytesToBufferWithUint64LengthIndicator([]byte(label))
	w.WriteByte(version)
	w.CopyBytesToBuffer(fixed)
	w.CopyBytesToBuffer(pbuf.Bytes())
	return out, nil
}

// readHeader consumes the label and version of a record.
func readHeader(r *bo.ByteOperations, key fmt.Stringer, a *arena.Arena) (string, uint8, error) {
	if _, err := PeekLabel(r.Buffer); err != nil {
		c := err.(ErrCorrupted)
		c.Key = key.String()
		return "", 0, c
	}
	label, err := r.ReadBytesFromBufferWithUint64LengthIndicator()
	if err != nil {
		return "", 0, NewErrCorruptedf(key, "label: %v", err)
	}
	version, err := r.ReadUint8()
	if err != nil {
		return "", 0, NewErrCorruptedf(key, "version: %v", err)
	}
	return arenaString(a, label), version, nil
}

func readProperties(r *bo.ByteOperations, key fmt.Stringer) (values.Properties, error) {
	props, err := values.UnmarshalProperties(r.Rest())
	if err != nil {
		return nil, NewErrCorruptedf(key, "properties: %v", err)
	}
	return props, nil
}

func arenaString(a *arena.Arena, b []byte) string {
	if a == nil {
		return string(b)
	}
	return a.String(b)
}

// lookup resolves the pseudo properties "id" and "label" before the stored
// ones.
func lookup(name string, id fmt.Stringer, label string, props values.Properties) (values.Value, bool) {
	switch name {
	case "id":
		return values.String(id.String()), true
	case "label":
		return values.String(label), true
	}
	return props.Get(name)
}
