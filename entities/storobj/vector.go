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
package storobj

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/weaviate/weavegraph/entities/arena"
	"github.com/weaviate/weavegraph/entities/values"
	bo "github.com/weaviate/weavegraph/usecases/byte_operations"
)

// Vector is a stored embedding. It is split over two records: the vector
// record keyed by DocID holds the embedding and what the index needs to walk
// the graph, the data record keyed by ID holds the properties.
type Vector struct {
	ID         uuid.UUID
	DocID      uint64
	Label      string
	Version    uint8
	Level      int
	Deleted    bool
	Properties values.Properties
	Embedding  []float32
	// Norm is the euclidean norm of Embedding. It is computed on marshal
	// when left at zero.
	Norm float32
}

type docIDKey uint64

func (k docIDKey) String() string {
	return "doc:" + strconv.FormatUint(uint64(k), 10)
}

// DocIDKey is the key of a vector record.
func DocIDKey(docID uint64) []byte {
	out := make([]byte, 8)
	binary.BigEndian.PutUint64(out, docID)
	return out
}

func DocIDFromKey(key []byte) uint64 {
	return binary.BigEndian.Uint64(key)
}

func Norm(vec []float32) float32 {
	var sum float64
	for _, f := range vec {
		sum += float64(f) * float64(f)
	}
	return float32(math.Sqrt(sum))
}

// MarshalVector encodes the record stored in the vectors space.
func (v *Vector) MarshalVector() ([]byte, error) {
	norm := v.Norm
	if norm == 0 && len(v.Embedding) > 0 {
		norm = Norm(v.Embedding)
	}

	fixed := make([]byte, 16+8+1+4+4+4*len(v.Embedding))
	w := bo.ByteOperations{Buffer: fixed}
	w.CopyBytesToBuffer(v.ID[:])
	w.WriteUint64(uint64(v.Level))
	w.WriteByte(boolByte(v.Deleted))
	w.WriteFloat32(norm)
	w.WriteUint32(uint32(len(v.Embedding)))
	for _, f := range v.Embedding {
		w.WriteFloat32(f)
	}
	return marshalRecord(v.Label, v.Version, fixed, nil)
}

// MarshalData encodes the record stored in the vector_data space.
func (v *Vector) MarshalData() ([]byte, error) {
	fixed := make([]byte, 8+8+1)
	w := bo.ByteOperations{Buffer: fixed}
	w.WriteUint64(v.DocID)
	w.WriteUint64(uint64(v.Level))
	w.WriteByte(boolByte(v.Deleted))
	return marshalRecord(v.Label, v.Version, fixed, v.Properties)
}

// VectorFromBinary decodes a vectors record. The embedding is skipped unless
// withEmbedding is set, the norm is always read.
func VectorFromBinary(docID uint64, data []byte, withEmbedding bool, a *arena.Arena) (*Vector, error) {
	key := docIDKey(docID)
	r := &bo.ByteOperations{Buffer: data}
	label, version, err := readHeader(r, key, a)
	if err != nil {
		return nil, err
	}

	v := &Vector{DocID: docID, Label: label, Version: version}
	id, err := r.ReadBytesFromBuffer(16)
	if err != nil {
		return nil, NewErrCorruptedf(key, "id: %v", err)
	}
	copy(v.ID[:], id)

	if err := readLevelDeleted(r, key, v); err != nil {
		return nil, err
	}
	if v.Norm, err = r.ReadFloat32(); err != nil {
		return nil, NewErrCorruptedf(key, "norm: %v", err)
	}
	dims, err := r.ReadUint32()
	if err != nil {
		return nil, NewErrCorruptedf(key, "dimensions: %v", err)
	}
	if uint64(dims)*4 != r.Remaining() {
		return nil, NewErrCorruptedf(key, "%d dimensions but %d bytes of embedding",
			dims, r.Remaining())
	}
	if !withEmbedding {
		return v, nil
	}

	if a != nil {
		v.Embedding = a.Float32s(int(dims))
	} else {
		v.Embedding = make([]float32, dims)
	}
	if err := r.ReadFloat32s(v.Embedding); err != nil {
		return nil, NewErrCorruptedf(key, "embedding: %v", err)
	}
	return v, nil
}

// VectorFromData decodes a vector_data record. The result has no embedding.
func VectorFromData(id uuid.UUID, data []byte, a *arena.Arena) (*Vector, error) {
	r := &bo.ByteOperations{Buffer: data}
	label, version, err := readHeader(r, id, a)
	if err != nil {
		return nil, err
	}

	v := &Vector{ID: id, Label: label, Version: version}
	if v.DocID, err = r.ReadUint64(); err != nil {
		return nil, NewErrCorruptedf(id, "doc id: %v", err)
	}
	if err := readLevelDeleted(r, id, v); err != nil {
		return nil, err
	}
	if v.Properties, err = readProperties(r, id); err != nil {
		return nil, err
	}
	return v, nil
}

func readLevelDeleted(r *bo.ByteOperations, key fmt.Stringer, v *Vector) error {
	level, err := r.ReadUint64()
	if err != nil {
		return NewErrCorruptedf(key, "level: %v", err)
	}
	deleted, err := r.ReadUint8()
	if err != nil {
		return NewErrCorruptedf(key, "deleted flag: %v", err)
	}
	v.Level = int(level)
	v.Deleted = deleted == 1
	return nil
}

func (v *Vector) Get(name string) (values.Value, bool) {
	return lookup(name, v.ID, v.Label, v.Properties)
}

func (v *Vector) Clone() *Vector {
	out := *v
	out.Label = strings.Clone(v.Label)
	out.Properties = v.Properties.Clone()
	if v.Embedding != nil {
		out.Embedding = append([]float32(nil), v.Embedding...)
	}
	return &out
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
