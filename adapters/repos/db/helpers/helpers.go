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
// Package helpers holds the names of the key spaces and the construction of
// the keys that live in them.
package helpers

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
	"github.com/spaolacci/murmur3"
)

const (
	NodesSpace           = "nodes"
	EdgesSpace           = "edges"
	OutEdgesSpace        = "out_edges"
	InEdgesSpace         = "in_edges"
	VectorsSpace         = "vectors"
	VectorDataSpace      = "vector_data"
	HNSWLinksSpace       = "hnsw_links"
	HNSWMetaSpace        = "hnsw_meta"
	StorageMetadataSpace = "storage_metadata"

	BM25InvertedSpace   = "bm25_inverted"
	BM25DocLengthsSpace = "bm25_doc_lengths"
	BM25TermFreqsSpace  = "bm25_term_freqs"
	BM25MetadataSpace   = "bm25_metadata"
	BM25DocTermsSpace   = "bm25_doc_terms"

	indexSpacePrefix = "index_"
)

const (
	LabelHashLength = 4
	// AdjacencyKeyLength is node id plus label hash.
	AdjacencyKeyLength = 16 + LabelHashLength
	// AdjacencyValueLength is edge id plus the id of the other endpoint.
	AdjacencyValueLength = 32
)

// IndexSpace is the duplicate key space backing the secondary index name.
func IndexSpace(name string) string {
	return indexSpacePrefix + name
}

// LabelHash is the discriminator used in adjacency keys so that all edges
// of one label on one node share a key.
func LabelHash(label string) [LabelHashLength]byte {
	var out [LabelHashLength]byte
	binary.BigEndian.PutUint32(out[:], murmur3.Sum32([]byte(label)))
	return out
}

func adjacencyKey(node uuid.UUID, labelHash [LabelHashLength]byte) []byte {
	out := make([]byte, AdjacencyKeyLength)
	copy(out, node[:])
	copy(out[16:], labelHash[:])
	return out
}

// OutEdgeKey addresses the out_edges entries of from for one label.
func OutEdgeKey(from uuid.UUID, labelHash [LabelHashLength]byte) []byte {
	return adjacencyKey(from, labelHash)
}

// InEdgeKey addresses the in_edges entries of to for one label.
func InEdgeKey(to uuid.UUID, labelHash [LabelHashLength]byte) []byte {
	return adjacencyKey(to, labelHash)
}

// NodePrefix matches the adjacency entries of node for every label.
func NodePrefix(node uuid.UUID) []byte {
	out := make([]byte, 16)
	copy(out, node[:])
	return out
}

func PackEdgeData(edgeID, other uuid.UUID) []byte {
	out := make([]byte, AdjacencyValueLength)
	copy(out, edgeID[:])
	copy(out[16:], other[:])
	return out
}

func UnpackAdjEdgeData(data []byte) (edgeID uuid.UUID, other uuid.UUID, err error) {
	if len(data) != AdjacencyValueLength {
		return edgeID, other, fmt.Errorf("adjacency value has %d bytes, want %d",
			len(data), AdjacencyValueLength)
	}
	copy(edgeID[:], data[:16])
	copy(other[:], data[16:])
	return edgeID, other, nil
}

// LinksKey addresses the neighbors of docID on one layer.
func LinksKey(docID uint64, layer int) []byte {
	out := make([]byte, 9)
	binary.BigEndian.PutUint64(out, docID)
	out[8] = uint8(layer)
	return out
}

func DocIDPrefix(docID uint64) []byte {
	out := make([]byte, 8)
	binary.BigEndian.PutUint64(out, docID)
	return out
}

// PackDocIDs concatenates big endian doc ids.
func PackDocIDs(ids []uint64) []byte {
	out := make([]byte, 8*len(ids))
	for i, id := range ids {
		binary.BigEndian.PutUint64(out[i*8:], id)
	}
	return out
}

// UnpackDocIDs appends the ids in data to buf.
func UnpackDocIDs(buf []uint64, data []byte) ([]uint64, error) {
	if len(data)%8 != 0 {
		return buf, fmt.Errorf("packed doc ids have %d bytes, not a multiple of 8", len(data))
	}
	for i := 0; i < len(data); i += 8 {
		buf = append(buf, binary.BigEndian.Uint64(data[i:]))
	}
	return buf, nil
}
