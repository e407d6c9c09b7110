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
	"encoding/binary"
	"time"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/weaviate/weavegraph/adapters/repos/db/helpers"
	"github.com/weaviate/weavegraph/adapters/repos/db/kv"
)

var (
	schemaVersionKey = []byte("schema_version")
	createdAtKey     = []byte("created_at")
	indexesKey       = []byte("secondary_indexes")
)

// Metadata describes a store as a whole.
type Metadata struct {
	SchemaVersion    uint32        `json:"schemaVersion"`
	CreatedAt        time.Time     `json:"createdAt"`
	Backend          kv.Kind       `json:"backend"`
	VectorDimensions int           `json:"vectorDimensions"`
	BM25Enabled      bool          `json:"bm25Enabled"`
	SecondaryIndexes []IndexConfig `json:"secondaryIndexes"`
}

func (s *Storage) initMetadata(txn kv.Txn) error {
	raw, err := txn.Get(helpers.StorageMetadataSpace, schemaVersionKey)
	if errors.Is(err, kv.ErrNotFound) {
		return s.writeInitialMetadata(txn)
	}
	if err != nil {
		return errors.Wrap(err, "read schema version")
	}
	if len(raw) != 4 {
		return errors.Errorf("schema version has %d bytes, want 4", len(raw))
	}
	if v := binary.BigEndian.Uint32(raw); v > SchemaVersion {
		return errors.Wrapf(ErrSchemaVersion, "store has version %d, this build reads up to %d",
			v, SchemaVersion)
	}
	return nil
}

func (s *Storage) writeInitialMetadata(txn kv.Txn) error {
	version := make([]byte, 4)
	binary.BigEndian.PutUint32(version, SchemaVersion)
	if err := txn.Put(helpers.StorageMetadataSpace, schemaVersionKey, version); err != nil {
		return errors.Wrap(err, "write schema version")
	}
	created, err := time.Now().UTC().MarshalBinary()
	if err != nil {
		return err
	}
	if err := txn.Put(helpers.StorageMetadataSpace, createdAtKey, created); err != nil {
		return errors.Wrap(err, "write creation time")
	}
	s.logger.WithField("action", "storage_create").
		WithField("schema_version", SchemaVersion).
		Info("initialized new store")
	return nil
}

func (s *Storage) Metadata(txn kv.Txn) (*Metadata, error) {
	m := &Metadata{
		Backend:          s.config.Backend,
		BM25Enabled:      s.bm25 != nil,
		SecondaryIndexes: s.Indexes(),
	}

	raw, err := txn.Get(helpers.StorageMetadataSpace, schemaVersionKey)
	if err != nil {
		return nil, errors.Wrap(err, "read schema version")
	}
	if len(raw) == 4 {
		m.SchemaVersion = binary.BigEndian.Uint32(raw)
	}
	raw, err = txn.Get(helpers.StorageMetadataSpace, createdAtKey)
	if err != nil {
		return nil, errors.Wrap(err, "read creation time")
	}
	if err := m.CreatedAt.UnmarshalBinary(raw); err != nil {
		return nil, errors.Wrap(err, "decode creation time")
	}
	if m.VectorDimensions, err = s.vectors.Dimensions(txn); err != nil {
		return nil, err
	}
	return m, nil
}

func loadIndexes(txn kv.Txn) ([]IndexConfig, error) {
	raw, err := txn.Get(helpers.StorageMetadataSpace, indexesKey)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read secondary index registry")
	}
	var out []IndexConfig
	if err := msgpack.Unmarshal(raw, &out); err != nil {
		return nil, errors.Wrap(err, "decode secondary index registry")
	}
	return out, nil
}

func saveIndexes(txn kv.Txn, indexes []IndexConfig) error {
	raw, err := msgpack.Marshal(indexes)
	if err != nil {
		return errors.Wrap(err, "encode secondary index registry")
	}
	return errors.Wrap(txn.Put(helpers.StorageMetadataSpace, indexesKey, raw),
		"write secondary index registry")
}
