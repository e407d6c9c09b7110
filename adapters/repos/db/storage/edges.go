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
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/weaviate/weavegraph/adapters/repos/db/helpers"
	"github.com/weaviate/weavegraph/adapters/repos/db/kv"
	"github.com/weaviate/weavegraph/entities/arena"
	"github.com/weaviate/weavegraph/entities/storobj"
	"github.com/weaviate/weavegraph/entities/values"
)

// AddEdge connects from and to with a new edge of label. Each endpoint may
// be a node or a vector and must exist.
func (s *Storage) AddEdge(txn kv.Txn, label string, props values.Properties,
	from, to uuid.UUID,
) (*storobj.Edge, error) {
	for _, id := range []uuid.UUID{from, to} {
		if err := s.checkEndpoint(txn, id); err != nil {
			return nil, errors.Wrapf(err, "add %s edge", label)
		}
	}
	edge := storobj.NewEdge(label, from, to, props)
	if err := s.PutEdge(txn, edge); err != nil {
		return nil, err
	}
	return edge, nil
}

// PutEdge stores edge and its two adjacency entries without checking the
// endpoints.
func (s *Storage) PutEdge(txn kv.Txn, edge *storobj.Edge) error {
	start := time.Now()
	if !txn.Writable() {
		return kv.ErrTxNotWritable
	}
	if _, err := txn.Get(helpers.EdgesSpace, edge.ID[:]); err == nil {
		return errors.Wrapf(ErrMultipleEdgesWithSameID, "edge %s", edge.ID)
	} else if !errors.Is(err, kv.ErrNotFound) {
		return errors.Wrapf(err, "check edge %s", edge.ID)
	}

	raw, err := edge.MarshalBinary()
	if err != nil {
		return errors.Wrapf(err, "encode edge %s", edge.ID)
	}
	if err := txn.Put(helpers.EdgesSpace, edge.ID[:], raw); err != nil {
		return errors.Wrapf(err, "write edge %s", edge.ID)
	}

	hash := helpers.LabelHash(edge.Label)
	if err := txn.PutDup(helpers.OutEdgesSpace, helpers.OutEdgeKey(edge.From, hash),
		helpers.PackEdgeData(edge.ID, edge.To)); err != nil {
		return errors.Wrapf(err, "write out edge of %s", edge.From)
	}
	if err := txn.PutDup(helpers.InEdgesSpace, helpers.InEdgeKey(edge.To, hash),
		helpers.PackEdgeData(edge.ID, edge.From)); err != nil {
		return errors.Wrapf(err, "write in edge of %s", edge.To)
	}

	s.metrics.Operation("edge", "add", start)
	return nil
}

func (s *Storage) GetEdge(txn kv.Txn, a *arena.Arena, id uuid.UUID) (*storobj.Edge, error) {
	raw, err := txn.Get(helpers.EdgesSpace, id[:])
	if errors.Is(err, kv.ErrNotFound) {
		return nil, storobj.NewErrNotFound(storobj.ErrEdgeNotFound, id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read edge %s", id)
	}
	return storobj.EdgeFromBinary(id, raw, a)
}

// UpdateEdge merges props into the properties of an edge. Label and
// endpoints never change.
func (s *Storage) UpdateEdge(txn kv.Txn, id uuid.UUID, props values.Properties) (*storobj.Edge, error) {
	start := time.Now()
	if !txn.Writable() {
		return nil, kv.ErrTxNotWritable
	}
	edge, err := s.GetEdge(txn, nil, id)
	if err != nil {
		return nil, err
	}
	edge.Properties = edge.Properties.Merge(props)

	raw, err := edge.MarshalBinary()
	if err != nil {
		return nil, errors.Wrapf(err, "encode edge %s", id)
	}
	if err := txn.Put(helpers.EdgesSpace, id[:], raw); err != nil {
		return nil, errors.Wrapf(err, "write edge %s", id)
	}
	s.metrics.Operation("edge", "update", start)
	return edge, nil
}

// DropEdge removes an edge and both of its adjacency entries.
func (s *Storage) DropEdge(txn kv.Txn, id uuid.UUID) error {
	start := time.Now()
	if !txn.Writable() {
		return kv.ErrTxNotWritable
	}
	edge, err := s.GetEdge(txn, nil, id)
	if err != nil {
		return err
	}

	hash := helpers.LabelHash(edge.Label)
	if err := txn.DeleteDup(helpers.OutEdgesSpace, helpers.OutEdgeKey(edge.From, hash),
		helpers.PackEdgeData(id, edge.To)); err != nil {
		return errors.Wrapf(err, "delete out edge of %s", edge.From)
	}
	if err := txn.DeleteDup(helpers.InEdgesSpace, helpers.InEdgeKey(edge.To, hash),
		helpers.PackEdgeData(id, edge.From)); err != nil {
		return errors.Wrapf(err, "delete in edge of %s", edge.To)
	}
	if err := txn.Delete(helpers.EdgesSpace, id[:]); err != nil {
		return errors.Wrapf(err, "delete edge %s", id)
	}
	s.metrics.Operation("edge", "drop", start)
	return nil
}

func (s *Storage) checkEndpoint(txn kv.Txn, id uuid.UUID) error {
	_, err := txn.Get(helpers.NodesSpace, id[:])
	if err == nil || !errors.Is(err, kv.ErrNotFound) {
		return err
	}
	_, err = txn.Get(helpers.VectorDataSpace, id[:])
	if errors.Is(err, kv.ErrNotFound) {
		return storobj.NewErrNotFound(storobj.ErrNodeNotFound, id)
	}
	return err
}

// dropIncidentEdges removes every edge starting or ending at id, including
// the adjacency entries kept on the other endpoint.
func (s *Storage) dropIncidentEdges(txn kv.Txn, id uuid.UUID) error {
	dropped := 0
	for _, dir := range []struct {
		space, counterpart string
	}{
		{helpers.OutEdgesSpace, helpers.InEdgesSpace},
		{helpers.InEdgesSpace, helpers.OutEdgesSpace},
	} {
		pairs, err := kv.Collect(txn.PrefixDupCursor(dir.space, helpers.NodePrefix(id)))
		if err != nil {
			return errors.Wrapf(err, "scan %s of %s", dir.space, id)
		}

		keys := map[string][]byte{}
		for _, p := range pairs {
			if len(p.Key) != helpers.AdjacencyKeyLength {
				return storobj.NewErrCorruptedf(rawKey(p.Key), "adjacency key of %d bytes", len(p.Key))
			}
			edgeID, other, err := helpers.UnpackAdjEdgeData(p.Value)
			if err != nil {
				return withKey(err, p.Key)
			}
			var hash [helpers.LabelHashLength]byte
			copy(hash[:], p.Key[16:])

			// both adjacency keys share the node id | label hash layout
			if err := txn.DeleteDup(dir.counterpart, helpers.InEdgeKey(other, hash),
				helpers.PackEdgeData(edgeID, id)); err != nil {
				return errors.Wrapf(err, "delete %s entry of %s", dir.counterpart, other)
			}
			if err := txn.Delete(helpers.EdgesSpace, edgeID[:]); err != nil {
				return errors.Wrapf(err, "delete edge %s", edgeID)
			}
			keys[string(p.Key)] = p.Key
			dropped++
		}
		for _, k := range keys {
			if err := txn.DeleteAllDup(dir.space, k); err != nil {
				return errors.Wrapf(err, "clear %s of %s", dir.space, id)
			}
		}
	}

	if dropped > 0 {
		s.logger.WithField("action", "storage_drop_incident_edges").
			WithField("id", id).
			WithField("edges", dropped).
			Debug("dropped incident edges")
	}
	return nil
}
