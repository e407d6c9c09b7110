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
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/weaviate/weavegraph/adapters/repos/db/helpers"
	"github.com/weaviate/weavegraph/adapters/repos/db/inverted"
	"github.com/weaviate/weavegraph/adapters/repos/db/kv"
	"github.com/weaviate/weavegraph/entities/arena"
	"github.com/weaviate/weavegraph/entities/storobj"
	"github.com/weaviate/weavegraph/entities/values"
)

// AddNode stores a new node of label. indexes names the secondary indexes
// the node is written to, nil selects every registered index covering label.
func (s *Storage) AddNode(txn kv.Txn, label string, props values.Properties,
	indexes []string,
) (*storobj.Node, error) {
	node := storobj.NewNode(label, props)
	if err := s.PutNode(txn, node, indexes); err != nil {
		return nil, err
	}
	return node, nil
}

// PutNode stores node under its own id, which must not be taken yet.
//
// Unique indexes are checked before anything is written. Failures of the
// index or keyword writes that follow the node row are collected into one
// error and not undone, the caller decides whether to roll back.
func (s *Storage) PutNode(txn kv.Txn, node *storobj.Node, indexes []string) error {
	start := time.Now()
	if !txn.Writable() {
		return kv.ErrTxNotWritable
	}
	targets, err := s.indexesFor(node.Label, indexes)
	if err != nil {
		return err
	}

	if _, err := txn.Get(helpers.NodesSpace, node.ID[:]); err == nil {
		return errors.Wrapf(ErrMultipleNodesWithSameID, "node %s", node.ID)
	} else if !errors.Is(err, kv.ErrNotFound) {
		return errors.Wrapf(err, "check node %s", node.ID)
	}
	if err := checkUnique(txn, targets, node); err != nil {
		return err
	}

	raw, err := node.MarshalBinary()
	if err != nil {
		return errors.Wrapf(err, "encode node %s", node.ID)
	}
	if err := txn.Put(helpers.NodesSpace, node.ID[:], raw); err != nil {
		return errors.Wrapf(err, "write node %s", node.ID)
	}

	var result *multierror.Error
	for _, ic := range targets {
		if err := indexNode(txn, ic, node); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if s.bm25 != nil {
		doc := inverted.Document(node.Label, node.Properties)
		if err := s.bm25.InsertDoc(txn, node.ID, doc); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return errors.Wrapf(err, "index node %s", node.ID)
	}

	s.metrics.Operation("node", "add", start)
	return nil
}

// GetNode loads a node. Its strings are placed in a when a is not nil.
func (s *Storage) GetNode(txn kv.Txn, a *arena.Arena, id uuid.UUID) (*storobj.Node, error) {
	raw, err := txn.Get(helpers.NodesSpace, id[:])
	if errors.Is(err, kv.ErrNotFound) {
		return nil, storobj.NewErrNotFound(storobj.ErrNodeNotFound, id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read node %s", id)
	}
	return storobj.NodeFromBinary(id, raw, a)
}

// UpdateNode merges props into the properties of a node. Covering indexes
// whose property changed and the keyword index follow the new values.
func (s *Storage) UpdateNode(txn kv.Txn, id uuid.UUID, props values.Properties) (*storobj.Node, error) {
	start := time.Now()
	if !txn.Writable() {
		return nil, kv.ErrTxNotWritable
	}
	old, err := s.GetNode(txn, nil, id)
	if err != nil {
		return nil, err
	}
	updated := old.Clone()
	updated.Properties = updated.Properties.Merge(props)

	indexes := s.coveringIndexes(old.Label)
	if err := checkUnique(txn, indexes, updated); err != nil {
		return nil, err
	}

	raw, err := updated.MarshalBinary()
	if err != nil {
		return nil, errors.Wrapf(err, "encode node %s", id)
	}
	if err := txn.Put(helpers.NodesSpace, id[:], raw); err != nil {
		return nil, errors.Wrapf(err, "write node %s", id)
	}

	var result *multierror.Error
	if err := reindexNode(txn, indexes, old, updated); err != nil {
		result = multierror.Append(result, err)
	}
	if s.bm25 != nil {
		doc := inverted.Document(updated.Label, updated.Properties)
		if err := s.bm25.UpdateDoc(txn, id, doc); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, errors.Wrapf(err, "reindex node %s", id)
	}

	s.metrics.Operation("node", "update", start)
	return updated, nil
}

// DropNode removes a node together with every edge that starts or ends at
// it, its secondary index entries and its keyword document.
func (s *Storage) DropNode(txn kv.Txn, id uuid.UUID) error {
	start := time.Now()
	if !txn.Writable() {
		return kv.ErrTxNotWritable
	}
	node, err := s.GetNode(txn, nil, id)
	if err != nil {
		return err
	}

	var result *multierror.Error
	if err := s.dropIncidentEdges(txn, id); err != nil {
		result = multierror.Append(result, err)
	}
	for _, ic := range s.coveringIndexes(node.Label) {
		if err := unindexNode(txn, ic, id, node.Properties); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if s.bm25 != nil {
		if err := s.bm25.DeleteDoc(txn, id); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := txn.Delete(helpers.NodesSpace, id[:]); err != nil {
		result = multierror.Append(result, errors.Wrap(err, "delete node row"))
	}
	if err := result.ErrorOrNil(); err != nil {
		return errors.Wrapf(err, "drop node %s", id)
	}

	s.metrics.Operation("node", "drop", start)
	return nil
}
