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
	"bytes"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/weaviate/weavegraph/adapters/repos/db/helpers"
	"github.com/weaviate/weavegraph/adapters/repos/db/kv"
	"github.com/weaviate/weavegraph/entities/storobj"
	"github.com/weaviate/weavegraph/entities/values"
)

// CreateIndex registers a secondary index and indexes the nodes that are
// already stored. It runs in its own write transaction and must not be
// called while the caller holds one. The registry lock is only taken once
// the write transaction is open, so writers always lock the transaction
// before the registry.
func (s *Storage) CreateIndex(ic IndexConfig) error {
	start := time.Now()
	if ic.Name == "" {
		return errors.New("secondary index without a name")
	}

	locked := false
	defer func() {
		if locked {
			s.indexMu.Unlock()
		}
	}()
	err := s.Update(func(txn kv.Txn) error {
		s.indexMu.Lock()
		locked = true
		if _, ok := s.indexes[ic.Name]; ok {
			return errors.Wrapf(ErrIndexExists, "index %q", ic.Name)
		}
		if err := s.backfillIndex(txn, ic); err != nil {
			return err
		}
		return saveIndexes(txn, append(s.indexListLocked(), ic))
	})
	if err != nil {
		return errors.Wrapf(err, "create index %q", ic.Name)
	}
	s.indexes[ic.Name] = ic

	s.metrics.Operation("index", "create", start)
	s.logger.WithField("action", "storage_create_index").
		WithField("index", ic.Name).
		WithField("label", ic.Label).
		WithField("unique", ic.Unique).
		Info("secondary index created")
	return nil
}

// DropIndex removes a secondary index and all its entries. It follows the
// same lock order as CreateIndex.
func (s *Storage) DropIndex(name string) error {
	start := time.Now()

	locked := false
	defer func() {
		if locked {
			s.indexMu.Unlock()
		}
	}()
	err := s.Update(func(txn kv.Txn) error {
		s.indexMu.Lock()
		locked = true
		if _, ok := s.indexes[name]; !ok {
			return errors.Wrapf(ErrLabelNotFound, "index %q", name)
		}
		remaining := make([]IndexConfig, 0, len(s.indexes)-1)
		for _, ic := range s.indexListLocked() {
			if ic.Name != name {
				remaining = append(remaining, ic)
			}
		}
		if err := txn.DropSpace(helpers.IndexSpace(name)); err != nil {
			return err
		}
		return saveIndexes(txn, remaining)
	})
	if err != nil {
		return errors.Wrapf(err, "drop index %q", name)
	}
	delete(s.indexes, name)

	s.metrics.Operation("index", "drop", start)
	s.logger.WithField("action", "storage_drop_index").
		WithField("index", name).
		Info("secondary index dropped")
	return nil
}

// LookupIndex returns the ids of the nodes whose property equals value.
// Values only match values of the same kind.
func (s *Storage) LookupIndex(txn kv.Txn, name string, value values.Value) ([]uuid.UUID, error) {
	if _, ok := s.Index(name); !ok {
		return nil, errors.Wrapf(ErrLabelNotFound, "index %q", name)
	}
	key, err := values.EncodeKey(value)
	if err != nil {
		return nil, errors.Wrapf(err, "encode lookup value for index %q", name)
	}
	return lookupKey(txn, name, key)
}

func lookupKey(txn kv.Txn, name string, key []byte) ([]uuid.UUID, error) {
	c := txn.DupCursor(helpers.IndexSpace(name), key)
	defer c.Close()

	var out []uuid.UUID
	for _, v, ok := c.Next(); ok; _, v, ok = c.Next() {
		id, err := storobj.ParseID(v)
		if err != nil {
			return nil, storobj.NewErrCorruptedf(indexEntry(name), "entry %x: %v", v, err)
		}
		out = append(out, id)
	}
	return out, c.Err()
}

func (s *Storage) Index(name string) (IndexConfig, bool) {
	s.indexMu.RLock()
	defer s.indexMu.RUnlock()
	ic, ok := s.indexes[name]
	return ic, ok
}

// IndexNames lists the registered secondary indexes in name order.
func (s *Storage) IndexNames() []string {
	indexes := s.Indexes()
	out := make([]string, len(indexes))
	for i, ic := range indexes {
		out[i] = ic.Name
	}
	return out
}

func (s *Storage) Indexes() []IndexConfig {
	s.indexMu.RLock()
	defer s.indexMu.RUnlock()
	return s.indexListLocked()
}

func (s *Storage) indexListLocked() []IndexConfig {
	out := make([]IndexConfig, 0, len(s.indexes))
	for _, ic := range s.indexes {
		out = append(out, ic)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// indexesFor resolves the indexes a new node of label is written to. nil
// names selects every registered index covering label.
func (s *Storage) indexesFor(label string, names []string) ([]IndexConfig, error) {
	s.indexMu.RLock()
	defer s.indexMu.RUnlock()

	if names == nil {
		var out []IndexConfig
		for _, ic := range s.indexListLocked() {
			if ic.covers(label) {
				out = append(out, ic)
			}
		}
		return out, nil
	}

	out := make([]IndexConfig, 0, len(names))
	for _, name := range names {
		ic, ok := s.indexes[name]
		if !ok {
			return nil, errors.Wrapf(ErrLabelNotFound, "index %q", name)
		}
		out = append(out, ic)
	}
	return out, nil
}

func (s *Storage) coveringIndexes(label string) []IndexConfig {
	out, _ := s.indexesFor(label, nil)
	return out
}

// checkUnique fails if a unique index already maps the node's value to
// another node.
func checkUnique(txn kv.Txn, indexes []IndexConfig, node *storobj.Node) error {
	for _, ic := range indexes {
		if !ic.Unique {
			continue
		}
		key, ok, err := indexKey(ic, node.Properties)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		ids, err := lookupKey(txn, ic.Name, key)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if id != node.ID {
				return errors.Wrapf(ErrUniqueViolation, "index %q already maps %s to node %s",
					ic.Name, mustValue(node.Properties, ic.Name), id)
			}
		}
	}
	return nil
}

func indexKey(ic IndexConfig, props values.Properties) ([]byte, bool, error) {
	v, ok := props.Get(ic.Name)
	if !ok {
		return nil, false, nil
	}
	key, err := values.EncodeKey(v)
	if err != nil {
		return nil, false, errors.Wrapf(err, "encode value of index %q", ic.Name)
	}
	return key, true, nil
}

func indexNode(txn kv.Txn, ic IndexConfig, node *storobj.Node) error {
	key, ok, err := indexKey(ic, node.Properties)
	if err != nil || !ok {
		return err
	}
	return errors.Wrapf(txn.PutDup(helpers.IndexSpace(ic.Name), key, node.ID[:]),
		"write index %q", ic.Name)
}

func unindexNode(txn kv.Txn, ic IndexConfig, id uuid.UUID, props values.Properties) error {
	key, ok, err := indexKey(ic, props)
	if err != nil || !ok {
		return err
	}
	return errors.Wrapf(txn.DeleteDup(helpers.IndexSpace(ic.Name), key, id[:]),
		"delete from index %q", ic.Name)
}

// reindexNode moves the entries of every index whose property changed.
func reindexNode(txn kv.Txn, indexes []IndexConfig, old, updated *storobj.Node) error {
	for _, ic := range indexes {
		oldKey, hadOld, err := indexKey(ic, old.Properties)
		if err != nil {
			return err
		}
		newKey, hasNew, err := indexKey(ic, updated.Properties)
		if err != nil {
			return err
		}
		if hadOld == hasNew && bytes.Equal(oldKey, newKey) {
			continue
		}
		if hadOld {
			if err := txn.DeleteDup(helpers.IndexSpace(ic.Name), oldKey, old.ID[:]); err != nil {
				return errors.Wrapf(err, "delete from index %q", ic.Name)
			}
		}
		if hasNew {
			if err := indexNode(txn, ic, updated); err != nil {
				return err
			}
		}
	}
	return nil
}

// backfillIndex writes the entries of a new index for every stored node it
// covers.
func (s *Storage) backfillIndex(txn kv.Txn, ic IndexConfig) error {
	scan := s.NodesOfLabel(txn, nil, ic.Label)
	defer scan.Close()

	indexed := 0
	for {
		node, ok, err := scan.Next()
		if !ok {
			break
		}
		if err != nil {
			return err
		}
		if err := checkUnique(txn, []IndexConfig{ic}, node); err != nil {
			return err
		}
		if err := indexNode(txn, ic, node); err != nil {
			return err
		}
		indexed++
	}
	s.logger.WithField("action", "storage_backfill_index").
		WithField("index", ic.Name).
		WithField("nodes", indexed).
		Debug("backfilled secondary index")
	return nil
}

type indexEntry string

func (i indexEntry) String() string {
	return "index:" + string(i)
}

func mustValue(props values.Properties, key string) string {
	v, _ := props.Get(key)
	return v.String()
}
