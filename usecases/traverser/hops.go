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
package traverser

import (
	"errors"

	"github.com/google/uuid"

	"github.com/weaviate/weavegraph/adapters/repos/db/storage"
	"github.com/weaviate/weavegraph/entities/storobj"
)

type direction uint8

const (
	outgoing direction = iota
	incoming
)

// Out follows the outgoing edges of label to the nodes or vectors at their
// end. An empty label follows every edge.
func (t *Traversal) Out(label string) *Traversal {
	return t.with(flatMap(t.upstream(), func(v TraversalValue) Iterator {
		return t.hop(v, outgoing, label, false)
	}))
}

// OutE yields the outgoing edges of label.
func (t *Traversal) OutE(label string) *Traversal {
	return t.with(flatMap(t.upstream(), func(v TraversalValue) Iterator {
		return t.hop(v, outgoing, label, true)
	}))
}

// In follows the incoming edges of label back to their sources.
func (t *Traversal) In(label string) *Traversal {
	return t.with(flatMap(t.upstream(), func(v TraversalValue) Iterator {
		return t.hop(v, incoming, label, false)
	}))
}

// InE yields the incoming edges of label.
func (t *Traversal) InE(label string) *Traversal {
	return t.with(flatMap(t.upstream(), func(v TraversalValue) Iterator {
		return t.hop(v, incoming, label, true)
	}))
}

// hop scans the adjacency of one element. Adjacency entries are keyed by a
// hash of the label, so the label of every loaded edge is compared again.
func (t *Traversal) hop(v TraversalValue, dir direction, label string, edges bool) Iterator {
	if !v.HasID() || v.Kind == KindEdge {
		return emptyIter()
	}

	var scan *storage.Scan[storage.Adjacency]
	if dir == outgoing {
		scan = t.storage.OutEdges(t.txn, v.ID(), label)
	} else {
		scan = t.storage.InEdges(t.txn, v.ID(), label)
	}

	return IteratorFunc(func() (Item, bool) {
		for {
			adj, ok, err := scan.Next()
			if !ok {
				scan.Close()
				return Item{}, false
			}
			if err != nil {
				return Item{Err: err}, true
			}

			if edges || label != "" {
				e, err := t.storage.GetEdge(t.txn, t.arena, adj.EdgeID)
				if err != nil {
					return Item{Err: err}, true
				}
				if label != "" && e.Label != label {
					continue
				}
				if edges {
					return Item{Value: EdgeValue(e)}, true
				}
			}

			other, err := t.resolve(adj.Other)
			if err != nil {
				return Item{Err: err}, true
			}
			return Item{Value: other}, true
		}
	})
}

// resolve loads the node with id, or the vector with id when there is no
// such node. Embeddings are not read.
func (t *Traversal) resolve(id uuid.UUID) (TraversalValue, error) {
	n, err := t.storage.GetNode(t.txn, t.arena, id)
	if err == nil {
		return NodeValue(n), nil
	}
	if !errors.Is(err, storobj.ErrNodeNotFound) {
		return TraversalValue{}, err
	}
	vec, verr := t.loadVector(id, false)
	if errors.Is(verr, storobj.ErrVectorNotFound) {
		return TraversalValue{}, err
	}
	if verr != nil {
		return TraversalValue{}, verr
	}
	return VectorValue(vec), nil
}

// ToN yields the target node of every edge. Edges pointing at a vector and
// values that are not edges are skipped.
func (t *Traversal) ToN() *Traversal {
	return t.endpoint(func(e *storobj.Edge) uuid.UUID { return e.To }, KindNode, false)
}

// FromN yields the source node of every edge.
func (t *Traversal) FromN() *Traversal {
	return t.endpoint(func(e *storobj.Edge) uuid.UUID { return e.From }, KindNode, false)
}

// ToV yields the target vector of every edge pointing at a vector.
func (t *Traversal) ToV(withEmbedding bool) *Traversal {
	return t.endpoint(func(e *storobj.Edge) uuid.UUID { return e.To }, KindVector, withEmbedding)
}

// FromV yields the source vector of every edge starting at a vector.
func (t *Traversal) FromV(withEmbedding bool) *Traversal {
	return t.endpoint(func(e *storobj.Edge) uuid.UUID { return e.From }, KindVector, withEmbedding)
}

func (t *Traversal) endpoint(end func(*storobj.Edge) uuid.UUID, want Kind,
	withEmbedding bool,
) *Traversal {
	return t.with(flatMap(t.upstream(), func(v TraversalValue) Iterator {
		if v.Kind != KindEdge {
			return emptyIter()
		}
		id := end(v.Edge)
		out, err := t.resolve(id)
		if err != nil {
			return errIter(err)
		}
		if out.Kind != want {
			return emptyIter()
		}
		if withEmbedding {
			vec, err := t.loadVector(id, true)
			if err != nil {
				return errIter(err)
			}
			out = VectorValue(vec)
		}
		return valuesIter([]TraversalValue{out})
	}))
}
