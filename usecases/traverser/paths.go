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
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/weaviate/weavegraph/adapters/repos/db/priorityqueue"
	"github.com/weaviate/weavegraph/entities/storobj"
)

// DefaultWeight is the cost of an edge without a numeric weight property.
const DefaultWeight = 1.0

var ErrNegativeWeight = errors.New("negative edge weight")

// ShortestPath yields, for every upstream node, the path with the fewest
// outgoing edges of label that ends at the node to. Nodes that cannot reach
// to yield nothing, a node yields a path of itself when it is to. An empty
// label follows every edge.
func (t *Traversal) ShortestPath(to uuid.UUID, label string) *Traversal {
	return t.with(flatMap(t.upstream(), func(v TraversalValue) Iterator {
		if v.Kind != KindNode {
			return emptyIter()
		}
		return pathIter(t.breadthFirst(v.Node, to, label))
	}))
}

// WeightedShortestPath is ShortestPath minimizing the sum of the numeric
// edge property weight instead of the number of edges. Edges without it
// cost DefaultWeight, a negative weight is an error item.
func (t *Traversal) WeightedShortestPath(to uuid.UUID, label, weight string) *Traversal {
	return t.with(flatMap(t.upstream(), func(v TraversalValue) Iterator {
		if v.Kind != KindNode {
			return emptyIter()
		}
		return pathIter(t.dijkstra(v.Node, to, label, weight))
	}))
}

func pathIter(p *Path, err error) Iterator {
	if err != nil {
		return errIter(err)
	}
	if p == nil {
		return emptyIter()
	}
	return valuesIter([]TraversalValue{PathValue(p)})
}

// backlink records how a node was first reached. edge is nil for the start.
type backlink struct {
	node *storobj.Node
	edge *storobj.Edge
}

func (t *Traversal) breadthFirst(from *storobj.Node, to uuid.UUID, label string) (*Path, error) {
	reached := map[uuid.UUID]backlink{from.ID: {node: from}}
	queue := []uuid.UUID{from.ID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if id == to {
			return walkBack(reached, to), nil
		}

		edges, err := t.outgoing(id, label)
		if err != nil {
			return nil, err
		}
		for _, e := range edges {
			if _, seen := reached[e.To]; seen {
				continue
			}
			n, err := t.pathNode(e.To)
			if err != nil {
				return nil, err
			}
			if n == nil {
				continue
			}
			reached[e.To] = backlink{node: n, edge: e}
			queue = append(queue, e.To)
		}
	}
	return nil, nil
}

func (t *Traversal) dijkstra(from *storobj.Node, to uuid.UUID, label, weight string) (*Path, error) {
	reached := map[uuid.UUID]backlink{from.ID: {node: from}}
	dist := map[uuid.UUID]float64{from.ID: 0}
	done := map[uuid.UUID]struct{}{}
	// queue ids only order equal costs by insertion
	pending := priorityqueue.NewMin[uuid.UUID](16)
	var seq uint64
	pending.InsertWithValue(seq, 0, from.ID)

	for pending.Len() > 0 {
		id := pending.Pop().Value
		if _, ok := done[id]; ok {
			continue
		}
		done[id] = struct{}{}
		if id == to {
			return walkBack(reached, to), nil
		}

		edges, err := t.outgoing(id, label)
		if err != nil {
			return nil, err
		}
		for _, e := range edges {
			if _, ok := done[e.To]; ok {
				continue
			}
			w, err := edgeWeight(e, weight)
			if err != nil {
				return nil, err
			}
			d := dist[id] + w
			if old, ok := dist[e.To]; ok && old <= d {
				continue
			}
			link, ok := reached[e.To]
			if !ok {
				n, err := t.pathNode(e.To)
				if err != nil {
					return nil, err
				}
				if n == nil {
					continue
				}
				link.node = n
			}
			link.edge = e
			reached[e.To] = link
			dist[e.To] = d
			seq++
			pending.InsertWithValue(seq, float32(d), e.To)
		}
	}
	return nil, nil
}

func edgeWeight(e *storobj.Edge, prop string) (float64, error) {
	v, ok := e.Get(prop)
	if !ok {
		return DefaultWeight, nil
	}
	w, ok := v.Number()
	if !ok {
		return DefaultWeight, nil
	}
	if w < 0 {
		return 0, errors.Wrapf(ErrNegativeWeight, "edge %s: %s = %g", e.ID, prop, w)
	}
	return w, nil
}

// outgoing loads the outgoing edges of label of the element id.
func (t *Traversal) outgoing(id uuid.UUID, label string) ([]*storobj.Edge, error) {
	scan := t.storage.OutEdges(t.txn, id, label)
	defer scan.Close()

	var out []*storobj.Edge
	for {
		adj, ok, err := scan.Next()
		if !ok {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		e, err := t.storage.GetEdge(t.txn, t.arena, adj.EdgeID)
		if err != nil {
			return nil, err
		}
		if label != "" && e.Label != label {
			continue
		}
		out = append(out, e)
	}
}

// pathNode loads a node on a path. Vectors at the end of an edge are not
// part of paths, they yield nil.
func (t *Traversal) pathNode(id uuid.UUID) (*storobj.Node, error) {
	n, err := t.storage.GetNode(t.txn, t.arena, id)
	if errors.Is(err, storobj.ErrNodeNotFound) {
		return nil, nil
	}
	return n, err
}

func walkBack(reached map[uuid.UUID]backlink, to uuid.UUID) *Path {
	p := &Path{}
	for id := to; ; {
		link := reached[id]
		p.Nodes = append(p.Nodes, link.node)
		if link.edge == nil {
			break
		}
		p.Edges = append(p.Edges, link.edge)
		id = link.edge.From
	}
	for i, j := 0, len(p.Nodes)-1; i < j; i, j = i+1, j-1 {
		p.Nodes[i], p.Nodes[j] = p.Nodes[j], p.Nodes[i]
	}
	for i, j := 0, len(p.Edges)-1; i < j; i, j = i+1, j-1 {
		p.Edges[i], p.Edges[j] = p.Edges[j], p.Edges[i]
	}
	return p
}
