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

	"github.com/weaviate/weavegraph/entities/storobj"
	"github.com/weaviate/weavegraph/entities/values"
)

// Kind tells which field of a TraversalValue is set.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindNode
	KindEdge
	KindVector
	KindCount
	KindValue
	KindPath
)

func (k Kind) String() string {
	switch k {
	case KindNode:
		return "node"
	case KindEdge:
		return "edge"
	case KindVector:
		return "vector"
	case KindCount:
		return "count"
	case KindValue:
		return "value"
	case KindPath:
		return "path"
	default:
		return "empty"
	}
}

// TraversalValue is one element flowing through a traversal. Nodes, edges
// and vectors are decoded into the traversal's arena and are only valid
// while the arena is, see Clone.
type TraversalValue struct {
	Kind   Kind
	Node   *storobj.Node
	Edge   *storobj.Edge
	Vector *storobj.Vector
	Count  int
	Value  values.Value
	Path   *Path
	// Score is set by search sources: the distance of a vector hit or the
	// relevance of a keyword hit.
	Score float32
}

func NodeValue(n *storobj.Node) TraversalValue {
	return TraversalValue{Kind: KindNode, Node: n}
}

func EdgeValue(e *storobj.Edge) TraversalValue {
	return TraversalValue{Kind: KindEdge, Edge: e}
}

func VectorValue(v *storobj.Vector) TraversalValue {
	return TraversalValue{Kind: KindVector, Vector: v}
}

func CountValue(n int) TraversalValue {
	return TraversalValue{Kind: KindCount, Count: n}
}

func ScalarValue(v values.Value) TraversalValue {
	return TraversalValue{Kind: KindValue, Value: v}
}

func PathValue(p *Path) TraversalValue {
	return TraversalValue{Kind: KindPath, Path: p}
}

// Path is a walk through the graph. Edges[i] joins Nodes[i] and Nodes[i+1],
// a path from a node to itself holds the node and no edges.
type Path struct {
	Nodes []*storobj.Node
	Edges []*storobj.Edge
}

// Len is the number of edges on the path.
func (p *Path) Len() int {
	return len(p.Edges)
}

func (p *Path) Clone() *Path {
	out := &Path{
		Nodes: make([]*storobj.Node, len(p.Nodes)),
		Edges: make([]*storobj.Edge, len(p.Edges)),
	}
	for i, n := range p.Nodes {
		out.Nodes[i] = n.Clone()
	}
	for i, e := range p.Edges {
		out.Edges[i] = e.Clone()
	}
	return out
}

// ID returns the id of a node, edge or vector and the zero uuid otherwise.
func (v TraversalValue) ID() uuid.UUID {
	switch v.Kind {
	case KindNode:
		return v.Node.ID
	case KindEdge:
		return v.Edge.ID
	case KindVector:
		return v.Vector.ID
	default:
		return uuid.Nil
	}
}

// HasID reports whether the value is an element of the graph.
func (v TraversalValue) HasID() bool {
	return v.Kind == KindNode || v.Kind == KindEdge || v.Kind == KindVector
}

func (v TraversalValue) Label() string {
	switch v.Kind {
	case KindNode:
		return v.Node.Label
	case KindEdge:
		return v.Edge.Label
	case KindVector:
		return v.Vector.Label
	default:
		return ""
	}
}

// Get looks up a property. The pseudo properties "id" and "label" resolve
// for graph elements, edges also resolve "from_node" and "to_node".
func (v TraversalValue) Get(name string) (values.Value, bool) {
	switch v.Kind {
	case KindNode:
		return v.Node.Get(name)
	case KindEdge:
		return v.Edge.Get(name)
	case KindVector:
		return v.Vector.Get(name)
	case KindCount:
		if name == "count" {
			return values.Int(int64(v.Count)), true
		}
	case KindValue:
		if obj, ok := v.Value.AsObject(); ok {
			return obj.Get(name)
		}
	case KindPath:
		if name == "length" {
			return values.Int(int64(v.Path.Len())), true
		}
	}
	return values.Value{}, false
}

func (v TraversalValue) Properties() values.Properties {
	switch v.Kind {
	case KindNode:
		return v.Node.Properties
	case KindEdge:
		return v.Edge.Properties
	case KindVector:
		return v.Vector.Properties
	case KindValue:
		obj, _ := v.Value.AsObject()
		return obj
	default:
		return nil
	}
}

// Clone deep copies the value so it survives a reset of the arena it was
// decoded into.
func (v TraversalValue) Clone() TraversalValue {
	out := v
	switch v.Kind {
	case KindNode:
		out.Node = v.Node.Clone()
	case KindEdge:
		out.Edge = v.Edge.Clone()
	case KindVector:
		out.Vector = v.Vector.Clone()
	case KindValue:
		out.Value = v.Value.Clone()
	case KindPath:
		out.Path = v.Path.Clone()
	}
	return out
}
