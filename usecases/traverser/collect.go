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

	"github.com/weaviate/weavegraph/entities/values"
)

// Collect drains the traversal. The first error item aborts it. The values
// are only valid while the arena is, see Detach.
func (t *Traversal) Collect() ([]TraversalValue, error) {
	out, err := drain(t.iter)
	t.metrics.Terminal("collect", t.started, len(out), err)
	return out, err
}

// Detach is Collect with every value deep copied out of the arena.
func (t *Traversal) Detach() ([]TraversalValue, error) {
	vals, err := drain(t.iter)
	t.metrics.Terminal("detach", t.started, len(vals), err)
	if err != nil {
		return nil, err
	}
	for i := range vals {
		vals[i] = vals[i].Clone()
	}
	return vals, nil
}

// First returns the first item. ok is false when the traversal is empty.
func (t *Traversal) First() (v TraversalValue, ok bool, err error) {
	item, ok := t.Next()
	n := 0
	if ok && item.Err == nil {
		n = 1
	}
	t.metrics.Terminal("first", t.started, n, item.Err)
	if !ok {
		return TraversalValue{}, false, nil
	}
	if item.Err != nil {
		return TraversalValue{}, false, item.Err
	}
	return item.Value, true, nil
}

// CollectIDs returns the ids of the graph elements of the traversal, other
// values are skipped.
func (t *Traversal) CollectIDs() ([]uuid.UUID, error) {
	vals, err := drain(t.iter)
	t.metrics.Terminal("collect_ids", t.started, len(vals), err)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(vals))
	for _, v := range vals {
		if v.HasID() {
			ids = append(ids, v.ID())
		}
	}
	return ids, nil
}

// CollectToValue drains the traversal into one array value. Graph elements
// become objects carrying their id and label next to their properties, so
// the result owns no arena memory.
func (t *Traversal) CollectToValue() (values.Value, error) {
	vals, err := drain(t.iter)
	t.metrics.Terminal("collect_to_value", t.started, len(vals), err)
	if err != nil {
		return values.Null, err
	}
	out := make([]values.Value, len(vals))
	for i, v := range vals {
		out[i] = ToValue(v)
	}
	return values.Array(out...), nil
}

// ToValue converts one traversal value into a property value.
func ToValue(v TraversalValue) values.Value {
	switch v.Kind {
	case KindNode, KindEdge, KindVector:
		props := values.Properties{
			{Key: "id", Value: values.UUID(v.ID())},
			{Key: "label", Value: values.String(v.Label())},
		}
		if v.Kind == KindEdge {
			props = append(props,
				values.Property{Key: "from_node", Value: values.UUID(v.Edge.From)},
				values.Property{Key: "to_node", Value: values.UUID(v.Edge.To)})
		}
		if v.Kind == KindVector && v.Vector.Embedding != nil {
			data := make([]values.Value, len(v.Vector.Embedding))
			for i, f := range v.Vector.Embedding {
				data[i] = values.Float(float64(f))
			}
			props = append(props, values.Property{Key: "data", Value: values.Array(data...)})
		}
		for _, p := range v.Properties() {
			if _, reserved := props.Get(p.Key); reserved {
				continue
			}
			props = append(props, values.Property{Key: p.Key, Value: p.Value.Clone()})
		}
		return values.Object(props)
	case KindCount:
		return values.Int(int64(v.Count))
	case KindValue:
		return v.Value.Clone()
	case KindPath:
		nodes := make([]values.Value, len(v.Path.Nodes))
		for i, n := range v.Path.Nodes {
			nodes[i] = ToValue(NodeValue(n))
		}
		edges := make([]values.Value, len(v.Path.Edges))
		for i, e := range v.Path.Edges {
			edges[i] = ToValue(EdgeValue(e))
		}
		return values.Object(values.Properties{
			{Key: "nodes", Value: values.Array(nodes...)},
			{Key: "edges", Value: values.Array(edges...)},
			{Key: "length", Value: values.Int(int64(len(edges)))},
		})
	default:
		return values.Null
	}
}
