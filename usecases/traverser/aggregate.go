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
	"sort"
	"strings"

	"github.com/weaviate/weavegraph/entities/values"
)

// missingKeyPart stands in for an absent property in a group key.
const missingKeyPart = "null"

// Group is one bucket of AggregateBy or GroupBy.
type Group struct {
	Key string
	// Values holds the grouped elements, filled by AggregateBy unless only
	// counts were requested.
	Values []TraversalValue
	// Properties holds the grouping properties that were present, filled by
	// GroupBy.
	Properties values.Properties
	Count      int
}

// Aggregate is the result of AggregateBy and GroupBy, keyed by the
// properties of each group joined with "_".
type Aggregate struct {
	Groups    map[string]*Group
	CountOnly bool
}

// Keys returns the group keys in lexical order.
func (a *Aggregate) Keys() []string {
	keys := make([]string, 0, len(a.Groups))
	for k := range a.Groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Total sums the counts of all groups.
func (a *Aggregate) Total() int {
	total := 0
	for _, g := range a.Groups {
		total += g.Count
	}
	return total
}

// GroupKey builds the composite key of v over props.
func GroupKey(v TraversalValue, props []string) string {
	key, _ := groupKey(v, props)
	return key
}

func groupKey(v TraversalValue, props []string) (string, values.Properties) {
	parts := make([]string, len(props))
	var present values.Properties
	for i, p := range props {
		val, ok := v.Get(p)
		if !ok {
			parts[i] = missingKeyPart
			continue
		}
		parts[i] = val.String()
		present = append(present, values.Property{Key: p, Value: val})
	}
	return strings.Join(parts, "_"), present
}

// AggregateBy buckets the values by props. With count set only the sizes of
// the buckets are kept. It stops at the first error.
func (t *Traversal) AggregateBy(props []string, count bool) (*Aggregate, error) {
	agg, err := t.group(props, count, true)
	t.metrics.Terminal("aggregate_by", t.started, aggSize(agg), err)
	return agg, err
}

// GroupBy buckets the values by props and keeps the grouping properties
// present on any member of a bucket instead of the members.
func (t *Traversal) GroupBy(props []string, count bool) (*Aggregate, error) {
	agg, err := t.group(props, count, false)
	t.metrics.Terminal("group_by", t.started, aggSize(agg), err)
	return agg, err
}

func (t *Traversal) group(props []string, count, keepValues bool) (*Aggregate, error) {
	agg := &Aggregate{Groups: map[string]*Group{}, CountOnly: count}
	for {
		item, ok := t.Next()
		if !ok {
			return agg, nil
		}
		if item.Err != nil {
			return nil, item.Err
		}

		key, present := groupKey(item.Value, props)
		g, ok := agg.Groups[key]
		if !ok {
			g = &Group{Key: key}
			agg.Groups[key] = g
		}
		if !keepValues {
			g.Properties = mergeMissing(g.Properties, present)
		}
		g.Count++
		if keepValues && !count {
			g.Values = append(g.Values, item.Value)
		}
	}
}

// mergeMissing appends the properties of add whose key dst lacks. A key
// part of "null" is shared by absent and null properties, so members of one
// group can differ in which properties they carry.
func mergeMissing(dst, add values.Properties) values.Properties {
	for _, p := range add {
		if _, ok := dst.Get(p.Key); !ok {
			dst = append(dst, p)
		}
	}
	return dst
}

func aggSize(a *Aggregate) int {
	if a == nil {
		return 0
	}
	return len(a.Groups)
}

// Count drains the traversal and returns the number of values. It stops at
// the first error.
func (t *Traversal) Count() (int, error) {
	n := 0
	for {
		item, ok := t.Next()
		if !ok {
			break
		}
		if item.Err != nil {
			t.metrics.Terminal("count", t.started, n, item.Err)
			return 0, item.Err
		}
		n++
	}
	t.metrics.Terminal("count", t.started, n, nil)
	return n, nil
}
