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

package values

import (
	"sort"
	"strings"
)

type Property struct {
	Key   string
	Value Value
}

// Properties is an insertion ordered map. Property sets are small, so a
// slice beats a map for both lookups and encoding.
type Properties []Property

func (p Properties) Get(key string) (Value, bool) {
	for i := range p {
		if p[i].Key == key {
			return p[i].Value, true
		}
	}
	return Null, false
}

func (p Properties) Len() int {
	return len(p)
}

func (p Properties) Keys() []string {
	out := make([]string, len(p))
	for i := range p {
		out[i] = p[i].Key
	}
	return out
}

// Set replaces an existing key in place or appends a new one.
func (p Properties) Set(key string, v Value) Properties {
	for i := range p {
		if p[i].Key == key {
			p[i].Value = v
			return p
		}
	}
	return append(p, Property{Key: key, Value: v})
}

func (p Properties) Delete(key string) Properties {
	for i := range p {
		if p[i].Key == key {
			return append(p[:i], p[i+1:]...)
		}
	}
	return p
}

// Merge returns p with every entry of update applied on top.
func (p Properties) Merge(update Properties) Properties {
	out := p.Clone()
	for _, u := range update {
		out = out.Set(u.Key, u.Value)
	}
	return out
}

func (p Properties) Clone() Properties {
	if p == nil {
		return nil
	}
	out := make(Properties, len(p))
	for i := range p {
		out[i] = Property{Key: strings.Clone(p[i].Key), Value: p[i].Value.Clone()}
	}
	return out
}

func (p Properties) Map() map[string]any {
	out := make(map[string]any, len(p))
	for i := range p {
		out[p[i].Key] = p[i].Value.Interface()
	}
	return out
}

// PropertiesFromMap converts a Go map. Keys are sorted because map iteration
// order is random.
func PropertiesFromMap(in map[string]any) (Properties, error) {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(Properties, 0, len(in))
	for _, k := range keys {
		v, err := FromInterface(in[k])
		if err != nil {
			return nil, err
		}
		out = append(out, Property{Key: k, Value: v})
	}
	return out, nil
}

// Of builds properties from alternating keys and plain Go values and panics
// on malformed input. It is meant for tests and literals.
func Of(kv ...any) Properties {
	if len(kv)%2 != 0 {
		panic("values.Of needs key/value pairs")
	}
	out := make(Properties, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		v, err := FromInterface(kv[i+1])
		if err != nil {
			panic(err)
		}
		out = append(out, Property{Key: kv[i].(string), Value: v})
	}
	return out
}

func PropertiesEqual(a, b Properties) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Key != b[i].Key || !Equal(a[i].Value, b[i].Value) {
			return false
		}
	}
	return true
}
