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

// Package values holds the dynamically typed property values of nodes, edges
// and vectors.
package values

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindUint
	KindFloat
	KindBool
	KindUUID
	KindDate
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindUUID:
		return "uuid"
	case KindDate:
		return "date"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is an immutable property value. The zero Value is null.
type Value struct {
	kind Kind
	str  string
	num  uint64
	id   uuid.UUID
	date time.Time
	arr  []Value
	obj  Properties
}

var Null = Value{}

func String(s string) Value { return Value{kind: KindString, str: s} }

func Int(i int64) Value { return Value{kind: KindInt, num: uint64(i)} }

func Uint(u uint64) Value { return Value{kind: KindUint, num: u} }

func Float(f float64) Value { return Value{kind: KindFloat, num: math.Float64bits(f)} }

func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.num = 1
	}
	return v
}

func UUID(id uuid.UUID) Value { return Value{kind: KindUUID, id: id} }

func Date(t time.Time) Value { return Value{kind: KindDate, date: t.UTC()} }

func Array(items ...Value) Value { return Value{kind: KindArray, arr: items} }

func Object(props Properties) Value { return Value{kind: KindObject, obj: props} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

func (v Value) AsInt() (int64, bool) { return int64(v.num), v.kind == KindInt }

func (v Value) AsUint() (uint64, bool) { return v.num, v.kind == KindUint }

func (v Value) AsFloat() (float64, bool) { return math.Float64frombits(v.num), v.kind == KindFloat }

func (v Value) AsBool() (bool, bool) { return v.num == 1, v.kind == KindBool }

func (v Value) AsUUID() (uuid.UUID, bool) { return v.id, v.kind == KindUUID }

func (v Value) AsDate() (time.Time, bool) { return v.date, v.kind == KindDate }

func (v Value) AsArray() ([]Value, bool) { return v.arr, v.kind == KindArray }

func (v Value) AsObject() (Properties, bool) { return v.obj, v.kind == KindObject }

// Number returns the value as float64 for any numeric kind.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(int64(v.num)), true
	case KindUint:
		return float64(v.num), true
	case KindFloat:
		return math.Float64frombits(v.num), true
	default:
		return 0, false
	}
}

func (v Value) isNumeric() bool {
	return v.kind == KindInt || v.kind == KindUint || v.kind == KindFloat
}

// String renders the value without quoting. Composite grouping keys are
// built from it.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindString:
		return v.str
	case KindInt:
		return strconv.FormatInt(int64(v.num), 10)
	case KindUint:
		return strconv.FormatUint(v.num, 10)
	case KindFloat:
		return strconv.FormatFloat(math.Float64frombits(v.num), 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.num == 1)
	case KindUUID:
		return v.id.String()
	case KindDate:
		return v.date.Format(time.RFC3339Nano)
	case KindArray:
		parts := make([]string, len(v.arr))
		for i := range v.arr {
			parts[i] = v.arr[i].String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindObject:
		var b strings.Builder
		b.WriteString("{")
		for i, p := range v.obj {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.Key)
			b.WriteString(": ")
			b.WriteString(p.Value.String())
		}
		b.WriteString("}")
		return b.String()
	default:
		return ""
	}
}

// Compare orders values. Numbers compare by magnitude regardless of their
// kind, everything else compares within its kind and kinds are ordered by
// their declaration order.
func Compare(a, b Value) int {
	if a.isNumeric() && b.isNumeric() {
		return compareNumbers(a, b)
	}
	if a.kind != b.kind {
		return cmpOrdered(a.kind, b.kind)
	}

	switch a.kind {
	case KindNull:
		return 0
	case KindString:
		return strings.Compare(a.str, b.str)
	case KindBool:
		return cmpOrdered(a.num, b.num)
	case KindUUID:
		return bytes.Compare(a.id[:], b.id[:])
	case KindDate:
		return a.date.Compare(b.date)
	case KindArray:
		for i := 0; i < len(a.arr) && i < len(b.arr); i++ {
			if c := Compare(a.arr[i], b.arr[i]); c != 0 {
				return c
			}
		}
		return cmpOrdered(len(a.arr), len(b.arr))
	case KindObject:
		for i := 0; i < len(a.obj) && i < len(b.obj); i++ {
			if c := strings.Compare(a.obj[i].Key, b.obj[i].Key); c != 0 {
				return c
			}
			if c := Compare(a.obj[i].Value, b.obj[i].Value); c != 0 {
				return c
			}
		}
		return cmpOrdered(len(a.obj), len(b.obj))
	}
	return 0
}

func Equal(a, b Value) bool {
	return Compare(a, b) == 0
}

func compareNumbers(a, b Value) int {
	// exact comparison where both sides share a kind, floats otherwise
	if a.kind == b.kind {
		switch a.kind {
		case KindInt:
			return cmpOrdered(int64(a.num), int64(b.num))
		case KindUint:
			return cmpOrdered(a.num, b.num)
		}
	}
	af, _ := a.Number()
	bf, _ := b.Number()
	return cmpOrdered(af, bf)
}

type ordered interface {
	~int | ~int64 | ~uint8 | ~uint64 | ~float64
}

func cmpOrdered[T ordered](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// FromInterface converts plain Go values, as produced by encoding/json or
// yaml decoding, into a Value.
func FromInterface(in any) (Value, error) {
	switch t := in.(type) {
	case nil:
		return Null, nil
	case Value:
		return t, nil
	case string:
		return String(t), nil
	case int:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return Uint(uint64(t)), nil
	case uint32:
		return Uint(uint64(t)), nil
	case uint64:
		return Uint(t), nil
	case float32:
		return Float(float64(t)), nil
	case float64:
		return Float(t), nil
	case bool:
		return Bool(t), nil
	case uuid.UUID:
		return UUID(t), nil
	case time.Time:
		return Date(t), nil
	case []any:
		arr := make([]Value, len(t))
		for i := range t {
			v, err := FromInterface(t[i])
			if err != nil {
				return Null, err
			}
			arr[i] = v
		}
		return Array(arr...), nil
	case []string:
		arr := make([]Value, len(t))
		for i := range t {
			arr[i] = String(t[i])
		}
		return Array(arr...), nil
	case map[string]any:
		props, err := PropertiesFromMap(t)
		if err != nil {
			return Null, err
		}
		return Object(props), nil
	default:
		return Null, fmt.Errorf("unsupported property type %T", in)
	}
}

// Interface is the inverse of FromInterface.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return int64(v.num)
	case KindUint:
		return v.num
	case KindFloat:
		return math.Float64frombits(v.num)
	case KindBool:
		return v.num == 1
	case KindUUID:
		return v.id
	case KindDate:
		return v.date
	case KindArray:
		out := make([]any, len(v.arr))
		for i := range v.arr {
			out[i] = v.arr[i].Interface()
		}
		return out
	case KindObject:
		return v.obj.Map()
	default:
		return nil
	}
}

// Clone returns a deep copy that shares no memory with v. Strings decoded
// into an arena alias arena memory, so values that outlive their traversal
// must be cloned.
func (v Value) Clone() Value {
	out := v
	switch v.kind {
	case KindString:
		out.str = strings.Clone(v.str)
	case KindArray:
		out.arr = make([]Value, len(v.arr))
		for i := range v.arr {
			out.arr[i] = v.arr[i].Clone()
		}
	case KindObject:
		out.obj = v.obj.Clone()
	}
	return out
}
