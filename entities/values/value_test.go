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
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertiesEncoding(t *testing.T) {
	id := uuid.MustParse("018f2d55-8c3a-7b2e-9a5c-0123456789ab")
	born := time.Date(1990, 5, 17, 8, 30, 0, 0, time.UTC)

	props := Properties{
		{Key: "name", Value: String("ada")},
		{Key: "age", Value: Int(-36)},
		{Key: "followers", Value: Uint(1 << 40)},
		{Key: "score", Value: Float(0.75)},
		{Key: "active", Value: Bool(true)},
		{Key: "ref", Value: UUID(id)},
		{Key: "born", Value: Date(born)},
		{Key: "tags", Value: Array(String("a"), Int(1))},
		{Key: "address", Value: Object(Properties{{Key: "city", Value: String("Amsterdam")}})},
		{Key: "nothing", Value: Null},
	}

	var buf bytes.Buffer
	require.Nil(t, MarshalProperties(&buf, props))

	decoded, err := UnmarshalProperties(buf.Bytes())
	require.Nil(t, err)
	require.Equal(t, props.Keys(), decoded.Keys(), "order is preserved")
	assert.True(t, PropertiesEqual(props, decoded))

	d, ok := decoded.Get("born")
	require.True(t, ok)
	got, ok := d.AsDate()
	require.True(t, ok)
	assert.True(t, born.Equal(got))

	t.Run("empty input", func(t *testing.T) {
		p, err := UnmarshalProperties(nil)
		require.Nil(t, err)
		assert.Nil(t, p)
	})

	t.Run("garbage input", func(t *testing.T) {
		_, err := UnmarshalProperties([]byte{0x81, 0xa1, 'k', 0x92, 0x7f, 0x00})
		assert.NotNil(t, err)
	})
}

func TestCompare(t *testing.T) {
	type testCase struct {
		name     string
		a, b     Value
		expected int
	}

	tests := []testCase{
		{name: "int vs float", a: Int(3), b: Float(3.5), expected: -1},
		{name: "uint vs int equal", a: Uint(7), b: Int(7), expected: 0},
		{name: "negative ints", a: Int(-2), b: Int(-10), expected: 1},
		{name: "strings", a: String("apple"), b: String("banana"), expected: -1},
		{name: "bools", a: Bool(true), b: Bool(false), expected: 1},
		{name: "null first", a: Null, b: String(""), expected: -1},
		{name: "arrays by element", a: Array(Int(1), Int(2)), b: Array(Int(1), Int(3)), expected: -1},
		{name: "arrays by length", a: Array(Int(1)), b: Array(Int(1), Int(0)), expected: -1},
		{name: "dates", a: Date(time.Unix(10, 0)), b: Date(time.Unix(5, 0)), expected: 1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, Compare(test.a, test.b))
			assert.Equal(t, -test.expected, Compare(test.b, test.a))
		})
	}
}

func TestStringForm(t *testing.T) {
	assert.Equal(t, "engineering", String("engineering").String())
	assert.Equal(t, "42", Int(42).String())
	assert.Equal(t, "0.5", Float(0.5).String())
	assert.Equal(t, "true", Bool(true).String())
	assert.Equal(t, "null", Null.String())
	assert.Equal(t, "[a, 1]", Array(String("a"), Int(1)).String())
}

func TestFromInterface(t *testing.T) {
	v, err := FromInterface(map[string]any{
		"b": []any{"x", 1.5},
		"a": nil,
	})
	require.Nil(t, err)
	obj, ok := v.AsObject()
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, obj.Keys())
	assert.Equal(t, map[string]any{"a": nil, "b": []any{"x", 1.5}}, obj.Map())

	_, err = FromInterface(struct{}{})
	assert.NotNil(t, err)
}

func TestPropertiesMutation(t *testing.T) {
	p := Of("name", "ada", "age", 36)
	p = p.Set("age", Int(37))
	p = p.Set("city", String("london"))
	p = p.Delete("name")

	assert.Equal(t, []string{"age", "city"}, p.Keys())
	age, _ := p.Get("age")
	assert.Equal(t, "37", age.String())

	merged := p.Merge(Of("age", 38, "team", "core"))
	assert.Equal(t, []string{"age", "city", "team"}, merged.Keys())
	orig, _ := p.Get("age")
	assert.Equal(t, "37", orig.String(), "merge does not modify the receiver")
}

func TestIndexKeys(t *testing.T) {
	a, err := EncodeKey(String("engineering"))
	require.Nil(t, err)
	b, err := EncodeKey(String("engineering"))
	require.Nil(t, err)
	assert.Equal(t, a, b)

	v, err := DecodeKey(a)
	require.Nil(t, err)
	assert.True(t, Equal(String("engineering"), v))
}
