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
package distancer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   []float32
		want []float32
	}{
		{name: "pythagorean", in: []float32{3, 4}, want: []float32{0.6, 0.8}},
		{name: "negative components", in: []float32{0, -2}, want: []float32{0, -1}},
		{name: "single component", in: []float32{5}, want: []float32{1}},
		{name: "zero stays zero", in: []float32{0, 0, 0}, want: []float32{0, 0, 0}},
		{name: "empty", in: []float32{}, want: []float32{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := append([]float32{}, tt.in...)
			got := Normalize(tt.in)

			require.Len(t, got, len(tt.want))
			for i := range got {
				assert.InDelta(t, tt.want[i], got[i], 1e-6)
			}
			assert.Equal(t, orig, tt.in, "input must not be modified")

			NormalizeInPlace(tt.in)
			assert.Equal(t, got, tt.in)
		})
	}
}

func TestNormalizedCosineMatchesCosine(t *testing.T) {
	a := []float32{1, 2, 3, 4}
	b := []float32{-2, 0.5, 7, 1}

	p := NewCosineDistanceProvider()
	raw, err := p.SingleDist(a, b)
	require.Nil(t, err)

	na, nb := Normalize(a), Normalize(b)
	assert.InDelta(t, 1, Norm(na), 1e-5)
	normalized, err := p.SingleDist(na, nb)
	require.Nil(t, err)
	assert.InDelta(t, raw, normalized, 1e-5)
}
