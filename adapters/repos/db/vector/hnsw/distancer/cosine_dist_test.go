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

func TestCosineDistancer(t *testing.T) {
	tests := []struct {
		name     string
		vec1     []float32
		vec2     []float32
		expected float32
	}{
		{
			name:     "identical vectors",
			vec1:     []float32{0.1, 0.3, 0.7},
			vec2:     []float32{0.1, 0.3, 0.7},
			expected: 0,
		},
		{
			name:     "different vectors, but identical angle",
			vec1:     []float32{0.1, 0.3, 0.7},
			vec2:     []float32{0.2, 0.6, 1.4},
			expected: 0,
		},
		{
			name:     "different vectors",
			vec1:     []float32{0.1, 0.3, 0.7},
			vec2:     []float32{0.2, 0.2, 0.2},
			expected: 0.173,
		},
		{
			name:     "opposite vectors",
			vec1:     []float32{0.1, 0.3, 0.7},
			vec2:     []float32{-0.1, -0.3, -0.7},
			expected: 2,
		},
		{
			name:     "zero vector",
			vec1:     []float32{0, 0, 0},
			vec2:     []float32{1, 2, 3},
			expected: 1,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p := NewCosineDistanceProvider()
			dist, err := p.New(test.vec1).Distance(test.vec2)
			require.Nil(t, err)
			control, err := p.SingleDist(test.vec1, test.vec2)
			require.Nil(t, err)
			withNorm, err := p.New(test.vec1).DistanceWithNorm(test.vec2, Norm(test.vec2))
			require.Nil(t, err)

			assert.Equal(t, control, dist)
			assert.Equal(t, dist, withNorm)
			assert.InDelta(t, test.expected, dist, 0.01)
		})
	}

	t.Run("length mismatch", func(t *testing.T) {
		_, err := NewCosineDistanceProvider().SingleDist([]float32{1}, []float32{1, 2})
		assert.NotNil(t, err)
	})
}

func TestProviderByName(t *testing.T) {
	for name, want := range map[string]string{
		"":           "cosine",
		"cosine":     "cosine",
		"dot":        "dot",
		"l2-squared": "l2-squared",
	} {
		p, err := ProviderByName(name)
		require.Nil(t, err)
		assert.Equal(t, want, p.Type())
	}

	_, err := ProviderByName("manhattan")
	assert.NotNil(t, err)
}
