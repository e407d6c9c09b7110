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
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDotProductMatchesCosineOnUnitVectors(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		vec1 := make([]float32, 64)
		vec2 := make([]float32, 64)
		for j := range vec1 {
			vec1[j] = r.Float32()*2 - 1
			vec2[j] = r.Float32()*2 - 1
		}
		vec1, vec2 = Normalize(vec1), Normalize(vec2)

		dotDist, err := NewDotProductProvider().SingleDist(vec1, vec2)
		require.Nil(t, err)
		cosDist, err := NewCosineDistanceProvider().SingleDist(vec1, vec2)
		require.Nil(t, err)
		assert.InDelta(t, cosDist, dotDist, 0.0001)
	}
}

func TestL2Squared(t *testing.T) {
	d, err := NewL2SquaredProvider().New([]float32{1, 2}).Distance([]float32{4, 6})
	require.Nil(t, err)
	assert.Equal(t, float32(25), d)

	_, err = NewL2SquaredProvider().SingleDist([]float32{1}, nil)
	assert.NotNil(t, err)
}
