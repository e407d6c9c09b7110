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

import "math"

// CosineDistance is 1 minus the cosine similarity, so it ranges from 0 for
// vectors pointing the same way to 2 for opposite ones. Vectors do not need
// to be normalized.
type CosineDistance struct {
	a     []float32
	aNorm float32
}

func (d *CosineDistance) Distance(b []float32) (float32, error) {
	return d.DistanceWithNorm(b, Norm(b))
}

func (d *CosineDistance) DistanceWithNorm(b []float32, bNorm float32) (float32, error) {
	if err := checkLengths(d.a, b); err != nil {
		return 0, err
	}
	return cosine(dot(d.a, b), d.aNorm, bNorm), nil
}

type CosineDistanceProvider struct{}

func NewCosineDistanceProvider() CosineDistanceProvider {
	return CosineDistanceProvider{}
}

func (p CosineDistanceProvider) SingleDist(a, b []float32) (float32, error) {
	if err := checkLengths(a, b); err != nil {
		return 0, err
	}
	return cosine(dot(a, b), Norm(a), Norm(b)), nil
}

func (p CosineDistanceProvider) Type() string {
	return "cosine"
}

func (p CosineDistanceProvider) New(a []float32) Distancer {
	return &CosineDistance{a: a, aNorm: Norm(a)}
}

// cosine treats a zero vector as orthogonal to everything.
func cosine(dot, aNorm, bNorm float32) float32 {
	if aNorm == 0 || bNorm == 0 {
		return 1
	}
	sim := dot / (aNorm * bNorm)
	// rounding can push the similarity of parallel vectors past 1
	if sim > 1 {
		sim = 1
	} else if sim < -1 {
		sim = -1
	}
	return 1 - sim
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// Norm is the euclidean length of v.
func Norm(v []float32) float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return float32(math.Sqrt(sum))
}
