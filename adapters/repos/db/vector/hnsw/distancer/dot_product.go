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

// DotProduct is the negative dot product shifted by one. It equals the cosine
// distance for normalized vectors.
type DotProduct struct {
	a []float32
}

func (d *DotProduct) Distance(b []float32) (float32, error) {
	if err := checkLengths(d.a, b); err != nil {
		return 0, err
	}
	return 1 - dot(d.a, b), nil
}

func (d *DotProduct) DistanceWithNorm(b []float32, _ float32) (float32, error) {
	return d.Distance(b)
}

type DotProductProvider struct{}

func NewDotProductProvider() DotProductProvider {
	return DotProductProvider{}
}

func (d DotProductProvider) SingleDist(a, b []float32) (float32, error) {
	if err := checkLengths(a, b); err != nil {
		return 0, err
	}
	return 1 - dot(a, b), nil
}

func (d DotProductProvider) Type() string {
	return "dot"
}

func (d DotProductProvider) New(a []float32) Distancer {
	return &DotProduct{a: a}
}
