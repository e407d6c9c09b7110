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
// Package distancer contains the distance metrics of the vector index. Every
// metric returns smaller values for closer vectors.
package distancer

import (
	"github.com/pkg/errors"
)

type Provider interface {
	New(vec []float32) Distancer
	SingleDist(vec1, vec2 []float32) (float32, error)
	Type() string
}

// Distancer measures the distance from one fixed vector, usually the query.
type Distancer interface {
	Distance(vec []float32) (float32, error)
	// DistanceWithNorm is Distance for a vector whose euclidean norm is
	// already known. Metrics that do not need the norm ignore it.
	DistanceWithNorm(vec []float32, norm float32) (float32, error)
}

// ProviderByName resolves the configuration name of a metric. The empty
// name selects cosine.
func ProviderByName(name string) (Provider, error) {
	switch name {
	case "", "cosine":
		return NewCosineDistanceProvider(), nil
	case "dot":
		return NewDotProductProvider(), nil
	case "l2-squared":
		return NewL2SquaredProvider(), nil
	default:
		return nil, errors.Errorf("unsupported distance metric %q", name)
	}
}

func checkLengths(a, b []float32) error {
	if len(a) != len(b) {
		return errors.Errorf("vector lengths don't match: %d vs %d",
			len(a), len(b))
	}
	return nil
}
