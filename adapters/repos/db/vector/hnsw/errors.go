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
package hnsw

import "github.com/pkg/errors"

var (
	ErrEntryPointNotFound   = errors.New("hnsw index is empty, no entry point")
	ErrInvalidVectorLength  = errors.New("vector length does not match index dimensions")
	ErrInvalidVectorData    = errors.New("vector is empty or contains NaN or Inf")
	ErrVectorAlreadyDeleted = errors.New("vector already deleted")
)
