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
package storage

import (
	"github.com/pkg/errors"

	"github.com/weaviate/weavegraph/entities/storobj"
)

var (
	// ErrLabelNotFound is returned for secondary index names that are not
	// registered.
	ErrLabelNotFound = errors.New("secondary index not found")
	// ErrConversion matches every record that failed to decode.
	ErrConversion = storobj.ErrCorruptedRecord

	// The next two should be unreachable. They signal a corrupted store.
	ErrMultipleNodesWithSameID = errors.New("multiple nodes with the same id")
	ErrMultipleEdgesWithSameID = errors.New("multiple edges with the same id")

	ErrUniqueViolation = errors.New("unique secondary index violation")
	ErrIndexExists     = errors.New("secondary index already exists")
	ErrBM25Disabled    = errors.New("bm25 is not enabled")
	ErrSchemaVersion   = errors.New("unsupported schema version")
)
