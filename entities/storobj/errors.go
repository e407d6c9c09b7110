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

package storobj

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNodeNotFound   = errors.New("node not found")
	ErrEdgeNotFound   = errors.New("edge not found")
	ErrVectorNotFound = errors.New("vector not found")

	// ErrCorruptedRecord matches every ErrCorrupted through errors.Is.
	ErrCorruptedRecord = errors.New("corrupted record")
)

// ErrNotFound carries the id that could not be resolved. It unwraps to one
// of the ErrXNotFound sentinels.
type ErrNotFound struct {
	ID   string
	Kind error
}

func NewErrNotFound(kind error, id fmt.Stringer) error {
	return ErrNotFound{ID: id.String(), Kind: kind}
}

func (err ErrNotFound) Error() string {
	return fmt.Sprintf("%v: %s", err.Kind, err.ID)
}

func (err ErrNotFound) Unwrap() error {
	return err.Kind
}

// ErrCorrupted reports a record whose bytes do not match the expected
// layout. Only the record named by Key is affected.
type ErrCorrupted struct {
	Key    string
	Reason string
}

func NewErrCorruptedf(key fmt.Stringer, format string, args ...interface{}) error {
	return ErrCorrupted{Key: key.String(), Reason: fmt.Sprintf(format, args...)}
}

func (err ErrCorrupted) Error() string {
	return fmt.Sprintf("corrupted record %s: %s", err.Key, err.Reason)
}

func (err ErrCorrupted) Is(target error) bool {
	return target == ErrCorruptedRecord
}
