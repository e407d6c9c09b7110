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
	"github.com/google/uuid"
)

// NewID returns a time ordered v7 id so that freshly inserted records sort
// after older ones in the key space. It falls back to a random v4 id if the
// clock source fails.
func NewID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// ParseID accepts the canonical textual form as well as the raw 16 bytes.
func ParseID(in []byte) (uuid.UUID, error) {
	if len(in) == 16 {
		return uuid.FromBytes(in)
	}
	return uuid.ParseBytes(in)
}
