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

package errors

import (
	"errors"
	"fmt"
)

// ErrTransient marks backend conditions that may clear up on retry, such as
// a file lock held by another process or a write conflict.
var ErrTransient = errors.New("transient backend error")

func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}

func NewTransient(msg string, cause error) error {
	return fmt.Errorf("%s: %w: %w", msg, ErrTransient, cause)
}
