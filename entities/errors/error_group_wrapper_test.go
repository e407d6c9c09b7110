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
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorGroupWrapper(t *testing.T) {
	logger, hook := test.NewNullLogger()

	t.Run("collects the first error", func(t *testing.T) {
		eg := NewErrorGroupWrapper(logger)
		var ran atomic.Int32
		for i := 0; i < 4; i++ {
			i := i
			eg.Go(func() error {
				ran.Add(1)
				if i == 2 {
					return errors.New("worker failed")
				}
				return nil
			})
		}
		err := eg.Wait()
		require.NotNil(t, err)
		assert.Equal(t, "worker failed", err.Error())
		assert.Equal(t, int32(4), ran.Load())
	})

	t.Run("recovers panics", func(t *testing.T) {
		hook.Reset()
		eg := NewErrorGroupWrapper(logger, "input")
		eg.Go(func() error {
			panic("boom")
		}, "local")

		err := eg.Wait()
		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "boom")
		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, "error_group_panic", hook.LastEntry().Data["action"])
	})
}

func TestTransient(t *testing.T) {
	cause := errors.New("timeout")
	err := NewTransient("open store", cause)

	assert.True(t, IsTransient(err))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, IsTransient(cause))
}
