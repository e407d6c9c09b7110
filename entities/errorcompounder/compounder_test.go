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

package errorcompounder

import (
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCompounder(t *testing.T) {
	t.Run("empty compounder returns nil", func(t *testing.T) {
		ec := New()
		ec.Add(nil)
		ec.AddWrapf(nil, "ignored")
		ec.AddGroup("vector", nil)

		assert.True(t, ec.Empty())
		assert.Nil(t, ec.First())
		assert.Nil(t, ec.ToError())
	})

	t.Run("ungrouped errors keep insertion order", func(t *testing.T) {
		ec := New()
		ec.Add(errors.New("first"))
		ec.Addf("second %d", 2)
		ec.AddWrapf(errors.New("cause"), "third")

		require.Equal(t, 3, ec.Len())
		assert.EqualError(t, ec.First(), "first")
		assert.EqualError(t, ec.ToError(), "first, second 2, third: cause")
	})

	t.Run("groups render sorted after ungrouped errors", func(t *testing.T) {
		ec := New()
		ec.AddGroup("vector", errors.New("m too small"))
		ec.AddGroup("bm25", errors.New("k1 negative"))
		ec.Add(errors.New("path missing"))

		assert.Equal(t, 3, ec.Len())
		assert.EqualError(t, ec.ToError(),
			"path missing, bm25: {k1 negative}, vector: {m too small}")
	})

	t.Run("first falls back to groups", func(t *testing.T) {
		ec := New()
		ec.AddGroup("vector", errors.New("bad ef"))
		assert.EqualError(t, ec.First(), "bad ef")
	})
}

func TestSafeErrorCompounder(t *testing.T) {
	ec := NewSafe()
	wg := sync.WaitGroup{}
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ec.Addf("worker %d", i)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, ec.Len())
	assert.NotNil(t, ec.ToError())
}
