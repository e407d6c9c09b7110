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
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoWrapper(t *testing.T) {
	t.Run("runs the function", func(t *testing.T) {
		logger, _ := test.NewNullLogger()
		done := make(chan struct{})
		GoWrapper(func() { close(done) }, logger)

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("function did not run")
		}
	})

	t.Run("logs a recovered panic", func(t *testing.T) {
		t.Setenv(disableRecoveryEnv, "false")
		logger, hook := test.NewNullLogger()
		GoWrapper(func() { panic("boom") }, logger)

		require.Eventually(t, func() bool {
			return hook.LastEntry() != nil
		}, 5*time.Second, 10*time.Millisecond)

		entry := hook.LastEntry()
		assert.Equal(t, logrus.ErrorLevel, entry.Level)
		assert.Equal(t, "goroutine_panic", entry.Data["action"])
		assert.Contains(t, entry.Message, "boom")
	})
}
