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
	"os"
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

const disableRecoveryEnv = "WEAVEGRAPH_DISABLE_RECOVERY_ON_PANIC"

// GoWrapper starts f in its own goroutine. A panic in f is logged with its
// stack and swallowed unless WEAVEGRAPH_DISABLE_RECOVERY_ON_PANIC is "true".
func GoWrapper(f func(), logger logrus.FieldLogger) {
	go func() {
		defer recoverPanic(logger)
		f()
	}()
}

func recoverPanic(logger logrus.FieldLogger) {
	if os.Getenv(disableRecoveryEnv) == "true" {
		return
	}
	r := recover()
	if r == nil {
		return
	}
	logger.WithField("action", "goroutine_panic").
		WithField("stack", string(debug.Stack())).
		Errorf("recovered from panic: %v", r)
}
