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

// Package errorcompounder collects several errors and reports them as one.
// It is used where a whole input should be checked before failing, such as
// config validation or the per-worker results of a parallel scan.
package errorcompounder

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

type ErrorCompounder interface {
	Add(err error)
	Addf(format string, a ...any)
	AddWrapf(err error, format string, a ...any)
	// AddGroup files err under a named section, e.g. "vector" or "bm25".
	AddGroup(group string, err error)

	Empty() bool
	Len() int

	First() error
	ToError() error
}

func New() *ErrorCompounderImpl {
	return &ErrorCompounderImpl{}
}

type ErrorCompounderImpl struct {
	errs   []error
	groups map[string][]error
}

func (ec *ErrorCompounderImpl) Add(err error) {
	if err != nil {
		ec.errs = append(ec.errs, err)
	}
}

func (ec *ErrorCompounderImpl) Addf(format string, a ...any) {
	ec.errs = append(ec.errs, fmt.Errorf(format, a...))
}

func (ec *ErrorCompounderImpl) AddWrapf(err error, format string, a ...any) {
	if err != nil {
		ec.errs = append(ec.errs, errors.Wrapf(err, format, a...))
	}
}

func (ec *ErrorCompounderImpl) AddGroup(group string, err error) {
	if err == nil {
		return
	}
	if ec.groups == nil {
		ec.groups = map[string][]error{}
	}
	ec.groups[group] = append(ec.groups[group], err)
}

func (ec *ErrorCompounderImpl) Len() int {
	n := len(ec.errs)
	for _, g := range ec.groups {
		n += len(g)
	}
	return n
}

func (ec *ErrorCompounderImpl) Empty() bool {
	return ec.Len() == 0
}

func (ec *ErrorCompounderImpl) First() error {
	if len(ec.errs) > 0 {
		return ec.errs[0]
	}
	for _, name := range ec.groupNames() {
		return ec.groups[name][0]
	}
	return nil
}

// ToError renders all collected errors into a single error. Ungrouped errors
// come first, groups follow in name order so the message is stable.
func (ec *ErrorCompounderImpl) ToError() error {
	if ec.Empty() {
		return nil
	}

	var b strings.Builder
	writeList(&b, ec.errs)
	for _, name := range ec.groupNames() {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(name)
		b.WriteString(": {")
		writeList(&b, ec.groups[name])
		b.WriteString("}")
	}
	return errors.New(b.String())
}

func (ec *ErrorCompounderImpl) groupNames() []string {
	names := make([]string, 0, len(ec.groups))
	for name, errs := range ec.groups {
		if len(errs) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func writeList(b *strings.Builder, errs []error) {
	for i, err := range errs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(err.Error())
	}
}

// SafeErrorCompounder can be shared between goroutines.
type SafeErrorCompounder struct {
	sync.Mutex
	inner ErrorCompounderImpl
}

func NewSafe() *SafeErrorCompounder {
	return &SafeErrorCompounder{}
}

func (ec *SafeErrorCompounder) Add(err error) {
	ec.Lock()
	defer ec.Unlock()
	ec.inner.Add(err)
}

func (ec *SafeErrorCompounder) Addf(format string, a ...any) {
	ec.Lock()
	defer ec.Unlock()
	ec.inner.Addf(format, a...)
}

func (ec *SafeErrorCompounder) AddWrapf(err error, format string, a ...any) {
	ec.Lock()
	defer ec.Unlock()
	ec.inner.AddWrapf(err, format, a...)
}

func (ec *SafeErrorCompounder) AddGroup(group string, err error) {
	ec.Lock()
	defer ec.Unlock()
	ec.inner.AddGroup(group, err)
}

func (ec *SafeErrorCompounder) Empty() bool {
	ec.Lock()
	defer ec.Unlock()
	return ec.inner.Empty()
}

func (ec *SafeErrorCompounder) Len() int {
	ec.Lock()
	defer ec.Unlock()
	return ec.inner.Len()
}

func (ec *SafeErrorCompounder) First() error {
	ec.Lock()
	defer ec.Unlock()
	return ec.inner.First()
}

func (ec *SafeErrorCompounder) ToError() error {
	ec.Lock()
	defer ec.Unlock()
	return ec.inner.ToError()
}
