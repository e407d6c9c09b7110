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
package inverted

import (
	"strings"

	"github.com/weaviate/weavegraph/entities/values"
)

// Document renders the text indexed for a node: every property as
// "key value " followed by the label.
func Document(label string, props values.Properties) string {
	var b strings.Builder
	b.Grow(len(props)*8 + len(label))
	for _, p := range props {
		b.WriteString(p.Key)
		b.WriteByte(' ')
		b.WriteString(p.Value.String())
		b.WriteByte(' ')
	}
	b.WriteString(label)
	return b.String()
}
