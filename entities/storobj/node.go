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
	"strings"

	"github.com/google/uuid"

	"github.com/weaviate/weavegraph/entities/arena"
	"github.com/weaviate/weavegraph/entities/values"
	bo "github.com/weaviate/weavegraph/usecases/byte_operations"
)

type Node struct {
	ID         uuid.UUID
	Label      string
	Version    uint8
	Properties values.Properties
}

func NewNode(label string, props values.Properties) *Node {
	return &Node{
		ID:         NewID(),
		Label:      label,
		Version:    DefaultVersion,
		Properties: props,
	}
}

// MarshalBinary encodes everything but the id, which is the storage key.
func (n *Node) MarshalBinary() ([]byte, error) {
	return marshalRecord(n.Label, n.Version, nil, n.Properties)
}

// NodeFromBinary decodes a node stored under id. Strings are placed in a when
// it is non-nil.
func NodeFromBinary(id uuid.UUID, data []byte, a *arena.Arena) (*Node, error) {
	r := &bo.ByteOperations{Buffer: data}
	label, version, err := readHeader(r, id, a)
	if err != nil {
		return nil, err
	}
	props, err := readProperties(r, id)
	if err != nil {
		return nil, err
	}
	return &Node{ID: id, Label: label, Version: version, Properties: props}, nil
}

// Get returns a stored property or one of the pseudo properties id and label.
func (n *Node) Get(name string) (values.Value, bool) {
	return lookup(name, n.ID, n.Label, n.Properties)
}

// Clone detaches the node from any arena it was decoded into.
func (n *Node) Clone() *Node {
	return &Node{
		ID:         n.ID,
		Label:      strings.Clone(n.Label),
		Version:    n.Version,
		Properties: n.Properties.Clone(),
	}
}
