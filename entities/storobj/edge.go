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

type Edge struct {
	ID         uuid.UUID
	Label      string
	Version    uint8
	From       uuid.UUID
	To         uuid.UUID
	Properties values.Properties
}

func NewEdge(label string, from, to uuid.UUID, props values.Properties) *Edge {
	return &Edge{
		ID:         NewID(),
		Label:      label,
		Version:    DefaultVersion,
		From:       from,
		To:         to,
		Properties: props,
	}
}

func (e *Edge) MarshalBinary() ([]byte, error) {
	fixed := make([]byte, 32)
	copy(fixed, e.From[:])
	copy(fixed[16:], e.To[:])
	return marshalRecord(e.Label, e.Version, fixed, e.Properties)
}

func EdgeFromBinary(id uuid.UUID, data []byte, a *arena.Arena) (*Edge, error) {
	r := &bo.ByteOperations{Buffer: data}
	label, version, err := readHeader(r, id, a)
	if err != nil {
		return nil, err
	}
	ends, err := r.ReadBytesFromBuffer(32)
	if err != nil {
		return nil, NewErrCorruptedf(id, "endpoints: %v", err)
	}
	props, err := readProperties(r, id)
	if err != nil {
		return nil, err
	}

	e := &Edge{ID: id, Label: label, Version: version, Properties: props}
	copy(e.From[:], ends[:16])
	copy(e.To[:], ends[16:])
	return e, nil
}

func (e *Edge) Get(name string) (values.Value, bool) {
	switch name {
	case "from_node":
		return values.String(e.From.String()), true
	case "to_node":
		return values.String(e.To.String()), true
	}
	return lookup(name, e.ID, e.Label, e.Properties)
}

func (e *Edge) Clone() *Edge {
	out := *e
	out.Label = strings.Clone(e.Label)
	out.Properties = e.Properties.Clone()
	return &out
}
