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
package helpers

import (
	"github.com/weaviate/sroar"
)

// AllowList restricts a search to a set of doc ids. A deny list holds the
// excluded ids instead, which keeps tombstone sets small when most of the
// index is live.
type AllowList struct {
	Bm         *sroar.Bitmap
	isDenyList bool
}

func NewAllowList(ids ...uint64) *AllowList {
	bm := sroar.NewBitmap()
	bm.SetMany(ids)
	return &AllowList{Bm: bm}
}

func NewDenyList(ids ...uint64) *AllowList {
	al := NewAllowList(ids...)
	al.isDenyList = true
	return al
}

func NewAllowListFromBitmap(bm *sroar.Bitmap, isDenyList bool) *AllowList {
	return &AllowList{Bm: bm, isDenyList: isDenyList}
}

// Insert admits ids. On a deny list that means removing them.
func (al *AllowList) Insert(ids ...uint64) {
	if al.isDenyList {
		for _, id := range ids {
			al.Bm.Remove(id)
		}
		return
	}
	al.Bm.SetMany(ids)
}

// Exclude is the inverse of Insert.
func (al *AllowList) Exclude(ids ...uint64) {
	if al.isDenyList {
		al.Bm.SetMany(ids)
		return
	}
	for _, id := range ids {
		al.Bm.Remove(id)
	}
}

// Contains is true for allowed ids. A nil list allows everything.
func (al *AllowList) Contains(id uint64) bool {
	if al == nil {
		return true
	}
	return al.Bm.Contains(id) != al.isDenyList
}

func (al *AllowList) IsDenyList() bool {
	return al.isDenyList
}

// Cardinality is the number of ids held in the bitmap, allowed or denied.
func (al *AllowList) Cardinality() int {
	return al.Bm.GetCardinality()
}

// Slice returns the ids held in the bitmap in ascending order.
func (al *AllowList) Slice() []uint64 {
	return al.Bm.ToArray()
}

func (al *AllowList) DeepCopy() *AllowList {
	return &AllowList{Bm: al.Bm.Clone(), isDenyList: al.isDenyList}
}

// And narrows al to the ids also allowed by other. Both must be allow lists.
func (al *AllowList) And(other *AllowList) *AllowList {
	bm := al.Bm.Clone()
	bm.And(other.Bm)
	return &AllowList{Bm: bm}
}
