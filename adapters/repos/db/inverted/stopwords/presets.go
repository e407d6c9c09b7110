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
// Package stopwords holds the word lists the keyword index can drop before
// indexing and searching.
package stopwords

import "github.com/pkg/errors"

const (
	EnglishPreset = "en"
	NoPreset      = "none"
)

var Presets = map[string][]string{
	EnglishPreset: {
		"a", "an", "and", "are", "as", "at", "be", "but", "by", "for",
		"if", "in", "into", "is", "it", "no", "not", "of", "on", "or", "such", "that",
		"the", "their", "then", "there", "these", "they", "this", "to", "was", "will",
		"with",
	},
	NoPreset: {},
}

// Detector reports whether a lowercased term is a stop word.
type Detector struct {
	words map[string]struct{}
}

// NewDetectorFromPreset builds a detector from a named preset. The empty
// name selects NoPreset.
func NewDetectorFromPreset(preset string) (*Detector, error) {
	if preset == "" {
		preset = NoPreset
	}
	list, ok := Presets[preset]
	if !ok {
		return nil, errors.Errorf("unknown stopword preset %q", preset)
	}
	d := &Detector{words: make(map[string]struct{}, len(list))}
	for _, w := range list {
		d.words[w] = struct{}{}
	}
	return d, nil
}

func (d *Detector) IsStopword(term string) bool {
	if d == nil {
		return false
	}
	_, ok := d.words[term]
	return ok
}

// Filter removes stop words from terms in place.
func (d *Detector) Filter(terms []string) []string {
	if d == nil || len(d.words) == 0 {
		return terms
	}
	kept := terms[:0]
	for _, t := range terms {
		if !d.IsStopword(t) {
			kept = append(kept, t)
		}
	}
	return kept
}
