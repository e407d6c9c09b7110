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
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinTermLength is the shortest term the keyword index keeps. Shorter words
// are mostly stop words.
const MinTermLength = 3

// TokenizeTerms is the tokenization of the keyword index: words are
// lowercased and split on anything that is not a letter or number, terms
// shorter than MinTermLength runes are dropped.
func TokenizeTerms(in string) []string {
	terms := strings.FieldsFunc(in, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	kept := terms[:0]
	for _, term := range terms {
		if utf8.RuneCountInString(term) >= MinTermLength {
			kept = append(kept, strings.ToLower(term))
		}
	}
	return kept
}

// CountDuplicates returns every distinct term with its number of
// occurrences, sorted by term.
func CountDuplicates(terms []string) ([]string, []int) {
	counts := map[string]int{}
	for _, term := range terms {
		counts[term]++
	}

	unique := make([]string, 0, len(counts))
	for term := range counts {
		unique = append(unique, term)
	}
	sort.Strings(unique)

	freqs := make([]int, len(unique))
	for i, term := range unique {
		freqs[i] = counts[term]
	}
	return unique, freqs
}
