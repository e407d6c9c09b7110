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
	"bytes"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/weaviate/weavegraph/adapters/repos/db/helpers"
	"github.com/weaviate/weavegraph/adapters/repos/db/kv"
	"github.com/weaviate/weavegraph/adapters/repos/db/priorityqueue"
)

// Result is a scored document. Higher scores are better.
type Result struct {
	ID    uuid.UUID
	Score float32
}

// Search returns the k best scoring documents for query, best first. Equal
// scores are ordered by id. A query that tokenizes to nothing or an empty
// index yield no results.
func (b *BM25) Search(txn kv.Txn, query string, k int) ([]Result, error) {
	defer b.metrics.TrackSearch(time.Now())

	terms := b.Tokenize(query)
	if k <= 0 || len(terms) == 0 {
		return nil, nil
	}

	m, err := b.Metadata(txn)
	if err != nil {
		return nil, err
	}
	if m.TotalDocs == 0 {
		return nil, nil
	}

	scores := map[uuid.UUID]float64{}
	docLens := map[uuid.UUID]uint32{}
	for _, term := range terms {
		if err := b.scoreTerm(txn, term, m, scores, docLens); err != nil {
			return nil, errors.Wrapf(err, "score term %q", term)
		}
	}

	return topK(scores, k), nil
}

// scoreTerm adds the contribution of term to every document containing it.
// Terms repeated in the query contribute once per occurrence.
func (b *BM25) scoreTerm(txn kv.Txn, term string, m Metadata,
	scores map[uuid.UUID]float64, docLens map[uuid.UUID]uint32,
) error {
	df, err := b.docFrequency(txn, term)
	if err != nil || df == 0 {
		return err
	}

	c := txn.DupCursor(helpers.BM25InvertedSpace, []byte(term))
	defer c.Close()
	for {
		_, v, ok := c.Next()
		if !ok {
			break
		}
		id, tf, err := parsePostingValue(v)
		if err != nil {
			return err
		}
		docLen, ok := docLens[id]
		if !ok {
			docLen, err = b.docLength(txn, id)
			if err != nil {
				return err
			}
			docLens[id] = docLen
		}
		scores[id] += b.score(tf, docLen, df, m.TotalDocs, m.AvgDL)
	}
	return c.Err()
}

func (b *BM25) docLength(txn kv.Txn, id uuid.UUID) (uint32, error) {
	raw, err := txn.Get(helpers.BM25DocLengthsSpace, id[:])
	if errors.Is(err, kv.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return decodeUint32(raw, "length of document "+id.String())
}

// topK selects the k highest scores. Documents are numbered in id order so
// the queue's id tie break orders equal scores by document id.
func topK(scores map[uuid.UUID]float64, k int) []Result {
	ids := make([]uuid.UUID, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})

	q := priorityqueue.NewMax[struct{}](k)
	for i, id := range ids {
		q.InsertBounded(uint64(i), -float32(scores[id]), struct{}{}, k)
	}

	items := q.DrainReversed()
	out := make([]Result, len(items))
	for i, item := range items {
		out[i] = Result{ID: ids[item.ID], Score: -item.Dist}
	}
	return out
}
