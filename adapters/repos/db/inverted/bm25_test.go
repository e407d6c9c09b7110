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
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaviate/weavegraph/adapters/repos/db/helpers"
	"github.com/weaviate/weavegraph/adapters/repos/db/inverted/stopwords"
	"github.com/weaviate/weavegraph/adapters/repos/db/kv"
	"github.com/weaviate/weavegraph/adapters/repos/db/kv/boltkv"
	"github.com/weaviate/weavegraph/entities/values"
)

func newTestStore(t *testing.T) kv.Backend {
	logger, _ := test.NewNullLogger()
	s, err := boltkv.Open(boltkv.Options{
		Dir:             t.TempDir(),
		InitialMmapSize: 1 << 26,
		NoSync:          true,
	}, logger)
	require.Nil(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestBM25(t *testing.T, cfg Config) *BM25 {
	logger, _ := test.NewNullLogger()
	cfg.Logger = logger
	b, err := NewBM25(cfg)
	require.Nil(t, err)
	return b
}

func ids(n int) []uuid.UUID {
	out := make([]uuid.UUID, n)
	for i := range out {
		out[i] = uuid.UUID{15: byte(i + 1)}
	}
	return out
}

func insertDocs(t *testing.T, store kv.Backend, b *BM25, docs map[uuid.UUID]string) {
	require.Nil(t, kv.Update(store, func(txn kv.Txn) error {
		for id, doc := range docs {
			if err := b.InsertDoc(txn, id, doc); err != nil {
				return err
			}
		}
		return nil
	}))
}

func search(t *testing.T, store kv.Backend, b *BM25, query string, k int) []Result {
	var res []Result
	require.Nil(t, kv.View(store, func(txn kv.Txn) error {
		var err error
		res, err = b.Search(txn, query, k)
		return err
	}))
	return res
}

func TestConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var cfg Config
		cfg.SetDefaults()
		assert.Equal(t, DefaultK1, cfg.K1)
		assert.Equal(t, DefaultB, cfg.B)
		assert.Equal(t, stopwords.NoPreset, cfg.Stopwords)
		assert.Nil(t, cfg.Validate())
	})

	t.Run("invalid", func(t *testing.T) {
		cfg := Config{K1: -1, B: 2, Stopwords: "klingon"}
		err := cfg.Validate()
		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "k1")
		assert.Contains(t, err.Error(), "b must be within")
		assert.Contains(t, err.Error(), "klingon")
	})
}

func TestTokenize(t *testing.T) {
	plain := newTestBM25(t, Config{})
	assert.Equal(t, []string{"the", "quick", "brown", "fox", "fox"},
		plain.Tokenize("The quick brown fox, a Fox!"))

	english := newTestBM25(t, Config{Stopwords: stopwords.EnglishPreset})
	assert.Equal(t, []string{"quick", "brown", "fox", "fox"},
		english.Tokenize("The quick brown fox, a Fox!"))
}

func TestScoreSingleDocument(t *testing.T) {
	store := newTestStore(t)
	b := newTestBM25(t, Config{})
	id := ids(1)[0]
	insertDocs(t, store, b, map[uuid.UUID]string{id: "apple banana"})

	res := search(t, store, b, "apple", 10)
	require.Len(t, res, 1)
	assert.Equal(t, id, res[0].ID)
	// idf = ln((1-1+0.5)/(1+0.5)+1), the tf part is 1 at average length
	assert.InDelta(t, math.Log(4.0/3.0), float64(res[0].Score), 1e-6)
}

func TestSearchRanking(t *testing.T) {
	store := newTestStore(t)
	b := newTestBM25(t, Config{})
	id := ids(4)
	insertDocs(t, store, b, map[uuid.UUID]string{
		id[0]: "the quick brown fox jumps over the lazy dog",
		id[1]: "fox fox fox",
		id[2]: "a story about cats and their owners",
		id[3]: "brown bears eat fish",
	})

	t.Run("more occurrences in a shorter document rank higher", func(t *testing.T) {
		res := search(t, store, b, "fox", 10)
		require.Len(t, res, 2)
		assert.Equal(t, id[1], res[0].ID)
		assert.Equal(t, id[0], res[1].ID)
		assert.Greater(t, res[0].Score, res[1].Score)
	})

	t.Run("documents matching more terms rank higher", func(t *testing.T) {
		res := search(t, store, b, "brown lazy", 10)
		require.Len(t, res, 2)
		assert.Equal(t, id[0], res[0].ID)
	})

	t.Run("k bounds the results", func(t *testing.T) {
		res := search(t, store, b, "brown lazy", 1)
		require.Len(t, res, 1)
		assert.Equal(t, id[0], res[0].ID)
	})

	t.Run("unknown terms and short queries yield nothing", func(t *testing.T) {
		assert.Empty(t, search(t, store, b, "zebra", 10))
		assert.Empty(t, search(t, store, b, "a b", 10))
		assert.Empty(t, search(t, store, b, "fox", 0))
	})

	t.Run("metadata", func(t *testing.T) {
		require.Nil(t, kv.View(store, func(txn kv.Txn) error {
			m, err := b.Metadata(txn)
			require.Nil(t, err)
			assert.Equal(t, uint64(4), m.TotalDocs)
			// 9 + 3 + 6 + 4 terms of at least three runes
			assert.InDelta(t, 22.0/4.0, m.AvgDL, 1e-9)
			assert.Equal(t, DefaultK1, m.K1)
			return nil
		}))
	})
}

func TestEqualScoresOrderedByID(t *testing.T) {
	store := newTestStore(t)
	b := newTestBM25(t, Config{})
	id := ids(3)
	insertDocs(t, store, b, map[uuid.UUID]string{
		id[2]: "same words here",
		id[0]: "same words here",
		id[1]: "same words here",
	})

	res := search(t, store, b, "words", 2)
	require.Len(t, res, 2)
	assert.Equal(t, id[0], res[0].ID)
	assert.Equal(t, id[1], res[1].ID)
	assert.Equal(t, res[0].Score, res[1].Score)
}

func TestEmptyIndex(t *testing.T) {
	store := newTestStore(t)
	b := newTestBM25(t, Config{})
	assert.Empty(t, search(t, store, b, "anything", 5))

	require.Nil(t, kv.View(store, func(txn kv.Txn) error {
		m, err := b.Metadata(txn)
		require.Nil(t, err)
		assert.Equal(t, uint64(0), m.TotalDocs)
		assert.Equal(t, DefaultB, m.B)
		return nil
	}))
}

func TestDeleteAndUpdate(t *testing.T) {
	store := newTestStore(t)
	b := newTestBM25(t, Config{})
	id := ids(2)
	insertDocs(t, store, b, map[uuid.UUID]string{
		id[0]: "graph database engine",
		id[1]: "vector database",
	})

	require.Nil(t, kv.Update(store, func(txn kv.Txn) error {
		return b.DeleteDoc(txn, id[0])
	}))

	assert.Empty(t, search(t, store, b, "graph", 10))
	res := search(t, store, b, "database", 10)
	require.Len(t, res, 1)
	assert.Equal(t, id[1], res[0].ID)

	require.Nil(t, kv.View(store, func(txn kv.Txn) error {
		_, err := txn.Get(helpers.BM25TermFreqsSpace, []byte("graph"))
		assert.ErrorIs(t, err, kv.ErrNotFound)
		_, err = txn.Get(helpers.BM25DocLengthsSpace, id[0][:])
		assert.ErrorIs(t, err, kv.ErrNotFound)
		_, err = txn.Get(helpers.BM25DocTermsSpace, id[0][:])
		assert.ErrorIs(t, err, kv.ErrNotFound)

		m, err := b.Metadata(txn)
		require.Nil(t, err)
		assert.Equal(t, uint64(1), m.TotalDocs)
		assert.InDelta(t, 2.0, m.AvgDL, 1e-9)
		return nil
	}))

	t.Run("deleting an unknown document is a no-op", func(t *testing.T) {
		require.Nil(t, kv.Update(store, func(txn kv.Txn) error {
			return b.DeleteDoc(txn, uuid.New())
		}))
	})

	t.Run("update replaces the terms", func(t *testing.T) {
		require.Nil(t, kv.Update(store, func(txn kv.Txn) error {
			return b.UpdateDoc(txn, id[1], "keyword search")
		}))
		assert.Empty(t, search(t, store, b, "vector", 10))
		res := search(t, store, b, "keyword", 10)
		require.Len(t, res, 1)
		assert.Equal(t, id[1], res[0].ID)
	})

	t.Run("inserting an existing id replaces it", func(t *testing.T) {
		insertDocs(t, store, b, map[uuid.UUID]string{id[1]: "something else entirely"})
		assert.Empty(t, search(t, store, b, "keyword", 10))
		require.Nil(t, kv.View(store, func(txn kv.Txn) error {
			m, err := b.Metadata(txn)
			require.Nil(t, err)
			assert.Equal(t, uint64(1), m.TotalDocs)
			assert.InDelta(t, 3.0, m.AvgDL, 1e-9)
			return nil
		}))
	})

	t.Run("deleting the last document resets the statistics", func(t *testing.T) {
		require.Nil(t, kv.Update(store, func(txn kv.Txn) error {
			return b.DeleteDoc(txn, id[1])
		}))
		require.Nil(t, kv.View(store, func(txn kv.Txn) error {
			m, err := b.Metadata(txn)
			require.Nil(t, err)
			assert.Equal(t, uint64(0), m.TotalDocs)
			assert.Equal(t, 0.0, m.AvgDL)
			return nil
		}))
	})
}

func TestWritesNeedWritableTxn(t *testing.T) {
	store := newTestStore(t)
	b := newTestBM25(t, Config{})
	require.Nil(t, kv.View(store, func(txn kv.Txn) error {
		assert.ErrorIs(t, b.InsertDoc(txn, uuid.New(), "text"), kv.ErrTxNotWritable)
		assert.ErrorIs(t, b.DeleteDoc(txn, uuid.New()), kv.ErrTxNotWritable)
		return nil
	}))
}

func TestDocument(t *testing.T) {
	doc := Document("User", values.Of("name", "Ada", "age", 36))
	assert.Equal(t, "name Ada age 36 User", doc)
}
