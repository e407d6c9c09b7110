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
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/weaviate/weavegraph/adapters/repos/db/helpers"
	"github.com/weaviate/weavegraph/adapters/repos/db/kv"
)

// InsertDoc indexes doc under id. A document already stored under id is
// replaced.
func (b *BM25) InsertDoc(txn kv.Txn, id uuid.UUID, doc string) error {
	if !txn.Writable() {
		return kv.ErrTxNotWritable
	}
	exists, err := b.hasDoc(txn, id)
	if err != nil {
		return err
	}
	if exists {
		if err := b.deleteDoc(txn, id); err != nil {
			return errors.Wrapf(err, "replace bm25 document %s", id)
		}
	}
	if err := b.insertDoc(txn, id, doc); err != nil {
		return errors.Wrapf(err, "index bm25 document %s", id)
	}
	b.metrics.Insert()
	return nil
}

// DeleteDoc removes the document stored under id. Unknown ids are ignored.
func (b *BM25) DeleteDoc(txn kv.Txn, id uuid.UUID) error {
	if !txn.Writable() {
		return kv.ErrTxNotWritable
	}
	exists, err := b.hasDoc(txn, id)
	if err != nil || !exists {
		return err
	}
	if err := b.deleteDoc(txn, id); err != nil {
		return errors.Wrapf(err, "delete bm25 document %s", id)
	}
	b.metrics.Delete()
	return nil
}

// UpdateDoc replaces the document stored under id.
func (b *BM25) UpdateDoc(txn kv.Txn, id uuid.UUID, doc string) error {
	if err := b.DeleteDoc(txn, id); err != nil {
		return err
	}
	return b.InsertDoc(txn, id, doc)
}

func (b *BM25) hasDoc(txn kv.Txn, id uuid.UUID) (bool, error) {
	_, err := txn.Get(helpers.BM25DocLengthsSpace, id[:])
	if errors.Is(err, kv.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "read bm25 document length %s", id)
	}
	return true, nil
}

func (b *BM25) insertDoc(txn kv.Txn, id uuid.UUID, doc string) error {
	tokens := b.Tokenize(doc)
	terms, counts := helpers.CountDuplicates(tokens)
	docLen := uint32(len(tokens))

	if err := txn.Put(helpers.BM25DocLengthsSpace, id[:], encodeUint32(docLen)); err != nil {
		return err
	}

	postings := make([]posting, len(terms))
	for i, term := range terms {
		tf := uint32(counts[i])
		postings[i] = posting{Term: term, TF: tf}

		if err := txn.PutDup(helpers.BM25InvertedSpace, []byte(term),
			postingValue(id, tf)); err != nil {
			return err
		}
		df, err := b.docFrequency(txn, term)
		if err != nil {
			return err
		}
		if err := txn.Put(helpers.BM25TermFreqsSpace, []byte(term),
			encodeUint32(df+1)); err != nil {
			return err
		}
	}

	rawTerms, err := msgpack.Marshal(postings)
	if err != nil {
		return errors.Wrap(err, "encode document terms")
	}
	if err := txn.Put(helpers.BM25DocTermsSpace, id[:], rawTerms); err != nil {
		return err
	}

	m, err := b.Metadata(txn)
	if err != nil {
		return err
	}
	m.AvgDL = (m.AvgDL*float64(m.TotalDocs) + float64(docLen)) / float64(m.TotalDocs+1)
	m.TotalDocs++
	m.K1, m.B = b.config.K1, b.config.B
	return b.putMetadata(txn, m)
}

func (b *BM25) deleteDoc(txn kv.Txn, id uuid.UUID) error {
	rawTerms, err := txn.Get(helpers.BM25DocTermsSpace, id[:])
	if err != nil && !errors.Is(err, kv.ErrNotFound) {
		return err
	}
	var postings []posting
	if err == nil {
		if err := msgpack.Unmarshal(rawTerms, &postings); err != nil {
			return errors.Wrap(err, "decode document terms")
		}
	}

	for _, p := range postings {
		if err := txn.DeleteDup(helpers.BM25InvertedSpace, []byte(p.Term),
			postingValue(id, p.TF)); err != nil {
			return err
		}
		df, err := b.docFrequency(txn, p.Term)
		if err != nil {
			return err
		}
		if df <= 1 {
			err = txn.Delete(helpers.BM25TermFreqsSpace, []byte(p.Term))
		} else {
			err = txn.Put(helpers.BM25TermFreqsSpace, []byte(p.Term), encodeUint32(df-1))
		}
		if err != nil {
			return err
		}
	}

	rawLen, err := txn.Get(helpers.BM25DocLengthsSpace, id[:])
	if err != nil {
		return err
	}
	docLen, err := decodeUint32(rawLen, "document length")
	if err != nil {
		return err
	}
	if err := txn.Delete(helpers.BM25DocLengthsSpace, id[:]); err != nil {
		return err
	}
	if err := txn.Delete(helpers.BM25DocTermsSpace, id[:]); err != nil {
		return err
	}

	m, err := b.Metadata(txn)
	if err != nil {
		return err
	}
	if m.TotalDocs == 0 {
		return nil
	}
	if m.TotalDocs > 1 {
		m.AvgDL = (m.AvgDL*float64(m.TotalDocs) - float64(docLen)) / float64(m.TotalDocs-1)
	} else {
		m.AvgDL = 0
	}
	m.TotalDocs--
	return b.putMetadata(txn, m)
}

func (b *BM25) docFrequency(txn kv.Txn, term string) (uint32, error) {
	raw, err := txn.Get(helpers.BM25TermFreqsSpace, []byte(term))
	if errors.Is(err, kv.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return decodeUint32(raw, "document frequency of "+term)
}
