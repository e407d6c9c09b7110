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
// Package inverted is the BM25 keyword index. Documents are keyed by the id
// of the node they belong to and every write happens inside the
// transaction of the node write that caused it.
package inverted

import (
	"encoding/binary"
	"math"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/weaviate/weavegraph/adapters/repos/db/helpers"
	"github.com/weaviate/weavegraph/adapters/repos/db/inverted/stopwords"
	"github.com/weaviate/weavegraph/adapters/repos/db/kv"
	"github.com/weaviate/weavegraph/entities/errorcompounder"
	"github.com/weaviate/weavegraph/usecases/monitoring"
)

const (
	DefaultK1 = 1.2
	DefaultB  = 0.75
)

var metadataKey = []byte("metadata")

type Config struct {
	K1 float64
	B  float64
	// Stopwords names a preset of words that are neither indexed nor
	// searched. Empty means none.
	Stopwords string

	Logger            logrus.FieldLogger
	PrometheusMetrics *monitoring.PrometheusMetrics
}

func (c *Config) SetDefaults() {
	if c.K1 == 0 {
		c.K1 = DefaultK1
	}
	if c.B == 0 {
		c.B = DefaultB
	}
	if c.Stopwords == "" {
		c.Stopwords = stopwords.NoPreset
	}
	if c.Logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		c.Logger = l
	}
}

func (c Config) Validate() error {
	ec := errorcompounder.New()
	if c.K1 < 0 {
		ec.Addf("k1 must not be negative, got %v", c.K1)
	}
	if c.B < 0 || c.B > 1 {
		ec.Addf("b must be within [0, 1], got %v", c.B)
	}
	if _, ok := stopwords.Presets[c.Stopwords]; !ok {
		ec.Addf("unknown stopword preset %q", c.Stopwords)
	}
	return ec.ToError()
}

// Metadata holds the collection statistics BM25 normalizes with.
type Metadata struct {
	TotalDocs uint64  `msgpack:"total_docs" json:"totalDocs"`
	AvgDL     float64 `msgpack:"avgdl" json:"avgdl"`
	K1        float64 `msgpack:"k1" json:"k1"`
	B         float64 `msgpack:"b" json:"b"`
}

// posting is one term of a document as remembered for its deletion.
type posting struct {
	Term string `msgpack:"t"`
	TF   uint32 `msgpack:"f"`
}

type BM25 struct {
	config    Config
	logger    logrus.FieldLogger
	metrics   *Metrics
	stopwords *stopwords.Detector
}

func NewBM25(cfg Config) (*BM25, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid bm25 config")
	}
	sw, err := stopwords.NewDetectorFromPreset(cfg.Stopwords)
	if err != nil {
		return nil, err
	}
	return &BM25{
		config:    cfg,
		logger:    cfg.Logger.WithField("component", "bm25"),
		metrics:   NewMetrics(cfg.PrometheusMetrics),
		stopwords: sw,
	}, nil
}

func (b *BM25) Config() Config {
	return b.config
}

// Tokenize lowercases text, splits it on everything that is not a letter or
// a number and drops short terms and stop words.
func (b *BM25) Tokenize(text string) []string {
	return b.stopwords.Filter(helpers.TokenizeTerms(text))
}

// Metadata returns the collection statistics. An index without documents
// returns zero statistics with the configured parameters.
func (b *BM25) Metadata(txn kv.Txn) (Metadata, error) {
	raw, err := txn.Get(helpers.BM25MetadataSpace, metadataKey)
	if errors.Is(err, kv.ErrNotFound) {
		return Metadata{K1: b.config.K1, B: b.config.B}, nil
	}
	if err != nil {
		return Metadata{}, errors.Wrap(err, "read bm25 metadata")
	}
	var m Metadata
	if err := msgpack.Unmarshal(raw, &m); err != nil {
		return Metadata{}, errors.Wrap(err, "decode bm25 metadata")
	}
	return m, nil
}

func (b *BM25) putMetadata(txn kv.Txn, m Metadata) error {
	raw, err := msgpack.Marshal(&m)
	if err != nil {
		return errors.Wrap(err, "encode bm25 metadata")
	}
	return errors.Wrap(txn.Put(helpers.BM25MetadataSpace, metadataKey, raw),
		"write bm25 metadata")
}

// score is the contribution of one term to one document.
func (b *BM25) score(tf, docLen, df uint32, totalDocs uint64, avgdl float64) float64 {
	n := float64(max(totalDocs, 1))
	d := float64(max(df, 1))
	idf := math.Log((n-d+0.5)/(d+0.5) + 1)

	if avgdl <= 0 {
		avgdl = float64(docLen)
	}
	if avgdl <= 0 {
		avgdl = 1
	}
	k1, bb := b.config.K1, b.config.B
	f := float64(tf)
	return idf * (f * (k1 + 1)) / (f + k1*(1-bb+bb*float64(docLen)/avgdl))
}

func encodeUint32(v uint32) []byte {
	out := make([]byte, 4)
	binary.BigEndian.PutUint32(out, v)
	return out
}

func decodeUint32(raw []byte, what string) (uint32, error) {
	if len(raw) != 4 {
		return 0, errors.Errorf("%s has %d bytes, want 4", what, len(raw))
	}
	return binary.BigEndian.Uint32(raw), nil
}

// postingValue is the value stored for a document under a term.
func postingValue(id uuid.UUID, tf uint32) []byte {
	out := make([]byte, 20)
	copy(out, id[:])
	binary.BigEndian.PutUint32(out[16:], tf)
	return out
}

func parsePostingValue(raw []byte) (uuid.UUID, uint32, error) {
	if len(raw) != 20 {
		return uuid.Nil, 0, errors.Errorf("posting has %d bytes, want 20", len(raw))
	}
	id, _ := uuid.FromBytes(raw[:16])
	return id, binary.BigEndian.Uint32(raw[16:]), nil
}
