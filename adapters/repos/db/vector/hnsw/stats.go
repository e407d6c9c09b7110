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
package hnsw

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/weaviate/weavegraph/adapters/repos/db/helpers"
	"github.com/weaviate/weavegraph/adapters/repos/db/kv"
)

type LayerStats struct {
	Layer        int     `json:"layer"`
	Nodes        int     `json:"nodes"`
	MeanDegree   float64 `json:"meanDegree"`
	StdDevDegree float64 `json:"stdDevDegree"`
	MaxDegree    int     `json:"maxDegree"`
}

type Stats struct {
	Dimensions     int               `json:"dimensions"`
	Vectors        uint64            `json:"vectors"`
	Deleted        uint64            `json:"deleted"`
	Tombstones     uint64            `json:"tombstones"`
	TombstoneRatio float64           `json:"tombstoneRatio"`
	HasEntryPoint  bool              `json:"hasEntryPoint"`
	EntryPoint     uint64            `json:"entryPoint"`
	EntryLevel     int               `json:"entryLevel"`
	Labels         map[string]uint64 `json:"labels"`
	Layers         []LayerStats      `json:"layers"`
}

// Stats walks all link lists and reports the degree distribution per layer.
func (h *Index) Stats(txn kv.Txn) (*Stats, error) {
	m, err := loadMeta(txn)
	if err != nil {
		return nil, err
	}

	degrees := map[int][]float64{}
	c := txn.Cursor(helpers.HNSWLinksSpace, nil)
	defer c.Close()
	for k, v, ok := c.Next(); ok; k, v, ok = c.Next() {
		if len(k) != 9 {
			continue
		}
		layer := int(k[8])
		degrees[layer] = append(degrees[layer], float64(len(v)/8))
	}
	if err := c.Err(); err != nil {
		return nil, err
	}

	s := &Stats{
		Dimensions:     m.Dimensions,
		Vectors:        m.Vectors,
		Deleted:        m.Deleted,
		Tombstones:     m.Tombstones,
		TombstoneRatio: m.tombstoneRatio(),
		HasEntryPoint:  m.HasEntryPoint,
		EntryPoint:     m.EntryPoint,
		EntryLevel:     m.EntryLevel,
		Labels:         m.Labels,
	}
	for layer, d := range degrees {
		ls := LayerStats{Layer: layer, Nodes: len(d)}
		if len(d) > 1 {
			ls.MeanDegree, ls.StdDevDegree = stat.MeanStdDev(d, nil)
		} else {
			ls.MeanDegree = d[0]
		}
		for _, x := range d {
			if int(x) > ls.MaxDegree {
				ls.MaxDegree = int(x)
			}
		}
		s.Layers = append(s.Layers, ls)
	}
	sort.Slice(s.Layers, func(i, j int) bool {
		return s.Layers[i].Layer < s.Layers[j].Layer
	})
	return s, nil
}
