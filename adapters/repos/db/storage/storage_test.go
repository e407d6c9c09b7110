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
package storage

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weaviate/weavegraph/adapters/repos/db/helpers"
	"github.com/weaviate/weavegraph/adapters/repos/db/kv"
	"github.com/weaviate/weavegraph/entities/storobj"
	"github.com/weaviate/weavegraph/entities/values"
)

func TestConfigValidation(t *testing.T) {
	cfg := Config{Backend: "leveldb", MaxSizeGB: -1, SecondaryIndexes: []IndexConfig{
		{Name: "email"}, {Name: "email"}, {},
	}}
	cfg.SetDefaults()
	err := cfg.Validate()
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), `unknown backend "leveldb"`)
	assert.Contains(t, err.Error(), "maxSizeGB")
	assert.Contains(t, err.Error(), `"email" declared twice`)
	assert.Contains(t, err.Error(), "without a name")

	cfg = Config{Backend: kv.KindBolt}
	cfg.SetDefaults()
	assert.Equal(t, DefaultMaxSizeGB, cfg.MaxSizeGB)
	assert.Equal(t, DefaultMaxSpaces, cfg.MaxSpaces)
	assert.ErrorContains(t, cfg.Validate(), "path is required")
}

func TestNodes(t *testing.T) {
	forEachBackend(t, func(t *testing.T, cfg Config) {
		s := openTestStorage(t, cfg)

		var node *storobj.Node
		update(t, s, func(txn kv.Txn) error {
			var err error
			node, err = s.AddNode(txn, "User", values.Of("name", "Ada", "age", 36), nil)
			return err
		})

		view(t, s, func(txn kv.Txn) error {
			got, err := s.GetNode(txn, nil, node.ID)
			require.Nil(t, err)
			assert.Equal(t, node.Label, got.Label)
			assert.True(t, values.PropertiesEqual(node.Properties, got.Properties))

			_, err = s.GetNode(txn, nil, uuid.New())
			assert.ErrorIs(t, err, storobj.ErrNodeNotFound)
			return nil
		})

		t.Run("update merges properties", func(t *testing.T) {
			update(t, s, func(txn kv.Txn) error {
				updated, err := s.UpdateNode(txn, node.ID, values.Of("age", 37, "city", "London"))
				require.Nil(t, err)
				age, _ := updated.Get("age")
				assert.True(t, values.Equal(values.Int(37), age))
				return nil
			})
			view(t, s, func(txn kv.Txn) error {
				got, err := s.GetNode(txn, nil, node.ID)
				require.Nil(t, err)
				name, _ := got.Get("name")
				city, _ := got.Get("city")
				assert.True(t, values.Equal(values.String("Ada"), name))
				assert.True(t, values.Equal(values.String("London"), city))
				return nil
			})
		})

		t.Run("ids are unique", func(t *testing.T) {
			err := s.Update(func(txn kv.Txn) error {
				return s.PutNode(txn, &storobj.Node{ID: node.ID, Label: "User"}, nil)
			})
			assert.ErrorIs(t, err, ErrMultipleNodesWithSameID)
		})

		t.Run("writes need a writable transaction", func(t *testing.T) {
			view(t, s, func(txn kv.Txn) error {
				_, err := s.AddNode(txn, "User", nil, nil)
				assert.ErrorIs(t, err, kv.ErrTxNotWritable)
				assert.ErrorIs(t, s.DropNode(txn, node.ID), kv.ErrTxNotWritable)
				return nil
			})
		})
	})
}

func TestAdjacencySymmetry(t *testing.T) {
	forEachBackend(t, func(t *testing.T, cfg Config) {
		s := openTestStorage(t, cfg)

		var a, b *storobj.Node
		var e *storobj.Edge
		update(t, s, func(txn kv.Txn) error {
			var err error
			a, err = s.AddNode(txn, "User", values.Of("age", 20), nil)
			require.Nil(t, err)
			b, err = s.AddNode(txn, "User", values.Of("age", 30), nil)
			require.Nil(t, err)
			e, err = s.AddEdge(txn, "FRIEND", values.Of("since", 2020), a.ID, b.ID)
			return err
		})

		view(t, s, func(txn kv.Txn) error {
			out, err := s.OutEdges(txn, a.ID, "FRIEND").Collect()
			require.Nil(t, err)
			assert.Equal(t, []Adjacency{{EdgeID: e.ID, Other: b.ID}}, out)

			in, err := s.InEdges(txn, b.ID, "FRIEND").Collect()
			require.Nil(t, err)
			assert.Equal(t, []Adjacency{{EdgeID: e.ID, Other: a.ID}}, in)

			all, err := s.OutEdges(txn, a.ID, "").Collect()
			require.Nil(t, err)
			assert.Len(t, all, 1)

			none, err := s.OutEdges(txn, a.ID, "KNOWS").Collect()
			require.Nil(t, err)
			assert.Empty(t, none)

			got, err := s.GetEdge(txn, nil, e.ID)
			require.Nil(t, err)
			assert.Equal(t, a.ID, got.From)
			assert.Equal(t, b.ID, got.To)
			return nil
		})

		update(t, s, func(txn kv.Txn) error {
			return s.DropEdge(txn, e.ID)
		})

		view(t, s, func(txn kv.Txn) error {
			out, err := s.OutEdges(txn, a.ID, "FRIEND").Collect()
			require.Nil(t, err)
			assert.Empty(t, out)
			in, err := s.InEdges(txn, b.ID, "FRIEND").Collect()
			require.Nil(t, err)
			assert.Empty(t, in)
			_, err = s.GetEdge(txn, nil, e.ID)
			assert.ErrorIs(t, err, storobj.ErrEdgeNotFound)
			return nil
		})
	})
}

func TestAddEdgeNeedsEndpoints(t *testing.T) {
	s := openTestStorage(t, testConfig(t, kv.KindBolt))
	err := s.Update(func(txn kv.Txn) error {
		a, err := s.AddNode(txn, "User", nil, nil)
		require.Nil(t, err)
		_, err = s.AddEdge(txn, "FRIEND", nil, a.ID, uuid.New())
		return err
	})
	assert.ErrorIs(t, err, storobj.ErrNodeNotFound)
}

func TestCascadeDelete(t *testing.T) {
	forEachBackend(t, func(t *testing.T, cfg Config) {
		cfg.BM25Enabled = true
		cfg.SecondaryIndexes = []IndexConfig{{Name: "name", Label: "User", Unique: true}}
		s := openTestStorage(t, cfg)

		var a, b, c *storobj.Node
		update(t, s, func(txn kv.Txn) error {
			var err error
			a, err = s.AddNode(txn, "User", values.Of("name", "alice"), nil)
			require.Nil(t, err)
			b, err = s.AddNode(txn, "User", values.Of("name", "bob"), nil)
			require.Nil(t, err)
			c, err = s.AddNode(txn, "User", values.Of("name", "carol"), nil)
			require.Nil(t, err)

			for _, pair := range [][2]uuid.UUID{{a.ID, b.ID}, {c.ID, a.ID}, {a.ID, a.ID}, {b.ID, c.ID}} {
				if _, err := s.AddEdge(txn, "FRIEND", nil, pair[0], pair[1]); err != nil {
					return err
				}
			}
			return nil
		})

		update(t, s, func(txn kv.Txn) error {
			return s.DropNode(txn, a.ID)
		})

		view(t, s, func(txn kv.Txn) error {
			_, err := s.GetNode(txn, nil, a.ID)
			assert.ErrorIs(t, err, storobj.ErrNodeNotFound)

			edges, err := s.EdgesOfLabel(txn, nil, "FRIEND").Collect()
			require.Nil(t, err)
			require.Len(t, edges, 1)
			assert.Equal(t, b.ID, edges[0].From)
			assert.Equal(t, c.ID, edges[0].To)

			for _, id := range []uuid.UUID{a.ID, b.ID, c.ID} {
				out, err := s.OutEdges(txn, id, "").Collect()
				require.Nil(t, err)
				in, err := s.InEdges(txn, id, "").Collect()
				require.Nil(t, err)
				for _, adj := range append(out, in...) {
					assert.NotEqual(t, a.ID, adj.Other)
				}
			}

			ids, err := s.LookupIndex(txn, "name", values.String("alice"))
			require.Nil(t, err)
			assert.Empty(t, ids)

			res, err := s.SearchBM25(txn, "alice", 10)
			require.Nil(t, err)
			assert.Empty(t, res)
			res, err = s.SearchBM25(txn, "bob", 10)
			require.Nil(t, err)
			require.Len(t, res, 1)
			assert.Equal(t, b.ID, res[0].ID)
			return nil
		})
	})
}

func TestSecondaryIndexes(t *testing.T) {
	forEachBackend(t, func(t *testing.T, cfg Config) {
		cfg.SecondaryIndexes = []IndexConfig{{Name: "email", Unique: true}}
		s := openTestStorage(t, cfg)

		var ada *storobj.Node
		update(t, s, func(txn kv.Txn) error {
			var err error
			ada, err = s.AddNode(txn, "User", values.Of("email", "ada@example.com", "team", "core"), nil)
			require.Nil(t, err)
			_, err = s.AddNode(txn, "User", values.Of("team", "core"), nil)
			return err
		})

		t.Run("lookup", func(t *testing.T) {
			view(t, s, func(txn kv.Txn) error {
				ids, err := s.LookupIndex(txn, "email", values.String("ada@example.com"))
				require.Nil(t, err)
				assert.Equal(t, []uuid.UUID{ada.ID}, ids)

				_, err = s.LookupIndex(txn, "phone", values.String("1"))
				assert.ErrorIs(t, err, ErrLabelNotFound)
				return nil
			})
		})

		t.Run("unique violation is rejected", func(t *testing.T) {
			err := s.Update(func(txn kv.Txn) error {
				_, err := s.AddNode(txn, "User", values.Of("email", "ada@example.com"), nil)
				return err
			})
			assert.ErrorIs(t, err, ErrUniqueViolation)
		})

		t.Run("unknown index names are rejected", func(t *testing.T) {
			err := s.Update(func(txn kv.Txn) error {
				_, err := s.AddNode(txn, "User", values.Of("email", "x"), []string{"phone"})
				return err
			})
			assert.ErrorIs(t, err, ErrLabelNotFound)
		})

		t.Run("create backfills existing nodes", func(t *testing.T) {
			require.Nil(t, s.CreateIndex(IndexConfig{Name: "team", Label: "User"}))
			assert.Equal(t, []string{"email", "team"}, s.IndexNames())
			assert.ErrorIs(t, s.CreateIndex(IndexConfig{Name: "team"}), ErrIndexExists)

			view(t, s, func(txn kv.Txn) error {
				ids, err := s.LookupIndex(txn, "team", values.String("core"))
				require.Nil(t, err)
				assert.Len(t, ids, 2)
				return nil
			})
		})

		t.Run("update moves the entry", func(t *testing.T) {
			update(t, s, func(txn kv.Txn) error {
				_, err := s.UpdateNode(txn, ada.ID, values.Of("email", "ada@lovelace.org"))
				return err
			})
			view(t, s, func(txn kv.Txn) error {
				ids, err := s.LookupIndex(txn, "email", values.String("ada@example.com"))
				require.Nil(t, err)
				assert.Empty(t, ids)
				ids, err = s.LookupIndex(txn, "email", values.String("ada@lovelace.org"))
				require.Nil(t, err)
				assert.Equal(t, []uuid.UUID{ada.ID}, ids)
				return nil
			})
		})

		t.Run("drop", func(t *testing.T) {
			require.Nil(t, s.DropIndex("team"))
			assert.Equal(t, []string{"email"}, s.IndexNames())
			assert.ErrorIs(t, s.DropIndex("team"), ErrLabelNotFound)
		})
	})
}

func TestIndexDDLWithConcurrentWriters(t *testing.T) {
	forEachBackend(t, func(t *testing.T, cfg Config) {
		s := openTestStorage(t, cfg)

		t.Run("create while a write transaction is open", func(t *testing.T) {
			txn, err := s.Begin(true)
			require.Nil(t, err)

			created := make(chan error, 1)
			go func() {
				created <- s.CreateIndex(IndexConfig{Name: "team", Label: "person"})
			}()

			committed := make(chan error, 1)
			go func() {
				if _, err := s.AddNode(txn, "person", values.Of("team", "core"), nil); err != nil {
					txn.Rollback()
					committed <- err
					return
				}
				committed <- txn.Commit()
			}()

			for _, ch := range []chan error{committed, created} {
				select {
				case err := <-ch:
					require.Nil(t, err)
				case <-time.After(10 * time.Second):
					t.Fatal("index creation and writer did not finish")
				}
			}

			view(t, s, func(txn kv.Txn) error {
				ids, err := s.LookupIndex(txn, "team", values.String("core"))
				require.Nil(t, err)
				assert.Len(t, ids, 1)
				return nil
			})
		})

		t.Run("writers race with create and drop", func(t *testing.T) {
			var wg sync.WaitGroup
			errs := make(chan error, 64)
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					for j := 0; j < 5; j++ {
						errs <- s.Update(func(txn kv.Txn) error {
							_, err := s.AddNode(txn, "person", values.Of("team", "core", "n", i*10+j), nil)
							return err
						})
					}
				}(i)
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 3; j++ {
					errs <- s.CreateIndex(IndexConfig{Name: "n", Label: "person"})
					errs <- s.DropIndex("n")
				}
			}()

			done := make(chan struct{})
			go func() {
				wg.Wait()
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(30 * time.Second):
				t.Fatal("concurrent writers and index changes did not finish")
			}
			close(errs)
			for err := range errs {
				require.Nil(t, err)
			}

			assert.Equal(t, []string{"team"}, s.IndexNames())
			view(t, s, func(txn kv.Txn) error {
				ids, err := s.LookupIndex(txn, "team", values.String("core"))
				require.Nil(t, err)
				assert.Len(t, ids, 41)
				return nil
			})
		})
	})
}

func TestIndexRegistrySurvivesReopen(t *testing.T) {
	cfg := testConfig(t, kv.KindBolt)
	s, err := Open(cfg)
	require.Nil(t, err)
	require.Nil(t, s.CreateIndex(IndexConfig{Name: "email", Unique: true}))
	require.Nil(t, s.Close())

	reopened := openTestStorage(t, cfg)
	ic, ok := reopened.Index("email")
	require.True(t, ok)
	assert.True(t, ic.Unique)

	view(t, reopened, func(txn kv.Txn) error {
		m, err := reopened.Metadata(txn)
		require.Nil(t, err)
		assert.Equal(t, SchemaVersion, m.SchemaVersion)
		assert.False(t, m.CreatedAt.IsZero())
		assert.Equal(t, []IndexConfig{{Name: "email", Unique: true}}, m.SecondaryIndexes)
		return nil
	})
}

func TestScanReportsCorruptRecordsInline(t *testing.T) {
	s := openTestStorage(t, testConfig(t, kv.KindBolt))
	update(t, s, func(txn kv.Txn) error {
		for _, label := range []string{"User", "Post", "User"} {
			if _, err := s.AddNode(txn, label, nil, nil); err != nil {
				return err
			}
		}
		return txn.Put(helpers.NodesSpace, make([]byte, 16), []byte{1, 2})
	})

	view(t, s, func(txn kv.Txn) error {
		scan := s.NodesOfLabel(txn, nil, "User")
		defer scan.Close()

		var users, failures int
		for {
			node, ok, err := scan.Next()
			if !ok {
				break
			}
			if err != nil {
				assert.ErrorIs(t, err, ErrConversion)
				failures++
				continue
			}
			assert.Equal(t, "User", node.Label)
			users++
		}
		assert.Equal(t, 2, users)
		assert.Equal(t, 1, failures)
		return nil
	})
}

func TestVectorsAndHybridSearch(t *testing.T) {
	forEachBackend(t, func(t *testing.T, cfg Config) {
		cfg.BM25Enabled = true
		s := openTestStorage(t, cfg)

		var doc *storobj.Node
		var near, far *storobj.Vector
		update(t, s, func(txn kv.Txn) error {
			var err error
			doc, err = s.AddNode(txn, "Doc", values.Of("title", "graph databases"), nil)
			require.Nil(t, err)
			near, err = s.AddVector(txn, "Embedding", []float32{1, 0, 0}, values.Of("n", 1))
			require.Nil(t, err)
			far, err = s.AddVector(txn, "Embedding", []float32{0, 1, 0}, nil)
			require.Nil(t, err)
			_, err = s.AddEdge(txn, "EMBEDS", nil, doc.ID, near.ID)
			return err
		})

		view(t, s, func(txn kv.Txn) error {
			res, err := s.SearchVectors(txn, nil, []float32{1, 0.1, 0}, 1, "Embedding", nil)
			require.Nil(t, err)
			require.Len(t, res, 1)
			assert.Equal(t, near.ID, res[0].Vector.ID)

			hybrid, err := s.HybridSearch(txn, nil, "graph", []float32{0, 1, 0}, 0.5, 3, "")
			require.Nil(t, err)
			require.Len(t, hybrid, 3)
			got := map[uuid.UUID]bool{}
			for _, r := range hybrid {
				got[r.ID] = true
			}
			assert.True(t, got[doc.ID])
			assert.True(t, got[far.ID])

			t.Run("label restricts the keyword side", func(t *testing.T) {
				hybrid, err := s.HybridSearch(txn, nil, "graph", []float32{0, 1, 0}, 0.5, 3, "Embedding")
				require.Nil(t, err)
				require.Len(t, hybrid, 2)
				for _, r := range hybrid {
					assert.NotEqual(t, doc.ID, r.ID)
				}

				hybrid, err = s.HybridSearch(txn, nil, "graph", []float32{0, 1, 0}, 1, 3, "Doc")
				require.Nil(t, err)
				require.Len(t, hybrid, 1)
				assert.Equal(t, doc.ID, hybrid[0].ID)
			})
			return nil
		})

		update(t, s, func(txn kv.Txn) error {
			return s.DropVector(txn, near.ID)
		})

		view(t, s, func(txn kv.Txn) error {
			res, err := s.SearchVectors(txn, nil, []float32{1, 0, 0}, 2, "Embedding", nil)
			require.Nil(t, err)
			require.Len(t, res, 1)
			assert.Equal(t, far.ID, res[0].Vector.ID)

			out, err := s.OutEdges(txn, doc.ID, "EMBEDS").Collect()
			require.Nil(t, err)
			assert.Empty(t, out)

			v, err := s.GetVector(txn, nil, near.ID, false)
			require.Nil(t, err)
			assert.True(t, v.Deleted)
			return nil
		})
	})
}

func TestBM25Disabled(t *testing.T) {
	s := openTestStorage(t, testConfig(t, kv.KindBolt))
	view(t, s, func(txn kv.Txn) error {
		_, err := s.SearchBM25(txn, "anything", 1)
		assert.ErrorIs(t, err, ErrBM25Disabled)
		_, err = s.HybridSearch(txn, nil, "anything", []float32{1}, 0.5, 1, "")
		assert.ErrorIs(t, err, ErrBM25Disabled)
		return nil
	})
}

func TestBackupRestore(t *testing.T) {
	for _, kind := range backends {
		for _, compress := range []bool{false, true} {
			name := string(kind)
			if compress {
				name += "_zstd"
			}
			t.Run(name, func(t *testing.T) {
				cfg := testConfig(t, kind)
				s := openTestStorage(t, cfg)

				var node *storobj.Node
				update(t, s, func(txn kv.Txn) error {
					var err error
					node, err = s.AddNode(txn, "User", values.Of("name", "Ada"), nil)
					return err
				})

				target := filepath.Join(t.TempDir(), "backup.db")
				n, err := s.Backup(context.Background(), target, compress)
				require.Nil(t, err)
				assert.Greater(t, n, int64(0))

				restoredCfg := testConfig(t, kind)
				require.Nil(t, Restore(target, restoredCfg))
				restored := openTestStorage(t, restoredCfg)
				view(t, restored, func(txn kv.Txn) error {
					got, err := restored.GetNode(txn, nil, node.ID)
					require.Nil(t, err)
					name, _ := got.Get("name")
					assert.True(t, values.Equal(values.String("Ada"), name))
					return nil
				})
			})
		}
	}
}

func TestStats(t *testing.T) {
	cfg := testConfig(t, kv.KindBolt)
	cfg.BM25Enabled = true
	cfg.SecondaryIndexes = []IndexConfig{{Name: "name"}}
	s := openTestStorage(t, cfg)

	update(t, s, func(txn kv.Txn) error {
		a, err := s.AddNode(txn, "User", values.Of("name", "a"), nil)
		require.Nil(t, err)
		b, err := s.AddNode(txn, "User", values.Of("name", "b"), nil)
		require.Nil(t, err)
		_, err = s.AddEdge(txn, "FRIEND", nil, a.ID, b.ID)
		require.Nil(t, err)
		_, err = s.AddVector(txn, "Embedding", []float32{1, 2}, nil)
		return err
	})

	view(t, s, func(txn kv.Txn) error {
		stats, err := s.Stats(txn)
		require.Nil(t, err)
		assert.Equal(t, 2, stats.Nodes)
		assert.Equal(t, 1, stats.Edges)
		assert.Equal(t, map[string]int{"name": 2}, stats.SecondaryIndexes)
		assert.Equal(t, uint64(1), stats.Vectors.Vectors)
		require.NotNil(t, stats.BM25)
		assert.Equal(t, uint64(2), stats.BM25.TotalDocs)
		return nil
	})
}
