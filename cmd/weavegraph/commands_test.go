//	_       _
//
// __      _____  __ ___   ___  __ _| |_ ___
//
//	\ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//	 \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//	  \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//	 Copyright © 2016 - 2026 Weaviate B.V. All rights reserved.
//
//	 CONTACT: hello@weaviate.io
package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/weaviate/weavegraph/adapters/repos/db/kv"
	"github.com/weaviate/weavegraph/adapters/repos/db/storage"
	"github.com/weaviate/weavegraph/entities/storobj"
	"github.com/weaviate/weavegraph/entities/values"
	"github.com/weaviate/weavegraph/usecases/config"
	"github.com/weaviate/weavegraph/usecases/traverser/hybrid"
)

func testApp(t *testing.T) *app {
	cfg := &config.Config{Path: filepath.Join(t.TempDir(), "graph")}
	cfg.SetDefaults()
	require.Nil(t, cfg.Validate())

	logger, _ := test.NewNullLogger()
	return &app{config: cfg, logger: logger}
}

func run(t *testing.T, a *app, args ...string) (string, error) {
	var out bytes.Buffer
	cliApp := &cli.App{
		Name:   "weavegraph",
		Writer: &out,
		// report cli.Exit errors to the caller instead of exiting the test binary
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			statsCommand(a),
			backupCommand(a),
			restoreCommand(a),
			rebuildCommand(a),
			indexCommand(a),
			nodesCommand(a),
			pathCommand(a),
			searchCommand(a),
		},
	}
	err := cliApp.Run(append([]string{"weavegraph"}, args...))
	return out.String(), err
}

func seed(t *testing.T, a *app) {
	require.Nil(t, a.withStorage(func(s *storage.Storage) error {
		return s.Update(func(txn kv.Txn) error {
			for _, name := range []string{"carol", "alice", "bob"} {
				props := values.Of("name", name, "bio", name+" likes graph databases")
				if _, err := s.AddNode(txn, "Person", props, nil); err != nil {
					return err
				}
			}
			_, err := s.AddVector(txn, "Doc", []float32{1, 0, 0}, nil)
			return err
		})
	}))
}

func TestStatsAndNodes(t *testing.T) {
	a := testApp(t)
	seed(t, a)

	out, err := run(t, a, "stats")
	require.Nil(t, err)
	var stats storage.Stats
	require.Nil(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 3, stats.Nodes)
	assert.Equal(t, 0, stats.Edges)

	out, err = run(t, a, "nodes", "--count", "Person")
	require.Nil(t, err)
	assert.Equal(t, "3\n", out)

	out, err = run(t, a, "nodes", "--order-by", "name", "--limit", "2", "Person")
	require.Nil(t, err)
	var nodes []map[string]any
	require.Nil(t, json.Unmarshal([]byte(out), &nodes))
	require.Len(t, nodes, 2)
	assert.Equal(t, "alice", nodes[0]["name"])
	assert.Equal(t, "bob", nodes[1]["name"])
}

func TestIndexCommands(t *testing.T) {
	a := testApp(t)
	seed(t, a)

	_, err := run(t, a, "index", "create", "--label", "Person", "--unique", "name")
	require.Nil(t, err)

	out, err := run(t, a, "index", "list")
	require.Nil(t, err)
	var indexes []storage.IndexConfig
	require.Nil(t, json.Unmarshal([]byte(out), &indexes))
	assert.Equal(t, []storage.IndexConfig{{Name: "name", Label: "Person", Unique: true}}, indexes)

	_, err = run(t, a, "index", "drop", "name")
	require.Nil(t, err)

	_, err = run(t, a, "index", "create")
	assert.NotNil(t, err)
}

func TestBackupAndRestore(t *testing.T) {
	a := testApp(t)
	seed(t, a)

	dst := filepath.Join(t.TempDir(), "graph.bak")
	_, err := run(t, a, "backup", dst)
	require.Nil(t, err)

	b := testApp(t)
	_, err = run(t, b, "restore", dst)
	require.Nil(t, err)

	out, err := run(t, b, "nodes", "--count", "Person")
	require.Nil(t, err)
	assert.Equal(t, "3\n", out)
}

func TestSearch(t *testing.T) {
	a := testApp(t)
	seed(t, a)

	out, err := run(t, a, "search", "--vector", "[1, 0, 0]", "--vector-label", "Doc", "--alpha", "0")
	require.Nil(t, err)
	var rows []map[string]any
	require.Nil(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)

	out, err = run(t, a, "search", "-q", "alice", "--label", "Person", "--alpha", "1", "--fusion", "relative")
	require.Nil(t, err)
	require.Nil(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	value := rows[0]["value"].(map[string]any)
	assert.Equal(t, "alice", value["name"])

	_, err = run(t, a, "search", "--vector", "not json")
	assert.ErrorContains(t, err, "parse --vector")

	_, err = run(t, a, "search", "-q", "alice", "--fusion", "borda")
	assert.ErrorContains(t, err, "unknown fusion")
}

func TestReranker(t *testing.T) {
	a := testApp(t)

	r, err := a.reranker("rrf", 0.5, 0.5, true)
	require.Nil(t, err)
	assert.Nil(t, r)

	r, err = a.reranker("relative", 0.5, 0.3, true)
	require.Nil(t, err)
	assert.Equal(t, []float64{0.3, 0.7}, r.(*hybrid.RelativeScore).Weights)

	r, err = a.reranker("mmr", 0.9, 0.5, true)
	require.Nil(t, err)
	assert.Equal(t, 0.9, r.(*hybrid.MMR).Lambda)
}

func TestPath(t *testing.T) {
	a := testApp(t)
	var ids []string
	require.Nil(t, a.withStorage(func(s *storage.Storage) error {
		return s.Update(func(txn kv.Txn) error {
			var prev *storobj.Node
			for _, name := range []string{"a", "b", "c"} {
				n, err := s.AddNode(txn, "Stop", values.Of("name", name), nil)
				if err != nil {
					return err
				}
				if prev != nil {
					if _, err := s.AddEdge(txn, "NEXT", values.Of("km", 2), prev.ID, n.ID); err != nil {
						return err
					}
				}
				ids = append(ids, n.ID.String())
				prev = n
			}
			return nil
		})
	}))

	for _, args := range [][]string{
		{"path", "--label", "NEXT", ids[0], ids[2]},
		{"path", "--weight", "km", ids[0], ids[2]},
	} {
		out, err := run(t, a, args...)
		require.Nil(t, err)
		var path map[string]any
		require.Nil(t, json.Unmarshal([]byte(out), &path))
		assert.EqualValues(t, 2, path["length"])
		nodes, ok := path["nodes"].([]any)
		require.True(t, ok)
		require.Len(t, nodes, 3)
		assert.Equal(t, "a", nodes[0].(map[string]any)["name"])
	}

	_, err := run(t, a, "path", ids[2], ids[0])
	assert.ErrorContains(t, err, "no path")
	_, err = run(t, a, "path", "nope", ids[0])
	assert.ErrorContains(t, err, "parse from id")
}
