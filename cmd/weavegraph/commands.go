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
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/weaviate/weavegraph/adapters/repos/db/kv"
	"github.com/weaviate/weavegraph/adapters/repos/db/storage"
	"github.com/weaviate/weavegraph/adapters/repos/db/vector/hnsw/distancer"
	"github.com/weaviate/weavegraph/entities/arena"
	"github.com/weaviate/weavegraph/usecases/traverser"
	"github.com/weaviate/weavegraph/usecases/traverser/hybrid"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func statsCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "print counts of nodes, edges, index entries and vectors",
		Action: func(c *cli.Context) error {
			return a.withStorage(func(s *storage.Storage) error {
				return s.View(func(txn kv.Txn) error {
					stats, err := s.Stats(txn)
					if err != nil {
						return err
					}
					return printJSON(c.App.Writer, stats)
				})
			})
		},
	}
}

func backupCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:      "backup",
		Usage:     "write a consistent copy of the store to a file",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "compress",
				Usage: "zstd compress the backup",
				Value: true,
			},
		},
		Action: func(c *cli.Context) error {
			dst := c.Args().First()
			if dst == "" {
				return cli.Exit("backup needs a destination file", 2)
			}
			return a.withStorage(func(s *storage.Storage) error {
				start := time.Now()
				n, err := s.Backup(c.Context, dst, c.Bool("compress"))
				if err != nil {
					return err
				}
				a.logger.WithField("action", "backup").
					WithField("bytes", n).
					Infof("wrote backup to %s in %s", dst, time.Since(start))
				return nil
			})
		},
	}
}

func restoreCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:      "restore",
		Usage:     "replace the store at the configured path with a backup",
		ArgsUsage: "<file>",
		Action: func(c *cli.Context) error {
			src := c.Args().First()
			if src == "" {
				return cli.Exit("restore needs a backup file", 2)
			}
			if err := storage.Restore(src, a.storageConfig()); err != nil {
				return err
			}
			a.logger.WithField("action", "restore").
				Infof("restored %s into %s", src, a.config.Path)
			return nil
		},
	}
}

func rebuildCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:  "rebuild",
		Usage: "rebuild the vector index without deleted vectors",
		Action: func(c *cli.Context) error {
			return a.withStorage(func(s *storage.Storage) error {
				return s.Update(s.RebuildVectors)
			})
		},
	}
}

func indexCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:  "index",
		Usage: "manage secondary indexes",
		Subcommands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "create and backfill a secondary index",
				ArgsUsage: "<property>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "label", Usage: "only index nodes of this label"},
					&cli.BoolFlag{Name: "unique", Usage: "reject duplicate values"},
				},
				Action: func(c *cli.Context) error {
					name := c.Args().First()
					if name == "" {
						return cli.Exit("index create needs a property name", 2)
					}
					return a.withStorage(func(s *storage.Storage) error {
						return s.CreateIndex(storage.IndexConfig{
							Name:   name,
							Label:  c.String("label"),
							Unique: c.Bool("unique"),
						})
					})
				},
			},
			{
				Name:      "drop",
				Usage:     "drop a secondary index and its entries",
				ArgsUsage: "<property>",
				Action: func(c *cli.Context) error {
					name := c.Args().First()
					if name == "" {
						return cli.Exit("index drop needs a property name", 2)
					}
					return a.withStorage(func(s *storage.Storage) error {
						return s.DropIndex(name)
					})
				},
			},
			{
				Name:  "list",
				Usage: "print the declared secondary indexes",
				Action: func(c *cli.Context) error {
					return a.withStorage(func(s *storage.Storage) error {
						return printJSON(c.App.Writer, s.Indexes())
					})
				},
			},
		},
	}
}

func nodesCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:      "nodes",
		Usage:     "print nodes of a label, optionally ordered by a property",
		ArgsUsage: "<label>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "order-by", Usage: "property to sort by"},
			&cli.BoolFlag{Name: "desc", Usage: "sort descending"},
			&cli.IntFlag{Name: "limit", Value: 25},
			&cli.BoolFlag{Name: "count", Usage: "only print the number of nodes"},
		},
		Action: func(c *cli.Context) error {
			label := c.Args().First()
			if label == "" {
				return cli.Exit("nodes needs a label", 2)
			}
			return a.withStorage(func(s *storage.Storage) error {
				return s.View(func(txn kv.Txn) error {
					g := traverser.NewRo(s, txn, arena.New(0)).NFromType(label)
					if c.Bool("count") {
						n, err := g.Count()
						if err != nil {
							return err
						}
						_, err = fmt.Fprintln(c.App.Writer, n)
						return err
					}
					if by := c.String("order-by"); by != "" {
						g = g.OrderBy(by, c.Bool("desc"))
					}
					out, err := g.Range(0, c.Int("limit")).CollectToValue()
					if err != nil {
						return err
					}
					return printJSON(c.App.Writer, out.Interface())
				})
			})
		},
	}
}

func pathCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:      "path",
		Usage:     "print the shortest path between two nodes",
		ArgsUsage: "<from id> <to id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "label", Usage: "only follow edges of this label"},
			&cli.StringFlag{Name: "weight", Usage: "edge property to minimize instead of hops"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return cli.Exit("path needs a from and a to id", 2)
			}
			from, err := uuid.Parse(c.Args().Get(0))
			if err != nil {
				return errors.Wrap(err, "parse from id")
			}
			to, err := uuid.Parse(c.Args().Get(1))
			if err != nil {
				return errors.Wrap(err, "parse to id")
			}
			return a.withStorage(func(s *storage.Storage) error {
				return s.View(func(txn kv.Txn) error {
					g := traverser.NewRo(s, txn, arena.New(0)).NFromID(from)
					if w := c.String("weight"); w != "" {
						g = g.WeightedShortestPath(to, c.String("label"), w)
					} else {
						g = g.ShortestPath(to, c.String("label"))
					}
					v, ok, err := g.First()
					if err != nil {
						return err
					}
					if !ok {
						return errors.Errorf("no path from %s to %s", from, to)
					}
					return printJSON(c.App.Writer, traverser.ToValue(v).Interface())
				})
			})
		},
	}
}

func searchCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "run a keyword, vector or hybrid search",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "keyword query"},
			&cli.StringFlag{Name: "vector", Usage: "query embedding as a json array"},
			&cli.StringFlag{Name: "label", Usage: "node label of keyword hits"},
			&cli.StringFlag{Name: "vector-label", Usage: "label of the searched vectors"},
			&cli.Float64Flag{Name: "alpha", Value: 0.5, Usage: "weight of the keyword side"},
			&cli.IntFlag{Name: "limit", Value: 10},
			&cli.StringFlag{Name: "fusion", Value: "rrf", Usage: "rrf, relative or mmr"},
			&cli.Float64Flag{Name: "lambda", Value: hybrid.DefaultMMRLambda, Usage: "mmr relevance weight"},
		},
		Action: func(c *cli.Context) error {
			var vector []float32
			if raw := c.String("vector"); raw != "" {
				if err := json.Unmarshal([]byte(raw), &vector); err != nil {
					return errors.Wrap(err, "parse --vector")
				}
			}
			if c.String("query") == "" && len(vector) == 0 {
				return cli.Exit("search needs --query, --vector or both", 2)
			}

			alpha := c.Float64("alpha")
			both := c.String("query") != "" && len(vector) != 0 && alpha > 0 && alpha < 1
			reranker, err := a.reranker(c.String("fusion"), c.Float64("lambda"), alpha, both)
			if err != nil {
				return err
			}
			searcher := hybrid.NewSearcher(hybrid.Params{
				Label:       c.String("label"),
				VectorLabel: c.String("vector-label"),
				Query:       c.String("query"),
				Vector:      vector,
				Alpha:       alpha,
				Limit:       c.Int("limit"),
			}, a.logger, reranker)

			return a.withStorage(func(s *storage.Storage) error {
				return s.View(func(txn kv.Txn) error {
					ar := arena.New(0)
					res, err := searcher.Search(c.Context, func() *traverser.Traversal {
						return traverser.NewRo(s, txn, ar)
					})
					if err != nil {
						return err
					}
					return printJSON(c.App.Writer, searchOutput(res))
				})
			})
		},
	}
}

// reranker returns nil for rrf so the searcher weighs both sides by alpha.
// both reports whether the keyword and the vector side will run.
func (a *app) reranker(fusion string, lambda, alpha float64, both bool) (hybrid.Reranker, error) {
	switch fusion {
	case "rrf":
		return nil, nil
	case "relative":
		if !both {
			return &hybrid.RelativeScore{}, nil
		}
		return &hybrid.RelativeScore{Weights: []float64{alpha, 1 - alpha}}, nil
	case "mmr":
		provider, err := distancer.ProviderByName(a.config.Vector.Distance)
		if err != nil {
			return nil, err
		}
		return hybrid.NewMMR(lambda, provider), nil
	default:
		return nil, errors.Errorf("unknown fusion %q, use rrf, relative or mmr", fusion)
	}
}

func searchOutput(res []hybrid.Result) []map[string]any {
	out := make([]map[string]any, len(res))
	for i, r := range res {
		row := map[string]any{
			"id":    r.ID.String(),
			"score": r.Score,
		}
		if r.Value.Kind != traverser.KindEmpty {
			row["value"] = traverser.ToValue(r.Value).Interface()
		}
		out[i] = row
	}
	return out
}
