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
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/weaviate/weavegraph/adapters/repos/db/storage"
	enterrors "github.com/weaviate/weavegraph/entities/errors"
	"github.com/weaviate/weavegraph/usecases/config"
	"github.com/weaviate/weavegraph/usecases/monitoring"
)

// app carries what Before prepared for the commands.
type app struct {
	config *config.Config
	logger *logrus.Logger
	prom   *monitoring.PrometheusMetrics
}

func main() {
	a := &app{}
	cliApp := &cli.App{
		Name:                 "weavegraph",
		Usage:                "maintenance and query tool for weavegraph stores",
		EnableBashCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a .yaml or .json config file",
				EnvVars: []string{"WEAVEGRAPH_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "path",
				Usage: "override the store path of the config",
			},
		},
		Before: a.before,
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

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cliApp.RunContext(ctx, os.Args); err != nil {
		logrus.WithField("action", "startup").WithError(err).Error("weavegraph failed")
		os.Exit(1)
	}
}

func (a *app) before(c *cli.Context) error {
	if path := c.String("path"); path != "" {
		os.Setenv("WEAVEGRAPH_PATH", path)
	}
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	a.config = cfg
	a.logger = logger

	if cfg.Metrics.Enabled {
		a.prom = monitoring.GetMetrics()
		enterrors.GoWrapper(func() { a.serveMetrics(cfg.Metrics.Port) }, logger)
	}
	return nil
}

func (a *app) serveMetrics(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	addr := ":" + strconv.Itoa(port)
	a.logger.WithField("action", "metrics_listen").
		Infof("serving prometheus metrics on %s/metrics", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		a.logger.WithField("action", "metrics_listen").WithError(err).
			Error("metrics server stopped")
	}
}

func (a *app) storageConfig() storage.Config {
	return a.config.StorageConfig(a.logger, a.prom)
}

// withStorage opens the store for the duration of fn.
func (a *app) withStorage(fn func(s *storage.Storage) error) (err error) {
	s, err := storage.Open(a.storageConfig())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(s)
}
