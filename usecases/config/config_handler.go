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
// Package config loads the engine configuration from a yaml or json file
// and WEAVEGRAPH_* environment variables.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/weaviate/weavegraph/adapters/repos/db/inverted"
	"github.com/weaviate/weavegraph/adapters/repos/db/kv"
	"github.com/weaviate/weavegraph/adapters/repos/db/storage"
	"github.com/weaviate/weavegraph/adapters/repos/db/vector/hnsw"
	"github.com/weaviate/weavegraph/entities/errorcompounder"
	"github.com/weaviate/weavegraph/usecases/monitoring"
)

const (
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultMetricsPort = 2112
)

// Config outline of the config file
type Config struct {
	Path      string `json:"path" yaml:"path"`
	Backend   string `json:"backend" yaml:"backend"`
	MaxSizeGB int    `json:"max_size_gb" yaml:"max_size_gb"`
	MaxSpaces int    `json:"max_spaces" yaml:"max_spaces"`
	NoSync    bool   `json:"no_sync" yaml:"no_sync"`
	InMemory  bool   `json:"in_memory" yaml:"in_memory"`

	Vector           Vector                `json:"vector" yaml:"vector"`
	SecondaryIndexes []storage.IndexConfig `json:"secondary_indexes" yaml:"secondary_indexes"`
	BM25             BM25                  `json:"bm25" yaml:"bm25"`

	// MCP is carried for front ends that expose the engine over the model
	// context protocol. The engine itself does not read it.
	MCP bool `json:"mcp" yaml:"mcp"`

	LogLevel  string  `json:"log_level" yaml:"log_level"`
	LogFormat string  `json:"log_format" yaml:"log_format"`
	Metrics   Metrics `json:"metrics" yaml:"metrics"`
}

type Vector struct {
	M                     int     `json:"m" yaml:"m"`
	EFConstruction        int     `json:"ef_construction" yaml:"ef_construction"`
	EFSearch              int     `json:"ef_search" yaml:"ef_search"`
	LinearSearchThreshold int     `json:"linear_search_threshold" yaml:"linear_search_threshold"`
	AutoRebuildThreshold  float64 `json:"auto_rebuild_threshold" yaml:"auto_rebuild_threshold"`
	Distance              string  `json:"distance" yaml:"distance"`
}

type BM25 struct {
	// Enabled defaults to true when left out.
	Enabled   *bool   `json:"enabled" yaml:"enabled"`
	K1        float64 `json:"k1" yaml:"k1"`
	B         float64 `json:"b" yaml:"b"`
	Stopwords string  `json:"stopwords" yaml:"stopwords"`
}

func (b BM25) IsEnabled() bool {
	return b.Enabled == nil || *b.Enabled
}

type Metrics struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	Port    int  `json:"port" yaml:"port"`
}

func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = string(kv.KindBolt)
	}
	if c.MaxSizeGB == 0 {
		c.MaxSizeGB = storage.DefaultMaxSizeGB
	}
	if c.MaxSpaces == 0 {
		c.MaxSpaces = storage.DefaultMaxSpaces
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
}

// Validate checks the whole config and reports every problem at once.
func (c Config) Validate() error {
	ec := errorcompounder.New()

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		ec.Addf("log_level: %v", err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		ec.Addf("log_format: must be one of [\"text\", \"json\"], got %q", c.LogFormat)
	}
	if c.Metrics.Enabled && (c.Metrics.Port <= 0 || c.Metrics.Port > 65535) {
		ec.Addf("metrics.port: %d is not a valid port", c.Metrics.Port)
	}

	sc := c.StorageConfig(nil, nil)
	sc.SetDefaults()
	ec.AddWrapf(sc.Validate(), "storage")

	return ec.ToError()
}

// StorageConfig translates the file layout into the options of the storage
// core.
func (c Config) StorageConfig(logger logrus.FieldLogger,
	prom *monitoring.PrometheusMetrics,
) storage.Config {
	return storage.Config{
		Path:        c.Path,
		Backend:     kv.Kind(c.Backend),
		MaxSizeGB:   c.MaxSizeGB,
		MaxSpaces:   c.MaxSpaces,
		NoSync:      c.NoSync,
		InMemory:    c.InMemory,
		BM25Enabled: c.BM25.IsEnabled(),
		BM25: inverted.Config{
			K1:        c.BM25.K1,
			B:         c.BM25.B,
			Stopwords: c.BM25.Stopwords,
		},
		Vector: hnsw.Config{
			M:                     c.Vector.M,
			EFConstruction:        c.Vector.EFConstruction,
			EF:                    c.Vector.EFSearch,
			LinearSearchThreshold: c.Vector.LinearSearchThreshold,
			AutoRebuildThreshold:  c.Vector.AutoRebuildThreshold,
			Distance:              c.Vector.Distance,
		},
		SecondaryIndexes:  c.SecondaryIndexes,
		Logger:            logger,
		PrometheusMetrics: prom,
	}
}

// NewLogger builds the process logger from log_level and log_format.
func (c Config) NewLogger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, configErr(err)
	}
	logger := logrus.New()
	logger.SetLevel(level)
	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}

// LoadConfig from config locations. The load order for configuration values
// is the following
// 1. Config file, skipped when path is empty
// 2. Environment variables
// If a config option is specified in both locations, the environment wins.
func LoadConfig(path string) (*Config, error) {
	var config Config
	if path != "" {
		file, err := os.ReadFile(path)
		if err != nil {
			return nil, configErr(errors.Wrap(err, "read config file"))
		}
		config, err = parseConfigFile(file, path)
		if err != nil {
			return nil, configErr(err)
		}
	}

	if err := FromEnv(&config); err != nil {
		return nil, configErr(err)
	}

	config.SetDefaults()
	if err := config.Validate(); err != nil {
		return nil, configErr(err)
	}
	return &config, nil
}

func parseConfigFile(file []byte, name string) (Config, error) {
	var config Config

	switch ext := filepath.Ext(name); ext {
	case ".json":
		if err := json.Unmarshal(file, &config); err != nil {
			return config, fmt.Errorf("error unmarshalling the json config file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(file, &config); err != nil {
			return config, fmt.Errorf("error unmarshalling the yaml config file: %w", err)
		}
	case "":
		return config, fmt.Errorf("config file does not have a file ending, got '%s'", name)
	default:
		return config, fmt.Errorf("unsupported config file extension '%s', use .yaml or .json", ext)
	}

	return config, nil
}

func configErr(err error) error {
	return fmt.Errorf("invalid config: %w", err)
}
