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
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const envPrefix = "WEAVEGRAPH_"

// FromEnv takes a *Config as it will respect initial config that has been
// provided by other means (e.g. a config file) and will only extend those
// that are set
func FromEnv(config *Config) error {
	if v := env("PATH"); v != "" {
		config.Path = v
	}
	if v := env("BACKEND"); v != "" {
		config.Backend = v
	}
	if err := parseInt("MAX_SIZE_GB", &config.MaxSizeGB); err != nil {
		return err
	}
	if err := parseInt("MAX_SPACES", &config.MaxSpaces); err != nil {
		return err
	}
	if v := env("NO_SYNC"); v != "" {
		config.NoSync = enabled(v)
	}
	if v := env("IN_MEMORY"); v != "" {
		config.InMemory = enabled(v)
	}

	for name, target := range map[string]*int{
		"VECTOR_M":                       &config.Vector.M,
		"VECTOR_EF_CONSTRUCTION":         &config.Vector.EFConstruction,
		"VECTOR_EF_SEARCH":               &config.Vector.EFSearch,
		"VECTOR_LINEAR_SEARCH_THRESHOLD": &config.Vector.LinearSearchThreshold,
	} {
		if err := parseInt(name, target); err != nil {
			return err
		}
	}
	if err := parseFloat("VECTOR_AUTO_REBUILD_THRESHOLD", &config.Vector.AutoRebuildThreshold); err != nil {
		return err
	}
	if v := env("VECTOR_DISTANCE"); v != "" {
		config.Vector.Distance = v
	}

	if v := env("BM25_ENABLED"); v != "" {
		on := enabled(v)
		config.BM25.Enabled = &on
	}
	if err := parseFloat("BM25_K1", &config.BM25.K1); err != nil {
		return err
	}
	if err := parseFloat("BM25_B", &config.BM25.B); err != nil {
		return err
	}
	if v := env("BM25_STOPWORDS"); v != "" {
		config.BM25.Stopwords = v
	}

	if v := env("MCP"); v != "" {
		config.MCP = enabled(v)
	}
	if v := env("LOG_LEVEL"); v != "" {
		config.LogLevel = v
	}
	if v := env("LOG_FORMAT"); v != "" {
		config.LogFormat = v
	}
	if v := env("METRICS_ENABLED"); v != "" {
		config.Metrics.Enabled = enabled(v)
	}
	if err := parseInt("METRICS_PORT", &config.Metrics.Port); err != nil {
		return err
	}

	return nil
}

func env(name string) string {
	return os.Getenv(envPrefix + name)
}

func parseInt(name string, target *int) error {
	v := env(name)
	if v == "" {
		return nil
	}
	asInt, err := strconv.Atoi(v)
	if err != nil {
		return errors.Wrapf(err, "parse %s%s as int", envPrefix, name)
	}
	*target = asInt
	return nil
}

func parseFloat(name string, target *float64) error {
	v := env(name)
	if v == "" {
		return nil
	}
	asFloat, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return errors.Wrapf(err, "parse %s%s as float", envPrefix, name)
	}
	*target = asFloat
	return nil
}

func enabled(value string) bool {
	switch strings.ToLower(value) {
	case "on", "enabled", "1", "true":
		return true
	default:
		return false
	}
}
