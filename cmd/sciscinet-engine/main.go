// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the sciscinet-engine CLI: the
// corpus filter pipeline, graph analytics, and ad-hoc query layer over a
// SciSciNet parquet snapshot.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wz2708/FSU-PhD-Project2/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the sciscinet-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "sciscinet-engine",
	Short: "Filtering and graph analytics over a SciSciNet corpus",
	Long: `sciscinet-engine filters a multi-table scholarly-publication corpus stored
as parquet files, derives citation and collaboration graphs from the filtered
subset, computes per-node structural metrics and community assignments, and
answers ad-hoc aggregation queries over the same columnar store.

Conversational agents and reporting layers consume this CLI's JSON output;
the engine itself returns data and summary statistics only.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./sciscinet-engine.yaml or ~/.config/sciscinet-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("sciscinet-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "sciscinet-engine"))
		}
	}

	viper.SetEnvPrefix("SCISCINET_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("store.data_dir", "data")
	viper.SetDefault("store.prefix", "sciscinet")
	viper.SetDefault("store.memory_limit", "8GB")
	viper.SetDefault("store.threads", 4)
	viper.SetDefault("filter.institution_id", "I78577930") // Columbia University
	viper.SetDefault("filter.field_id", "C41008148")       // Computer Science
	viper.SetDefault("filter.cache_dir", "cache")
	viper.SetDefault("filter.default_years", 5)
	viper.SetDefault("graph.max_coauthors_per_paper", 50)
	viper.SetDefault("graph.betweenness_exact_limit", 500)
	viper.SetDefault("graph.betweenness_sample_size", 100)
	viper.SetDefault("graph.damping", 0.85)
	viper.SetDefault("graph.max_iterations", 100)
	viper.SetDefault("graph.seed", 1)
	viper.SetDefault("query.default_author_limit", 10)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig assembles the engine configuration from viper.
func loadConfig() types.Config {
	return types.Config{
		Store: types.StoreConfig{
			DataDir:     viper.GetString("store.data_dir"),
			Prefix:      viper.GetString("store.prefix"),
			MemoryLimit: viper.GetString("store.memory_limit"),
			Threads:     viper.GetInt("store.threads"),
		},
		Filter: types.FilterConfig{
			InstitutionID: viper.GetString("filter.institution_id"),
			FieldID:       viper.GetString("filter.field_id"),
			CacheDir:      viper.GetString("filter.cache_dir"),
			DefaultYears:  viper.GetInt("filter.default_years"),
		},
		Graph: types.GraphConfig{
			MaxCoauthorsPerPaper:  viper.GetInt("graph.max_coauthors_per_paper"),
			BetweennessExactLimit: viper.GetInt("graph.betweenness_exact_limit"),
			BetweennessSampleSize: viper.GetInt("graph.betweenness_sample_size"),
			Damping:               viper.GetFloat64("graph.damping"),
			MaxIterations:         viper.GetInt("graph.max_iterations"),
			Seed:                  viper.GetInt64("graph.seed"),
		},
		Query: types.QueryConfig{
			DefaultAuthorLimit: viper.GetInt("query.default_author_limit"),
		},
	}
}

// emitJSON writes v to stdout as indented JSON.
func emitJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
