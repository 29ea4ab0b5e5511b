// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wz2708/FSU-PhD-Project2/internal/filter"
	"github.com/wz2708/FSU-PhD-Project2/internal/store"
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Apply the fixed corpus filter and report the matched subset",
	Long: `Filter applies the fixed inclusion predicates (institution first author,
field, article doctype, not retracted, lookback window) and prints how many
papers matched. Results are cached in memory and on disk keyed by the filter
signature; delete the cache directory to force recomputation.`,
	RunE: runFilter,
}

func init() {
	filterCmd.Flags().Int("years", 0, "lookback window in years (default from config)")
	rootCmd.AddCommand(filterCmd)
}

func runFilter(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	years, _ := cmd.Flags().GetInt("years")
	if years <= 0 {
		years = cfg.Filter.DefaultYears
	}

	s, err := store.Open(cfg.Store, os.Stderr)
	if err != nil {
		return err
	}
	defer s.Close()

	pipeline, err := filter.New(s, cfg.Filter, os.Stderr)
	if err != nil {
		return err
	}

	papers, err := pipeline.FilteredPapers(context.Background(), years)
	if err != nil {
		return err
	}

	fmt.Printf("filter signature: %s\n", pipeline.FilterSignature())
	fmt.Printf("papers matched (%dyr window): %d\n", years, len(papers))
	return nil
}
