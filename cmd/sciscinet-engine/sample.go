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

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Export the filtered paper subset as standalone parquet files",
	Long: `Sample runs the filter pipeline and exports every corpus table, restricted
to the matched papers, as sample_*.parquet files. The exported files are a
self-contained miniature of the corpus suitable for local development.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		years, _ := cmd.Flags().GetInt("years")
		if years <= 0 {
			years = cfg.Filter.DefaultYears
		}
		outDir, _ := cmd.Flags().GetString("out")

		s, err := store.Open(cfg.Store, os.Stderr)
		if err != nil {
			return err
		}
		defer s.Close()

		p, err := filter.New(s, cfg.Filter, os.Stderr)
		if err != nil {
			return err
		}

		ctx := context.Background()
		ids, err := p.FilteredPaperIDs(ctx, years)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			fmt.Fprintln(os.Stderr, "warning: filter matched no papers, nothing to export")
			return nil
		}
		if err := s.ExportSubset(ctx, ids, outDir, os.Stderr); err != nil {
			return err
		}
		fmt.Printf("exported %d papers to %s\n", len(ids), outDir)
		return nil
	},
}

func init() {
	sampleCmd.Flags().Int("years", 0, "publication-year lookback (default from config)")
	sampleCmd.Flags().String("out", "sample_data", "output directory for sample parquet files")
	rootCmd.AddCommand(sampleCmd)
}
