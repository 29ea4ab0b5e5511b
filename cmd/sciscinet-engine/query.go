// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/wz2708/FSU-PhD-Project2/internal/query"
	"github.com/wz2708/FSU-PhD-Project2/internal/store"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run ad-hoc aggregation queries over the corpus",
	Long: `Query composes parameterized aggregation queries over the columnar store,
independent of the fixed filter pipeline, and emits JSON rows plus summary
statistics. Unknown field names and empty matches yield empty results, not
errors.`,
}

// queryOutput is the JSON envelope emitted by every query subcommand.
type queryOutput struct {
	Result *query.Result `json:"result"`
	Stats  any           `json:"stats"`
}

// openExecutor opens the store and wraps it in an executor. The caller
// closes the returned store.
func openExecutor() (*store.Store, *query.Executor, error) {
	cfg := loadConfig()
	s, err := store.Open(cfg.Store, os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	return s, query.NewExecutor(s, cfg.Query), nil
}

var queryByFieldCmd = &cobra.Command{
	Use:   "by-field",
	Short: "Paper counts grouped by research field",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, e, err := openExecutor()
		if err != nil {
			return err
		}
		defer s.Close()

		name, _ := cmd.Flags().GetString("field-name")
		limit, _ := cmd.Flags().GetInt("limit")
		result, err := e.PapersByField(context.Background(), query.FieldOptions{FieldName: name, Limit: limit})
		if err != nil {
			return err
		}
		return emitJSON(queryOutput{Result: result, Stats: query.ComputeFieldStats(result)})
	},
}

var queryByYearCmd = &cobra.Command{
	Use:   "by-year",
	Short: "Paper counts grouped by year",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, e, err := openExecutor()
		if err != nil {
			return err
		}
		defer s.Close()

		opts := query.YearOptions{}
		opts.Year, _ = cmd.Flags().GetInt("year")
		opts.StartYear, _ = cmd.Flags().GetInt("start-year")
		opts.EndYear, _ = cmd.Flags().GetInt("end-year")
		opts.Years, _ = cmd.Flags().GetInt("years")
		result, err := e.PapersByYear(context.Background(), opts)
		if err != nil {
			return err
		}
		return emitJSON(queryOutput{Result: result, Stats: query.ComputeYearStats(result)})
	},
}

var queryByCitationsCmd = &cobra.Command{
	Use:   "by-citations",
	Short: "Papers filtered by citation count",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, e, err := openExecutor()
		if err != nil {
			return err
		}
		defer s.Close()

		opts := query.CitationOptions{}
		opts.MinCitations = intFlag(cmd, "min-citations")
		opts.MaxCitations = intFlag(cmd, "max-citations")
		opts.Year, _ = cmd.Flags().GetInt("year")
		opts.Field, _ = cmd.Flags().GetString("field")
		result, err := e.PapersByCitations(context.Background(), opts)
		if err != nil {
			return err
		}
		return emitJSON(queryOutput{Result: result, Stats: query.ComputeCitationStats(result)})
	},
}

var queryByPatentsCmd = &cobra.Command{
	Use:   "by-patents",
	Short: "Papers filtered by patent-link count",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, e, err := openExecutor()
		if err != nil {
			return err
		}
		defer s.Close()

		opts := query.PatentOptions{}
		opts.MinPatents = intFlag(cmd, "min-patents")
		opts.HasPatents, _ = cmd.Flags().GetBool("has-patents")
		opts.Year, _ = cmd.Flags().GetInt("year")
		result, err := e.PapersByPatents(context.Background(), opts)
		if err != nil {
			return err
		}
		return emitJSON(queryOutput{Result: result, Stats: query.ComputePatentStats(result)})
	},
}

var queryAdvancedCmd = &cobra.Command{
	Use:   "advanced",
	Short: "Multi-predicate search (AND across kinds, OR within fields)",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, e, err := openExecutor()
		if err != nil {
			return err
		}
		defer s.Close()

		f := query.AdvancedFilters{}
		f.Field, _ = cmd.Flags().GetString("field")
		f.Fields, _ = cmd.Flags().GetStringSlice("fields")
		f.AuthorID, _ = cmd.Flags().GetString("author-id")
		f.Year, _ = cmd.Flags().GetInt("year")
		f.StartYear, _ = cmd.Flags().GetInt("start-year")
		f.EndYear, _ = cmd.Flags().GetInt("end-year")
		f.MinCitations = intFlag(cmd, "min-citations")
		f.MaxCitations = intFlag(cmd, "max-citations")
		f.MinPatents = intFlag(cmd, "min-patents")
		f.HasPatents, _ = cmd.Flags().GetBool("has-patents")
		f.Limit, _ = cmd.Flags().GetInt("limit")
		result, err := e.Advanced(context.Background(), f)
		if err != nil {
			return err
		}
		return emitJSON(queryOutput{Result: result, Stats: query.ComputeCitationStats(result)})
	},
}

var queryFieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List available fields with paper counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, e, err := openExecutor()
		if err != nil {
			return err
		}
		defer s.Close()

		result, err := e.AvailableFields(context.Background())
		if err != nil {
			return err
		}
		return emitJSON(queryOutput{Result: result, Stats: query.ComputeFieldStats(result)})
	},
}

var queryYearsCmd = &cobra.Command{
	Use:   "years",
	Short: "List available years with paper counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, e, err := openExecutor()
		if err != nil {
			return err
		}
		defer s.Close()

		result, err := e.AvailableYears(context.Background())
		if err != nil {
			return err
		}
		return emitJSON(queryOutput{Result: result, Stats: query.ComputeYearStats(result)})
	},
}

var queryTopAuthorsCmd = &cobra.Command{
	Use:   "top-authors",
	Short: "Rank authors by distinct paper count",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, e, err := openExecutor()
		if err != nil {
			return err
		}
		defer s.Close()

		opts := query.AuthorOptions{}
		opts.Limit, _ = cmd.Flags().GetInt("limit")
		opts.MinPapers, _ = cmd.Flags().GetInt("min-papers")
		opts.Field, _ = cmd.Flags().GetString("field")
		result, err := e.TopAuthors(context.Background(), opts)
		if err != nil {
			return err
		}
		return emitJSON(queryOutput{Result: result, Stats: query.ComputeAuthorStats(result)})
	},
}

var queryTrendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Per-year aggregate (count, citations, or patents) over time",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, e, err := openExecutor()
		if err != nil {
			return err
		}
		defer s.Close()

		opts := query.TrendOptions{}
		opts.Field, _ = cmd.Flags().GetString("field")
		opts.StartYear, _ = cmd.Flags().GetInt("start-year")
		opts.EndYear, _ = cmd.Flags().GetInt("end-year")
		metric, _ := cmd.Flags().GetString("metric")
		opts.Metric = query.TrendMetric(metric)
		result, err := e.FieldTrends(context.Background(), opts)
		if err != nil {
			return err
		}
		return emitJSON(queryOutput{Result: result, Stats: query.ComputeTrendStats(result, opts.Metric)})
	},
}

var queryCitationPatternsCmd = &cobra.Command{
	Use:   "citation-patterns",
	Short: "Paper counts in fixed citation buckets",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, e, err := openExecutor()
		if err != nil {
			return err
		}
		defer s.Close()

		opts := query.PatternOptions{}
		opts.Year, _ = cmd.Flags().GetInt("year")
		opts.Field, _ = cmd.Flags().GetString("field")
		opts.MinCitations = intFlag(cmd, "min-citations")
		result, err := e.CitationPatterns(context.Background(), opts)
		if err != nil {
			return err
		}
		return emitJSON(queryOutput{Result: result, Stats: query.ComputePatternStats(result)})
	},
}

var queryPatentDistributionCmd = &cobra.Command{
	Use:   "patent-distribution",
	Short: "Paper counts grouped by exact patent-link count",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, e, err := openExecutor()
		if err != nil {
			return err
		}
		defer s.Close()

		opts := query.DistributionOptions{}
		opts.Year, _ = cmd.Flags().GetInt("year")
		opts.Field, _ = cmd.Flags().GetString("field")
		result, err := e.PatentDistribution(context.Background(), opts)
		if err != nil {
			return err
		}
		return emitJSON(queryOutput{Result: result, Stats: query.ComputeDistributionStats(result)})
	},
}

// intFlag returns the flag value as *int, nil when the flag was not set.
func intFlag(cmd *cobra.Command, name string) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetInt(name)
	return &v
}

func init() {
	queryByFieldCmd.Flags().String("field-name", "", "substring match on field display name")
	queryByFieldCmd.Flags().Int("limit", 0, "maximum fields returned")

	queryByYearCmd.Flags().Int("year", 0, "exact year")
	queryByYearCmd.Flags().Int("start-year", 0, "range start")
	queryByYearCmd.Flags().Int("end-year", 0, "range end")
	queryByYearCmd.Flags().Int("years", 0, "lookback N years from now")

	queryByCitationsCmd.Flags().Int("min-citations", 0, "minimum citation count")
	queryByCitationsCmd.Flags().Int("max-citations", 0, "maximum citation count")
	queryByCitationsCmd.Flags().Int("year", 0, "exact year")
	queryByCitationsCmd.Flags().String("field", "", "substring match on field display name")

	queryByPatentsCmd.Flags().Int("min-patents", 0, "minimum patent-link count")
	queryByPatentsCmd.Flags().Bool("has-patents", false, "only papers with at least one patent link")
	queryByPatentsCmd.Flags().Int("year", 0, "exact year")

	queryAdvancedCmd.Flags().String("field", "", "substring match on field display name")
	queryAdvancedCmd.Flags().StringSlice("fields", nil, "exact field display names (OR group)")
	queryAdvancedCmd.Flags().String("author-id", "", "exact author id")
	queryAdvancedCmd.Flags().Int("year", 0, "exact year")
	queryAdvancedCmd.Flags().Int("start-year", 0, "range start")
	queryAdvancedCmd.Flags().Int("end-year", 0, "range end")
	queryAdvancedCmd.Flags().Int("min-citations", 0, "minimum citation count")
	queryAdvancedCmd.Flags().Int("max-citations", 0, "maximum citation count")
	queryAdvancedCmd.Flags().Int("min-patents", 0, "minimum patent count")
	queryAdvancedCmd.Flags().Bool("has-patents", false, "only papers with patents")
	queryAdvancedCmd.Flags().Int("limit", 0, "maximum rows returned")

	queryTopAuthorsCmd.Flags().Int("limit", 0, "maximum authors returned (default 10)")
	queryTopAuthorsCmd.Flags().Int("min-papers", 0, "minimum paper count per author")
	queryTopAuthorsCmd.Flags().String("field", "", "substring match on field display name")

	queryTrendsCmd.Flags().String("field", "", "substring match on field display name")
	queryTrendsCmd.Flags().Int("start-year", 0, "range start")
	queryTrendsCmd.Flags().Int("end-year", 0, "range end")
	queryTrendsCmd.Flags().String("metric", "count", "aggregate: count, citations, or patents")

	queryCitationPatternsCmd.Flags().Int("year", 0, "exact year")
	queryCitationPatternsCmd.Flags().String("field", "", "substring match on field display name")
	queryCitationPatternsCmd.Flags().Int("min-citations", 0, "minimum citation count")

	queryPatentDistributionCmd.Flags().Int("year", 0, "exact year")
	queryPatentDistributionCmd.Flags().String("field", "", "substring match on field display name")

	queryCmd.AddCommand(
		queryByFieldCmd, queryByYearCmd, queryByCitationsCmd, queryByPatentsCmd,
		queryAdvancedCmd, queryFieldsCmd, queryYearsCmd, queryTopAuthorsCmd,
		queryTrendsCmd, queryCitationPatternsCmd, queryPatentDistributionCmd,
	)
	rootCmd.AddCommand(queryCmd)
}
