package cmd

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/s0up4200/cloudconv/batch"
	"github.com/s0up4200/cloudconv/filter"
	"github.com/s0up4200/cloudconv/route"
)

var (
	batchTo          string
	batchOutDir      string
	batchFilter      string
	batchPreset      string
	batchRecursive   bool
	batchConcurrency int
	batchDryRun      bool
	batchOverwrite   bool
	batchList        bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <path>...",
	Short: "Convert many files, optionally selected by a filter expression",
	Long: `Convert every file under the given paths into the target format.

Files can be selected with an expression or a preset from the config:
  cloudconv batch ./docs --to pdf --filter 'hasExt("docx", "doc") and modifiedWithin(30)'
  cloudconv batch ./sheets --to csv --preset large-sheets --recursive

Available variables: Name, Path, Dir, Ext, Format, Size, Modified, Links
Available helpers: hasExt(...), isFormat(f), larger(size), smaller(size),
size(s), matches(glob), inDir(dir), modifiedWithin(days), hasHardlinks(),
daysSince(t), daysAgo(n), monthsAgo(n), parseDate(s), now(), contains(s, sub),
startsWith(s, p), endsWith(s, p), lower(s), upper(s),
convertible(format, target), inGroup(group, ext)

inGroup uses the extension lists under filter.groups in the config:
  cloudconv batch ./inbox --to pdf --filter 'inGroup("office", Ext)'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchTo, "to", "t", "", "target format")
	batchCmd.Flags().StringVar(&batchOutDir, "out-dir", "", "directory for converted files (default: beside each source)")
	batchCmd.Flags().StringVarP(&batchFilter, "filter", "f", "", "filter expression selecting the files")
	batchCmd.Flags().StringVarP(&batchPreset, "preset", "p", "", "use a filter preset from config")
	batchCmd.Flags().BoolVarP(&batchRecursive, "recursive", "r", false, "descend into subdirectories")
	batchCmd.Flags().IntVarP(&batchConcurrency, "concurrency", "c", 0, "parallel conversions (default from config)")
	batchCmd.Flags().BoolVarP(&batchDryRun, "dry-run", "d", false, "show what would be converted")
	batchCmd.Flags().BoolVar(&batchOverwrite, "overwrite", false, "replace existing output files")
	batchCmd.Flags().BoolVar(&batchList, "list", false, "only list the selected files")
	batchCmd.MarkFlagsMutuallyExclusive("filter", "preset")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	target := route.ParseFormat(batchTo)
	if target == route.Unknown && !batchList {
		return fmt.Errorf("unknown target format: %q", batchTo)
	}

	docs, err := filter.Collect(args, batchRecursive)
	if err != nil {
		return err
	}

	docs, err = selectDocuments(cmd, docs)
	if err != nil {
		return err
	}

	if batchList {
		return printResult(cmd.OutOrStdout(), docs)
	}

	var sources []string
	for _, doc := range docs {
		if doc.Format == target {
			logger.Debug().Str("file", doc.Path).Msg("Already in target format, skipping")
			continue
		}
		if !route.Supported(doc.Format, target) {
			logger.Warn().
				Str("file", doc.Path).
				Str("format", string(doc.Format)).
				Str("target", string(target)).
				Msg("No conversion route, skipping")
			continue
		}
		sources = append(sources, doc.Path)
	}

	jobs, err := batch.Plan(sources, target, batchOutDir)
	if err != nil {
		return err
	}

	logger.Info().
		Int("selected", len(docs)).
		Int("jobs", len(jobs)).
		Str("target", string(target)).
		Msg("Starting batch conversion")

	concurrency := cfg.Batch.Concurrency
	if batchConcurrency > 0 {
		concurrency = batchConcurrency
	}

	runner := batch.NewRunner(newRouter(),
		batch.WithConcurrency(concurrency),
		batch.WithDryRun(batchDryRun),
		batch.WithOverwrite(batchOverwrite || cfg.Batch.Overwrite),
		batch.WithLogger(logger),
	)
	result := runner.Run(ctx, jobs)

	if err := printResult(cmd.OutOrStdout(), result); err != nil {
		return err
	}
	if len(result.Failed) > 0 {
		return fmt.Errorf("%d of %d conversions failed", len(result.Failed), result.Requested)
	}
	return nil
}

// selectDocuments applies the --filter expression or --preset to docs
func selectDocuments(cmd *cobra.Command, docs []filter.Document) ([]filter.Document, error) {
	expression := batchFilter
	if batchPreset != "" {
		if _, ok := cfg.Filter.Presets[batchPreset]; !ok {
			return nil, fmt.Errorf("preset '%s' not found in config", batchPreset)
		}
		expression = batchPreset
	}
	if expression == "" {
		return docs, nil
	}

	var failures atomic.Int64
	manager, err := newFilterManager(&failures)
	if err != nil {
		return nil, err
	}
	defer manager.Close(context.Background())

	selected, err := manager.Select(cmd.Context(), expression, docs)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	warnFilterFailures(&failures, expression)

	logger.Info().
		Str("filter", expression).
		Int("matched", len(selected)).
		Int("total", len(docs)).
		Msg("Filtered files")

	return selected, nil
}
