package cmd

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/s0up4200/cloudconv/filter"
	"github.com/s0up4200/cloudconv/route"
)

var presetsRecursive bool

// presetsCmd evaluates every configured preset against a set of files
var presetsCmd = &cobra.Command{
	Use:   "presets <path>...",
	Short: "Show which files each filter preset selects",
	Long: `Evaluate every preset under filter.presets in the config against the
given files and list the matches per preset.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPresets,
}

func init() {
	presetsCmd.Flags().BoolVarP(&presetsRecursive, "recursive", "r", false, "descend into subdirectories")
}

func runPresets(cmd *cobra.Command, args []string) error {
	if len(cfg.Filter.Presets) == 0 {
		return fmt.Errorf("no filter presets in config")
	}

	docs, err := filter.Collect(args, presetsRecursive)
	if err != nil {
		return err
	}

	var failures atomic.Int64
	manager, err := newFilterManager(&failures)
	if err != nil {
		return err
	}
	defer manager.Close(context.Background())

	results, err := manager.EvaluateAll(cmd.Context(), docs)
	if err != nil {
		return err
	}
	warnFilterFailures(&failures, "presets")

	matches := make(map[string][]string, len(cfg.Filter.Presets))
	for name := range cfg.Filter.Presets {
		paths := filter.Paths(results[name])
		if paths == nil {
			paths = []string{}
		}
		slices.Sort(paths)
		matches[name] = paths
	}
	return printResult(cmd.OutOrStdout(), matches)
}

// newFilterManager compiles the config presets with the cloudconv helpers.
// Runtime evaluation errors are logged and counted in failures.
func newFilterManager(failures *atomic.Int64) (*filter.Manager, error) {
	compiler := filter.NewExprCompiler(
		filter.WithCache(100),
		filter.WithCustomFunctions(filterFunctions(cfg.Filter.Groups)),
		filter.WithErrorHandler(func(err *filter.EvaluationError) {
			failures.Add(1)
			logger.Debug().
				Err(err.Err).
				Str("filter", err.Expression).
				Str("file", err.Document).
				Msg("Filter evaluation failed")
		}),
	)

	manager := filter.NewManager(filter.WithCompiler(compiler))
	if err := manager.RegisterFilters(cfg.Filter.Presets); err != nil {
		manager.Close(context.Background())
		return nil, fmt.Errorf("invalid filter preset: %w", err)
	}
	return manager, nil
}

func warnFilterFailures(failures *atomic.Int64, expression string) {
	if n := failures.Load(); n > 0 {
		logger.Warn().
			Int64("files", n).
			Str("filter", expression).
			Msg("Filter failed on some files, they were not selected (see debug log)")
	}
}

// filterFunctions are the expression helpers that need routing or config
func filterFunctions(groups map[string][]string) map[string]any {
	normalized := make(map[string][]string, len(groups))
	for name, exts := range groups {
		for _, ext := range exts {
			ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
			normalized[strings.ToLower(name)] = append(normalized[strings.ToLower(name)], ext)
		}
	}

	return map[string]any{
		"convertible": func(format, target string) bool {
			to := route.ParseFormat(target)
			return to != route.Unknown && route.Supported(route.ParseFormat(format), to)
		},
		"inGroup": func(group, ext string) bool {
			ext = strings.TrimPrefix(strings.ToLower(ext), ".")
			return slices.Contains(normalized[strings.ToLower(group)], ext)
		},
	}
}
