package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/cloudconv/cloudmersive"
	"github.com/s0up4200/cloudconv/route"
)

const (
	DefaultConcurrency = 4
	MaxConcurrency     = 20
)

// Converter converts a single file into the target format
type Converter interface {
	Convert(ctx context.Context, file cloudmersive.File, target route.Format) (*route.Output, error)
}

// Job describes one file conversion
type Job struct {
	Source     string       `json:"source" yaml:"source"`
	Target     route.Format `json:"target" yaml:"target"`
	OutputPath string       `json:"output" yaml:"output"`
}

// Plan builds a job per source file. Outputs keep the source base name with
// the target extension and are placed in outDir, or beside the source when
// outDir is empty.
func Plan(sources []string, target route.Format, outDir string) ([]Job, error) {
	if target == route.Unknown {
		return nil, errors.New("target format is required")
	}

	jobs := make([]Job, 0, len(sources))
	seen := make(map[string]string, len(sources))

	for _, src := range sources {
		base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
		dir := outDir
		if dir == "" {
			dir = filepath.Dir(src)
		}
		out := filepath.Join(dir, base+target.Extension())

		if filepath.Clean(out) == filepath.Clean(src) {
			return nil, fmt.Errorf("%s is already %s", src, target)
		}
		if prev, ok := seen[out]; ok {
			return nil, fmt.Errorf("%s and %s would both write %s", prev, src, out)
		}
		seen[out] = src

		jobs = append(jobs, Job{Source: src, Target: target, OutputPath: out})
	}

	return jobs, nil
}

// Result contains the outcome of a batch run
type Result struct {
	Requested  int        `json:"requested" yaml:"requested"`
	Successful []string   `json:"successful" yaml:"successful"`
	Skipped    []string   `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Failed     []JobError `json:"failed,omitempty" yaml:"failed,omitempty"`
}

// JobError contains information about a failed conversion
type JobError struct {
	Source string `json:"source" yaml:"source"`
	Err    error  `json:"-" yaml:"-"`
	Reason string `json:"error" yaml:"error"`
}

func (e JobError) Error() string {
	return fmt.Sprintf("failed to convert %s: %v", e.Source, e.Err)
}

func (e JobError) Unwrap() error {
	return e.Err
}

// Runner converts jobs concurrently
type Runner struct {
	converter   Converter
	logger      zerolog.Logger
	concurrency int
	dryRun      bool
	overwrite   bool
}

// Option configures a Runner
type Option func(*Runner)

// WithConcurrency sets how many conversions run at once, capped at MaxConcurrency
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = min(n, MaxConcurrency)
		}
	}
}

// WithDryRun reports what would be converted without calling the service
func WithDryRun(enabled bool) Option {
	return func(r *Runner) {
		r.dryRun = enabled
	}
}

// WithOverwrite replaces existing output files instead of skipping them
func WithOverwrite(enabled bool) Option {
	return func(r *Runner) {
		r.overwrite = enabled
	}
}

// WithLogger sets the runner's logger
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a runner that converts with the given converter
func NewRunner(converter Converter, opts ...Option) *Runner {
	r := &Runner{
		converter:   converter,
		logger:      zerolog.Nop(),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type outcome int

const (
	converted outcome = iota
	skipped
)

// Run converts every job. Individual failures are collected and never stop
// the remaining jobs; only context cancellation ends the run early.
func (r *Runner) Run(ctx context.Context, jobs []Job) Result {
	result := Result{Requested: len(jobs)}
	if len(jobs) == 0 {
		return result
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	successChan := make(chan string, len(jobs))
	skipChan := make(chan string, len(jobs))
	errorChan := make(chan JobError, len(jobs))

	for _, job := range jobs {
		g.Go(func() error {
			res, err := r.runJob(ctx, job)
			switch {
			case err != nil:
				errorChan <- JobError{Source: job.Source, Err: err, Reason: err.Error()}
			case res == skipped:
				skipChan <- job.Source
			default:
				successChan <- job.Source
			}
			return nil
		})
	}

	g.Wait()
	close(successChan)
	close(skipChan)
	close(errorChan)

	for src := range successChan {
		result.Successful = append(result.Successful, src)
	}
	for src := range skipChan {
		result.Skipped = append(result.Skipped, src)
	}
	for err := range errorChan {
		result.Failed = append(result.Failed, err)
	}

	sort.Strings(result.Successful)
	sort.Strings(result.Skipped)
	sort.Slice(result.Failed, func(i, j int) bool {
		return result.Failed[i].Source < result.Failed[j].Source
	})

	return result
}

func (r *Runner) runJob(ctx context.Context, job Job) (outcome, error) {
	if err := ctx.Err(); err != nil {
		return converted, err
	}

	if !r.overwrite {
		if _, err := os.Stat(job.OutputPath); err == nil {
			r.logger.Info().
				Str("source", job.Source).
				Str("output", job.OutputPath).
				Msg("Output exists, skipping")
			return skipped, nil
		}
	}

	if r.dryRun {
		r.logger.Info().
			Str("source", job.Source).
			Str("output", job.OutputPath).
			Msg("[DRY RUN] Would convert")
		return converted, nil
	}

	file, err := cloudmersive.ReadFile(job.Source)
	if err != nil {
		return converted, err
	}

	out, err := r.converter.Convert(ctx, file, job.Target)
	if err != nil {
		r.logger.Warn().
			Err(err).
			Str("source", job.Source).
			Msg("Conversion failed")
		return converted, err
	}

	if err := os.MkdirAll(filepath.Dir(job.OutputPath), 0o755); err != nil {
		return converted, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(job.OutputPath, out.Data, 0o644); err != nil {
		return converted, fmt.Errorf("failed to write output: %w", err)
	}

	r.logger.Info().
		Str("source", job.Source).
		Str("output", job.OutputPath).
		Int("bytes", len(out.Data)).
		Msg("Converted")
	return converted, nil
}
