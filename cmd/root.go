package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/cloudconv/cloudmersive"
	"github.com/s0up4200/cloudconv/config"
	"github.com/s0up4200/cloudconv/route"
)

// skipInit marks commands that run without configuration or an API key
const skipInit = "skip-init"

var (
	cfgFile      string
	outputFormat string
	cfg          *config.Config
	logger       = zerolog.Nop()
	registry     *prometheus.Registry

	client     *cloudmersive.Client
	dataAPI    *cloudmersive.ConvertDataAPI
	docAPI     *cloudmersive.ConvertDocumentAPI
	compareAPI *cloudmersive.CompareDocumentAPI
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cloudconv",
	Short: "Convert documents and data with the Cloudmersive Convert API",
	Long: `cloudconv converts Office, PDF, HTML and data files through the Cloudmersive
Convert API. It can convert single files, edit XML documents with XPath and
XQuery, compare Word documents and convert whole directories selected with
filter expressions.`,
	SilenceUsage:      true,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if mErr := writeMetrics(); mErr != nil {
		logger.Warn().Err(mErr).Msg("Failed to write metrics")
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output", "json", "result format (json, yaml or text)")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(dataCmd)
	rootCmd.AddCommand(xmlCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(routesCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp loads the configuration and builds the API clients
func initializeApp(cmd *cobra.Command, args []string) error {
	switch outputFormat {
	case "json", "yaml", "text":
	default:
		return fmt.Errorf("invalid output format: %s (must be 'json', 'yaml' or 'text')", outputFormat)
	}

	if !needsInit(cmd) {
		logger = setupLogger(config.LoggingConfig{Level: "info", Format: "console", Color: true})
		return nil
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	registry = prometheus.NewRegistry()
	metrics, err := cloudmersive.NewMetrics(registry)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	client, err = cloudmersive.NewClient(clientOptions(cfg.API, metrics)...)
	if err != nil {
		return fmt.Errorf("failed to create Cloudmersive client: %w", err)
	}
	cloudmersive.SetDefaultClient(client)

	dataAPI = cloudmersive.NewConvertDataAPI(client)
	docAPI = cloudmersive.NewConvertDocumentAPI(client)
	compareAPI = cloudmersive.NewCompareDocumentAPI(client)

	logger.Debug().
		Str("base_path", client.BasePath()).
		Dur("timeout", cfg.API.Timeout).
		Int("max_retries", cfg.API.MaxRetries).
		Msg("Client initialized")

	return nil
}

// needsInit reports whether cmd talks to the API
func needsInit(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipInit] == "true" {
			return false
		}
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

func clientOptions(api config.APIConfig, metrics *cloudmersive.Metrics) []cloudmersive.Option {
	userAgent := api.UserAgent
	if userAgent == "" {
		userAgent = "cloudconv/" + appVersion
	}

	return []cloudmersive.Option{
		cloudmersive.WithBasePath(api.BasePath),
		cloudmersive.WithAPIKey(api.APIKey),
		cloudmersive.WithTimeout(api.Timeout),
		cloudmersive.WithCache(api.Cache),
		cloudmersive.WithCookies(api.EnableCookies),
		cloudmersive.WithDefaultHeaders(api.DefaultHeaders),
		cloudmersive.WithMaxRetries(api.MaxRetries),
		cloudmersive.WithRetryDelay(api.RetryDelay),
		cloudmersive.WithUserAgent(userAgent),
		cloudmersive.WithLogger(logger),
		cloudmersive.WithMetrics(metrics),
	}
}

// newRouter creates a router over the configured endpoint groups
func newRouter(opts ...route.RouterOption) *route.Router {
	opts = append([]route.RouterOption{
		route.WithTranscode(cfg.Batch.Transcode),
		route.WithRouterLogger(logger),
	}, opts...)
	return route.NewRouter(dataAPI, docAPI, opts...)
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal(os.Stderr),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// writeMetrics stores the request metrics in a node-exporter textfile
func writeMetrics() error {
	if cfg == nil || registry == nil || cfg.Metrics.Textfile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(cfg.Metrics.Textfile, registry); err != nil {
		return fmt.Errorf("failed to write %s: %w", cfg.Metrics.Textfile, err)
	}
	return nil
}

// errorResult reports an API error's details before returning it
func errorResult(err error) error {
	var apiErr *cloudmersive.APIError
	if errors.As(err, &apiErr) {
		logger.Debug().
			Int("status", apiErr.StatusCode).
			Str("body", apiErr.Body).
			Msg("API request failed")
		if apiErr.IsUnauthorized() {
			return fmt.Errorf("%w (check api.api_key or %s_API_KEY)", err, config.EnvPrefix)
		}
	}
	return err
}
