package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/cloudconv/batch"
	"github.com/s0up4200/cloudconv/config"
)

// resetFlags restores every flag to its default and clears its changed
// state, since cobra keeps both between executions.
func resetFlags() {
	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		for _, fs := range []*pflag.FlagSet{c.Flags(), c.PersistentFlags()} {
			fs.VisitAll(func(f *pflag.Flag) {
				f.Value.Set(f.DefValue)
				f.Changed = false
			})
		}
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(rootCmd)
	cfg, registry = nil, nil
}

// runCLI executes the root command with args and returns its stdout
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// writeConfig writes a config file pointing at baseURL
func writeConfig(t *testing.T, baseURL, extra string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := fmt.Sprintf("api:\n  base_path: %s\n  api_key: test-key\nlogging:\n  level: error\n%s", baseURL, extra)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newAPIServer(t *testing.T, handler http.HandlerFunc) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Apikey") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"Message":"bad key"}`))
			return
		}
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return server.URL
}

func TestConvertCommand(t *testing.T) {
	url := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/convert/docx/to/pdf", r.URL.Path)
		assert.Contains(t, r.Header.Get("User-Agent"), "cloudconv/")
		w.Write([]byte("%PDF-converted"))
	})
	cfgPath := writeConfig(t, url, "")

	dir := t.TempDir()
	src := filepath.Join(dir, "report.docx")
	require.NoError(t, os.WriteFile(src, []byte("docx content"), 0o644))

	_, err := runCLI(t, "convert", src, "--to", "pdf", "--config", cfgPath)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "report.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-converted", string(data))
}

func TestConvertCommandToStdout(t *testing.T) {
	url := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/convert/pdf/to/txt", r.URL.Path)
		assert.Equal(t, "minimizeWhitespace", r.Header.Get("textFormattingMode"))
		w.Write([]byte(`{"Successful":true,"TextResult":"hello text"}`))
	})
	cfgPath := writeConfig(t, url, "")

	src := filepath.Join(t.TempDir(), "scan.pdf")
	require.NoError(t, os.WriteFile(src, []byte("%PDF-1.4\n"), 0o644))

	out, err := runCLI(t, "convert", src, "--to", "txt", "--out", "-", "--pdf-text-mode", "minimizeWhitespace", "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "hello text", out)
}

func TestConvertCommandErrors(t *testing.T) {
	url := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {})
	cfgPath := writeConfig(t, url, "")

	src := filepath.Join(t.TempDir(), "a.docx")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

	_, err := runCLI(t, "convert", src, "--to", "odt", "--config", cfgPath)
	assert.EqualError(t, err, "unknown target format: odt")

	_, err = runCLI(t, "convert", src, "--to", "txt", "--pdf-text-mode", "compact", "--config", cfgPath)
	assert.EqualError(t, err, "invalid pdf text mode: compact")
}

func TestUnauthorizedHint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"Message":"invalid key"}`))
	}))
	t.Cleanup(server.Close)
	cfgPath := writeConfig(t, server.URL, "")

	src := filepath.Join(t.TempDir(), "a.docx")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

	_, err := runCLI(t, "convert", src, "--to", "pdf", "--out", "-", "--config", cfgPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Contains(t, err.Error(), "CLOUDCONV_API_KEY")
}

func TestDataCommandYAML(t *testing.T) {
	url := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/convert/csv/to/json", r.URL.Path)
		assert.Equal(t, "false", r.Header.Get("columnNamesFromFirstRow"))
		w.Write([]byte(`[{"name":"ann"}]`))
	})
	cfgPath := writeConfig(t, url, "")

	src := filepath.Join(t.TempDir(), "people.csv")
	require.NoError(t, os.WriteFile(src, []byte("name\nann\n"), 0o644))

	out, err := runCLI(t, "data", "csv-to-json", src, "--column-names=false", "--output", "yaml", "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "- name: ann\n", out)
}

func TestXMLSetValueCommand(t *testing.T) {
	url := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/convert/xml/edit/xpath/set-value", r.URL.Path)
		assert.Equal(t, "//book", r.Header.Get("XPathExpression"))
		assert.Equal(t, "Go", r.Header.Get("XmlValue"))
		json.NewEncoder(w).Encode(map[string]any{
			"Successful":           true,
			"ResultingXmlDocument": "<books><book>Go</book></books>",
			"NodesEditedCount":     1,
		})
	})
	cfgPath := writeConfig(t, url, "")

	src := filepath.Join(t.TempDir(), "books.xml")
	require.NoError(t, os.WriteFile(src, []byte("<books><book>C</book></books>"), 0o644))

	out, err := runCLI(t, "xml", "set-value", src, "--xpath", "//book", "--value", "Go", "--config", cfgPath)
	require.NoError(t, err)

	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, float64(1), res["NodesEditedCount"])

	out, err = runCLI(t, "xml", "set-value", src, "--xpath", "//book", "--value", "Go", "--out", "-", "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "<books><book>Go</book></books>", out)
}

func TestBatchCommand(t *testing.T) {
	url := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pdf:" + r.URL.Path))
	})
	metricsPath := filepath.Join(t.TempDir(), "cloudconv.prom")
	cfgPath := writeConfig(t, url, fmt.Sprintf("filter:\n  presets:\n    word: hasExt(\"docx\")\nmetrics:\n  textfile: %s\n", metricsPath))

	dir := t.TempDir()
	for _, name := range []string{"a.docx", "b.docx", "c.xlsx", "d.pdf"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("content "+name), 0o644))
	}
	outDir := filepath.Join(t.TempDir(), "out")

	out, err := runCLI(t, "batch", dir, "--to", "pdf", "--preset", "word", "--out-dir", outDir, "--config", cfgPath)
	require.NoError(t, err)

	var result batch.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 2, result.Requested)
	assert.Len(t, result.Successful, 2)
	assert.Empty(t, result.Failed)

	data, err := os.ReadFile(filepath.Join(outDir, "a.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "pdf:/convert/docx/to/pdf", string(data))

	require.NoError(t, writeMetrics())
	metrics, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `cloudmersive_requests_total{code="200",endpoint="/convert/docx/to/pdf"} 2`)
}

func TestBatchCommandFilterAndList(t *testing.T) {
	url := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL.Path)
	})
	cfgPath := writeConfig(t, url, "")

	dir := t.TempDir()
	for _, name := range []string{"a.docx", "b.xlsx"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("content"), 0o644))
	}

	out, err := runCLI(t, "batch", dir, "--list", "--filter", `hasExt("xlsx")`, "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "b.xlsx"`)
	assert.NotContains(t, out, "a.docx")

	out, err = runCLI(t, "batch", dir, "--to", "pdf", "--dry-run", "--config", cfgPath)
	require.NoError(t, err)
	var result batch.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Len(t, result.Successful, 2)

	_, err = runCLI(t, "batch", dir, "--to", "pdf", "--preset", "missing", "--config", cfgPath)
	assert.EqualError(t, err, "preset 'missing' not found in config")
}

func TestRoutesCommandWithoutConfig(t *testing.T) {
	out, err := runCLI(t, "routes", "--output", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "- from: csv\n  to: json\n")
}

func TestInvalidOutputFormat(t *testing.T) {
	_, err := runCLI(t, "routes", "--output", "toml")
	assert.EqualError(t, err, "invalid output format: toml (must be 'json', 'yaml' or 'text')")
}

func TestVersionCommand(t *testing.T) {
	SetVersion("v1.2.3", "2025-01-01")
	t.Cleanup(func() { SetVersion("dev", "unknown") })

	out, err := runCLI(t, "version")
	require.NoError(t, err)

	var info versionInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "v1.2.3", info.Version)
	assert.True(t, info.Release)
	assert.Equal(t, "2025-01-01", info.BuildTime)

	_, err = parseVersion("dev")
	assert.Error(t, err)
}

func TestSetupLogger(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			setupLogger(config.LoggingConfig{Level: tt.level, Format: "json"})
			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}

func TestWriteOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeOutput(&buf, "-", []byte("stdout data")))
	assert.Equal(t, "stdout data", buf.String())

	path := filepath.Join(t.TempDir(), "nested", "out.bin")
	require.NoError(t, writeOutput(&buf, path, []byte("file data")))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "file data", string(data))
}

func TestPrintJSONInvalid(t *testing.T) {
	err := printJSON(io.Discard, []byte("{nope"))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "service returned invalid JSON"))
}
