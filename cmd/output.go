package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/s0up4200/cloudconv/batch"
	"github.com/s0up4200/cloudconv/filter"
	"github.com/s0up4200/cloudconv/route"
)

// printResult writes v in the selected output format. The text format
// covers documents, batch results and routes; anything else falls back to JSON.
func printResult(w io.Writer, v any) error {
	switch outputFormat {
	case "text":
		var f consoleFormatter
		switch r := v.(type) {
		case []filter.Document:
			_, err := io.WriteString(w, f.FormatDocuments(r))
			return err
		case batch.Result:
			_, err := io.WriteString(w, f.FormatBatchResult(r))
			return err
		case []route.Pair:
			_, err := io.WriteString(w, f.FormatRoutes(r))
			return err
		}
		return printJSONValue(w, v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return printJSONValue(w, v)
	}
}

func printJSONValue(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printJSON prints raw JSON from the service, re-encoded when YAML is selected
func printJSON(w io.Writer, raw json.RawMessage) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("service returned invalid JSON: %w", err)
	}
	return printResult(w, v)
}

// writeOutput writes converted bytes to path, or to w when path is "-"
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "-" {
		_, err := w.Write(data)
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	logger.Info().Str("output", path).Int("bytes", len(data)).Msg("Wrote output")
	return nil
}
