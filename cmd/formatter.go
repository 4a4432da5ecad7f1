package cmd

import (
	"fmt"
	"strings"

	"github.com/s0up4200/cloudconv/batch"
	"github.com/s0up4200/cloudconv/filter"
	"github.com/s0up4200/cloudconv/route"
)

// consoleFormatter renders results as trees for the text output format
type consoleFormatter struct{}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// branch returns the tree prefix and child indent for an item
func branch(isLast bool) (string, string) {
	if isLast {
		return "╰── ", "    "
	}
	return "├── ", "│   "
}

// FormatDocuments lists selected files with their format, size and age
func (consoleFormatter) FormatDocuments(docs []filter.Document) string {
	if len(docs) == 0 {
		return "No files found\n"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%s (%d):\n\n", plural(len(docs), "File"), len(docs))

	for i, doc := range docs {
		prefix, indent := branch(i == len(docs)-1)
		fmt.Fprintf(&sb, "%s%s\n", prefix, doc.Name)

		format := string(doc.Format)
		if format == "" {
			format = "unknown"
		}
		fmt.Fprintf(&sb, "%sFormat: %s | Size: %s | Modified: %s\n",
			indent, format, humanSize(doc.Size), doc.Modified.Format("2006-01-02"))
		fmt.Fprintf(&sb, "%sPath: %s\n", indent, doc.Path)
	}

	sb.WriteString("\n")
	return sb.String()
}

// FormatBatchResult summarizes a batch run
func (consoleFormatter) FormatBatchResult(result batch.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\nConverted %d of %d %s", len(result.Successful), result.Requested, plural(result.Requested, "file"))
	if len(result.Skipped) > 0 {
		fmt.Fprintf(&sb, ", skipped %d", len(result.Skipped))
	}
	if len(result.Failed) > 0 {
		fmt.Fprintf(&sb, ", %d failed", len(result.Failed))
	}
	sb.WriteString("\n")

	if len(result.Failed) > 0 {
		sb.WriteString("\nFailures:\n")
		for i, f := range result.Failed {
			prefix, indent := branch(i == len(result.Failed)-1)
			fmt.Fprintf(&sb, "%s%s\n%s%s\n", prefix, f.Source, indent, f.Reason)
		}
	}

	return sb.String()
}

// FormatRoutes groups the supported targets by source format
func (consoleFormatter) FormatRoutes(pairs []route.Pair) string {
	var sb strings.Builder
	var targets []string

	for i, p := range pairs {
		targets = append(targets, string(p.To))
		if i == len(pairs)-1 || pairs[i+1].From != p.From {
			fmt.Fprintf(&sb, "%-5s -> %s\n", p.From, strings.Join(targets, ", "))
			targets = targets[:0]
		}
	}
	sb.WriteString("other -> pdf, txt (autodetect)\n")
	return sb.String()
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
