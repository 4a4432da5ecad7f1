package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/cloudconv/batch"
	"github.com/s0up4200/cloudconv/cloudmersive"
	"github.com/s0up4200/cloudconv/route"
)

var (
	convertTo      string
	convertOut     string
	pdfTextMode    string
	convertCharset string
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Convert a single file into another format",
	Long: `Convert a file into the target format. The source format is detected from
the file's content and falls back to its extension. Formats without a
dedicated endpoint are sent to the autodetecting PDF and text endpoints.

Examples:
  cloudconv convert report.docx --to pdf
  cloudconv convert scan.pdf --to txt --pdf-text-mode minimizeWhitespace --out -
  cloudconv convert legacy.csv --to xlsx --charset windows-1252`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertTo, "to", "t", "", "target format (pdf, docx, txt, json, ...)")
	convertCmd.Flags().StringVarP(&convertOut, "out", "o", "", "output file, '-' for stdout (default: beside the source)")
	convertCmd.Flags().StringVar(&pdfTextMode, "pdf-text-mode", "", "whitespace handling for pdf to txt (preserveWhitespace or minimizeWhitespace)")
	convertCmd.Flags().StringVar(&convertCharset, "charset", "", "source text charset to convert to UTF-8 before upload")
	convertCmd.MarkFlagRequired("to")
}

func runConvert(cmd *cobra.Command, args []string) error {
	target := route.ParseFormat(convertTo)
	if target == route.Unknown {
		return fmt.Errorf("unknown target format: %s", convertTo)
	}

	mode := cloudmersive.TextFormattingMode(pdfTextMode)
	if !mode.IsValid() {
		return fmt.Errorf("invalid pdf text mode: %s", pdfTextMode)
	}

	file, err := cloudmersive.ReadFile(args[0])
	if err != nil {
		return err
	}

	if convertCharset != "" {
		file.Data, err = route.Transcode(file.Data, convertCharset)
		if err != nil {
			return err
		}
	}

	outPath := convertOut
	if outPath == "" {
		jobs, err := batch.Plan([]string{args[0]}, target, "")
		if err != nil {
			return err
		}
		outPath = jobs[0].OutputPath
	}

	out, err := newRouter(route.WithPdfTextMode(mode)).Convert(cmd.Context(), file, target)
	if err != nil {
		return errorResult(err)
	}

	return writeOutput(cmd.OutOrStdout(), outPath, out.Data)
}
