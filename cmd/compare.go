package cmd

import (
	"github.com/spf13/cobra"

	"github.com/s0up4200/cloudconv/cloudmersive"
)

var compareOut string

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare <original.docx> <revised.docx>",
	Short: "Compare two Word documents",
	Long: `Compare two DOCX files. The result is a DOCX document with the differences
highlighted.`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringVarP(&compareOut, "out", "o", "comparison.docx", "output file, '-' for stdout")
}

func runCompare(cmd *cobra.Command, args []string) error {
	original, err := cloudmersive.ReadFile(args[0])
	if err != nil {
		return err
	}
	revised, err := cloudmersive.ReadFile(args[1])
	if err != nil {
		return err
	}

	out, err := compareAPI.CompareDocx(cmd.Context(), original, revised)
	if err != nil {
		return errorResult(err)
	}

	return writeOutput(cmd.OutOrStdout(), compareOut, out)
}
