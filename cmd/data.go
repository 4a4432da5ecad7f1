package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/s0up4200/cloudconv/cloudmersive"
)

var (
	columnNamesFromFirstRow bool
	dataOut                 string
)

// dataCmd groups the data conversion commands
var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Convert between CSV, spreadsheet, XML and JSON data",
}

var csvToJSONCmd = &cobra.Command{
	Use:   "csv-to-json <file>",
	Short: "Convert a CSV file into a JSON array of rows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := cloudmersive.ReadFile(args[0])
		if err != nil {
			return err
		}

		var opts *cloudmersive.CsvToJSONOptions
		if cmd.Flags().Changed("column-names") {
			opts = &cloudmersive.CsvToJSONOptions{ColumnNamesFromFirstRow: &columnNamesFromFirstRow}
		}

		out, err := dataAPI.CsvToJSON(cmd.Context(), file, opts)
		if err != nil {
			return errorResult(err)
		}
		return printJSON(cmd.OutOrStdout(), out)
	},
}

var jsonToXMLCmd = &cobra.Command{
	Use:   "json-to-xml <file>",
	Short: "Convert a JSON document into XML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		if !json.Valid(data) {
			return fmt.Errorf("%s is not valid JSON", args[0])
		}

		out, err := dataAPI.JSONToXML(cmd.Context(), json.RawMessage(data))
		if err != nil {
			return errorResult(err)
		}
		return writeOutput(cmd.OutOrStdout(), dataOut, out)
	},
}

// fileToJSONCommand builds a command for the endpoints that turn one file into JSON
func fileToJSONCommand(use, short string, call func(*cloudmersive.ConvertDataAPI, context.Context, cloudmersive.File) (json.RawMessage, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <file>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := cloudmersive.ReadFile(args[0])
			if err != nil {
				return err
			}

			out, err := call(dataAPI, cmd.Context(), file)
			if err != nil {
				return errorResult(err)
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

func init() {
	csvToJSONCmd.Flags().BoolVar(&columnNamesFromFirstRow, "column-names", true, "use the first row as column names")
	jsonToXMLCmd.Flags().StringVarP(&dataOut, "out", "o", "-", "output file, '-' for stdout")

	dataCmd.AddCommand(csvToJSONCmd)
	dataCmd.AddCommand(fileToJSONCommand("xlsx-to-json", "Convert the first worksheet of an XLSX file into JSON", (*cloudmersive.ConvertDataAPI).XlsxToJSON))
	dataCmd.AddCommand(fileToJSONCommand("xls-to-json", "Convert the first worksheet of an XLS file into JSON", (*cloudmersive.ConvertDataAPI).XlsToJSON))
	dataCmd.AddCommand(fileToJSONCommand("xml-to-json", "Convert an XML document into JSON", (*cloudmersive.ConvertDataAPI).XMLToJSON))
	dataCmd.AddCommand(jsonToXMLCmd)
}
