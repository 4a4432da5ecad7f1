package cmd

import (
	"github.com/spf13/cobra"

	"github.com/s0up4200/cloudconv/route"
)

// routesCmd lists the supported conversions
var routesCmd = &cobra.Command{
	Use:         "routes",
	Short:       "List the supported source and target formats",
	Long:        `List every conversion with a dedicated endpoint. Other sources converted to pdf or txt use the autodetecting endpoints.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipInit: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return printResult(cmd.OutOrStdout(), route.Routes())
	},
}
