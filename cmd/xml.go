package cmd

import (
	"github.com/spf13/cobra"

	"github.com/s0up4200/cloudconv/cloudmersive"
)

var (
	xpathExpr  string
	xqueryExpr string
	xmlValue   string
	xmlNode    string
	attrName   string
	xmlOut     string
)

// xmlCmd groups the XPath and XQuery commands
var xmlCmd = &cobra.Command{
	Use:   "xml",
	Short: "Select, query and edit XML documents",
	Long: `Select, query and edit XML documents with XPath and XQuery.

Editing commands print the result record. Use --out to write the edited
document to a file instead.

Examples:
  cloudconv xml filter books.xml --xpath "//book[@id='1']"
  cloudconv xml set-value books.xml --xpath "//book/title" --value "Go" --out books.new.xml
  cloudconv xml query-multi a.xml b.xml --xquery "for $b in //book return $b"`,
}

var xmlFilterCmd = &cobra.Command{
	Use:   "filter <file>",
	Short: "Select the nodes matching an XPath expression",
	Args:  cobra.ExactArgs(1),
	RunE: xmlRun(func(cmd *cobra.Command, in cloudmersive.File) (any, string, error) {
		res, err := dataAPI.XMLFilterWithXPath(cmd.Context(), in, xpathExpr)
		return res, "", err
	}),
}

var xmlQueryCmd = &cobra.Command{
	Use:   "query <file>",
	Short: "Run an XQuery against a document",
	Args:  cobra.ExactArgs(1),
	RunE: xmlRun(func(cmd *cobra.Command, in cloudmersive.File) (any, string, error) {
		res, err := dataAPI.XMLQueryWithXQuery(cmd.Context(), in, xqueryExpr)
		if err != nil {
			return nil, "", err
		}
		return res, res.ResultingXML, nil
	}),
}

var xmlQueryMultiCmd = &cobra.Command{
	Use:   "query-multi <file>...",
	Short: "Run an XQuery across up to ten documents",
	Args:  cobra.RangeArgs(1, 10),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs := make([]cloudmersive.File, 0, len(args))
		for _, path := range args {
			in, err := cloudmersive.ReadFile(path)
			if err != nil {
				return err
			}
			inputs = append(inputs, in)
		}

		res, err := dataAPI.XMLQueryWithXQueryMulti(cmd.Context(), xqueryExpr, inputs...)
		if err != nil {
			return errorResult(err)
		}
		return report(cmd, res, res.ResultingXML)
	},
}

var xmlSetValueCmd = &cobra.Command{
	Use:   "set-value <file>",
	Short: "Set the value of the nodes matching an XPath expression",
	Args:  cobra.ExactArgs(1),
	RunE: xmlRun(func(cmd *cobra.Command, in cloudmersive.File) (any, string, error) {
		return editResult(dataAPI.XMLSetValueWithXPath(cmd.Context(), in, xpathExpr, xmlValue))
	}),
}

var xmlReplaceCmd = &cobra.Command{
	Use:   "replace <file>",
	Short: "Replace the nodes matching an XPath expression",
	Args:  cobra.ExactArgs(1),
	RunE: xmlRun(func(cmd *cobra.Command, in cloudmersive.File) (any, string, error) {
		return editResult(dataAPI.XMLReplaceWithXPath(cmd.Context(), in, xpathExpr, xmlNode))
	}),
}

var xmlAddChildCmd = &cobra.Command{
	Use:   "add-child <file>",
	Short: "Append a child node to the nodes matching an XPath expression",
	Args:  cobra.ExactArgs(1),
	RunE: xmlRun(func(cmd *cobra.Command, in cloudmersive.File) (any, string, error) {
		return editResult(dataAPI.XMLAddChildWithXPath(cmd.Context(), in, xpathExpr, xmlNode))
	}),
}

var xmlAddAttributeCmd = &cobra.Command{
	Use:   "add-attribute <file>",
	Short: "Add an attribute to the nodes matching an XPath expression",
	Args:  cobra.ExactArgs(1),
	RunE: xmlRun(func(cmd *cobra.Command, in cloudmersive.File) (any, string, error) {
		return editResult(dataAPI.XMLAddAttributeWithXPath(cmd.Context(), in, xpathExpr, attrName, xmlValue))
	}),
}

var xmlRemoveCmd = &cobra.Command{
	Use:   "remove <file>",
	Short: "Remove the nodes matching an XPath expression",
	Args:  cobra.ExactArgs(1),
	RunE: xmlRun(func(cmd *cobra.Command, in cloudmersive.File) (any, string, error) {
		res, err := dataAPI.XMLRemoveWithXPath(cmd.Context(), in, xpathExpr)
		if err != nil {
			return nil, "", err
		}
		return res, res.ResultingXMLDocument, nil
	}),
}

var xmlRemoveChildrenCmd = &cobra.Command{
	Use:   "remove-children <file>",
	Short: "Remove all children of the nodes matching an XPath expression",
	Args:  cobra.ExactArgs(1),
	RunE: xmlRun(func(cmd *cobra.Command, in cloudmersive.File) (any, string, error) {
		return editResult(dataAPI.XMLRemoveAllChildrenWithXPath(cmd.Context(), in, xpathExpr))
	}),
}

func init() {
	for _, c := range []*cobra.Command{xmlFilterCmd, xmlSetValueCmd, xmlReplaceCmd, xmlAddChildCmd, xmlAddAttributeCmd, xmlRemoveCmd, xmlRemoveChildrenCmd} {
		c.Flags().StringVarP(&xpathExpr, "xpath", "x", "", "XPath expression selecting the nodes")
		c.MarkFlagRequired("xpath")
	}
	for _, c := range []*cobra.Command{xmlQueryCmd, xmlQueryMultiCmd} {
		c.Flags().StringVarP(&xqueryExpr, "xquery", "q", "", "XQuery expression")
		c.MarkFlagRequired("xquery")
	}
	for _, c := range []*cobra.Command{xmlQueryCmd, xmlQueryMultiCmd, xmlSetValueCmd, xmlReplaceCmd, xmlAddChildCmd, xmlAddAttributeCmd, xmlRemoveCmd, xmlRemoveChildrenCmd} {
		c.Flags().StringVarP(&xmlOut, "out", "o", "", "write the resulting XML to this file ('-' for stdout)")
	}

	xmlSetValueCmd.Flags().StringVar(&xmlValue, "value", "", "new node value")
	xmlAddAttributeCmd.Flags().StringVar(&attrName, "name", "", "attribute name")
	xmlAddAttributeCmd.Flags().StringVar(&xmlValue, "value", "", "attribute value")
	xmlAddAttributeCmd.MarkFlagRequired("name")
	xmlReplaceCmd.Flags().StringVar(&xmlNode, "node", "", "replacement XML node")
	xmlReplaceCmd.MarkFlagRequired("node")
	xmlAddChildCmd.Flags().StringVar(&xmlNode, "node", "", "XML node to add")
	xmlAddChildCmd.MarkFlagRequired("node")

	xmlCmd.AddCommand(
		xmlFilterCmd,
		xmlQueryCmd,
		xmlQueryMultiCmd,
		xmlSetValueCmd,
		xmlReplaceCmd,
		xmlAddChildCmd,
		xmlAddAttributeCmd,
		xmlRemoveCmd,
		xmlRemoveChildrenCmd,
	)
}

// xmlRun adapts a single document XML operation into a cobra RunE
func xmlRun(op func(cmd *cobra.Command, in cloudmersive.File) (any, string, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		in, err := cloudmersive.ReadFile(args[0])
		if err != nil {
			return err
		}

		res, document, err := op(cmd, in)
		if err != nil {
			return errorResult(err)
		}
		return report(cmd, res, document)
	}
}

func editResult(res *cloudmersive.XMLEditResult, err error) (any, string, error) {
	if err != nil {
		return nil, "", err
	}
	return res, res.ResultingXMLDocument, nil
}

// report prints the result record, or writes the resulting document when --out is set
func report(cmd *cobra.Command, res any, document string) error {
	if xmlOut != "" && document != "" {
		return writeOutput(cmd.OutOrStdout(), xmlOut, []byte(document))
	}
	return printResult(cmd.OutOrStdout(), res)
}
