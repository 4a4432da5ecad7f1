package cloudmersive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// File is an input document sent as a multipart form field
type File struct {
	Name string
	Data []byte
}

// NewFile creates a File from an in-memory buffer
func NewFile(name string, data []byte) File {
	return File{Name: name, Data: data}
}

// ReadFile loads a document from disk
func ReadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return File{Name: filepath.Base(path), Data: data}, nil
}

// IsEmpty reports whether the file carries no content
func (f File) IsEmpty() bool {
	return len(f.Data) == 0
}

// CollectionFormat describes how array parameters are serialized
type CollectionFormat string

const (
	// CollectionFormatCSV joins values with commas
	CollectionFormatCSV CollectionFormat = "csv"
	// CollectionFormatSSV joins values with spaces
	CollectionFormatSSV CollectionFormat = "ssv"
	// CollectionFormatTSV joins values with tabs
	CollectionFormatTSV CollectionFormat = "tsv"
	// CollectionFormatPipes joins values with pipes
	CollectionFormatPipes CollectionFormat = "pipes"
	// CollectionFormatMulti repeats the parameter once per value
	CollectionFormatMulti CollectionFormat = "multi"
)

// Separator returns the delimiter used by the format. Multi has none.
func (cf CollectionFormat) Separator() string {
	switch cf {
	case CollectionFormatCSV:
		return ","
	case CollectionFormatSSV:
		return " "
	case CollectionFormatTSV:
		return "\t"
	case CollectionFormatPipes:
		return "|"
	default:
		return ""
	}
}

// Join serializes values for use as parameter values. Multi returns the
// values unchanged so each one becomes its own parameter.
func (cf CollectionFormat) Join(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	if cf == CollectionFormatMulti {
		return append([]string(nil), values...)
	}
	sep := cf.Separator()
	if sep == "" {
		sep = ","
	}
	return []string{strings.Join(values, sep)}
}

// ParseDate parses an ISO-8601 date or date-time as sent by the API
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO-8601 date %q", s)
}

// TextFormattingMode controls whitespace handling for PDF text extraction
type TextFormattingMode string

const (
	// TextFormattingPreserveWhitespace keeps layout whitespace
	TextFormattingPreserveWhitespace TextFormattingMode = "preserveWhitespace"
	// TextFormattingMinimizeWhitespace collapses layout whitespace
	TextFormattingMinimizeWhitespace TextFormattingMode = "minimizeWhitespace"
)

// IsValid checks the mode against the values the service accepts
func (m TextFormattingMode) IsValid() bool {
	return m == "" || m == TextFormattingPreserveWhitespace || m == TextFormattingMinimizeWhitespace
}

// CsvToJSONOptions holds optional parameters for CSV to JSON conversion
type CsvToJSONOptions struct {
	// ColumnNamesFromFirstRow uses the first row as property names. Server default is true.
	ColumnNamesFromFirstRow *bool
}

// PdfToTxtOptions holds optional parameters for PDF to text conversion
type PdfToTxtOptions struct {
	TextFormattingMode TextFormattingMode
}

// HTMLToPdfRequest is the JSON body for HTML to PDF rendering
type HTMLToPdfRequest struct {
	HTML                      string `json:"Html"`
	ExtraLoadingWait          int    `json:"ExtraLoadingWait,omitempty"`
	IncludeBackgroundGraphics bool   `json:"IncludeBackgroundGraphics,omitempty"`
	ScaleFactor               int    `json:"ScaleFactor,omitempty"`
}

// TextConversionResult is returned by the *-to-txt endpoints
type TextConversionResult struct {
	Successful bool   `json:"Successful" yaml:"successful"`
	TextResult string `json:"TextResult" yaml:"text_result"`
}

// XMLFilterResult is returned by the XPath filter endpoint
type XMLFilterResult struct {
	Successful   bool     `json:"Successful" yaml:"successful"`
	XMLNodes     []string `json:"XmlNodes" yaml:"xml_nodes"`
	ResultCount  int      `json:"ResultCount" yaml:"result_count"`
	ErrorMessage string   `json:"ErrorMessage,omitempty" yaml:"error_message,omitempty"`
}

// XMLQueryResult is returned by the XQuery endpoints
type XMLQueryResult struct {
	Successful   bool   `json:"Successful" yaml:"successful"`
	ResultingXML string `json:"ResultingXml" yaml:"resulting_xml"`
	ErrorMessage string `json:"ErrorMessage,omitempty" yaml:"error_message,omitempty"`
}

// XMLEditResult is returned by the XPath edit endpoints
type XMLEditResult struct {
	Successful           bool   `json:"Successful" yaml:"successful"`
	ResultingXMLDocument string `json:"ResultingXmlDocument" yaml:"resulting_xml_document"`
	NodesEditedCount     int    `json:"NodesEditedCount" yaml:"nodes_edited_count"`
	ErrorMessage         string `json:"ErrorMessage,omitempty" yaml:"error_message,omitempty"`
}

// XMLRemoveResult is returned by the XPath remove endpoint
type XMLRemoveResult struct {
	Successful           bool     `json:"Successful" yaml:"successful"`
	ResultingXMLDocument string   `json:"ResultingXmlDocument" yaml:"resulting_xml_document"`
	XMLNodesRemoved      []string `json:"XmlNodesRemoved" yaml:"xml_nodes_removed"`
	NodesRemovedCount    int      `json:"NodesRemovedCount" yaml:"nodes_removed_count"`
	ErrorMessage         string   `json:"ErrorMessage,omitempty" yaml:"error_message,omitempty"`
}

// succeeded is implemented by every JSON result record
type succeeded interface {
	success() (bool, string)
}

func (r *TextConversionResult) success() (bool, string) { return r.Successful, "" }
func (r *XMLFilterResult) success() (bool, string)      { return r.Successful, r.ErrorMessage }
func (r *XMLQueryResult) success() (bool, string)       { return r.Successful, r.ErrorMessage }
func (r *XMLEditResult) success() (bool, string)        { return r.Successful, r.ErrorMessage }
func (r *XMLRemoveResult) success() (bool, string)      { return r.Successful, r.ErrorMessage }
