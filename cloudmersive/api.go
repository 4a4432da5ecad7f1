package cloudmersive

import (
	"context"
	"encoding/json"
)

// DataConverter defines the data conversion and XML editing operations
type DataConverter interface {
	CsvToJSON(ctx context.Context, input File, opts *CsvToJSONOptions) (json.RawMessage, error)
	XlsxToJSON(ctx context.Context, input File) (json.RawMessage, error)
	XlsToJSON(ctx context.Context, input File) (json.RawMessage, error)
	XMLToJSON(ctx context.Context, input File) (json.RawMessage, error)
	JSONToXML(ctx context.Context, value any) ([]byte, error)

	XMLFilterWithXPath(ctx context.Context, input File, xpath string) (*XMLFilterResult, error)
	XMLQueryWithXQuery(ctx context.Context, input File, xquery string) (*XMLQueryResult, error)
	XMLQueryWithXQueryMulti(ctx context.Context, xquery string, inputs ...File) (*XMLQueryResult, error)
	XMLSetValueWithXPath(ctx context.Context, input File, xpath, value string) (*XMLEditResult, error)
	XMLReplaceWithXPath(ctx context.Context, input File, xpath, replacement string) (*XMLEditResult, error)
	XMLAddChildWithXPath(ctx context.Context, input File, xpath, node string) (*XMLEditResult, error)
	XMLAddAttributeWithXPath(ctx context.Context, input File, xpath, name, value string) (*XMLEditResult, error)
	XMLRemoveWithXPath(ctx context.Context, input File, xpath string) (*XMLRemoveResult, error)
	XMLRemoveAllChildrenWithXPath(ctx context.Context, input File, xpath string) (*XMLEditResult, error)
}

// DocumentConverter defines the Office and PDF format conversions
type DocumentConverter interface {
	DocxToPdf(ctx context.Context, input File) ([]byte, error)
	DocToPdf(ctx context.Context, input File) ([]byte, error)
	PptxToPdf(ctx context.Context, input File) ([]byte, error)
	PptToPdf(ctx context.Context, input File) ([]byte, error)
	XlsxToPdf(ctx context.Context, input File) ([]byte, error)
	XlsToPdf(ctx context.Context, input File) ([]byte, error)
	HTMLToPdf(ctx context.Context, req HTMLToPdfRequest) ([]byte, error)
	AutodetectToPdf(ctx context.Context, input File) ([]byte, error)
	PdfToDocx(ctx context.Context, input File) ([]byte, error)
	PdfToPptx(ctx context.Context, input File) ([]byte, error)
	DocToDocx(ctx context.Context, input File) ([]byte, error)
	PptToPptx(ctx context.Context, input File) ([]byte, error)
	XlsToXlsx(ctx context.Context, input File) ([]byte, error)
	XlsxToCsv(ctx context.Context, input File) ([]byte, error)
	XlsToCsv(ctx context.Context, input File) ([]byte, error)
	CsvToXlsx(ctx context.Context, input File) ([]byte, error)

	DocxToTxt(ctx context.Context, input File) (*TextConversionResult, error)
	PptxToTxt(ctx context.Context, input File) (*TextConversionResult, error)
	XlsxToTxt(ctx context.Context, input File) (*TextConversionResult, error)
	PdfToTxt(ctx context.Context, input File, opts *PdfToTxtOptions) (*TextConversionResult, error)
	AutodetectToTxt(ctx context.Context, input File) (*TextConversionResult, error)
}

// DocumentComparer defines the document comparison operation
type DocumentComparer interface {
	// CompareDocx highlights the differences between two Word documents
	CompareDocx(ctx context.Context, input1, input2 File) ([]byte, error)
}

var (
	_ DataConverter     = (*ConvertDataAPI)(nil)
	_ DocumentConverter = (*ConvertDocumentAPI)(nil)
	_ DocumentComparer  = (*CompareDocumentAPI)(nil)
)
