package cloudmersive

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// ConvertDocumentAPI groups the Office, PDF and HTML format conversions
type ConvertDocumentAPI struct {
	client *Client
}

// NewConvertDocumentAPI creates the endpoint group. A nil client selects DefaultClient.
func NewConvertDocumentAPI(client *Client) *ConvertDocumentAPI {
	return &ConvertDocumentAPI{client: orDefault(client)}
}

// DocxToPdf converts an Office Word document (DOCX) to PDF
func (a *ConvertDocumentAPI) DocxToPdf(ctx context.Context, input File) ([]byte, error) {
	return a.binary(ctx, "/convert/docx/to/pdf", input)
}

// DocToPdf converts a legacy Word document (DOC) to PDF
func (a *ConvertDocumentAPI) DocToPdf(ctx context.Context, input File) ([]byte, error) {
	return a.binary(ctx, "/convert/doc/to/pdf", input)
}

// PptxToPdf converts a PowerPoint presentation (PPTX) to PDF
func (a *ConvertDocumentAPI) PptxToPdf(ctx context.Context, input File) ([]byte, error) {
	return a.binary(ctx, "/convert/pptx/to/pdf", input)
}

// PptToPdf converts a legacy PowerPoint presentation (PPT) to PDF
func (a *ConvertDocumentAPI) PptToPdf(ctx context.Context, input File) ([]byte, error) {
	return a.binary(ctx, "/convert/ppt/to/pdf", input)
}

// XlsxToPdf converts an Excel workbook (XLSX) to PDF
func (a *ConvertDocumentAPI) XlsxToPdf(ctx context.Context, input File) ([]byte, error) {
	return a.binary(ctx, "/convert/xlsx/to/pdf", input)
}

// XlsToPdf converts a legacy Excel workbook (XLS) to PDF
func (a *ConvertDocumentAPI) XlsToPdf(ctx context.Context, input File) ([]byte, error) {
	return a.binary(ctx, "/convert/xls/to/pdf", input)
}

// HTMLToPdf renders an HTML string to PDF
func (a *ConvertDocumentAPI) HTMLToPdf(ctx context.Context, in HTMLToPdfRequest) ([]byte, error) {
	if strings.TrimSpace(in.HTML) == "" {
		return nil, fmt.Errorf("html: %w", ErrEmptyInput)
	}
	req := &request{
		method: http.MethodPost,
		path:   "/convert/html/to/pdf",
		header: http.Header{},
		body:   in,
	}
	return a.client.doRequest(ctx, req)
}

// AutodetectToPdf lets the service detect the input format and converts it to PDF
func (a *ConvertDocumentAPI) AutodetectToPdf(ctx context.Context, input File) ([]byte, error) {
	return a.binary(ctx, "/convert/autodetect/to/pdf", input)
}

// PdfToDocx converts a PDF to an editable Word document
func (a *ConvertDocumentAPI) PdfToDocx(ctx context.Context, input File) ([]byte, error) {
	return a.binary(ctx, "/convert/pdf/to/docx", input)
}

// PdfToPptx converts a PDF to a PowerPoint presentation
func (a *ConvertDocumentAPI) PdfToPptx(ctx context.Context, input File) ([]byte, error) {
	return a.binary(ctx, "/convert/pdf/to/pptx", input)
}

// DocToDocx upgrades a legacy Word document to DOCX
func (a *ConvertDocumentAPI) DocToDocx(ctx context.Context, input File) ([]byte, error) {
	return a.binary(ctx, "/convert/doc/to/docx", input)
}

// PptToPptx upgrades a legacy PowerPoint presentation to PPTX
func (a *ConvertDocumentAPI) PptToPptx(ctx context.Context, input File) ([]byte, error) {
	return a.binary(ctx, "/convert/ppt/to/pptx", input)
}

// XlsToXlsx upgrades a legacy Excel workbook to XLSX
func (a *ConvertDocumentAPI) XlsToXlsx(ctx context.Context, input File) ([]byte, error) {
	return a.binary(ctx, "/convert/xls/to/xlsx", input)
}

// XlsxToCsv exports the first worksheet of an XLSX workbook as CSV
func (a *ConvertDocumentAPI) XlsxToCsv(ctx context.Context, input File) ([]byte, error) {
	return a.binary(ctx, "/convert/xlsx/to/csv", input)
}

// XlsToCsv exports the first worksheet of an XLS workbook as CSV
func (a *ConvertDocumentAPI) XlsToCsv(ctx context.Context, input File) ([]byte, error) {
	return a.binary(ctx, "/convert/xls/to/csv", input)
}

// CsvToXlsx converts a CSV file into an XLSX workbook
func (a *ConvertDocumentAPI) CsvToXlsx(ctx context.Context, input File) ([]byte, error) {
	return a.binary(ctx, "/convert/csv/to/xlsx", input)
}

// DocxToTxt extracts the text of a Word document
func (a *ConvertDocumentAPI) DocxToTxt(ctx context.Context, input File) (*TextConversionResult, error) {
	return a.text(ctx, "docx to txt", "/convert/docx/to/txt", input, "")
}

// PptxToTxt extracts the text of a PowerPoint presentation
func (a *ConvertDocumentAPI) PptxToTxt(ctx context.Context, input File) (*TextConversionResult, error) {
	return a.text(ctx, "pptx to txt", "/convert/pptx/to/txt", input, "")
}

// XlsxToTxt extracts the text of an Excel workbook
func (a *ConvertDocumentAPI) XlsxToTxt(ctx context.Context, input File) (*TextConversionResult, error) {
	return a.text(ctx, "xlsx to txt", "/convert/xlsx/to/txt", input, "")
}

// PdfToTxt extracts the text of a PDF
func (a *ConvertDocumentAPI) PdfToTxt(ctx context.Context, input File, opts *PdfToTxtOptions) (*TextConversionResult, error) {
	var mode TextFormattingMode
	if opts != nil {
		mode = opts.TextFormattingMode
	}
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: unknown text formatting mode %q", ErrInvalidConfig, mode)
	}
	return a.text(ctx, "pdf to txt", "/convert/pdf/to/txt", input, mode)
}

// AutodetectToTxt lets the service detect the input format and extracts its text
func (a *ConvertDocumentAPI) AutodetectToTxt(ctx context.Context, input File) (*TextConversionResult, error) {
	return a.text(ctx, "autodetect to txt", "/convert/autodetect/to/txt", input, "")
}

func (a *ConvertDocumentAPI) binary(ctx context.Context, path string, input File) ([]byte, error) {
	req, err := newFileRequest(path, formFile{"inputFile", input})
	if err != nil {
		return nil, err
	}
	return a.client.doRequest(ctx, req)
}

func (a *ConvertDocumentAPI) text(ctx context.Context, op, path string, input File, mode TextFormattingMode) (*TextConversionResult, error) {
	req, err := newFileRequest(path, formFile{"inputFile", input})
	if err != nil {
		return nil, err
	}
	req.setHeader("textFormattingMode", string(mode))
	return doResult[TextConversionResult](ctx, a.client, op, req)
}

// CompareDocumentAPI groups the document comparison endpoints
type CompareDocumentAPI struct {
	client *Client
}

// NewCompareDocumentAPI creates the endpoint group. A nil client selects DefaultClient.
func NewCompareDocumentAPI(client *Client) *CompareDocumentAPI {
	return &CompareDocumentAPI{client: orDefault(client)}
}

// CompareDocx compares two DOCX files and returns a DOCX with the differences highlighted
func (a *CompareDocumentAPI) CompareDocx(ctx context.Context, input1, input2 File) ([]byte, error) {
	req, err := newFileRequest("/convert/compare/docx",
		formFile{"inputFile1", input1},
		formFile{"inputFile2", input2},
	)
	if err != nil {
		return nil, err
	}
	return a.client.doRequest(ctx, req)
}
