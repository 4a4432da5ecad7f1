package cloudmersive

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinaryDocumentConversions(t *testing.T) {
	type binaryCall func(*ConvertDocumentAPI, context.Context, File) ([]byte, error)

	tests := []struct {
		path string
		call binaryCall
	}{
		{"/convert/docx/to/pdf", (*ConvertDocumentAPI).DocxToPdf},
		{"/convert/doc/to/pdf", (*ConvertDocumentAPI).DocToPdf},
		{"/convert/pptx/to/pdf", (*ConvertDocumentAPI).PptxToPdf},
		{"/convert/ppt/to/pdf", (*ConvertDocumentAPI).PptToPdf},
		{"/convert/xlsx/to/pdf", (*ConvertDocumentAPI).XlsxToPdf},
		{"/convert/xls/to/pdf", (*ConvertDocumentAPI).XlsToPdf},
		{"/convert/autodetect/to/pdf", (*ConvertDocumentAPI).AutodetectToPdf},
		{"/convert/pdf/to/docx", (*ConvertDocumentAPI).PdfToDocx},
		{"/convert/pdf/to/pptx", (*ConvertDocumentAPI).PdfToPptx},
		{"/convert/doc/to/docx", (*ConvertDocumentAPI).DocToDocx},
		{"/convert/ppt/to/pptx", (*ConvertDocumentAPI).PptToPptx},
		{"/convert/xls/to/xlsx", (*ConvertDocumentAPI).XlsToXlsx},
		{"/convert/xlsx/to/csv", (*ConvertDocumentAPI).XlsxToCsv},
		{"/convert/xls/to/csv", (*ConvertDocumentAPI).XlsToCsv},
		{"/convert/csv/to/xlsx", (*ConvertDocumentAPI).CsvToXlsx},
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, header, err := r.FormFile("inputFile")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "input.bin", header.Filename)
		// Echo the path so each case can check its routing
		w.Write([]byte(r.URL.Path))
	})
	api := NewConvertDocumentAPI(client)

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			out, err := tt.call(api, context.Background(), NewFile("input.bin", []byte{0x01, 0x02}))
			require.NoError(t, err)
			assert.Equal(t, tt.path, string(out))
		})
	}
}

func TestTextDocumentConversions(t *testing.T) {
	tests := []struct {
		path string
		call func(*ConvertDocumentAPI, File) (*TextConversionResult, error)
	}{
		{"/convert/docx/to/txt", func(a *ConvertDocumentAPI, f File) (*TextConversionResult, error) {
			return a.DocxToTxt(context.Background(), f)
		}},
		{"/convert/pptx/to/txt", func(a *ConvertDocumentAPI, f File) (*TextConversionResult, error) {
			return a.PptxToTxt(context.Background(), f)
		}},
		{"/convert/xlsx/to/txt", func(a *ConvertDocumentAPI, f File) (*TextConversionResult, error) {
			return a.XlsxToTxt(context.Background(), f)
		}},
		{"/convert/pdf/to/txt", func(a *ConvertDocumentAPI, f File) (*TextConversionResult, error) {
			return a.PdfToTxt(context.Background(), f, nil)
		}},
		{"/convert/autodetect/to/txt", func(a *ConvertDocumentAPI, f File) (*TextConversionResult, error) {
			return a.AutodetectToTxt(context.Background(), f)
		}},
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(TextConversionResult{Successful: true, TextResult: r.URL.Path})
	})
	api := NewConvertDocumentAPI(client)

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			result, err := tt.call(api, NewFile("doc", []byte("x")))
			require.NoError(t, err)
			assert.True(t, result.Successful)
			assert.Equal(t, tt.path, result.TextResult)
		})
	}
}

func TestPdfToTxtFormattingMode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "minimizeWhitespace", r.Header.Get("textFormattingMode"))
		w.Write([]byte(`{"Successful":true,"TextResult":"hello"}`))
	})
	api := NewConvertDocumentAPI(client)

	result, err := api.PdfToTxt(context.Background(), NewFile("a.pdf", []byte("%PDF")),
		&PdfToTxtOptions{TextFormattingMode: TextFormattingMinimizeWhitespace})
	require.NoError(t, err)
	assert.Equal(t, "hello", result.TextResult)

	_, err = api.PdfToTxt(context.Background(), NewFile("a.pdf", []byte("%PDF")),
		&PdfToTxtOptions{TextFormattingMode: "squash"})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestTextConversionUnsuccessful(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Successful":false}`))
	})

	result, err := NewConvertDocumentAPI(client).DocxToTxt(context.Background(), NewFile("a.docx", []byte("x")))
	assert.ErrorIs(t, err, ErrUnsuccessful)
	require.NotNil(t, result)
	assert.False(t, result.Successful)
}

func TestHTMLToPdf(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/convert/html/to/pdf", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "<h1>Hi</h1>", body["Html"])
		assert.Equal(t, float64(500), body["ExtraLoadingWait"])
		_, hasScale := body["ScaleFactor"]
		assert.False(t, hasScale)

		w.Write([]byte("%PDF-1.7"))
	})
	api := NewConvertDocumentAPI(client)

	out, err := api.HTMLToPdf(context.Background(), HTMLToPdfRequest{HTML: "<h1>Hi</h1>", ExtraLoadingWait: 500})
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(out))

	_, err = api.HTMLToPdf(context.Background(), HTMLToPdfRequest{HTML: "  "})
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestCompareDocx(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/convert/compare/docx", r.URL.Path)
		assert.Equal(t, "first", readUpload(t, r, "inputFile1"))
		assert.Equal(t, "second", readUpload(t, r, "inputFile2"))
		w.Write([]byte("diff"))
	})
	api := NewCompareDocumentAPI(client)

	out, err := api.CompareDocx(context.Background(),
		NewFile("v1.docx", []byte("first")),
		NewFile("v2.docx", []byte("second")),
	)
	require.NoError(t, err)
	assert.Equal(t, "diff", string(out))

	_, err = api.CompareDocx(context.Background(), NewFile("v1.docx", []byte("first")), File{})
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Contains(t, err.Error(), "inputFile2")
}

func TestBinaryConversionAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"Message":"Input file is not a valid DOCX"}`)
	})

	_, err := NewConvertDocumentAPI(client).DocxToPdf(context.Background(), NewFile("a.docx", []byte("nope")))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Input file is not a valid DOCX", apiErr.Message)
	assert.False(t, apiErr.IsServerError())
}
