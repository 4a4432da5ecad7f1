package cloudmersive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// maxXQueryInputs is the number of documents the multi-document XQuery endpoint accepts
const maxXQueryInputs = 10

// ConvertDataAPI groups the CSV/JSON/XML/XLSX transcoding and XML editing endpoints
type ConvertDataAPI struct {
	client *Client
}

// NewConvertDataAPI creates the endpoint group. A nil client selects DefaultClient.
func NewConvertDataAPI(client *Client) *ConvertDataAPI {
	return &ConvertDataAPI{client: orDefault(client)}
}

// CsvToJSON converts a CSV file into a JSON array of rows
func (a *ConvertDataAPI) CsvToJSON(ctx context.Context, input File, opts *CsvToJSONOptions) (json.RawMessage, error) {
	req, err := newFileRequest("/convert/csv/to/json", formFile{"inputFile", input})
	if err != nil {
		return nil, err
	}
	if opts != nil && opts.ColumnNamesFromFirstRow != nil {
		req.setHeader("columnNamesFromFirstRow", strconv.FormatBool(*opts.ColumnNamesFromFirstRow))
	}
	return a.rawJSON(ctx, req)
}

// XlsxToJSON converts the first worksheet of an XLSX file into JSON
func (a *ConvertDataAPI) XlsxToJSON(ctx context.Context, input File) (json.RawMessage, error) {
	return a.fileToJSON(ctx, "/convert/xlsx/to/json", input)
}

// XlsToJSON converts the first worksheet of a legacy XLS file into JSON
func (a *ConvertDataAPI) XlsToJSON(ctx context.Context, input File) (json.RawMessage, error) {
	return a.fileToJSON(ctx, "/convert/xls/to/json", input)
}

// XMLToJSON converts an XML document into JSON
func (a *ConvertDataAPI) XMLToJSON(ctx context.Context, input File) (json.RawMessage, error) {
	return a.fileToJSON(ctx, "/convert/xml/to/json", input)
}

// JSONToXML converts any JSON-encodable value into an XML document
func (a *ConvertDataAPI) JSONToXML(ctx context.Context, value any) ([]byte, error) {
	if value == nil {
		return nil, fmt.Errorf("json object: %w", ErrEmptyInput)
	}
	req := &request{
		method: http.MethodPost,
		path:   "/convert/json/to/xml",
		header: http.Header{},
		body:   value,
	}
	return a.client.doRequest(ctx, req)
}

// XMLFilterWithXPath selects the nodes matching an XPath expression
func (a *ConvertDataAPI) XMLFilterWithXPath(ctx context.Context, input File, xpath string) (*XMLFilterResult, error) {
	req, err := a.xpathRequest("/convert/xml/select/xpath", input, xpath)
	if err != nil {
		return nil, err
	}
	return doResult[XMLFilterResult](ctx, a.client, "xml filter", req)
}

// XMLQueryWithXQuery runs an XQuery against a single document
func (a *ConvertDataAPI) XMLQueryWithXQuery(ctx context.Context, input File, xquery string) (*XMLQueryResult, error) {
	if xquery == "" {
		return nil, errors.New("xquery is required")
	}
	req, err := newFileRequest("/convert/xml/query/xquery", formFile{"inputFile", input})
	if err != nil {
		return nil, err
	}
	req.setHeader("XQuery", xquery)
	return doResult[XMLQueryResult](ctx, a.client, "xml query", req)
}

// XMLQueryWithXQueryMulti runs an XQuery across up to ten documents. The
// first input is required and is sent as inputFile1.
func (a *ConvertDataAPI) XMLQueryWithXQueryMulti(ctx context.Context, xquery string, inputs ...File) (*XMLQueryResult, error) {
	if xquery == "" {
		return nil, errors.New("xquery is required")
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("inputFile1: %w", ErrEmptyInput)
	}
	if len(inputs) > maxXQueryInputs {
		return nil, fmt.Errorf("%w: at most %d documents can be queried together, got %d",
			ErrInvalidConfig, maxXQueryInputs, len(inputs))
	}

	files := make([]formFile, 0, len(inputs))
	for i, in := range inputs {
		files = append(files, formFile{field: "inputFile" + strconv.Itoa(i+1), file: in})
	}
	req, err := newFileRequest("/convert/xml/query/xquery/multi", files...)
	if err != nil {
		return nil, err
	}
	req.setHeader("XQuery", xquery)
	return doResult[XMLQueryResult](ctx, a.client, "xml query multi", req)
}

// XMLSetValueWithXPath sets the value of every node matching the XPath expression
func (a *ConvertDataAPI) XMLSetValueWithXPath(ctx context.Context, input File, xpath, value string) (*XMLEditResult, error) {
	req, err := a.xpathRequest("/convert/xml/edit/xpath/set-value", input, xpath)
	if err != nil {
		return nil, err
	}
	req.header.Set("XmlValue", value)
	return doResult[XMLEditResult](ctx, a.client, "xml set-value", req)
}

// XMLReplaceWithXPath replaces every matching node with the given XML
func (a *ConvertDataAPI) XMLReplaceWithXPath(ctx context.Context, input File, xpath, replacement string) (*XMLEditResult, error) {
	req, err := a.xpathRequest("/convert/xml/edit/xpath/replace", input, xpath)
	if err != nil {
		return nil, err
	}
	req.header.Set("XmlNodeReplacement", replacement)
	return doResult[XMLEditResult](ctx, a.client, "xml replace", req)
}

// XMLAddChildWithXPath appends an XML node to every matching node
func (a *ConvertDataAPI) XMLAddChildWithXPath(ctx context.Context, input File, xpath, node string) (*XMLEditResult, error) {
	if node == "" {
		return nil, errors.New("xml node to add is required")
	}
	req, err := a.xpathRequest("/convert/xml/edit/xpath/add-child", input, xpath)
	if err != nil {
		return nil, err
	}
	req.header.Set("XmlNodeToAdd", node)
	return doResult[XMLEditResult](ctx, a.client, "xml add-child", req)
}

// XMLAddAttributeWithXPath adds an attribute to every matching node
func (a *ConvertDataAPI) XMLAddAttributeWithXPath(ctx context.Context, input File, xpath, name, value string) (*XMLEditResult, error) {
	if name == "" {
		return nil, errors.New("attribute name is required")
	}
	req, err := a.xpathRequest("/convert/xml/edit/xpath/add-attribute", input, xpath)
	if err != nil {
		return nil, err
	}
	req.header.Set("XmlAttributeName", name)
	req.header.Set("XmlAttributeValue", value)
	return doResult[XMLEditResult](ctx, a.client, "xml add-attribute", req)
}

// XMLRemoveWithXPath removes every node matching the XPath expression
func (a *ConvertDataAPI) XMLRemoveWithXPath(ctx context.Context, input File, xpath string) (*XMLRemoveResult, error) {
	req, err := a.xpathRequest("/convert/xml/edit/xpath/remove", input, xpath)
	if err != nil {
		return nil, err
	}
	return doResult[XMLRemoveResult](ctx, a.client, "xml remove", req)
}

// XMLRemoveAllChildrenWithXPath empties every node matching the XPath expression
func (a *ConvertDataAPI) XMLRemoveAllChildrenWithXPath(ctx context.Context, input File, xpath string) (*XMLEditResult, error) {
	req, err := a.xpathRequest("/convert/xml/edit/xpath/remove-all-children", input, xpath)
	if err != nil {
		return nil, err
	}
	return doResult[XMLEditResult](ctx, a.client, "xml remove-children", req)
}

func (a *ConvertDataAPI) fileToJSON(ctx context.Context, path string, input File) (json.RawMessage, error) {
	req, err := newFileRequest(path, formFile{"inputFile", input})
	if err != nil {
		return nil, err
	}
	return a.rawJSON(ctx, req)
}

func (a *ConvertDataAPI) rawJSON(ctx context.Context, req *request) (json.RawMessage, error) {
	data, err := a.client.doRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("failed to parse response: invalid JSON from %s", req.path)
	}
	return json.RawMessage(data), nil
}

func (a *ConvertDataAPI) xpathRequest(path string, input File, xpath string) (*request, error) {
	if xpath == "" {
		return nil, errors.New("xpath expression is required")
	}
	req, err := newFileRequest(path, formFile{"inputFile", input})
	if err != nil {
		return nil, err
	}
	req.setHeader("XPathExpression", xpath)
	return req, nil
}
