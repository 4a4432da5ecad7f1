package route

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/s0up4200/cloudconv/cloudmersive"
)

// Output is the result of a routed conversion
type Output struct {
	Format Format
	Data   []byte
}

// UnsupportedRouteError is returned when no endpoint converts between two formats
type UnsupportedRouteError struct {
	From Format
	To   Format
}

func (e *UnsupportedRouteError) Error() string {
	from := string(e.From)
	if e.From == Unknown {
		from = "unknown"
	}
	return fmt.Sprintf("no conversion route from %s to %s", from, e.To)
}

// Pair is a supported source and target format combination
type Pair struct {
	From Format `json:"from" yaml:"from"`
	To   Format `json:"to" yaml:"to"`
}

type convertFunc func(ctx context.Context, r *Router, in cloudmersive.File) ([]byte, error)

// Router picks the endpoint for a source and target format pair
type Router struct {
	data      cloudmersive.DataConverter
	docs      cloudmersive.DocumentConverter
	logger    zerolog.Logger
	transcode bool
	pdfMode   cloudmersive.TextFormattingMode
}

// RouterOption configures a Router
type RouterOption func(*Router)

// WithTranscode enables converting text sources to UTF-8 before upload
func WithTranscode(enabled bool) RouterOption {
	return func(r *Router) {
		r.transcode = enabled
	}
}

// WithPdfTextMode sets the whitespace handling for PDF to text conversions
func WithPdfTextMode(mode cloudmersive.TextFormattingMode) RouterOption {
	return func(r *Router) {
		r.pdfMode = mode
	}
}

// WithRouterLogger sets the logger used for routing decisions
func WithRouterLogger(logger zerolog.Logger) RouterOption {
	return func(r *Router) {
		r.logger = logger
	}
}

// NewRouter creates a router over the given endpoint groups
func NewRouter(data cloudmersive.DataConverter, docs cloudmersive.DocumentConverter, opts ...RouterOption) *Router {
	r := &Router{
		data:   data,
		docs:   docs,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Convert converts a file into the target format. The source format is
// detected from the file's content and name.
func (r *Router) Convert(ctx context.Context, file cloudmersive.File, target Format) (*Output, error) {
	if file.IsEmpty() {
		return nil, fmt.Errorf("%s: %w", file.Name, cloudmersive.ErrEmptyInput)
	}

	source := Detect(file.Name, file.Data)
	fn, ok := lookup(source, target)
	if !ok {
		return nil, &UnsupportedRouteError{From: source, To: target}
	}

	if r.transcode && source.IsText() {
		if source == XML {
			file.Data = XMLToUTF8(file.Data)
		} else {
			file.Data = ToUTF8(file.Data)
		}
	}

	r.logger.Debug().
		Str("file", file.Name).
		Str("from", string(source)).
		Str("to", string(target)).
		Msg("Converting document")

	data, err := fn(ctx, r, file)
	if err != nil {
		return nil, err
	}
	return &Output{Format: target, Data: data}, nil
}

// Supported reports whether a conversion route exists between two formats
func Supported(from, to Format) bool {
	_, ok := lookup(from, to)
	return ok
}

// Routes lists every supported conversion, ordered by source then target
func Routes() []Pair {
	pairs := make([]Pair, 0, len(routes))
	for p := range routes {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].From != pairs[j].From {
			return pairs[i].From < pairs[j].From
		}
		return pairs[i].To < pairs[j].To
	})
	return pairs
}

// lookup finds an explicit route, falling back to the autodetecting
// endpoints for PDF and text targets.
func lookup(from, to Format) (convertFunc, bool) {
	if fn, ok := routes[Pair{From: from, To: to}]; ok {
		return fn, true
	}
	if from == to {
		return nil, false
	}
	switch to {
	case PDF:
		return autodetectPdf, true
	case TXT:
		return autodetectTxt, true
	}
	return nil, false
}

var routes = map[Pair]convertFunc{
	{DOCX, PDF}: binary(cloudmersive.DocumentConverter.DocxToPdf),
	{DOC, PDF}:  binary(cloudmersive.DocumentConverter.DocToPdf),
	{PPTX, PDF}: binary(cloudmersive.DocumentConverter.PptxToPdf),
	{PPT, PDF}:  binary(cloudmersive.DocumentConverter.PptToPdf),
	{XLSX, PDF}: binary(cloudmersive.DocumentConverter.XlsxToPdf),
	{XLS, PDF}:  binary(cloudmersive.DocumentConverter.XlsToPdf),
	{HTML, PDF}: htmlToPdf,

	{PDF, DOCX}:  binary(cloudmersive.DocumentConverter.PdfToDocx),
	{PDF, PPTX}:  binary(cloudmersive.DocumentConverter.PdfToPptx),
	{DOC, DOCX}:  binary(cloudmersive.DocumentConverter.DocToDocx),
	{PPT, PPTX}:  binary(cloudmersive.DocumentConverter.PptToPptx),
	{XLS, XLSX}:  binary(cloudmersive.DocumentConverter.XlsToXlsx),
	{XLSX, CSV}:  binary(cloudmersive.DocumentConverter.XlsxToCsv),
	{XLS, CSV}:   binary(cloudmersive.DocumentConverter.XlsToCsv),
	{CSV, XLSX}:  binary(cloudmersive.DocumentConverter.CsvToXlsx),
	{DOCX, TXT}:  text(cloudmersive.DocumentConverter.DocxToTxt),
	{PPTX, TXT}:  text(cloudmersive.DocumentConverter.PptxToTxt),
	{XLSX, TXT}:  text(cloudmersive.DocumentConverter.XlsxToTxt),
	{PDF, TXT}:   pdfToTxt,
	{CSV, JSON}:  csvToJSON,
	{XLSX, JSON}: dataJSON(cloudmersive.DataConverter.XlsxToJSON),
	{XLS, JSON}:  dataJSON(cloudmersive.DataConverter.XlsToJSON),
	{XML, JSON}:  dataJSON(cloudmersive.DataConverter.XMLToJSON),
	{JSON, XML}:  jsonToXML,
}

func binary(call func(cloudmersive.DocumentConverter, context.Context, cloudmersive.File) ([]byte, error)) convertFunc {
	return func(ctx context.Context, r *Router, in cloudmersive.File) ([]byte, error) {
		return call(r.docs, ctx, in)
	}
}

func text(call func(cloudmersive.DocumentConverter, context.Context, cloudmersive.File) (*cloudmersive.TextConversionResult, error)) convertFunc {
	return func(ctx context.Context, r *Router, in cloudmersive.File) ([]byte, error) {
		res, err := call(r.docs, ctx, in)
		if err != nil {
			return nil, err
		}
		return []byte(res.TextResult), nil
	}
}

func dataJSON(call func(cloudmersive.DataConverter, context.Context, cloudmersive.File) (json.RawMessage, error)) convertFunc {
	return func(ctx context.Context, r *Router, in cloudmersive.File) ([]byte, error) {
		return call(r.data, ctx, in)
	}
}

func htmlToPdf(ctx context.Context, r *Router, in cloudmersive.File) ([]byte, error) {
	return r.docs.HTMLToPdf(ctx, cloudmersive.HTMLToPdfRequest{HTML: string(in.Data)})
}

func pdfToTxt(ctx context.Context, r *Router, in cloudmersive.File) ([]byte, error) {
	var opts *cloudmersive.PdfToTxtOptions
	if r.pdfMode != "" {
		opts = &cloudmersive.PdfToTxtOptions{TextFormattingMode: r.pdfMode}
	}
	res, err := r.docs.PdfToTxt(ctx, in, opts)
	if err != nil {
		return nil, err
	}
	return []byte(res.TextResult), nil
}

func csvToJSON(ctx context.Context, r *Router, in cloudmersive.File) ([]byte, error) {
	return r.data.CsvToJSON(ctx, in, nil)
}

func jsonToXML(ctx context.Context, r *Router, in cloudmersive.File) ([]byte, error) {
	if !json.Valid(in.Data) {
		return nil, fmt.Errorf("%s: input is not valid JSON", in.Name)
	}
	return r.data.JSONToXML(ctx, json.RawMessage(in.Data))
}

func autodetectPdf(ctx context.Context, r *Router, in cloudmersive.File) ([]byte, error) {
	return r.docs.AutodetectToPdf(ctx, in)
}

func autodetectTxt(ctx context.Context, r *Router, in cloudmersive.File) ([]byte, error) {
	res, err := r.docs.AutodetectToTxt(ctx, in)
	if err != nil {
		return nil, err
	}
	return []byte(res.TextResult), nil
}
