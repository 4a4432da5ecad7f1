package route

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Format identifies a document or data format
type Format string

const (
	Unknown Format = ""
	PDF     Format = "pdf"
	DOCX    Format = "docx"
	DOC     Format = "doc"
	PPTX    Format = "pptx"
	PPT     Format = "ppt"
	XLSX    Format = "xlsx"
	XLS     Format = "xls"
	HTML    Format = "html"
	CSV     Format = "csv"
	XML     Format = "xml"
	JSON    Format = "json"
	TXT     Format = "txt"
)

// Extension returns the file extension for the format, including the dot
func (f Format) Extension() string {
	if f == Unknown {
		return ""
	}
	return "." + string(f)
}

// IsText reports whether the format is plain text that may need transcoding
func (f Format) IsText() bool {
	switch f {
	case CSV, HTML, TXT, XML:
		return true
	default:
		return false
	}
}

// ParseFormat parses a user supplied format name such as "PDF" or ".docx"
func ParseFormat(s string) Format {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")
	switch s {
	case "htm":
		return HTML
	case "text":
		return TXT
	}
	f := Format(s)
	for _, known := range allFormats {
		if f == known {
			return f
		}
	}
	return Unknown
}

var allFormats = []Format{PDF, DOCX, DOC, PPTX, PPT, XLSX, XLS, HTML, CSV, XML, JSON, TXT}

// mimeFormats maps detected MIME types to formats, most specific first
var mimeFormats = []struct {
	mime   string
	format Format
}{
	{"application/pdf", PDF},
	{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", DOCX},
	{"application/vnd.openxmlformats-officedocument.presentationml.presentation", PPTX},
	{"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", XLSX},
	{"application/msword", DOC},
	{"application/vnd.ms-powerpoint", PPT},
	{"application/vnd.ms-excel", XLS},
	{"text/html", HTML},
	{"text/csv", CSV},
	{"text/xml", XML},
	{"application/json", JSON},
}

// genericMIMEs are detections too vague to beat the file extension
var genericMIMEs = []string{
	"application/octet-stream",
	"text/plain",
	"application/zip",
	"application/x-ole-storage",
}

// Detect determines the format of a document from its content, falling back
// to the file name's extension when content detection is inconclusive.
func Detect(name string, data []byte) Format {
	mtype := mimetype.Detect(data)

	generic := false
	for _, g := range genericMIMEs {
		if mtype.Is(g) {
			generic = true
			break
		}
	}

	if !generic {
		for m := mtype; m != nil; m = m.Parent() {
			for _, mf := range mimeFormats {
				if m.Is(mf.mime) {
					return mf.format
				}
			}
		}
	}

	if f := ParseFormat(filepath.Ext(name)); f != Unknown {
		return f
	}

	if mtype.Is("text/plain") {
		return TXT
	}
	return Unknown
}
