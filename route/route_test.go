package route

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/cloudconv/cloudmersive"
)

// recorder captures the requests seen by the fake service
type recorder struct {
	mu      sync.Mutex
	paths   []string
	uploads []string
	bodies  []string
}

func (rec *recorder) last() (string, string, string) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.paths) == 0 {
		return "", "", ""
	}
	i := len(rec.paths) - 1
	return rec.paths[i], rec.uploads[i], rec.bodies[i]
}

func newTestRouter(t *testing.T, opts ...RouterOption) (*Router, *recorder) {
	t.Helper()

	rec := &recorder{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var upload, body string
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
			if f, _, err := r.FormFile("inputFile"); err == nil {
				data, _ := io.ReadAll(f)
				f.Close()
				upload = string(data)
			}
		} else {
			data, _ := io.ReadAll(r.Body)
			body = string(data)
		}

		rec.mu.Lock()
		rec.paths = append(rec.paths, r.URL.Path)
		rec.uploads = append(rec.uploads, upload)
		rec.bodies = append(rec.bodies, body)
		rec.mu.Unlock()

		switch {
		case strings.HasSuffix(r.URL.Path, "/to/txt"):
			json.NewEncoder(w).Encode(cloudmersive.TextConversionResult{Successful: true, TextResult: "text:" + r.URL.Path})
		case strings.HasSuffix(r.URL.Path, "/to/json"):
			json.NewEncoder(w).Encode(map[string]string{"path": r.URL.Path})
		default:
			w.Write([]byte("bytes:" + r.URL.Path))
		}
	}))
	t.Cleanup(server.Close)

	client, err := cloudmersive.NewClient(
		cloudmersive.WithBasePath(server.URL),
		cloudmersive.WithAPIKey("test-key"),
	)
	require.NoError(t, err)

	router := NewRouter(
		cloudmersive.NewConvertDataAPI(client),
		cloudmersive.NewConvertDocumentAPI(client),
		opts...,
	)
	return router, rec
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		data     []byte
		want     Format
	}{
		{name: "pdf by content", fileName: "upload", data: []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n"), want: PDF},
		{name: "html by content", fileName: "page.html", data: []byte("<!DOCTYPE html><html><body>hi</body></html>"), want: HTML},
		{name: "json by content", fileName: "data.json", data: []byte(`{"a": 1, "b": [1, 2]}`), want: JSON},
		{name: "xml by content", fileName: "feed.xml", data: []byte(`<?xml version="1.0" encoding="UTF-8"?><root><a>1</a></root>`), want: XML},
		{name: "csv by extension", fileName: "people.csv", data: []byte("name,age\nann,3\nbob,4\n"), want: CSV},
		{name: "generic content uses extension", fileName: "report.DOCX", data: []byte("not really a zip"), want: DOCX},
		{name: "plain text without extension", fileName: "notes", data: []byte("just some words\n"), want: TXT},
		{name: "unknown binary", fileName: "blob.bin", data: []byte{0x00, 0x01, 0x02, 0x03, 0xff}, want: Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.fileName, tt.data))
		})
	}
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, PDF, ParseFormat("PDF"))
	assert.Equal(t, DOCX, ParseFormat(".docx"))
	assert.Equal(t, HTML, ParseFormat("htm"))
	assert.Equal(t, TXT, ParseFormat(" text "))
	assert.Equal(t, Unknown, ParseFormat("odt"))
	assert.Equal(t, ".xlsx", XLSX.Extension())
	assert.Equal(t, "", Unknown.Extension())
}

func TestRouterConvert(t *testing.T) {
	tests := []struct {
		name     string
		file     cloudmersive.File
		target   Format
		wantPath string
		wantData string
	}{
		{
			name:     "docx to pdf",
			file:     cloudmersive.NewFile("a.docx", []byte("docx bytes")),
			target:   PDF,
			wantPath: "/convert/docx/to/pdf",
			wantData: "bytes:/convert/docx/to/pdf",
		},
		{
			name:     "xls to xlsx",
			file:     cloudmersive.NewFile("a.xls", []byte("xls bytes")),
			target:   XLSX,
			wantPath: "/convert/xls/to/xlsx",
			wantData: "bytes:/convert/xls/to/xlsx",
		},
		{
			name:     "pdf to text",
			file:     cloudmersive.NewFile("a.pdf", []byte("%PDF-1.4\n")),
			target:   TXT,
			wantPath: "/convert/pdf/to/txt",
			wantData: "text:/convert/pdf/to/txt",
		},
		{
			name:     "csv to json",
			file:     cloudmersive.NewFile("a.csv", []byte("a,b\n1,2\n")),
			target:   JSON,
			wantPath: "/convert/csv/to/json",
			wantData: `{"path":"/convert/csv/to/json"}`,
		},
		{
			name:     "unlisted source falls back to autodetect",
			file:     cloudmersive.NewFile("notes.txt", []byte("hello")),
			target:   PDF,
			wantPath: "/convert/autodetect/to/pdf",
			wantData: "bytes:/convert/autodetect/to/pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, rec := newTestRouter(t)

			out, err := router.Convert(context.Background(), tt.file, tt.target)
			require.NoError(t, err)

			path, _, _ := rec.last()
			assert.Equal(t, tt.wantPath, path)
			assert.Equal(t, tt.target, out.Format)
			assert.JSONEq(t, jsonOr(tt.wantData), jsonOr(strings.TrimSpace(string(out.Data))))
		})
	}
}

// jsonOr quotes non-JSON strings so JSONEq can compare both kinds of output
func jsonOr(s string) string {
	if json.Valid([]byte(s)) {
		return s
	}
	quoted, _ := json.Marshal(s)
	return string(quoted)
}

func TestRouterHTMLAndJSONBodies(t *testing.T) {
	router, rec := newTestRouter(t)

	_, err := router.Convert(context.Background(),
		cloudmersive.NewFile("page.html", []byte("<html><body>hi</body></html>")), PDF)
	require.NoError(t, err)
	path, _, body := rec.last()
	assert.Equal(t, "/convert/html/to/pdf", path)
	var req cloudmersive.HTMLToPdfRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	assert.Equal(t, "<html><body>hi</body></html>", req.HTML)

	_, err = router.Convert(context.Background(),
		cloudmersive.NewFile("data.json", []byte(`{"a":1}`)), XML)
	require.NoError(t, err)
	path, _, body = rec.last()
	assert.Equal(t, "/convert/json/to/xml", path)
	assert.JSONEq(t, `{"a":1}`, body)
}

func TestRouterUnsupported(t *testing.T) {
	router, rec := newTestRouter(t)

	_, err := router.Convert(context.Background(), cloudmersive.NewFile("a.pdf", []byte("%PDF-1.4\n")), CSV)
	require.Error(t, err)

	var routeErr *UnsupportedRouteError
	require.True(t, errors.As(err, &routeErr))
	assert.Equal(t, PDF, routeErr.From)
	assert.Equal(t, CSV, routeErr.To)
	assert.Equal(t, "no conversion route from pdf to csv", err.Error())

	path, _, _ := rec.last()
	assert.Empty(t, path, "no request should be sent")
}

func TestRouterRejectsEmptyFile(t *testing.T) {
	router, _ := newTestRouter(t)

	_, err := router.Convert(context.Background(), cloudmersive.NewFile("a.docx", nil), PDF)
	assert.ErrorIs(t, err, cloudmersive.ErrEmptyInput)
}

func TestRouterTranscode(t *testing.T) {
	latin1 := []byte("name,city,notes\nzo\xe9,caf\xe9 town,the r\xe9sum\xe9 was sent\n" +
		"ren\xe9,cr\xe8me street,d\xe9j\xe0 vu for the second time\n")

	router, rec := newTestRouter(t, WithTranscode(true))
	_, err := router.Convert(context.Background(), cloudmersive.NewFile("people.csv", latin1), XLSX)
	require.NoError(t, err)

	_, upload, _ := rec.last()
	assert.Contains(t, upload, "café town")

	router, rec = newTestRouter(t)
	_, err = router.Convert(context.Background(), cloudmersive.NewFile("people.csv", latin1), XLSX)
	require.NoError(t, err)

	_, upload, _ = rec.last()
	assert.Equal(t, string(latin1), upload)
}

func TestRouterTranscodeXML(t *testing.T) {
	latin1 := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
		"<people><person city=\"caf\xe9 town\">zo\xe9</person></people>\n")

	router, rec := newTestRouter(t, WithTranscode(true))
	_, err := router.Convert(context.Background(), cloudmersive.NewFile("people.xml", latin1), JSON)
	require.NoError(t, err)

	_, upload, _ := rec.last()
	assert.Contains(t, upload, "café town")
	assert.Contains(t, upload, `encoding="UTF-8"`)
	assert.NotContains(t, upload, "ISO-8859-1")
}

func TestXMLToUTF8(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "declared charset",
			in:   "<?xml version='1.0' encoding='windows-1252'?><a>caf\xe9</a>",
			want: "<?xml version='1.0' encoding='UTF-8'?><a>café</a>",
		},
		{
			name: "already utf-8",
			in:   `<?xml version="1.0" encoding="ISO-8859-1"?><a>plain</a>`,
			want: `<?xml version="1.0" encoding="ISO-8859-1"?><a>plain</a>`,
		},
		{
			name: "no declaration",
			in:   "<a>the r\xe9sum\xe9 was sent to the caf\xe9 in the cr\xe8me street</a>",
			want: "<a>the résumé was sent to the café in the crème street</a>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(XMLToUTF8([]byte(tt.in))))
		})
	}
}

func TestTranscode(t *testing.T) {
	out, err := Transcode([]byte("caf\xe9"), "windows-1252")
	require.NoError(t, err)
	assert.Equal(t, "café", string(out))

	out, err = Transcode([]byte("déjà vu"), "")
	require.NoError(t, err)
	assert.Equal(t, "déjà vu", string(out))

	out, err = Transcode([]byte("\xff\xfeh\x00i\x00"), "utf-16le")
	require.NoError(t, err)
	assert.Equal(t, "hi", string(out))

	out, err = Transcode([]byte("<?xml version=\"1.0\" encoding=\"latin1\"?><a>\xe9</a>"), "latin1")
	require.NoError(t, err)
	assert.Equal(t, `<?xml version="1.0" encoding="UTF-8"?><a>é</a>`, string(out))

	_, err = Transcode([]byte("x"), "klingon")
	assert.EqualError(t, err, `unsupported charset "klingon"`)
}

func TestRoutes(t *testing.T) {
	routes := Routes()
	require.NotEmpty(t, routes)
	assert.Contains(t, routes, Pair{From: DOCX, To: PDF})
	assert.Contains(t, routes, Pair{From: JSON, To: XML})

	for i := 1; i < len(routes); i++ {
		prev, cur := routes[i-1], routes[i]
		assert.True(t, prev.From < cur.From || (prev.From == cur.From && prev.To < cur.To))
	}

	assert.True(t, Supported(XML, JSON))
	assert.True(t, Supported(Unknown, TXT))
	assert.False(t, Supported(PDF, PDF))
	assert.False(t, Supported(PDF, CSV))
}
