package route

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// Transcode converts text in the named charset to UTF-8. An empty charset
// asks for detection.
func Transcode(data []byte, charset string) ([]byte, error) {
	if charset == "" {
		return ToUTF8(data), nil
	}

	enc := lookupEncoding(charset)
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", charset)
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s text: %w", charset, err)
	}
	return declareUTF8(decoded), nil
}

// xmlEncodingDecl matches the encoding attribute of an XML declaration.
// Group 1 is the charset name.
var xmlEncodingDecl = regexp.MustCompile(`^(?:\x{FEFF})?\s*<\?xml\s[^>]*?\bencoding\s*=\s*["']([^"']*)["']`)

// XMLToUTF8 converts an XML document to UTF-8. The charset named in the XML
// declaration is preferred over detection, and the declaration is updated
// to say UTF-8 once the bytes have been converted.
func XMLToUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	if m := xmlEncodingDecl.FindSubmatchIndex(data); m != nil {
		if enc := lookupEncoding(string(data[m[2]:m[3]])); enc != nil {
			if decoded, err := enc.NewDecoder().Bytes(data); err == nil && utf8.Valid(decoded) {
				return declareUTF8(decoded)
			}
		}
	}

	decoded := ToUTF8(data)
	if !utf8.Valid(decoded) {
		return data
	}
	return declareUTF8(decoded)
}

// declareUTF8 rewrites the encoding attribute of a leading XML declaration
// so the document is not decoded a second time by the receiver.
func declareUTF8(data []byte) []byte {
	m := xmlEncodingDecl.FindSubmatchIndex(data)
	if m == nil || strings.EqualFold(string(data[m[2]:m[3]]), "utf-8") {
		return data
	}

	out := make([]byte, 0, len(data))
	out = append(out, data[:m[2]]...)
	out = append(out, "UTF-8"...)
	return append(out, data[m[3]:]...)
}

// ToUTF8 detects the encoding of data and returns it as UTF-8. Data that is
// already valid UTF-8 is returned unchanged.
func ToUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	results, err := chardet.NewTextDetector().DetectAll(data)
	if err != nil || len(results) == 0 {
		return data
	}

	bestScore := -1
	var best []byte
	for _, r := range results {
		enc := lookupEncoding(r.Charset)
		if enc == nil {
			continue
		}
		decoded, err := enc.NewDecoder().Bytes(data)
		if err != nil {
			continue
		}
		if score := scoreDecoded(decoded, r.Confidence); score > bestScore {
			bestScore = score
			best = decoded
		}
	}

	if best == nil {
		return data
	}
	return best
}

// scoreDecoded rates a decoding by detector confidence minus penalties for
// replacement and control characters.
func scoreDecoded(text []byte, confidence int) int {
	score := confidence
	for _, r := range string(text) {
		switch {
		case r == utf8.RuneError:
			score -= 10
		case r < 0x20 && r != '\n' && r != '\r' && r != '\t':
			score -= 5
		}
	}
	return score
}

func lookupEncoding(charset string) encoding.Encoding {
	switch strings.ToLower(strings.NewReplacer("-", "", "_", "").Replace(charset)) {
	case "utf8", "ascii", "usascii":
		return unicode.UTF8
	case "utf16le":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case "utf16be":
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	case "iso88591", "latin1":
		return charmap.ISO8859_1
	case "iso88592":
		return charmap.ISO8859_2
	case "iso88595":
		return charmap.ISO8859_5
	case "iso88597":
		return charmap.ISO8859_7
	case "iso88599":
		return charmap.ISO8859_9
	case "iso885915":
		return charmap.ISO8859_15
	case "windows1250", "cp1250":
		return charmap.Windows1250
	case "windows1251", "cp1251":
		return charmap.Windows1251
	case "windows1252", "cp1252":
		return charmap.Windows1252
	case "koi8r":
		return charmap.KOI8R
	case "shiftjis", "sjis", "cp932":
		return japanese.ShiftJIS
	case "eucjp":
		return japanese.EUCJP
	case "euckr", "cp949":
		return korean.EUCKR
	case "gb2312", "gbk", "gb18030":
		return simplifiedchinese.GBK
	case "big5", "cp950":
		return traditionalchinese.Big5
	default:
		return nil
	}
}
