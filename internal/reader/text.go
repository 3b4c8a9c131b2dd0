package reader

import (
	"bytes"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// TextFormat implements Format for plain text files.
type TextFormat struct{}

func (f *TextFormat) Name() string         { return "Text" }
func (f *TextFormat) Extensions() []string { return []string{".txt"} }

func (f *TextFormat) Extract(filename string) (string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", ioErr(filename, err)
	}
	return DecodeText(data), nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// fallbackEncodings are tried in order when the input is not valid UTF-8.
// GBK is a superset of GB2312.
var fallbackEncodings = []encoding.Encoding{
	simplifiedchinese.GBK,
	traditionalchinese.Big5,
	unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM),
	unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM),
}

// DecodeText converts raw file bytes to UTF-8. Valid UTF-8 is returned
// as-is; otherwise the first fallback encoding that decodes without
// replacement characters wins. As a last resort invalid bytes are dropped.
func DecodeText(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data)
	}
	for _, enc := range fallbackEncodings {
		out, err := enc.NewDecoder().Bytes(data)
		if err != nil {
			continue
		}
		if bytes.ContainsRune(out, utf8.RuneError) {
			continue
		}
		return string(out)
	}
	return strings.ToValidUTF8(string(data), "")
}
