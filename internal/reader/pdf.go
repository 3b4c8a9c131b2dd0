package reader

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFFormat implements Format for PDF files using the document's text
// layer. Scanned PDFs without text yield an empty string.
type PDFFormat struct{}

func (f *PDFFormat) Name() string         { return "PDF" }
func (f *PDFFormat) Extensions() []string { return []string{".pdf"} }

func (f *PDFFormat) Extract(filename string) (text string, err error) {
	// The pdf package panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", parseErr(filename, fmt.Errorf("%v", r))
		}
	}()

	fh, r, err := pdf.Open(filename)
	if err != nil {
		var pe *fs.PathError
		if errors.As(err, &pe) {
			return "", ioErr(filename, err)
		}
		return "", parseErr(filename, err)
	}
	defer fh.Close()

	var parts []string
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		t, err := p.GetPlainText(nil)
		if err != nil {
			return "", parseErr(filename, fmt.Errorf("page %d: %w", i, err))
		}
		if t = strings.TrimSpace(t); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}
