package reader

import (
	"errors"
	"io"
	"io/fs"
	"strings"

	"github.com/taylorskalyo/goreader/epub"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// EPUBFormat implements Format for EPUB files.
type EPUBFormat struct{}

func (f *EPUBFormat) Name() string         { return "EPUB" }
func (f *EPUBFormat) Extensions() []string { return []string{".epub"} }
func (f *EPUBFormat) Extract(filename string) (string, error) {
	return ExtractTextFromEPUB(filename)
}

// ExtractTextFromEPUB extracts the text of every spine document in reading
// order. Documents are separated by blank lines so they paginate as
// separate paragraphs.
func ExtractTextFromEPUB(filename string) (string, error) {
	rc, err := epub.OpenReader(filename)
	if err != nil {
		var pe *fs.PathError
		if errors.As(err, &pe) {
			return "", ioErr(filename, err)
		}
		return "", parseErr(filename, err)
	}
	defer rc.Close()

	if len(rc.Rootfiles) == 0 {
		return "", parseErr(filename, errors.New("no rootfiles found in epub"))
	}

	book := rc.Rootfiles[0]
	var parts []string

	for _, ref := range book.Spine.Itemrefs {
		if ref.Item == nil {
			continue
		}
		r, err := ref.Item.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			continue
		}
		if text := strings.TrimSpace(extractTextFromHTML(string(data))); text != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, "\n\n"), nil
}

// blockElements end a paragraph when they close.
var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Section: true, atom.Article: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Li: true, atom.Blockquote: true, atom.Pre: true, atom.Tr: true,
	atom.Title: true, atom.Dd: true, atom.Dt: true, atom.Figcaption: true,
}

// extractTextFromHTML flattens an XHTML document into paragraphs separated
// by blank lines. Whitespace inside a paragraph collapses to single spaces;
// script and style contents are dropped.
func extractTextFromHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return ""
	}

	var paras []string
	var cur strings.Builder
	flush := func() {
		if t := strings.Join(strings.Fields(cur.String()), " "); t != "" {
			paras = append(paras, t)
		}
		cur.Reset()
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			cur.WriteString(n.Data)
			cur.WriteString(" ")
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style:
				return
			case atom.Br:
				flush()
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockElements[n.DataAtom] {
			flush()
		}
	}
	walk(doc)
	flush()
	return strings.Join(paras, "\n\n")
}
