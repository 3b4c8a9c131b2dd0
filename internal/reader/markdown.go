package reader

import (
	"bufio"
	"bytes"
	"os"
	"regexp"
	"strings"
)

// MarkdownFormat implements Format for Markdown files.
type MarkdownFormat struct{}

func (f *MarkdownFormat) Name() string         { return "Markdown" }
func (f *MarkdownFormat) Extensions() []string { return []string{".md", ".markdown"} }

// headerRegex matches markdown headers (# to ######)
var headerRegex = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// Extract returns the document text with header markers removed. Headers
// become their own paragraphs so they never merge with the body text.
func (f *MarkdownFormat) Extract(filename string) (string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", ioErr(filename, err)
	}

	var out strings.Builder
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if match := headerRegex.FindStringSubmatch(line); match != nil {
			out.WriteString("\n")
			out.WriteString(strings.TrimSpace(match[2]))
			out.WriteString("\n\n")
			continue
		}
		out.WriteString(line)
		out.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return "", parseErr(filename, err)
	}
	return out.String(), nil
}
