// Package reader extracts text from book files and splits it into pages.
package reader

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultBudget is the target number of characters per page.
	DefaultBudget = 1500

	// NoContent is the single page produced for a book without text.
	NoContent = "(no content)"
)

var paragraphBreak = regexp.MustCompile(`\n\s*\n`)

// ParseParagraphs splits text on blank lines and returns the trimmed,
// non-empty paragraphs in order.
func ParseParagraphs(text string) []string {
	var paras []string
	for _, p := range paragraphBreak.Split(text, -1) {
		if p = strings.TrimSpace(p); p != "" {
			paras = append(paras, p)
		}
	}
	return paras
}

// Paginate groups paragraphs greedily into pages of at most budget
// characters. A paragraph is never split: one longer than budget gets a
// page of its own. Paragraphs within a page are joined by a single newline.
// The result always has at least one page.
func Paginate(text string, budget int) []string {
	if budget <= 0 {
		budget = DefaultBudget
	}

	var pages []string
	var cur []string
	curLen := 0
	for _, p := range ParseParagraphs(text) {
		plen := utf8.RuneCountInString(p)
		if len(cur) > 0 && curLen+plen > budget {
			pages = append(pages, strings.Join(cur, "\n"))
			cur, curLen = nil, 0
		}
		cur = append(cur, p)
		curLen += plen
	}
	if len(cur) > 0 {
		pages = append(pages, strings.Join(cur, "\n"))
	}

	if len(pages) == 0 {
		return []string{NoContent}
	}
	return pages
}
