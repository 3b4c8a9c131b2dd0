package reader

// Book holds the pages of a loaded book and the reading cursor.
type Book struct {
	Path    string
	Pages   []string
	Current int
}

// NewBook paginates text with the given character budget.
func NewBook(path, text string, budget int) *Book {
	return &Book{
		Path:  path,
		Pages: Paginate(text, budget),
	}
}

// Total returns the number of pages.
func (b *Book) Total() int {
	return len(b.Pages)
}

// Page returns the text of the current page.
func (b *Book) Page() string {
	if b.Current >= 0 && b.Current < len(b.Pages) {
		return b.Pages[b.Current]
	}
	return ""
}

// Next moves to the next page. Returns false at the last page.
func (b *Book) Next() bool {
	if b.Current < len(b.Pages)-1 {
		b.Current++
		return true
	}
	return false
}

// Prev moves to the previous page. Returns false at the first page.
func (b *Book) Prev() bool {
	if b.Current > 0 {
		b.Current--
		return true
	}
	return false
}

// GoTo jumps to page i. Out-of-range pages are clamped; returns false if
// the cursor did not move.
func (b *Book) GoTo(i int) bool {
	i = b.Clamp(i)
	if i == b.Current {
		return false
	}
	b.Current = i
	return true
}

// Clamp returns i limited to the valid page range.
func (b *Book) Clamp(i int) int {
	if i >= len(b.Pages) {
		i = len(b.Pages) - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// AtEnd returns true if the cursor is on the last page.
func (b *Book) AtEnd() bool {
	return b.Current >= len(b.Pages)-1
}

// Progress returns the reading progress in [0, 1]. An empty book reports 0.
func (b *Book) Progress() float64 {
	if len(b.Pages) == 0 {
		return 0
	}
	return float64(b.Current+1) / float64(len(b.Pages))
}
