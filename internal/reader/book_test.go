package reader

import (
	"strings"
	"testing"
)

func newTestBook(pages int) *Book {
	var paras []string
	for i := 0; i < pages; i++ {
		paras = append(paras, strings.Repeat("x", 10))
	}
	return NewBook("test.txt", strings.Join(paras, "\n\n"), 10)
}

func TestBookNavigationBounds(t *testing.T) {
	for _, n := range []int{1, 2, 7} {
		b := newTestBook(n)
		if b.Total() != n {
			t.Fatalf("Total() = %d, want %d", b.Total(), n)
		}
		for i := 0; i < n+5; i++ {
			b.Next()
			if b.Current > n-1 {
				t.Fatalf("Current = %d exceeds last page %d", b.Current, n-1)
			}
		}
		if b.Current != n-1 || !b.AtEnd() {
			t.Errorf("after repeated Next: Current = %d, want %d", b.Current, n-1)
		}
		if b.Next() {
			t.Error("Next() at last page returned true")
		}
		for i := 0; i < n+5; i++ {
			b.Prev()
			if b.Current < 0 {
				t.Fatalf("Current = %d below zero", b.Current)
			}
		}
		if b.Current != 0 {
			t.Errorf("after repeated Prev: Current = %d, want 0", b.Current)
		}
		if b.Prev() {
			t.Error("Prev() at first page returned true")
		}
	}
}

func TestBookGoTo(t *testing.T) {
	b := newTestBook(5)
	tests := []struct {
		target int
		want   int
		moved  bool
	}{
		{3, 3, true},
		{3, 3, false},
		{99, 4, true},
		{-1, 0, true},
	}
	for _, tt := range tests {
		moved := b.GoTo(tt.target)
		if moved != tt.moved || b.Current != tt.want {
			t.Errorf("GoTo(%d) = %v, Current %d; want %v, %d", tt.target, moved, b.Current, tt.moved, tt.want)
		}
	}
}

func TestBookProgress(t *testing.T) {
	b := newTestBook(4)
	if got := b.Progress(); got != 0.25 {
		t.Errorf("Progress() = %v, want 0.25", got)
	}
	b.GoTo(3)
	if got := b.Progress(); got != 1 {
		t.Errorf("Progress() = %v, want 1", got)
	}

	empty := &Book{}
	if empty.Progress() != 0 || empty.Page() != "" {
		t.Error("empty book should report zero progress and no page")
	}
}

func TestBookEmptyText(t *testing.T) {
	b := NewBook("empty.txt", "", DefaultBudget)
	if b.Total() != 1 || b.Page() != NoContent {
		t.Errorf("empty book pages = %q", b.Pages)
	}
}
