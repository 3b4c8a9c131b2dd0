package library

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"
	"time"
)

var testExts = []string{".txt", ".epub", ".pdf", ".md", ".zip"}

func writeFile(t *testing.T, path, content string, mod time.Time) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if !mod.IsZero() {
		os.Chtimes(path, mod, mod)
	}
}

func names(books []Book) []string {
	var out []string
	for _, b := range books {
		out = append(out, b.Name)
	}
	return out
}

func TestListNewestFirst(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	writeFile(t, filepath.Join(dir, "old.txt"), "a", base)
	writeFile(t, filepath.Join(dir, "new.EPUB"), "b", base.Add(2*time.Hour))
	writeFile(t, filepath.Join(dir, "mid.pdf"), "c", base.Add(time.Hour))
	writeFile(t, filepath.Join(dir, "notes.docx"), "d", base)
	writeFile(t, filepath.Join(dir, ".hidden.txt"), "e", base)
	writeFile(t, filepath.Join(dir, "old.bookmarks.json"), "{}", base)
	os.Mkdir(filepath.Join(dir, "sub.txt"), 0o755)

	books, err := New(dir, testExts).List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"new.EPUB", "mid.pdf", "old.txt"}
	if got := names(books); !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
	if books[0].Ext() != "EPUB" || books[0].Path != filepath.Join(dir, "new.EPUB") {
		t.Errorf("book = %+v", books[0])
	}
}

func TestListCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "books")
	books, err := New(dir, testExts).List()
	if err != nil || len(books) != 0 {
		t.Fatalf("List = %v, %v", books, err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("books dir not created: %v", err)
	}
}

func TestHumanSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1536, "1.5 KiB"},
		{3 * 1024 * 1024, "3.0 MiB"},
	}
	for _, tt := range tests {
		if got := (Book{Size: tt.size}).HumanSize(); got != tt.want {
			t.Errorf("HumanSize(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}

func TestFilter(t *testing.T) {
	books := []Book{
		{Name: "War and Peace.epub"},
		{Name: "Peace Talks.txt"},
		{Name: "Moby Dick.pdf"},
	}
	if got := Filter(books, ""); len(got) != 3 {
		t.Errorf("empty query = %v", names(got))
	}
	if got := names(Filter(books, "peace")); !reflect.DeepEqual(got, []string{"War and Peace.epub", "Peace Talks.txt"}) {
		t.Errorf("Filter(peace) = %v", got)
	}
	if got := names(Filter(books, "mdk")); !reflect.DeepEqual(got, []string{"Moby Dick.pdf"}) {
		t.Errorf("Filter(mdk) = %v", got)
	}
	if got := Filter(books, "zzz"); len(got) != 0 {
		t.Errorf("Filter(zzz) = %v", names(got))
	}
}

func TestImport(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "books")
	mod := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)

	writeFile(t, filepath.Join(src, "a.txt"), "alpha", mod)
	writeFile(t, filepath.Join(src, "nested", "a.txt"), "another alpha", mod)
	writeFile(t, filepath.Join(src, "nested", "b.epub"), "beta", mod)
	writeFile(t, filepath.Join(src, "skip.doc"), "nope", mod)

	lib := New(dst, testExts)
	res, err := lib.Import(src)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(res.Copied) != 3 || len(res.Failed) != 0 {
		t.Fatalf("result = %+v", res)
	}

	books, _ := lib.List()
	got := names(books)
	sort.Strings(got)
	if want := []string{"a.txt", "a_1.txt", "b.epub"}; !reflect.DeepEqual(got, want) {
		t.Errorf("library = %v, want %v", got, want)
	}
	info, _ := os.Stat(filepath.Join(dst, "b.epub"))
	if !info.ModTime().Equal(mod) {
		t.Errorf("mod time = %v, want %v", info.ModTime(), mod)
	}

	// A second import finds every file already present.
	res, err = lib.Import(src)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(res.Copied) != 0 || len(res.Skipped) != 3 {
		t.Errorf("second import = %+v", res)
	}
}

func TestImportMissingSource(t *testing.T) {
	lib := New(t.TempDir(), testExts)
	if _, err := lib.Import(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing source")
	}
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	lib := New(dir, testExts)
	w, err := NewWatcher(lib, nil)
	if err != nil {
		t.Skipf("fsnotify unavailable: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	writeFile(t, filepath.Join(dir, "ignored.docx"), "x", time.Time{})
	writeFile(t, filepath.Join(dir, "new.txt"), "x", time.Time{})

	select {
	case <-w.Changes():
	case <-time.After(5 * time.Second):
		t.Fatal("no change notice after adding a book")
	}
}
