package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/metcalfc/inkreader/internal/config"
	"github.com/metcalfc/inkreader/internal/render"
	"github.com/metcalfc/inkreader/internal/state"
	"github.com/metcalfc/inkreader/internal/ui"
)

type env struct {
	dir     string
	books   string
	cfgPath string
}

func setup(t *testing.T) env {
	t.Helper()
	dir := t.TempDir()
	e := env{
		dir:     dir,
		books:   filepath.Join(dir, "books"),
		cfgPath: filepath.Join(dir, "config.json"),
	}
	if err := os.MkdirAll(e.books, 0o755); err != nil {
		t.Fatal(err)
	}
	c := config.Default()
	c.BooksDir = e.books
	c.LogDir = filepath.Join(dir, "logs")
	c.CharsPerPage = 20
	if err := config.Save(c, e.cfgPath); err != nil {
		t.Fatal(err)
	}
	return e
}

func (e env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--config", e.cfgPath, "--no-color", "--log-level", "error"))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (e env) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.books, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestVersion(t *testing.T) {
	e := setup(t)
	build = BuildInfo{Version: "1.2.3", Commit: "abc", Date: "today"}
	defer func() { build = BuildInfo{Version: "dev", Commit: "none", Date: "unknown"} }()

	out, err := e.run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "inkreader 1.2.3 (commit abc, built today)") {
		t.Errorf("version output = %q", out)
	}
}

func TestBooksYAML(t *testing.T) {
	e := setup(t)
	e.write(t, "alpha.txt", "a")
	e.write(t, "beta.md", "b")
	e.write(t, "notes.json", "{}")

	out, err := e.run(t, "books", "--yaml")
	if err != nil {
		t.Fatal(err)
	}
	var recs []bookRecord
	if err := yaml.Unmarshal([]byte(out), &recs); err != nil {
		t.Fatalf("yaml: %v\n%s", err, out)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d books, want 2: %+v", len(recs), recs)
	}

	out, err = e.run(t, "books", "--yaml", "--filter", "alp")
	if err != nil {
		t.Fatal(err)
	}
	recs = nil
	if err := yaml.Unmarshal([]byte(out), &recs); err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Name != "alpha.txt" || recs[0].Format != "TXT" {
		t.Errorf("filtered = %+v", recs)
	}
}

func TestPaginate(t *testing.T) {
	e := setup(t)
	e.write(t, "p.txt", "first paragraph\n\nsecond paragraph\n\nthird")

	out, err := e.run(t, "paginate", "p.txt")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "3 pages (budget 20 characters)") {
		t.Errorf("output = %q", out)
	}

	out, err = e.run(t, "paginate", "p.txt", "--page", "2")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "second paragraph" {
		t.Errorf("page 2 = %q", out)
	}

	if _, err := e.run(t, "paginate", "p.txt", "--page", "9"); err == nil {
		t.Error("page out of range should fail")
	}
}

func TestImport(t *testing.T) {
	e := setup(t)
	src := filepath.Join(e.dir, "incoming")
	os.MkdirAll(src, 0o755)
	os.WriteFile(filepath.Join(src, "a.txt"), []byte("aaa"), 0o644)
	os.WriteFile(filepath.Join(src, "skip.doc"), []byte("x"), 0o644)

	out, err := e.run(t, "import", src)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "1 imported, 0 skipped, 0 failed") {
		t.Errorf("output = %q", out)
	}
	if _, err := os.Stat(filepath.Join(e.books, "a.txt")); err != nil {
		t.Error(err)
	}

	out, err = e.run(t, "import", src)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "0 imported, 1 skipped, 0 failed") {
		t.Errorf("second import = %q", out)
	}
}

func TestBookmarksCommands(t *testing.T) {
	e := setup(t)
	path := e.write(t, "b.txt", "first paragraph\n\nsecond paragraph\n\nthird")

	if _, err := e.run(t, "bookmarks", "add", "b.txt", "--page", "3", "--name", "start"); err != nil {
		t.Fatal(err)
	}
	marks := state.NewStore(nil).Load(path)
	if m, ok := marks["start"]; !ok || m.Page != 2 {
		t.Fatalf("marks = %+v", marks)
	}

	out, err := e.run(t, "bookmarks", "list", "b.txt")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "start") || !strings.Contains(out, "page 3") {
		t.Errorf("list = %q", out)
	}

	if _, err := e.run(t, "bookmarks", "remove", "b.txt", "start"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.run(t, "bookmarks", "remove", "b.txt", "start"); err == nil {
		t.Error("removing a missing bookmark should fail")
	}
	if _, err := e.run(t, "bookmarks", "add", "missing.txt"); err == nil {
		t.Error("adding to a missing book should fail")
	}
}

func TestBookmarkPageOutOfRange(t *testing.T) {
	e := setup(t)
	path := e.write(t, "one.txt", "text")

	for _, page := range []string{"0", "2", "999"} {
		_, err := e.run(t, "bookmarks", "add", "one.txt", "--page", page)
		if err == nil || !strings.Contains(err.Error(), "out of range 1-1") {
			t.Errorf("page %s: err = %v, want out of range", page, err)
		}
	}
	if marks := state.NewStore(nil).Load(path); len(marks) != 0 {
		t.Errorf("marks = %+v, want none saved", marks)
	}
}

func TestRenderPNG(t *testing.T) {
	e := setup(t)
	e.write(t, "r.txt", "one\n\ntwo")
	out := filepath.Join(e.dir, "out", "page.png")

	if _, err := e.run(t, "render", "r.txt", "--page", "1", "--out", out); err != nil {
		t.Fatal(err)
	}
	fi, err := os.Stat(out)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Size() == 0 {
		t.Error("empty PNG")
	}

	if _, err := e.run(t, "render", "r.txt", "--screen", "bogus", "--out", out); err == nil {
		t.Error("unknown screen should fail")
	}
}

func TestPageStyleShowsClock(t *testing.T) {
	saved := cfg
	t.Cleanup(func() { cfg = saved })
	cfg = config.Default()

	fonts, err := render.NewFonts("")
	if err != nil {
		t.Fatal(err)
	}
	morning := time.Date(2024, 5, 1, 9, 15, 0, 0, time.UTC)
	evening := time.Date(2024, 5, 1, 17, 40, 0, 0, time.UTC)
	if st := pageStyle(fonts, morning); !st.Now.Equal(morning) {
		t.Fatalf("Now = %v, want %v", st.Now, morning)
	}

	draw := func(now time.Time) []byte {
		var s ui.Screens
		s.Show(ui.MenuScreen)
		cv := render.NewCanvas(400, 300)
		s.Draw(cv, pageStyle(fonts, now))
		return cv.Image().Pix
	}
	if bytes.Equal(draw(morning), draw(evening)) {
		t.Error("status bar clock should follow the render time")
	}
}

func TestSessionLoggerFallsBackToGivenWriter(t *testing.T) {
	dir := t.TempDir()
	notDir := filepath.Join(dir, "file")
	if err := os.WriteFile(notDir, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	log, closer := sessionLogger("info", notDir, &buf)
	defer closer.Close()
	log.Info("still logging")
	if !strings.Contains(buf.String(), "still logging") {
		t.Errorf("fallback output = %q", buf.String())
	}
}

func TestRunHeadlessStopsOnCancel(t *testing.T) {
	e := setup(t)
	book := e.write(t, "h.txt", "one\n\ntwo\n\nthree")

	c, err := config.Load(e.cfgPath, nil)
	if err != nil {
		t.Fatal(err)
	}
	c.CurrentBook = book
	c.CurrentPage = 1
	if err := config.Save(c, e.cfgPath); err != nil {
		t.Fatal(err)
	}

	root := newRootCmd()
	root.SetArgs([]string{"run", "--headless", "--config", e.cfgPath, "--no-color", "--log-level", "error"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := root.ExecuteContext(ctx); err != nil {
		t.Fatal(err)
	}

	saved, err := config.Load(e.cfgPath, nil)
	if err != nil {
		t.Fatal(err)
	}
	if saved.CurrentBook != book || saved.CurrentPage != 1 {
		t.Errorf("saved = %q page %d", saved.CurrentBook, saved.CurrentPage)
	}
	if _, err := os.Stat(c.LogDir); err != nil {
		t.Errorf("log dir: %v", err)
	}
}
