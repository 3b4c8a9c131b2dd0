package library

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/metcalfc/inkreader/internal/state"
)

// ImportResult lists what Import did, by destination or source path.
type ImportResult struct {
	Copied  []string
	Skipped []string
	Failed  map[string]error
}

// Import copies every supported file under src (recursively) into the
// library. Name clashes get a numeric suffix (name_1.ext); files whose
// content already exists under the original or a suffixed name are
// skipped.
func (l *Library) Import(src string) (*ImportResult, error) {
	if _, err := os.Stat(src); err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create books dir: %w", err)
	}

	res := &ImportResult{Failed: make(map[string]error)}
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !l.Supports(d.Name()) {
			return nil
		}
		dst, dup, err := l.target(path)
		if err != nil {
			res.Failed[path] = err
			return nil
		}
		if dup {
			res.Skipped = append(res.Skipped, path)
			return nil
		}
		if err := copyFile(path, dst); err != nil {
			res.Failed[path] = err
			return nil
		}
		res.Copied = append(res.Copied, dst)
		return nil
	})
	if err != nil {
		return res, fmt.Errorf("walk %s: %w", src, err)
	}
	return res, nil
}

// target picks the destination for src. dup is true when a file with the
// same content already occupies one of the candidate names.
func (l *Library) target(src string) (dst string, dup bool, err error) {
	srcHash, err := state.ComputeHash(src)
	if err != nil {
		return "", false, err
	}
	base := filepath.Base(src)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	dst = filepath.Join(l.Dir, base)
	for n := 1; ; n++ {
		if _, err := os.Stat(dst); os.IsNotExist(err) {
			return dst, false, nil
		}
		if h, err := state.ComputeHash(dst); err == nil && h == srcHash {
			return dst, true, nil
		}
		dst = filepath.Join(l.Dir, fmt.Sprintf("%s_%d%s", stem, n, ext))
	}
}

// copyFile copies src to dst, keeping the modification time.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return err
	}

	tmp := dst + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("copy %s: %w", filepath.Base(src), err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
