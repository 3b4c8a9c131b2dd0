package reader

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// archiveMembers are the entry extensions an archive may wrap, in order of
// preference within a single archive.
var archiveMembers = map[string]bool{".txt": true, ".epub": true, ".pdf": true, ".md": true}

// ErrEmptyArchive is wrapped when a ZIP holds no readable book.
var ErrEmptyArchive = errors.New("archive contains no readable book")

// ArchiveFormat implements Format for ZIP files that wrap a single book.
// The first supported entry is unpacked to a temporary directory and read
// with the registry's format for its extension.
type ArchiveFormat struct {
	registry *Registry
}

func (f *ArchiveFormat) Name() string         { return "ZIP" }
func (f *ArchiveFormat) Extensions() []string { return []string{".zip"} }

func (f *ArchiveFormat) Extract(filename string) (string, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		if _, statErr := os.Stat(filename); statErr != nil {
			return "", ioErr(filename, err)
		}
		return "", parseErr(filename, err)
	}
	defer zr.Close()

	var member *zip.File
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() || strings.HasPrefix(filepath.Base(zf.Name), ".") {
			continue
		}
		if archiveMembers[strings.ToLower(filepath.Ext(zf.Name))] {
			member = zf
			break
		}
	}
	if member == nil {
		return "", parseErr(filename, ErrEmptyArchive)
	}

	tmpDir, err := os.MkdirTemp("", "inkreader-zip")
	if err != nil {
		return "", ioErr(filename, err)
	}
	defer os.RemoveAll(tmpDir)

	// Only the base name is used so entries cannot escape tmpDir.
	dst := filepath.Join(tmpDir, filepath.Base(member.Name))
	if err := unpack(member, dst); err != nil {
		return "", ioErr(filename, fmt.Errorf("unpack %s: %w", member.Name, err))
	}

	text, err := f.registry.Extract(dst)
	if err != nil {
		var ee *ExtractError
		if errors.As(err, &ee) {
			return "", &ExtractError{Kind: ee.Kind, Path: filename, Err: ee}
		}
		return "", parseErr(filename, err)
	}
	return text, nil
}

func unpack(zf *zip.File, dst string) error {
	rc, err := zf.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
