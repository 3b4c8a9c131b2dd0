package reader

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Format defines a file format reader for extracting text.
type Format interface {
	Name() string
	Extensions() []string
	Extract(filename string) (string, error)
}

// ErrorKind classifies extraction failures.
type ErrorKind int

const (
	Unsupported ErrorKind = iota
	IOFailure
	ParseFailure
)

func (k ErrorKind) String() string {
	switch k {
	case Unsupported:
		return "unsupported format"
	case IOFailure:
		return "i/o failure"
	case ParseFailure:
		return "parse failure"
	default:
		return "unknown"
	}
}

// ExtractError is returned by every Format and by Registry.Extract.
type ExtractError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *ExtractError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Path, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

// KindOf reports the ErrorKind carried by err, if any.
func KindOf(err error) (ErrorKind, bool) {
	var ee *ExtractError
	if errors.As(err, &ee) {
		return ee.Kind, true
	}
	return 0, false
}

func ioErr(path string, err error) error {
	return &ExtractError{Kind: IOFailure, Path: path, Err: err}
}

func parseErr(path string, err error) error {
	return &ExtractError{Kind: ParseFailure, Path: path, Err: err}
}

// Registry maps lower-case file extensions to the format that reads them.
type Registry struct {
	formats []Format
	byExt   map[string]Format
}

// NewRegistry builds a registry from formats. Later formats win on
// extension clashes.
func NewRegistry(formats ...Format) *Registry {
	r := &Registry{byExt: make(map[string]Format)}
	for _, f := range formats {
		r.Register(f)
	}
	return r
}

// DefaultRegistry returns a registry with every built-in format.
func DefaultRegistry() *Registry {
	r := NewRegistry(&TextFormat{}, &MarkdownFormat{}, &EPUBFormat{}, &PDFFormat{})
	r.Register(&ArchiveFormat{registry: r})
	return r
}

// Register adds a format reader to the registry.
func (r *Registry) Register(f Format) {
	r.formats = append(r.formats, f)
	for _, e := range f.Extensions() {
		r.byExt[strings.ToLower(e)] = f
	}
}

// Lookup returns the format registered for filename's extension.
func (r *Registry) Lookup(filename string) (Format, bool) {
	f, ok := r.byExt[strings.ToLower(filepath.Ext(filename))]
	return f, ok
}

// Supports reports whether filename has a registered extension.
func (r *Registry) Supports(filename string) bool {
	_, ok := r.Lookup(filename)
	return ok
}

// Extract extracts text from a file using the format registered for its
// extension. Unknown extensions yield an Unsupported ExtractError.
func (r *Registry) Extract(filename string) (string, error) {
	f, ok := r.Lookup(filename)
	if !ok {
		return "", &ExtractError{
			Kind: Unsupported,
			Path: filename,
			Err:  fmt.Errorf("no reader for %q", filepath.Ext(filename)),
		}
	}
	return f.Extract(filename)
}

// Extensions returns every registered extension, sorted.
func (r *Registry) Extensions() []string {
	out := make([]string, 0, len(r.byExt))
	for e := range r.byExt {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// SupportedFormats returns registered format names with their extensions.
func (r *Registry) SupportedFormats() []string {
	var out []string
	for _, f := range r.formats {
		out = append(out, f.Name()+" ("+strings.Join(f.Extensions(), ", ")+")")
	}
	return out
}
