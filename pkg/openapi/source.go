package openapi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"sync"
)

// fileSource identifies on-disk OpenAPI documents.
type fileSource struct {
	path string
}

func (s fileSource) Location() string {
	return s.path
}

func (s fileSource) Kind() SourceKind {
	return SourceKindFile
}

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

// fsSource references a path within an fs.FS.
type fsSource struct {
	name string
}

func (s fsSource) Location() string {
	return s.name
}

func (s fsSource) Kind() SourceKind {
	return SourceKindFS
}

// SourceFromFS returns a Source identifying a resource inside an fs.FS.
func SourceFromFS(name string) Source {
	return fsSource{name: name}
}

// urlSource references an HTTP/HTTPS endpoint.
type urlSource struct {
	raw string
}

func (s urlSource) Location() string {
	return s.raw
}

func (s urlSource) Kind() SourceKind {
	return SourceKindURL
}

// SourceFromURL parses the supplied URL string and returns a Source. It panics
// if the URL is invalid to surface configuration mistakes early.
func SourceFromURL(raw string) Source {
	src, err := ParseURLSource(raw)
	if err != nil {
		panic(err.Error())
	}
	return src
}

// ParseURLSource is the non-panicking variant of SourceFromURL, used when the
// URL comes from user input.
func ParseURLSource(raw string) (Source, error) {
	if raw == "" {
		return nil, errors.New("openapi: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		return nil, fmt.Errorf("openapi: invalid URL %q: %w", raw, err)
	}
	return urlSource{raw: raw}, nil
}

// bytesSource carries an in-memory payload.
type bytesSource struct {
	name string
	data []byte
}

func (s bytesSource) Location() string {
	return s.name
}

func (s bytesSource) Kind() SourceKind {
	return SourceKindBytes
}

func (s bytesSource) Open() (io.Reader, error) {
	return bytes.NewReader(s.data), nil
}

// SourceFromBytes wraps raw document content. name is only used in
// diagnostics and generated headers; it defaults to "inline".
func SourceFromBytes(name string, data []byte) Source {
	if name == "" {
		name = "inline"
	}
	return bytesSource{name: name, data: append([]byte(nil), data...)}
}

// SourceFromString is a convenience wrapper around SourceFromBytes.
func SourceFromString(name, content string) Source {
	return SourceFromBytes(name, []byte(content))
}

// SourceFromReader wraps a stream such as os.Stdin. name defaults to "stdin".
func SourceFromReader(name string, r io.Reader) Source {
	if name == "" {
		name = "stdin"
	}
	return &streamSource{name: name, reader: r}
}

// streamSource is the pointer-backed reader source handed out by
// SourceFromReader so consumption is observed across copies.
type streamSource struct {
	name   string
	mu     sync.Mutex
	reader io.Reader
}

func (s *streamSource) Location() string {
	return s.name
}

func (s *streamSource) Kind() SourceKind {
	return SourceKindReader
}

func (s *streamSource) Open() (io.Reader, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reader == nil {
		return nil, errors.New("openapi: reader source already consumed")
	}
	r := s.reader
	s.reader = nil
	return r, nil
}
