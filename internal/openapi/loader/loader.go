package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"time"

	pkgopenapi "github.com/goliatone/go-typegen/pkg/openapi"
)

// Loader implements pkgopenapi.Loader by delegating to file, fs.FS, HTTP or
// in-memory strategies. Construction helpers live in the top-level typegen
// package.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
	maxSize   int64
}

// Ensure the implementation satisfies the public interface.
var _ pkgopenapi.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options pkgopenapi.LoaderOptions) pkgopenapi.Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	maxSize := options.MaxDocumentSize
	if maxSize <= 0 {
		maxSize = pkgopenapi.DefaultMaxDocumentSize
	}

	return &Loader{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
		maxSize:   maxSize,
	}
}

// Load fetches a document from the provided source and wraps it in a Document.
func (l *Loader) Load(ctx context.Context, src pkgopenapi.Source) (pkgopenapi.Document, error) {
	if src == nil {
		return pkgopenapi.Document{}, errors.New("openapi loader: source is nil")
	}
	if err := ctx.Err(); err != nil {
		return pkgopenapi.Document{}, err
	}

	var (
		data []byte
		err  error
	)

	switch src.Kind() {
	case pkgopenapi.SourceKindFile:
		data, err = loadFile(ctx, src.Location(), l.maxSize)
	case pkgopenapi.SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location(), l.maxSize)
	case pkgopenapi.SourceKindURL:
		if !l.allowHTTP {
			return pkgopenapi.Document{}, errors.New("openapi loader: http support disabled")
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout, l.maxSize)
	case pkgopenapi.SourceKindBytes, pkgopenapi.SourceKindReader:
		content, ok := src.(pkgopenapi.ContentSource)
		if !ok {
			return pkgopenapi.Document{}, fmt.Errorf("openapi loader: %s source does not carry content", src.Kind())
		}
		data, err = loadContent(ctx, content, l.maxSize)
	default:
		err = fmt.Errorf("openapi loader: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return pkgopenapi.Document{}, err
	}
	if err := ctx.Err(); err != nil {
		return pkgopenapi.Document{}, err
	}

	return pkgopenapi.NewDocument(src, data)
}

// readLimited reads at most limit bytes, failing when the payload is larger.
func readLimited(r io.Reader, limit int64, location string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("openapi loader: read %s: %w", location, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("openapi loader: %s exceeds the %d byte limit", location, limit)
	}
	return data, nil
}
