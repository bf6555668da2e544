package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	pkgopenapi "github.com/goliatone/go-typegen/pkg/openapi"
)

func loadFromFS(ctx context.Context, filesystem fs.FS, name string, limit int64) ([]byte, error) {
	if filesystem == nil {
		return nil, errors.New("openapi loader: filesystem is not configured")
	}
	if name == "" {
		return nil, errors.New("openapi loader: fs path is required")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	file, err := filesystem.Open(name)
	if err != nil {
		return nil, fmt.Errorf("openapi loader: open %s: %w", name, err)
	}
	defer file.Close()
	return readLimited(file, limit, name)
}

func loadFile(ctx context.Context, path string, limit int64) ([]byte, error) {
	if path == "" || path == "." {
		return nil, errors.New("openapi loader: file path is required")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("openapi loader: open %s: %w", path, err)
	}
	defer file.Close()
	return readLimited(file, limit, path)
}

func loadHTTP(ctx context.Context, client *http.Client, rawURL string, timeout time.Duration, limit int64) ([]byte, error) {
	if client == nil {
		return nil, errors.New("openapi loader: http client is not configured")
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("openapi loader: build request: %w", err)
	}
	req.Header.Set("Accept", "application/yaml, application/json;q=0.9, */*;q=0.5")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openapi loader: fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("openapi loader: fetch %s: unexpected status %d", rawURL, resp.StatusCode)
	}
	return readLimited(resp.Body, limit, rawURL)
}

func loadContent(ctx context.Context, src pkgopenapi.ContentSource, limit int64) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	reader, err := src.Open()
	if err != nil {
		return nil, fmt.Errorf("openapi loader: open %s: %w", src.Location(), err)
	}
	if reader == nil {
		return nil, fmt.Errorf("openapi loader: %s has no content", src.Location())
	}
	return readLimited(reader, limit, src.Location())
}
