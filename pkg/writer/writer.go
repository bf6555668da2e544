// Package writer persists generated artifacts.
//
// FileWriter places every artifact below an output directory. Each file is
// written to a temporary sibling and renamed into place, so a reader never
// observes a partially written file. MemoryWriter keeps artifacts in memory
// for dry runs and tests.
package writer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-typegen/pkg/logging"
	"github.com/goliatone/go-typegen/pkg/metadata"
)

// Writer persists artifacts below outputDirectory and returns the paths that
// were written, in artifact order.
type Writer interface {
	Write(ctx context.Context, outputDirectory string, artifacts []metadata.GeneratedArtifact) ([]string, error)
}

// ErrUnsafePath is returned for relative paths that are absolute or escape
// the output directory.
var ErrUnsafePath = errors.New("writer: unsafe artifact path")

// Option configures a FileWriter.
type Option func(*FileWriter)

// WithLogger attaches a logger.
func WithLogger(logger logging.Logger) Option {
	return func(w *FileWriter) {
		w.logger = logging.OrNop(logger)
	}
}

// WithFileMode sets the permission bits of written files.
func WithFileMode(mode os.FileMode) Option {
	return func(w *FileWriter) {
		if mode != 0 {
			w.fileMode = mode
		}
	}
}

// WithDirMode sets the permission bits of created directories.
func WithDirMode(mode os.FileMode) Option {
	return func(w *FileWriter) {
		if mode != 0 {
			w.dirMode = mode
		}
	}
}

// FileWriter writes artifacts to the local filesystem.
type FileWriter struct {
	logger   logging.Logger
	fileMode os.FileMode
	dirMode  os.FileMode
}

var _ Writer = (*FileWriter)(nil)

// NewFileWriter constructs a FileWriter. Files default to 0o644 and
// directories to 0o755.
func NewFileWriter(options ...Option) *FileWriter {
	w := &FileWriter{
		logger:   logging.NopLogger{},
		fileMode: 0o644,
		dirMode:  0o755,
	}
	for _, opt := range options {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// Write validates every path up front, then writes the artifacts one by one.
// Cancellation is checked before each artifact; files already renamed into
// place stay there.
func (w *FileWriter) Write(ctx context.Context, outputDirectory string, artifacts []metadata.GeneratedArtifact) ([]string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(outputDirectory) == "" {
		return nil, errors.New("writer: output directory is required")
	}

	targets := make([]string, len(artifacts))
	for i, artifact := range artifacts {
		target, err := resolve(outputDirectory, artifact.RelativePath)
		if err != nil {
			return nil, err
		}
		targets[i] = target
	}

	written := make([]string, 0, len(artifacts))
	for i, artifact := range artifacts {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		if err := w.writeFile(targets[i], artifact.Content); err != nil {
			return written, fmt.Errorf("writer: %s: %w", artifact.RelativePath, err)
		}
		w.logger.Debug("wrote artifact", "path", targets[i], "bytes", len(artifact.Content))
		written = append(written, targets[i])
	}
	w.logger.Info("artifacts written", "directory", outputDirectory, "count", len(written))
	return written, nil
}

func (w *FileWriter) writeFile(target string, content []byte) error {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, w.dirMode); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmpName, w.fileMode); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, target); err != nil {
		cleanup()
		return err
	}
	return nil
}

// resolve joins a slash-separated relative path onto dir, rejecting paths
// that leave it.
func resolve(dir, rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("%w: empty path", ErrUnsafePath)
	}
	slashed := filepath.ToSlash(rel)
	if path.IsAbs(slashed) || filepath.IsAbs(rel) || filepath.VolumeName(rel) != "" {
		return "", fmt.Errorf("%w: %q is absolute", ErrUnsafePath, rel)
	}
	clean := path.Clean(slashed)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q escapes the output directory", ErrUnsafePath, rel)
	}
	return filepath.Join(dir, filepath.FromSlash(clean)), nil
}

// MemoryWriter records artifacts keyed by their joined path. It is safe for
// concurrent use.
type MemoryWriter struct {
	mu    sync.RWMutex
	files map[string][]byte
}

var _ Writer = (*MemoryWriter)(nil)

// NewMemoryWriter returns an empty MemoryWriter.
func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{files: make(map[string][]byte)}
}

// Write stores copies of the artifact contents. Paths are validated the same
// way FileWriter validates them.
func (m *MemoryWriter) Write(ctx context.Context, outputDirectory string, artifacts []metadata.GeneratedArtifact) ([]string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	written := make([]string, 0, len(artifacts))
	for _, artifact := range artifacts {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		target, err := resolve(outputDirectory, artifact.RelativePath)
		if err != nil {
			return written, err
		}
		target = filepath.ToSlash(target)
		m.mu.Lock()
		m.files[target] = append([]byte(nil), artifact.Content...)
		m.mu.Unlock()
		written = append(written, target)
	}
	return written, nil
}

// File returns a copy of the content stored at name.
func (m *MemoryWriter) File(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, ok := m.files[filepath.ToSlash(name)]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), content...), true
}

// Paths lists stored paths in sorted order.
func (m *MemoryWriter) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.files))
	for name := range m.files {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
