package staging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DefaultExtensions is the filter advertised to the user when picking files.
var DefaultExtensions = []string{".pdf", ".docx", ".txt"}

const statConcurrency = 8

type diskHandle struct {
	path string
	name string
	size int64
}

func (h *diskHandle) Name() string { return h.name }

func (h *diskHandle) Size() int64 { return h.size }

func (h *diskHandle) Open() (io.ReadCloser, error) {
	return os.Open(h.path)
}

// Path returns the location the handle was created from.
func (h *diskHandle) Path() string { return h.path }

type memHandle struct {
	name string
	data []byte
}

// Bytes returns an in-memory handle.
func Bytes(name string, data []byte) Handle {
	return &memHandle{name: name, data: data}
}

func (h *memHandle) Name() string { return h.name }

func (h *memHandle) Size() int64 { return int64(len(h.data)) }

func (h *memHandle) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(h.data)), nil
}

// Accepted reports whether name carries one of the advertised extensions.
// An empty filter accepts everything.
func Accepted(name string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}

	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" && !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if e == ext {
			return true
		}
	}

	return false
}

// OpenPaths turns command line paths into handles. Regular files are taken
// as-is. Directories contribute their direct children that pass the
// extension filter, like a picker restricted to those types. The result keeps
// argument order and lexical order inside a directory.
func OpenPaths(ctx context.Context, paths []string, extensions []string) ([]Handle, error) {
	results := make([][]Handle, len(paths))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(statConcurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			handles, err := openPath(path, extensions)
			if err != nil {
				return err
			}
			results[i] = handles
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var handles []Handle
	for _, r := range results {
		handles = append(handles, r...)
	}

	return handles, nil
}

func openPath(path string, extensions []string) ([]Handle, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %q: %w", path, err)
	}

	if !info.IsDir() {
		return []Handle{&diskHandle{path: path, name: info.Name(), size: info.Size()}}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read directory %q: %w", path, err)
	}

	var handles []Handle
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !Accepted(entry.Name(), extensions) {
			continue
		}

		entryInfo, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %q: %w", filepath.Join(path, entry.Name()), err)
		}

		handles = append(handles, &diskHandle{
			path: filepath.Join(path, entry.Name()),
			name: entry.Name(),
			size: entryInfo.Size(),
		})
	}

	return handles, nil
}
