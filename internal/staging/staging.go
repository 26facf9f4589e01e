// Package staging holds résumé files selected by the user until they are
// submitted for analysis.
package staging

import (
	"fmt"
	"io"
)

// Handle is a raw file handle coming from a file picker or a drop.
// Nothing reads its content until the file is submitted.
type Handle interface {
	Name() string
	Size() int64
	Open() (io.ReadCloser, error)
}

// Key is the natural identity of a staged file.
type Key struct {
	Name string
	Size int64
}

func (k Key) String() string {
	return fmt.Sprintf("%s (%d bytes)", k.Name, k.Size)
}

// File is a handle accepted into the working set.
type File struct {
	Handle
	// Order is the zero-based position at which the file was first staged.
	Order int
}

func (f *File) Key() Key {
	return Key{Name: f.Name(), Size: f.Size()}
}

// Content reads the whole file.
func (f *File) Content() ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name(), err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name(), err)
	}

	return data, nil
}

// Area is the ordered, deduplicated working set of staged files.
// It is not safe for concurrent use; the owner serialises access.
type Area struct {
	files []*File
	keys  map[Key]struct{}
}

func New() *Area {
	return &Area{keys: make(map[Key]struct{})}
}

// Add appends every handle whose (name, size) key is not staged yet and
// returns the new working set. Duplicates are dropped silently, including
// duplicates inside the same batch. Existing files are never removed.
func (a *Area) Add(handles ...Handle) []*File {
	if a.keys == nil {
		a.keys = make(map[Key]struct{})
	}

	for _, h := range handles {
		if h == nil {
			continue
		}

		key := Key{Name: h.Name(), Size: h.Size()}
		if _, ok := a.keys[key]; ok {
			continue
		}

		a.keys[key] = struct{}{}
		a.files = append(a.files, &File{Handle: h, Order: len(a.files)})
	}

	return a.Files()
}

// Files returns a copy of the working set in arrival order.
func (a *Area) Files() []*File {
	files := make([]*File, len(a.files))
	copy(files, a.files)
	return files
}

func (a *Area) Len() int {
	return len(a.files)
}

func (a *Area) Contains(key Key) bool {
	_, ok := a.keys[key]
	return ok
}

// Names lists staged file names in arrival order.
func (a *Area) Names() []string {
	names := make([]string, 0, len(a.files))
	for _, f := range a.files {
		names = append(names, f.Name())
	}
	return names
}
