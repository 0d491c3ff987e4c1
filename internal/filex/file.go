// Package filex wraps local file access for the client: loading a file
// selected by the user together with its size and MIME type, and writing
// downloads into a working subdirectory.
package filex

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
)

// sniffLen is how many leading bytes http.DetectContentType looks at.
const sniffLen = 512

// File is a user-selected local file. Content is read lazily.
type File struct {
	Path string
	name string
	size int64
	typ  string
}

func (f *File) Name() string { return f.name }
func (f *File) Size() int64  { return f.size }

// Type is the MIME type without parameters, e.g. "image/png".
func (f *File) Type() string { return f.typ }

// ReadAll reads the whole file into memory.
func (f *File) ReadAll() ([]byte, error) {
	return os.ReadFile(f.Path)
}

// Load stats path and detects its MIME type, first from the extension and
// then by sniffing the content.
func Load(path string) (*File, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if st.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	typ := mime.TypeByExtension(filepath.Ext(path))
	if typ == "" {
		typ, err = sniff(path)
		if err != nil {
			return nil, err
		}
	}

	return &File{Path: path, name: filepath.Base(path), size: st.Size(), typ: stripParams(typ)}, nil
}

func sniff(path string) (string, error) {
	fh, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer fh.Close()

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(fh, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return http.DetectContentType(buf[:n]), nil
}

func stripParams(typ string) string {
	mt, _, err := mime.ParseMediaType(typ)
	if err != nil {
		return typ
	}
	return mt
}

// EnsureSubdDir creates dirName (relative to the working directory unless
// absolute) and returns its absolute path.
func EnsureSubdDir(dirName string) (string, error) {
	dir := dirName
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dirName)
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// WriteFile stores data as dir/name, creating dir if needed, and returns the
// resulting path.
func WriteFile(dirName, name string, data []byte) (string, error) {
	dir, err := EnsureSubdDir(dirName)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
