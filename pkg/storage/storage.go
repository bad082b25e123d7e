// Package storage moves snapshot files in and out of a FileStore: the local
// filesystem or an S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
)

// ErrInvalidPath is returned for paths that are empty or escape the store
// root.
var ErrInvalidPath = errors.New("storage: invalid path")

// FileStore is a minimal interface for file-oriented storage.
//
// Paths are forward-slash separated and relative to the store root.
// Implementations must be safe for concurrent use.
type FileStore interface {
	// Read opens the named file for reading. The caller must close it. A
	// missing file yields an error wrapping os.ErrNotExist.
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Write opens the named file for writing, truncating any existing file
	// and creating parents. Data is durable only after Close returns nil.
	Write(ctx context.Context, path string) (io.WriteCloser, error)

	// Delete removes the named file. Missing files are not an error.
	Delete(ctx context.Context, path string) error

	// Exists reports whether the named file exists.
	Exists(ctx context.Context, path string) (bool, error)
}

// cleanPath normalizes p and rejects paths that leave the store root.
func cleanPath(p string) (string, error) {
	c := path.Clean(p)
	if p == "" || c == "." || c == ".." || path.IsAbs(c) || strings.HasPrefix(c, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	return c, nil
}

// ReadFile reads the whole named file from fs.
func ReadFile(ctx context.Context, fs FileStore, path string) ([]byte, error) {
	r, err := fs.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// WriteFile replaces the named file in fs with data.
func WriteFile(ctx context.Context, fs FileStore, path string, data []byte) error {
	w, err := fs.Write(ctx, path)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// Resolve maps a user-supplied location to a FileStore and a path inside
// it. "s3://some/key.yaml" uses the bucket described by s3cfg; anything
// else is a local file path whose directory becomes the store root.
func Resolve(ctx context.Context, location string, s3cfg *S3Config) (FileStore, string, error) {
	if key, ok := strings.CutPrefix(location, "s3://"); ok {
		if s3cfg == nil || s3cfg.Bucket == "" {
			return nil, "", fmt.Errorf("storage: %s: no s3 bucket configured", location)
		}
		key, err := cleanPath(key)
		if err != nil {
			return nil, "", err
		}
		return NewS3FromConfig(ctx, *s3cfg), key, nil
	}
	if location == "" {
		return nil, "", fmt.Errorf("%w: empty location", ErrInvalidPath)
	}
	dir, file := filepath.Split(location)
	if dir == "" {
		dir = "."
	}
	local, err := NewLocal(dir)
	if err != nil {
		return nil, "", err
	}
	return local, file, nil
}
