// Package storage serves the portal's own site assets (logo, ad banners)
// from a local directory or an S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"io"
	"mime"
	"path"
	"strings"
)

var ErrNotFound = errors.New("asset not found")

// Object describes an opened asset. Size is -1 when unknown.
type Object struct {
	Name        string
	ContentType string
	Size        int64
}

// Store opens assets by slash-separated name.
type Store interface {
	Open(ctx context.Context, name string) (io.ReadCloser, Object, error)
}

// cleanName normalizes an asset name and rejects anything that would escape
// the store root.
func cleanName(name string) (string, bool) {
	if strings.Contains(name, "\\") || strings.ContainsRune(name, 0) {
		return "", false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return "", false
		}
	}
	cleaned := strings.TrimPrefix(path.Clean("/"+name), "/")
	if cleaned == "" || cleaned == "." {
		return "", false
	}
	return cleaned, true
}

func contentTypeOf(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
