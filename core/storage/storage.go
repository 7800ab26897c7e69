package storage

import (
	"context"
	"errors"
	"io"
	"mime"
	"path"
	"strings"
)

// Storage receives generated site artifacts.
type Storage interface {
	// Put writes body under the slash-separated relative path p.
	Put(ctx context.Context, p string, body io.Reader, contentType string) error
	// Remove deletes the artifact at p.
	Remove(ctx context.Context, p string) error
}

var (
	ErrInvalidPath        = errors.New("storage: invalid path")
	ErrInvalidConfig      = errors.New("storage: invalid configuration")
	ErrFileNotFound       = errors.New("storage: file not found")
	ErrBucketNotFound     = errors.New("storage: bucket not found")
	ErrAccessDenied       = errors.New("storage: access denied")
	ErrOperationTimeout   = errors.New("storage: operation timed out")
	ErrOperationCanceled  = errors.New("storage: operation canceled")
	ErrRequestTimeout     = errors.New("storage: request timeout")
	ErrServiceUnavailable = errors.New("storage: service unavailable")
)

// CleanPath validates an artifact path and returns it relative and
// slash-separated. Paths escaping the root are rejected.
func CleanPath(p string) (string, error) {
	p = strings.ReplaceAll(p, "\\", "/")
	if p == "" || strings.ContainsRune(p, 0) {
		return "", ErrInvalidPath
	}
	for seg := range strings.SplitSeq(p, "/") {
		if seg == ".." {
			return "", ErrInvalidPath
		}
	}
	cleaned := strings.TrimPrefix(path.Clean("/"+p), "/")
	if cleaned == "" {
		return "", ErrInvalidPath
	}
	return cleaned, nil
}

// ContentType guesses the MIME type of an artifact from its extension.
func ContentType(p string) string {
	switch ext := path.Ext(p); ext {
	case ".html":
		return "text/html; charset=utf-8"
	case ".xml":
		return "application/xml; charset=utf-8"
	case "":
		return "application/octet-stream"
	default:
		if t := mime.TypeByExtension(ext); t != "" {
			return t
		}
		return "application/octet-stream"
	}
}
