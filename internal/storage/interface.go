package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

// PublicPrefix is the URL prefix every stored file path starts with.
const PublicPrefix = "/uploads"

var ErrInvalidPath = errors.New("invalid storage path")

// FileStore persists uploaded files and removes replaced ones.
// Paths are public, e.g. "/uploads/offers/<name>.png".
type FileStore interface {
	// Save stores the content under folder/name and returns its public path.
	Save(ctx context.Context, folder, name string, r io.Reader) (string, error)
	// Delete removes a file by its public path. A missing file is not an error.
	Delete(ctx context.Context, publicPath string) error
}

// keyFromPath turns a public path into a storage key relative to PublicPrefix.
func keyFromPath(publicPath string) (string, error) {
	if !strings.HasPrefix(publicPath, PublicPrefix+"/") {
		return "", ErrInvalidPath
	}
	key := path.Clean(strings.TrimPrefix(publicPath, PublicPrefix+"/"))
	if key == "." || strings.HasPrefix(key, "..") || strings.HasPrefix(key, "/") {
		return "", ErrInvalidPath
	}
	return key, nil
}

func publicPath(folder, name string) string {
	return PublicPrefix + "/" + folder + "/" + name
}

func contentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	}
	return "application/octet-stream"
}
