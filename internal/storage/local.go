package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStore keeps uploads on the local filesystem below a root directory.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{root: root}, nil
}

// Root is the directory served under PublicPrefix.
func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) Save(ctx context.Context, folder, name string, r io.Reader) (string, error) {
	p := publicPath(folder, name)
	key, err := keyFromPath(p)
	if err != nil {
		return "", err
	}
	fullPath := filepath.Join(s.root, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directories: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, r); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return p, nil
}

func (s *LocalStore) Delete(ctx context.Context, publicPath string) error {
	key, err := keyFromPath(publicPath)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(s.root, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
