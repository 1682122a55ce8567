// Package storage holds the asset store backends. Assets are addressed by
// web paths such as "/images/projects/oak_table/main_1a2b3c4d.webp".
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var ErrInvalidPath = errors.New("storage: invalid asset path")

// cleanWebPath normalizes p and rejects anything that is not a rooted,
// non-root path under the web root.
func cleanWebPath(p string) (string, error) {
	if !strings.HasPrefix(p, "/") || strings.ContainsRune(p, 0) || strings.Contains(p, `\`) {
		return "", ErrInvalidPath
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", ErrInvalidPath
		}
	}
	clean := path.Clean(p)
	if clean == "/" {
		return "", ErrInvalidPath
	}
	return clean, nil
}

// LocalStore keeps assets on the local filesystem below a public root
// that the HTTP server serves statically.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root: %w", err)
	}
	return &LocalStore{root: abs}, nil
}

// Root returns the absolute directory backing the store.
func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) resolve(webPath string) (string, error) {
	clean, err := cleanWebPath(webPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

// Put writes data atomically, creating parent directories as needed.
func (s *LocalStore) Put(_ context.Context, webPath string, data []byte) error {
	target, err := s.resolve(webPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("storage: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("storage: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("storage: chmod: %w", err)
	}
	return os.Rename(tmp.Name(), target)
}

// Remove deletes one asset. A missing file is not an error.
func (s *LocalStore) Remove(_ context.Context, webPath string) error {
	target, err := s.resolve(webPath)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// RemoveDir deletes a folder and everything under it.
func (s *LocalStore) RemoveDir(_ context.Context, webDir string) error {
	target, err := s.resolve(webDir)
	if err != nil {
		return err
	}
	return os.RemoveAll(target)
}

// Ping checks that the root is still a writable directory.
func (s *LocalStore) Ping(context.Context) error {
	info, err := os.Stat(s.root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("storage: %s is not a directory", s.root)
	}
	f, err := os.CreateTemp(s.root, ".ping-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
