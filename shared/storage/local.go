package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"youtube-trends/shared/monitoring"
)

// LocalStore maps object keys onto files below a root directory.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStore{root: root}, nil
}

func (l *LocalStore) path(key string) string {
	return filepath.Join(l.root, filepath.FromSlash(key))
}

func (l *LocalStore) Put(ctx context.Context, key string, body []byte, contentType string) error {
	p := l.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		monitoring.RecordStorageOperation("put", err)
		return fmt.Errorf("failed to create directory for %s: %w", key, err)
	}

	// Write next to the target and rename so readers never see a partial file.
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, body, 0644); err != nil {
		monitoring.RecordStorageOperation("put", err)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	err := os.Rename(tmp, p)
	monitoring.RecordStorageOperation("put", err)
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (l *LocalStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(l.path(key))
	monitoring.RecordStorageOperation("get", err)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

func (l *LocalStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(l.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(p, ".tmp") {
			return nil
		}
		rel, err := filepath.Rel(l.root, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	monitoring.RecordStorageOperation("list", err)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", prefix, err)
	}
	sort.Strings(keys)
	return keys, nil
}

func (l *LocalStore) Delete(ctx context.Context, keys []string) error {
	for _, key := range keys {
		err := os.Remove(l.path(key))
		if errors.Is(err, fs.ErrNotExist) {
			err = nil
		}
		monitoring.RecordStorageOperation("delete", err)
		if err != nil {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}
	return nil
}

func (l *LocalStore) Location(key string) string {
	return l.path(key)
}
