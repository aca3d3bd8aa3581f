package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"youtube-trends/shared/config"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("object not found")

// ObjectStore is the subset of bucket operations the pipeline needs.
// Put overwrites whatever is stored under key.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, keys []string) error
	Location(key string) string
}

// New builds the store described by cfg: a local directory when LocalDir is
// set, otherwise an S3-compatible bucket.
func New(cfg *config.StorageConfig) (ObjectStore, error) {
	if cfg.LocalDir != "" {
		return NewLocalStore(cfg.LocalDir)
	}
	store, err := NewS3Store(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 store: %w", err)
	}
	return store, nil
}

// JoinKey joins a prefix and a name with exactly one slash between them.
func JoinKey(prefix string, parts ...string) string {
	key := strings.TrimSuffix(prefix, "/")
	for _, p := range parts {
		p = strings.Trim(p, "/")
		if p == "" {
			continue
		}
		if key == "" {
			key = p
		} else {
			key = key + "/" + p
		}
	}
	return key
}

// DirPrefix returns prefix with a single trailing slash, so that listing
// "raw_data" does not also match "raw_data_old/".
func DirPrefix(prefix string) string {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}

// MatchBase reports whether the last path element of key matches the glob.
func MatchBase(glob, key string) (bool, error) {
	ok, err := path.Match(glob, path.Base(key))
	if err != nil {
		return false, fmt.Errorf("invalid glob %q: %w", glob, err)
	}
	return ok, nil
}
