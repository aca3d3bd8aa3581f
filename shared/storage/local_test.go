package storage

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestLocalStorePutGet(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore() error: %v", err)
	}
	ctx := context.Background()

	if err := store.Put(ctx, "raw_data/2024-01-01_youtube_videos.json", []byte("first"), "application/json"); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	if err := store.Put(ctx, "raw_data/2024-01-01_youtube_videos.json", []byte("second"), "application/json"); err != nil {
		t.Fatalf("Put() overwrite error: %v", err)
	}

	got, err := store.Get(ctx, "raw_data/2024-01-01_youtube_videos.json")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("Get() = %q, want overwritten value %q", got, "second")
	}
}

func TestLocalStoreGetMissing(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore() error: %v", err)
	}

	_, err = store.Get(context.Background(), "nope.json")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestLocalStoreListAndDelete(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore() error: %v", err)
	}
	ctx := context.Background()

	for _, key := range []string{"raw_data/b.json", "raw_data/a.json", "raw_data_old/c.json", "other/d.json"} {
		if err := store.Put(ctx, key, []byte("x"), ""); err != nil {
			t.Fatalf("Put(%s) error: %v", key, err)
		}
	}

	keys, err := store.List(ctx, DirPrefix("raw_data"))
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	want := []string{"raw_data/a.json", "raw_data/b.json"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("List() = %v, want %v", keys, want)
	}

	if err := store.Delete(ctx, append(keys, "raw_data/missing.json")); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	keys, err = store.List(ctx, DirPrefix("raw_data"))
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("List() after delete = %v, want empty", keys)
	}
}

func TestJoinKey(t *testing.T) {
	tests := []struct {
		prefix string
		parts  []string
		want   string
	}{
		{"raw_data/", []string{"2024-01-01_youtube_videos.json"}, "raw_data/2024-01-01_youtube_videos.json"},
		{"raw_data", []string{"x.json"}, "raw_data/x.json"},
		{"", []string{"x.json"}, "x.json"},
		{"youtube_processed/", []string{"publish_date=2024-01-01", "/part.parquet"}, "youtube_processed/publish_date=2024-01-01/part.parquet"},
	}
	for _, tt := range tests {
		if got := JoinKey(tt.prefix, tt.parts...); got != tt.want {
			t.Errorf("JoinKey(%q, %v) = %q, want %q", tt.prefix, tt.parts, got, tt.want)
		}
	}
}

func TestMatchBase(t *testing.T) {
	tests := []struct {
		glob string
		key  string
		want bool
	}{
		{"*.json", "raw_data/2024-01-01_youtube_videos.json", true},
		{"*.json", "raw_data/notes.txt", false},
		{"2024-*_youtube_videos.json", "raw_data/2024-05-02_youtube_videos.json", true},
	}
	for _, tt := range tests {
		got, err := MatchBase(tt.glob, tt.key)
		if err != nil {
			t.Fatalf("MatchBase(%q, %q) error: %v", tt.glob, tt.key, err)
		}
		if got != tt.want {
			t.Errorf("MatchBase(%q, %q) = %v, want %v", tt.glob, tt.key, got, tt.want)
		}
	}

	if _, err := MatchBase("[", "a"); err == nil {
		t.Error("expected error for malformed glob")
	}
}
