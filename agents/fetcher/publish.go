package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"youtube-trends/internal/models"
	"youtube-trends/shared/storage"
)

const rawContentType = "application/x-ndjson"

// RawKey returns the object key for the raw batch fetched on runDate.
func RawKey(rawPrefix string, runDate time.Time) string {
	return storage.JoinKey(rawPrefix, runDate.UTC().Format(models.DateLayout)+"_youtube_videos.json")
}

// EncodeJSONLines serializes records as one JSON object per line, without a
// trailing newline. An empty slice encodes to an empty body.
func EncodeJSONLines(records []models.RawVideoRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	for i := range records {
		if err := enc.Encode(&records[i]); err != nil {
			return nil, fmt.Errorf("failed to encode record %s: %w", records[i].VideoID, err)
		}
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Publish writes records to key in a single Put, replacing any existing
// object.
func Publish(ctx context.Context, store storage.ObjectStore, key string, records []models.RawVideoRecord) error {
	body, err := EncodeJSONLines(records)
	if err != nil {
		return err
	}
	if err := store.Put(ctx, key, body, rawContentType); err != nil {
		return fmt.Errorf("failed to upload %s: %w", store.Location(key), err)
	}
	return nil
}
