package transformer

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"youtube-trends/internal/models"
	"youtube-trends/shared/storage"
)

// ErrNoRawData is returned when no object under the raw prefix matches the
// glob.
var ErrNoRawData = errors.New("no raw data found")

// DecodeJSONLines parses newline-delimited RawVideoRecords. Blank lines are
// skipped; any malformed line fails the whole batch.
func DecodeJSONLines(body []byte) ([]models.RawVideoRecord, error) {
	var records []models.RawVideoRecord

	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		var rec models.RawVideoRecord
		if err := json.Unmarshal(text, &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan raw data: %w", err)
	}

	return records, nil
}

// ReadRaw loads every raw object under prefix whose file name matches glob.
// It returns the records and the keys they were read from.
func ReadRaw(ctx context.Context, store storage.ObjectStore, prefix, glob string) ([]models.RawVideoRecord, []string, error) {
	keys, err := store.List(ctx, storage.DirPrefix(prefix))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list raw objects: %w", err)
	}

	var records []models.RawVideoRecord
	var matched []string
	for _, key := range keys {
		ok, err := storage.MatchBase(glob, key)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			continue
		}

		body, err := store.Get(ctx, key)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read %s: %w", store.Location(key), err)
		}
		batch, err := DecodeJSONLines(body)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to decode %s: %w", store.Location(key), err)
		}
		records = append(records, batch...)
		matched = append(matched, key)
	}

	if len(matched) == 0 {
		return nil, nil, fmt.Errorf("%w under %s matching %s", ErrNoRawData, store.Location(storage.DirPrefix(prefix)), glob)
	}
	return records, matched, nil
}
