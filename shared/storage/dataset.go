package storage

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"youtube-trends/internal/models"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
)

const (
	partitionColumn = "publish_date"
	// Directory used for rows whose partition value is null.
	nullPartition = "__HIVE_DEFAULT_PARTITION__"
	successMarker = "_SUCCESS"
)

// datasetRow is the on-disk parquet schema. publish_date is not stored in the
// file; it is encoded in the partition directory name.
type datasetRow struct {
	VideoID            string `parquet:"video_id"`
	Title              string `parquet:"title"`
	ChannelTitle       string `parquet:"channel_title"`
	PublishTime        int64  `parquet:"publish_time,optional,timestamp(microsecond)"` // zero is null
	IsAIRelated        bool   `parquet:"is_ai_related"`
	IsMusicRelated     bool   `parquet:"is_music_related"`
	IsGoogleRelated    bool   `parquet:"is_google_related"`
	IsTutorialRelated  bool   `parquet:"is_tutorial_related"`
	IsNewsRelated      bool   `parquet:"is_news_related"`
	TitleLength        int32  `parquet:"title_length"`
	ContentCategory    string `parquet:"content_category"`
	DaysSincePublished *int32 `parquet:"days_since_published,optional"`
}

// PartitionWrite summarizes one WritePartitions call.
type PartitionWrite struct {
	Partitions []string
	Records    int
	Replaced   int // objects removed from overwritten partitions
}

// WritePartitions writes records as one parquet file per publish date below
// prefix. Every partition present in records is cleared first, so re-running
// over the same dates replaces their contents; partitions not present in this
// run are left untouched.
func WritePartitions(ctx context.Context, store ObjectStore, prefix string, records []models.CleanedVideoRecord) (*PartitionWrite, error) {
	groups := make(map[string][]datasetRow)
	for i := range records {
		value := records[i].PublishDateString()
		if value == "" {
			value = nullPartition
		}
		groups[value] = append(groups[value], toDatasetRow(&records[i]))
	}

	partitions := make([]string, 0, len(groups))
	for value := range groups {
		partitions = append(partitions, value)
	}
	sort.Strings(partitions)

	runID := uuid.NewString()
	result := &PartitionWrite{Partitions: partitions, Records: len(records)}

	for _, value := range partitions {
		dir := PartitionPrefix(prefix, value)

		existing, err := store.List(ctx, DirPrefix(dir))
		if err != nil {
			return nil, fmt.Errorf("failed to list partition %s: %w", value, err)
		}
		if len(existing) > 0 {
			if err := store.Delete(ctx, existing); err != nil {
				return nil, fmt.Errorf("failed to clear partition %s: %w", value, err)
			}
			result.Replaced += len(existing)
		}

		var buf bytes.Buffer
		if err := parquet.Write(&buf, groups[value]); err != nil {
			return nil, fmt.Errorf("failed to encode partition %s: %w", value, err)
		}

		key := JoinKey(dir, fmt.Sprintf("part-00000-%s.parquet", runID))
		if err := store.Put(ctx, key, buf.Bytes(), "application/vnd.apache.parquet"); err != nil {
			return nil, err
		}
	}

	if err := store.Put(ctx, JoinKey(prefix, successMarker), []byte{}, "text/plain"); err != nil {
		return nil, err
	}

	return result, nil
}

// ReadDataset loads every parquet file below prefix and restores the
// publish_date column from the partition directories.
func ReadDataset(ctx context.Context, store ObjectStore, prefix string) ([]models.CleanedVideoRecord, error) {
	keys, err := store.List(ctx, DirPrefix(prefix))
	if err != nil {
		return nil, fmt.Errorf("failed to list dataset: %w", err)
	}

	var records []models.CleanedVideoRecord
	for _, key := range keys {
		if !strings.HasSuffix(key, ".parquet") {
			continue
		}

		date, err := partitionDate(key)
		if err != nil {
			return nil, err
		}

		data, err := store.Get(ctx, key)
		if err != nil {
			return nil, err
		}

		rows, err := parquet.Read[datasetRow](bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", key, err)
		}

		for i := range rows {
			rec := fromDatasetRow(&rows[i])
			rec.PublishDate = date
			records = append(records, rec)
		}
	}
	return records, nil
}

// PartitionPrefix returns the directory key for one partition value.
func PartitionPrefix(prefix, value string) string {
	return JoinKey(prefix, partitionColumn+"="+value)
}

// partitionDate extracts the publish_date value from a key such as
// "youtube_processed/publish_date=2024-01-01/part-00000-x.parquet".
func partitionDate(key string) (*time.Time, error) {
	for _, segment := range strings.Split(key, "/") {
		value, ok := strings.CutPrefix(segment, partitionColumn+"=")
		if !ok {
			continue
		}
		if value == nullPartition {
			return nil, nil
		}
		d, err := time.Parse(models.DateLayout, value)
		if err != nil {
			return nil, fmt.Errorf("invalid partition value in %s: %w", key, err)
		}
		return &d, nil
	}
	return nil, nil
}

func toDatasetRow(r *models.CleanedVideoRecord) datasetRow {
	row := datasetRow{
		VideoID:           r.VideoID,
		Title:             r.Title,
		ChannelTitle:      r.ChannelTitle,
		IsAIRelated:       r.IsAIRelated,
		IsMusicRelated:    r.IsMusicRelated,
		IsGoogleRelated:   r.IsGoogleRelated,
		IsTutorialRelated: r.IsTutorialRelated,
		IsNewsRelated:     r.IsNewsRelated,
		TitleLength:       int32(r.TitleLength),
		ContentCategory:   string(r.ContentCategory),
	}
	if r.PublishTime != nil {
		row.PublishTime = r.PublishTime.UnixMicro()
	}
	if r.DaysSincePublished != nil {
		days := int32(*r.DaysSincePublished)
		row.DaysSincePublished = &days
	}
	return row
}

func fromDatasetRow(row *datasetRow) models.CleanedVideoRecord {
	rec := models.CleanedVideoRecord{
		VideoID:           row.VideoID,
		Title:             row.Title,
		ChannelTitle:      row.ChannelTitle,
		IsAIRelated:       row.IsAIRelated,
		IsMusicRelated:    row.IsMusicRelated,
		IsGoogleRelated:   row.IsGoogleRelated,
		IsTutorialRelated: row.IsTutorialRelated,
		IsNewsRelated:     row.IsNewsRelated,
		TitleLength:       int(row.TitleLength),
		ContentCategory:   models.Category(row.ContentCategory),
	}
	if row.PublishTime != 0 {
		t := time.UnixMicro(row.PublishTime).UTC()
		rec.PublishTime = &t
	}
	if row.DaysSincePublished != nil {
		days := int(*row.DaysSincePublished)
		rec.DaysSincePublished = &days
	}
	return rec
}
