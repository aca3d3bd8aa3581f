package storage

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"youtube-trends/internal/models"

	"github.com/parquet-go/parquet-go"
)

func datasetRecord(id, date string, days int) models.CleanedVideoRecord {
	rec := models.CleanedVideoRecord{
		VideoID:         id,
		Title:           "Title " + id,
		ChannelTitle:    "Channel",
		IsAIRelated:     true,
		TitleLength:     len("Title " + id),
		ContentCategory: models.CategoryAI,
	}
	if date != "" {
		pt, _ := time.Parse(time.RFC3339, date+"T10:30:00Z")
		pd, _ := time.Parse(models.DateLayout, date)
		rec.PublishTime = &pt
		rec.PublishDate = &pd
		rec.DaysSincePublished = &days
	}
	return rec
}

func TestWriteAndReadPartitions(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore() error: %v", err)
	}
	ctx := context.Background()

	records := []models.CleanedVideoRecord{
		datasetRecord("a", "2024-01-01", 3),
		datasetRecord("b", "2024-01-02", 2),
		datasetRecord("c", "2024-01-02", 2),
		datasetRecord("d", "", 0),
	}

	res, err := WritePartitions(ctx, store, "youtube_processed/", records)
	if err != nil {
		t.Fatalf("WritePartitions() error: %v", err)
	}
	if res.Records != 4 || len(res.Partitions) != 3 {
		t.Errorf("WritePartitions() = %+v, want 4 records in 3 partitions", res)
	}

	keys, _ := store.List(ctx, "youtube_processed/")
	var sawNull, sawSuccess bool
	for _, k := range keys {
		if strings.Contains(k, "publish_date=__HIVE_DEFAULT_PARTITION__/") {
			sawNull = true
		}
		if k == "youtube_processed/_SUCCESS" {
			sawSuccess = true
		}
	}
	if !sawNull {
		t.Errorf("no null partition written; keys = %v", keys)
	}
	if !sawSuccess {
		t.Errorf("no _SUCCESS marker written; keys = %v", keys)
	}

	got, err := ReadDataset(ctx, store, "youtube_processed")
	if err != nil {
		t.Fatalf("ReadDataset() error: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("ReadDataset() returned %d records, want 4", len(got))
	}

	byID := make(map[string]models.CleanedVideoRecord)
	for _, r := range got {
		byID[r.VideoID] = r
	}

	b := byID["b"]
	if b.PublishDateString() != "2024-01-02" {
		t.Errorf("b publish_date = %q, want 2024-01-02", b.PublishDateString())
	}
	if b.PublishTime == nil || !b.PublishTime.Equal(*records[1].PublishTime) {
		t.Errorf("b publish_time = %v, want %v", b.PublishTime, records[1].PublishTime)
	}
	if b.DaysSincePublished == nil || *b.DaysSincePublished != 2 {
		t.Errorf("b days_since_published = %v, want 2", b.DaysSincePublished)
	}
	if !b.IsAIRelated || b.ContentCategory != models.CategoryAI || b.TitleLength != len("Title b") {
		t.Errorf("b features not preserved: %+v", b)
	}

	d := byID["d"]
	if d.PublishTime != nil || d.PublishDate != nil || d.DaysSincePublished != nil {
		t.Errorf("d should keep null date fields, got %+v", d)
	}
}

func TestWritePartitionsOverwritesOnlyTouchedDates(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore() error: %v", err)
	}
	ctx := context.Background()

	first := []models.CleanedVideoRecord{
		datasetRecord("old-1", "2024-01-01", 5),
		datasetRecord("old-2", "2024-01-02", 4),
	}
	if _, err := WritePartitions(ctx, store, "processed", first); err != nil {
		t.Fatalf("first WritePartitions() error: %v", err)
	}

	second := []models.CleanedVideoRecord{
		datasetRecord("new-2", "2024-01-02", 4),
	}
	res, err := WritePartitions(ctx, store, "processed", second)
	if err != nil {
		t.Fatalf("second WritePartitions() error: %v", err)
	}
	if res.Replaced != 1 {
		t.Errorf("Replaced = %d, want 1", res.Replaced)
	}

	got, err := ReadDataset(ctx, store, "processed")
	if err != nil {
		t.Fatalf("ReadDataset() error: %v", err)
	}
	var ids []string
	for _, r := range got {
		ids = append(ids, r.VideoID)
	}
	sort.Strings(ids)
	if strings.Join(ids, ",") != "new-2,old-1" {
		t.Errorf("dataset ids = %v, want [new-2 old-1]", ids)
	}
}

func TestPartitionDate(t *testing.T) {
	d, err := partitionDate("p/publish_date=2024-03-04/part-00000-x.parquet")
	if err != nil || d == nil || d.Format(models.DateLayout) != "2024-03-04" {
		t.Errorf("partitionDate() = %v, %v", d, err)
	}

	d, err = partitionDate("p/publish_date=__HIVE_DEFAULT_PARTITION__/part.parquet")
	if err != nil || d != nil {
		t.Errorf("null partition = %v, %v; want nil, nil", d, err)
	}

	if _, err := partitionDate("p/publish_date=not-a-date/part.parquet"); err == nil {
		t.Error("expected error for malformed partition value")
	}
}

func TestDatasetSchemaTimestamp(t *testing.T) {
	schema := parquet.SchemaOf(datasetRow{})
	leaf, ok := schema.Lookup("publish_time")
	if !ok {
		t.Fatal("publish_time column missing from schema")
	}
	if !leaf.Node.Optional() {
		t.Error("publish_time should be optional")
	}
	lt := leaf.Node.Type().LogicalType()
	if lt == nil || lt.Timestamp == nil {
		t.Fatalf("publish_time logical type = %v, want TIMESTAMP", lt)
	}
	if lt.Timestamp.Unit.Micros == nil {
		t.Errorf("publish_time unit = %+v, want microseconds", lt.Timestamp.Unit)
	}
}
