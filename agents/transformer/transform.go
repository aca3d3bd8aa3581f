package transformer

import (
	"log"
	"strings"
	"time"

	"youtube-trends/internal/models"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParsePublishTime parses an ISO-8601 timestamp. Values without an offset
// are taken as UTC. It returns nil for anything it cannot parse.
func ParsePublishTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

type parsedRecord struct {
	raw         models.RawVideoRecord
	publishTime *time.Time
}

// earlier orders null timestamps first, then ascending.
func earlier(a, b *time.Time) bool {
	if a == nil {
		return b != nil
	}
	if b == nil {
		return false
	}
	return a.Before(*b)
}

// deduplicate keeps one record per video id: the one with the earliest
// publish time, or the first seen among equal times. Output follows the
// order in which ids first appear. It also returns the number of records
// dropped.
func deduplicate(records []parsedRecord) ([]parsedRecord, int) {
	index := make(map[string]int, len(records))
	out := make([]parsedRecord, 0, len(records))

	for _, rec := range records {
		i, seen := index[rec.raw.VideoID]
		if !seen {
			index[rec.raw.VideoID] = len(out)
			out = append(out, rec)
			continue
		}
		if earlier(rec.publishTime, out[i].publishTime) {
			out[i] = rec
		}
	}

	return out, len(records) - len(out)
}

// DaysBetween is the number of UTC calendar days from t to ref. Time of day
// is ignored, so a video published at 23:59 is one day old at 00:01.
func DaysBetween(ref, t time.Time) int {
	refDate := truncateDate(ref)
	tDate := truncateDate(t)
	// Unix seconds, not Sub: time.Duration saturates after about 292 years.
	return int((refDate.Unix() - tDate.Unix()) / 86400)
}

func truncateDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Transform turns raw search results into the processed dataset rows.
// Steps run in a fixed order: parse, dedupe, clean, flag, measure,
// categorize, date.
func Transform(raw []models.RawVideoRecord, referenceTime time.Time) []models.CleanedVideoRecord {
	parsed := make([]parsedRecord, len(raw))
	for i, r := range raw {
		parsed[i] = parsedRecord{raw: r, publishTime: ParsePublishTime(r.PublishTime)}
	}

	deduped, duplicates := deduplicate(parsed)
	if duplicates > 0 {
		log.Printf("Found %d duplicates. Removing them.", duplicates)
	} else {
		log.Println("No duplicates found. Proceeding without changes.")
	}

	cleaned := make([]models.CleanedVideoRecord, 0, len(deduped))
	for _, rec := range deduped {
		cleaned = append(cleaned, enrich(rec, referenceTime))
	}
	return cleaned
}

func enrich(rec parsedRecord, referenceTime time.Time) models.CleanedVideoRecord {
	title := CleanTitle(rec.raw.Title)
	flags := DeriveFlags(title)

	out := models.CleanedVideoRecord{
		VideoID:           rec.raw.VideoID,
		Title:             title,
		ChannelTitle:      rec.raw.ChannelTitle,
		PublishTime:       rec.publishTime,
		IsAIRelated:       flags.AI,
		IsMusicRelated:    flags.Music,
		IsGoogleRelated:   flags.Google,
		IsTutorialRelated: flags.Tutorial,
		IsNewsRelated:     flags.News,
		TitleLength:       TitleLength(title),
		ContentCategory:   Categorize(flags),
	}

	if rec.publishTime != nil {
		date := truncateDate(*rec.publishTime)
		days := DaysBetween(referenceTime, *rec.publishTime)
		out.PublishDate = &date
		out.DaysSincePublished = &days
	}
	return out
}
