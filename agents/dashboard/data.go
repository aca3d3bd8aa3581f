package dashboard

import (
	"sort"
	"strings"
	"time"

	"youtube-trends/internal/models"
)

// Filter is the set of sidebar selections. A nil Categories slice means all
// categories; an empty non-nil slice selects nothing.
type Filter struct {
	Categories []models.Category
	Start      *time.Time
	End        *time.Time
}

// Dataset is the processed dataset loaded once at start, plus the values
// the filter controls offer.
type Dataset struct {
	Records    []models.CleanedVideoRecord
	Categories []models.Category
	MinDate    *time.Time
	MaxDate    *time.Time
}

// NewDataset indexes records for the filter controls. Categories are listed
// in precedence order, limited to those present.
func NewDataset(records []models.CleanedVideoRecord) *Dataset {
	ds := &Dataset{Records: records}

	present := make(map[models.Category]bool)
	for i := range records {
		present[records[i].ContentCategory] = true
		d := records[i].PublishDate
		if d == nil {
			continue
		}
		if ds.MinDate == nil || d.Before(*ds.MinDate) {
			ds.MinDate = d
		}
		if ds.MaxDate == nil || d.After(*ds.MaxDate) {
			ds.MaxDate = d
		}
	}
	for _, c := range models.Categories {
		if present[c] {
			ds.Categories = append(ds.Categories, c)
		}
	}
	return ds
}

// DefaultFilter selects every category over the full date span.
func (ds *Dataset) DefaultFilter() Filter {
	return Filter{Start: ds.MinDate, End: ds.MaxDate}
}

// Apply returns the records matching f. Records without a publish date never
// pass the date range.
func (ds *Dataset) Apply(f Filter) []models.CleanedVideoRecord {
	var selected map[models.Category]bool
	if f.Categories != nil {
		selected = make(map[models.Category]bool, len(f.Categories))
		for _, c := range f.Categories {
			selected[c] = true
		}
	}

	out := make([]models.CleanedVideoRecord, 0, len(ds.Records))
	for i := range ds.Records {
		r := &ds.Records[i]
		if selected != nil && !selected[r.ContentCategory] {
			continue
		}
		if r.PublishDate == nil {
			continue
		}
		if f.Start != nil && r.PublishDate.Before(*f.Start) {
			continue
		}
		if f.End != nil && r.PublishDate.After(*f.End) {
			continue
		}
		out = append(out, *r)
	}
	return out
}

// Metrics are the headline counters of a filtered view.
type Metrics struct {
	TotalVideos    int `json:"total_videos"`
	UniqueVideos   int `json:"unique_videos"`
	UniqueChannels int `json:"unique_channels"`
}

// DailyCount is one point of the publishing time series.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// LabelCount is one bar of a categorical chart.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Bin is one histogram bucket covering [Start, End).
type Bin struct {
	Start int `json:"start"`
	End   int `json:"end"`
	Count int `json:"count"`
}

// Summary holds every aggregate the dashboard renders for one filter.
type Summary struct {
	Metrics     Metrics      `json:"metrics"`
	Daily       []DailyCount `json:"daily"`
	Categories  []LabelCount `json:"categories"`
	Freshness   []Bin        `json:"freshness"`
	TopChannels []LabelCount `json:"top_channels"`
}

// SummaryOptions tunes the chart aggregations.
type SummaryOptions struct {
	HistogramMaxBins int
	TopChannels      int // 0 keeps every channel
}

// Summarize computes all aggregates over records.
func Summarize(records []models.CleanedVideoRecord, opts SummaryOptions) Summary {
	return Summary{
		Metrics:     ComputeMetrics(records),
		Daily:       DailyCounts(records),
		Categories:  CategoryCounts(records),
		Freshness:   FreshnessHistogram(records, opts.HistogramMaxBins),
		TopChannels: TopChannels(records, opts.TopChannels),
	}
}

func ComputeMetrics(records []models.CleanedVideoRecord) Metrics {
	videos := make(map[string]struct{}, len(records))
	channels := make(map[string]struct{})
	for i := range records {
		videos[records[i].VideoID] = struct{}{}
		channels[records[i].ChannelTitle] = struct{}{}
	}
	return Metrics{
		TotalVideos:    len(records),
		UniqueVideos:   len(videos),
		UniqueChannels: len(channels),
	}
}

// DailyCounts groups records by publish date, ascending.
func DailyCounts(records []models.CleanedVideoRecord) []DailyCount {
	counts := make(map[string]int)
	for i := range records {
		if d := records[i].PublishDateString(); d != "" {
			counts[d]++
		}
	}

	out := make([]DailyCount, 0, len(counts))
	for d, n := range counts {
		out = append(out, DailyCount{Date: d, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// CategoryCounts counts records per category, most frequent first.
func CategoryCounts(records []models.CleanedVideoRecord) []LabelCount {
	counts := make(map[string]int)
	for i := range records {
		counts[string(records[i].ContentCategory)]++
	}
	return sortedCounts(counts, 0)
}

// TopChannels counts records per channel, most frequent first, keeping at
// most limit entries when limit is positive.
func TopChannels(records []models.CleanedVideoRecord, limit int) []LabelCount {
	counts := make(map[string]int)
	for i := range records {
		counts[records[i].ChannelTitle]++
	}
	return sortedCounts(counts, limit)
}

func sortedCounts(counts map[string]int, limit int) []LabelCount {
	out := make([]LabelCount, 0, len(counts))
	for label, n := range counts {
		out = append(out, LabelCount{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// FreshnessHistogram buckets days_since_published into at most maxBins
// equal-width integer bins. Records without a value are dropped.
func FreshnessHistogram(records []models.CleanedVideoRecord, maxBins int) []Bin {
	if maxBins < 1 {
		maxBins = 1
	}

	var values []int
	for i := range records {
		if d := records[i].DaysSincePublished; d != nil {
			values = append(values, *d)
		}
	}
	if len(values) == 0 {
		return []Bin{}
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	span := hi - lo + 1
	step := (span + maxBins - 1) / maxBins
	bins := make([]Bin, (span+step-1)/step)
	for i := range bins {
		bins[i].Start = lo + i*step
		bins[i].End = bins[i].Start + step
	}
	for _, v := range values {
		bins[(v-lo)/step].Count++
	}
	return bins
}

// SearchResult is a capped list of title matches and the full match count.
type SearchResult struct {
	Terms   []string                    `json:"terms"`
	Total   int                         `json:"total"`
	Matches []models.CleanedVideoRecord `json:"matches"`
}

// ParseTerms splits comma-separated input into lowercase, trimmed terms,
// dropping empty ones.
func ParseTerms(query string) []string {
	var terms []string
	for _, t := range strings.Split(strings.ToLower(query), ",") {
		if t = strings.TrimSpace(t); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

// Search returns records whose title contains any of terms, ignoring case.
// At most limit matches are kept; Total counts all of them.
func Search(records []models.CleanedVideoRecord, terms []string, limit int) SearchResult {
	res := SearchResult{Terms: terms, Matches: []models.CleanedVideoRecord{}}
	if len(terms) == 0 {
		return res
	}

	for i := range records {
		title := strings.ToLower(records[i].Title)
		for _, t := range terms {
			if strings.Contains(title, t) {
				res.Total++
				if limit <= 0 || len(res.Matches) < limit {
					res.Matches = append(res.Matches, records[i])
				}
				break
			}
		}
	}
	return res
}
