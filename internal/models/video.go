package models

import "time"

// RawVideoRecord is one search result as written by the fetcher.
type RawVideoRecord struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channel_title"`
	PublishTime  string `json:"publish_time"`
}

// Category is the single content label assigned to a processed video.
type Category string

const (
	CategoryMusic       Category = "Music"
	CategoryAI          Category = "AI"
	CategoryGoogleCloud Category = "Google Cloud"
	CategoryTutorial    Category = "Tutorial"
	CategoryNews        Category = "News"
	CategoryOther       Category = "Other"
)

// Categories lists every label in precedence order.
var Categories = []Category{
	CategoryMusic,
	CategoryAI,
	CategoryGoogleCloud,
	CategoryTutorial,
	CategoryNews,
	CategoryOther,
}

// CleanedVideoRecord is a deduplicated, feature-enriched video.
// PublishTime, PublishDate and DaysSincePublished are nil when the raw
// publish_time could not be parsed.
type CleanedVideoRecord struct {
	VideoID            string     `json:"video_id"`
	Title              string     `json:"title"`
	ChannelTitle       string     `json:"channel_title"`
	PublishTime        *time.Time `json:"publish_time"`
	PublishDate        *time.Time `json:"publish_date"`
	IsAIRelated        bool       `json:"is_ai_related"`
	IsMusicRelated     bool       `json:"is_music_related"`
	IsGoogleRelated    bool       `json:"is_google_related"`
	IsTutorialRelated  bool       `json:"is_tutorial_related"`
	IsNewsRelated      bool       `json:"is_news_related"`
	TitleLength        int        `json:"title_length"`
	ContentCategory    Category   `json:"content_category"`
	DaysSincePublished *int       `json:"days_since_published"`
}

// DateLayout is the calendar-date format used for partitions and filters.
const DateLayout = "2006-01-02"

// PublishDateString returns the partition date, or "" when unknown.
func (r *CleanedVideoRecord) PublishDateString() string {
	if r.PublishDate == nil {
		return ""
	}
	return r.PublishDate.Format(DateLayout)
}
