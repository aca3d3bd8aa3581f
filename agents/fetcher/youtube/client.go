package youtube

import (
	"context"
	"fmt"
	"log"
	"time"

	"youtube-trends/internal/models"
	"youtube-trends/shared/config"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Client wraps the YouTube Data API v3 search endpoint.
type Client struct {
	service *youtube.Service
}

// SearchQuery describes one keyword search.
type SearchQuery struct {
	Keyword        string
	MaxResults     int64
	PublishedAfter time.Time
}

// NewClient authenticates with the API key when one is configured and falls
// back to the OAuth device flow otherwise.
func NewClient(ctx context.Context, cfg *config.YouTubeConfig) (*Client, error) {
	var opts []option.ClientOption
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	} else {
		httpClient, err := oauthHTTPClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return NewClientWithOptions(ctx, opts...)
}

// NewClientWithOptions creates a client from raw API options, e.g. a custom
// endpoint.
func NewClientWithOptions(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &Client{service: service}, nil
}

// Search returns the videos matching q.Keyword published after
// q.PublishedAfter, newest first. API errors (auth, quota, network) are
// returned unchanged apart from wrapping.
func (c *Client) Search(ctx context.Context, q SearchQuery) ([]models.RawVideoRecord, error) {
	if q.MaxResults < 1 || q.MaxResults > config.MaxSearchResults {
		return nil, fmt.Errorf("max results must be between 1 and %d, got %d", config.MaxSearchResults, q.MaxResults)
	}

	call := c.service.Search.List([]string{"id", "snippet"}).
		Q(q.Keyword).
		MaxResults(q.MaxResults).
		Order("date").
		Type("video").
		PublishedAfter(q.PublishedAfter.UTC().Format(time.RFC3339))

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to search videos for %q: %w", q.Keyword, err)
	}

	videos := make([]models.RawVideoRecord, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			log.Printf("Warning: skipping search result without video id or snippet")
			continue
		}
		videos = append(videos, models.RawVideoRecord{
			VideoID:      item.Id.VideoId,
			Title:        item.Snippet.Title,
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishTime:  item.Snippet.PublishedAt,
		})
	}

	return videos, nil
}
