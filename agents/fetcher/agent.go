package fetcher

import (
	"context"
	"fmt"
	"log"
	"time"

	"youtube-trends/agents/fetcher/youtube"
	"youtube-trends/internal/models"
	"youtube-trends/shared/config"
	"youtube-trends/shared/monitoring"
	"youtube-trends/shared/scheduler"
	"youtube-trends/shared/storage"
)

// agentID labels this agent in metrics.
const agentID = "fetcher"

// Searcher is the part of the YouTube client the agent depends on.
type Searcher interface {
	Search(ctx context.Context, q youtube.SearchQuery) ([]models.RawVideoRecord, error)
}

// FetchMetrics represents the metrics collected during a fetch run
type FetchMetrics struct {
	Keyword  string `json:"keyword"`
	Videos   int    `json:"videos"`
	Location string `json:"location"`
}

// GetSummary implements the scheduler.Metrics interface
func (m FetchMetrics) GetSummary() string {
	return fmt.Sprintf("fetched %d videos for %q, uploaded to %s", m.Videos, m.Keyword, m.Location)
}

// FetcherAgent implements the scheduler.Agent interface
type FetcherAgent struct {
	config   *config.Config
	searcher Searcher
	store    storage.ObjectStore
	now      func() time.Time
}

func NewFetcherAgent(cfg *config.Config) *FetcherAgent {
	return &FetcherAgent{
		config: cfg,
		now:    time.Now,
	}
}

// WithSearcher replaces the YouTube client, e.g. with a fake in tests.
func (f *FetcherAgent) WithSearcher(s Searcher) *FetcherAgent {
	f.searcher = s
	return f
}

// WithStore replaces the object store built from configuration.
func (f *FetcherAgent) WithStore(s storage.ObjectStore) *FetcherAgent {
	f.store = s
	return f
}

func (f *FetcherAgent) Name() string {
	return "YouTube Fetcher"
}

func (f *FetcherAgent) ID() string {
	return agentID
}

func (f *FetcherAgent) Initialize() error {
	log.Printf("Initializing %s...", f.Name())

	if err := f.config.ValidateFetcher(); err != nil {
		return err
	}

	if f.searcher == nil {
		client, err := youtube.NewClient(context.Background(), &f.config.YouTube)
		if err != nil {
			return fmt.Errorf("failed to create YouTube client: %w", err)
		}
		f.searcher = client
		log.Println("YouTube client initialized")
	}

	if f.store == nil {
		store, err := storage.New(&f.config.Storage)
		if err != nil {
			return err
		}
		f.store = store
		log.Println("Object store initialized")
	}

	return nil
}

func (f *FetcherAgent) RunOnce(ctx context.Context, events *scheduler.AgentEvents) error {
	startTime := time.Now()
	now := f.now()
	cfg := f.config.Fetcher

	query := youtube.SearchQuery{
		Keyword:        cfg.Keyword,
		MaxResults:     cfg.MaxResults,
		PublishedAfter: now.AddDate(0, 0, -cfg.LookbackDays),
	}

	log.Printf("Searching YouTube for %q (max %d, published after %s)...",
		query.Keyword, query.MaxResults, query.PublishedAfter.UTC().Format(time.RFC3339))
	videos, err := f.searcher.Search(ctx, query)
	if err != nil {
		return f.fail(events, fmt.Errorf("failed to search videos: %w", err), startTime)
	}
	log.Printf("Fetched %d videos", len(videos))
	monitoring.RecordRecords(agentID, "fetched", len(videos))

	key := RawKey(f.config.Storage.RawPrefix, now)
	if err := Publish(ctx, f.store, key, videos); err != nil {
		return f.fail(events, err, startTime)
	}
	log.Printf("Uploaded raw data to %s", f.store.Location(key))

	metrics := FetchMetrics{
		Keyword:  cfg.Keyword,
		Videos:   len(videos),
		Location: f.store.Location(key),
	}
	if events != nil && events.OnSuccess != nil {
		events.OnSuccess(metrics, time.Since(startTime))
	}
	return nil
}

func (f *FetcherAgent) fail(events *scheduler.AgentEvents, err error, startTime time.Time) error {
	if events != nil && events.OnCriticalFailure != nil {
		events.OnCriticalFailure(err, time.Since(startTime))
	}
	return err
}
