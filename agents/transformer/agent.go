package transformer

import (
	"context"
	"fmt"
	"log"
	"time"

	"youtube-trends/shared/config"
	"youtube-trends/shared/monitoring"
	"youtube-trends/shared/scheduler"
	"youtube-trends/shared/storage"
)

// agentID labels this agent in metrics.
const agentID = "transformer"

// TransformMetrics represents the metrics collected during a transform run
type TransformMetrics struct {
	Files      int `json:"files"`
	RawRecords int `json:"raw_records"`
	Records    int `json:"records"`
	Partitions int `json:"partitions"`
	Replaced   int `json:"replaced"`
}

// GetSummary implements the scheduler.Metrics interface
func (m TransformMetrics) GetSummary() string {
	return fmt.Sprintf("read %d records from %d files, wrote %d records to %d partitions (%d objects replaced)",
		m.RawRecords, m.Files, m.Records, m.Partitions, m.Replaced)
}

// TransformerAgent implements the scheduler.Agent interface
type TransformerAgent struct {
	config *config.Config
	store  storage.ObjectStore
	now    func() time.Time
}

func NewTransformerAgent(cfg *config.Config) *TransformerAgent {
	return &TransformerAgent{
		config: cfg,
		now:    time.Now,
	}
}

// WithStore replaces the object store built from configuration.
func (t *TransformerAgent) WithStore(s storage.ObjectStore) *TransformerAgent {
	t.store = s
	return t
}

func (t *TransformerAgent) Name() string {
	return "YouTube Transformer"
}

func (t *TransformerAgent) ID() string {
	return agentID
}

func (t *TransformerAgent) Initialize() error {
	log.Printf("Initializing %s...", t.Name())

	if err := t.config.ValidateStorage(); err != nil {
		return err
	}

	if t.store == nil {
		store, err := storage.New(&t.config.Storage)
		if err != nil {
			return err
		}
		t.store = store
		log.Println("Object store initialized")
	}
	return nil
}

func (t *TransformerAgent) RunOnce(ctx context.Context, events *scheduler.AgentEvents) error {
	startTime := time.Now()
	storageCfg := t.config.Storage

	log.Printf("Reading raw data from %s...", t.store.Location(storage.DirPrefix(storageCfg.RawPrefix)))
	raw, files, err := ReadRaw(ctx, t.store, storageCfg.RawPrefix, t.config.Transformer.RawGlob)
	if err != nil {
		return t.fail(events, err, startTime)
	}
	log.Printf("Loaded %d raw records from %d files", len(raw), len(files))
	monitoring.RecordRecords(agentID, "raw", len(raw))

	cleaned := Transform(raw, t.now())
	monitoring.RecordRecords(agentID, "processed", len(cleaned))

	result, err := storage.WritePartitions(ctx, t.store, storageCfg.ProcessedPrefix, cleaned)
	if err != nil {
		return t.fail(events, fmt.Errorf("failed to write processed dataset: %w", err), startTime)
	}
	log.Printf("Wrote %d records to %d partitions under %s",
		result.Records, len(result.Partitions), t.store.Location(storageCfg.ProcessedPrefix))

	metrics := TransformMetrics{
		Files:      len(files),
		RawRecords: len(raw),
		Records:    result.Records,
		Partitions: len(result.Partitions),
		Replaced:   result.Replaced,
	}
	if events != nil && events.OnSuccess != nil {
		events.OnSuccess(metrics, time.Since(startTime))
	}
	return nil
}

func (t *TransformerAgent) fail(events *scheduler.AgentEvents, err error, startTime time.Time) error {
	if events != nil && events.OnCriticalFailure != nil {
		events.OnCriticalFailure(err, time.Since(startTime))
	}
	return err
}
