package scheduler

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"youtube-trends/shared/monitoring"

	"github.com/robfig/cron/v3"
)

// Metrics defines the common interface for agent metrics
type Metrics interface {
	// GetSummary returns a human-readable summary of the run
	GetSummary() string
}

// AgentEvents provides callbacks for monitoring agent execution
type AgentEvents struct {
	OnSuccess         func(metrics Metrics, duration time.Duration)
	OnPartialFailure  func(err error, duration time.Duration)
	OnCriticalFailure func(err error, duration time.Duration)
}

// Agent is one pipeline stage that can be run on a schedule.
type Agent interface {
	Name() string
	// ID is a short, stable identifier used as the metrics label.
	ID() string
	RunOnce(ctx context.Context, events *AgentEvents) error
	Initialize() error
}

// Scheduler runs a single agent on a cron schedule.
type Scheduler struct {
	schedule   string
	healthPort int
	monitor    *monitoring.Monitor
	agent      Agent
	cron       *cron.Cron
}

// New creates a scheduler; schedule is a 6-field cron spec (with seconds).
// A healthPort of 0 disables the health server.
func New(schedule string, healthPort int, agent Agent) *Scheduler {
	return &Scheduler{
		schedule:   schedule,
		healthPort: healthPort,
		monitor:    monitoring.NewMonitor(agent.Name(), agent.ID()),
		agent:      agent,
		// Prevent overlapping runs
		cron: cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
	}
}

// Monitor exposes the run monitor backing the health endpoints.
func (s *Scheduler) Monitor() *monitoring.Monitor {
	return s.monitor
}

func (s *Scheduler) Start(ctx context.Context) error {
	if err := s.agent.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize agent: %w", err)
	}

	if s.healthPort > 0 {
		healthServer := monitoring.NewHealthServer(s.monitor, strconv.Itoa(s.healthPort))
		healthServer.Start()
	}

	_, err := s.cron.AddFunc(s.schedule, func() {
		if err := s.RunOnce(ctx); err != nil {
			log.Printf("Error running scheduled job for %s: %v", s.agent.Name(), err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	log.Printf("Scheduler started for %s with schedule: %s", s.agent.Name(), s.schedule)
	s.cron.Start()

	<-ctx.Done()
	log.Printf("Scheduler stopped for %s", s.agent.Name())
	<-s.cron.Stop().Done()
	return ctx.Err()
}

func (s *Scheduler) RunOnce(ctx context.Context) error {
	startTime := time.Now()
	agentName := s.agent.Name()

	log.Printf("Starting %s run...", agentName)

	// Failures reported through events are recorded there; a returned error
	// that was not reported is recorded below.
	reported := false
	events := &AgentEvents{
		OnSuccess: func(metrics Metrics, duration time.Duration) {
			s.monitor.RecordSuccess(metrics.GetSummary(), duration)
		},
		OnPartialFailure: func(err error, duration time.Duration) {
			s.monitor.RecordPartialFailure(fmt.Errorf("%s partial failure: %w", agentName, err), duration)
		},
		OnCriticalFailure: func(err error, duration time.Duration) {
			reported = true
			s.monitor.RecordCriticalFailure(fmt.Errorf("%s critical failure: %w", agentName, err), duration)
		},
	}

	if err := s.agent.RunOnce(ctx, events); err != nil {
		if !reported {
			s.monitor.RecordCriticalFailure(fmt.Errorf("%s failed: %w", agentName, err), time.Since(startTime))
		}
		return fmt.Errorf("%s run failed: %w", agentName, err)
	}

	return nil
}
