package monitoring

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// Monitor keeps the outcome of the latest run of one agent.
type Monitor struct {
	agent          string
	id             string // metrics label
	mu             sync.RWMutex
	lastRunSuccess bool
	lastRunTime    time.Time
	lastSummary    string
}

// NewMonitor creates a monitor; agent is the display name used in logs and
// status, id the label its run metrics are recorded under.
func NewMonitor(agent, id string) *Monitor {
	return &Monitor{agent: agent, id: id}
}

func (m *Monitor) RecordSuccess(summary string, duration time.Duration) {
	m.mu.Lock()
	m.lastRunSuccess = true
	m.lastRunTime = time.Now()
	m.lastSummary = summary
	m.mu.Unlock()

	observeRun(m.id, "success", duration)
	log.Printf("✅ %s run completed - %s (took %v)", m.agent, summary, duration)
}

func (m *Monitor) RecordPartialFailure(err error, duration time.Duration) {
	// Partial failures don't change health status
	observeRun(m.id, "partial_failure", duration)
	log.Printf("⚠️  PARTIAL FAILURE: %s (Duration: %v)", err.Error(), duration)
}

func (m *Monitor) RecordCriticalFailure(err error, duration time.Duration) {
	m.mu.Lock()
	m.lastRunSuccess = false
	m.lastRunTime = time.Now()
	m.lastSummary = err.Error()
	m.mu.Unlock()

	observeRun(m.id, "failure", duration)
	log.Printf("🚨 CRITICAL FAILURE: %s (Duration: %v)", err.Error(), duration)
}

func (m *Monitor) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.lastRunTime.IsZero() {
		return true // No runs yet
	}
	return m.lastRunSuccess
}

func (m *Monitor) GetStatusSummary() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.lastRunTime.IsZero() {
		return fmt.Sprintf("%s: no runs yet", m.agent)
	}
	if m.lastRunSuccess {
		return fmt.Sprintf("✅ %s last run: %s (%s)", m.agent, m.lastRunTime.Format("Jan 2 15:04"), m.lastSummary)
	}
	return fmt.Sprintf("❌ %s last run failed: %s (%s)", m.agent, m.lastRunTime.Format("Jan 2 15:04"), m.lastSummary)
}
