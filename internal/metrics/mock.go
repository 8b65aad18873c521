package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                  sync.Mutex
	sessionsCompleted   int
	completionDurations []float64
	betsPlaced          int
	betsSettled         map[string]int
	betsRefunded        int
	slackNotifSent      int
	slackNotifFailed    int
	startupTime         float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		completionDurations: make([]float64, 0),
		betsSettled:         make(map[string]int),
	}
}

func (m *Mock) IncSessionsCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionsCompleted++
}

func (m *Mock) ObserveCompletionDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completionDurations = append(m.completionDurations, duration)
}

func (m *Mock) IncBetsPlaced() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.betsPlaced++
}

func (m *Mock) IncBetsSettled(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.betsSettled[outcome]++
}

func (m *Mock) IncBetsRefunded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.betsRefunded++
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// SessionsCompleted returns the number of times IncSessionsCompleted was called.
func (m *Mock) SessionsCompleted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionsCompleted
}

// BetsPlaced returns the number of times IncBetsPlaced was called.
func (m *Mock) BetsPlaced() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.betsPlaced
}

// BetsSettled returns the number of times IncBetsSettled was called for an outcome.
func (m *Mock) BetsSettled(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.betsSettled[outcome]
}

// BetsRefunded returns the number of times IncBetsRefunded was called.
func (m *Mock) BetsRefunded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.betsRefunded
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}
