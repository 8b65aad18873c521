package notifier

import (
	"sync"

	"github.com/cmurph1624/pickleballapp-sub001/internal/completion"
	"github.com/cmurph1624/pickleballapp-sub001/internal/league"
)

// MockNotifier is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type MockNotifier struct {
	mu sync.Mutex

	// Spies for method calls
	SendSessionSummaryFunc        func(summary *completion.SessionSummary, playerNames map[string]string, dryRun bool) error
	SendLeaderboardFunc           func(players []league.Player, dryRun bool) error
	FormatLeaderboardResponseFunc func(players []league.Player) (any, error)

	// Call records
	SendSessionSummaryCalls []struct {
		Summary *completion.SessionSummary
		DryRun  bool
	}
	SendLeaderboardCalls []struct {
		Players []league.Player
		DryRun  bool
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockNotifier {
	return &MockNotifier{}
}

// Reset clears all call records.
func (m *MockNotifier) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendSessionSummaryCalls = nil
	m.SendLeaderboardCalls = nil
}

func (m *MockNotifier) SendSessionSummary(summary *completion.SessionSummary, playerNames map[string]string, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendSessionSummaryCalls = append(m.SendSessionSummaryCalls, struct {
		Summary *completion.SessionSummary
		DryRun  bool
	}{summary, dryRun})
	if m.SendSessionSummaryFunc != nil {
		return m.SendSessionSummaryFunc(summary, playerNames, dryRun)
	}
	return nil
}

func (m *MockNotifier) SendLeaderboard(players []league.Player, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, struct {
		Players []league.Player
		DryRun  bool
	}{players, dryRun})
	if m.SendLeaderboardFunc != nil {
		return m.SendLeaderboardFunc(players, dryRun)
	}
	return nil
}

func (m *MockNotifier) FormatLeaderboardResponse(players []league.Player) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatLeaderboardResponseFunc != nil {
		return m.FormatLeaderboardResponseFunc(players)
	}
	return nil, nil
}
