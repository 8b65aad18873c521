package betting

import (
	"sync"

	"github.com/cmurph1624/pickleballapp-sub001/internal/league"
)

// MockStore is a mock implementation of the BetStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	UpsertUserFunc                func(userID, name string, startingBalance float64) error
	WalletBalanceFunc             func(userID string) (float64, error)
	PlaceBetFunc                  func(userID string, match *league.Match, teamPicked int, amount float64) (*Bet, error)
	ResolveBetsForMatchFunc       func(matchID string, team1Score, team2Score int) error
	RefundBetsForMatchFunc        func(matchID, note string) error
	SettleBetsForSubstitutionFunc func(matches []league.Match, oldPlayerID string) error
	OpenBetsForMatchFunc          func(matchID string) ([]Bet, error)
	BetsForUserFunc               func(userID string) ([]Bet, error)

	// Call records
	PlaceBetCalls []struct {
		UserID     string
		MatchID    string
		TeamPicked int
		Amount     float64
	}
	ResolveBetsForMatchCalls []struct {
		MatchID    string
		Team1Score int
		Team2Score int
	}
	RefundBetsForMatchCalls []struct {
		MatchID string
		Note    string
	}
	SettleBetsForSubstitutionCalls []struct {
		Matches     []league.Match
		OldPlayerID string
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PlaceBetCalls = nil
	m.ResolveBetsForMatchCalls = nil
	m.RefundBetsForMatchCalls = nil
	m.SettleBetsForSubstitutionCalls = nil
}

func (m *MockStore) UpsertUser(userID, name string, startingBalance float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpsertUserFunc != nil {
		return m.UpsertUserFunc(userID, name, startingBalance)
	}
	return nil
}

func (m *MockStore) WalletBalance(userID string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WalletBalanceFunc != nil {
		return m.WalletBalanceFunc(userID)
	}
	return 0, nil
}

func (m *MockStore) PlaceBet(userID string, match *league.Match, teamPicked int, amount float64) (*Bet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PlaceBetCalls = append(m.PlaceBetCalls, struct {
		UserID     string
		MatchID    string
		TeamPicked int
		Amount     float64
	}{userID, match.ID, teamPicked, amount})
	if m.PlaceBetFunc != nil {
		return m.PlaceBetFunc(userID, match, teamPicked, amount)
	}
	return &Bet{}, nil
}

func (m *MockStore) ResolveBetsForMatch(matchID string, team1Score, team2Score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResolveBetsForMatchCalls = append(m.ResolveBetsForMatchCalls, struct {
		MatchID    string
		Team1Score int
		Team2Score int
	}{matchID, team1Score, team2Score})
	if m.ResolveBetsForMatchFunc != nil {
		return m.ResolveBetsForMatchFunc(matchID, team1Score, team2Score)
	}
	return nil
}

func (m *MockStore) RefundBetsForMatch(matchID, note string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RefundBetsForMatchCalls = append(m.RefundBetsForMatchCalls, struct {
		MatchID string
		Note    string
	}{matchID, note})
	if m.RefundBetsForMatchFunc != nil {
		return m.RefundBetsForMatchFunc(matchID, note)
	}
	return nil
}

func (m *MockStore) SettleBetsForSubstitution(matches []league.Match, oldPlayerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SettleBetsForSubstitutionCalls = append(m.SettleBetsForSubstitutionCalls, struct {
		Matches     []league.Match
		OldPlayerID string
	}{matches, oldPlayerID})
	if m.SettleBetsForSubstitutionFunc != nil {
		return m.SettleBetsForSubstitutionFunc(matches, oldPlayerID)
	}
	return nil
}

func (m *MockStore) OpenBetsForMatch(matchID string) ([]Bet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.OpenBetsForMatchFunc != nil {
		return m.OpenBetsForMatchFunc(matchID)
	}
	return nil, nil
}

func (m *MockStore) BetsForUser(userID string) ([]Bet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.BetsForUserFunc != nil {
		return m.BetsForUserFunc(userID)
	}
	return nil, nil
}
