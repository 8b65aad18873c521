package league

import (
	"sync"
)

// MockStore is a mock implementation of the LeagueStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	CreateSessionFunc            func(session *Session) error
	GetSessionFunc               func(sessionID string) (*Session, error)
	ListSessionsFunc             func() ([]*Session, error)
	UpdateSessionStatusFunc      func(sessionID string, status SessionStatus) error
	UpdateMatchScoreFunc         func(matchID string, team1Score, team2Score int) error
	GetMatchFunc                 func(matchID string) (*Match, error)
	JoinSessionFunc              func(sessionID, playerID string) (JoinResult, error)
	LeaveSessionFunc             func(sessionID, playerID string) error
	SubstitutePlayerFunc         func(sessionID, oldPlayerID, newPlayerID string) error
	AddPlayerFunc                func(playerID, name string, hiddenRating float64)
	UpsertPlayersFunc            func(players []Player) error
	IsKnownPlayerFunc            func(playerID string) bool
	GetPlayersFunc               func(playerIDs []string) ([]Player, error)
	GetAllPlayersFunc            func() ([]Player, error)
	GetPlayersSortedByRatingFunc func() ([]Player, error)
	UpdatePlayerRatingsFunc      func(players []Player) error
	ClearFunc                    func()
	ClearSessionFunc             func(sessionID string)

	// Call records
	CreateSessionCalls       []*Session
	GetSessionCalls          []string
	UpdateSessionStatusCalls []struct {
		SessionID string
		Status    SessionStatus
	}
	UpdateMatchScoreCalls []struct {
		MatchID    string
		Team1Score int
		Team2Score int
	}
	JoinSessionCalls []struct {
		SessionID string
		PlayerID  string
	}
	LeaveSessionCalls []struct {
		SessionID string
		PlayerID  string
	}
	SubstitutePlayerCalls []struct {
		SessionID   string
		OldPlayerID string
		NewPlayerID string
	}
	UpsertPlayersCalls       [][]Player
	UpdatePlayerRatingsCalls [][]Player
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateSessionCalls = nil
	m.GetSessionCalls = nil
	m.UpdateSessionStatusCalls = nil
	m.UpdateMatchScoreCalls = nil
	m.JoinSessionCalls = nil
	m.LeaveSessionCalls = nil
	m.SubstitutePlayerCalls = nil
	m.UpsertPlayersCalls = nil
	m.UpdatePlayerRatingsCalls = nil
}

func (m *MockStore) CreateSession(session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateSessionCalls = append(m.CreateSessionCalls, session)
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(session)
	}
	return nil
}

func (m *MockStore) GetSession(sessionID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetSessionCalls = append(m.GetSessionCalls, sessionID)
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(sessionID)
	}
	return nil, ErrSessionNotFound
}

func (m *MockStore) ListSessions() ([]*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc()
	}
	return nil, nil
}

func (m *MockStore) UpdateSessionStatus(sessionID string, status SessionStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateSessionStatusCalls = append(m.UpdateSessionStatusCalls, struct {
		SessionID string
		Status    SessionStatus
	}{sessionID, status})
	if m.UpdateSessionStatusFunc != nil {
		return m.UpdateSessionStatusFunc(sessionID, status)
	}
	return nil
}

func (m *MockStore) UpdateMatchScore(matchID string, team1Score, team2Score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateMatchScoreCalls = append(m.UpdateMatchScoreCalls, struct {
		MatchID    string
		Team1Score int
		Team2Score int
	}{matchID, team1Score, team2Score})
	if m.UpdateMatchScoreFunc != nil {
		return m.UpdateMatchScoreFunc(matchID, team1Score, team2Score)
	}
	return nil
}

func (m *MockStore) GetMatch(matchID string) (*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(matchID)
	}
	return nil, ErrMatchNotFound
}

func (m *MockStore) JoinSession(sessionID, playerID string) (JoinResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.JoinSessionCalls = append(m.JoinSessionCalls, struct {
		SessionID string
		PlayerID  string
	}{sessionID, playerID})
	if m.JoinSessionFunc != nil {
		return m.JoinSessionFunc(sessionID, playerID)
	}
	return Joined, nil
}

func (m *MockStore) LeaveSession(sessionID, playerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LeaveSessionCalls = append(m.LeaveSessionCalls, struct {
		SessionID string
		PlayerID  string
	}{sessionID, playerID})
	if m.LeaveSessionFunc != nil {
		return m.LeaveSessionFunc(sessionID, playerID)
	}
	return nil
}

func (m *MockStore) SubstitutePlayer(sessionID, oldPlayerID, newPlayerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SubstitutePlayerCalls = append(m.SubstitutePlayerCalls, struct {
		SessionID   string
		OldPlayerID string
		NewPlayerID string
	}{sessionID, oldPlayerID, newPlayerID})
	if m.SubstitutePlayerFunc != nil {
		return m.SubstitutePlayerFunc(sessionID, oldPlayerID, newPlayerID)
	}
	return nil
}

func (m *MockStore) AddPlayer(playerID, name string, hiddenRating float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AddPlayerFunc != nil {
		m.AddPlayerFunc(playerID, name, hiddenRating)
	}
}

func (m *MockStore) UpsertPlayers(players []Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertPlayersCalls = append(m.UpsertPlayersCalls, players)
	if m.UpsertPlayersFunc != nil {
		return m.UpsertPlayersFunc(players)
	}
	return nil
}

func (m *MockStore) IsKnownPlayer(playerID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IsKnownPlayerFunc != nil {
		return m.IsKnownPlayerFunc(playerID)
	}
	return false
}

func (m *MockStore) GetPlayers(playerIDs []string) ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayersFunc != nil {
		return m.GetPlayersFunc(playerIDs)
	}
	return nil, nil
}

func (m *MockStore) GetAllPlayers() ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetAllPlayersFunc != nil {
		return m.GetAllPlayersFunc()
	}
	return nil, nil
}

func (m *MockStore) GetPlayersSortedByRating() ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayersSortedByRatingFunc != nil {
		return m.GetPlayersSortedByRatingFunc()
	}
	return nil, nil
}

func (m *MockStore) UpdatePlayerRatings(players []Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdatePlayerRatingsCalls = append(m.UpdatePlayerRatingsCalls, players)
	if m.UpdatePlayerRatingsFunc != nil {
		return m.UpdatePlayerRatingsFunc(players)
	}
	return nil
}

func (m *MockStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ClearFunc != nil {
		m.ClearFunc()
	}
}

func (m *MockStore) ClearSession(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ClearSessionFunc != nil {
		m.ClearSessionFunc(sessionID)
	}
}
