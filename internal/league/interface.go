package league

// LeagueStore defines the interface for interacting with the league's data.
type LeagueStore interface {
	CreateSession(session *Session) error
	GetSession(sessionID string) (*Session, error)
	ListSessions() ([]*Session, error)
	UpdateSessionStatus(sessionID string, status SessionStatus) error
	UpdateMatchScore(matchID string, team1Score, team2Score int) error
	GetMatch(matchID string) (*Match, error)
	JoinSession(sessionID, playerID string) (JoinResult, error)
	LeaveSession(sessionID, playerID string) error
	SubstitutePlayer(sessionID, oldPlayerID, newPlayerID string) error
	AddPlayer(playerID, name string, hiddenRating float64)
	UpsertPlayers(players []Player) error
	IsKnownPlayer(playerID string) bool
	GetPlayers(playerIDs []string) ([]Player, error)
	GetAllPlayers() ([]Player, error)
	GetPlayersSortedByRating() ([]Player, error)
	UpdatePlayerRatings(players []Player) error
	Clear()
	ClearSession(sessionID string)
}
