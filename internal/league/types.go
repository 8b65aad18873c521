package league

import (
	"database/sql"
	"sync"
)

// store handles all database operations for the league.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// DefaultRating is the hidden rating assumed for players without one
// (roughly DUPR x 10).
const DefaultRating = 35.0

// SessionStatus defines the lifecycle state of a session.
type SessionStatus string

const (
	StatusScheduled SessionStatus = "SCHEDULED"
	StatusCompleted SessionStatus = "COMPLETED"
)

// JoinResult reports where a joining player ended up.
type JoinResult string

const (
	Joined     JoinResult = "JOINED"
	Waitlisted JoinResult = "WAITLISTED"
)

// Player represents a league player. HiddenRating drives odds and rating
// updates and is never shown to end users. A zero value reads as unset and
// defaults to DefaultRating.
type Player struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	LinkedUserID string  `json:"linked_user_id,omitempty"`
	HiddenRating float64 `json:"hidden_rating"`
}

// Rating returns the player's hidden rating, applying the default when unset.
func (p Player) Rating() float64 {
	if p.HiddenRating == 0 {
		return DefaultRating
	}
	return p.HiddenRating
}

// Match represents a single match inside a session. Nil scores mean the match
// was not played. Spread and FavoriteTeam are frozen by the oddsmaker when
// the session is created so bets settle against the line at placement time.
type Match struct {
	ID           string   `json:"id"`
	SessionID    string   `json:"session_id"`
	Team1        []string `json:"team1"`
	Team2        []string `json:"team2"`
	Team1Score   *int     `json:"team1_score,omitempty"`
	Team2Score   *int     `json:"team2_score,omitempty"`
	Spread       float64  `json:"spread"`
	FavoriteTeam int      `json:"favorite_team"` // 1, 2, or 0 for pick 'em
}

// Scored reports whether both scores were recorded.
func (m Match) Scored() bool {
	return m.Team1Score != nil && m.Team2Score != nil
}

// HasPlayer reports whether the player appears on either team.
func (m Match) HasPlayer(playerID string) bool {
	for _, id := range m.Team1 {
		if id == playerID {
			return true
		}
	}
	for _, id := range m.Team2 {
		if id == playerID {
			return true
		}
	}
	return false
}

// Session represents a scheduled play session with its ordered matches.
type Session struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Location    string        `json:"location"`
	ScheduledAt int64         `json:"scheduled_at"`
	Status      SessionStatus `json:"status"`
	PlayerLimit int           `json:"player_limit"` // 0 means unlimited
	PlayerIDs   []string      `json:"player_ids"`
	Waitlist    []string      `json:"waitlist"`
	Matches     []Match       `json:"matches"`
}
