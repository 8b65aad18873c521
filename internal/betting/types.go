package betting

import (
	"database/sql"
	"sync"

	"github.com/cmurph1624/pickleballapp-sub001/internal/metrics"
)

// store handles all database operations for bets and wallets.
type store struct {
	db      *sql.DB
	metrics metrics.Metrics
	mu      sync.Mutex
}

// Outcome is the result of settling a bet against a final score.
type Outcome string

const (
	OutcomeWon  Outcome = "WON"
	OutcomeLost Outcome = "LOST"
	OutcomePush Outcome = "PUSH"
)

// Status is the lifecycle state of a bet. OPEN transitions to exactly one
// terminal state.
type Status string

const (
	StatusOpen     Status = "OPEN"
	StatusWon      Status = "WON"
	StatusLost     Status = "LOST"
	StatusPush     Status = "PUSH"
	StatusRefunded Status = "REFUNDED"
)

// Bet is a wager on one team of a match against the spread frozen at
// placement time.
type Bet struct {
	ID                      string  `json:"id"`
	UserID                  string  `json:"user_id"`
	SessionID               string  `json:"session_id"`
	MatchID                 string  `json:"match_id"`
	TeamPicked              int     `json:"team_picked"`
	Amount                  float64 `json:"amount"`
	SpreadAtTimeOfBet       float64 `json:"spread_at_time_of_bet"`
	FavoriteTeamAtTimeOfBet int     `json:"favorite_team_at_time_of_bet"`
	Status                  Status  `json:"status"`
	Payout                  float64 `json:"payout"`
	FinalScore              string  `json:"final_score,omitempty"`
	Note                    string  `json:"note,omitempty"`
	CreatedAt               int64   `json:"created_at"`
	ResolvedAt              *int64  `json:"resolved_at,omitempty"`
}
