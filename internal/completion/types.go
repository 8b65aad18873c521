package completion

import (
	"github.com/cmurph1624/pickleballapp-sub001/internal/betting"
	"github.com/cmurph1624/pickleballapp-sub001/internal/league"
	"github.com/cmurph1624/pickleballapp-sub001/internal/metrics"
	"github.com/cmurph1624/pickleballapp-sub001/internal/pubsub"
)

// Completer finalizes sessions: ratings, bet settlement, status and the
// session-completed event.
type Completer struct {
	store   league.LeagueStore
	bets    betting.BetStore
	metrics metrics.Metrics
	pubsub  pubsub.PubSubClient
}

// SessionSummary is published on the session-completed topic and rendered by
// the notifier.
type SessionSummary struct {
	SessionID       string             `json:"session_id" msgpack:"session_id"`
	SessionName     string             `json:"session_name" msgpack:"session_name"`
	Location        string             `json:"location,omitempty" msgpack:"location"`
	PlayedMatches   int                `json:"played_matches" msgpack:"played_matches"`
	UnplayedMatches int                `json:"unplayed_matches" msgpack:"unplayed_matches"`
	PlayersRated    int                `json:"players_rated" msgpack:"players_rated"`
	CompletedAt     int64              `json:"completed_at" msgpack:"completed_at"`
	Results         []MatchResult      `json:"results" msgpack:"results"`
	RatingDeltas    map[string]float64 `json:"rating_deltas" msgpack:"rating_deltas"`
}

// MatchResult is one line of the summary.
type MatchResult struct {
	MatchID    string   `json:"match_id" msgpack:"match_id"`
	Team1      []string `json:"team1" msgpack:"team1"`
	Team2      []string `json:"team2" msgpack:"team2"`
	FinalScore string   `json:"final_score" msgpack:"final_score"`
}
