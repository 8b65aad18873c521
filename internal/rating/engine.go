// Package rating adjusts hidden player ratings from match results using a
// logistic (Elo-style) expected score.
package rating

import (
	"math"

	"github.com/charmbracelet/log"
	"github.com/cmurph1624/pickleballapp-sub001/internal/league"
)

const (
	// kFactor caps how far one match can move a rating.
	kFactor = 4.0
	// scale is the rating gap at which the expected score saturates.
	scale = 40.0
)

// UpdateRatings returns updated copies of every player on the match, team1
// first then team2. The inputs are never mutated. Matches without a recorded
// score leave ratings untouched.
func UpdateRatings(match league.Match, team1, team2 []league.Player) []league.Player {
	updated := make([]league.Player, 0, len(team1)+len(team2))
	updated = append(updated, team1...)
	updated = append(updated, team2...)

	if !match.Scored() {
		log.Warn("Skipping rating update for unscored match", "matchID", match.ID)
		return updated
	}

	avg1 := averageRating(team1)
	avg2 := averageRating(team2)

	expected1 := 1 / (1 + math.Pow(10, (avg2-avg1)/scale))

	var actual1 float64
	switch {
	case *match.Team1Score > *match.Team2Score:
		actual1 = 1
	case *match.Team1Score < *match.Team2Score:
		actual1 = 0
	default:
		actual1 = 0.5
	}

	delta := kFactor * (actual1 - expected1)

	for i := range updated {
		current := updated[i].Rating()
		if i < len(team1) {
			updated[i].HiddenRating = math.Max(0, current+delta)
		} else {
			updated[i].HiddenRating = math.Max(0, current-delta)
		}
	}
	return updated
}

func averageRating(team []league.Player) float64 {
	if len(team) == 0 {
		return league.DefaultRating
	}
	var sum float64
	for _, p := range team {
		sum += p.Rating()
	}
	return sum / float64(len(team))
}
