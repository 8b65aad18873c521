// Package odds turns hidden player ratings into a betting line for a match.
package odds

import (
	"math"

	"github.com/cmurph1624/pickleballapp-sub001/internal/league"
)

// Line is the frozen betting line for a match. FavoriteTeam is 1 or 2, or 0
// for a pick 'em (including when either roster is empty).
type Line struct {
	Spread       float64 `json:"spread"`
	FavoriteTeam int     `json:"favorite_team"`
}

// ratingFactor scales a rating gap into points of spread.
const ratingFactor = 0.2

// CalculateSpread computes the line from team average hidden ratings. The
// spread is the rating gap scaled by ratingFactor and rounded to the nearest
// half point.
func CalculateSpread(team1, team2 []league.Player) Line {
	if len(team1) == 0 || len(team2) == 0 {
		return Line{}
	}

	avg1 := averageRating(team1)
	avg2 := averageRating(team2)

	diff := math.Abs(avg1 - avg2)
	spread := math.Round(diff*ratingFactor*2) / 2

	favorite := 0
	if avg1 > avg2 {
		favorite = 1
	} else if avg2 > avg1 {
		favorite = 2
	}

	return Line{Spread: spread, FavoriteTeam: favorite}
}

func averageRating(team []league.Player) float64 {
	var sum float64
	for _, p := range team {
		sum += p.Rating()
	}
	return sum / float64(len(team))
}
