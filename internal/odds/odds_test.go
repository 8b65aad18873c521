package odds_test

import (
	"testing"

	"github.com/cmurph1624/pickleballapp-sub001/internal/league"
	"github.com/cmurph1624/pickleballapp-sub001/internal/odds"
	"github.com/stretchr/testify/assert"
)

func team(ratings ...float64) []league.Player {
	players := make([]league.Player, len(ratings))
	for i, r := range ratings {
		players[i] = league.Player{ID: "p", HiddenRating: r}
	}
	return players
}

func TestCalculateSpread(t *testing.T) {
	t.Run("team1 favored", func(t *testing.T) {
		line := odds.CalculateSpread(team(42, 38), team(33, 37))
		// avgs 40 vs 35, gap 5 scaled to 1.0
		assert.Equal(t, 1.0, line.Spread)
		assert.Equal(t, 1, line.FavoriteTeam)
	})

	t.Run("team2 favored", func(t *testing.T) {
		line := odds.CalculateSpread(team(30, 30), team(45, 40))
		// gap 12.5 scaled to 2.5
		assert.Equal(t, 2.5, line.Spread)
		assert.Equal(t, 2, line.FavoriteTeam)
	})

	t.Run("even teams are a pick em", func(t *testing.T) {
		line := odds.CalculateSpread(team(35, 41), team(38, 38))
		assert.Equal(t, 0.0, line.Spread)
		assert.Equal(t, 0, line.FavoriteTeam)
	})

	t.Run("rounds to nearest half point", func(t *testing.T) {
		// gap 3.4 scaled to 0.68, rounds to 0.5
		line := odds.CalculateSpread(team(38.4), team(35))
		assert.Equal(t, 0.5, line.Spread)

		// gap 4 scaled to 0.8, rounds to 1.0
		line = odds.CalculateSpread(team(39), team(35))
		assert.Equal(t, 1.0, line.Spread)
	})

	t.Run("unrated players use the default rating", func(t *testing.T) {
		line := odds.CalculateSpread(team(0, 0), team(40, 40))
		// unrated team averages 35, gap 5 scaled to 1.0
		assert.Equal(t, 1.0, line.Spread)
		assert.Equal(t, 2, line.FavoriteTeam)
	})

	t.Run("empty roster yields a zero line", func(t *testing.T) {
		line := odds.CalculateSpread(nil, team(40))
		assert.Equal(t, odds.Line{}, line)

		line = odds.CalculateSpread(team(40), nil)
		assert.Equal(t, odds.Line{}, line)
	})

	t.Run("tiny rating gap keeps a favorite", func(t *testing.T) {
		line := odds.CalculateSpread(team(35.5), team(35))
		assert.Equal(t, 0.0, line.Spread)
		assert.Equal(t, 1, line.FavoriteTeam)
	})
}
