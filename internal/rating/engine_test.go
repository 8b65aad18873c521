package rating_test

import (
	"testing"

	"github.com/cmurph1624/pickleballapp-sub001/internal/league"
	"github.com/cmurph1624/pickleballapp-sub001/internal/rating"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func scoredMatch(t1, t2 int) league.Match {
	return league.Match{ID: "m1", Team1Score: intPtr(t1), Team2Score: intPtr(t2)}
}

func TestUpdateRatings_EqualTeams(t *testing.T) {
	team1 := []league.Player{{ID: "a", HiddenRating: 35}, {ID: "b", HiddenRating: 35}}
	team2 := []league.Player{{ID: "c", HiddenRating: 35}, {ID: "d", HiddenRating: 35}}

	updated := rating.UpdateRatings(scoredMatch(11, 7), team1, team2)
	require.Len(t, updated, 4)

	// Evenly matched winners gain exactly K/2.
	assert.InDelta(t, 37.0, updated[0].HiddenRating, 1e-9)
	assert.InDelta(t, 37.0, updated[1].HiddenRating, 1e-9)
	assert.InDelta(t, 33.0, updated[2].HiddenRating, 1e-9)
	assert.InDelta(t, 33.0, updated[3].HiddenRating, 1e-9)

	// Inputs stay untouched.
	assert.Equal(t, 35.0, team1[0].HiddenRating)
	assert.Equal(t, 35.0, team2[0].HiddenRating)
}

func TestUpdateRatings_ZeroSum(t *testing.T) {
	team1 := []league.Player{{ID: "a", HiddenRating: 42}, {ID: "b", HiddenRating: 38}}
	team2 := []league.Player{{ID: "c", HiddenRating: 33}, {ID: "d", HiddenRating: 31}}

	updated := rating.UpdateRatings(scoredMatch(9, 11), team1, team2)
	require.Len(t, updated, 4)

	gain1 := updated[0].HiddenRating - 42
	gain2 := updated[2].HiddenRating - 33
	assert.InDelta(t, 0, gain1+gain2, 1e-9)

	// Underdogs winning move more than K/2.
	assert.Greater(t, gain2, 2.0)
	assert.Less(t, gain1, -2.0)

	// Every player on a team moves by the same delta.
	assert.InDelta(t, updated[0].HiddenRating-42, updated[1].HiddenRating-38, 1e-9)
}

func TestUpdateRatings_FavoriteWinsMovesLess(t *testing.T) {
	strong := []league.Player{{ID: "a", HiddenRating: 45}}
	weak := []league.Player{{ID: "b", HiddenRating: 30}}

	updated := rating.UpdateRatings(scoredMatch(11, 2), strong, weak)
	gain := updated[0].HiddenRating - 45
	assert.Greater(t, gain, 0.0)
	assert.Less(t, gain, 2.0)
}

func TestUpdateRatings_Draw(t *testing.T) {
	team1 := []league.Player{{ID: "a", HiddenRating: 40}}
	team2 := []league.Player{{ID: "b", HiddenRating: 30}}

	updated := rating.UpdateRatings(scoredMatch(10, 10), team1, team2)

	// A draw drags the favorite down and lifts the underdog.
	assert.Less(t, updated[0].HiddenRating, 40.0)
	assert.Greater(t, updated[1].HiddenRating, 30.0)
}

func TestUpdateRatings_FloorsAtZero(t *testing.T) {
	team1 := []league.Player{{ID: "a", HiddenRating: 36}}
	team2 := []league.Player{{ID: "b", HiddenRating: 1}}

	updated := rating.UpdateRatings(scoredMatch(11, 0), team1, team2)
	assert.GreaterOrEqual(t, updated[1].HiddenRating, 0.0)
}

func TestUpdateRatings_UnratedPlayersUseDefault(t *testing.T) {
	team1 := []league.Player{{ID: "a"}}
	team2 := []league.Player{{ID: "b"}}

	updated := rating.UpdateRatings(scoredMatch(11, 5), team1, team2)
	assert.InDelta(t, league.DefaultRating+2, updated[0].HiddenRating, 1e-9)
	assert.InDelta(t, league.DefaultRating-2, updated[1].HiddenRating, 1e-9)
}

func TestUpdateRatings_UnscoredMatch(t *testing.T) {
	team1 := []league.Player{{ID: "a", HiddenRating: 40}}
	team2 := []league.Player{{ID: "b", HiddenRating: 30}}

	updated := rating.UpdateRatings(league.Match{ID: "m1"}, team1, team2)
	require.Len(t, updated, 2)
	assert.Equal(t, 40.0, updated[0].HiddenRating)
	assert.Equal(t, 30.0, updated[1].HiddenRating)
}
