package league_test

import (
	"database/sql"
	"testing"

	"github.com/cmurph1624/pickleballapp-sub001/internal/database"
	"github.com/cmurph1624/pickleballapp-sub001/internal/league"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (league.LeagueStore, *sql.DB, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	store := league.New(db)
	return store, db, dbTeardown
}

func intPtr(v int) *int { return &v }

func TestAddAndGetPlayers(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	store.AddPlayer("player1", "Player One", 30.0)
	store.AddPlayer("player2", "Player Two", 0)

	assert.True(t, store.IsKnownPlayer("player1"))
	assert.False(t, store.IsKnownPlayer("player3"))

	allPlayers, err := store.GetAllPlayers()
	require.NoError(t, err)
	assert.Len(t, allPlayers, 2)
}

func TestGetPlayers(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	_, err := db.Exec(`INSERT INTO players (id, name, hidden_rating) VALUES
		('p1', 'Player One', 31.5),
		('p2', 'Player Two', 40.0),
		('p3', 'Player Three', NULL)`)
	require.NoError(t, err)

	t.Run("gets multiple players", func(t *testing.T) {
		players, err := store.GetPlayers([]string{"p1", "p3"})
		require.NoError(t, err)
		require.Len(t, players, 2)

		playerMap := make(map[string]league.Player)
		for _, p := range players {
			playerMap[p.ID] = p
		}

		assert.Equal(t, 31.5, playerMap["p1"].HiddenRating)
		assert.Equal(t, 31.5, playerMap["p1"].Rating())
		assert.Equal(t, 0.0, playerMap["p3"].HiddenRating)
		assert.Equal(t, league.DefaultRating, playerMap["p3"].Rating())
	})

	t.Run("skips unknown ids", func(t *testing.T) {
		players, err := store.GetPlayers([]string{"p2", "nope"})
		require.NoError(t, err)
		assert.Len(t, players, 1)
	})

	t.Run("empty input", func(t *testing.T) {
		players, err := store.GetPlayers(nil)
		require.NoError(t, err)
		assert.Empty(t, players)
	})
}

func TestCreateAndGetSession(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	session := &league.Session{
		Name:        "Tuesday Night",
		Location:    "Court 4",
		ScheduledAt: 1757000000,
		PlayerLimit: 8,
		PlayerIDs:   []string{"p1", "p2", "p3", "p4"},
		Matches: []league.Match{
			{Team1: []string{"p1", "p2"}, Team2: []string{"p3", "p4"}, Spread: 2.5, FavoriteTeam: 1},
			{Team1: []string{"p1", "p3"}, Team2: []string{"p2", "p4"}},
		},
	}
	require.NoError(t, store.CreateSession(session))
	require.NotEmpty(t, session.ID)

	got, err := store.GetSession(session.ID)
	require.NoError(t, err)
	assert.Equal(t, league.StatusScheduled, got.Status)
	assert.Equal(t, []string{"p1", "p2", "p3", "p4"}, got.PlayerIDs)
	require.Len(t, got.Matches, 2)
	assert.Equal(t, []string{"p1", "p2"}, got.Matches[0].Team1)
	assert.Equal(t, 2.5, got.Matches[0].Spread)
	assert.Equal(t, 1, got.Matches[0].FavoriteTeam)
	assert.False(t, got.Matches[0].Scored())
	assert.Nil(t, got.Matches[1].Team1Score)
}

func TestGetSession_NotFound(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	_, err := store.GetSession("missing")
	assert.ErrorIs(t, err, league.ErrSessionNotFound)
}

func TestUpdateMatchScore(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	session := &league.Session{
		Name:    "Scoring",
		Matches: []league.Match{{Team1: []string{"p1"}, Team2: []string{"p2"}}},
	}
	require.NoError(t, store.CreateSession(session))
	matchID := session.Matches[0].ID

	require.NoError(t, store.UpdateMatchScore(matchID, 11, 7))

	match, err := store.GetMatch(matchID)
	require.NoError(t, err)
	require.True(t, match.Scored())
	assert.Equal(t, 11, *match.Team1Score)
	assert.Equal(t, 7, *match.Team2Score)

	assert.ErrorIs(t, store.UpdateMatchScore("missing", 1, 1), league.ErrMatchNotFound)
}

func TestUpdateSessionStatus(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	session := &league.Session{Name: "Status"}
	require.NoError(t, store.CreateSession(session))

	require.NoError(t, store.UpdateSessionStatus(session.ID, league.StatusCompleted))

	got, err := store.GetSession(session.ID)
	require.NoError(t, err)
	assert.Equal(t, league.StatusCompleted, got.Status)
}

func TestJoinSession(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	session := &league.Session{Name: "Join", PlayerLimit: 2}
	require.NoError(t, store.CreateSession(session))

	t.Run("joins until full then waitlists", func(t *testing.T) {
		result, err := store.JoinSession(session.ID, "p1")
		require.NoError(t, err)
		assert.Equal(t, league.Joined, result)

		result, err = store.JoinSession(session.ID, "p2")
		require.NoError(t, err)
		assert.Equal(t, league.Joined, result)

		result, err = store.JoinSession(session.ID, "p3")
		require.NoError(t, err)
		assert.Equal(t, league.Waitlisted, result)

		got, err := store.GetSession(session.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"p1", "p2"}, got.PlayerIDs)
		assert.Equal(t, []string{"p3"}, got.Waitlist)
	})

	t.Run("rejects duplicate joins", func(t *testing.T) {
		_, err := store.JoinSession(session.ID, "p1")
		assert.ErrorIs(t, err, league.ErrAlreadyJoined)
		_, err = store.JoinSession(session.ID, "p3")
		assert.ErrorIs(t, err, league.ErrAlreadyJoined)
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := store.JoinSession("missing", "p1")
		assert.ErrorIs(t, err, league.ErrSessionNotFound)
	})
}

func TestLeaveSession(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	session := &league.Session{Name: "Leave", PlayerLimit: 2}
	require.NoError(t, store.CreateSession(session))
	for _, id := range []string{"p1", "p2", "p3", "p4"} {
		_, err := store.JoinSession(session.ID, id)
		require.NoError(t, err)
	}

	t.Run("promotes first waitlisted player", func(t *testing.T) {
		require.NoError(t, store.LeaveSession(session.ID, "p1"))

		got, err := store.GetSession(session.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"p2", "p3"}, got.PlayerIDs)
		assert.Equal(t, []string{"p4"}, got.Waitlist)
	})

	t.Run("removes from waitlist without promotion", func(t *testing.T) {
		require.NoError(t, store.LeaveSession(session.ID, "p4"))

		got, err := store.GetSession(session.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"p2", "p3"}, got.PlayerIDs)
		assert.Empty(t, got.Waitlist)
	})

	t.Run("unknown player", func(t *testing.T) {
		assert.ErrorIs(t, store.LeaveSession(session.ID, "ghost"), league.ErrNotInSession)
	})
}

func TestSubstitutePlayer(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	session := &league.Session{
		Name:      "Sub",
		PlayerIDs: []string{"p1", "p2", "p3", "p4"},
		Matches: []league.Match{
			{Team1: []string{"p1", "p2"}, Team2: []string{"p3", "p4"}, Team1Score: intPtr(11), Team2Score: intPtr(9)},
			{Team1: []string{"p1", "p3"}, Team2: []string{"p2", "p4"}},
		},
	}
	require.NoError(t, store.CreateSession(session))

	require.NoError(t, store.SubstitutePlayer(session.ID, "p1", "p9"))

	got, err := store.GetSession(session.ID)
	require.NoError(t, err)

	assert.NotContains(t, got.PlayerIDs, "p1")
	assert.Contains(t, got.PlayerIDs, "p9")

	// Played match keeps its historical roster.
	assert.Equal(t, []string{"p1", "p2"}, got.Matches[0].Team1)
	// Unplayed match gets the substitute.
	assert.Equal(t, []string{"p9", "p3"}, got.Matches[1].Team1)
}

func TestGetPlayersSortedByRating(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	_, err := db.Exec(`INSERT INTO players (id, name, hidden_rating) VALUES
		('low', 'Low', 20.0),
		('high', 'High', 50.0),
		('unrated', 'Unrated', NULL)`)
	require.NoError(t, err)

	players, err := store.GetPlayersSortedByRating()
	require.NoError(t, err)
	require.Len(t, players, 3)

	assert.Equal(t, "high", players[0].ID)
	// Unrated sorts with the default rating of 35, above a rated 20.
	assert.Equal(t, "unrated", players[1].ID)
	assert.Equal(t, "low", players[2].ID)
}

func TestUpdatePlayerRatings(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	store.AddPlayer("p1", "One", 35)
	store.AddPlayer("p2", "Two", 35)

	err := store.UpdatePlayerRatings([]league.Player{
		{ID: "p1", HiddenRating: 37},
		{ID: "p2", HiddenRating: 33},
	})
	require.NoError(t, err)

	players, err := store.GetPlayers([]string{"p1", "p2"})
	require.NoError(t, err)
	ratings := map[string]float64{}
	for _, p := range players {
		ratings[p.ID] = p.HiddenRating
	}
	assert.Equal(t, 37.0, ratings["p1"])
	assert.Equal(t, 33.0, ratings["p2"])

	t.Run("inserts players not yet in the table", func(t *testing.T) {
		err := store.UpdatePlayerRatings([]league.Player{{ID: "newcomer", HiddenRating: 37}})
		require.NoError(t, err)

		players, err := store.GetPlayers([]string{"newcomer"})
		require.NoError(t, err)
		require.Len(t, players, 1)
		assert.Equal(t, 37.0, players[0].HiddenRating)
	})
}

func TestClear(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	store.AddPlayer("p1", "One", 35)
	require.NoError(t, store.CreateSession(&league.Session{Name: "S"}))

	store.Clear()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM players").Scan(&count))
	assert.Zero(t, count)
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&count))
	assert.Zero(t, count)
}
