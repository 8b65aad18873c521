package betting_test

import (
	"database/sql"
	"testing"

	"github.com/cmurph1624/pickleballapp-sub001/internal/betting"
	"github.com/cmurph1624/pickleballapp-sub001/internal/database"
	"github.com/cmurph1624/pickleballapp-sub001/internal/league"
	"github.com/cmurph1624/pickleballapp-sub001/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (betting.BetStore, league.LeagueStore, *metrics.Mock, *sql.DB, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	m := metrics.NewMock()
	bets := betting.New(db, m)
	store := league.New(db)
	return bets, store, m, db, dbTeardown
}

// seedMatch creates a session with one unscored match and returns the match.
func seedMatch(t *testing.T, store league.LeagueStore, spread float64, favorite int) *league.Match {
	t.Helper()

	session := &league.Session{
		Name:      "Bet Session",
		PlayerIDs: []string{"p1", "p2", "p3", "p4"},
		Matches: []league.Match{
			{Team1: []string{"p1", "p2"}, Team2: []string{"p3", "p4"}, Spread: spread, FavoriteTeam: favorite},
		},
	}
	require.NoError(t, store.CreateSession(session))
	return &session.Matches[0]
}

func TestPlaceBet(t *testing.T) {
	bets, store, m, _, teardown := setupTestDB(t)
	defer teardown()

	require.NoError(t, bets.UpsertUser("u1", "User One", 100))
	match := seedMatch(t, store, 2.5, 1)

	t.Run("debits wallet and freezes the line", func(t *testing.T) {
		bet, err := bets.PlaceBet("u1", match, 1, 40)
		require.NoError(t, err)
		assert.Equal(t, betting.StatusOpen, bet.Status)
		assert.Equal(t, 2.5, bet.SpreadAtTimeOfBet)
		assert.Equal(t, 1, bet.FavoriteTeamAtTimeOfBet)

		balance, err := bets.WalletBalance("u1")
		require.NoError(t, err)
		assert.Equal(t, 60.0, balance)
		assert.Equal(t, 1, m.BetsPlaced())
	})

	t.Run("rejects a second open bet on the same match", func(t *testing.T) {
		_, err := bets.PlaceBet("u1", match, 2, 10)
		assert.ErrorIs(t, err, betting.ErrDuplicateBet)
	})

	t.Run("rejects a stake above the balance", func(t *testing.T) {
		require.NoError(t, bets.UpsertUser("u2", "User Two", 5))
		_, err := bets.PlaceBet("u2", match, 2, 10)
		assert.ErrorIs(t, err, betting.ErrInsufficientFunds)

		balance, err := bets.WalletBalance("u2")
		require.NoError(t, err)
		assert.Equal(t, 5.0, balance)
	})

	t.Run("rejects unknown users and bad input", func(t *testing.T) {
		_, err := bets.PlaceBet("ghost", match, 1, 10)
		assert.ErrorIs(t, err, betting.ErrUserNotFound)

		_, err = bets.PlaceBet("u1", match, 3, 10)
		assert.ErrorIs(t, err, betting.ErrInvalidBet)

		_, err = bets.PlaceBet("u1", match, 1, 0)
		assert.ErrorIs(t, err, betting.ErrInvalidBet)
	})

	t.Run("rejects a finished match", func(t *testing.T) {
		require.NoError(t, store.UpdateMatchScore(match.ID, 11, 4))
		scored, err := store.GetMatch(match.ID)
		require.NoError(t, err)

		require.NoError(t, bets.UpsertUser("u3", "User Three", 50))
		_, err = bets.PlaceBet("u3", scored, 1, 10)
		assert.ErrorIs(t, err, betting.ErrMatchAlreadyScored)
	})
}

func TestResolveBetsForMatch(t *testing.T) {
	bets, store, m, _, teardown := setupTestDB(t)
	defer teardown()

	match := seedMatch(t, store, 2.5, 1)
	require.NoError(t, bets.UpsertUser("winner", "Winner", 100))
	require.NoError(t, bets.UpsertUser("loser", "Loser", 100))

	_, err := bets.PlaceBet("winner", match, 1, 30)
	require.NoError(t, err)
	_, err = bets.PlaceBet("loser", match, 2, 20)
	require.NoError(t, err)

	require.NoError(t, bets.ResolveBetsForMatch(match.ID, 11, 5))

	balance, err := bets.WalletBalance("winner")
	require.NoError(t, err)
	assert.Equal(t, 130.0, balance, "winner gets stake back doubled")

	balance, err = bets.WalletBalance("loser")
	require.NoError(t, err)
	assert.Equal(t, 80.0, balance, "loser stays debited")

	winnerBets, err := bets.BetsForUser("winner")
	require.NoError(t, err)
	require.Len(t, winnerBets, 1)
	assert.Equal(t, betting.StatusWon, winnerBets[0].Status)
	assert.Equal(t, 60.0, winnerBets[0].Payout)
	assert.Equal(t, "11-5", winnerBets[0].FinalScore)
	assert.NotNil(t, winnerBets[0].ResolvedAt)

	assert.Equal(t, 1, m.BetsSettled("WON"))
	assert.Equal(t, 1, m.BetsSettled("LOST"))

	t.Run("second resolve is a no-op", func(t *testing.T) {
		require.NoError(t, bets.ResolveBetsForMatch(match.ID, 11, 5))
		balance, err := bets.WalletBalance("winner")
		require.NoError(t, err)
		assert.Equal(t, 130.0, balance)
	})
}

func TestResolveBetsForMatch_Push(t *testing.T) {
	bets, store, _, _, teardown := setupTestDB(t)
	defer teardown()

	match := seedMatch(t, store, 3, 1)
	require.NoError(t, bets.UpsertUser("u1", "User", 100))
	_, err := bets.PlaceBet("u1", match, 1, 25)
	require.NoError(t, err)

	require.NoError(t, bets.ResolveBetsForMatch(match.ID, 11, 8))

	balance, err := bets.WalletBalance("u1")
	require.NoError(t, err)
	assert.Equal(t, 100.0, balance, "push returns the stake")

	userBets, err := bets.BetsForUser("u1")
	require.NoError(t, err)
	require.Len(t, userBets, 1)
	assert.Equal(t, betting.StatusPush, userBets[0].Status)
	assert.Equal(t, 25.0, userBets[0].Payout)
}

func TestRefundBetsForMatch(t *testing.T) {
	bets, store, m, _, teardown := setupTestDB(t)
	defer teardown()

	match := seedMatch(t, store, 1.5, 2)
	require.NoError(t, bets.UpsertUser("u1", "User", 100))
	_, err := bets.PlaceBet("u1", match, 1, 50)
	require.NoError(t, err)

	require.NoError(t, bets.RefundBetsForMatch(match.ID, "Match unplayed"))

	balance, err := bets.WalletBalance("u1")
	require.NoError(t, err)
	assert.Equal(t, 100.0, balance)

	userBets, err := bets.BetsForUser("u1")
	require.NoError(t, err)
	require.Len(t, userBets, 1)
	assert.Equal(t, betting.StatusRefunded, userBets[0].Status)
	assert.Equal(t, "Match unplayed", userBets[0].Note)
	assert.Equal(t, 1, m.BetsRefunded())

	t.Run("refund of already settled bets is a no-op", func(t *testing.T) {
		require.NoError(t, bets.RefundBetsForMatch(match.ID, "Match unplayed"))
		balance, err := bets.WalletBalance("u1")
		require.NoError(t, err)
		assert.Equal(t, 100.0, balance)
		assert.Equal(t, 1, m.BetsRefunded())
	})
}

func TestSettleBetsForSubstitution(t *testing.T) {
	bets, store, _, _, teardown := setupTestDB(t)
	defer teardown()

	match := seedMatch(t, store, 2, 1)
	require.NoError(t, bets.UpsertUser("backer", "Backer", 100))
	require.NoError(t, bets.UpsertUser("fader", "Fader", 100))

	// backer picked the departing player's team, fader the other side.
	_, err := bets.PlaceBet("backer", match, 1, 30)
	require.NoError(t, err)
	_, err = bets.PlaceBet("fader", match, 2, 40)
	require.NoError(t, err)

	// p1 is on team1 of the seeded match.
	require.NoError(t, bets.SettleBetsForSubstitution([]league.Match{*match}, "p1"))

	balance, err := bets.WalletBalance("backer")
	require.NoError(t, err)
	assert.Equal(t, 70.0, balance, "forfeited stake stays debited")

	balance, err = bets.WalletBalance("fader")
	require.NoError(t, err)
	assert.Equal(t, 100.0, balance, "opposing bet is refunded")

	backerBets, err := bets.BetsForUser("backer")
	require.NoError(t, err)
	require.Len(t, backerBets, 1)
	assert.Equal(t, betting.StatusLost, backerBets[0].Status)
	assert.Equal(t, "Player substitution (Forfeit)", backerBets[0].Note)

	faderBets, err := bets.BetsForUser("fader")
	require.NoError(t, err)
	require.Len(t, faderBets, 1)
	assert.Equal(t, betting.StatusRefunded, faderBets[0].Status)
	assert.Equal(t, "Opposing player substituted", faderBets[0].Note)

	t.Run("matches without the player are untouched", func(t *testing.T) {
		other := seedMatch(t, store, 0, 0)
		require.NoError(t, bets.UpsertUser("u3", "Three", 100))
		_, err := bets.PlaceBet("u3", other, 1, 10)
		require.NoError(t, err)

		require.NoError(t, bets.SettleBetsForSubstitution([]league.Match{*other}, "someone-else"))

		open, err := bets.OpenBetsForMatch(other.ID)
		require.NoError(t, err)
		assert.Len(t, open, 1)
	})
}

func TestWalletBalance_UnknownUser(t *testing.T) {
	bets, _, _, _, teardown := setupTestDB(t)
	defer teardown()

	_, err := bets.WalletBalance("nobody")
	assert.ErrorIs(t, err, betting.ErrUserNotFound)
}
