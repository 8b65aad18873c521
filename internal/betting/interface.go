package betting

import "github.com/cmurph1624/pickleballapp-sub001/internal/league"

// BetStore defines the interface for placing and settling bets. Wallet
// balances are only ever mutated inside bet transactions.
type BetStore interface {
	UpsertUser(userID, name string, startingBalance float64) error
	WalletBalance(userID string) (float64, error)
	PlaceBet(userID string, match *league.Match, teamPicked int, amount float64) (*Bet, error)
	ResolveBetsForMatch(matchID string, team1Score, team2Score int) error
	RefundBetsForMatch(matchID, note string) error
	SettleBetsForSubstitution(matches []league.Match, oldPlayerID string) error
	OpenBetsForMatch(matchID string) ([]Bet, error)
	BetsForUser(userID string) ([]Bet, error)
}
