package betting

// CalculateOutcome settles a bet against a final score. The score difference
// is taken from the favorite's perspective when a favorite was recorded on
// the bet; for a pick 'em it is taken from the bettor's pick instead.
func CalculateOutcome(bet Bet, team1Score, team2Score int) Outcome {
	spread := bet.SpreadAtTimeOfBet
	favorite := bet.FavoriteTeamAtTimeOfBet

	var scoreDiff float64
	switch favorite {
	case 1:
		scoreDiff = float64(team1Score - team2Score)
	case 2:
		scoreDiff = float64(team2Score - team1Score)
	default:
		if bet.TeamPicked == 1 {
			scoreDiff = float64(team1Score - team2Score)
		} else {
			scoreDiff = float64(team2Score - team1Score)
		}
	}

	if spread == 0 {
		switch {
		case scoreDiff > 0:
			return OutcomeWon
		case scoreDiff < 0:
			return OutcomeLost
		default:
			return OutcomePush
		}
	}

	if bet.TeamPicked == favorite {
		// Favorite must win by more than the spread.
		switch {
		case scoreDiff > spread:
			return OutcomeWon
		case scoreDiff == spread:
			return OutcomePush
		default:
			return OutcomeLost
		}
	}

	// Underdog covers when the favorite wins by less than the spread or
	// loses outright.
	switch {
	case scoreDiff < spread:
		return OutcomeWon
	case scoreDiff == spread:
		return OutcomePush
	default:
		return OutcomeLost
	}
}
