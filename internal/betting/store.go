package betting

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/cmurph1624/pickleballapp-sub001/internal/league"
	"github.com/cmurph1624/pickleballapp-sub001/internal/metrics"
	"github.com/google/uuid"
)

var (
	// ErrUserNotFound is returned when a user id does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrInsufficientFunds is returned when a stake exceeds the wallet balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrDuplicateBet is returned when the user already has an open bet on the match.
	ErrDuplicateBet = errors.New("user already has an open bet on this match")
	// ErrMatchAlreadyScored is returned when betting on a finished match.
	ErrMatchAlreadyScored = errors.New("match already has a final score")
	// ErrInvalidBet is returned for a non-positive stake or a bad team pick.
	ErrInvalidBet = errors.New("invalid bet")
)

// New creates a new BetStore.
func New(db *sql.DB, metrics metrics.Metrics) BetStore {
	return &store{
		db:      db,
		metrics: metrics,
	}
}

// UpsertUser inserts a user with a starting balance, or refreshes the name
// if the user already exists. Balances are never reset here.
func (s *store) UpsertUser(userID, name string, startingBalance float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO users (id, name, wallet_balance) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name
	`, userID, name, startingBalance)
	return err
}

func (s *store) WalletBalance(userID string) (float64, error) {
	var balance float64
	err := s.db.QueryRow("SELECT wallet_balance FROM users WHERE id = ?", userID).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, ErrUserNotFound
	}
	return balance, err
}

// PlaceBet debits the stake and records the bet in one transaction. The
// spread and favorite are frozen from the match row so later line movement
// never changes how the bet settles.
func (s *store) PlaceBet(userID string, match *league.Match, teamPicked int, amount float64) (*Bet, error) {
	if amount <= 0 || (teamPicked != 1 && teamPicked != 2) {
		return nil, ErrInvalidBet
	}
	if match.Scored() {
		return nil, ErrMatchAlreadyScored
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}

	var balance float64
	err = tx.QueryRow("SELECT wallet_balance FROM users WHERE id = ?", userID).Scan(&balance)
	if err != nil {
		tx.Rollback()
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if balance < amount {
		tx.Rollback()
		return nil, ErrInsufficientFunds
	}

	var openBets int
	err = tx.QueryRow("SELECT COUNT(*) FROM bets WHERE user_id = ? AND match_id = ? AND status = ?",
		userID, match.ID, StatusOpen).Scan(&openBets)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if openBets > 0 {
		tx.Rollback()
		return nil, ErrDuplicateBet
	}

	bet := &Bet{
		ID:                      uuid.NewString(),
		UserID:                  userID,
		SessionID:               match.SessionID,
		MatchID:                 match.ID,
		TeamPicked:              teamPicked,
		Amount:                  amount,
		SpreadAtTimeOfBet:       match.Spread,
		FavoriteTeamAtTimeOfBet: match.FavoriteTeam,
		Status:                  StatusOpen,
		CreatedAt:               time.Now().Unix(),
	}

	if _, err := tx.Exec("UPDATE users SET wallet_balance = wallet_balance - ? WHERE id = ?", amount, userID); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to debit wallet: %w", err)
	}
	_, err = tx.Exec(`
		INSERT INTO bets (id, user_id, session_id, match_id, team_picked, amount,
			spread_at_time_of_bet, favorite_team_at_time_of_bet, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, bet.ID, bet.UserID, bet.SessionID, bet.MatchID, bet.TeamPicked, bet.Amount,
		bet.SpreadAtTimeOfBet, bet.FavoriteTeamAtTimeOfBet, bet.Status, bet.CreatedAt)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to insert bet: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	s.metrics.IncBetsPlaced()
	log.Info("Placed bet", "betID", bet.ID, "userID", userID, "matchID", match.ID, "amount", amount)
	return bet, nil
}

// ResolveBetsForMatch settles every open bet on a finished match. Each bet
// settles in its own transaction and a failure on one bet does not stop the
// rest.
func (s *store) ResolveBetsForMatch(matchID string, team1Score, team2Score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	betIDs, err := s.openBetIDs(matchID)
	if err != nil {
		return fmt.Errorf("failed to query open bets for match %s: %w", matchID, err)
	}
	if len(betIDs) == 0 {
		log.Debug("No open bets to resolve", "matchID", matchID)
		return nil
	}

	finalScore := fmt.Sprintf("%d-%d", team1Score, team2Score)
	for _, betID := range betIDs {
		if err := s.resolveSingleBet(betID, team1Score, team2Score, finalScore); err != nil {
			log.Error("Failed to resolve bet", "betID", betID, "matchID", matchID, "error", err)
		}
	}
	return nil
}

func (s *store) resolveSingleBet(betID string, team1Score, team2Score int, finalScore string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	bet, err := scanBet(tx.QueryRow(selectBet+" WHERE id = ?", betID))
	if err != nil {
		tx.Rollback()
		return err
	}
	if bet.Status != StatusOpen {
		tx.Rollback()
		return nil
	}

	outcome := CalculateOutcome(*bet, team1Score, team2Score)
	var payout float64
	switch outcome {
	case OutcomeWon:
		payout = bet.Amount * 2
	case OutcomePush:
		payout = bet.Amount
	}

	if payout > 0 {
		if _, err := tx.Exec("UPDATE users SET wallet_balance = wallet_balance + ? WHERE id = ?", payout, bet.UserID); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to credit wallet: %w", err)
		}
	}
	_, err = tx.Exec("UPDATE bets SET status = ?, payout = ?, final_score = ?, resolved_at = ? WHERE id = ?",
		Status(outcome), payout, finalScore, time.Now().Unix(), betID)
	if err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.metrics.IncBetsSettled(string(outcome))
	log.Info("Settled bet", "betID", betID, "outcome", outcome, "payout", payout)
	return nil
}

// RefundBetsForMatch refunds every open bet on a match, typically because it
// was never played.
func (s *store) RefundBetsForMatch(matchID, note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	betIDs, err := s.openBetIDs(matchID)
	if err != nil {
		return fmt.Errorf("failed to query open bets for match %s: %w", matchID, err)
	}
	if len(betIDs) == 0 {
		log.Debug("No open bets to refund", "matchID", matchID)
		return nil
	}

	for _, betID := range betIDs {
		if err := s.refundSingleBet(betID, note); err != nil {
			log.Error("Failed to refund bet", "betID", betID, "matchID", matchID, "error", err)
		}
	}
	return nil
}

func (s *store) refundSingleBet(betID, note string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	bet, err := scanBet(tx.QueryRow(selectBet+" WHERE id = ?", betID))
	if err != nil {
		tx.Rollback()
		return err
	}
	if bet.Status != StatusOpen {
		tx.Rollback()
		return nil
	}

	if _, err := tx.Exec("UPDATE users SET wallet_balance = wallet_balance + ? WHERE id = ?", bet.Amount, bet.UserID); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to credit wallet: %w", err)
	}
	_, err = tx.Exec("UPDATE bets SET status = ?, payout = ?, note = ?, resolved_at = ? WHERE id = ?",
		StatusRefunded, bet.Amount, note, time.Now().Unix(), betID)
	if err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.metrics.IncBetsRefunded()
	log.Info("Refunded bet", "betID", betID, "amount", bet.Amount, "note", note)
	return nil
}

// SettleBetsForSubstitution settles open bets on matches the departing player
// was part of. Picks on the departing team forfeit; the rest are refunded.
// Teams must be read before the roster swap.
func (s *store) SettleBetsForSubstitution(matches []league.Match, oldPlayerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.Info("Settling bets for substitution", "playerID", oldPlayerID)
	for _, match := range matches {
		if !match.HasPlayer(oldPlayerID) {
			continue
		}

		oldPlayerTeam := 2
		for _, id := range match.Team1 {
			if id == oldPlayerID {
				oldPlayerTeam = 1
				break
			}
		}

		betIDs, err := s.openBetIDs(match.ID)
		if err != nil {
			return fmt.Errorf("failed to query open bets for match %s: %w", match.ID, err)
		}
		for _, betID := range betIDs {
			if err := s.settleSubstitutionBet(betID, oldPlayerTeam); err != nil {
				log.Error("Failed to settle substitution bet", "betID", betID, "matchID", match.ID, "error", err)
			}
		}
	}
	return nil
}

func (s *store) settleSubstitutionBet(betID string, oldPlayerTeam int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	bet, err := scanBet(tx.QueryRow(selectBet+" WHERE id = ?", betID))
	if err != nil {
		tx.Rollback()
		return err
	}
	if bet.Status != StatusOpen {
		tx.Rollback()
		return nil
	}

	var status Status
	var payout float64
	var note string
	if bet.TeamPicked == oldPlayerTeam {
		status = StatusLost
		note = "Player substitution (Forfeit)"
	} else {
		status = StatusRefunded
		payout = bet.Amount
		note = "Opposing player substituted"
		if _, err := tx.Exec("UPDATE users SET wallet_balance = wallet_balance + ? WHERE id = ?", payout, bet.UserID); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to credit wallet: %w", err)
		}
	}

	_, err = tx.Exec("UPDATE bets SET status = ?, payout = ?, note = ?, resolved_at = ? WHERE id = ?",
		status, payout, note, time.Now().Unix(), betID)
	if err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	if status == StatusRefunded {
		s.metrics.IncBetsRefunded()
	} else {
		s.metrics.IncBetsSettled(string(OutcomeLost))
	}
	log.Info("Settled substitution bet", "betID", betID, "status", status, "note", note)
	return nil
}

func (s *store) openBetIDs(matchID string) ([]string, error) {
	rows, err := s.db.Query("SELECT id FROM bets WHERE match_id = ? AND status = ? ORDER BY created_at", matchID, StatusOpen)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

const selectBet = `
	SELECT id, user_id, session_id, match_id, team_picked, amount,
		spread_at_time_of_bet, favorite_team_at_time_of_bet, status, payout,
		COALESCE(final_score, ''), COALESCE(note, ''), created_at, resolved_at
	FROM bets`

func scanBet(scanner interface{ Scan(...any) error }) (*Bet, error) {
	var bet Bet
	var resolvedAt sql.NullInt64
	err := scanner.Scan(
		&bet.ID, &bet.UserID, &bet.SessionID, &bet.MatchID, &bet.TeamPicked, &bet.Amount,
		&bet.SpreadAtTimeOfBet, &bet.FavoriteTeamAtTimeOfBet, &bet.Status, &bet.Payout,
		&bet.FinalScore, &bet.Note, &bet.CreatedAt, &resolvedAt,
	)
	if err != nil {
		return nil, err
	}
	if resolvedAt.Valid {
		bet.ResolvedAt = &resolvedAt.Int64
	}
	return &bet, nil
}

func (s *store) OpenBetsForMatch(matchID string) ([]Bet, error) {
	return s.queryBets(selectBet+" WHERE match_id = ? AND status = ? ORDER BY created_at", matchID, StatusOpen)
}

func (s *store) BetsForUser(userID string) ([]Bet, error) {
	return s.queryBets(selectBet+" WHERE user_id = ? ORDER BY created_at DESC", userID)
}

func (s *store) queryBets(query string, args ...any) ([]Bet, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bets := []Bet{}
	for rows.Next() {
		bet, err := scanBet(rows)
		if err != nil {
			log.Error("Failed to scan bet row", "error", err)
			continue
		}
		bets = append(bets, *bet)
	}
	return bets, rows.Err()
}
