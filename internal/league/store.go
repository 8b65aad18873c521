package league

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

var (
	// ErrSessionNotFound is returned when a session id does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrMatchNotFound is returned when a match id does not exist.
	ErrMatchNotFound = errors.New("match not found")
	// ErrAlreadyJoined is returned when a player is already in the session or waitlist.
	ErrAlreadyJoined = errors.New("player already joined this session")
	// ErrNotInSession is returned when a leaving player is in neither list.
	ErrNotInSession = errors.New("player is not part of this session")
)

// New creates a new LeagueStore.
func New(db *sql.DB) LeagueStore {
	return &store{
		db: db,
	}
}

// CreateSession inserts a session and its matches in a single transaction.
// Missing ids are generated. Match order is preserved via the ord column.
func (s *store) CreateSession(session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.Status == "" {
		session.Status = StatusScheduled
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	playersJSON, err := json.Marshal(session.PlayerIDs)
	if err != nil {
		tx.Rollback()
		return err
	}
	waitlistJSON, err := json.Marshal(session.Waitlist)
	if err != nil {
		tx.Rollback()
		return err
	}

	now := time.Now().Unix()
	_, err = tx.Exec(`
		INSERT INTO sessions (id, name, location, scheduled_at, status, player_limit, players_json, waitlist_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, session.ID, session.Name, session.Location, session.ScheduledAt, session.Status, session.PlayerLimit, playersJSON, waitlistJSON, now, now)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to insert session: %w", err)
	}

	for i := range session.Matches {
		m := &session.Matches[i]
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		m.SessionID = session.ID

		team1JSON, err := json.Marshal(m.Team1)
		if err != nil {
			tx.Rollback()
			return err
		}
		team2JSON, err := json.Marshal(m.Team2)
		if err != nil {
			tx.Rollback()
			return err
		}

		_, err = tx.Exec(`
			INSERT INTO matches (id, session_id, ord, team1_json, team2_json, team1_score, team2_score, spread, favorite_team)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, m.ID, m.SessionID, i, team1JSON, team2JSON, nullableScore(m.Team1Score), nullableScore(m.Team2Score), m.Spread, m.FavoriteTeam)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert match: %w", err)
		}
	}

	return tx.Commit()
}

func nullableScore(score *int) any {
	if score == nil {
		return nil
	}
	return *score
}

// GetSession loads a session and its matches in document order.
func (s *store) GetSession(sessionID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, name, location, scheduled_at, status, player_limit, players_json, waitlist_json
		FROM sessions WHERE id = ?
	`, sessionID)

	session, err := scanSession(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	matches, err := s.matchesForSession(sessionID)
	if err != nil {
		return nil, err
	}
	session.Matches = matches
	return session, nil
}

// ListSessions returns all sessions with their matches, newest first.
func (s *store) ListSessions() ([]*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, name, location, scheduled_at, status, player_limit, players_json, waitlist_json
		FROM sessions ORDER BY scheduled_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			log.Error("Failed to scan session row", "error", err)
			continue
		}
		sessions = append(sessions, session)
	}

	for _, session := range sessions {
		matches, err := s.matchesForSession(session.ID)
		if err != nil {
			return nil, err
		}
		session.Matches = matches
	}
	return sessions, nil
}

func scanSession(scanner interface{ Scan(...any) error }) (*Session, error) {
	var session Session
	var location sql.NullString
	var playersJSON, waitlistJSON sql.NullString

	err := scanner.Scan(
		&session.ID, &session.Name, &location, &session.ScheduledAt,
		&session.Status, &session.PlayerLimit, &playersJSON, &waitlistJSON,
	)
	if err != nil {
		return nil, err
	}

	session.Location = location.String
	if playersJSON.Valid && playersJSON.String != "" {
		if err := json.Unmarshal([]byte(playersJSON.String), &session.PlayerIDs); err != nil {
			log.Error("Failed to unmarshal players_json", "error", err, "sessionID", session.ID)
		}
	}
	if waitlistJSON.Valid && waitlistJSON.String != "" {
		if err := json.Unmarshal([]byte(waitlistJSON.String), &session.Waitlist); err != nil {
			log.Error("Failed to unmarshal waitlist_json", "error", err, "sessionID", session.ID)
		}
	}
	return &session, nil
}

func (s *store) matchesForSession(sessionID string) ([]Match, error) {
	rows, err := s.db.Query(`
		SELECT id, session_id, team1_json, team2_json, team1_score, team2_score, spread, favorite_team
		FROM matches WHERE session_id = ? ORDER BY ord
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			log.Error("Failed to scan match row", "error", err, "sessionID", sessionID)
			continue
		}
		matches = append(matches, *match)
	}
	return matches, rows.Err()
}

func scanMatch(scanner interface{ Scan(...any) error }) (*Match, error) {
	var match Match
	var team1JSON, team2JSON string
	var team1Score, team2Score sql.NullInt64

	err := scanner.Scan(
		&match.ID, &match.SessionID, &team1JSON, &team2JSON,
		&team1Score, &team2Score, &match.Spread, &match.FavoriteTeam,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(team1JSON), &match.Team1); err != nil {
		log.Error("Failed to unmarshal team1_json", "error", err, "matchID", match.ID)
	}
	if err := json.Unmarshal([]byte(team2JSON), &match.Team2); err != nil {
		log.Error("Failed to unmarshal team2_json", "error", err, "matchID", match.ID)
	}
	if team1Score.Valid {
		v := int(team1Score.Int64)
		match.Team1Score = &v
	}
	if team2Score.Valid {
		v := int(team2Score.Int64)
		match.Team2Score = &v
	}
	return &match, nil
}

// GetMatch loads a single match by id.
func (s *store) GetMatch(matchID string) (*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow(`
		SELECT id, session_id, team1_json, team2_json, team1_score, team2_score, spread, favorite_team
		FROM matches WHERE id = ?
	`, matchID)

	match, err := scanMatch(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match: %w", err)
	}
	return match, nil
}

// UpdateSessionStatus transitions a session to a new state.
func (s *store) UpdateSessionStatus(sessionID string, status SessionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("UPDATE sessions SET status = ?, updated_at = ? WHERE id = ?", status, time.Now().Unix(), sessionID)
	return err
}

// UpdateMatchScore records a final score on a match.
func (s *store) UpdateMatchScore(matchID string, team1Score, team2Score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("UPDATE matches SET team1_score = ?, team2_score = ? WHERE id = ?", team1Score, team2Score, matchID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrMatchNotFound
	}
	return nil
}

// JoinSession adds a player to a session, or to its waitlist when the player
// limit is reached. The whole check-and-update runs in one transaction.
func (s *store) JoinSession(sessionID, playerID string) (JoinResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}

	session, err := sessionForUpdate(tx, sessionID)
	if err != nil {
		tx.Rollback()
		return "", err
	}

	for _, id := range session.PlayerIDs {
		if id == playerID {
			tx.Rollback()
			return "", ErrAlreadyJoined
		}
	}
	for _, id := range session.Waitlist {
		if id == playerID {
			tx.Rollback()
			return "", ErrAlreadyJoined
		}
	}

	result := Joined
	if session.PlayerLimit > 0 && len(session.PlayerIDs) >= session.PlayerLimit {
		session.Waitlist = append(session.Waitlist, playerID)
		result = Waitlisted
	} else {
		session.PlayerIDs = append(session.PlayerIDs, playerID)
	}

	if err := writeRosters(tx, session); err != nil {
		tx.Rollback()
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	log.Info("Player joined session", "sessionID", sessionID, "playerID", playerID, "result", result)
	return result, nil
}

// LeaveSession removes a player and promotes the first waitlisted player when
// a spot opens up.
func (s *store) LeaveSession(sessionID, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	session, err := sessionForUpdate(tx, sessionID)
	if err != nil {
		tx.Rollback()
		return err
	}

	wasInPlayers := false
	players := session.PlayerIDs[:0]
	for _, id := range session.PlayerIDs {
		if id == playerID {
			wasInPlayers = true
			continue
		}
		players = append(players, id)
	}
	session.PlayerIDs = players

	if wasInPlayers {
		if len(session.Waitlist) > 0 && (session.PlayerLimit == 0 || len(session.PlayerIDs) < session.PlayerLimit) {
			promoted := session.Waitlist[0]
			session.Waitlist = session.Waitlist[1:]
			session.PlayerIDs = append(session.PlayerIDs, promoted)
			log.Info("Promoted player from waitlist", "sessionID", sessionID, "playerID", promoted)
		}
	} else {
		wasInWaitlist := false
		waitlist := session.Waitlist[:0]
		for _, id := range session.Waitlist {
			if id == playerID {
				wasInWaitlist = true
				continue
			}
			waitlist = append(waitlist, id)
		}
		session.Waitlist = waitlist
		if !wasInWaitlist {
			tx.Rollback()
			return ErrNotInSession
		}
	}

	if err := writeRosters(tx, session); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// SubstitutePlayer swaps a player in the session roster and in every unplayed
// match. Played matches keep their historical rosters.
func (s *store) SubstitutePlayer(sessionID, oldPlayerID, newPlayerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	session, err := sessionForUpdate(tx, sessionID)
	if err != nil {
		tx.Rollback()
		return err
	}

	rows, err := tx.Query(`
		SELECT id, session_id, team1_json, team2_json, team1_score, team2_score, spread, favorite_team
		FROM matches WHERE session_id = ? AND team1_score IS NULL AND team2_score IS NULL ORDER BY ord
	`, sessionID)
	if err != nil {
		tx.Rollback()
		return err
	}
	var unplayed []Match
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			rows.Close()
			tx.Rollback()
			return err
		}
		unplayed = append(unplayed, *match)
	}
	rows.Close()

	swapped := 0
	for _, m := range unplayed {
		if !m.HasPlayer(oldPlayerID) {
			continue
		}
		replaceID(m.Team1, oldPlayerID, newPlayerID)
		replaceID(m.Team2, oldPlayerID, newPlayerID)

		team1JSON, err := json.Marshal(m.Team1)
		if err != nil {
			tx.Rollback()
			return err
		}
		team2JSON, err := json.Marshal(m.Team2)
		if err != nil {
			tx.Rollback()
			return err
		}
		if _, err := tx.Exec("UPDATE matches SET team1_json = ?, team2_json = ? WHERE id = ?", team1JSON, team2JSON, m.ID); err != nil {
			tx.Rollback()
			return err
		}
		swapped++
	}

	players := session.PlayerIDs[:0]
	for _, id := range session.PlayerIDs {
		if id == oldPlayerID {
			continue
		}
		players = append(players, id)
	}
	session.PlayerIDs = players
	alreadyIn := false
	for _, id := range session.PlayerIDs {
		if id == newPlayerID {
			alreadyIn = true
			break
		}
	}
	if !alreadyIn {
		session.PlayerIDs = append(session.PlayerIDs, newPlayerID)
	}

	if err := writeRosters(tx, session); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Info("Substituted player", "sessionID", sessionID, "old", oldPlayerID, "new", newPlayerID, "matches_updated", swapped)
	return nil
}

func replaceID(ids []string, old, new string) {
	for i, id := range ids {
		if id == old {
			ids[i] = new
		}
	}
}

func sessionForUpdate(tx *sql.Tx, sessionID string) (*Session, error) {
	row := tx.QueryRow(`
		SELECT id, name, location, scheduled_at, status, player_limit, players_json, waitlist_json
		FROM sessions WHERE id = ?
	`, sessionID)
	session, err := scanSession(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

func writeRosters(tx *sql.Tx, session *Session) error {
	playersJSON, err := json.Marshal(session.PlayerIDs)
	if err != nil {
		return err
	}
	waitlistJSON, err := json.Marshal(session.Waitlist)
	if err != nil {
		return err
	}
	_, err = tx.Exec("UPDATE sessions SET players_json = ?, waitlist_json = ?, updated_at = ? WHERE id = ?",
		playersJSON, waitlistJSON, time.Now().Unix(), session.ID)
	return err
}

func (s *store) AddPlayer(playerID, name string, hiddenRating float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM players WHERE id = ?)", playerID).Scan(&exists)
	if err != nil {
		log.Error("Failed to check if player exists", "error", err, "playerID", playerID)
		return
	}

	if !exists {
		_, err := s.db.Exec("INSERT INTO players (id, name, hidden_rating) VALUES (?, ?, ?)", playerID, name, hiddenRating)
		if err != nil {
			log.Error("Failed to add player", "error", err, "playerID", playerID)
		} else {
			log.Info("Added new player to the store", "playerID", playerID, "name", name, "rating", hiddenRating)
		}
	} else {
		_, err := s.db.Exec("UPDATE players SET name = ? WHERE id = ?", name, playerID)
		if err != nil {
			log.Error("Failed to update player", "error", err, "playerID", playerID)
		}
	}
}

// UpsertPlayers inserts any unknown players and refreshes names. Ratings are
// never touched here; only the rating path mutates them.
func (s *store) UpsertPlayers(players []Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`
		INSERT INTO players (id, name, linked_user_id, hidden_rating)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			linked_user_id = excluded.linked_user_id;
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, p := range players {
		if _, err := stmt.Exec(p.ID, p.Name, p.LinkedUserID, p.HiddenRating); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to upsert player %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

func (s *store) IsKnownPlayer(playerID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM players WHERE id = ?)", playerID).Scan(&exists)
	if err != nil {
		log.Error("Failed to check if player exists", "error", err, "playerID", playerID)
		return false
	}
	return exists
}

// GetPlayers retrieves the given players. Unknown ids are silently skipped.
func (s *store) GetPlayers(playerIDs []string) ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(playerIDs) == 0 {
		return []Player{}, nil
	}

	placeholders := strings.Repeat("?,", len(playerIDs))
	placeholders = placeholders[:len(placeholders)-1]
	query := fmt.Sprintf(`
		SELECT id, name, linked_user_id, COALESCE(hidden_rating, 0)
		FROM players WHERE id IN (%s)
	`, placeholders)

	args := make([]any, len(playerIDs))
	for i, id := range playerIDs {
		args[i] = id
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := []Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		players = append(players, p)
	}
	return players, nil
}

func scanPlayer(scanner interface{ Scan(...any) error }) (Player, error) {
	var p Player
	var name, linkedUserID sql.NullString
	if err := scanner.Scan(&p.ID, &name, &linkedUserID, &p.HiddenRating); err != nil {
		return Player{}, err
	}
	p.Name = name.String
	p.LinkedUserID = linkedUserID.String
	return p, nil
}

func (s *store) GetAllPlayers() ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id, name, linked_user_id, COALESCE(hidden_rating, 0) FROM players ORDER BY name")
	if err != nil {
		log.Error("Failed to query all players", "error", err)
		return nil, err
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		players = append(players, p)
	}
	return players, nil
}

// GetPlayersSortedByRating retrieves all players sorted by hidden rating,
// best first. Unrated players sort with the default rating.
func (s *store) GetPlayersSortedByRating() ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, name, linked_user_id, COALESCE(hidden_rating, 0)
		FROM players
		ORDER BY CASE WHEN COALESCE(hidden_rating, 0) = 0 THEN ? ELSE hidden_rating END DESC
	`, DefaultRating)
	if err != nil {
		log.Error("Failed to query players sorted by rating", "error", err)
		return nil, err
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		players = append(players, p)
	}
	return players, nil
}

// UpdatePlayerRatings persists new hidden ratings in one batched transaction.
// Ids not yet in the players table are inserted, so players first seen on a
// match roster get a row on their first rating update. Write order across
// players carries no meaning.
func (s *store) UpdatePlayerRatings(players []Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`
		INSERT INTO players (id, name, hidden_rating) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET hidden_rating = excluded.hidden_rating
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, p := range players {
		if _, err := stmt.Exec(p.ID, p.Name, p.HiddenRating); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to update rating for player %s: %w", p.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Info("Updated player ratings", "count", len(players))
	return nil
}

func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		log.Error("Failed to begin transaction for clearing store", "error", err)
		return
	}

	for _, table := range []string{"bets", "matches", "sessions", "players", "users"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			log.Error("Failed to clear table", "table", table, "error", err)
			tx.Rollback()
			return
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit transaction for clearing store", "error", err)
	}
}

func (s *store) ClearSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec("DELETE FROM sessions WHERE id = ?", sessionID)
	if err != nil {
		log.Error("Failed to clear session", "error", err, "sessionID", sessionID)
	}
}
