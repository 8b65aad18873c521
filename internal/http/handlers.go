package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/cmurph1624/pickleballapp-sub001/internal/betting"
	"github.com/cmurph1624/pickleballapp-sub001/internal/completion"
	"github.com/cmurph1624/pickleballapp-sub001/internal/league"
	"github.com/cmurph1624/pickleballapp-sub001/internal/odds"
	"github.com/slack-go/slack"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ClearStoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.URL.Query().Get("sessionID")
		if sessionID != "" {
			log.Info("Received request to clear a specific session", "sessionID", sessionID)
			s.Store.ClearSession(sessionID)
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, "Cleared session %s from store!", sessionID)
		} else {
			log.Info("Received request to clear entire store")
			s.Store.Clear()
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, "Store cleared!")
		}
	}
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Store.GetAllPlayers()
		if err != nil {
			http.Error(w, "Failed to get players", http.StatusInternalServerError)
			log.Error("Failed to get players from store", "error", err)
			return
		}
		writeJSON(w, players)
	}
}

// LeaderboardHandler serves players sorted by hidden rating, best first.
func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Store.GetPlayersSortedByRating()
		if err != nil {
			http.Error(w, "Failed to get players", http.StatusInternalServerError)
			log.Error("Failed to get players sorted by rating from store", "error", err)
			return
		}
		writeJSON(w, players)
	}
}

func (s *Server) ListSessionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.URL.Query().Get("sessionID")
		if sessionID != "" {
			session, err := s.Store.GetSession(sessionID)
			if err != nil {
				if errors.Is(err, league.ErrSessionNotFound) {
					http.Error(w, "Session not found", http.StatusNotFound)
					return
				}
				http.Error(w, "Failed to get session", http.StatusInternalServerError)
				log.Error("Failed to get session from store", "error", err, "sessionID", sessionID)
				return
			}
			writeJSON(w, session)
			return
		}

		sessions, err := s.Store.ListSessions()
		if err != nil {
			http.Error(w, "Failed to list sessions", http.StatusInternalServerError)
			log.Error("Failed to list sessions from store", "error", err)
			return
		}
		writeJSON(w, sessions)
	}
}

// createSessionRequest is the JSON body for /sessions/create. Each match only
// carries its rosters; the line is computed and frozen server-side.
type createSessionRequest struct {
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	ScheduledAt int64    `json:"scheduled_at"`
	PlayerLimit int      `json:"player_limit"`
	PlayerIDs   []string `json:"player_ids"`
	Matches     []struct {
		Team1 []string `json:"team1"`
		Team2 []string `json:"team2"`
	} `json:"matches"`
}

func (s *Server) CreateSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req createSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if req.Name == "" {
			http.Error(w, "Session name is required", http.StatusBadRequest)
			return
		}

		session := &league.Session{
			Name:        req.Name,
			Location:    req.Location,
			ScheduledAt: req.ScheduledAt,
			PlayerLimit: req.PlayerLimit,
			PlayerIDs:   req.PlayerIDs,
		}

		for _, m := range req.Matches {
			team1, err := s.Store.GetPlayers(m.Team1)
			if err != nil {
				http.Error(w, "Failed to load players", http.StatusInternalServerError)
				log.Error("Failed to load team1 players", "error", err)
				return
			}
			team2, err := s.Store.GetPlayers(m.Team2)
			if err != nil {
				http.Error(w, "Failed to load players", http.StatusInternalServerError)
				log.Error("Failed to load team2 players", "error", err)
				return
			}

			line := odds.CalculateSpread(team1, team2)
			session.Matches = append(session.Matches, league.Match{
				Team1:        m.Team1,
				Team2:        m.Team2,
				Spread:       line.Spread,
				FavoriteTeam: line.FavoriteTeam,
			})
		}

		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would have created session", "name", req.Name, "matches", len(session.Matches))
			writeJSON(w, session)
			return
		}

		if err := s.Store.CreateSession(session); err != nil {
			http.Error(w, "Failed to create session", http.StatusInternalServerError)
			log.Error("Failed to create session", "error", err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, session)
	}
}

func (s *Server) CompleteSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.URL.Query().Get("sessionID")
		if sessionID == "" {
			http.Error(w, "sessionID is required", http.StatusBadRequest)
			return
		}
		isDryRun := isDryRunFromContext(r)

		if err := s.Completer.CompleteSession(sessionID, isDryRun); err != nil {
			if errors.Is(err, league.ErrSessionNotFound) {
				http.Error(w, "Session not found", http.StatusNotFound)
				return
			}
			http.Error(w, "Failed to complete session", http.StatusInternalServerError)
			log.Error("Failed to complete session", "error", err, "sessionID", sessionID)
			return
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Session completion finished.")
	}
}

func (s *Server) ScoreMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID := r.URL.Query().Get("matchID")
		if matchID == "" {
			http.Error(w, "matchID is required", http.StatusBadRequest)
			return
		}
		team1Score, err1 := strconv.Atoi(r.URL.Query().Get("team1Score"))
		team2Score, err2 := strconv.Atoi(r.URL.Query().Get("team2Score"))
		if err1 != nil || err2 != nil {
			http.Error(w, "team1Score and team2Score must be integers", http.StatusBadRequest)
			return
		}

		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would have scored match", "matchID", matchID, "score", fmt.Sprintf("%d-%d", team1Score, team2Score))
			w.WriteHeader(http.StatusOK)
			return
		}

		if err := s.Store.UpdateMatchScore(matchID, team1Score, team2Score); err != nil {
			if errors.Is(err, league.ErrMatchNotFound) {
				http.Error(w, "Match not found", http.StatusNotFound)
				return
			}
			http.Error(w, "Failed to score match", http.StatusInternalServerError)
			log.Error("Failed to score match", "error", err, "matchID", matchID)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Match scored.")
	}
}

func (s *Server) JoinSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.URL.Query().Get("sessionID")
		playerID := r.URL.Query().Get("playerID")
		if sessionID == "" || playerID == "" {
			http.Error(w, "sessionID and playerID are required", http.StatusBadRequest)
			return
		}

		result, err := s.Store.JoinSession(sessionID, playerID)
		if err != nil {
			switch {
			case errors.Is(err, league.ErrSessionNotFound):
				http.Error(w, "Session not found", http.StatusNotFound)
			case errors.Is(err, league.ErrAlreadyJoined):
				http.Error(w, "Player already joined", http.StatusConflict)
			default:
				http.Error(w, "Failed to join session", http.StatusInternalServerError)
				log.Error("Failed to join session", "error", err, "sessionID", sessionID, "playerID", playerID)
			}
			return
		}
		writeJSON(w, map[string]string{"result": string(result)})
	}
}

func (s *Server) LeaveSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.URL.Query().Get("sessionID")
		playerID := r.URL.Query().Get("playerID")
		if sessionID == "" || playerID == "" {
			http.Error(w, "sessionID and playerID are required", http.StatusBadRequest)
			return
		}

		if err := s.Store.LeaveSession(sessionID, playerID); err != nil {
			switch {
			case errors.Is(err, league.ErrSessionNotFound):
				http.Error(w, "Session not found", http.StatusNotFound)
			case errors.Is(err, league.ErrNotInSession):
				http.Error(w, "Player is not in this session", http.StatusConflict)
			default:
				http.Error(w, "Failed to leave session", http.StatusInternalServerError)
				log.Error("Failed to leave session", "error", err, "sessionID", sessionID, "playerID", playerID)
			}
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Left session.")
	}
}

func (s *Server) SubstitutePlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.URL.Query().Get("sessionID")
		oldPlayerID := r.URL.Query().Get("oldPlayerID")
		newPlayerID := r.URL.Query().Get("newPlayerID")
		if sessionID == "" || oldPlayerID == "" || newPlayerID == "" {
			http.Error(w, "sessionID, oldPlayerID and newPlayerID are required", http.StatusBadRequest)
			return
		}
		isDryRun := isDryRunFromContext(r)

		if err := s.Completer.SubstitutePlayer(sessionID, oldPlayerID, newPlayerID, isDryRun); err != nil {
			if errors.Is(err, league.ErrSessionNotFound) {
				http.Error(w, "Session not found", http.StatusNotFound)
				return
			}
			http.Error(w, "Failed to substitute player", http.StatusInternalServerError)
			log.Error("Failed to substitute player", "error", err, "sessionID", sessionID)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "Player substituted.")
	}
}

// placeBetRequest is the JSON body for /place-bet.
type placeBetRequest struct {
	UserID     string  `json:"user_id"`
	MatchID    string  `json:"match_id"`
	TeamPicked int     `json:"team_picked"`
	Amount     float64 `json:"amount"`
}

func (s *Server) PlaceBetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req placeBetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		match, err := s.Store.GetMatch(req.MatchID)
		if err != nil {
			if errors.Is(err, league.ErrMatchNotFound) {
				http.Error(w, "Match not found", http.StatusNotFound)
				return
			}
			http.Error(w, "Failed to load match", http.StatusInternalServerError)
			log.Error("Failed to load match for bet", "error", err, "matchID", req.MatchID)
			return
		}

		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would have placed bet", "userID", req.UserID, "matchID", req.MatchID, "amount", req.Amount)
			w.WriteHeader(http.StatusOK)
			return
		}

		bet, err := s.Bets.PlaceBet(req.UserID, match, req.TeamPicked, req.Amount)
		if err != nil {
			switch {
			case errors.Is(err, betting.ErrUserNotFound):
				http.Error(w, "User not found", http.StatusNotFound)
			case errors.Is(err, betting.ErrInsufficientFunds):
				http.Error(w, "Insufficient funds", http.StatusUnprocessableEntity)
			case errors.Is(err, betting.ErrDuplicateBet):
				http.Error(w, "User already has an open bet on this match", http.StatusConflict)
			case errors.Is(err, betting.ErrMatchAlreadyScored):
				http.Error(w, "Match already has a final score", http.StatusConflict)
			case errors.Is(err, betting.ErrInvalidBet):
				http.Error(w, "Invalid bet", http.StatusBadRequest)
			default:
				http.Error(w, "Failed to place bet", http.StatusInternalServerError)
				log.Error("Failed to place bet", "error", err, "userID", req.UserID, "matchID", req.MatchID)
			}
			return
		}
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, bet)
	}
}

func (s *Server) WalletHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("userID")
		if userID == "" {
			http.Error(w, "userID is required", http.StatusBadRequest)
			return
		}

		balance, err := s.Bets.WalletBalance(userID)
		if err != nil {
			if errors.Is(err, betting.ErrUserNotFound) {
				http.Error(w, "User not found", http.StatusNotFound)
				return
			}
			http.Error(w, "Failed to get wallet balance", http.StatusInternalServerError)
			log.Error("Failed to get wallet balance", "error", err, "userID", userID)
			return
		}
		writeJSON(w, map[string]float64{"balance": balance})
	}
}

func (s *Server) ListBetsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("userID")
		if userID == "" {
			http.Error(w, "userID is required", http.StatusBadRequest)
			return
		}

		bets, err := s.Bets.BetsForUser(userID)
		if err != nil {
			http.Error(w, "Failed to get bets", http.StatusInternalServerError)
			log.Error("Failed to get bets for user", "error", err, "userID", userID)
			return
		}
		writeJSON(w, bets)
	}
}

// NotifySessionHandler handles the Pub/Sub push for session-completed events
// and fans out to the notifier.
func (s *Server) NotifySessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received notify session message", "body", string(bodyBytes))
		// Define a small struct to decode the incoming JSON's `data` field
		var pubsubMsg struct {
			Subscription string `json:"subscription"`
			Message      struct {
				Data string `json:"data"` // base64-encoded message payload
			} `json:"message"`
		}

		// Parse the outer JSON to get `data`
		if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		// Decode base64 to raw MessagePack bytes
		rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}
		isDryRun := isDryRunFromContext(r)
		summary := completion.SessionSummary{}
		if err := s.pubsub.ProcessMessage(rawData, &summary); err != nil {
			http.Error(w, "Invalid message payload", http.StatusBadRequest)
			return
		}

		names, err := s.playerNamesFor(&summary)
		if err != nil {
			log.Error("Failed to load player names for summary", "error", err, "sessionID", summary.SessionID)
			names = map[string]string{}
		}

		if err := s.Notifier.SendSessionSummary(&summary, names, isDryRun); err != nil {
			log.Error("Failed to send session summary", "error", err, "sessionID", summary.SessionID)
			http.Error(w, "Failed to send session summary", http.StatusInternalServerError)
			return
		}

		// Follow the summary with the updated standings. Best effort: the
		// summary already went out, so a failure here only gets logged.
		if players, err := s.Store.GetPlayersSortedByRating(); err != nil {
			log.Error("Failed to load leaderboard for notification", "error", err)
		} else if err := s.Notifier.SendLeaderboard(players, isDryRun); err != nil {
			log.Error("Failed to send leaderboard", "error", err, "sessionID", summary.SessionID)
		}
		w.Write([]byte("OK"))
	}
}

func (s *Server) playerNamesFor(summary *completion.SessionSummary) (map[string]string, error) {
	idSet := make(map[string]struct{})
	var ids []string
	for _, result := range summary.Results {
		for _, id := range append(append([]string{}, result.Team1...), result.Team2...) {
			if _, ok := idSet[id]; !ok {
				idSet[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	players, err := s.Store.GetPlayers(ids)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
	}
	return names, nil
}

// writeJSON is a helper to write a JSON response.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// LeaderboardCommandHandler returns a handler for the /leaderboard Slack command.
func (s *Server) LeaderboardCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Store.GetPlayersSortedByRating()
		if err != nil {
			http.Error(w, "Failed to get players", http.StatusInternalServerError)
			log.Error("Failed to get players sorted by rating from store", "error", err)
			return
		}

		msg, err := s.Notifier.FormatLeaderboardResponse(players)
		if err != nil {
			http.Error(w, "Failed to format leaderboard", http.StatusInternalServerError)
			log.Error("Failed to format leaderboard", "error", err)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}

		respondWithSlackMsg(w, slackMsg)
	}
}
