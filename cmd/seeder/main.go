package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/cmurph1624/pickleballapp-sub001/internal/league"
	"github.com/cmurph1624/pickleballapp-sub001/internal/odds"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	for _, key := range []string{"TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN", "DB_NAME"} {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		}
	}
	if config["TURSO_PRIMARY_URL"] == "" && config["DB_NAME"] == "" {
		log.Fatalf("Error: Either TURSO_PRIMARY_URL or DB_NAME must be set.")
	}
	return config
}

func openDB(cfg map[string]string) *sql.DB {
	if cfg["TURSO_PRIMARY_URL"] != "" {
		dbURL := fmt.Sprintf("%s?authToken=%s", cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
		db, err := sql.Open("libsql", dbURL)
		if err != nil {
			log.Fatalf("Failed to open primary database: %s", err)
		}
		return db
	}
	db, err := sql.Open("sqlite3", cfg["DB_NAME"])
	if err != nil {
		log.Fatalf("Failed to open local database: %s", err)
	}
	return db
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		log.Fatalf("Failed to marshal JSON: %s", err)
	}
	return string(b)
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	db := openDB(cfg)
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to database: %s", err)
	}
	log.Info("Successfully connected to the database.")

	dummyPlayers := []league.Player{
		{ID: "player-1", Name: "Seeder Player A", HiddenRating: 42},
		{ID: "player-2", Name: "Seeder Player B", HiddenRating: 38},
		{ID: "player-3", Name: "Seeder Player C", HiddenRating: 31},
		{ID: "player-4", Name: "Seeder Player D"}, // unrated, defaults at read time
	}
	for _, p := range dummyPlayers {
		_, err := db.Exec("INSERT OR IGNORE INTO players (id, name, hidden_rating) VALUES (?, ?, ?)", p.ID, p.Name, p.HiddenRating)
		if err != nil {
			log.Fatalf("Failed to insert dummy player %s: %s", p.Name, err)
		}
	}
	log.Info("Ensured dummy players exist.")

	dummyUsers := []struct {
		id      string
		name    string
		balance float64
	}{
		{"user-1", "Seeder Bettor A", 100},
		{"user-2", "Seeder Bettor B", 250},
	}
	for _, u := range dummyUsers {
		_, err := db.Exec("INSERT OR IGNORE INTO users (id, name, wallet_balance) VALUES (?, ?, ?)", u.id, u.name, u.balance)
		if err != nil {
			log.Fatalf("Failed to insert dummy user %s: %s", u.name, err)
		}
	}
	log.Info("Ensured dummy users exist.")

	const batchSize = 100
	const numSessions = 1000

	log.Info("Preparing to insert dummy sessions...", "total", numSessions, "batch_size", batchSize)
	startTime := time.Now()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	playerIDs := mustJSON([]string{"player-1", "player-2", "player-3", "player-4"})
	team1 := []string{"player-1", "player-4"}
	team2 := []string{"player-2", "player-3"}
	line := odds.CalculateSpread(
		[]league.Player{dummyPlayers[0], dummyPlayers[3]},
		[]league.Player{dummyPlayers[1], dummyPlayers[2]},
	)

	sessionValues := make([]string, 0, batchSize)
	sessionArgs := make([]interface{}, 0, batchSize*10)
	matchValues := make([]string, 0, batchSize)
	matchArgs := make([]interface{}, 0, batchSize*9)

	for i := 0; i < numSessions; i++ {
		scheduledAt := time.Now().Add(-time.Duration(rand.Intn(365*24)) * time.Hour)
		sessionID := uuid.NewString()

		sessionValues = append(sessionValues, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		sessionArgs = append(sessionArgs,
			sessionID,
			fmt.Sprintf("Seeded Session %d", i+1),
			"Seeded Court",
			scheduledAt.Unix(),
			league.StatusCompleted,
			0,
			playerIDs,
			mustJSON([]string{}),
			scheduledAt.Unix(),
			scheduledAt.Unix(),
		)

		matchValues = append(matchValues, "(?, ?, ?, ?, ?, ?, ?, ?, ?)")
		matchArgs = append(matchArgs,
			uuid.NewString(),
			sessionID,
			0,
			mustJSON(team1),
			mustJSON(team2),
			11,
			rand.Intn(10),
			line.Spread,
			line.FavoriteTeam,
		)

		if (i+1)%batchSize == 0 || (i+1) == numSessions {
			sessionStmt := fmt.Sprintf(`
				INSERT INTO sessions (id, name, location, scheduled_at, status, player_limit,
					players_json, waitlist_json, created_at, updated_at)
				VALUES %s;`, strings.Join(sessionValues, ","))
			if _, err := tx.Exec(sessionStmt, sessionArgs...); err != nil {
				tx.Rollback()
				log.Fatalf("Failed to execute session batch insert: %s", err)
			}

			matchStmt := fmt.Sprintf(`
				INSERT INTO matches (id, session_id, ord, team1_json, team2_json,
					team1_score, team2_score, spread, favorite_team)
				VALUES %s;`, strings.Join(matchValues, ","))
			if _, err := tx.Exec(matchStmt, matchArgs...); err != nil {
				tx.Rollback()
				log.Fatalf("Failed to execute match batch insert: %s", err)
			}

			// Reset for the next batch
			sessionValues = make([]string, 0, batchSize)
			sessionArgs = make([]interface{}, 0, batchSize*10)
			matchValues = make([]string, 0, batchSize)
			matchArgs = make([]interface{}, 0, batchSize*9)
			log.Info("Inserted batch", "completed", i+1, "total", numSessions)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit transaction: %s", err)
	}

	// One upcoming session with an unplayed match and an open bet, for manual testing.
	upcomingID := uuid.NewString()
	matchID := uuid.NewString()
	now := time.Now()
	_, err = db.Exec(`
		INSERT INTO sessions (id, name, location, scheduled_at, status, player_limit,
			players_json, waitlist_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		upcomingID, "Seeded Upcoming Session", "Seeded Court", now.Add(48*time.Hour).Unix(),
		league.StatusScheduled, 0, playerIDs, mustJSON([]string{}), now.Unix(), now.Unix())
	if err != nil {
		log.Fatalf("Failed to insert upcoming session: %s", err)
	}
	_, err = db.Exec(`
		INSERT INTO matches (id, session_id, ord, team1_json, team2_json, spread, favorite_team)
		VALUES (?, ?, ?, ?, ?, ?, ?);`,
		matchID, upcomingID, 0, mustJSON(team1), mustJSON(team2), line.Spread, line.FavoriteTeam)
	if err != nil {
		log.Fatalf("Failed to insert upcoming match: %s", err)
	}
	_, err = db.Exec(`
		INSERT INTO bets (id, user_id, session_id, match_id, team_picked, amount,
			spread_at_time_of_bet, favorite_team_at_time_of_bet, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		uuid.NewString(), "user-1", upcomingID, matchID, 1, 20,
		line.Spread, line.FavoriteTeam, "OPEN", now.Unix())
	if err != nil {
		log.Fatalf("Failed to insert open bet: %s", err)
	}
	log.Info("Inserted upcoming session with an open bet.", "sessionID", upcomingID, "matchID", matchID)

	duration := time.Since(startTime)
	log.Info("Successfully inserted all dummy sessions.", "duration", duration)
}
