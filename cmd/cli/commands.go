package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(walletCmd)
	rootCmd.AddCommand(betsCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the players in the league store",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players")
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "List players sorted by rating, best first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/leaderboard")
	},
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions [sessionID]",
	Short: "List sessions, or show one session with its matches",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return performGetRequest("/sessions?sessionID=" + url.QueryEscape(args[0]))
		}
		return performGetRequest("/sessions")
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete <sessionID>",
	Short: "Run completion for a session: ratings, bet settlement and notification",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/complete-session?sessionID=" + url.QueryEscape(args[0]))
	},
}

var scoreCmd = &cobra.Command{
	Use:   "score <matchID> <team1Score> <team2Score>",
	Short: "Record a final score for a match",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := fmt.Sprintf("/score-match?matchID=%s&team1Score=%s&team2Score=%s",
			url.QueryEscape(args[0]), url.QueryEscape(args[1]), url.QueryEscape(args[2]))
		return performPostRequest(endpoint)
	},
}

var walletCmd = &cobra.Command{
	Use:   "wallet <userID>",
	Short: "Show a user's wallet balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/wallet?userID=" + url.QueryEscape(args[0]))
	},
}

var betsCmd = &cobra.Command{
	Use:   "bets <userID>",
	Short: "List a user's bets, most recent first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/bets?userID=" + url.QueryEscape(args[0]))
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performPostRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Post(url, "application/json", nil)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
