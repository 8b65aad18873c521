package notifier

import (
	"github.com/cmurph1624/pickleballapp-sub001/internal/completion"
	"github.com/cmurph1624/pickleballapp-sub001/internal/league"
)

// Notifier defines a high-level interface for sending notifications about business events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// For completed sessions. playerNames maps player ids to display names
	// for rendering team lineups.
	SendSessionSummary(summary *completion.SessionSummary, playerNames map[string]string, dryRun bool) error
	// For slash commands
	SendLeaderboard(players []league.Player, dryRun bool) error

	// For formatting responses for slash commands
	FormatLeaderboardResponse(players []league.Player) (any, error)
}
