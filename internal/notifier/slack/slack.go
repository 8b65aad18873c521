package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/cmurph1624/pickleballapp-sub001/internal/completion"
	"github.com/cmurph1624/pickleballapp-sub001/internal/league"
	"github.com/cmurph1624/pickleballapp-sub001/internal/metrics"
	"github.com/cmurph1624/pickleballapp-sub001/internal/notifier"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// SendSessionSummary posts the results of a completed session to the club channel.
func (s *Notifier) SendSessionSummary(summary *completion.SessionSummary, playerNames map[string]string, dryRun bool) error {
	msg := s.formatSessionSummary(summary, playerNames)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// SendLeaderboard posts the rating leaderboard to the club channel.
func (s *Notifier) SendLeaderboard(players []league.Player, dryRun bool) error {
	msg := s.formatLeaderboard(players)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// FormatLeaderboardResponse formats a leaderboard message for a slash command response.
func (s *Notifier) FormatLeaderboardResponse(players []league.Player) (any, error) {
	return s.formatLeaderboard(players), nil
}

// formatSessionSummary creates the Slack message for a completed session using Block Kit.
func (s *Notifier) formatSessionSummary(summary *completion.SessionSummary, playerNames map[string]string) slack.Message {
	blocks := make([]slack.Block, 0)

	// Header
	headerText := slack.NewTextBlockObject("plain_text", "🏓 Session completed! 🏓", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	// Details
	detailsText := summary.SessionName
	if summary.Location != "" {
		detailsText = fmt.Sprintf("%s at %s", summary.SessionName, summary.Location)
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	// Results
	if len(summary.Results) > 0 {
		var resultLines []string
		for _, result := range summary.Results {
			resultLines = append(resultLines, fmt.Sprintf("• %s vs %s: %s",
				teamNames(result.Team1, playerNames),
				teamNames(result.Team2, playerNames),
				result.FinalScore,
			))
		}
		resultsText := "Results:\n" + strings.Join(resultLines, "\n")
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", resultsText, true, false), nil, nil))
	} else {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No matches were played.", true, false), nil, nil))
	}

	// Context
	contextText := fmt.Sprintf("%d played • %d unplayed", summary.PlayedMatches, summary.UnplayedMatches)
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", contextText, true, false)))

	return slack.NewBlockMessage(blocks...)
}

func teamNames(ids []string, playerNames map[string]string) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := playerNames[id]; ok && name != "" {
			names = append(names, name)
		} else {
			names = append(names, id)
		}
	}
	return strings.Join(names, " & ")
}

// formatLeaderboard creates a Slack message to display the rating leaderboard.
func (s *Notifier) formatLeaderboard(players []league.Player) slack.Message {
	blocks := make([]slack.Block, 0)

	// Header
	headerText := slack.NewTextBlockObject("plain_text", "🏆 Player Leaderboard 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(players) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No players found. Go play some pickleball!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	// Player Ranks
	for i, player := range players {
		rank := i + 1
		var medal string
		switch rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		}

		playerText := fmt.Sprintf("%d. %s %s\n> *Rating*: %.1f",
			rank,
			medal,
			player.Name,
			player.Rating(),
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", playerText, false, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}
