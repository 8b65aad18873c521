package slack

import (
	"context"
	"errors"
	"testing"

	"github.com/cmurph1624/pickleballapp-sub001/internal/completion"
	"github.com/cmurph1624/pickleballapp-sub001/internal/league"
	"github.com/cmurph1624/pickleballapp-sub001/internal/metrics"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func TestSendMessage_DryRun(t *testing.T) {
	metrics := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	notifier := NewNotifierWithAPI(nil, "C123", metrics)

	message := slackapi.NewBlockMessage()
	_, _, err := notifier.sendMessage(message, true)
	require.NoError(t, err)
}

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	message := slackapi.NewBlockMessage(slackapi.NewSectionBlock(slackapi.NewTextBlockObject("plain_text", "hello", false, false), nil, nil))
	_, _, err := notifier.sendMessage(message, false)

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, metrics.SlackNotifSent())
	assert.Equal(t, 0, metrics.SlackNotifFailed())
}

func TestSendMessage_Failure(t *testing.T) {
	postMessageCalled := false
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "", "", expectedErr
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	message := slackapi.NewBlockMessage()
	_, _, err := notifier.sendMessage(message, false)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 0, metrics.SlackNotifSent())
	assert.Equal(t, 1, metrics.SlackNotifFailed())
}

// Test one of the public methods to ensure it calls the private sender.
func TestSendSessionSummary_CallsSender(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			return "C123", "ts123", nil
		},
	}

	notifier := NewNotifierWithAPI(api, "C123", metrics.NewMock())

	summary := &completion.SessionSummary{
		SessionID:     "s1",
		SessionName:   "Tuesday Night",
		PlayedMatches: 1,
		Results: []completion.MatchResult{
			{MatchID: "m1", Team1: []string{"p1"}, Team2: []string{"p2"}, FinalScore: "11-7"},
		},
	}
	names := map[string]string{"p1": "Alice", "p2": "Bob"}

	err := notifier.SendSessionSummary(summary, names, false)
	require.NoError(t, err)
	assert.True(t, postMessageCalled)
}

func TestFormatSessionSummary_UsesPlayerNames(t *testing.T) {
	notifier := NewNotifierWithAPI(nil, "C123", metrics.NewMock())

	summary := &completion.SessionSummary{
		SessionName: "Night",
		Results: []completion.MatchResult{
			{Team1: []string{"p1"}, Team2: []string{"unknown"}, FinalScore: "11-7"},
		},
	}
	msg := notifier.formatSessionSummary(summary, map[string]string{"p1": "Alice"})

	found := false
	for _, block := range msg.Blocks.BlockSet {
		if section, ok := block.(*slackapi.SectionBlock); ok && section.Text != nil {
			if assert.ObjectsAreEqual(section.Text.Text, "Results:\n• Alice vs unknown: 11-7") {
				found = true
			}
		}
	}
	assert.True(t, found, "results block should name known players and fall back to ids")
}

func TestFormatLeaderboard(t *testing.T) {
	notifier := NewNotifierWithAPI(nil, "C123", metrics.NewMock())

	t.Run("empty", func(t *testing.T) {
		msg := notifier.formatLeaderboard(nil)
		require.Len(t, msg.Blocks.BlockSet, 2)
	})

	t.Run("ranked players", func(t *testing.T) {
		players := []league.Player{
			{ID: "p1", Name: "Alice", HiddenRating: 42},
			{ID: "p2", Name: "Bob"},
		}
		msg := notifier.formatLeaderboard(players)
		// Header plus one section per player.
		require.Len(t, msg.Blocks.BlockSet, 3)
	})
}
