package completion

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/cmurph1624/pickleballapp-sub001/internal/betting"
	"github.com/cmurph1624/pickleballapp-sub001/internal/league"
	"github.com/cmurph1624/pickleballapp-sub001/internal/metrics"
	"github.com/cmurph1624/pickleballapp-sub001/internal/pubsub"
	"github.com/cmurph1624/pickleballapp-sub001/internal/rating"
)

// New creates a new Completer.
func New(store league.LeagueStore, bets betting.BetStore, metrics metrics.Metrics, pubsubClient pubsub.PubSubClient) *Completer {
	return &Completer{
		store:   store,
		bets:    bets,
		metrics: metrics,
		pubsub:  pubsubClient,
	}
}

// CompleteSession finalizes a session: it folds the rating engine over every
// scored match in order, persists the new ratings, settles bets (resolving
// scored matches, refunding unplayed ones), marks the session COMPLETED and
// publishes a summary event.
//
// Completing an already COMPLETED session is a no-op. There is no
// cross-step transaction; a failure partway leaves earlier steps committed
// and the session still SCHEDULED, so a retry picks up the remaining work.
func (c *Completer) CompleteSession(sessionID string, dryRun bool) error {
	start := time.Now()

	session, err := c.store.GetSession(sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	if session.Status == league.StatusCompleted {
		log.Warn("Session already completed, skipping", "sessionID", sessionID)
		return nil
	}

	var scored, unplayed []league.Match
	for _, m := range session.Matches {
		if m.Scored() {
			scored = append(scored, m)
		} else {
			unplayed = append(unplayed, m)
		}
	}
	log.Info("Completing session", "sessionID", sessionID, "scored", len(scored), "unplayed", len(unplayed), "dryRun", dryRun)

	working, err := c.loadReferencedPlayers(scored)
	if err != nil {
		return err
	}

	deltas := make(map[string]float64, len(working))
	before := make(map[string]float64, len(working))
	for id, p := range working {
		before[id] = p.Rating()
	}

	// Matches update ratings in order, so early results shift the
	// expectations for later ones within the same session.
	for _, match := range scored {
		team1 := playersFor(working, match.Team1)
		team2 := playersFor(working, match.Team2)
		for _, p := range rating.UpdateRatings(match, team1, team2) {
			working[p.ID] = p
		}
	}
	for id, p := range working {
		deltas[id] = p.Rating() - before[id]
	}

	if dryRun {
		log.Info("Dry run, no changes persisted", "sessionID", sessionID, "ratingDeltas", deltas)
		return nil
	}

	if len(working) > 0 {
		updated := make([]league.Player, 0, len(working))
		for _, p := range working {
			updated = append(updated, p)
		}
		if err := c.store.UpdatePlayerRatings(updated); err != nil {
			return fmt.Errorf("failed to persist ratings for session %s: %w", sessionID, err)
		}
	}

	for _, match := range scored {
		if err := c.bets.ResolveBetsForMatch(match.ID, *match.Team1Score, *match.Team2Score); err != nil {
			return fmt.Errorf("failed to resolve bets for match %s: %w", match.ID, err)
		}
	}
	for _, match := range unplayed {
		if err := c.bets.RefundBetsForMatch(match.ID, "Match unplayed"); err != nil {
			return fmt.Errorf("failed to refund bets for match %s: %w", match.ID, err)
		}
	}

	if err := c.store.UpdateSessionStatus(sessionID, league.StatusCompleted); err != nil {
		return fmt.Errorf("failed to mark session %s completed: %w", sessionID, err)
	}

	summary := c.buildSummary(session, scored, unplayed, deltas)
	if err := c.pubsub.SendMessage(pubsub.EventSessionCompleted, summary); err != nil {
		// Notification is best effort; the session is already completed.
		log.Error("Failed to publish session summary", "sessionID", sessionID, "error", err)
	}

	c.metrics.IncSessionsCompleted()
	c.metrics.ObserveCompletionDuration(time.Since(start).Seconds())
	log.Info("Session completed", "sessionID", sessionID, "duration", time.Since(start))
	return nil
}

// SubstitutePlayer settles bets affected by the substitution and then swaps
// the player in the roster and all unplayed matches. Bets settle against the
// rosters as they were before the swap.
func (c *Completer) SubstitutePlayer(sessionID, oldPlayerID, newPlayerID string, dryRun bool) error {
	session, err := c.store.GetSession(sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	if session.Status == league.StatusCompleted {
		return fmt.Errorf("cannot substitute in completed session %s", sessionID)
	}

	var affected []league.Match
	for _, m := range session.Matches {
		if !m.Scored() && m.HasPlayer(oldPlayerID) {
			affected = append(affected, m)
		}
	}

	if dryRun {
		log.Info("Dry run, substitution not applied", "sessionID", sessionID, "old", oldPlayerID, "new", newPlayerID, "affectedMatches", len(affected))
		return nil
	}

	if err := c.bets.SettleBetsForSubstitution(affected, oldPlayerID); err != nil {
		return fmt.Errorf("failed to settle bets for substitution: %w", err)
	}
	if err := c.store.SubstitutePlayer(sessionID, oldPlayerID, newPlayerID); err != nil {
		return fmt.Errorf("failed to substitute player: %w", err)
	}
	return nil
}

// loadReferencedPlayers loads only the players appearing in scored matches.
// Unknown ids still get a working entry so defaults apply consistently.
func (c *Completer) loadReferencedPlayers(scored []league.Match) (map[string]league.Player, error) {
	idSet := make(map[string]struct{})
	var ids []string
	for _, m := range scored {
		for _, id := range append(append([]string{}, m.Team1...), m.Team2...) {
			if _, ok := idSet[id]; !ok {
				idSet[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	working := make(map[string]league.Player, len(ids))
	if len(ids) == 0 {
		return working, nil
	}

	players, err := c.store.GetPlayers(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load players: %w", err)
	}
	for _, p := range players {
		working[p.ID] = p
	}
	for _, id := range ids {
		if _, ok := working[id]; !ok {
			working[id] = league.Player{ID: id}
		}
	}
	return working, nil
}

func playersFor(working map[string]league.Player, ids []string) []league.Player {
	team := make([]league.Player, 0, len(ids))
	for _, id := range ids {
		team = append(team, working[id])
	}
	return team
}

func (c *Completer) buildSummary(session *league.Session, scored, unplayed []league.Match, deltas map[string]float64) SessionSummary {
	results := make([]MatchResult, 0, len(scored))
	for _, m := range scored {
		results = append(results, MatchResult{
			MatchID:    m.ID,
			Team1:      m.Team1,
			Team2:      m.Team2,
			FinalScore: fmt.Sprintf("%d-%d", *m.Team1Score, *m.Team2Score),
		})
	}
	return SessionSummary{
		SessionID:       session.ID,
		SessionName:     session.Name,
		Location:        session.Location,
		PlayedMatches:   len(scored),
		UnplayedMatches: len(unplayed),
		PlayersRated:    len(deltas),
		CompletedAt:     time.Now().Unix(),
		Results:         results,
		RatingDeltas:    deltas,
	}
}
