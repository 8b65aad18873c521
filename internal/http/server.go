package http

import (
	"net/http"

	"github.com/cmurph1624/pickleballapp-sub001/internal/betting"
	"github.com/cmurph1624/pickleballapp-sub001/internal/completion"
	"github.com/cmurph1624/pickleballapp-sub001/internal/config"
	"github.com/cmurph1624/pickleballapp-sub001/internal/league"
	"github.com/cmurph1624/pickleballapp-sub001/internal/metrics"
	"github.com/cmurph1624/pickleballapp-sub001/internal/notifier"
	"github.com/cmurph1624/pickleballapp-sub001/internal/pubsub"
)

func NewServer(store league.LeagueStore, bets betting.BetStore, completer *completion.Completer, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Store:          store,
		Bets:           bets,
		Completer:      completer,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/clear", Chain(s.ClearStoreHandler(), paramsMiddleware))
	s.Router.Handle("/players", Chain(s.ListPlayersHandler(), paramsMiddleware))
	s.Router.Handle("/leaderboard", Chain(s.LeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("/sessions", Chain(s.ListSessionsHandler(), paramsMiddleware))
	s.Router.Handle("/sessions/create", Chain(s.CreateSessionHandler(), paramsMiddleware))
	s.Router.Handle("/complete-session", Chain(s.CompleteSessionHandler(), paramsMiddleware))
	s.Router.Handle("/score-match", Chain(s.ScoreMatchHandler(), paramsMiddleware))
	s.Router.Handle("/join-session", Chain(s.JoinSessionHandler(), paramsMiddleware))
	s.Router.Handle("/leave-session", Chain(s.LeaveSessionHandler(), paramsMiddleware))
	s.Router.Handle("/substitute-player", Chain(s.SubstitutePlayerHandler(), paramsMiddleware))
	s.Router.Handle("/place-bet", Chain(s.PlaceBetHandler(), paramsMiddleware))
	s.Router.Handle("/wallet", Chain(s.WalletHandler(), paramsMiddleware))
	s.Router.Handle("/bets", Chain(s.ListBetsHandler(), paramsMiddleware))
	s.Router.Handle("/notify-session", Chain(s.NotifySessionHandler(), paramsMiddleware))
	s.Router.Handle("/slack/command/leaderboard", Chain(s.LeaderboardCommandHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
