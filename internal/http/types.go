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

type Server struct {
	Store          league.LeagueStore
	Bets           betting.BetStore
	Completer      *completion.Completer
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}
