package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/BerylCAtieno/tubearchitect/internal/apperr"
)

var (
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubearchitect_analyses_total",
			Help: "Analysis attempts by channel source and outcome",
		},
		[]string{"source", "outcome"}, // source: "demo", "live"; outcome: "success" or an error kind
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tubearchitect_strategy_generation_seconds",
			Help:    "Time spent producing a strategy",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60, 90},
		},
		[]string{"mode"},
	)

	StatsLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubearchitect_channel_lookups_total",
			Help: "YouTube channel lookups by outcome",
		},
		[]string{"outcome"},
	)

	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubearchitect_exports_total",
			Help: "Strategy document exports by outcome",
		},
		[]string{"outcome"},
	)

	AgentRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubearchitect_agent_requests_total",
			Help: "JSON-RPC agent requests by method and outcome",
		},
		[]string{"method", "outcome"},
	)
)

// Outcome labels err as "success" or its error kind.
func Outcome(err error) string {
	if err == nil {
		return "success"
	}
	return string(apperr.KindOf(err))
}

func RecordAnalysis(source string, err error) {
	AnalysesTotal.WithLabelValues(source, Outcome(err)).Inc()
}

func RecordGeneration(mode string, duration time.Duration) {
	GenerationDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

func RecordStatsLookup(err error) {
	StatsLookupsTotal.WithLabelValues(Outcome(err)).Inc()
}

func RecordExport(err error) {
	ExportsTotal.WithLabelValues(Outcome(err)).Inc()
}

func RecordAgentRequest(method string, err error) {
	AgentRequestsTotal.WithLabelValues(method, Outcome(err)).Inc()
}
