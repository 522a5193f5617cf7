package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	NameSessionsOpened      = "sessions_opened"
	NameActiveSessions      = "active_sessions"
	NameLoadFailures        = "load_failures"
	NameStrategySelections  = "strategy_selections"
	NamePreviewBlocks       = "preview_blocks"
	NameRenderedPages       = "rendered_pages"
	NameLocalRenderDuration = "local_render_duration_seconds"
)

var SessionsOpened = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameSessionsOpened,
		Help:      "Total opened viewer sessions",
		Namespace: Namespace,
	},
	[]string{LabelCategory},
)

var ActiveSessions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name:      NameActiveSessions,
		Help:      "Current viewer sessions",
		Namespace: Namespace,
	},
)

var LoadFailures = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameLoadFailures,
		Help:      "Total document load failures",
		Namespace: Namespace,
	},
	[]string{LabelCategory},
)

var StrategySelections = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameStrategySelections,
		Help:      "Total rendering strategy selections",
		Namespace: Namespace,
	},
	[]string{LabelStrategy},
)

var PreviewBlocks = promauto.NewCounter(
	prometheus.CounterOpts{
		Name:      NamePreviewBlocks,
		Help:      "Total navigations blocked by the preview limit",
		Namespace: Namespace,
	},
)

var RenderedPages = promauto.NewCounter(
	prometheus.CounterOpts{
		Name:      NameRenderedPages,
		Help:      "Total rendered pages",
		Namespace: Namespace,
	},
)

var LocalRenderDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Name:      NameLocalRenderDuration,
		Help:      "Duration of the local rendering of office documents",
		Namespace: Namespace,
		Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60},
	},
)
