package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	NameUnlockPrompts = "unlock_prompts"
	NamePurchases     = "purchases"
	NameDownloads     = "downloads"
)

var UnlockPrompts = promauto.NewCounter(
	prometheus.CounterOpts{
		Name:      NameUnlockPrompts,
		Help:      "Total purchase prompts presented to viewers",
		Namespace: Namespace,
	},
)

var Purchases = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NamePurchases,
		Help:      "Total purchase attempts",
		Namespace: Namespace,
	},
	[]string{LabelStatus},
)

var Downloads = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameDownloads,
		Help:      "Total download attempts",
		Namespace: Namespace,
	},
	[]string{LabelStatus},
)
