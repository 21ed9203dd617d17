// Package metrics contains prometheus instrumentation of the sync layer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchesTotal counts repository fetches by resource and by where the
	// served data came from.
	FetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "atalanta",
			Name:      "fetches_total",
			Help:      "Repository fetches, labelled by served source.",
		},
		[]string{"resource", "source"},
	)

	// FetchFailuresTotal counts total-unavailability failures: remote down
	// and nothing in cache.
	FetchFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "atalanta",
			Name:      "fetch_failures_total",
			Help:      "Fetches that failed with no cache to fall back on.",
		},
		[]string{"resource"},
	)

	// RollbacksTotal counts optimistic mutations reverted after a server
	// failure.
	RollbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "atalanta",
			Name:      "optimistic_rollbacks_total",
			Help:      "Optimistic mutations rolled back.",
		},
		[]string{"mutation"},
	)
)

// Source label values.
const (
	SourceRemote = "remote"
	SourceCache  = "cache"
)
