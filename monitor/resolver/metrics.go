package resolver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	discoveryRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chainwatch",
		Subsystem: "resolver",
		Name:      "discovery_runs_total",
		Help:      "Number of live discovery attempts per chain.",
	}, []string{"chain"})

	cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chainwatch",
		Subsystem: "resolver",
		Name:      "cache_hits_total",
		Help:      "Number of resolutions served from the parameter cache.",
	}, []string{"chain"})

	staleRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chainwatch",
		Subsystem: "resolver",
		Name:      "stale_cache_records_total",
		Help:      "Cached records skipped because their endpoint no longer matches the configuration.",
	}, []string{"chain"})

	fieldsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chainwatch",
		Subsystem: "resolver",
		Name:      "fields_resolved_total",
		Help:      "Discoverable fields filled in, by source (manual, cache, discovery, derived).",
	}, []string{"source"})
)
