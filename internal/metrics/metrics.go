// Package metrics exposes Prometheus counters for query outcomes. The
// dispatcher increments these; scraping/exposition is the surrounding
// service's concern (out of scope, spec §1).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Served counts successfully answered queries, labeled by query variant.
var Served = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ledgerd",
	Subsystem: "query",
	Name:      "served_total",
	Help:      "Queries answered successfully, by variant.",
}, []string{"variant"})

// Denied counts queries rejected by the authorization predicate,
// labeled by query variant.
var Denied = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ledgerd",
	Subsystem: "query",
	Name:      "denied_total",
	Help:      "Queries rejected for insufficient permission, by variant.",
}, []string{"variant"})

// Errored counts queries that failed for a reason other than
// authorization, labeled by variant and dispatcher error code.
var Errored = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ledgerd",
	Subsystem: "query",
	Name:      "errored_total",
	Help:      "Queries that failed, by variant and error code.",
}, []string{"variant", "code"})
