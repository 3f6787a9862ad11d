// Package metrics holds the Prometheus instrumentation for the backend.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LinksTotal counts allocation rebalances, partitioned by source kind
	// and outcome.
	LinksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wedplan",
		Name:      "allocation_links_total",
		Help:      "Number of allocation link and unlink operations.",
	}, []string{"source", "outcome"})

	// BatchSourcesTotal counts the sources processed in batch link
	// operations, partitioned by outcome.
	BatchSourcesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wedplan",
		Name:      "allocation_batch_sources_total",
		Help:      "Number of sources processed by batch link operations.",
	}, []string{"outcome"})

	// ImportedExpensesTotal counts expenses created through the importer.
	ImportedExpensesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wedplan",
		Name:      "imported_expenses_total",
		Help:      "Number of expenses created by the CSV importer.",
	})
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"

	SourceExpense = "expense"
	SourceGift    = "gift"
)
