package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// transitionsTotal counts applied workflow transitions.
	transitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "design_transitions_total",
			Help: "Applied design workflow transitions.",
		},
		[]string{"trigger", "from", "to"},
	)

	// transitionFailures counts refused or failed transitions by error kind.
	transitionFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "design_transition_failures_total",
			Help: "Design workflow operations that failed, by kind.",
		},
		[]string{"kind"},
	)

	ordersCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "design_orders_created_total",
			Help: "Orders created from design requests.",
		},
	)

	// statusSyncFailures counts orders that were created but whose design
	// could not be marked completed. Each one needs reconciliation.
	statusSyncFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "design_order_status_sync_failures_total",
			Help: "Orders created whose design status update failed.",
		},
	)
)

func init() {
	prometheus.MustRegister(transitionsTotal, transitionFailures, ordersCreated, statusSyncFailures)
}
