package tx_handler

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	selectorGreedy = "greedy"
	selectorMaxFee = "maxfee"
)

// Metrics counts what the handler accepts and rejects. A nil *Metrics records nothing.
type Metrics struct {
	accepted    *prometheus.CounterVec
	rejected    *prometheus.CounterVec
	fees        *prometheus.CounterVec
	searchNodes prometheus.Counter
}

// NewMetrics creates the handler metrics and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		accepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scrooge",
			Subsystem: "tx_handler",
			Name:      "accepted_transactions_total",
			Help:      "Transactions accepted into an epoch, by selector.",
		}, []string{"selector"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scrooge",
			Subsystem: "tx_handler",
			Name:      "rejected_transactions_total",
			Help:      "Transactions left out of an epoch, by selector.",
		}, []string{"selector"}),
		fees: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scrooge",
			Subsystem: "tx_handler",
			Name:      "collected_fees_total",
			Help:      "Fees collected from accepted transactions, by selector.",
		}, []string{"selector"}),
		searchNodes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "scrooge",
			Subsystem: "tx_handler",
			Name:      "max_fee_search_nodes_total",
			Help:      "Decision nodes visited by the max-fee search.",
		}),
	}
	reg.MustRegister(m.accepted, m.rejected, m.fees, m.searchNodes)
	return m
}

func (m *Metrics) observeEpoch(selector string, accepted, rejected int, fee float64) {
	if m == nil {
		return
	}
	m.accepted.WithLabelValues(selector).Add(float64(accepted))
	m.rejected.WithLabelValues(selector).Add(float64(rejected))
	m.fees.WithLabelValues(selector).Add(fee)
}

func (m *Metrics) observeSearchNode() {
	if m == nil {
		return
	}
	m.searchNodes.Inc()
}
