package scrooge

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	height     prometheus.Gauge
	ledgerSize prometheus.Gauge
	pending    prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		height: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "scrooge",
			Name:      "epoch_height",
			Help:      "Number of epochs committed.",
		}),
		ledgerSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "scrooge",
			Name:      "ledger_utxos",
			Help:      "Unspent outputs in the master ledger.",
		}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "scrooge",
			Name:      "pending_transactions",
			Help:      "Transactions proposed for the current epoch.",
		}),
	}
	reg.MustRegister(m.height, m.ledgerSize, m.pending)
	return m
}
