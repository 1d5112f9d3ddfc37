package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "synth"

var (
	// StalePriceRejections oracle reads rejected as stale, by feed
	StalePriceRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stale_price_rejections_total",
		Help:      "Oracle reads rejected because the answer is older than the timeout.",
	}, []string{"feed"})

	// Operations committed or rejected engine operations
	Operations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_total",
		Help:      "Engine operations by action and outcome.",
	}, []string{"action", "outcome"})

	// AccountsAtRisk accounts below the minimum health factor at the last scan
	AccountsAtRisk = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "accounts_at_risk",
		Help:      "Accounts below the minimum health factor at the last monitor scan.",
	})

	// Debtors accounts with outstanding debt at the last scan
	Debtors = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "debtors",
		Help:      "Accounts with outstanding debt at the last monitor scan.",
	})

	// MonitorScans monitor scans by outcome, ok, stale or error
	MonitorScans = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "monitor_scans_total",
		Help:      "Monitor scans by outcome.",
	}, []string{"outcome"})
)
