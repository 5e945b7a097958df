package sync

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ticksDelay reports how far the one-second ancestor-fetch loop lagged
	// behind wall clock on its last wakeup. Sustained growth means the
	// event loop is starved.
	ticksDelay = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ticks_delay",
		Help: "How much the second-ticker lagged behind wall clock, in seconds",
	})
	subscribedTopicsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gossip_subscribed_topics",
		Help: "Number of gossip topics the node is currently subscribed to",
	})
	gossipGateEnabledGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gossip_gate_enabled",
		Help: "Whether gossip topic subscriptions are currently enabled (1) or shed for sync catch-up (0)",
	})
	ancestorFetchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quarantine_ancestor_fetches_total",
		Help: "Number of ancestor fetch batches dispatched to the request manager",
	})
	messageFailedValidationTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gossip_message_failed_validation_total",
		Help: "Number of gossip messages that failed validation",
	})
	messagesReceivedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gossip_messages_received_total",
		Help: "Number of gossip messages delivered to the node, per topic",
	}, []string{"topic"})
)
