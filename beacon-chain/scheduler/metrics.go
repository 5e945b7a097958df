package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	currentSlotGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "beacon_current_slot",
		Help: "Wall-clock slot observed by the slot scheduler",
	})
	finalizationDelayGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "finalization_delay_epochs",
		Help: "Epochs between the scheduled slot's epoch and the latest finalized epoch",
	})
)
