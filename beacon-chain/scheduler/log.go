package scheduler

import (
	"github.com/ralexstokes/nimbus-eth2/consensus-types/primitives"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "scheduler")

func logFields(lastSlot, wallSlot primitives.Slot) logrus.Fields {
	return logrus.Fields{
		"lastSlot": lastSlot,
		"wallSlot": wallSlot,
	}
}
