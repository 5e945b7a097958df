// Package fdlimits raises the process file descriptor ceiling. The databases
// and the p2p host together keep many descriptors open, so the node asks for
// the hard limit at startup.
package fdlimits

import (
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "fdlimits")

// SetMaxFdLimits raises the soft file descriptor limit to the hard limit.
func SetMaxFdLimits() error {
	current, err := fdlimit.Current()
	if err != nil {
		return err
	}
	hardLimit, err := fdlimit.Maximum()
	if err != nil {
		return err
	}
	raised, err := fdlimit.Raise(uint64(hardLimit))
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"previous": current, "current": raised}).Debug("Raised file descriptor limit")
	return nil
}
