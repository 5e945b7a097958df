// Package messagehandler shields the gossip pipeline from panicking
// handlers. A malformed message must never take the node down.
package messagehandler

import (
	"context"
	"runtime/debug"

	pubsub "github.com/libp2p/go-libp2p-pubsub"
	"github.com/sirupsen/logrus"
)

const noMsgData = "message contains no data"

var log = logrus.WithField("prefix", "message-handler")

// SafelyHandleMessage runs fn on msg, recovering and logging any panic.
func SafelyHandleMessage(ctx context.Context, fn func(ctx context.Context, message *pubsub.Message) error, msg *pubsub.Message) {
	defer HandlePanic(ctx, msg)

	if err := fn(ctx, msg); err != nil {
		log.WithError(err).Debug("Failed to process message")
	}
}

// HandlePanic recovers a panic raised while handling msg and logs the
// offending message. It must be called via defer.
func HandlePanic(_ context.Context, msg *pubsub.Message) {
	r := recover()
	if r == nil {
		return
	}
	described := noMsgData
	if msg != nil {
		described = msg.String()
	}
	log.WithFields(logrus.Fields{
		"r":   r,
		"msg": described,
	}).Error("Panicked when handling p2p message! Recovering...")
	debug.PrintStack()
}
