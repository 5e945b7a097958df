package sync

import (
	"context"
	"fmt"

	pubsub "github.com/libp2p/go-libp2p-pubsub"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/pkg/errors"
	"github.com/ralexstokes/nimbus-eth2/beacon-chain/p2p"
	"github.com/ralexstokes/nimbus-eth2/runtime/messagehandler"
)

// rawGossipMessage captures the uncompressed wire bytes of a gossip payload
// so the processor can decode the concrete SSZ type itself.
type rawGossipMessage struct {
	b []byte
}

func (m *rawGossipMessage) UnmarshalSSZ(buf []byte) error {
	m.b = append([]byte{}, buf...)
	return nil
}

func (s *Service) blockTopic() string {
	return fmt.Sprintf(p2p.BlockSubnetTopicFormat, s.digest) + s.cfg.p2p.Encoding().ProtocolSuffix()
}

func (s *Service) aggregateTopic() string {
	return fmt.Sprintf(p2p.AggregateAndProofSubnetTopicFormat, s.digest) + s.cfg.p2p.Encoding().ProtocolSuffix()
}

func (s *Service) exitTopic() string {
	return fmt.Sprintf(p2p.ExitSubnetTopicFormat, s.digest) + s.cfg.p2p.Encoding().ProtocolSuffix()
}

func (s *Service) proposerSlashingTopic() string {
	return fmt.Sprintf(p2p.ProposerSlashingSubnetTopicFormat, s.digest) + s.cfg.p2p.Encoding().ProtocolSuffix()
}

func (s *Service) attesterSlashingTopic() string {
	return fmt.Sprintf(p2p.AttesterSlashingSubnetTopicFormat, s.digest) + s.cfg.p2p.Encoding().ProtocolSuffix()
}

func (s *Service) attSubnetTopic(subnet uint64) string {
	return fmt.Sprintf(p2p.AttestationSubnetTopicFormat, s.digest, subnet) + s.cfg.p2p.Encoding().ProtocolSuffix()
}

// globalTopics are the non-subnet topics toggled together by the gossip
// gate.
func (s *Service) globalTopics() []string {
	return []string{
		s.blockTopic(),
		s.aggregateTopic(),
		s.exitTopic(),
		s.proposerSlashingTopic(),
		s.attesterSlashingTopic(),
	}
}

// registerValidators installs the per-topic validator callbacks exactly
// once. They persist across gate enable/disable cycles; the gate only
// toggles subscriptions.
func (s *Service) registerValidators() {
	register := func(topic string, v pubsub.ValidatorEx) {
		if err := s.cfg.p2p.PubSub().RegisterTopicValidator(topic, v); err != nil {
			log.WithError(err).WithField("topic", topic).Error("Could not register topic validator")
		}
	}
	register(s.blockTopic(), s.validatorFor(s.cfg.processor.OnBlock))
	register(s.aggregateTopic(), s.validatorFor(s.cfg.processor.OnAggregateAndProof))
	register(s.exitTopic(), s.validatorFor(s.cfg.processor.OnVoluntaryExit))
	register(s.proposerSlashingTopic(), s.validatorFor(s.cfg.processor.OnProposerSlashing))
	register(s.attesterSlashingTopic(), s.validatorFor(s.cfg.processor.OnAttesterSlashing))
	for i := uint64(0); i < s.attestationSubnetCount(); i++ {
		subnet := i
		register(s.attSubnetTopic(subnet), s.validatorFor(func(ctx context.Context, payload []byte) error {
			return s.cfg.processor.OnAttestation(ctx, subnet, payload)
		}))
	}
}

// validatorFor adapts a processor callback to a pubsub validator. The
// processor's verdict maps to the gossip substrate's accept/ignore/reject
// trichotomy; a panicking processor ignores the message instead of taking
// the node down.
func (s *Service) validatorFor(handle func(context.Context, []byte) error) pubsub.ValidatorEx {
	return func(ctx context.Context, _ peer.ID, msg *pubsub.Message) (res pubsub.ValidationResult) {
		res = pubsub.ValidationIgnore
		defer messagehandler.HandlePanic(ctx, msg)

		payload := new(rawGossipMessage)
		if err := s.cfg.p2p.Encoding().DecodeGossip(msg.Data, payload); err != nil {
			messageFailedValidationTotal.Inc()
			log.WithError(err).Debug("Could not decode gossip message")
			return pubsub.ValidationReject
		}
		switch err := handle(ctx, payload.b); {
		case err == nil:
			return pubsub.ValidationAccept
		case errors.Is(err, ErrIgnore):
			return pubsub.ValidationIgnore
		default:
			messageFailedValidationTotal.Inc()
			log.WithError(err).Debug("Gossip message failed validation")
			return pubsub.ValidationReject
		}
	}
}

// subscribe joins the topic and drains its message channel. Already-held
// subscriptions are kept as-is.
func (s *Service) subscribe(topic string) error {
	s.subLock.Lock()
	defer s.subLock.Unlock()
	if _, ok := s.subscriptions[topic]; ok {
		return nil
	}
	sub, err := s.cfg.p2p.SubscribeToTopic(topic)
	if err != nil {
		return errors.Wrapf(err, "could not subscribe to topic %s", topic)
	}
	s.subscriptions[topic] = sub
	subscribedTopicsGauge.Set(float64(len(s.subscriptions)))
	go s.messageLoop(sub)
	return nil
}

// unsubscribe cancels the subscription and leaves the topic. Unknown topics
// are a no-op.
func (s *Service) unsubscribe(topic string) error {
	s.subLock.Lock()
	defer s.subLock.Unlock()
	sub, ok := s.subscriptions[topic]
	if !ok {
		return nil
	}
	sub.Cancel()
	delete(s.subscriptions, topic)
	subscribedTopicsGauge.Set(float64(len(s.subscriptions)))
	return s.cfg.p2p.LeaveTopic(topic)
}

// subscribedTo reports whether a live subscription exists for the topic.
func (s *Service) subscribedTo(topic string) bool {
	s.subLock.Lock()
	defer s.subLock.Unlock()
	_, ok := s.subscriptions[topic]
	return ok
}

// messageLoop drains a subscription. Validation and routing to the
// processor already happened in the validator; the loop only accounts for
// delivered messages.
func (s *Service) messageLoop(sub *pubsub.Subscription) {
	for {
		msg, err := sub.Next(s.ctx)
		if err != nil {
			return
		}
		if msg.ReceivedFrom == s.cfg.p2p.PeerID() {
			continue
		}
		messagehandler.SafelyHandleMessage(s.ctx, s.recordReceived, msg)
	}
}

func (_ *Service) recordReceived(_ context.Context, msg *pubsub.Message) error {
	messagesReceivedTotal.WithLabelValues(*msg.Topic).Inc()
	return nil
}
