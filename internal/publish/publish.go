// Package publish implements the status and error publishers (spec.md
// §4.C, §4.D): given a differ/tracker pair, serialize the right envelope
// and send it as a two-frame [topic, payload] message on an XPUB-style
// socket, never publishing to a topic with zero subscribers.
package publish

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/machinekit/mkwrapper-go/internal/config"
	"github.com/machinekit/mkwrapper-go/internal/differ"
	"github.com/machinekit/mkwrapper-go/internal/runtime"
	"github.com/machinekit/mkwrapper-go/internal/status"
	"github.com/machinekit/mkwrapper-go/internal/subscribe"
	"github.com/machinekit/mkwrapper-go/internal/wire"
)

// Sender is the subset of *zmq4.Socket the publishers need; it lets tests
// substitute a recording fake instead of a live XPUB socket.
type Sender interface {
	SendMessage(parts ...interface{}) (int, error)
}

// StatusPublisher owns the status socket. It is driven exclusively by the
// control-loop context (spec.md §5, context 2).
type StatusPublisher struct {
	sock    Sender
	tracker *subscribe.Tracker
	logger  *logrus.Logger
}

// NewStatusPublisher returns a StatusPublisher writing to sock.
func NewStatusPublisher(sock Sender, tracker *subscribe.Tracker, logger *logrus.Logger) *StatusPublisher {
	return &StatusPublisher{sock: sock, tracker: tracker, logger: logger}
}

// PublishChannel diffs channel ch against d's baseline and sends a
// FULL_UPDATE (if the channel's full-update flag is armed) or an
// INCREMENTAL_UPDATE (if modified), per spec.md §4.A's "full vs.
// incremental policy". It does nothing when ch has no subscribers.
func (p *StatusPublisher) PublishChannel(ch status.Channel, d *differ.Differ, fresh status.Snapshot) error {
	if p.tracker.Count(string(ch)) == 0 {
		return nil
	}

	var delta status.Snapshot
	modified := false
	switch ch {
	case status.ChannelIO:
		delta.IO, modified = d.DiffIO(fresh.IO)
	case status.ChannelTask:
		delta.Task, modified = d.DiffTask(fresh.Task)
	case status.ChannelInterp:
		delta.Interp, modified = d.DiffInterp(fresh.Interp)
	case status.ChannelMotion:
		delta.Motion, modified = d.DiffMotion(fresh.Motion)
	case status.ChannelConfig:
		delta.Config, modified = d.DiffConfig(fresh.Config)
	default:
		return fmt.Errorf("publish: unknown channel %q", ch)
	}

	if p.tracker.ConsumeFullUpdate(ch) {
		baseline := d.Baseline()
		env := wire.Envelope{
			Type:    wire.MTStatFullUpdate,
			PParams: &wire.ProtocolParams{KeepaliveTimerMs: config.KeepaliveTimerMs},
		}
		setChannelPayload(&env, ch, baseline)
		return p.send(string(ch), env)
	}
	if !modified {
		return nil
	}

	env := wire.Envelope{Type: wire.MTStatIncrementalUpdate}
	setChannelPayload(&env, ch, delta)
	return p.send(string(ch), env)
}

func setChannelPayload(env *wire.Envelope, ch status.Channel, snap status.Snapshot) {
	switch ch {
	case status.ChannelIO:
		env.StatusIO = &snap.IO
	case status.ChannelTask:
		env.StatusTask = &snap.Task
	case status.ChannelInterp:
		env.StatusInterp = &snap.Interp
	case status.ChannelMotion:
		env.StatusMotion = &snap.Motion
	case status.ChannelConfig:
		env.StatusConfig = &snap.Config
	}
}

// Ping emits a bare PING envelope on every status topic with at least one
// subscriber, per the control-loop's ping cadence (spec.md §4.F).
func (p *StatusPublisher) Ping() error {
	for _, ch := range status.Channels {
		if p.tracker.Count(string(ch)) == 0 {
			continue
		}
		if err := p.send(string(ch), wire.Envelope{Type: wire.MTPing}); err != nil {
			return err
		}
	}
	return nil
}

func (p *StatusPublisher) send(topic string, env wire.Envelope) error {
	payload, err := wire.Marshal(env)
	if err != nil {
		return fmt.Errorf("publish: marshal %s envelope: %w", topic, err)
	}
	if _, err := p.sock.SendMessage(topic, payload); err != nil {
		return fmt.Errorf("publish: send on %s: %w", topic, err)
	}
	p.logger.WithFields(logrus.Fields{"topic": topic, "type": env.Type}).Debug("publish: sent status message")
	return nil
}

// ErrorPublisher owns the error socket.
type ErrorPublisher struct {
	sock    Sender
	tracker *subscribe.Tracker
	logger  *logrus.Logger
}

// NewErrorPublisher returns an ErrorPublisher writing to sock.
func NewErrorPublisher(sock Sender, tracker *subscribe.Tracker, logger *logrus.Logger) *ErrorPublisher {
	return &ErrorPublisher{sock: sock, tracker: tracker, logger: logger}
}

var errorKindTopic = map[runtime.ErrorKind]status.ErrorTopic{
	runtime.NMLError:      status.TopicError,
	runtime.OperatorError:  status.TopicError,
	runtime.NMLText:        status.TopicText,
	runtime.OperatorText:   status.TopicText,
	runtime.NMLDisplay:     status.TopicDisplay,
	runtime.OperatorDisplay: status.TopicDisplay,
}

var errorKindType = map[runtime.ErrorKind]wire.MessageType{
	runtime.NMLError:       wire.MTErrorNML,
	runtime.OperatorError:  wire.MTErrorOperator,
	runtime.NMLText:        wire.MTTextNML,
	runtime.OperatorText:   wire.MTTextOperator,
	runtime.NMLDisplay:     wire.MTDisplayNML,
	runtime.OperatorDisplay: wire.MTDisplayOperator,
}

// PublishError maps ev to its topic (spec.md §4.D) and sends one envelope
// with note[0] = ev.Text, only when that topic has at least one
// subscriber. withPParams attaches protocol-parameters; the poller always
// passes false here and attaches them only to the first error-side ping
// after a new error subscription (see Ping).
func (e *ErrorPublisher) PublishError(ev runtime.ErrorEvent, withPParams bool) error {
	topic, ok := errorKindTopic[ev.Kind]
	if !ok {
		return fmt.Errorf("publish: unknown error kind %d", ev.Kind)
	}
	if e.tracker.Count(string(topic)) == 0 {
		return nil
	}

	env := wire.Envelope{Type: errorKindType[ev.Kind], Note: []string{ev.Text}}
	if withPParams {
		env.PParams = &wire.ProtocolParams{KeepaliveTimerMs: config.KeepaliveTimerMs}
	}
	return e.send(string(topic), env)
}

// Ping emits a bare PING envelope on every error topic with at least one
// subscriber. The first such ping after a new error-side subscription
// additionally carries protocol-parameters (spec.md §4.F).
func (e *ErrorPublisher) Ping(withPParams bool) error {
	for _, topic := range status.ErrorTopics {
		if e.tracker.Count(string(topic)) == 0 {
			continue
		}
		env := wire.Envelope{Type: wire.MTPing}
		if withPParams {
			env.PParams = &wire.ProtocolParams{KeepaliveTimerMs: config.KeepaliveTimerMs}
		}
		if err := e.send(string(topic), env); err != nil {
			return err
		}
	}
	return nil
}

func (e *ErrorPublisher) send(topic string, env wire.Envelope) error {
	payload, err := wire.Marshal(env)
	if err != nil {
		return fmt.Errorf("publish: marshal %s envelope: %w", topic, err)
	}
	if _, err := e.sock.SendMessage(topic, payload); err != nil {
		return fmt.Errorf("publish: send on %s: %w", topic, err)
	}
	e.logger.WithFields(logrus.Fields{"topic": topic, "type": env.Type}).Debug("publish: sent error message")
	return nil
}
