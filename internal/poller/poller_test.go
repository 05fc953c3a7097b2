package poller

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/machinekit/mkwrapper-go/internal/differ"
	"github.com/machinekit/mkwrapper-go/internal/publish"
	"github.com/machinekit/mkwrapper-go/internal/runtime"
	"github.com/machinekit/mkwrapper-go/internal/status"
	"github.com/machinekit/mkwrapper-go/internal/subscribe"
	"github.com/machinekit/mkwrapper-go/internal/wire"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type countingSender struct {
	pings int
	last  []interface{}
}

func (c *countingSender) SendMessage(parts ...interface{}) (int, error) {
	c.pings++
	c.last = parts
	return 0, nil
}

func newTestPoller(t *testing.T, pollInterval, pingInterval time.Duration) (*Poller, *subscribe.Tracker, *countingSender, *countingSender, *runtime.Simulator) {
	t.Helper()
	tracker := subscribe.New()
	d := differ.New(status.StaticConfig{})
	statusSender := &countingSender{}
	errorSender := &countingSender{}
	statusPub := publish.NewStatusPublisher(statusSender, tracker, testLogger())
	errorPub := publish.NewErrorPublisher(errorSender, tracker, testLogger())
	sim := runtime.NewSimulator(testLogger())
	p := New(sim, tracker, d, statusPub, errorPub, pollInterval, pingInterval, testLogger())
	return p, tracker, statusSender, errorSender, sim
}

func TestPingDisabledWhenIntervalNonPositive(t *testing.T) {
	p, tracker, statusSender, _, _ := newTestPoller(t, 100*time.Millisecond, 0)
	tracker.Handle(subscribe.Event{Subscribe: true, Topic: string(status.ChannelIO)})
	statusSender.pings = 0 // the subscribe above triggers a full update on next tick, not a ping

	for i := 0; i < 5; i++ {
		p.tick(context.Background())
	}
	assert.Equal(t, -1, p.pingRatio)
}

func TestPingFiresEveryRatioTicks(t *testing.T) {
	p, tracker, statusSender, _, _ := newTestPoller(t, 100*time.Millisecond, 300*time.Millisecond)
	require.Equal(t, 3, p.pingRatio)

	tracker.Handle(subscribe.Event{Subscribe: true, Topic: string(status.ChannelIO)})
	// Consume the full-update send from the subscribe itself.
	p.tick(context.Background())
	statusSender.pings = 0

	p.tick(context.Background())
	p.tick(context.Background())
	assert.Equal(t, 0, statusSender.pings, "ping must not fire before pingRatio ticks have elapsed")

	p.tick(context.Background())
	assert.Equal(t, 1, statusSender.pings, "ping must fire on the tick after pingRatio ticks have elapsed")
}

func TestErrorEventNeverCarriesPParamsOutsideOfPing(t *testing.T) {
	p, tracker, _, errorSender, sim := newTestPoller(t, 100*time.Millisecond, -1)
	tracker.Handle(subscribe.Event{Subscribe: true, Topic: string(status.TopicError)})
	sim.PushError(runtime.ErrorEvent{Kind: runtime.NMLError, Text: "servo fault"})

	p.tick(context.Background())
	assert.Equal(t, 1, errorSender.pings, "the discrete error event itself must still be sent")
	require.Len(t, errorSender.last, 2)
	env, err := wire.Unmarshal(errorSender.last[1].([]byte))
	require.NoError(t, err)
	assert.Equal(t, wire.MTErrorNML, env.Type)
	assert.Nil(t, env.PParams, "a discrete error event must not carry protocol-parameters")
}
