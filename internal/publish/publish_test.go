package publish

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/machinekit/mkwrapper-go/internal/differ"
	"github.com/machinekit/mkwrapper-go/internal/runtime"
	"github.com/machinekit/mkwrapper-go/internal/status"
	"github.com/machinekit/mkwrapper-go/internal/subscribe"
	"github.com/machinekit/mkwrapper-go/internal/wire"
)

// recordingSender is a Sender fake that records every [topic, payload] pair
// sent to it, so tests can assert on publish decisions without a live
// socket.
type recordingSender struct {
	sent [][]interface{}
}

func (r *recordingSender) SendMessage(parts ...interface{}) (int, error) {
	r.sent = append(r.sent, parts)
	return 0, nil
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestPublishChannelNoSubscribersNeverSends(t *testing.T) {
	sender := &recordingSender{}
	tracker := subscribe.New()
	d := differ.New(status.StaticConfig{})
	pub := NewStatusPublisher(sender, tracker, testLogger())

	err := pub.PublishChannel(status.ChannelIO, d, status.Snapshot{IO: status.IO{Estop: true}})
	require.NoError(t, err)
	assert.Empty(t, sender.sent)
}

func TestPublishChannelFirstSubscribeSendsFullUpdate(t *testing.T) {
	sender := &recordingSender{}
	tracker := subscribe.New()
	d := differ.New(status.StaticConfig{})
	pub := NewStatusPublisher(sender, tracker, testLogger())

	tracker.Handle(subscribe.Event{Subscribe: true, Topic: string(status.ChannelIO)})

	err := pub.PublishChannel(status.ChannelIO, d, status.Snapshot{IO: status.IO{Estop: true}})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	topic := sender.sent[0][0].(string)
	payload := sender.sent[0][1].([]byte)
	assert.Equal(t, string(status.ChannelIO), topic)

	env, err := wire.Unmarshal(payload)
	require.NoError(t, err)
	assert.Equal(t, wire.MTStatFullUpdate, env.Type)
	require.NotNil(t, env.PParams)
}

func TestPublishChannelUnchangedAfterFullUpdateSendsNothing(t *testing.T) {
	sender := &recordingSender{}
	tracker := subscribe.New()
	d := differ.New(status.StaticConfig{})
	pub := NewStatusPublisher(sender, tracker, testLogger())

	tracker.Handle(subscribe.Event{Subscribe: true, Topic: string(status.ChannelIO)})
	require.NoError(t, pub.PublishChannel(status.ChannelIO, d, status.Snapshot{IO: status.IO{Estop: true}}))
	sender.sent = nil

	// Same snapshot again: no incremental update should be emitted.
	require.NoError(t, pub.PublishChannel(status.ChannelIO, d, status.Snapshot{IO: status.IO{Estop: true}}))
	assert.Empty(t, sender.sent)
}

func TestPublishChannelSendsIncrementalOnChange(t *testing.T) {
	sender := &recordingSender{}
	tracker := subscribe.New()
	d := differ.New(status.StaticConfig{})
	pub := NewStatusPublisher(sender, tracker, testLogger())

	tracker.Handle(subscribe.Event{Subscribe: true, Topic: string(status.ChannelIO)})
	require.NoError(t, pub.PublishChannel(status.ChannelIO, d, status.Snapshot{IO: status.IO{Estop: true}}))
	sender.sent = nil

	require.NoError(t, pub.PublishChannel(status.ChannelIO, d, status.Snapshot{IO: status.IO{Estop: false}}))
	require.Len(t, sender.sent, 1)
	payload := sender.sent[0][1].([]byte)
	env, err := wire.Unmarshal(payload)
	require.NoError(t, err)
	assert.Equal(t, wire.MTStatIncrementalUpdate, env.Type)
}

func TestErrorPublisherNoSubscribersNeverSends(t *testing.T) {
	sender := &recordingSender{}
	tracker := subscribe.New()
	pub := NewErrorPublisher(sender, tracker, testLogger())

	err := pub.PublishError(runtime.ErrorEvent{Kind: runtime.NMLError, Text: "fault"}, false)
	require.NoError(t, err)
	assert.Empty(t, sender.sent)
}

func TestErrorPublisherSendsOnSubscribedTopic(t *testing.T) {
	sender := &recordingSender{}
	tracker := subscribe.New()
	pub := NewErrorPublisher(sender, tracker, testLogger())

	tracker.Handle(subscribe.Event{Subscribe: true, Topic: string(status.TopicError)})
	err := pub.PublishError(runtime.ErrorEvent{Kind: runtime.NMLError, Text: "fault"}, false)
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	payload := sender.sent[0][1].([]byte)
	env, err := wire.Unmarshal(payload)
	require.NoError(t, err)
	assert.Equal(t, wire.MTErrorNML, env.Type)
	assert.Equal(t, []string{"fault"}, env.Note)
	assert.Nil(t, env.PParams)
}
