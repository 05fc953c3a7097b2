package subscribe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/machinekit/mkwrapper-go/internal/status"
)

func TestParseEvent(t *testing.T) {
	ev, ok := ParseEvent([]byte{0x01, 'i', 'o'})
	require.True(t, ok)
	assert.True(t, ev.Subscribe)
	assert.Equal(t, "io", ev.Topic)

	ev, ok = ParseEvent([]byte{0x00, 'i', 'o'})
	require.True(t, ok)
	assert.False(t, ev.Subscribe)

	_, ok = ParseEvent(nil)
	assert.False(t, ok)
}

func TestTrackerUnknownTopicIgnored(t *testing.T) {
	tr := New()
	tr.Handle(Event{Subscribe: true, Topic: "bogus"})
	assert.Equal(t, 0, tr.Count("bogus"))
	assert.Equal(t, 0, tr.TotalStatusSubs())
}

func TestTrackerCountAndFullUpdateArm(t *testing.T) {
	tr := New()
	tr.Handle(Event{Subscribe: true, Topic: string(status.ChannelIO)})
	assert.Equal(t, 1, tr.Count(string(status.ChannelIO)))
	assert.True(t, tr.ConsumeFullUpdate(status.ChannelIO))
	// Consuming clears the flag.
	assert.False(t, tr.ConsumeFullUpdate(status.ChannelIO))
}

func TestTrackerReArmsOnDoubleSubscribe(t *testing.T) {
	tr := New()
	tr.Handle(Event{Subscribe: true, Topic: string(status.ChannelIO)})
	assert.True(t, tr.ConsumeFullUpdate(status.ChannelIO))

	// A second subscribe (new subscriber while one already existed) must
	// re-arm the full-update flag even though the counter was already > 0.
	tr.Handle(Event{Subscribe: true, Topic: string(status.ChannelIO)})
	assert.Equal(t, 2, tr.Count(string(status.ChannelIO)))
	assert.True(t, tr.ConsumeFullUpdate(status.ChannelIO))
}

func TestTrackerUnsubscribeNeverGoesNegative(t *testing.T) {
	tr := New()
	tr.Handle(Event{Subscribe: false, Topic: string(status.ChannelIO)})
	assert.Equal(t, 0, tr.Count(string(status.ChannelIO)))
}

func TestTrackerErrorSubscriptionFlag(t *testing.T) {
	tr := New()
	assert.False(t, tr.ConsumeNewErrorSubscription())

	tr.Handle(Event{Subscribe: true, Topic: string(status.TopicError)})
	assert.Equal(t, 1, tr.TotalErrorSubs())
	assert.True(t, tr.ConsumeNewErrorSubscription())
	assert.False(t, tr.ConsumeNewErrorSubscription())
}
