// Package subscribe implements the subscription tracker (spec.md §4.B): it
// turns a transport's raw subscribe/unsubscribe notification frames into
// per-topic counters and full-update flags, consumed once per control-loop
// cycle by the poller.
package subscribe

import (
	"sync"

	"github.com/machinekit/mkwrapper-go/internal/status"
)

// Event is one subscribe/unsubscribe notification frame, as delivered by an
// XPUB-style socket: the first byte is 1 for subscribe, 0 for unsubscribe,
// and the remainder is the UTF-8 topic name.
type Event struct {
	Subscribe bool
	Topic     string
}

// ParseEvent decodes a raw XPUB subscription frame per spec.md §4.B.
func ParseEvent(frame []byte) (Event, bool) {
	if len(frame) == 0 {
		return Event{}, false
	}
	return Event{Subscribe: frame[0] == 0x01, Topic: string(frame[1:])}, true
}

// allTopics is every topic the tracker recognizes, status and error side.
func allTopics() []string {
	topics := make([]string, 0, len(status.Channels)+len(status.ErrorTopics))
	for _, ch := range status.Channels {
		topics = append(topics, string(ch))
	}
	for _, t := range status.ErrorTopics {
		topics = append(topics, string(t))
	}
	return topics
}

// Tracker is the single owner of every subscriber counter and full-update
// flag. It is written by the socket-poll context (consuming subscribe/
// unsubscribe notifications) and read by the control-loop context
// (spec.md §5); a mutex guards every field.
type Tracker struct {
	mu                     sync.Mutex
	counters               map[string]int
	fullUpdate             map[status.Channel]bool
	newErrorSubscription   bool
}

// New returns a Tracker with every recognized topic's counter at zero.
func New() *Tracker {
	t := &Tracker{
		counters:   make(map[string]int),
		fullUpdate: make(map[status.Channel]bool, len(status.Channels)),
	}
	for _, topic := range allTopics() {
		t.counters[topic] = 0
	}
	return t
}

// isErrorTopic reports whether topic is one of the three error-side topics.
func isErrorTopic(topic string) bool {
	for _, t := range status.ErrorTopics {
		if string(t) == topic {
			return true
		}
	}
	return false
}

func isStatusChannel(topic string) (status.Channel, bool) {
	for _, ch := range status.Channels {
		if string(ch) == topic {
			return ch, true
		}
	}
	return "", false
}

// Handle applies one subscribe/unsubscribe event. Unknown topics are
// ignored — no counter is created and no flag is armed. Any subscribe event
// on a status channel arms that channel's full-update flag, even if the
// counter was already positive (spec.md §4.B: "it is acceptable to re-arm
// on every subscribe"). Any subscribe event on an error-side topic sets
// newErrorSubscription.
func (t *Tracker) Handle(ev Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, known := t.counters[ev.Topic]; !known {
		return
	}

	if ev.Subscribe {
		t.counters[ev.Topic]++
	} else {
		t.counters[ev.Topic]--
		if t.counters[ev.Topic] < 0 {
			t.counters[ev.Topic] = 0
		}
	}

	if ch, ok := isStatusChannel(ev.Topic); ok {
		if ev.Subscribe {
			t.fullUpdate[ch] = true
		}
	} else if isErrorTopic(ev.Topic) && ev.Subscribe {
		t.newErrorSubscription = true
	}
}

// Count returns the current subscriber count for a topic (0 for unknown topics).
func (t *Tracker) Count(topic string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counters[topic]
}

// TotalStatusSubs is the sum of the five status-channel counters.
func (t *Tracker) TotalStatusSubs() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	total := 0
	for _, ch := range status.Channels {
		total += t.counters[string(ch)]
	}
	return total
}

// TotalErrorSubs is the sum of the three error-side topic counters.
func (t *Tracker) TotalErrorSubs() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	total := 0
	for _, topic := range status.ErrorTopics {
		total += t.counters[string(topic)]
	}
	return total
}

// ConsumeFullUpdate reports and clears channel's full-update flag.
func (t *Tracker) ConsumeFullUpdate(ch status.Channel) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	v := t.fullUpdate[ch]
	t.fullUpdate[ch] = false
	return v
}

// ConsumeNewErrorSubscription reports and clears the new-error-subscription flag.
func (t *Tracker) ConsumeNewErrorSubscription() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	v := t.newErrorSubscription
	t.newErrorSubscription = false
	return v
}
