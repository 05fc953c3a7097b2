// Package poller implements the control-loop poller (spec.md §4.F,
// concurrency context 2): at a configured cycle interval it polls the
// runtime, drives the five channel diffs and the status publisher, drains
// the runtime's error channel into the error publisher, and maintains
// ping cadence.
package poller

import (
	"context"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/machinekit/mkwrapper-go/internal/differ"
	"github.com/machinekit/mkwrapper-go/internal/publish"
	"github.com/machinekit/mkwrapper-go/internal/runtime"
	"github.com/machinekit/mkwrapper-go/internal/status"
	"github.com/machinekit/mkwrapper-go/internal/subscribe"
)

// Poller is the ticking loop described by spec.md §4.F. It is the sole
// owner of the Differ and the ping counter; the Tracker it reads is
// shared with the socket-poll context under the tracker's own mutex.
type Poller struct {
	stat    runtime.StatPoller
	tracker *subscribe.Tracker
	differ  *differ.Differ
	status  *publish.StatusPublisher
	errs    *publish.ErrorPublisher
	logger  *logrus.Logger

	pollInterval time.Duration
	pingRatio    int
	pingCount    int
}

// New returns a Poller. pingInterval <= 0 disables pings entirely
// (pingRatio = -1), per spec.md's explicit "ping suppression" requirement.
func New(
	stat runtime.StatPoller,
	tracker *subscribe.Tracker,
	d *differ.Differ,
	statusPub *publish.StatusPublisher,
	errorPub *publish.ErrorPublisher,
	pollInterval, pingInterval time.Duration,
	logger *logrus.Logger,
) *Poller {
	ratio := -1
	if pingInterval > 0 {
		ratio = int(math.Floor(float64(pingInterval) / float64(pollInterval)))
	}
	return &Poller{
		stat:         stat,
		tracker:      tracker,
		differ:       d,
		status:       statusPub,
		errs:         errorPub,
		logger:       logger,
		pollInterval: pollInterval,
		pingRatio:    ratio,
	}
}

// Run blocks, ticking at pollInterval via a monotonic sleep (spec.md §5:
// "drift is acceptable"), until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.pollInterval):
		}
		p.tick(ctx)
	}
}

func (p *Poller) tick(ctx context.Context) {
	if p.tracker.TotalStatusSubs() > 0 {
		fresh, err := p.stat.Poll(ctx)
		if err != nil {
			p.logger.WithError(err).Warn("poller: stat poll failed, skipping cycle")
		} else {
			for _, ch := range status.Channels {
				if p.tracker.Count(string(ch)) == 0 {
					continue
				}
				if err := p.status.PublishChannel(ch, p.differ, fresh); err != nil {
					p.logger.WithError(err).WithField("channel", ch).Warn("poller: publish failed")
				}
			}
		}
	}

	if p.tracker.TotalErrorSubs() > 0 {
		ev, ok, err := p.stat.PollError(ctx)
		if err != nil {
			p.logger.WithError(err).Warn("poller: error poll failed, skipping cycle")
		} else if ok {
			// Only pings carry protocol-parameters on a new error-side
			// subscription (spec.md §4.F); discrete error/text/display
			// events never do.
			if err := p.errs.PublishError(ev, false); err != nil {
				p.logger.WithError(err).Warn("poller: error publish failed")
			}
		}
	}

	p.tickPing()
}

func (p *Poller) tickPing() {
	if p.pingRatio < 0 {
		return
	}
	if p.pingCount != p.pingRatio {
		p.pingCount++
		return
	}
	p.pingCount = 0

	if err := p.status.Ping(); err != nil {
		p.logger.WithError(err).Warn("poller: status ping failed")
	}
	withPParams := p.tracker.ConsumeNewErrorSubscription()
	if err := p.errs.Ping(withPParams); err != nil {
		p.logger.WithError(err).Warn("poller: error ping failed")
	}
}
