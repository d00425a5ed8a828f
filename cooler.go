package loghaul

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// coldSource owns one EOF'd Source while it waits to be resumed. hot flips
// true once Resume succeeds; the same sourceCooler.resume() pass then
// hands the source back to the Stream and removes it from the cooler.
type coldSource struct {
	source       Source
	hot          bool
	attempted    bool
	backoff      backoff.BackOff
	nextEligible time.Time
}

// sourceCooler parks EOF'd sources under KeeperEofStrategy and schedules
// resume attempts, never faster than the configured cooldown. It is
// thread-local to the worker goroutine; nothing else touches it.
type sourceCooler struct {
	strategy KeeperEofStrategy
	cold     []*coldSource
}

func newSourceCooler(strategy KeeperEofStrategy) *sourceCooler {
	return &sourceCooler{strategy: strategy}
}

// push parks source per the configured strategy. Under DropSource the
// source is simply discarded here; under ResumeSourceAfterCooldown it
// joins the FIFO with a fresh cooldown clock.
func (c *sourceCooler) push(source Source) {
	if !c.strategy.Resumable() {
		return
	}
	c.cold = append(c.cold, &coldSource{
		source:  source,
		backoff: backoff.NewConstantBackOff(c.strategy.Cooldown()),
	})
}

// resume attempts exactly one Resume() call per cold source per tick, for
// every source whose cooldown has elapsed. It returns the Sources that
// successfully resumed this tick (removing them from the cooler) and nil
// if none did; not-yet-hot sources stay in place in their original
// relative order.
func (c *sourceCooler) resume() []Source {
	now := time.Now()
	any := false
	for _, cs := range c.cold {
		if cs.hot {
			continue
		}
		if cs.attempted && now.Before(cs.nextEligible) {
			continue
		}
		cs.attempted = true
		cs.nextEligible = now.Add(cs.backoff.NextBackOff())
		if err := cs.source.Resume(); err == nil {
			cs.hot = true
			any = true
		}
	}
	if !any {
		return nil
	}

	resumed := make([]Source, 0, len(c.cold))
	remaining := c.cold[:0]
	for _, cs := range c.cold {
		if cs.hot {
			resumed = append(resumed, cs.source)
		} else {
			remaining = append(remaining, cs)
		}
	}
	c.cold = remaining
	return resumed
}
