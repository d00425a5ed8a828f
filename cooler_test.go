package loghaul

import (
	"errors"
	"testing"
	"time"
)

type coolerTestSource struct {
	resumeErr   error
	resumeCalls int
}

func (s *coolerTestSource) Poll(buf *[]byte) (StreamEntry, error) { return StreamEntryNoData, nil }

func (s *coolerTestSource) Resume() error {
	s.resumeCalls++
	return s.resumeErr
}

// DropSource forgets a pushed source outright: resume never returns it.
func TestCoolerDropSourceForgetsSource(t *testing.T) {
	cooler := newSourceCooler(DropSource())
	cooler.push(&coolerTestSource{})
	if resumed := cooler.resume(); resumed != nil {
		t.Fatalf("DropSource must never resume a pushed source, got %v", resumed)
	}
	if len(cooler.cold) != 0 {
		t.Fatalf("DropSource must not retain the pushed source")
	}
}

// Each cold source gets exactly one Resume() call per tick, even on the
// tick where it becomes hot.
func TestCoolerSingleResumeCallPerTick(t *testing.T) {
	cooler := newSourceCooler(ResumeSourceAfterCooldown(time.Millisecond))
	src := &coolerTestSource{}
	cooler.push(src)

	resumed := cooler.resume()
	if len(resumed) != 1 || resumed[0] != Source(src) {
		t.Fatalf("expected the source to resume on first eligible tick, got %v", resumed)
	}
	if src.resumeCalls != 1 {
		t.Fatalf("expected exactly one Resume() call, got %d", src.resumeCalls)
	}
}

// A failed resume leaves the source cold, to be retried no sooner than
// the cooldown.
func TestCoolerFailedResumeStaysCold(t *testing.T) {
	cooler := newSourceCooler(ResumeSourceAfterCooldown(50 * time.Millisecond))
	src := &coolerTestSource{resumeErr: errors.New("not yet")}
	cooler.push(src)

	if resumed := cooler.resume(); resumed != nil {
		t.Fatalf("a failing resume must not be returned as resumed")
	}
	if len(cooler.cold) != 1 {
		t.Fatalf("a failing resume must leave the source in the cooler")
	}

	// Immediately retrying must not attempt another Resume(): the
	// cooldown floor has not elapsed yet.
	cooler.resume()
	if src.resumeCalls != 1 {
		t.Fatalf("cooldown floor violated: expected 1 resume call, got %d", src.resumeCalls)
	}

	time.Sleep(60 * time.Millisecond)
	src.resumeErr = nil
	resumed := cooler.resume()
	if len(resumed) != 1 {
		t.Fatalf("expected the source to resume after the cooldown elapsed")
	}
}

// Not-yet-hot sources keep their original relative order across ticks.
func TestCoolerPreservesOrderOfNotYetHot(t *testing.T) {
	cooler := newSourceCooler(ResumeSourceAfterCooldown(time.Hour))
	a := &coolerTestSource{resumeErr: errors.New("no")}
	b := &coolerTestSource{resumeErr: errors.New("no")}
	cooler.push(a)
	cooler.push(b)
	cooler.resume()
	if len(cooler.cold) != 2 || cooler.cold[0].source != Source(a) || cooler.cold[1].source != Source(b) {
		t.Fatalf("expected cold sources to remain in push order")
	}
}
