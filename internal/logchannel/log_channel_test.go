package logchannel

import (
	"testing"
	"time"
)

type recordingHandler struct {
	entries []string
}

func (h *recordingHandler) Log(e string) {
	h.entries = append(h.entries, e)
}

func TestStepNonBlockingOnEmptyReturnsNil(t *testing.T) {
	sink := &recordingHandler{}
	_, receiver := New[string](sink)
	if err := receiver.Step(false); err != nil {
		t.Fatalf("non-blocking step on an empty channel must return nil, got %v", err)
	}
	if len(sink.entries) != 0 {
		t.Fatalf("nothing should have been dispatched")
	}
}

func TestEntriesDrainInSendOrder(t *testing.T) {
	sink := &recordingHandler{}
	sender, receiver := New[string](sink)
	sender.Log("a")
	sender.Log("b")
	sender.Log("c")

	for i := 0; i < 3; i++ {
		if err := receiver.Step(false); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if len(sink.entries) != 3 || sink.entries[0] != "a" || sink.entries[1] != "b" || sink.entries[2] != "c" {
		t.Fatalf("expected [a b c] in order, got %v", sink.entries)
	}
}

func TestNilSinkInstallsNoOp(t *testing.T) {
	sender, receiver := New[string](nil)
	sender.Log("discarded")
	if err := receiver.Step(false); err != nil {
		t.Fatalf("no-op sink must still drain cleanly, got %v", err)
	}
}

func TestWaitReturnsPromptlyAfterClose(t *testing.T) {
	sink := &recordingHandler{}
	sender, receiver := New[string](sink)
	sender.Log("last words")
	sender.Close()

	start := time.Now()
	receiver.Wait()
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("wait on a closed channel took %v, expected a prompt return", elapsed)
	}
	if len(sink.entries) != 1 || sink.entries[0] != "last words" {
		t.Fatalf("pending entries must be flushed before wait returns, got %v", sink.entries)
	}
}

func TestBlockingStepReportsClosed(t *testing.T) {
	sender, receiver := New[string](&recordingHandler{})
	sender.Close()
	if err := receiver.Step(true); err != ErrClosed {
		t.Fatalf("expected ErrClosed on a closed empty channel, got %v", err)
	}
}

func TestBlockingStepTimesOut(t *testing.T) {
	_, receiver := New[string](&recordingHandler{})
	start := time.Now()
	err := receiver.Step(true)
	if err != ErrTimeout {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if elapsed := time.Since(start); elapsed < 900*time.Millisecond {
		t.Fatalf("timed out after only %v, the window is one second", elapsed)
	}
}

func TestBlockingStepWakesOnSend(t *testing.T) {
	sink := &recordingHandler{}
	sender, receiver := New[string](sink)
	go func() {
		time.Sleep(10 * time.Millisecond)
		sender.Log("late")
	}()
	if err := receiver.Step(true); err != nil {
		t.Fatalf("expected the late send to be delivered, got %v", err)
	}
	if len(sink.entries) != 1 || sink.entries[0] != "late" {
		t.Fatalf("expected [late], got %v", sink.entries)
	}
}
