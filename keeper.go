// Package loghaul is a small log-shipping runtime: it continuously polls a
// dynamic set of byte-oriented Sources and fans every record out to a
// dynamic set of byte-oriented Targets, keeping the fleet of tails alive
// as sources EOF, disappear, and come back. Records are opaque byte
// chunks; parsing, persisted offsets, cross-source ordering, and
// backpressure are all the caller's business. The Keeper is the way in:
// hand it a Stream and a KeeperConfig and it runs the pump on a background
// goroutine until Halt.
package loghaul

import (
	"sync"

	"github.com/google/uuid"

	"github.com/shadowmint/loghaul/internal/logchannel"
)

// Keeper is the user-facing managed runtime: it starts a StreamWorker on
// its own goroutine, owns the halt handshake, and drains the log channel.
// Its state machine is Unstarted -> Running -> Halted, monotonic;
// constructing a Keeper immediately transitions it to Running.
type Keeper struct {
	id uuid.UUID

	logger     logchannel.Sender[KeeperLogEntry]
	logReceive *logchannel.Receiver[KeeperLogEntry]

	halt     chan struct{}
	haltOnce sync.Once
	done     chan struct{}
	panicked bool
}

// NewKeeper takes ownership of stream and spawns a StreamWorker to drive
// it according to config. config is copied; mutating it afterward has no
// effect on the running Keeper.
func NewKeeper(stream *Stream, config KeeperConfig) *Keeper {
	k := &Keeper{
		id:   uuid.New(),
		halt: make(chan struct{}),
		done: make(chan struct{}),
	}

	sender, receiver := logchannel.New[KeeperLogEntry](config.Logger)
	k.logger = sender
	k.logReceive = receiver

	// KeeperStarted goes on the channel before the worker goroutine can
	// enqueue KeeperWorkerThreadStarted, so the sink always observes the
	// two in that order.
	k.logger.Log(lifecycle(KeeperStarted))

	worker := newStreamWorker(config, sender, stream)
	go func() {
		defer close(k.done)
		defer func() {
			if r := recover(); r != nil {
				k.panicked = true
			}
		}()
		worker.run(k.halt)
	}()

	return k
}

// ID returns the correlation id stamped on this Keeper at construction,
// useful for tagging structured log fields across collaborators that
// don't otherwise share state with the Keeper. The Keeper itself does not
// attach it to KeeperLogEntry values.
func (k *Keeper) ID() uuid.UUID {
	return k.id
}

// Step performs a non-blocking one-shot drain of any pending log events to
// the user's sink. Safe to call repeatedly; safe to never call.
func (k *Keeper) Step() {
	_ = k.logReceive.Step(false)
}

// Halt stops the worker and flushes the log channel. It is idempotent:
// the first call runs the full halt handshake; every subsequent call
// returns immediately without emitting additional log events.
func (k *Keeper) Halt() {
	k.haltOnce.Do(func() {
		k.logger.Log(lifecycle(KeeperHaltStarted))
		k.sendHalt()
		k.logger.Log(lifecycle(KeeperHalted))
		<-k.done
		if k.panicked {
			k.logger.Log(lifecycle(KeeperWaitWorkerError))
		}
		// Nothing can log after this point: the worker has exited and
		// every Keeper event is already enqueued. Closing the channel
		// lets Wait return as soon as the backlog is flushed instead of
		// waiting out a full receive timeout.
		k.logger.Close()
		k.logReceive.Wait()
	})
}

func (k *Keeper) sendHalt() {
	defer func() {
		if r := recover(); r != nil {
			k.logger.Log(lifecycle(KeeperSendWorkerHaltError))
		}
	}()
	close(k.halt)
}
