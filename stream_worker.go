package loghaul

import (
	"time"

	"github.com/shadowmint/loghaul/internal/logchannel"
)

// streamWorker is the background loop that pumps the Stream: sleep, step,
// hand EOFs to the cooler, resume what cooled off, check for halt.
// It owns the Stream and cooler exclusively for as long as it runs; the
// Keeper never touches either while the worker is alive.
type streamWorker struct {
	config KeeperConfig
	cooler *sourceCooler
	logger logchannel.Sender[KeeperLogEntry]
	stream *Stream
}

func newStreamWorker(config KeeperConfig, logger logchannel.Sender[KeeperLogEntry], stream *Stream) *streamWorker {
	return &streamWorker{
		config: config,
		cooler: newSourceCooler(config.EofStrategy),
		logger: logger,
		stream: stream,
	}
}

// run drives the loop until halt is closed or receives a value. Both
// signal the same thing: stop after the current tick's bookkeeping.
func (w *streamWorker) run(halt <-chan struct{}) {
	w.logger.Log(lifecycle(KeeperWorkerThreadStarted))
	interval := w.config.interval()
	var eof []Source

	for {
		time.Sleep(interval)

		if err := w.stream.Step(&eof); err != nil {
			if agg, ok := err.(*ErrorAggregate); ok {
				for _, e := range agg.Errors() {
					w.logger.Log(KeeperError(e))
				}
			} else {
				w.logger.Log(KeeperError(asLoghaulError(err)))
			}
		}

		// Hand every EOF'd source from this tick to the cooler before any
		// resume is attempted: a source can never be both polled and
		// resumed in the same tick.
		for _, s := range eof {
			w.cooler.push(s)
		}
		eof = eof[:0]

		if resumed := w.cooler.resume(); resumed != nil {
			for _, s := range resumed {
				w.stream.AddSource(s)
			}
		}

		select {
		case <-halt:
			w.logger.Log(lifecycle(KeeperWorkerThreadHalted))
			return
		default:
		}
	}
}
