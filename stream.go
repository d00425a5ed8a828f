package loghaul

// sourceBucket owns one Source, its reusable read buffer, and a sticky eof
// flag. A bucket with eof == true never appears in the live set at the
// start of a subsequent Step.
type sourceBucket struct {
	source Source
	buffer []byte
	eof    bool
}

// Stream holds the live set of Sources and Targets and is pumped one tick
// at a time by Step. It is not safe for concurrent use; the core never
// calls it from more than one goroutine at a time (the streamWorker owns
// it exclusively while running).
type Stream struct {
	sources []*sourceBucket
	targets []Target
}

// NewStream creates an empty Stream.
func NewStream() *Stream {
	return &Stream{}
}

// AddSource appends source to the live set. Insertion order is preserved;
// duplicate identities are accepted and polled independently.
func (s *Stream) AddSource(source Source) {
	s.sources = append(s.sources, &sourceBucket{source: source})
}

// AddTarget appends target to the target set. Insertion order is
// preserved and determines Consume fan-out order.
func (s *Stream) AddTarget(target Target) {
	s.targets = append(s.targets, target)
}

// SourceCount reports the number of currently live sources.
func (s *Stream) SourceCount() int {
	return len(s.sources)
}

// Step polls every live source once, in insertion order, and fans each
// produced record out to every target, in target-insertion order. Sources
// that report StreamEntryEOF during this step are removed from the live
// set and appended, in the order they appeared, to dropped (which is
// cleared first). Step returns nil if no error was collected, or an
// *ErrorAggregate otherwise; an error from a source or a target never
// removes that source from the live set; only EOF does.
func (s *Stream) Step(dropped *[]Source) error {
	*dropped = (*dropped)[:0]
	var errs ErrorAggregate

	for _, bucket := range s.sources {
		bucket.buffer = bucket.buffer[:0]
		entry, err := bucket.source.Poll(&bucket.buffer)
		if err != nil {
			errs.Push(asLoghaulError(err))
			continue
		}
		for _, target := range s.targets {
			if cerr := target.Consume(entry, bucket.buffer); cerr != nil {
				errs.Push(asLoghaulError(cerr))
			}
		}
		if entry == StreamEntryEOF {
			bucket.eof = true
		}
	}

	if s.hasCompletedBuckets() {
		live := s.sources[:0]
		for _, bucket := range s.sources {
			if bucket.eof {
				*dropped = append(*dropped, bucket.source)
			} else {
				live = append(live, bucket)
			}
		}
		s.sources = live
	}

	return errs.ToError()
}

func (s *Stream) hasCompletedBuckets() bool {
	for _, bucket := range s.sources {
		if bucket.eof {
			return true
		}
	}
	return false
}

func asLoghaulError(err error) *Error {
	if lerr, ok := err.(*Error); ok {
		return lerr
	}
	return WrapSourceErr(err)
}
