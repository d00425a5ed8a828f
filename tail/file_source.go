// Package tail provides ready-made loghaul.Source implementations: files,
// TCP/UDP sockets, and raw packet capture. The stream engine itself knows
// nothing about any of them; they obey the Source contract like any
// caller-supplied producer would.
package tail

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/shadowmint/loghaul"
	"github.com/shadowmint/loghaul/metrics"
	"github.com/shadowmint/loghaul/waker"
)

const defaultReadBufferSize = 64 * 1024

// defaultIdlePoll is the fallback wake interval for a FileSource whose
// fsnotify watcher failed to start (e.g. the file doesn't exist yet).
const defaultIdlePoll = 250 * time.Millisecond

// FileSource is a loghaul.Source over a single pathname that makes it
// look like one perpetual source of records even though the underlying
// file may be truncated or rotated. It opens on first Poll, and on a
// clean read at EOF stat-compares the pathname against the open handle:
// a new inode means rotation (drop the handle, reopen next Poll), a size
// below the current offset means truncation (rewind to the start).
// Resume simply closes the handle so the next Poll starts over. Poll is
// synchronous: no background goroutine, no channel of decoded lines
// crossing a boundary; each call does at most one bounded read and
// returns.
//
// A FileSource is not safe for concurrent Poll/Resume calls from more
// than one goroutine at once; the Keeper never does this.
type FileSource struct {
	fs       afero.Fs
	pathname string
	id       uuid.UUID

	file    afero.File
	fi      os.FileInfo
	buf     []byte
	watcher *fsnotify.Watcher
	waker   waker.Waker

	mu sync.Mutex
}

// NewFileSource builds a FileSource over pathname, read through fs. Passing
// afero.NewOsFs() reads a real file; tests can substitute
// afero.NewMemMapFs().
func NewFileSource(fs afero.Fs, pathname string) *FileSource {
	return &FileSource{
		fs:       fs,
		pathname: pathname,
		id:       uuid.New(),
		buf:      make([]byte, defaultReadBufferSize),
	}
}

func (f *FileSource) logger() zerolog.Logger {
	return log.With().Str("component", "tail.FileSource").Str("id", f.id.String()).Str("path", f.pathname).Logger()
}

// Poll implements loghaul.Source. It opens the file on first call (or after
// a Resume), reads whatever is currently available into buf, and reports
// NoData at a clean EOF or EOF when the underlying file does not exist.
// The EOF hands a missing file to the Keeper's EofStrategy, so retrying a
// not-yet-created or deleted pathname happens at the configured cooldown
// rather than every polling tick.
func (f *FileSource) Poll(buf *[]byte) (loghaul.StreamEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		if err := f.open(); err != nil {
			if os.IsNotExist(err) {
				return loghaul.StreamEntryEOF, nil
			}
			metrics.LogErrors.WithLabelValues(f.pathname).Inc()
			return loghaul.StreamEntryNoData, err
		}
	}

	n, err := f.file.Read(f.buf)
	if n > 0 {
		loghaul.NewStreamBuffer(buf).PushBytes(f.buf[:n])
		f.drainWatcher()
		return loghaul.StreamEntryData, nil
	}

	if err != nil && err != io.EOF {
		metrics.LogErrors.WithLabelValues(f.pathname).Inc()
		return loghaul.StreamEntryNoData, err
	}

	// Clean EOF with nothing read: check for rotation, then truncation.
	newFi, statErr := f.fs.Stat(f.pathname)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			f.logger().Debug().Msg("source no longer exists, reporting EOF")
			f.closeLocked()
			return loghaul.StreamEntryEOF, nil
		}
		metrics.LogErrors.WithLabelValues(f.pathname).Inc()
		return loghaul.StreamEntryNoData, statErr
	}

	// os.SameFile only has an identity to compare on a real filesystem;
	// in-memory afero backends report a nil Sys(), where the only possible
	// answer is "still the same file".
	if f.fi.Sys() != nil && newFi.Sys() != nil && !os.SameFile(f.fi, newFi) {
		f.logger().Debug().Msg("file rotated, reopening")
		f.closeLocked()
		return loghaul.StreamEntryNoData, nil
	}

	offset, serr := f.file.Seek(0, io.SeekCurrent)
	if serr == nil && newFi.Size() < offset {
		f.logger().Debug().Int64("offset", offset).Int64("size", newFi.Size()).Msg("file truncated")
		metrics.FileTruncates.WithLabelValues(f.pathname).Inc()
		if _, err := f.file.Seek(0, io.SeekStart); err != nil {
			metrics.LogErrors.WithLabelValues(f.pathname).Inc()
			return loghaul.StreamEntryNoData, err
		}
	}

	return loghaul.StreamEntryNoData, nil
}

// Resume implements loghaul.Source: it closes whatever handle is open (if
// any) so the next Poll reopens the file from scratch.
func (f *FileSource) Resume() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closeLocked()
	return nil
}

func (f *FileSource) open() error {
	file, err := f.fs.OpenFile(f.pathname, os.O_RDONLY, 0o600)
	if err != nil {
		return err
	}
	fi, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return err
	}
	metrics.LogOpens.WithLabelValues(f.pathname).Inc()
	f.file = file
	f.fi = fi

	if w, err := fsnotify.NewWatcher(); err == nil {
		if err := w.Add(f.pathname); err == nil {
			f.watcher = w
			f.waker = waker.NewFsnotify(w)
		} else {
			_ = w.Close()
		}
	}
	return nil
}

// drainWatcher non-blockingly discards any pending fsnotify events so Poll
// never blocks waiting on the watcher; Wake() is only consulted by external
// callers that want to idle between Polls, never by Poll itself.
func (f *FileSource) drainWatcher() {
	if f.watcher == nil {
		return
	}
	select {
	case <-f.watcher.Events:
	default:
	}
}

// Wake returns a channel that becomes ready when the file has new content
// or has been rotated, per waker.Waker. It exists so a caller driving Poll
// in its own loop (outside the Keeper) can idle instead of busy-polling; it
// is never called by Stream.Step itself.
func (f *FileSource) Wake() <-chan struct{} {
	f.mu.Lock()
	w := f.waker
	f.mu.Unlock()
	if w == nil {
		return waker.NewTicker(defaultIdlePoll).Wake()
	}
	return w.Wake()
}

func (f *FileSource) closeLocked() {
	if f.watcher != nil {
		_ = f.watcher.Close()
		f.watcher = nil
		f.waker = nil
	}
	if f.file != nil {
		if err := f.file.Close(); err != nil {
			metrics.LogErrors.WithLabelValues(f.pathname).Inc()
		} else {
			metrics.LogCloses.WithLabelValues(f.pathname).Inc()
		}
		f.file = nil
		f.fi = nil
	}
}
