package sink

import (
	"os"
	"sync"

	"github.com/spf13/afero"

	"github.com/shadowmint/loghaul"
	"github.com/shadowmint/loghaul/metrics"
)

// FileTarget writes every Data record verbatim to a file, each followed by
// a newline. The file is opened in append-create mode on first Consume and
// closed on any write error so
// the next record reopens it. Writing goes through afero.Fs so tests can
// swap in afero.MemMapFs.
type FileTarget struct {
	fs       afero.Fs
	pathname string

	mu   sync.Mutex
	file afero.File
}

// NewFileTarget builds a FileTarget over pathname, written through fs.
func NewFileTarget(fs afero.Fs, pathname string) *FileTarget {
	return &FileTarget{fs: fs, pathname: pathname}
}

// Consume implements loghaul.Target. NoData and EOF tags are ignored. On
// any write error the file handle is closed so the next Consume call
// reopens it.
func (t *FileTarget) Consume(entry loghaul.StreamEntry, data []byte) error {
	if entry != loghaul.StreamEntryData {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.file == nil {
		file, err := t.fs.OpenFile(t.pathname, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			metrics.LogErrors.WithLabelValues(t.pathname).Inc()
			return err
		}
		metrics.LogOpens.WithLabelValues(t.pathname).Inc()
		t.file = file
	}

	if _, err := t.file.Write(data); err != nil {
		metrics.LogErrors.WithLabelValues(t.pathname).Inc()
		_ = t.file.Close()
		t.file = nil
		return err
	}
	if _, err := t.file.Write([]byte("\n")); err != nil {
		metrics.LogErrors.WithLabelValues(t.pathname).Inc()
		_ = t.file.Close()
		t.file = nil
		return err
	}
	metrics.LogLines.WithLabelValues(t.pathname).Inc()
	return nil
}

// Close releases the underlying file handle, if one is open.
func (t *FileTarget) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.file == nil {
		return nil
	}
	err := t.file.Close()
	t.file = nil
	if err == nil {
		metrics.LogCloses.WithLabelValues(t.pathname).Inc()
	}
	return err
}
