package tail

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/shadowmint/loghaul"
	"github.com/shadowmint/loghaul/testutil"
)

// Tails a real file on disk, the way another process would append to it.
func TestFileSourceTailsRealFile(t *testing.T) {
	dir := testutil.TempDir(t)
	pathname := filepath.Join(dir, "app.log")
	f := testutil.OpenLogFile(t, pathname)
	defer f.Close()

	source := NewFileSource(afero.NewOsFs(), pathname)
	testutil.WriteString(t, f, "one\n")

	entry, buf := pollOnce(t, source)
	require.Equal(t, loghaul.StreamEntryData, entry)
	require.Equal(t, "one\n", string(buf))

	entry, _ = pollOnce(t, source)
	require.Equal(t, loghaul.StreamEntryNoData, entry)

	testutil.WriteString(t, f, "two\n")
	entry, buf = pollOnce(t, source)
	require.Equal(t, loghaul.StreamEntryData, entry)
	require.Equal(t, "two\n", string(buf))
}

// Rotation: the original file is renamed away and a new one created under
// the same pathname. The source notices the inode change, reopens, and
// reads the new file from the start.
func TestFileSourceFollowsRotation(t *testing.T) {
	dir := testutil.TempDir(t)
	pathname := filepath.Join(dir, "app.log")
	f := testutil.OpenLogFile(t, pathname)
	testutil.WriteString(t, f, "old\n")

	source := NewFileSource(afero.NewOsFs(), pathname)
	entry, buf := pollOnce(t, source)
	require.Equal(t, loghaul.StreamEntryData, entry)
	require.Equal(t, "old\n", string(buf))
	require.NoError(t, f.Close())

	require.NoError(t, os.Rename(pathname, pathname+".1"))
	rotated := testutil.OpenLogFile(t, pathname)
	defer rotated.Close()
	testutil.WriteString(t, rotated, "new\n")

	// One poll to notice the rotation and drop the stale handle, one to
	// reopen and read the fresh file.
	entry, _ = pollOnce(t, source)
	require.Equal(t, loghaul.StreamEntryNoData, entry)
	entry, buf = pollOnce(t, source)
	require.Equal(t, loghaul.StreamEntryData, entry)
	require.Equal(t, "new\n", string(buf))
}
