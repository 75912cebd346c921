package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReportsDatabaseWrites(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "lifelog.db")
	require.NoError(t, os.WriteFile(db, []byte("x"), 0o644))

	w, err := New(db, 20*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Close()

	// Unrelated files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	select {
	case <-w.Events():
		t.Fatal("unexpected event for unrelated file")
	case <-time.After(200 * time.Millisecond):
	}

	// A burst of writes settles into a single event.
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(db+"-wal", []byte{byte(i)}, 0o644))
	}
	select {
	case <-w.Events():
	case <-time.After(2 * time.Second):
		t.Fatal("expected an event after writing the WAL file")
	}
	select {
	case <-w.Events():
		t.Fatal("burst should be coalesced")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestCloseClosesEvents(t *testing.T) {
	db := filepath.Join(t.TempDir(), "lifelog.db")
	w, err := New(db, time.Millisecond, nil)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, ok := <-w.Events()
	assert.False(t, ok)
}

func TestNewFailsForMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "lifelog.db"), time.Millisecond, nil)
	assert.Error(t, err)
}
