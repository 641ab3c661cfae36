package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const testDebounce = 50 * time.Millisecond

func startWatcher(t *testing.T, roots []string, exts []string, calls *int32) *Watcher {
	t.Helper()
	onChange := func(context.Context) { atomic.AddInt32(calls, 1) }
	w := NewWatcher(roots, exts, true, onChange, WithDebounce(testDebounce), WithLogger(zaptest.NewLogger(t)))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, w.Start(ctx))
	t.Cleanup(w.Stop)
	return w
}

func TestWatcher_AddRemoveDirectories(t *testing.T) {
	dir := t.TempDir()
	var calls int32
	w := startWatcher(t, nil, []string{".txt"}, &calls)

	require.NoError(t, w.AddDirectory(dir, false))
	assert.Equal(t, []string{filepath.Clean(dir)}, w.Directories())

	// adding twice is a no-op
	require.NoError(t, w.AddDirectory(dir, false))
	assert.Len(t, w.Directories(), 1)

	require.NoError(t, w.RemoveDirectory(dir))
	assert.Empty(t, w.Directories())

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_DebouncesBurstIntoOneRebuild(t *testing.T) {
	dir := t.TempDir()
	var calls int32
	startWatcher(t, []string{dir}, []string{".txt"}, &calls)

	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("Zeichnet"), 0644))
	}

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(4 * testDebounce)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestWatcher_IgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	var calls int32
	startWatcher(t, []string{dir}, []string{".txt"}, &calls)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "image.png"), []byte{0x89}, 0644))
	time.Sleep(6 * testDebounce)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestWatcher_NewSubdirectoryIsWatched(t *testing.T) {
	dir := t.TempDir()
	var calls int32
	startWatcher(t, []string{dir}, []string{".csv"}, &calls)

	sub := filepath.Join(dir, "katalog")
	require.NoError(t, os.MkdirAll(sub, 0755))
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) >= 1 }, 2*time.Second, 10*time.Millisecond)

	before := atomic.LoadInt32(&calls)
	require.NoError(t, os.WriteFile(filepath.Join(sub, "items.csv"), []byte("Netzwerkkabel\n"), 0644))
	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) > before }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_StartCreatesMissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "watch", "me")
	var calls int32
	startWatcher(t, []string{root}, nil, &calls)

	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestWatcher_StopCancelsPendingRebuild(t *testing.T) {
	dir := t.TempDir()
	var calls int32
	onChange := func(context.Context) { atomic.AddInt32(&calls, 1) }
	w := NewWatcher([]string{dir}, nil, false, onChange, WithDebounce(time.Second))
	require.NoError(t, w.Start(context.Background()))

	w.mu.Lock()
	w.scheduleLocked()
	w.mu.Unlock()
	w.Stop()
	w.Stop()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestMatchExtension(t *testing.T) {
	tests := []struct {
		path       string
		extensions []string
		want       bool
	}{
		{"/a/b.txt", []string{".txt"}, true},
		{"/a/b.TXT", []string{".txt"}, true},
		{"/a/b.xlsx", []string{"xlsx"}, true},
		{"/a/b.md", []string{".txt"}, false},
		{"/a/b", nil, true},
		{"/a/b", []string{}, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, matchExtension(tt.path, tt.extensions), "%s %v", tt.path, tt.extensions)
	}
}

func TestInDir(t *testing.T) {
	tests := []struct {
		dir  string
		path string
		want bool
	}{
		{"/tmp/a", "/tmp/a", true},
		{"/tmp/a", "/tmp/a/b.txt", true},
		{"/tmp/a", "/tmp/b", false},
		{"/tmp/a", "/tmp/a/../b", false},
		{"/tmp/a", "/tmp/ab", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, inDir(tt.dir, tt.path), "%s %s", tt.dir, tt.path)
	}
}
