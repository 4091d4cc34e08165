package watch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/brodo/bundlefmt/internal/watch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_OnlyWatchedFiles(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "a.js")
	other := filepath.Join(dir, "b.js")
	require.NoError(t, os.WriteFile(watched, []byte("a"), 0o644))

	fw, err := watch.New(watched)
	if err != nil {
		t.Skip("fsnotify not supported: ", err)
	}
	defer fw.Close()

	require.NoError(t, os.WriteFile(other, []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(watched, []byte("aa"), 0o644))

	select {
	case ev := <-fw.Events():
		assert.Equal(t, watched, ev.Path)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for fsnotify event")
	}
}

func TestWatcher_CloseWithFullBuffer(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "bundle.js")
	require.NoError(t, os.WriteFile(file, []byte("a"), 0o644))

	fw, err := watch.New(file)
	if err != nil {
		t.Skip("fsnotify not supported: ", err)
	}

	// nobody reads events until the buffer is full and one more is pending
	deadline := time.Now().Add(2 * time.Second)
	for len(fw.Events()) < cap(fw.Events()) {
		if time.Now().After(deadline) {
			_ = fw.Close()
			t.Skip("could not fill the event buffer")
		}
		require.NoError(t, os.WriteFile(file, []byte("ab"), 0o644))
	}
	for i := 0; i < 8; i++ {
		require.NoError(t, os.WriteFile(file, []byte("abc"), 0o644))
	}
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, fw.Close())
	time.Sleep(50 * time.Millisecond)

	buffered := cap(fw.Events())
	for i := 0; i < buffered; i++ {
		<-fw.Events()
	}
	select {
	case _, ok := <-fw.Events():
		assert.False(t, ok, "events channel should be closed after Close")
	case <-time.After(2 * time.Second):
		t.Fatal("event loop did not stop after Close")
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "bundle.js")
	require.NoError(t, os.WriteFile(file, []byte("var a"), 0o644))

	fw, err := watch.New(file)
	if err != nil {
		t.Skip("fsnotify not supported: ", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	changed := make(chan string, 8)
	done := make(chan error, 1)
	go func() {
		done <- watch.Run(ctx, fw, 20*time.Millisecond, func(path string) error {
			changed <- path
			return nil
		})
	}()

	require.NoError(t, os.WriteFile(file, []byte("var a = 1"), 0o644))
	select {
	case path := <-changed:
		assert.Equal(t, file, path)
	case <-ctx.Done():
		t.Fatal("timeout waiting for change")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestRun_CallbackErrorStops(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "bundle.js")
	require.NoError(t, os.WriteFile(file, []byte("var a"), 0o644))

	fw, err := watch.New(file)
	if err != nil {
		t.Skip("fsnotify not supported: ", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	boom := errors.New("boom")
	done := make(chan error, 1)
	go func() {
		done <- watch.Run(ctx, fw, 20*time.Millisecond, func(string) error { return boom })
	}()

	require.NoError(t, os.WriteFile(file, []byte("var a = 1"), 0o644))
	select {
	case err := <-done:
		assert.ErrorIs(t, err, boom)
	case <-ctx.Done():
		t.Fatal("timeout waiting for Run to stop")
	}
}
