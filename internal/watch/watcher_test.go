package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/siteconfig/internal/foundation/errors"
	"git.home.luguber.info/inful/siteconfig/internal/metrics"
)

type collector struct {
	mu     sync.Mutex
	events []Event
}

func (c *collector) handle(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func (c *collector) last() (Event, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.events) == 0 {
		return Event{}, 0
	}
	return c.events[len(c.events)-1], len(c.events)
}

type countingRecorder struct {
	metrics.NoopRecorder
	mu      sync.Mutex
	reloads int
}

func (r *countingRecorder) IncReload() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reloads++
}

func writeConfig(t *testing.T, path, src string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
}

func TestWatcher_ReloadOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.rb")
	writeConfig(t, path, "set :css_dir, 'css'\n")

	var c collector
	w, err := New(path, c.handle, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)

	initial := w.Reload()
	require.NoError(t, initial.Err)
	assert.True(t, initial.Changed)
	assert.NotEmpty(t, initial.LoadID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer func() { _ = w.Stop() }()

	writeConfig(t, path, "set :css_dir, 'styles'\n")

	require.Eventually(t, func() bool {
		ev, n := c.last()
		if n < 2 || ev.Err != nil || ev.Record == nil {
			return false
		}
		v, ok := ev.Record.Get("assetDirs.css")
		return ok && v.Str == "styles"
	}, 5*time.Second, 10*time.Millisecond)

	ev, _ := c.last()
	assert.True(t, ev.Changed)
	assert.NotEqual(t, initial.LoadID, ev.LoadID)
}

func TestWatcher_ReportsLoadErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.rb")
	writeConfig(t, path, "set :css_dir, 'css'\n")

	var c collector
	w, err := New(path, c.handle, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer func() { _ = w.Stop() }()

	writeConfig(t, path, "activate :nope\n")

	require.Eventually(t, func() bool {
		ev, n := c.last()
		return n > 0 && ev.Err != nil
	}, 5*time.Second, 10*time.Millisecond)

	ev, _ := c.last()
	assert.Nil(t, ev.Record)
	assert.True(t, ferrors.HasCategory(ev.Err, ferrors.CategoryUnknownOption))
}

func TestWatcher_UnchangedContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.rb")
	writeConfig(t, path, "set :css_dir, 'css'\n")

	rec := &countingRecorder{}
	w, err := New(path, nil, WithRecorder(rec))
	require.NoError(t, err)

	first := w.Reload()
	require.NoError(t, first.Err)
	assert.True(t, first.Changed)

	// Whitespace and comments leave the record untouched.
	writeConfig(t, path, "# styles\nset :css_dir,   'css'\n")
	second := w.Reload()
	require.NoError(t, second.Err)
	assert.False(t, second.Changed)
	assert.Equal(t, 2, rec.reloads)
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.rb")
	writeConfig(t, path, "set :css_dir, 'css'\n")

	var c collector
	w, err := New(path, c.handle, WithDebounce(10*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	writeConfig(t, filepath.Join(dir, "other.rb"), "activate :nope\n")
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, w.Stop())

	_, n := c.last()
	assert.Zero(t, n)
}

func TestWatcher_StartStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.rb")
	writeConfig(t, path, "")

	w, err := New(path, nil)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(w.Path()))

	require.NoError(t, w.Start(context.Background()))
	err = w.Start(context.Background())
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryInternal))

	require.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "missing", "config.rb"), nil)
	require.NoError(t, err)

	err = w.Start(context.Background())
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))
	assert.NoError(t, w.Stop())
}

func TestWatcher_HandlerMayStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.rb")
	writeConfig(t, path, "set :css_dir, 'css'\n")

	var w *Watcher
	stopped := make(chan error, 1)
	w, err := New(path, func(Event) { stopped <- w.Stop() })
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	done := make(chan struct{})
	go func() {
		w.Reload()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("handler calling Stop deadlocked")
	}
	assert.NoError(t, <-stopped)
}
