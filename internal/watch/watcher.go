// Package watch reloads a configuration file whenever it changes on disk.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"git.home.luguber.info/inful/siteconfig/internal/config"
	ferrors "git.home.luguber.info/inful/siteconfig/internal/foundation/errors"
	"git.home.luguber.info/inful/siteconfig/internal/logfields"
	"git.home.luguber.info/inful/siteconfig/internal/metrics"
)

// DefaultDebounce collapses the burst of events editors emit on save.
const DefaultDebounce = 500 * time.Millisecond

// Event is the outcome of one load attempt.
type Event struct {
	// LoadID identifies the attempt in logs.
	LoadID string
	Record *config.Record
	Err    error
	// Changed is true when the record differs from the last successful load.
	Changed bool
}

// Handler receives load outcomes. Calls are serialized and run without the
// reload lock held, so a handler may call Stop from an explicit Reload. A
// handler invoked by a file change must not wait for Stop to return, since
// Stop waits for that handler's goroutine. Handlers must not call Reload.
type Handler func(Event)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) Option { return func(w *Watcher) { w.debounce = d } }

// WithLoader sets the loader used for reloads.
func WithLoader(l *config.Loader) Option { return func(w *Watcher) { w.loader = l } }

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option { return func(w *Watcher) { w.logger = l } }

// WithRecorder sets the metrics recorder for reload counts.
func WithRecorder(r metrics.Recorder) Option { return func(w *Watcher) { w.recorder = r } }

// Watcher monitors a configuration file and reloads it on change.
type Watcher struct {
	path     string
	handler  Handler
	loader   *config.Loader
	logger   *slog.Logger
	recorder metrics.Recorder
	debounce time.Duration

	fsw      *fsnotify.Watcher
	reloadCh chan struct{}
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	mu          sync.Mutex // serializes reloads and guards fingerprint
	handlerMu   sync.Mutex // serializes handler calls in reload order
	fingerprint string
	started     bool
}

// New creates a watcher for path. Nothing is watched until Start.
func New(path string, handler Handler, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to resolve config path").
			WithPosition(path, 0, 0).
			Fatal().
			Build()
	}
	w := &Watcher{
		path:     abs,
		handler:  handler,
		loader:   config.NewLoader(),
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
		debounce: DefaultDebounce,
		reloadCh: make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path is the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Start watches the file's directory, which survives editors that replace
// the file on save. It returns once the watch is installed.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return ferrors.InternalError("watcher already started").Build()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create file watcher").Fatal().Build()
	}
	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to watch config directory").
			WithPosition(dir, 0, 0).
			Fatal().
			Build()
	}
	w.fsw = fsw
	w.started = true

	w.logger.Info("Watching configuration", logfields.File(w.path))

	w.wg.Add(2)
	go w.watchLoop(ctx)
	go w.reloadLoop(ctx)
	return nil
}

// Stop ends watching and waits for the loops to exit. It is safe to call
// more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.mu.Lock()
		fsw := w.fsw
		w.mu.Unlock()
		if fsw != nil {
			err = fsw.Close()
		}
		w.wg.Wait()
	})
	return err
}

// Reload loads the file now and delivers the outcome to the handler.
func (w *Watcher) Reload() Event {
	w.mu.Lock()

	ev := Event{LoadID: uuid.NewString()}
	log := w.logger.With(logfields.LoadID(ev.LoadID), logfields.File(w.path))
	start := time.Now()

	ev.Record, ev.Err = w.loader.Load(w.path)
	w.recorder.IncReload()
	elapsed := logfields.DurationMS(float64(time.Since(start).Microseconds()) / 1000)

	if ev.Err != nil {
		log.Error("Configuration reload failed", logfields.Error(ev.Err), elapsed)
	} else {
		fp := ev.Record.Fingerprint()
		ev.Changed = fp != w.fingerprint
		w.fingerprint = fp
		log.Info("Configuration reloaded",
			logfields.Options(ev.Record.Len()),
			slog.Bool("changed", ev.Changed),
			elapsed)
	}

	w.handlerMu.Lock()
	defer w.handlerMu.Unlock()
	w.mu.Unlock()

	if w.handler != nil {
		w.handler(ev)
	}
	return ev
}

func (w *Watcher) watchLoop(ctx context.Context) {
	defer w.wg.Done()
	name := filepath.Base(w.path)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			switch {
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create), event.Has(fsnotify.Rename):
				w.logger.Debug("Config file change detected", logfields.File(event.Name), slog.String("op", event.Op.String()))
				w.trigger()
			case event.Has(fsnotify.Remove):
				w.logger.Warn("Config file removed", logfields.File(event.Name))
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("Config watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) trigger() {
	select {
	case w.reloadCh <- struct{}{}:
	default:
		// a reload is already pending
	}
}

func (w *Watcher) reloadLoop(ctx context.Context) {
	defer w.wg.Done()
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-w.reloadCh:
			timer.Reset(w.debounce)
		case <-timer.C:
			w.Reload()
		}
	}
}
