package recalc

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/rpgo/finplan/internal/config"
)

// DefaultDebounce batches the bursts of events editors emit on save.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reloads a plan file whenever it changes and submits it to a Recalculator.
// The parent directory is watched so that editors replacing the file by rename
// are still noticed.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	dir      string
	parser   *config.InputParser
	recalc   *Recalculator
	logger   *zap.Logger
	debounce time.Duration
	pending  bool
	lastSeen time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool

	closeOnce sync.Once
}

// NewWatcher creates a watcher for the plan file at path.
func NewWatcher(path string, recalc *Recalculator, logger *zap.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		watcher:  fw,
		path:     abs,
		dir:      filepath.Dir(abs),
		parser:   config.NewInputParser(),
		recalc:   recalc,
		logger:   logger.Named("watcher"),
		debounce: DefaultDebounce,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// SetDebounce changes the quiet period required before a reload. Call before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	w.debounce = d
	w.mu.Unlock()
}

// Start loads the plan once and then watches for changes in a goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.dir); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.logger.Info("watching plan file", zap.String("path", w.path))

	w.reload()
	go w.run(ctx)
	return nil
}

// Stop ends the watch loop and waits for it to exit. Cancelling the context
// passed to Start also ends the loop and releases the watcher; Stop stays safe
// to call after that.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		w.closeWatcher()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
}

// Done is closed once the watch loop has exited and the watcher is released.
func (w *Watcher) Done() <-chan struct{} { return w.doneCh }

func (w *Watcher) closeWatcher() {
	w.closeOnce.Do(func() {
		if err := w.watcher.Close(); err != nil {
			w.logger.Error("error closing watcher", zap.Error(err))
		}
	})
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	defer w.closeWatcher()

	tick := time.NewTicker(w.tickInterval())
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", zap.Error(err))
		case <-tick.C:
			if w.due() {
				w.reload()
			}
		}
	}
}

func (w *Watcher) tickInterval() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	if d := w.debounce / 4; d > 5*time.Millisecond {
		return d
	}
	return 5 * time.Millisecond
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	w.logger.Debug("plan file changed", zap.String("op", event.Op.String()))
	w.mu.Lock()
	w.pending = true
	w.lastSeen = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) due() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.pending || time.Since(w.lastSeen) < w.debounce {
		return false
	}
	w.pending = false
	return true
}

func (w *Watcher) reload() {
	plan, err := w.parser.LoadFromFile(w.path)
	if err != nil {
		w.logger.Warn("plan file rejected", zap.Error(err))
		w.recalc.Reject(err)
		return
	}
	seq := w.recalc.Submit(plan)
	w.logger.Debug("recalculation submitted", zap.Uint64("seq", seq))
}
