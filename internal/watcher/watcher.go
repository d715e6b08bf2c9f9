package watcher

import (
	"fmt"
	"lddtopo/internal/shared/observability"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
)

// Watcher reports changes to a fixed set of tree documents. It watches the
// parent directories rather than the files, since extractors and editors
// usually replace a file by renaming a new one over it.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debounce  time.Duration
	targets   map[string]bool
	dirs      []string
	ignore    []glob.Glob
	onChange  func([]string)

	callbackMu sync.Mutex
	pending    map[string]time.Time
	pendingMu  sync.Mutex
	timer      *time.Timer
	closed     bool
}

// NewWatcher prepares a watcher for the given tree documents. Changes are
// reported as absolute paths. Files whose base name matches an ignore pattern
// never trigger a change.
func NewWatcher(debounce time.Duration, trees, ignore []string, onChange func([]string)) (*Watcher, error) {
	if onChange == nil {
		return nil, os.ErrInvalid
	}
	if len(trees) == 0 {
		return nil, fmt.Errorf("no tree documents to watch")
	}

	w := &Watcher{
		debounce: debounce,
		onChange: onChange,
		pending:  make(map[string]time.Time),
		targets:  make(map[string]bool, len(trees)),
	}

	seen := make(map[string]bool, len(trees))
	for _, tree := range trees {
		abs, err := filepath.Abs(tree)
		if err != nil {
			return nil, fmt.Errorf("watch %q: %w", tree, err)
		}
		w.targets[abs] = true
		if dir := filepath.Dir(abs); !seen[dir] {
			seen[dir] = true
			w.dirs = append(w.dirs, dir)
		}
	}

	for _, pattern := range ignore {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, err
		}
		w.ignore = append(w.ignore, g)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w.fsWatcher = fsw
	return w, nil
}

// Start registers the directories and begins delivering events.
func (w *Watcher) Start() error {
	for _, dir := range w.dirs {
		if err := w.fsWatcher.Add(dir); err != nil {
			return fmt.Errorf("watch directory %q: %w", dir, err)
		}
		slog.Debug("watching directory", "path", dir)
	}

	go w.run()
	return nil
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.scheduleChange(event.Name)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			slog.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) relevant(path string) bool {
	base := filepath.Base(path)
	for _, g := range w.ignore {
		if g.Match(base) {
			return false
		}
	}
	return w.targets[filepath.Clean(path)]
}

func (w *Watcher) scheduleChange(path string) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()
	if w.closed {
		return
	}

	w.pending[path] = time.Now()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flushChanges)
}

func (w *Watcher) flushChanges() {
	w.pendingMu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]time.Time)
	w.pendingMu.Unlock()

	if len(paths) == 0 {
		return
	}
	sort.Strings(paths)
	observability.WatcherEventsTotal.Add(float64(len(paths)))

	w.callbackMu.Lock()
	defer w.callbackMu.Unlock()
	w.onChange(paths)
}

func (w *Watcher) Close() error {
	w.pendingMu.Lock()
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pendingMu.Unlock()
	return w.fsWatcher.Close()
}
