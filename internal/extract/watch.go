package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reruns an extraction whenever a Go source file under the watched
// directories changes. Events are debounced so one save triggers one rerun.
type Watcher struct {
	dirs     []string
	debounce time.Duration

	mu        sync.Mutex
	callbacks []func()

	fs       *fsnotify.Watcher
	stopChan chan struct{}
	doneChan chan struct{}
}

// NewWatcher creates a watcher over the given directories (recursively).
func NewWatcher(dirs []string) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("extract: watcher: %w", err)
	}
	w := &Watcher{
		dirs:     dirs,
		debounce: 500 * time.Millisecond,
		fs:       fs,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
	for _, dir := range dirs {
		if err := w.addRecursive(dir); err != nil {
			fs.Close()
			return nil, err
		}
	}
	return w, nil
}

// OnChange registers a callback invoked after each debounced change burst.
func (w *Watcher) OnChange(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, fn)
}

// Start begins dispatching events. It returns immediately; callbacks run on
// the watcher's goroutine, one at a time.
func (w *Watcher) Start() {
	go w.loop()
}

// Stop shuts the watcher down and waits for the event loop to exit.
func (w *Watcher) Stop() {
	close(w.stopChan)
	<-w.doneChan
	w.fs.Close()
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if name != "." && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor") {
			return filepath.SkipDir
		}
		return w.fs.Add(path)
	})
}

func (w *Watcher) loop() {
	defer close(w.doneChan)
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-w.stopChan:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			// New directories need to be picked up for nested packages.
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					w.addRecursive(ev.Name)
				}
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.mu.Lock()
			callbacks := make([]func(), len(w.callbacks))
			copy(callbacks, w.callbacks)
			w.mu.Unlock()
			for _, fn := range callbacks {
				fn()
			}
		case _, ok := <-w.fs.Errors:
			if !ok {
				return
			}
		}
	}
}

// relevant filters events down to Go source changes.
func relevant(ev fsnotify.Event) bool {
	if ev.Op.Has(fsnotify.Create) {
		return true
	}
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Remove) && !ev.Op.Has(fsnotify.Rename) {
		return false
	}
	return strings.HasSuffix(ev.Name, ".go") && !strings.HasSuffix(ev.Name, "_test.go")
}
