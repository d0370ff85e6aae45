// Package watch re-runs a callback for feature files as they change.
package watch

import (
	"context"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 150 * time.Millisecond

// Options configures a Watcher. Paths may name files or directories;
// directories are watched recursively and filtered through Match.
type Options struct {
	Paths    []string
	Match    func(path string) bool
	Debounce time.Duration
	Logger   *log.Logger
}

// Watcher collects write and create events and hands the changed paths to
// a callback once they settle.
type Watcher struct {
	fw       *fsnotify.Watcher
	files    map[string]bool
	roots    []string
	match    func(string) bool
	debounce time.Duration
	logger   *log.Logger
}

// New starts watching opts.Paths. Events that happen before Run is called
// are buffered by fsnotify and delivered to Run.
func New(opts Options) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fw:       fw,
		files:    make(map[string]bool),
		match:    opts.Match,
		debounce: opts.Debounce,
		logger:   opts.Logger,
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.logger == nil {
		w.logger = log.New(io.Discard, "", 0)
	}
	if w.match == nil {
		w.match = func(string) bool { return true }
	}

	for _, p := range opts.Paths {
		info, err := os.Stat(p)
		if err != nil {
			_ = fw.Close()
			return nil, err
		}
		if info.IsDir() {
			w.roots = append(w.roots, filepath.Clean(p))
			err = addWatchRecursive(fw, p)
		} else {
			w.files[filepath.Clean(p)] = true
			err = fw.Add(filepath.Dir(p))
		}
		if err != nil {
			_ = fw.Close()
			return nil, err
		}
	}
	w.logger.Printf("watch enabled: paths=%q debounce_ms=%d", opts.Paths, w.debounce.Milliseconds())
	return w, nil
}

// Run calls fn with each changed path, in sorted order per batch, until ctx
// is done. fn runs on the Run goroutine.
func (w *Watcher) Run(ctx context.Context, fn func(path string)) error {
	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending = make(map[string]bool)
	)
	resetTimer := func() {
		if timer == nil {
			timer = time.NewTimer(w.debounce)
			timerC = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(w.debounce)
		timerC = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case <-timerC:
			timerC = nil
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			clear(pending)
			for _, p := range paths {
				fn(p)
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Printf("watch error: err=%v", err)
		case evt, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if evt.Has(fsnotify.Create) {
				if fi, statErr := os.Stat(evt.Name); statErr == nil && fi.IsDir() {
					if addErr := addWatchRecursive(w.fw, evt.Name); addErr != nil {
						w.logger.Printf("watch add failed: path=%q err=%v", evt.Name, addErr)
					}
					continue
				}
			}
			if w.wants(evt) {
				pending[filepath.Clean(evt.Name)] = true
				resetTimer()
			}
		}
	}
}

// Close stops watching. Run returns once its event channels close.
func (w *Watcher) Close() error {
	return w.fw.Close()
}

func (w *Watcher) wants(evt fsnotify.Event) bool {
	if strings.TrimSpace(evt.Name) == "" {
		return false
	}
	if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) {
		return false
	}
	name := filepath.Clean(evt.Name)
	if strings.HasPrefix(filepath.Base(name), ".") {
		return false
	}
	if w.files[name] {
		return true
	}
	for _, root := range w.roots {
		rel, err := filepath.Rel(root, name)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return w.match(name)
		}
	}
	return false
}

func addWatchRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return fw.Add(path)
	})
}
