// Package watch reports writes to a set of files using OS-native
// notifications.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Op is the kind of change observed on a watched file.
type Op uint8

const (
	OpWrite Op = 1 << iota
	OpCreate
	OpRemove
	OpRename
)

type Event struct {
	Path string
	Op   Op
}

// Watcher watches the parent directories of the files it is given and
// forwards events for those files only. Editors often replace a file
// instead of writing it, which a watch on the file itself would miss.
type Watcher struct {
	w     *fsnotify.Watcher
	files map[string]struct{}
	evC   chan Event
	erC   chan error
	done  chan struct{}
	once  sync.Once
}

func New(paths ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	fw := &Watcher{
		w:     w,
		files: make(map[string]struct{}, len(paths)),
		evC:   make(chan Event, 128),
		erC:   make(chan error, 1),
		done:  make(chan struct{}),
	}
	dirs := map[string]struct{}{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = w.Close()
			return nil, err
		}
		fw.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}
	go fw.loop()
	return fw, nil
}

func (fw *Watcher) loop() {
	defer close(fw.evC)
	for {
		select {
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}
			if _, watched := fw.files[filepath.Clean(ev.Name)]; !watched {
				continue
			}
			var op Op
			if ev.Op&fsnotify.Write != 0 {
				op |= OpWrite
			}
			if ev.Op&fsnotify.Create != 0 {
				op |= OpCreate
			}
			if ev.Op&fsnotify.Remove != 0 {
				op |= OpRemove
			}
			if ev.Op&fsnotify.Rename != 0 {
				op |= OpRename
			}
			if op == 0 {
				continue
			}
			select {
			case fw.evC <- Event{Path: ev.Name, Op: op}:
			case <-fw.done:
				return
			}
		case err, ok := <-fw.w.Errors:
			if !ok {
				return
			}
			select {
			case fw.erC <- err:
			default:
			}
		}
	}
}

func (fw *Watcher) Events() <-chan Event { return fw.evC }
func (fw *Watcher) Errors() <-chan error { return fw.erC }

func (fw *Watcher) Close() error {
	var err error
	fw.once.Do(func() {
		close(fw.done)
		err = fw.w.Close()
	})
	return err
}

// Run calls onChange for every file that was written or recreated, at most
// once per quiet period, until ctx is done. An error returned by onChange
// stops the loop.
func Run(ctx context.Context, fw *Watcher, quiet time.Duration, onChange func(path string) error) error {
	defer fw.Close()

	pending := map[string]struct{}{}
	timer := time.NewTimer(quiet)
	if !timer.Stop() {
		<-timer.C
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-fw.Errors():
			return err
		case ev, ok := <-fw.Events():
			if !ok {
				return nil
			}
			if ev.Op&(OpWrite|OpCreate) == 0 {
				continue
			}
			pending[ev.Path] = struct{}{}
			timer.Reset(quiet)
		case <-timer.C:
			for path := range pending {
				if err := onChange(path); err != nil {
					return err
				}
			}
			clear(pending)
		}
	}
}
