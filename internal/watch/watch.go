// Package watch notifies about changes below the launcher root.
package watch

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is how long the watcher waits for a burst of events to settle
const DefaultDebounce = 250 * time.Millisecond

// Watcher coalesces filesystem events on a changing set of directories into
// change notifications.
type Watcher struct {
	dirs     func() []string
	debounce time.Duration
	log      zerolog.Logger

	changes chan struct{}
	watched map[string]bool
}

// New creates a watcher over the directories returned by dirs. The set is
// recomputed after every notification so new instance and Mods directories
// are picked up.
func New(dirs func() []string, debounce time.Duration, log zerolog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		dirs:     dirs,
		debounce: debounce,
		log:      log,
		changes:  make(chan struct{}, 1),
		watched:  make(map[string]bool),
	}
}

// Changes receives one value per settled burst of events. Notifications are
// dropped while a previous one is still unread.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Run watches until ctx is done
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.log.Error().Err(err).Msg("cannot start file watcher")
		return err
	}
	defer fsw.Close()

	w.sync(fsw)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				w.log.Error().Msg("events channel closed")
				return nil
			}
			w.log.Debug().Str("name", ev.Name).Stringer("op", ev.Op).Msg("event")

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.sync(fsw)
			select {
			case w.changes <- struct{}{}:
			default:
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Error().Err(err).Msg("fsnotify error")
		}
	}
}

// sync adds new directories and forgets ones that are no longer listed
func (w *Watcher) sync(fsw *fsnotify.Watcher) {
	want := make(map[string]bool)
	for _, dir := range w.dirs() {
		want[dir] = true
		if w.watched[dir] {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			w.log.Debug().Err(err).Str("dir", dir).Msg("cannot watch directory")
			continue
		}
		w.watched[dir] = true
	}

	for dir := range w.watched {
		if want[dir] {
			continue
		}
		// removed directories are dropped by fsnotify already
		_ = fsw.Remove(dir)
		delete(w.watched, dir)
	}
}
