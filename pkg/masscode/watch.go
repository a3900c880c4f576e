package masscode

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the burst of events massCode produces per save.
const watchDebounce = 150 * time.Millisecond

// Watch calls onChange with a fresh snapshot every time db.json is written,
// until ctx is cancelled. It watches the OS filesystem regardless of the
// store's afero backend, since change notification only exists there.
//
// The containing directory is watched rather than the file so that atomic
// replace-on-save is observed.
func (s *Store) Watch(ctx context.Context, onChange func(*Database, error)) error {
	path, err := s.Path()
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	s.logger.Debugf("masscode: watching %s", path)

	target := filepath.Clean(path)
	var (
		timer   *time.Timer
		timerCh <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			timerCh = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Errorf("masscode: watch %s: %v", path, err)

		case <-timerCh:
			timerCh = nil
			if !s.Expired() {
				continue
			}
			db, err := s.Load(ctx)
			onChange(db, err)
		}
	}
}
