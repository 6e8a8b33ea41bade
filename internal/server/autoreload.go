package server

import (
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/velotel/dialmap/pkg/config"
	"github.com/velotel/dialmap/pkg/dialplan"
)

// installDialplanAutoReload watches the dialplan directory and reloads
// the registry after a debounce window, so a burst of editor writes
// triggers a single reload.
func installDialplanAutoReload(cfg *config.Config, reg *dialplan.Registry, mu *sync.Mutex) (io.Closer, error) {
	if cfg == nil || reg == nil || mu == nil {
		return nil, nil
	}
	if !cfg.Dialplan.AutoReload.Enabled {
		return nil, nil
	}
	dir := strings.TrimSpace(cfg.Dialplan.Dir)
	if dir == "" {
		return nil, nil
	}
	debounce := time.Duration(cfg.Dialplan.AutoReload.DebounceMs) * time.Millisecond

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := addWatchRecursive(watcher, dir); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	triggerCh := make(chan struct{}, 1)

	go func() {
		defer close(doneCh)
		var (
			timer  *time.Timer
			timerC <-chan time.Time
		)
		resetTimer := func() {
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerC = timer.C
				return
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounce)
			timerC = timer.C
		}
		runReload := func() {
			mu.Lock()
			res, err := reg.ReloadFromDir(dir)
			mu.Unlock()
			if err != nil {
				log.Printf("reload failed (dialplan auto): %v", err)
				return
			}
			logSkippedFiles(dir, res.SkippedFiles)
			log.Printf("reload ok (dialplan auto): dir=%q contexts=%d", dir, len(res.Contexts))
		}

		for {
			select {
			case <-stopCh:
				if timer != nil {
					timer.Stop()
				}
				return
			case <-timerC:
				timerC = nil
				runReload()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("dialplan auto-reload watcher error: %v", err)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if evt.Op&fsnotify.Create != 0 {
					if fi, statErr := os.Stat(evt.Name); statErr == nil && fi.IsDir() {
						if addErr := addWatchRecursive(watcher, evt.Name); addErr != nil {
							log.Printf("dialplan auto-reload add watch failed: path=%q err=%v", evt.Name, addErr)
						}
					}
				}
				if shouldTriggerReload(evt) {
					select {
					case triggerCh <- struct{}{}:
					default:
					}
				}
			case <-triggerCh:
				resetTimer()
			}
		}
	}()

	log.Printf("dialplan auto-reload enabled: dir=%q debounce_ms=%d", dir, cfg.Dialplan.AutoReload.DebounceMs)
	return closerFunc(func() error {
		close(stopCh)
		err := watcher.Close()
		<-doneCh
		return err
	}), nil
}

func addWatchRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

// shouldTriggerReload filters events down to ones that can change the
// loaded dialplan: writes, renames and removals of *.conf files, plus
// directory-level churn.
func shouldTriggerReload(evt fsnotify.Event) bool {
	const ops = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename
	if evt.Op&ops == 0 {
		return false
	}
	name := filepath.Base(evt.Name)
	if strings.HasPrefix(name, ".") {
		return false
	}
	if filepath.Ext(name) == ".conf" {
		return true
	}
	// Events on directories carry no extension; keep them.
	fi, err := os.Stat(evt.Name)
	return err == nil && fi.IsDir()
}
