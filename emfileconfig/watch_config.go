package emfileconfig

import (
	"fmt"
	"path"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

const retryDuration = time.Second

type fileWatcher struct {
	watcher  *fsnotify.Watcher
	loggers  ldlog.Loggers
	reload   func()
	path     string
	absPaths map[string]bool
}

// WatchConfig calls reload whenever the settings file at path is modified, and once
// immediately after the watch is established. It returns as soon as the watch is set
// up; closing closeCh stops it. The reload callback typically calls LoadConfig and
// applies the result.
func WatchConfig(path string, loggers ldlog.Loggers, reload func(), closeCh <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("unable to create file watcher: %s", err)
	}
	fw := &fileWatcher{
		watcher:  watcher,
		loggers:  loggers,
		reload:   reload,
		path:     path,
		absPaths: make(map[string]bool),
	}
	go fw.run(closeCh)
	return nil
}

func (fw *fileWatcher) run(closeCh <-chan struct{}) {
	retryCh := make(chan struct{}, 1)
	scheduleRetry := func() {
		time.AfterFunc(retryDuration, func() {
			select {
			case retryCh <- struct{}{}: // one pending retry is enough
			default:
			}
		})
	}
	for {
		if err := fw.setupWatches(); err != nil {
			fw.loggers.Error(err.Error())
			scheduleRetry()
		}

		// Reloading here rather than after waitForEvents means a redundant load at
		// startup, but avoids missing changes made before the watch existed.
		fw.reload()

		if quit := fw.waitForEvents(closeCh, retryCh); quit {
			return
		}
	}
}

func (fw *fileWatcher) setupWatches() error {
	dirPath := path.Dir(fw.path)
	realDirPath, err := filepath.EvalSymlinks(dirPath)
	if err != nil {
		return fmt.Errorf(`unable to evaluate symlinks for "%s": %s`, dirPath, err)
	}
	realPath := path.Join(realDirPath, path.Base(fw.path))
	fw.absPaths[realPath] = true
	if err := fw.watcher.Add(realPath); err != nil {
		return fmt.Errorf(`unable to watch path "%s": %s`, realPath, err)
	}
	if err := fw.watcher.Add(realDirPath); err != nil {
		return fmt.Errorf(`unable to watch path "%s": %s`, realDirPath, err)
	}
	return nil
}

func (fw *fileWatcher) waitForEvents(closeCh <-chan struct{}, retryCh <-chan struct{}) bool {
	for {
		select {
		case <-closeCh:
			if err := fw.watcher.Close(); err != nil {
				fw.loggers.Errorf("Error closing watcher: %s", err)
			}
			return true
		case event := <-fw.watcher.Events:
			if !fw.absPaths[event.Name] {
				break
			}
			fw.consumeExtraEvents()
			return false
		case err := <-fw.watcher.Errors:
			fw.loggers.Error(err)
		case <-retryCh:
			consumeExtraRetries(retryCh)
			return false
		}
	}
}

func (fw *fileWatcher) consumeExtraEvents() {
	for {
		select {
		case <-fw.watcher.Events:
		default:
			return
		}
	}
}

func consumeExtraRetries(retryCh <-chan struct{}) {
	for {
		select {
		case <-retryCh:
		default:
			return
		}
	}
}
