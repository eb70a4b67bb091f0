package main

import (
	"log"
	"path/filepath"
	"time"

	"github.com/howeyc/fsnotify"
)

const watchDelay = 100 * time.Millisecond

// watchMode runs the program in file, and runs it again each time the
// file changes. It only returns if the watcher fails.
func watchMode(file string, cfg config) error {
	file = filepath.Clean(file)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Watch(filepath.Dir(file)); err != nil {
		return err
	}

	run := time.After(1 * time.Millisecond)
	for {
		select {
		case <-run:
			log.Printf("watch: run %s", filepath.Base(file))
			if err := runFile(file, cfg); err != nil {
				log.Printf("watch: %v", err)
			}
		case ev := <-watcher.Event:
			if filepath.Clean(ev.Name) == file && !ev.IsAttrib() && !ev.IsDelete() {
				run = time.After(watchDelay)
			}
		case err := <-watcher.Error:
			log.Printf("watch: watcher: %v", err)
		}
	}
}
