// Copyright 2014 Dmitry Chestnykh. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fspoll implements a primitive polling-based filesystem watcher.
package fspoll

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

type Watcher struct {
	roots         []string
	excludeGlobs  []string
	state         map[string]os.FileInfo
	interval      time.Duration
	sleepInterval time.Duration

	// event channels
	Change chan bool
	Error  chan error
}

const (
	DefaultInterval = 1 * time.Second
	SleepAfter      = 5 * time.Minute
)

// Watch polls the given directories and subdirectories and files inside
// them, excluding the given globs, for changes with the given interval.
// Roots that don't exist are ignored until they appear.
//
// When there was no change for the given interval in 5 minutes, interval
// changes to sleepInterval (interval * 5 by default).
// It's back to normal interval if a change is detected.
// If sleepInterval is negative, don't sleep.
//
// Watching stops when ctx is done.
func Watch(ctx context.Context, roots []string, excludeGlobs []string, interval, sleepInterval time.Duration) (w *Watcher, err error) {
	if interval == 0 {
		interval = DefaultInterval
	}
	if sleepInterval < 0 {
		sleepInterval = interval
	} else if sleepInterval == 0 {
		sleepInterval = interval * 5
	}
	w = &Watcher{
		roots:         roots,
		excludeGlobs:  excludeGlobs,
		interval:      interval,
		sleepInterval: sleepInterval,
		Change:        make(chan bool),
		Error:         make(chan error),
	}
	// Get initial state
	w.state, err = w.getState()
	if err != nil {
		return nil, err
	}
	// Start watching goroutine
	go w.start(ctx)
	return w, nil
}

func (w *Watcher) start(ctx context.Context) {
	lastChangeTime := time.Now()
	currentInterval := w.interval
	for {
		hasChange, err := w.check()
		switch {
		case err != nil:
			select {
			case w.Error <- err:
			case <-ctx.Done():
				return
			}
		case hasChange:
			now := time.Now()
			if now.Sub(lastChangeTime) > SleepAfter {
				currentInterval = w.sleepInterval
			} else {
				currentInterval = w.interval
			}
			lastChangeTime = now
			select {
			case w.Change <- true:
			case <-ctx.Done():
				return
			}
		}
		select {
		case <-time.After(currentInterval):
			continue
		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) excluded(path string, fi os.FileInfo) (bool, error) {
	for _, glob := range w.excludeGlobs {
		matched, err := filepath.Match(glob, path)
		if err != nil {
			return false, err
		}
		if !matched {
			matched, err = filepath.Match(glob, fi.Name())
			if err != nil {
				return false, err
			}
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}

func (w *Watcher) getState() (map[string]os.FileInfo, error) {
	ns := make(map[string]os.FileInfo)
	for _, root := range w.roots {
		err := filepath.Walk(root, func(path string, fi os.FileInfo, err error) error {
			if err != nil {
				if path == root && os.IsNotExist(err) {
					return nil
				}
				return err
			}
			skip, err := w.excluded(path, fi)
			if err != nil {
				return err
			}
			if skip {
				if fi.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			ns[path] = fi
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return ns, nil
}

func (w *Watcher) check() (hasChange bool, err error) {
	ns, err := w.getState()
	if err != nil {
		return false, err
	}
	defer func() {
		// Set new state as current when this function finishes.
		w.state = ns
	}()
	if len(ns) != len(w.state) {
		return true, nil
	}
	// Compare files.
	for path, nfi := range ns {
		ofi, ok := w.state[path]
		if !ok {
			// New file.
			return true, nil
		}
		// Compare modes.
		if ofi.Mode() != nfi.Mode() {
			return true, nil
		}
		if !ofi.IsDir() {
			// Compare times.
			if !ofi.ModTime().Equal(nfi.ModTime()) {
				return true, nil
			}
			// Compare sizes.
			if ofi.Size() != nfi.Size() {
				return true, nil
			}
		}
	}
	// Deleted files were caught by comparing lengths
	// unless a file was deleted and another one added.
	for opath := range w.state {
		if _, ok := ns[opath]; !ok {
			return true, nil
		}
	}
	// Nothing changed.
	return false, nil
}
