//
// Copyright (C) 2022 IBM Corporation.
//
// Authors:
// Frederico Araujo <frederico.araujo@ibm.com>
// Teryl Taylor <terylt@ibm.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package waker provides an interface for a routine waker.
// Adapted from https://github.com/google/mtail/tree/main/internal
package waker

import (
	"time"

	"github.com/fsnotify/fsnotify"
)

// Waker wakes up a blocked goroutine that is idling, waiting for new work to
// arrive. tail.FileSource and tail.SocketSource expose one through their
// Wake methods so a caller driving Poll can idle instead of spinning a tight
// poll loop; Poll itself never waits on it.
type Waker interface {
	// Wake returns a channel that is closed, or receivable, once new work
	// may be available.
	Wake() <-chan struct{}
}

// fsnotifyWaker wakes on filesystem events observed by an *fsnotify.Watcher
// already registered against the tailed path.
type fsnotifyWaker struct {
	watcher *fsnotify.Watcher
}

// NewFsnotify builds a Waker backed by an already-started fsnotify watcher.
func NewFsnotify(watcher *fsnotify.Watcher) Waker {
	return &fsnotifyWaker{watcher: watcher}
}

func (w *fsnotifyWaker) Wake() <-chan struct{} {
	wake := make(chan struct{})
	go func() {
		defer close(wake)
		select {
		case _, ok := <-w.watcher.Events:
			if !ok {
				return
			}
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}()
	return wake
}

// tickerWaker wakes at a fixed interval, regardless of whether anything
// changed. Used as the fallback for sources that can't watch a filesystem,
// like tail.SocketSource.
type tickerWaker struct {
	interval time.Duration
}

// NewTicker builds a Waker that fires once every interval.
func NewTicker(interval time.Duration) Waker {
	return &tickerWaker{interval: interval}
}

func (w *tickerWaker) Wake() <-chan struct{} {
	wake := make(chan struct{})
	t := time.NewTimer(w.interval)
	go func() {
		defer close(wake)
		<-t.C
	}()
	return wake
}
