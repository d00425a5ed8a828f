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

package waker

import "sync"

// ManualWaker is a Waker for tests: nothing wakes until the test calls
// Fire, at which point every channel handed out so far becomes ready.
// Channels obtained after a Fire wait for the next one.
type ManualWaker struct {
	mu   sync.Mutex
	wake chan struct{}
}

// NewManual creates a ManualWaker.
func NewManual() *ManualWaker {
	return &ManualWaker{wake: make(chan struct{})}
}

// Wake satisfies the Waker interface.
func (w *ManualWaker) Wake() <-chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.wake
}

// Fire releases everyone currently blocked on a Wake channel and arms a
// fresh channel for subsequent Wake calls.
func (w *ManualWaker) Fire() {
	w.mu.Lock()
	defer w.mu.Unlock()
	close(w.wake)
	w.wake = make(chan struct{})
}

// alwaysWaker never blocks the wakee.
type alwaysWaker struct {
	wake chan struct{}
}

// NewTestAlways creates a Waker whose channels are always already ready,
// for tests that drive their polling loop as fast as it will go.
func NewTestAlways() Waker {
	w := &alwaysWaker{
		wake: make(chan struct{}),
	}
	close(w.wake)
	return w
}

func (w *alwaysWaker) Wake() <-chan struct{} {
	return w.wake
}
