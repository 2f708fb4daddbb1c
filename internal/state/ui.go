// Package state hosts the observable client-side state holders: the global
// busy/error channel the dispatcher feeds, plus the persisted theme and
// onboarding-draft slices.
package state

import (
	"sync"
)

// UIState tracks in-flight requests and the last unconsumed error message.
// The busy count never goes below zero; the error slot holds at most one
// message and is cleared when consumed.
type UIState struct {
	mu        sync.Mutex
	pending   int
	lastError string
	hasError  bool
	busySubs  []func(pending int)
	errorSubs []func(message string)
}

// NewUIState returns an idle state holder.
func NewUIState() *UIState {
	return &UIState{}
}

// StartRequest increments the in-flight counter.
func (u *UIState) StartRequest() {
	u.mu.Lock()
	u.pending++
	pending := u.pending
	subs := append([]func(int){}, u.busySubs...)
	u.mu.Unlock()

	for _, fn := range subs {
		fn(pending)
	}
}

// EndRequest decrements the in-flight counter, flooring at zero.
func (u *UIState) EndRequest() {
	u.mu.Lock()
	if u.pending > 0 {
		u.pending--
	}
	pending := u.pending
	subs := append([]func(int){}, u.busySubs...)
	u.mu.Unlock()

	for _, fn := range subs {
		fn(pending)
	}
}

// Pending returns the current in-flight request count.
func (u *UIState) Pending() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.pending
}

// Busy reports whether a loading overlay should be visible.
func (u *UIState) Busy() bool {
	return u.Pending() > 0
}

// SetError publishes a human-readable error message, replacing any
// unconsumed one.
func (u *UIState) SetError(message string) {
	u.mu.Lock()
	u.lastError = message
	u.hasError = true
	subs := append([]func(string){}, u.errorSubs...)
	u.mu.Unlock()

	for _, fn := range subs {
		fn(message)
	}
}

// ConsumeError returns and clears the pending error message so it cannot
// surface twice.
func (u *UIState) ConsumeError() (string, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.hasError {
		return "", false
	}
	msg := u.lastError
	u.lastError = ""
	u.hasError = false
	return msg, true
}

// OnBusyChange registers a callback invoked with the pending count after
// every change.
func (u *UIState) OnBusyChange(fn func(pending int)) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.busySubs = append(u.busySubs, fn)
}

// OnError registers a callback invoked with every published error message.
func (u *UIState) OnError(fn func(message string)) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.errorSubs = append(u.errorSubs, fn)
}
