// Package task provides small run-to-completion helpers shared by the
// components that need background upkeep outside of the interrupt worker,
// such as the flow-log batch flusher.
package task

import (
	"sync"
	"time"

	"github.com/nstackio/netcore/common/errors"
)

// Periodic is a task that runs repeatedly on a fixed interval until Close.
type Periodic struct {
	// Interval of the task being run.
	Interval time.Duration
	// Execute is the task function.
	Execute func() error

	access  sync.Mutex
	timer   *time.Timer
	running bool
}

func (t *Periodic) hasClosed() bool {
	t.access.Lock()
	defer t.access.Unlock()

	return !t.running
}

func (t *Periodic) checkedExecute() {
	if t.hasClosed() {
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				errors.LogError(nil, "periodic task panic: ", r)
			}
		}()

		if err := t.Execute(); err != nil {
			errors.LogWarningInner(nil, err, "periodic task execution failed")
		}

		t.access.Lock()
		if t.running {
			t.timer = time.AfterFunc(t.Interval, t.checkedExecute)
		}
		t.access.Unlock()
	}()
}

// Start implements the Runnable convention used across the stack. The first
// execution runs one Interval after Start.
func (t *Periodic) Start() error {
	t.access.Lock()
	defer t.access.Unlock()
	if t.running {
		return nil
	}
	t.running = true
	t.timer = time.AfterFunc(t.Interval, t.checkedExecute)
	return nil
}

// Close implements the Closable convention used across the stack.
func (t *Periodic) Close() error {
	t.access.Lock()
	defer t.access.Unlock()

	t.running = false
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}

	return nil
}
