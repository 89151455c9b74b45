// Package irq is a cooperative, single-consumer dispatcher for asynchronous
// events delivered as numbered IRQs. A dedicated worker goroutine drains a
// single event queue and invokes every handler registered for the IRQ it
// observes; everything else (device-backend RX handlers included) is a
// producer that calls Raise and returns immediately.
//
// The worker drains a buffered event channel rather than waiting on a
// signal set; BridgeOSSignal lets a real os.Signal feed that same channel
// when a backend wants actual hardware-style delivery.
package irq

import (
	"sync"

	"github.com/nstackio/netcore/common/errors"
)

// Number identifies an IRQ: a small integer namespace shared by the
// dispatcher softirq, the terminate signal and device backends. A backend
// bridging real OS signals will typically use the signal number directly.
type Number int

const (
	// Softirq is reserved for the protocol dispatcher's deferred drain.
	Softirq Number = -1
	// Terminate is reserved for worker shutdown.
	Terminate Number = -2
)

// Flags modify a registration.
type Flags uint8

// Shared permits more than one handler to register for the same IRQ,
// provided every registration for that IRQ also carries Shared.
const Shared Flags = 1 << 0

// Handler is invoked by the worker when its IRQ fires. Handlers must not
// block indefinitely; anything that needs to wait should raise a follow-up
// IRQ instead.
type Handler func(irq Number, dev interface{}) error

type entry struct {
	irq     Number
	handler Handler
	flags   Flags
	name    string
	dev     interface{}
}

// queueCapacity bounds the pending-event buffer. Raise is wait-free and
// drops the event when the queue is full; a generous buffer makes that rare
// in practice without requiring an unbounded allocation per raise.
const queueCapacity = 4096

// Subsystem owns the IRQ registry and the worker that drains it. Callers
// normally reach it through a Stack, not directly.
type Subsystem struct {
	mu      sync.Mutex
	entries []entry

	events chan Number

	started bool
	ready   chan struct{}
	done    chan struct{}
}

// New creates an unstarted Subsystem.
func New() *Subsystem {
	return &Subsystem{
		events: make(chan Number, queueCapacity),
	}
}

// RequestIRQ registers handler for irq. It fails if an existing registration
// for irq does not carry Shared on both sides.
func (s *Subsystem) RequestIRQ(irq Number, handler Handler, flags Flags, name string, dev interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.irq == irq && (e.flags&Shared == 0 || flags&Shared == 0) {
			return errors.New("irq ", irq, " already registered by ", e.name, " without SHARED").AtError()
		}
	}

	s.entries = append(s.entries, entry{irq: irq, handler: handler, flags: flags, name: name, dev: dev})
	return nil
}

// Raise asynchronously schedules every handler registered for irq to run on
// the worker. It is wait-free and safe to call from any context, including
// re-entrantly from within a handler.
func (s *Subsystem) Raise(irq Number) {
	select {
	case s.events <- irq:
	default:
		errors.LogError(nil, "irq queue full, dropping raise of irq ", irq)
	}
}

// Run spawns the worker and rendezvous-waits until it is actively draining
// events. Run must be called at most once per Subsystem.
func (s *Subsystem) Run() error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return errors.New("irq worker already started").AtError()
	}
	s.started = true
	s.ready = make(chan struct{})
	s.done = make(chan struct{})
	s.mu.Unlock()

	go s.workerLoop()
	<-s.ready
	return nil
}

// isRunning reports whether Run has been called.
func (s *Subsystem) isRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// Shutdown raises Terminate and joins the worker. It is idempotent and safe
// even if Run was never called.
func (s *Subsystem) Shutdown() error {
	if !s.isRunning() {
		return nil
	}
	// Blocking send: Raise's drop-on-full discipline must not apply to
	// Terminate, or a saturated queue could swallow the shutdown request.
	select {
	case s.events <- Terminate:
	case <-s.done:
	}
	<-s.done
	return nil
}

func (s *Subsystem) workerLoop() {
	close(s.ready)
	for irq := range s.events {
		if irq == Terminate {
			close(s.done)
			return
		}
		s.dispatch(irq)
	}
}

func (s *Subsystem) dispatch(irq Number) {
	s.mu.Lock()
	// Copy under lock: the registry is append-only before Run and read-only
	// after, so this is defensive rather than load-bearing.
	matched := make([]entry, 0, 1)
	for _, e := range s.entries {
		if e.irq == irq {
			matched = append(matched, e)
		}
	}
	s.mu.Unlock()

	for _, e := range matched {
		if err := e.handler(irq, e.dev); err != nil {
			errors.LogWarningInner(nil, err, "irq handler ", e.name, " returned error")
		}
	}
}
