// Package proto is the deferred-processing pipeline: device backends call
// InputHandler from IRQ (driver) context to enqueue a frame by protocol
// type and raise the softirq; the interrupt worker later calls
// SoftirqHandler, which drains every protocol's queue and invokes its
// upper-layer handler.
package proto

import (
	"sync"

	"github.com/nstackio/netcore/common/buf"
	"github.com/nstackio/netcore/common/errors"
	"github.com/nstackio/netcore/device"
	"github.com/nstackio/netcore/irq"
)

// Type is a 16-bit EtherType-style protocol number.
type Type uint16

// Link-layer type codes, reused from the Ethernet numbering.
const (
	TypeIPv4 Type = 0x0800
	TypeARP  Type = 0x0806
	TypeIPv6 Type = 0x86DD
)

// Handler receives a datagram in worker context, FIFO per protocol.
type Handler func(data []byte, length int, dev *device.Device)

type protocolEntry struct {
	typ     Type
	handler Handler
	queue   *fifo
}

// Dispatcher owns the protocol registry and per-protocol input queues. It
// must be driven by an irq.Subsystem: callers register it for irq.Softirq
// and arrange for InputHandler to be invoked from a device backend's own
// IRQ handler.
type Dispatcher struct {
	irqSub *irq.Subsystem

	mu      sync.Mutex
	entries []*protocolEntry
}

// New creates a Dispatcher bound to irqSub. The caller is still responsible
// for calling irqSub.RequestIRQ(irq.Softirq, d.SoftirqHandler, ...).
func New(irqSub *irq.Subsystem) *Dispatcher {
	return &Dispatcher{irqSub: irqSub}
}

// RegisterProtocol associates typ with handler and an empty input queue.
// Rejects a duplicate typ. Must be called before Run.
func (d *Dispatcher) RegisterProtocol(typ Type, handler Handler) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, e := range d.entries {
		if e.typ == typ {
			return errors.New("protocol ", uint16(typ), " already registered").AtError()
		}
	}
	d.entries = append(d.entries, &protocolEntry{typ: typ, handler: handler, queue: newFIFO()})
	return nil
}

func (d *Dispatcher) find(typ Type) *protocolEntry {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, e := range d.entries {
		if e.typ == typ {
			return e
		}
	}
	return nil
}

// InputHandler is called from device-driver context (i.e. from within an
// IRQ handler) to hand one frame to the dispatcher. If no protocol is
// registered for typ the frame is silently dropped. Otherwise the payload is
// copied byte-for-byte into an owned buffer, enqueued, and the softirq is
// raised so a future drain processes it.
func (d *Dispatcher) InputHandler(typ Type, data []byte, length int, dev *device.Device) error {
	entry := d.find(typ)
	if entry == nil {
		return nil
	}

	payload := buf.NewCopy(data[:length])
	if payload.Len() != int32(length) {
		payload.Release()
		return errors.New("short copy enqueueing protocol ", uint16(typ), " frame").AtError()
	}

	entry.queue.push(&queueItem{dev: dev, length: length, payload: payload})
	d.irqSub.Raise(irq.Softirq)
	return nil
}

// SoftirqHandler drains every protocol's queue to empty, invoking each
// entry's upper-layer handler with the payload. It is intended to be
// registered under irq.Softirq and invoked by the interrupt worker.
func (d *Dispatcher) SoftirqHandler(_ irq.Number, _ interface{}) error {
	d.mu.Lock()
	entries := make([]*protocolEntry, len(d.entries))
	copy(entries, d.entries)
	d.mu.Unlock()

	for _, e := range entries {
		for {
			item, ok := e.queue.pop()
			if !ok {
				break
			}
			e.handler(item.payload.Bytes(), item.length, item.dev)
			item.payload.Release()
		}
	}
	return nil
}
