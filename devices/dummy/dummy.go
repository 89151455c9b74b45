// Package dummy is a black-hole device backend: it accepts and discards
// every frame handed to Transmit. It exists to exercise the output path
// (MTU gating, checksum computation, device selection) without a real NIC
// or the loopback shortcut.
package dummy

import (
	"github.com/nstackio/netcore/common/errors"
	"github.com/nstackio/netcore/device"
)

// DefaultMTU is a conservative Ethernet-sized default.
const DefaultMTU = 1500

// Backend is a device.Ops that discards everything it is given.
type Backend struct {
	Sent [][]byte
}

// New creates a dummy backend.
func New() *Backend {
	return &Backend{}
}

// Open is a no-op.
func (b *Backend) Open(*device.Device) error { return nil }

// Close is a no-op.
func (b *Backend) Close(*device.Device) error { return nil }

// Transmit records a copy of data for inspection and discards it
// otherwise.
func (b *Backend) Transmit(dev *device.Device, etherType uint16, data []byte, _ []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)
	b.Sent = append(b.Sent, cp)
	errors.LogDebug(nil, "dummy: discarding ", len(data), "-byte frame on ", dev.Name)
	return nil
}

// NewDevice allocates, configures and registers a dummy device against
// registry, returning both the Device and its Backend for inspection.
func NewDevice(registry *device.Registry) (*device.Device, *Backend) {
	backend := New()
	dev := registry.Alloc()
	dev.Type = device.TypeDummy
	dev.MTU = DefaultMTU
	dev.Ops = backend
	registry.Register(dev)
	return dev, backend
}
