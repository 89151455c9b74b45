// Package loopback is the degenerate device backend that only ever talks
// to itself: Transmit feeds the frame straight back into the protocol
// dispatcher's ingress queue instead of touching any real hardware.
package loopback

import (
	"github.com/nstackio/netcore/device"
	"github.com/nstackio/netcore/proto"
)

// DefaultMTU matches the common loopback convention of a large MTU, since
// there is no real link to fragment across.
const DefaultMTU = 65535

// Backend is a device.Ops that re-injects every transmitted frame as an
// inbound frame on the same device.
type Backend struct {
	protocols *proto.Dispatcher
}

// New creates a loopback backend bound to protocols, the dispatcher frames
// should be re-injected into.
func New(protocols *proto.Dispatcher) *Backend {
	return &Backend{protocols: protocols}
}

// Open is a no-op; a loopback device has nothing to bring up.
func (b *Backend) Open(*device.Device) error { return nil }

// Close is a no-op, symmetric with Open.
func (b *Backend) Close(*device.Device) error { return nil }

// Transmit hands data straight back to the dispatcher as if it had just
// arrived on dev, under the same protocol type it was sent as.
func (b *Backend) Transmit(dev *device.Device, etherType uint16, data []byte, _ []byte) error {
	return b.protocols.InputHandler(proto.Type(etherType), data, len(data), dev)
}

// NewDevice allocates, configures and registers a loopback device against
// registry, wiring its backend to protocols.
func NewDevice(registry *device.Registry, protocols *proto.Dispatcher) *device.Device {
	dev := registry.Alloc()
	dev.Type = device.TypeLoopback
	dev.MTU = DefaultMTU
	dev.Flags = device.Loopback
	dev.Ops = New(protocols)
	registry.Register(dev)
	return dev
}
