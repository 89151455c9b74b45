package ip

import (
	"sync"

	"github.com/nstackio/netcore/common/errors"
	"github.com/nstackio/netcore/device"
)

// UpperLayerHandler receives an IPv4 payload accepted by Input. This is the
// demultiplex extension point for transport protocols: RegisterUpperLayerHandler
// binds one handler per IPv4 protocol number, and Input invokes it once a
// datagram has passed the full acceptance test.
type UpperLayerHandler func(data []byte, length int, src, dst Addr, iface *Interface)

// startingID is the first value handed out by Layer's outbound datagram ID
// counter.
const startingID = 128

// Layer is the IPv4 interface layer: the global list of IP interfaces (one
// attachment point per Device, selected by Output's source address) plus
// the ingress and egress datagram paths. Layer does not own a Device's
// lifecycle or its link-layer queue; those belong to device.Registry and
// proto.Dispatcher respectively. Layer.Input is meant to be registered as
// the proto.Handler for proto.TypeIPv4.
type Layer struct {
	devices *device.Registry

	mu     sync.Mutex
	ifaces []*Interface

	idMu      sync.Mutex
	idCounter uint16

	upperMu sync.Mutex
	upper   map[uint8]UpperLayerHandler

	// AcceptObserver, if set, is called for every datagram Input accepts,
	// after acceptance but independent of whether an upper-layer handler is
	// registered for its protocol. Intended for passive accounting (see
	// package flowlog) rather than packet processing.
	AcceptObserver func(dev *device.Device, src, dst Addr, protocol uint8, length int)
}

// NewLayer creates an IPv4 layer bound to devices, the same device.Registry
// the stack's device backends are registered against.
func NewLayer(devices *device.Registry) *Layer {
	return &Layer{
		devices:   devices,
		idCounter: startingID,
		upper:     make(map[uint8]UpperLayerHandler),
	}
}

// IfaceRegister attaches iface to dev and adds it to the layer's global
// interface list used by IfaceSelect. It fails if dev already carries an
// IPv4 interface; on failure iface is left unattached and the global list
// is unchanged.
func (l *Layer) IfaceRegister(dev *device.Device, iface *Interface) error {
	if err := l.devices.AddIface(dev, iface); err != nil {
		return err
	}
	iface.dev = dev

	l.mu.Lock()
	l.ifaces = append(l.ifaces, iface)
	l.mu.Unlock()
	return nil
}

// IfaceSelect returns the registered interface whose unicast address equals
// addr, or nil if none matches. This is the layer's only form of routing:
// an outbound datagram's source address must name a local interface.
func (l *Layer) IfaceSelect(addr Addr) *Interface {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, iface := range l.ifaces {
		if iface.Unicast == addr {
			return iface
		}
	}
	return nil
}

// RegisterUpperLayerHandler binds handler to protocol, the IPv4 protocol
// number carried in the header's protocol field. It rejects a duplicate
// registration for the same protocol.
func (l *Layer) RegisterUpperLayerHandler(protocol uint8, handler UpperLayerHandler) error {
	l.upperMu.Lock()
	defer l.upperMu.Unlock()
	if _, ok := l.upper[protocol]; ok {
		return errors.New("upper-layer protocol ", protocol, " already registered").AtError()
	}
	l.upper[protocol] = handler
	return nil
}

func (l *Layer) upperHandler(protocol uint8) (UpperLayerHandler, bool) {
	l.upperMu.Lock()
	defer l.upperMu.Unlock()
	h, ok := l.upper[protocol]
	return h, ok
}

func (l *Layer) nextID() uint16 {
	l.idMu.Lock()
	defer l.idMu.Unlock()
	id := l.idCounter
	l.idCounter++
	return id
}
