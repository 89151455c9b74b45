package device

import (
	"strconv"
	"sync"

	"github.com/nstackio/netcore/common/errors"
)

// Registry owns the process-wide device list. Registration is append-only
// and is expected to happen before Run; after Run the list is read-only and
// callers may range over Devices without holding the lock.
type Registry struct {
	mu      sync.Mutex
	devices []*Device
	next    int
}

// NewRegistry creates an empty device registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Alloc returns a zero-initialized device shell for a backend to fill in
// before calling Register.
func (r *Registry) Alloc() *Device {
	return &Device{}
}

// Register assigns dev its index and "net<index>" name and appends it to the
// device list. Must be called before Run.
func (r *Registry) Register(dev *Device) {
	r.mu.Lock()
	defer r.mu.Unlock()

	dev.Index = r.next
	dev.Name = "net" + strconv.Itoa(r.next)
	r.next++
	r.devices = append(r.devices, dev)
}

// Devices returns the registered devices in registration order.
func (r *Registry) Devices() []*Device {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Device, len(r.devices))
	copy(out, r.devices)
	return out
}

// AddIface attaches iface to dev, rejecting a second interface of the same
// family.
func (r *Registry) AddIface(dev *Device, iface FamilyInterface) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range dev.ifaces {
		if f.Family() == iface.Family() {
			return errors.New("device ", dev.Name, " already has a family ", int(iface.Family()), " interface").AtError()
		}
	}
	dev.ifaces = append(dev.ifaces, iface)
	return nil
}

// GetIface returns the interface of the given family attached to dev, or nil
// if none is attached.
func (r *Registry) GetIface(dev *Device, family Family) FamilyInterface {
	r.mu.Lock()
	defer r.mu.Unlock()
	return dev.Iface(family)
}

// Output gates on the device being Up and the payload fitting within MTU,
// then hands the frame to the backend's Transmit.
func (r *Registry) Output(dev *Device, etherType uint16, data []byte, dst []byte) error {
	if !dev.IsUp() {
		return errors.New("device ", dev.Name, " is not up").AtError()
	}
	if len(data) > dev.MTU {
		return errors.New("payload of ", len(data), " bytes exceeds MTU ", dev.MTU, " on ", dev.Name).AtError()
	}
	return dev.Ops.Transmit(dev, etherType, data, dst)
}

// Open brings dev up. It errors if dev is already up; otherwise it invokes
// the backend's Open hook, if any, then sets Up.
func (r *Registry) Open(dev *Device) error {
	if dev.IsUp() {
		return errors.New("device ", dev.Name, " already up").AtError()
	}
	if dev.Ops != nil {
		if err := dev.Ops.Open(dev); err != nil {
			return errors.New("opening device ", dev.Name).Base(err).AtError()
		}
	}
	dev.Flags |= Up
	return nil
}

// Close brings dev down, symmetric to Open.
func (r *Registry) Close(dev *Device) error {
	if !dev.IsUp() {
		return errors.New("device ", dev.Name, " already down").AtError()
	}
	if dev.Ops != nil {
		if err := dev.Ops.Close(dev); err != nil {
			return errors.New("closing device ", dev.Name).Base(err).AtError()
		}
	}
	dev.Flags &^= Up
	return nil
}
