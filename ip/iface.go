package ip

import (
	"github.com/nstackio/netcore/common/errors"
	"github.com/nstackio/netcore/device"
)

// Interface is the IPv4 attachment point for one Device: a unicast address,
// its netmask, and the broadcast address derived from the two. It
// implements device.FamilyInterface so the device registry can hold it
// without knowing anything about IP.
type Interface struct {
	dev *device.Device

	Unicast   Addr
	Netmask   Addr
	Broadcast Addr
}

// Family identifies this as the IPv4 family attachment for its Device.
func (i *Interface) Family() device.Family {
	return device.FamilyIP
}

// Device returns the Device this interface is attached to, or nil before
// IfaceRegister.
func (i *Interface) Device() *device.Device {
	return i.dev
}

// IfaceAlloc parses unicast and netmask and computes the derived broadcast
// address. The returned Interface is not yet attached to any Device; call
// Layer.IfaceRegister to attach it.
func IfaceAlloc(unicast, netmask string) (*Interface, error) {
	u, err := addrPton(unicast)
	if err != nil {
		return nil, errors.New("parsing unicast address").Base(err).AtError()
	}
	m, err := addrPton(netmask)
	if err != nil {
		return nil, errors.New("parsing netmask").Base(err).AtError()
	}
	return &Interface{
		Unicast:   u,
		Netmask:   m,
		Broadcast: u.And(m).Or(m.Not()),
	}, nil
}
