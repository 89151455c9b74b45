package ip

import (
	"encoding/binary"

	"gvisor.dev/gvisor/pkg/tcpip/checksum"

	"github.com/nstackio/netcore/common/errors"
	"github.com/nstackio/netcore/device"
)

const minHeaderLen = 20

// Input is the IPv4 ingress path. It is meant to be registered as the
// proto.Handler for proto.TypeIPv4: the dispatcher hands it a datagram
// already copied out of the device's own buffer, in worker context.
//
// Each rejection is silent to the caller (there is no one to return an
// error to from inside a softirq) but logged at debug, in the fixed order
// below; the first failing check drops the datagram.
func (l *Layer) Input(data []byte, length int, dev *device.Device) {
	if length < minHeaderLen {
		errors.LogDebug(nil, "ip: runt datagram (", length, " bytes) on ", dev.Name)
		return
	}
	version := data[0] >> 4
	if version != 4 {
		errors.LogDebug(nil, "ip: unsupported version ", version, " on ", dev.Name)
		return
	}
	ihl := int(data[0]&0x0f) * 4
	if ihl < minHeaderLen || ihl > length {
		errors.LogDebug(nil, "ip: invalid header length ", ihl, " on ", dev.Name)
		return
	}
	totalLen := int(binary.BigEndian.Uint16(data[2:4]))
	if totalLen < ihl || totalLen > length {
		errors.LogDebug(nil, "ip: total length ", totalLen, " inconsistent with header length ", ihl, " and captured ", length, " bytes on ", dev.Name)
		return
	}
	if sum := checksum.Checksum(data[:ihl], 0); sum != 0xffff {
		errors.LogDebug(nil, "ip: header checksum mismatch on ", dev.Name)
		return
	}
	flagsFrag := binary.BigEndian.Uint16(data[6:8])
	moreFragments := flagsFrag&0x2000 != 0
	fragOffset := flagsFrag & 0x1fff
	if moreFragments || fragOffset != 0 {
		errors.LogDebug(nil, "ip: fragmented datagram on ", dev.Name, ", reassembly unimplemented")
		return
	}

	iface, ok := l.devices.GetIface(dev, device.FamilyIP).(*Interface)
	if !ok || iface == nil {
		errors.LogDebug(nil, "ip: ", dev.Name, " has no IPv4 interface")
		return
	}

	var dst Addr
	copy(dst[:], data[16:20])
	if dst != iface.Unicast && dst != iface.Broadcast && dst != LimitedBroadcast {
		errors.LogDebug(nil, "ip: datagram for ", dst, " not addressed to ", iface.Unicast, " or its broadcast")
		return
	}

	var src Addr
	copy(src[:], data[12:16])
	protocol := data[9]

	errors.LogInfo(nil, "ip: accepted ", totalLen, "-byte datagram from ", src, " to ", dst, " proto ", protocol, " on ", dev.Name)

	payload := data[ihl:totalLen]
	if l.AcceptObserver != nil {
		l.AcceptObserver(dev, src, dst, protocol, len(payload))
	}
	if handler, ok := l.upperHandler(protocol); ok {
		handler(payload, len(payload), src, dst, iface)
		return
	}
	errors.LogDebug(nil, "ip: no upper-layer handler for protocol ", protocol)
}
