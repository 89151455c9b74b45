package ip

import (
	"encoding/binary"

	"gvisor.dev/gvisor/pkg/tcpip/checksum"

	"github.com/nstackio/netcore/common/errors"
	"github.com/nstackio/netcore/device"
	"github.com/nstackio/netcore/proto"
)

// defaultTTL is used for every datagram this layer originates.
const defaultTTL = 255

// Output builds and transmits one IPv4 datagram carrying protocol/data from
// src to dst. src must name one of this layer's registered interfaces;
// there is no routing table, so Output cannot originate a datagram whose
// source address isn't local.
func (l *Layer) Output(protocol uint8, data []byte, src, dst Addr) (int, error) {
	if src == ANY {
		return 0, errors.New("ip: output with unspecified source address requires routing, unimplemented").AtError()
	}
	iface := l.IfaceSelect(src)
	if iface == nil {
		return 0, errors.New("ip: no local interface owns source address ", src).AtError()
	}
	dev := iface.Device()

	totalLen := minHeaderLen + len(data)
	if totalLen > dev.MTU {
		return 0, errors.New("ip: datagram of ", totalLen, " bytes exceeds MTU ", dev.MTU, " on ", dev.Name).AtError()
	}

	hdr := make([]byte, minHeaderLen, totalLen)
	hdr[0] = (4 << 4) | (minHeaderLen / 4)
	hdr[1] = 0
	binary.BigEndian.PutUint16(hdr[2:4], uint16(totalLen))
	binary.BigEndian.PutUint16(hdr[4:6], l.nextID())
	binary.BigEndian.PutUint16(hdr[6:8], 0)
	hdr[8] = defaultTTL
	hdr[9] = protocol
	binary.BigEndian.PutUint16(hdr[10:12], 0)
	copy(hdr[12:16], src[:])
	copy(hdr[16:20], dst[:])

	sum := ^checksum.Checksum(hdr, 0)
	binary.BigEndian.PutUint16(hdr[10:12], sum)

	frame := append(hdr, data...)

	if err := l.outputDevice(iface, dev, dst, frame); err != nil {
		return 0, err
	}
	return len(frame), nil
}

// outputDevice resolves dst to a link-layer address and hands the frame to
// the device registry. Devices that need address resolution (NeedARP) can
// currently only reach their broadcast peers; unicast transmission on such
// a device requires an ARP implementation this layer does not provide.
func (l *Layer) outputDevice(iface *Interface, dev *device.Device, dst Addr, frame []byte) error {
	hwAddr := make([]byte, device.MaxHWAddrLen)
	if dev.Flags&device.NeedARP != 0 {
		if dst != iface.Broadcast && dst != LimitedBroadcast {
			return errors.New("ip: ", dev.Name, " requires address resolution for ", dst, ", unimplemented").AtError()
		}
		copy(hwAddr, dev.PeerAddr[:dev.HWAddrLen])
	}
	return l.devices.Output(dev, uint16(proto.TypeIPv4), frame, hwAddr)
}
