// Package ip is the IPv4 interface layer: address parsing, per-device IP
// interfaces, the global IP-interface list used for source-address
// selection, and the ingress/egress datagram path. Checksum arithmetic is
// delegated to gvisor's tcpip/checksum package rather than hand-rolled, in
// keeping with this stack's treatment of checksum/byte-order helpers as an
// external collaborator.
package ip

import (
	"strconv"
	"strings"

	"github.com/nstackio/netcore/common/errors"
)

// Addr is a 32-bit IPv4 address stored in network byte order.
type Addr [4]byte

// ANY is the unspecified address 0.0.0.0.
var ANY = Addr{0, 0, 0, 0}

// LimitedBroadcast is the fixed address 255.255.255.255.
var LimitedBroadcast = Addr{255, 255, 255, 255}

// And returns the bitwise AND of a and b.
func (a Addr) And(b Addr) Addr {
	var out Addr
	for i := range a {
		out[i] = a[i] & b[i]
	}
	return out
}

// Or returns the bitwise OR of a and b.
func (a Addr) Or(b Addr) Addr {
	var out Addr
	for i := range a {
		out[i] = a[i] | b[i]
	}
	return out
}

// Not returns the bitwise complement of a.
func (a Addr) Not() Addr {
	var out Addr
	for i := range a {
		out[i] = ^a[i]
	}
	return out
}

// String formats a in dotted-quad notation.
func (a Addr) String() string {
	return addrNtop(a)
}

// Pton parses a dotted-quad string into a 32-bit big-endian address. It
// rejects out-of-range octets, non-digit characters, missing dots, and
// trailing content after the fourth octet.
func Pton(s string) (Addr, error) {
	return addrPton(s)
}

// Ntop formats the inverse of Pton.
func Ntop(a Addr) string {
	return addrNtop(a)
}

func addrPton(s string) (Addr, error) {
	var out Addr
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return out, errors.New("invalid IPv4 address ", s, ": expected 4 dot-separated octets").AtError()
	}
	for i, part := range parts {
		if part == "" {
			return out, errors.New("invalid IPv4 address ", s, ": empty octet").AtError()
		}
		for _, c := range part {
			if c < '0' || c > '9' {
				return out, errors.New("invalid IPv4 address ", s, ": non-digit octet").AtError()
			}
		}
		// Reject inputs strconv would otherwise silently accept with a
		// leading '+' or excess digits beyond uint8 range handled below.
		v, err := strconv.Atoi(part)
		if err != nil || v < 0 || v > 255 {
			return out, errors.New("invalid IPv4 address ", s, ": octet out of range").AtError()
		}
		out[i] = byte(v)
	}
	return out, nil
}

func addrNtop(a Addr) string {
	var b strings.Builder
	for i, octet := range a {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.Itoa(int(octet)))
	}
	return b.String()
}
