package device_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nstackio/netcore/device"
)

type nopOps struct {
	openErr, closeErr error
	transmitted       [][]byte
}

func (o *nopOps) Open(*device.Device) error  { return o.openErr }
func (o *nopOps) Close(*device.Device) error { return o.closeErr }
func (o *nopOps) Transmit(dev *device.Device, etherType uint16, data []byte, dst []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)
	o.transmitted = append(o.transmitted, cp)
	return nil
}

func TestRegisterAssignsContiguousIndicesAndNames(t *testing.T) {
	r := device.NewRegistry()
	for i := 0; i < 4; i++ {
		d := r.Alloc()
		r.Register(d)
	}
	got := r.Devices()
	require.Len(t, got, 4)
	for i, d := range got {
		require.Equal(t, i, d.Index)
		require.Equal(t, "net"+string(rune('0'+i)), d.Name)
	}
}

func TestOutputGatesOnUpAndMTU(t *testing.T) {
	r := device.NewRegistry()
	ops := &nopOps{}
	d := r.Alloc()
	d.MTU = 10
	d.Ops = ops
	r.Register(d)

	require.Error(t, r.Output(d, 0x0800, make([]byte, 5), nil), "device not up yet")

	require.NoError(t, r.Open(d))
	require.Error(t, r.Open(d), "double open must fail")

	require.NoError(t, r.Output(d, 0x0800, make([]byte, 10), nil))
	require.Error(t, r.Output(d, 0x0800, make([]byte, 11), nil), "len == mtu+1 must fail")

	require.NoError(t, r.Close(d))
	require.Error(t, r.Close(d), "double close must fail")
}

type ipIface struct{ dev *device.Device }

func (ipIface) Family() device.Family { return device.FamilyIP }

func TestAddIfaceRejectsDuplicateFamily(t *testing.T) {
	r := device.NewRegistry()
	d := r.Alloc()
	r.Register(d)

	require.NoError(t, r.AddIface(d, ipIface{dev: d}))
	require.Error(t, r.AddIface(d, ipIface{dev: d}))
	require.NotNil(t, r.GetIface(d, device.FamilyIP))
	require.Nil(t, r.GetIface(d, device.FamilyIPv6))
}
