package loopback_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nstackio/netcore/core"
	"github.com/nstackio/netcore/devices/loopback"
	"github.com/nstackio/netcore/ip"
)

func TestLoopbackRoundTripsIPDatagram(t *testing.T) {
	stack := core.New()
	dev := loopback.NewDevice(stack.Devices, stack.Protocols)

	iface, err := ip.IfaceAlloc("127.0.0.1", "255.0.0.0")
	require.NoError(t, err)
	require.NoError(t, stack.IP.IfaceRegister(dev, iface))

	var gotPayload []byte
	require.NoError(t, stack.IP.RegisterUpperLayerHandler(17, func(data []byte, length int, src, dst ip.Addr, iface *ip.Interface) {
		gotPayload = append([]byte{}, data...)
	}))

	require.NoError(t, stack.Init())
	require.NoError(t, stack.Run())
	defer stack.Shutdown()

	src, _ := ip.Pton("127.0.0.1")
	dst, _ := ip.Pton("127.0.0.1")
	_, err = stack.IP.Output(17, []byte("ping"), src, dst)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return string(gotPayload) == "ping"
	}, time.Second, time.Millisecond)
}
