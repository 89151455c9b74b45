package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nstackio/netcore/core"
	"github.com/nstackio/netcore/devices/dummy"
	"github.com/nstackio/netcore/devices/loopback"
	"github.com/nstackio/netcore/flowlog"
	"github.com/nstackio/netcore/ip"
)

func TestStackLoopbackEndToEnd(t *testing.T) {
	stack := core.New()
	dev := loopback.NewDevice(stack.Devices, stack.Protocols)

	iface, err := ip.IfaceAlloc("127.0.0.1", "255.0.0.0")
	require.NoError(t, err)
	require.NoError(t, stack.IP.IfaceRegister(dev, iface))

	var delivered []byte
	require.NoError(t, stack.IP.RegisterUpperLayerHandler(17, func(data []byte, length int, src, dst ip.Addr, iface *ip.Interface) {
		delivered = append([]byte{}, data...)
	}))

	require.NoError(t, stack.Init())
	require.NoError(t, stack.Run())
	defer stack.Shutdown()

	src, _ := ip.Pton("127.0.0.1")
	dst, _ := ip.Pton("127.0.0.1")
	_, err = stack.IP.Output(17, []byte("hello"), src, dst)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return string(delivered) == "hello"
	}, time.Second, time.Millisecond)
}

func TestStackShutdownJoinsWorkerQuickly(t *testing.T) {
	stack := core.New()
	dummy.NewDevice(stack.Devices)
	require.NoError(t, stack.Init())
	require.NoError(t, stack.Run())

	done := make(chan struct{})
	go func() {
		stack.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Shutdown did not join the interrupt worker within 100ms")
	}
}

func TestStackOutputFromUnregisteredSourceFails(t *testing.T) {
	stack := core.New()
	dummy.NewDevice(stack.Devices)
	require.NoError(t, stack.Init())
	require.NoError(t, stack.Run())
	defer stack.Shutdown()

	dst, _ := ip.Pton("127.0.0.1")
	_, err := stack.IP.Output(17, []byte("x"), ip.ANY, dst)
	require.Error(t, err)
}

func TestStackFlowSinkRecordsAcceptedDatagrams(t *testing.T) {
	stack := core.New()
	dev := loopback.NewDevice(stack.Devices, stack.Protocols)
	iface, err := ip.IfaceAlloc("10.0.0.1", "255.0.0.0")
	require.NoError(t, err)
	require.NoError(t, stack.IP.IfaceRegister(dev, iface))

	sink := flowlog.NewSink(nil, time.Hour)
	stack.FlowSink = sink

	require.NoError(t, stack.Init())
	require.NoError(t, stack.Run())
	defer stack.Shutdown()

	src, _ := ip.Pton("10.0.0.1")
	dst, _ := ip.Pton("10.0.0.1")
	_, err = stack.IP.Output(6, []byte("x"), src, dst)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return sink.Pending() == 1
	}, time.Second, time.Millisecond)
}
