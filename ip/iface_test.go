package ip_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nstackio/netcore/ip"
)

func TestIfaceAllocComputesBroadcast(t *testing.T) {
	iface, err := ip.IfaceAlloc("192.168.1.10", "255.255.255.0")
	require.NoError(t, err)
	require.Equal(t, "192.168.1.10", iface.Unicast.String())
	require.Equal(t, "255.255.255.0", iface.Netmask.String())
	require.Equal(t, "192.168.1.255", iface.Broadcast.String())
}

func TestIfaceAllocRejectsBadAddress(t *testing.T) {
	_, err := ip.IfaceAlloc("not-an-addr", "255.255.255.0")
	require.Error(t, err)
}
