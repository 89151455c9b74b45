package ip_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nstackio/netcore/ip"
)

func TestPtonNtopRoundTrip(t *testing.T) {
	cases := []string{"0.0.0.0", "127.0.0.1", "192.168.1.1", "255.255.255.255"}
	for _, s := range cases {
		addr, err := ip.Pton(s)
		require.NoError(t, err)
		require.Equal(t, s, ip.Ntop(addr))
	}
}

func TestPtonRejectsMalformed(t *testing.T) {
	cases := []string{"", "1.2.3", "1.2.3.4.5", "1.2.3.256", "1.2.3.-1", "1.2.3.a", "1..2.3", "1.2.3.4."}
	for _, s := range cases {
		_, err := ip.Pton(s)
		require.Error(t, err, "expected %q to be rejected", s)
	}
}
