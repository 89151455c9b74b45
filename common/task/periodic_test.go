package task_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	. "github.com/nstackio/netcore/common/task"
)

func TestPeriodicTaskStop(t *testing.T) {
	var period uint64
	pt := &Periodic{
		Interval: 20 * time.Millisecond,
		Execute: func() error {
			atomic.AddUint64(&period, 1)
			return nil
		},
	}

	require.NoError(t, pt.Start())
	time.Sleep(110 * time.Millisecond)
	require.NoError(t, pt.Close())

	got := atomic.LoadUint64(&period)
	require.GreaterOrEqual(t, got, uint64(3))

	time.Sleep(60 * time.Millisecond)
	require.Equal(t, got, atomic.LoadUint64(&period), "no execution should happen after Close")
}
