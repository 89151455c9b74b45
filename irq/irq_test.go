package irq_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nstackio/netcore/irq"
)

func TestDuplicateRequestIRQ(t *testing.T) {
	s := irq.New()
	require.NoError(t, s.RequestIRQ(10, func(irq.Number, interface{}) error { return nil }, 0, "a", nil))
	err := s.RequestIRQ(10, func(irq.Number, interface{}) error { return nil }, 0, "b", nil)
	require.Error(t, err)
}

func TestSharedRequestIRQ(t *testing.T) {
	s := irq.New()
	require.NoError(t, s.RequestIRQ(10, func(irq.Number, interface{}) error { return nil }, irq.Shared, "a", nil))
	require.NoError(t, s.RequestIRQ(10, func(irq.Number, interface{}) error { return nil }, irq.Shared, "b", nil))
}

func TestRaiseDispatchesToAllHandlers(t *testing.T) {
	s := irq.New()
	var a, b int32
	require.NoError(t, s.RequestIRQ(5, func(irq.Number, interface{}) error {
		atomic.AddInt32(&a, 1)
		return nil
	}, irq.Shared, "a", nil))
	require.NoError(t, s.RequestIRQ(5, func(irq.Number, interface{}) error {
		atomic.AddInt32(&b, 1)
		return nil
	}, irq.Shared, "b", nil))

	require.NoError(t, s.Run())
	defer s.Shutdown()

	s.Raise(5)
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&a) == 1 && atomic.LoadInt32(&b) == 1
	}, time.Second, time.Millisecond)
}

func TestShutdownJoinsWorkerQuickly(t *testing.T) {
	s := irq.New()
	require.NoError(t, s.Run())

	done := make(chan struct{})
	go func() {
		s.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("shutdown did not join worker within 100ms")
	}
}

func TestShutdownIdempotentWithoutRun(t *testing.T) {
	s := irq.New()
	require.NoError(t, s.Shutdown())
	require.NoError(t, s.Shutdown())
}

func TestShutdownSurvivesFloodedQueue(t *testing.T) {
	s := irq.New()
	block := make(chan struct{})
	require.NoError(t, s.RequestIRQ(7, func(irq.Number, interface{}) error {
		<-block
		return nil
	}, 0, "slow", nil))
	require.NoError(t, s.Run())

	// Saturate the event queue while the worker is stuck in a handler, then
	// make sure Terminate still gets through once the worker drains.
	for i := 0; i < 5000; i++ {
		s.Raise(7)
	}
	close(block)

	done := make(chan struct{})
	go func() {
		s.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown lost the terminate event under a full queue")
	}
}
