package flowlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRecordQueuesPendingEntries(t *testing.T) {
	s := NewSink(nil, time.Hour)
	s.Record("net0", "127.0.0.1", "127.0.0.2", 17, 5)
	s.Record("net0", "127.0.0.1", "127.0.0.3", 6, 10)

	s.mu.Lock()
	defer s.mu.Unlock()
	require.Len(t, s.pending, 2)
	require.Equal(t, "127.0.0.2", s.pending[0].Dst)
	require.NotEmpty(t, s.pending[0].ID)
}

func TestFlushWithNothingPendingIsNoop(t *testing.T) {
	s := NewSink(nil, time.Hour)
	require.NoError(t, s.Flush(), "an empty batch must short-circuit before touching the collection")
}
