// Package flowlog is a best-effort flow-accounting sink for accepted IPv4
// datagrams. It batches records in memory and flushes them to a Mongo
// collection on a fixed interval, fed by the IP layer's accept hook.
package flowlog

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nstackio/netcore/common/errors"
	"github.com/nstackio/netcore/common/task"
)

// Record is one accepted-datagram observation.
type Record struct {
	ID        string    `bson:"_id"`
	Timestamp time.Time `bson:"timestamp"`
	Device    string    `bson:"device"`
	Src       string    `bson:"src"`
	Dst       string    `bson:"dst"`
	Protocol  uint8     `bson:"protocol"`
	Length    int       `bson:"length"`
}

// flushTimeout bounds each batch insert so a stalled Mongo connection can't
// pile up unbounded pending records behind it indefinitely.
const flushTimeout = 10 * time.Second

// Sink accumulates Records and periodically flushes them to a Mongo
// collection. The zero value is not usable; construct with NewSink.
type Sink struct {
	collection *mongo.Collection

	mu      sync.Mutex
	pending []Record

	flush *task.Periodic
}

// NewSink creates a Sink that flushes to collection every interval. Start
// must be called to begin the flush loop.
func NewSink(collection *mongo.Collection, interval time.Duration) *Sink {
	s := &Sink{collection: collection}
	s.flush = &task.Periodic{
		Interval: interval,
		Execute:  s.flushPending,
	}
	return s
}

// Start begins the periodic flush loop.
func (s *Sink) Start() error {
	return s.flush.Start()
}

// Stop ends the periodic flush loop. It does not flush records accumulated
// since the last flush; they stay pending, so callers that need a final
// flush should call Flush before Stop.
func (s *Sink) Stop() error {
	return s.flush.Close()
}

// Record queues one accepted-datagram observation for the next flush. It
// is safe to call from the IP layer's accept hook, which runs on the
// interrupt worker.
func (s *Sink) Record(device, src, dst string, protocol uint8, length int) {
	s.mu.Lock()
	s.pending = append(s.pending, Record{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Device:    device,
		Src:       src,
		Dst:       dst,
		Protocol:  protocol,
		Length:    length,
	})
	s.mu.Unlock()
}

// Pending returns the number of records accumulated since the last flush.
func (s *Sink) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Flush inserts any pending records immediately, outside the periodic
// schedule.
func (s *Sink) Flush() error {
	return s.flushPending()
}

func (s *Sink) flushPending() error {
	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	docs := make([]interface{}, len(batch))
	for i := range batch {
		docs[i] = batch[i]
	}

	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	if _, err := s.collection.InsertMany(ctx, docs); err != nil {
		// Put the batch back so the next flush retries it, rather than
		// silently losing records on a transient connection error.
		s.mu.Lock()
		s.pending = append(batch, s.pending...)
		s.mu.Unlock()
		return errors.New("flowlog: flushing ", len(batch), " records").Base(err).AtError()
	}
	return nil
}
