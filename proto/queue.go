package proto

import (
	"sync"

	"github.com/nstackio/netcore/common/buf"
	"github.com/nstackio/netcore/device"
)

// queueItem carries the owning device, the payload length, and a copied
// payload. It is owned by the queue while waiting; ownership transfers to
// the drain loop on pop and is released after the handler returns.
type queueItem struct {
	dev     *device.Device
	length  int
	payload *buf.Buffer
}

// fifo is a mutex-protected multi-producer/single-consumer queue. Producers
// are device IRQ handlers (InputHandler, possibly called concurrently from
// multiple device threads); the single consumer is SoftirqHandler's drain.
type fifo struct {
	mu    sync.Mutex
	items []*queueItem
}

func newFIFO() *fifo {
	return &fifo{}
}

func (q *fifo) push(item *queueItem) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()
}

func (q *fifo) pop() (*queueItem, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false
	}
	item := q.items[0]
	q.items = q.items[1:]
	return item, true
}
