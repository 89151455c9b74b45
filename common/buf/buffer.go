// Package buf provides the pooled byte buffer used to take ownership of a
// frame payload as it crosses from device-driver context into a protocol
// input queue.
package buf

import (
	"github.com/nstackio/netcore/common/bytespool"
	"github.com/nstackio/netcore/common/errors"
)

// Size of a frame buffer allocated without an explicit hint.
const Size = 2048

var ErrBufferFull = errors.New("buffer is full")

// ownership records whether Release() should return v to the pool.
type ownership uint8

const (
	pooled ownership = iota
	unmanaged
)

// Buffer is a recyclable, owned byte slice. Device-driver buffers are
// transient, so ingress takes ownership by copying into a Buffer before
// returning to the driver, and the worker releases it once the upper-layer
// handler returns.
type Buffer struct {
	v         []byte
	end       int32
	ownership ownership
}

// New allocates a managed Buffer with 0 length and at least Size capacity.
func New() *Buffer {
	return &Buffer{v: bytespool.Alloc(Size)}
}

// NewWithSize allocates a managed Buffer sized to hold at least size bytes.
func NewWithSize(size int32) *Buffer {
	return &Buffer{v: bytespool.Alloc(size)}
}

// NewCopy allocates a managed Buffer and copies data into it byte-for-byte.
// This is the ingress copy discipline: the returned Buffer owns its bytes
// independently of the caller's slice.
func NewCopy(data []byte) *Buffer {
	b := NewWithSize(int32(len(data)))
	b.end = int32(copy(b.v, data))
	return b
}

// FromBytes wraps an existing slice without pool ownership; Release is a
// no-op. Used for backend-owned hardware addresses and other borrowed data.
func FromBytes(b []byte) *Buffer {
	return &Buffer{v: b, end: int32(len(b)), ownership: unmanaged}
}

// Release returns the buffer to its pool. Safe to call multiple times and
// on a nil Buffer.
func (b *Buffer) Release() {
	if b == nil || b.v == nil || b.ownership == unmanaged {
		return
	}
	v := b.v
	b.v = nil
	b.end = 0
	bytespool.Free(v)
}

// Bytes returns the content of this Buffer.
func (b *Buffer) Bytes() []byte {
	if b == nil {
		return nil
	}
	return b.v[:b.end]
}

// Len returns the length of the buffer content.
func (b *Buffer) Len() int32 {
	if b == nil {
		return 0
	}
	return b.end
}

// Write appends data to the buffer, growing within its existing capacity.
func (b *Buffer) Write(data []byte) (int, error) {
	n := copy(b.v[b.end:], data)
	b.end += int32(n)
	if n < len(data) {
		return n, ErrBufferFull
	}
	return n, nil
}

// String returns the string form of this Buffer, for logging.
func (b *Buffer) String() string {
	return string(b.Bytes())
}
