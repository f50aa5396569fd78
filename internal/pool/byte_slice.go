// Package pool provides recycled scratch buffers for the scanner and
// emitter hot paths.
package pool

import "sync"

const minByteSliceCapacity = 64

// ByteSlicePool hands out zero-length byte slices to be used as scratch
// buffers. Slices handed back via Put are reused by later Get calls.
type ByteSlicePool struct {
	pool sync.Pool
}

var byteSlicePool = &ByteSlicePool{
	pool: sync.Pool{
		New: func() interface{} {
			b := make([]byte, 0, minByteSliceCapacity)
			return &b
		},
	},
}

// ByteSlice returns the shared byte slice pool.
func ByteSlice() *ByteSlicePool {
	return byteSlicePool
}

// Get returns a zero-length slice with at least the default capacity.
func (p *ByteSlicePool) Get() []byte {
	return (*p.pool.Get().(*[]byte))[:0]
}

// GetCapacity returns a zero-length slice with capacity at least n.
func (p *ByteSlicePool) GetCapacity(n int) []byte {
	b := p.Get()
	if cap(b) >= n {
		return b
	}
	p.Put(b)
	return make([]byte, 0, n)
}

// Put hands b back to the pool. The caller must not use b afterwards.
func (p *ByteSlicePool) Put(b []byte) {
	b = b[:0]
	p.pool.Put(&b)
}
