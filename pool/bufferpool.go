// pool/bufferpool.go
// Author: momentics <momentics@gmail.com>
//
// PaddedBufferPool hands out byte slices carrying a fixed amount of
// trailing spare capacity.

package pool

import (
	"sync"

	"github.com/relaywire/wsframe/api"
)

// PaddedBufferPool is a sync.Pool-backed source of []byte buffers whose
// capacity always exceeds their requested length by at least Padding
// bytes of trailing slack, for callers that read directly into pooled
// memory ahead of a Parser.Consume call. Parser.Consume itself reads and
// writes only within the slice it is given, so it does not depend on
// this slack; no leading slack is reserved.
//
// Get/Put are concurrency-safe; a buffer must not be used after Put.
type PaddedBufferPool struct {
	// Padding is the trailing slack, in bytes, reserved beyond the
	// requested length on every Get.
	Padding int

	mu     sync.RWMutex
	closed bool
	pool   sync.Pool
}

// NewPaddedBufferPool returns a pool whose buffers carry padding bytes
// of trailing slack beyond whatever length Get is asked for.
func NewPaddedBufferPool(padding int) *PaddedBufferPool {
	return &PaddedBufferPool{Padding: padding}
}

// Get returns a buffer of length n with at least Padding bytes of spare
// capacity beyond n. Buffers are not zeroed between reuses; callers
// that need zeroed memory must clear it themselves. Get returns
// api.ErrBufferPoolClosed once Close has been called.
func (p *PaddedBufferPool) Get(n int) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return nil, api.ErrBufferPoolClosed
	}

	if v := p.pool.Get(); v != nil {
		buf := v.([]byte)
		if cap(buf) >= n+p.Padding {
			return buf[:n], nil
		}
	}
	return make([]byte, n, n+p.Padding), nil
}

// Put returns buf to the pool for reuse. Callers must not retain buf
// (or any slice derived from it) after calling Put. Put is a no-op
// returning api.ErrBufferPoolClosed once Close has been called, since a
// closed pool discards rather than retains buffers.
func (p *PaddedBufferPool) Put(buf []byte) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return api.ErrBufferPoolClosed
	}
	p.pool.Put(buf[:0])
	return nil
}

// Close marks the pool closed: subsequent Get/Put calls return
// api.ErrBufferPoolClosed instead of handing out or retaining memory.
// Close is idempotent.
func (p *PaddedBufferPool) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}
