package sstable

import (
	"sync/atomic"
	"unsafe"
)

// arenaBlockSize is the size of each block the Arena requests from the
// runtime; matches leveldb's kBlockSize (original_source/util/arena.cc).
const arenaBlockSize = 4096

// pointerAlign is the alignment AllocateAligned guarantees: the larger of
// the platform's pointer size and 8 bytes, exactly as the original Arena
// computes it. Both operands are compile-time powers of two on every
// platform Go supports, so the runtime check below never actually fires;
// it is kept as a defensive invariant, not a reachable error path.
var pointerAlign = func() int {
	align := int(unsafe.Sizeof(uintptr(0)))
	if align < 8 {
		align = 8
	}
	if align&(align-1) != 0 {
		panic("sstable: pointer size must be a power of two")
	}
	return align
}()

// Arena is a bump-pointer allocator: it hands out byte slices from growing
// blocks and never frees an individual allocation, only the whole arena at
// once (by letting it be garbage collected). It backs the key/value string
// storage of peer components — BlockBuilder and FilterBuilder may
// optionally copy their key bytes through an Arena; without one they copy
// them into buffers of their own.
//
// All mutating methods must be called from a single goroutine at a time.
// MemoryUsage may be called concurrently with allocation from any
// goroutine.
type Arena struct {
	blocks      [][]byte
	cur         []byte // remainder of the current block available for allocation
	memoryUsage atomic.Int64
}

// NewArena returns an empty Arena.
func NewArena() *Arena {
	return &Arena{}
}

// Allocate hands out n bytes. The returned slice remains valid for the
// lifetime of the Arena; it is never individually freed.
func (a *Arena) Allocate(n int) []byte {
	if n <= 0 {
		return nil
	}
	if n <= len(a.cur) {
		b := a.cur[:n:n]
		a.cur = a.cur[n:]
		return b
	}
	return a.allocateFallback(n)
}

func (a *Arena) allocateFallback(n int) []byte {
	if n > arenaBlockSize/4 {
		// Large allocations get their own dedicated block so the current
		// block's remaining space isn't wasted on them.
		return a.allocateNewBlock(n)
	}

	block := a.allocateNewBlock(arenaBlockSize)
	a.cur = block[n:]
	return block[:n:n]
}

// AllocateAligned behaves like Allocate but the returned slice's backing
// address is aligned to pointerAlign bytes. Padding consumed to reach
// alignment counts against MemoryUsage like any other allocation.
func (a *Arena) AllocateAligned(n int) []byte {
	if len(a.cur) > 0 {
		addr := uintptr(unsafe.Pointer(&a.cur[0]))
		mod := int(addr) & (pointerAlign - 1)
		slop := 0
		if mod != 0 {
			slop = pointerAlign - mod
		}
		needed := n + slop
		if needed <= len(a.cur) {
			b := a.cur[slop : slop+n : slop+n]
			a.cur = a.cur[needed:]
			return b
		}
	}
	// allocateFallback always starts a fresh block at its head, which is
	// guaranteed aligned by the runtime allocator for any block this size.
	return a.allocateFallback(n)
}

func (a *Arena) allocateNewBlock(size int) []byte {
	block := make([]byte, size)
	a.blocks = append(a.blocks, block)
	a.memoryUsage.Add(int64(size) + int64(unsafe.Sizeof(uintptr(0))))
	return block
}

// MemoryUsage returns the total number of bytes allocated across all
// blocks plus bookkeeping overhead. It may be read concurrently with
// allocation happening on another goroutine.
func (a *Arena) MemoryUsage() int64 {
	return a.memoryUsage.Load()
}
