package sstable

import (
	"unsafe"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Arena", func() {
	var a *Arena

	BeforeEach(func() {
		a = NewArena()
	})

	It("hands out distinct, independently-addressable slices", func() {
		x := a.Allocate(8)
		y := a.Allocate(8)
		Expect(x).To(HaveLen(8))
		Expect(y).To(HaveLen(8))

		for i := range x {
			x[i] = 0xAA
		}
		for i := range y {
			y[i] = 0xBB
		}
		Expect(x).To(Equal([]byte{0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA}))
	})

	It("carves small allocations out of a shared 4096-byte block", func() {
		before := a.MemoryUsage()
		a.Allocate(16)
		a.Allocate(16)
		after := a.MemoryUsage()
		// Both allocations should have come out of one freshly requested
		// block, not two.
		Expect(after - before).To(Equal(int64(arenaBlockSize + 8)))
	})

	It("gives large allocations (> 1/4 block) their own dedicated block", func() {
		before := a.MemoryUsage()
		big := a.Allocate(arenaBlockSize/4 + 1)
		after := a.MemoryUsage()
		Expect(big).To(HaveLen(arenaBlockSize/4 + 1))
		Expect(after - before).To(Equal(int64(arenaBlockSize/4+1) + 8))
	})

	It("preserves the current block's remainder across a large fallback allocation", func() {
		a.Allocate(16) // seeds a 4096-byte block with 4080 bytes left over
		usage1 := a.MemoryUsage()

		a.Allocate(arenaBlockSize) // forces a dedicated block, remainder untouched
		usage2 := a.MemoryUsage()
		Expect(usage2 - usage1).To(Equal(int64(arenaBlockSize) + 8))

		small := a.Allocate(32) // should come out of the preserved remainder
		usage3 := a.MemoryUsage()
		Expect(usage3).To(Equal(usage2))
		Expect(small).To(HaveLen(32))
	})

	It("returns alignment-respecting pointers from AllocateAligned", func() {
		_ = a.Allocate(3) // misalign the current block's cursor
		b := a.AllocateAligned(16)
		Expect(len(b)).To(Equal(16))
		Expect(uintptr(unsafe.Pointer(&b[0])) % uintptr(pointerAlign)).To(BeZero())
	})

	It("reports memory usage concurrently with allocation", func() {
		done := make(chan struct{})
		go func() {
			for i := 0; i < 1000; i++ {
				_ = a.MemoryUsage()
			}
			close(done)
		}()
		for i := 0; i < 100; i++ {
			a.Allocate(8)
		}
		Eventually(done).Should(BeClosed())
	})
})
