package sstable_test

import (
	"bytes"

	"github.com/bsm/sstable"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("DefaultComparer", func() {
	cmp := sstable.DefaultComparer

	It("orders bytewise, consistent with bytes.Compare", func() {
		Expect(cmp.Compare([]byte("a"), []byte("b"))).To(Equal(bytes.Compare([]byte("a"), []byte("b"))))
		Expect(cmp.Compare([]byte("ab"), []byte("a"))).To(BeNumerically(">", 0))
		Expect(cmp.Compare([]byte("a"), []byte("a"))).To(Equal(0))
	})

	It("produces a separator that is >= a and < b", func() {
		a, b := []byte("the quick brown fox"), []byte("the who")
		sep := cmp.AppendSeparator(nil, a, b)
		Expect(cmp.Compare(a, sep)).To(BeNumerically("<=", 0))
		Expect(cmp.Compare(sep, b)).To(BeNumerically("<", 0))
		Expect(sep).To(Equal([]byte("the r")))
	})

	It("leaves the separator unchanged when one key is a prefix of the other", func() {
		a, b := []byte("abc"), []byte("abcdef")
		sep := cmp.AppendSeparator(nil, a, b)
		Expect(sep).To(Equal(a))
	})

	It("treats an empty limit as positive infinity", func() {
		a := []byte("zzz")
		sep := cmp.AppendSeparator(nil, a, nil)
		Expect(sep).To(Equal(a))
	})

	It("produces the shortest successor strictly greater than the original", func() {
		succ := cmp.AppendSuccessor(nil, []byte("abc"))
		Expect(cmp.Compare(succ, []byte("abc"))).To(BeNumerically(">", 0))
		Expect(succ).To(Equal([]byte("b")))
	})

	It("leaves a run of 0xff bytes unchanged", func() {
		a := []byte{0xff, 0xff}
		succ := cmp.AppendSuccessor(nil, a)
		Expect(succ).To(Equal(a))
	})
})
