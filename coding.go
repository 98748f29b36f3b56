package sstable

import "encoding/binary"

// putVarint32 appends v to dst as a base-128 varint, LSB first with a
// continuation bit, the same encoding original_source/util/coding.cc calls
// PutVarint32.
func putVarint32(dst []byte, v uint32) []byte {
	var buf [binary.MaxVarintLen32]byte
	n := binary.PutUvarint(buf[:], uint64(v))
	return append(dst, buf[:n]...)
}

// putVarint64 appends v to dst as a base-128 varint.
func putVarint64(dst []byte, v uint64) []byte {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], v)
	return append(dst, buf[:n]...)
}

// putFixed32 appends v to dst as 4 little-endian bytes.
func putFixed32(dst []byte, v uint32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return append(dst, buf[:]...)
}

// getVarint32 decodes a varint32 from the head of b, returning the value and
// the number of bytes consumed.
func getVarint32(b []byte) (uint32, int) {
	v, n := binary.Uvarint(b)
	return uint32(v), n
}

// getVarint64 decodes a varint64 from the head of b, returning the value and
// the number of bytes consumed.
func getVarint64(b []byte) (uint64, int) {
	return binary.Uvarint(b)
}
