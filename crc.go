package sstable

import "hash/crc32"

// crcTable is the Castagnoli polynomial table used throughout the format,
// matching leveldb's crc32c utility.
var crcTable = crc32.MakeTable(crc32.Castagnoli)

// crc32cValue returns the CRC32C checksum of b.
func crc32cValue(b []byte) uint32 {
	return crc32.Checksum(b, crcTable)
}

// crc32cExtend extends an existing CRC32C checksum to additionally cover b.
func crc32cExtend(crc uint32, b []byte) uint32 {
	return crc32.Update(crc, crcTable, b)
}

// maskCRC transforms a raw CRC32C value into the form stored on disk, via a
// fixed rotation plus an additive delta. This lessens the chance that
// arbitrary payload bytes are coincidentally mistaken for a checksum.
func maskCRC(c uint32) uint32 {
	return ((c >> 15) | (c << 17)) + 0xa282ead8
}

// unmaskCRC reverses maskCRC.
func unmaskCRC(masked uint32) uint32 {
	rot := masked - 0xa282ead8
	return (rot << 15) | (rot >> 17)
}
