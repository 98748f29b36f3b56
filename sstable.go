package sstable

import "errors"

// magic is written as the last 8 bytes of every table produced by this
// package. Chosen distinct from any format this package's teacher emits,
// since the wire layouts are not compatible.
var magic = [8]byte{'S', 'S', 'T', 'b', 's', 'm', 'v', '1'}

// Compression identifies the codec used to store a block's payload.
type Compression byte

// Supported compression codecs.
const (
	NoCompression     Compression = 0
	SnappyCompression Compression = 1
)

func (c Compression) isValid() bool {
	return c == NoCompression || c == SnappyCompression
}

const (
	// blockTrailerSize is the size, in bytes, of the trailer appended after
	// every block's payload: one compression-type byte plus a little-endian
	// masked CRC32C.
	blockTrailerSize = 5

	// maxHandleEncodedLen is the maximum number of bytes a single BlockHandle
	// can occupy once encoded (two varint64s).
	maxHandleEncodedLen = 2 * 10

	// footerSize is the fixed size of the trailing footer record.
	footerSize = 2*maxHandleEncodedLen + 8

	// filterMetaIndexPrefix prefixes the filter policy's name to form the
	// metaindex key pointing at the filter block.
	filterMetaIndexPrefix = "filter."
)

var errHandleTooLong = errors.New("sstable: encoded block handle exceeds footer budget")
