package sstable

import (
	"io"

	"github.com/golang/snappy"
)

// WriterOptions configures a Writer. A nil *WriterOptions is equivalent to
// the defaults described below.
type WriterOptions struct {
	// Comparer defines the key order the writer enforces and the separator
	// hooks it uses for index entries. Default: DefaultComparer.
	Comparer Comparer

	// FilterPolicy, if non-nil, enables a filter block built alongside the
	// data blocks. Default: nil (no filter block).
	FilterPolicy FilterPolicy

	// Compression selects the codec applied to data, metaindex and index
	// blocks (never the filter block, which is always stored raw).
	// Default: NoCompression, the zero value. Any value other than
	// NoCompression or SnappyCompression is replaced by SnappyCompression.
	Compression Compression

	// BlockSize is the target uncompressed size, in bytes, of each data
	// block; a soft threshold checked after every Add. Default: 4096.
	BlockSize int

	// BlockRestartInterval is the number of keys between restart points in
	// a data block. Default: 16. The index and metaindex blocks always use
	// a restart interval of 1.
	BlockRestartInterval int
}

func (o *WriterOptions) norm() *WriterOptions {
	var oo WriterOptions
	if o != nil {
		oo = *o
	}
	if oo.Comparer == nil {
		oo.Comparer = DefaultComparer
	}
	if oo.BlockSize < 1 {
		oo.BlockSize = 1 << 12
	}
	if oo.BlockRestartInterval < 1 {
		oo.BlockRestartInterval = 16
	}
	if !oo.Compression.isValid() {
		oo.Compression = SnappyCompression
	}
	return &oo
}

// flusher is satisfied by sinks that support an explicit flush after a
// write, such as *bufio.Writer. Writer checks for it with a type assertion
// rather than requiring every caller to implement a no-op Flush.
type flusher interface {
	Flush() error
}

// Writer builds a single immutable sorted table, streaming data blocks to
// an append-only sink as they fill and assembling the filter, metaindex,
// index and footer once Finish is called.
//
// Keys passed to Add must be strictly increasing according to the
// configured Comparer; violating this, or calling Add/Flush after Finish or
// Abandon, is a programmer error enforced by a panic, not a reportable
// Status value (spec.md §7). Exactly one of Finish/Abandon must be called
// before the Writer is discarded; a Writer discarded without either is not
// detected.
type Writer struct {
	w io.Writer
	o *WriterOptions

	offset int64
	status Status
	closed bool

	dataBlock  *BlockBuilder
	indexBlock *BlockBuilder
	filter     *FilterBuilder

	lastKey []byte
	arena   *Arena

	numEntries int64

	pendingIndexEntry bool
	pendingHandle     BlockHandle

	compressed []byte // scratch buffer for snappy output
}

// NewWriter wraps w, an append-only byte sink, and returns a Writer ready
// to accept entries.
func NewWriter(w io.Writer, o *WriterOptions) *Writer {
	o = o.norm()
	wr := &Writer{
		w:          w,
		o:          o,
		arena:      NewArena(),
		dataBlock:  NewBlockBuilder(o.Comparer, o.BlockRestartInterval, nil),
		indexBlock: NewBlockBuilder(o.Comparer, 1, nil),
	}
	if o.FilterPolicy != nil {
		wr.filter = NewFilterBuilder(o.FilterPolicy, nil)
		wr.filter.StartBlock(0)
	}
	return wr
}

// Add adds a key/value pair to the table. key must compare strictly
// greater than every key added so far.
func (w *Writer) Add(key, value []byte) error {
	if w.closed {
		panic("sstable: Add called after Finish or Abandon")
	}
	if !w.status.Ok() {
		return w.status
	}
	if w.numEntries > 0 && w.o.Comparer.Compare(key, w.lastKey) <= 0 {
		panic("sstable: keys must be added in strictly increasing order")
	}

	if w.pendingIndexEntry {
		if !w.dataBlock.Empty() {
			panic("sstable: pending index entry with non-empty data block")
		}
		sep := w.o.Comparer.AppendSeparator(nil, w.lastKey, key)
		handle := w.pendingHandle.encode(nil)
		w.indexBlock.Add(sep, handle)
		w.pendingIndexEntry = false
	}

	if w.filter != nil {
		w.filter.AddKey(key)
	}

	w.setLastKey(key)
	w.numEntries++
	w.dataBlock.Add(key, value)

	if w.dataBlock.CurrentSizeEstimate() >= w.o.BlockSize {
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) setLastKey(key []byte) {
	dst := w.arena.Allocate(len(key))
	copy(dst, key)
	w.lastKey = dst
}

// Flush forces the current data block to be written out immediately, even
// if it hasn't reached the configured block size. It is a no-op if the
// current data block is empty or the writer has already failed.
func (w *Writer) Flush() error {
	if w.closed {
		panic("sstable: Flush called after Finish or Abandon")
	}
	if !w.status.Ok() {
		return w.status
	}
	if w.dataBlock.Empty() {
		return nil
	}
	if w.pendingIndexEntry {
		panic("sstable: Flush called with a pending index entry outstanding")
	}

	handle, err := w.writeBlock(w.dataBlock)
	if err != nil {
		return err
	}
	w.pendingHandle = handle
	w.pendingIndexEntry = true

	if f, ok := w.w.(flusher); ok {
		if err := f.Flush(); err != nil {
			w.status = IOErrorFrom(err)
			return w.status
		}
	}

	if w.filter != nil {
		w.filter.StartBlock(uint64(w.offset))
	}
	return nil
}

// ChangeOptions replaces the writer's options. It is rejected with an
// InvalidArgument status (not a sticky one) if the comparator differs from
// the one already in use; every other field may change mid-build.
func (w *Writer) ChangeOptions(o *WriterOptions) error {
	o = o.norm()
	if o.Comparer.Name() != w.o.Comparer.Name() {
		return InvalidArgumentf("changing comparator while building table")
	}
	w.o = o
	w.indexBlock.restartInterval = 1
	return nil
}

// writeBlock finishes block, applies the compression policy, and writes
// the resulting payload plus trailer to the file, recording the handle.
func (w *Writer) writeBlock(block *BlockBuilder) (BlockHandle, error) {
	raw := block.Finish()

	payload := raw
	effective := NoCompression
	switch w.o.Compression {
	case SnappyCompression:
		w.compressed = snappy.Encode(w.compressed[:cap(w.compressed)], raw)
		if len(w.compressed) < len(raw)-len(raw)/8 {
			payload = w.compressed
			effective = SnappyCompression
		}
	}

	handle, err := w.writeRawBlock(payload, effective)
	w.compressed = w.compressed[:0]
	block.Reset()
	return handle, err
}

// writeRawBlock appends payload and its trailer to the file without any
// further transformation, recording its handle. On any append error it
// sets the sticky status and leaves offset unchanged.
func (w *Writer) writeRawBlock(payload []byte, typ Compression) (BlockHandle, error) {
	handle := BlockHandle{Offset: uint64(w.offset), Size: uint64(len(payload))}

	if _, err := w.w.Write(payload); err != nil {
		w.status = IOErrorFrom(err)
		return handle, w.status
	}

	var trailer [blockTrailerSize]byte
	trailer[0] = byte(typ)
	crc := crc32cValue(payload)
	crc = crc32cExtend(crc, trailer[:1])
	le := maskCRC(crc)
	trailer[1] = byte(le)
	trailer[2] = byte(le >> 8)
	trailer[3] = byte(le >> 16)
	trailer[4] = byte(le >> 24)

	if _, err := w.w.Write(trailer[:]); err != nil {
		w.status = IOErrorFrom(err)
		return handle, w.status
	}

	w.offset += int64(len(payload) + blockTrailerSize)
	return handle, nil
}

// Finish flushes any pending data, writes the filter, metaindex and index
// blocks, and appends the footer. It is idempotent with Abandon in that
// exactly one of the two must be called; calling either twice panics.
func (w *Writer) Finish() error {
	if w.closed {
		panic("sstable: Finish called twice, or after Abandon")
	}
	_ = w.Flush() // Flush only fails by setting w.status, which the steps below already check.
	w.closed = true

	var filterHandle, metaIndexHandle, indexHandle BlockHandle

	if w.status.Ok() && w.filter != nil {
		payload := w.filter.Finish()
		var err error
		filterHandle, err = w.writeRawBlock(payload, NoCompression)
		if err != nil {
			return err
		}
	}

	if w.status.Ok() {
		metaBlock := NewBlockBuilder(w.o.Comparer, 1, nil)
		if w.filter != nil {
			key := filterMetaIndexPrefix + w.o.FilterPolicy.Name()
			metaBlock.Add([]byte(key), filterHandle.encode(nil))
		}
		var err error
		metaIndexHandle, err = w.writeBlock(metaBlock)
		if err != nil {
			return err
		}
	}

	if w.status.Ok() {
		if w.pendingIndexEntry {
			succ := w.o.Comparer.AppendSuccessor(nil, w.lastKey)
			handle := w.pendingHandle.encode(nil)
			w.indexBlock.Add(succ, handle)
			w.pendingIndexEntry = false
		}
		var err error
		indexHandle, err = w.writeBlock(w.indexBlock)
		if err != nil {
			return err
		}
	}

	if w.status.Ok() {
		footer := make([]byte, 0, footerSize)
		footer = metaIndexHandle.encode(footer)
		footer = indexHandle.encode(footer)
		if len(footer) > 2*maxHandleEncodedLen {
			w.status = IOErrorFrom(errHandleTooLong)
			return w.status
		}
		padding := make([]byte, 2*maxHandleEncodedLen-len(footer))
		footer = append(footer, padding...)
		footer = append(footer, magic[:]...)

		if _, err := w.w.Write(footer); err != nil {
			w.status = IOErrorFrom(err)
			return w.status
		}
		w.offset += int64(len(footer))
	}

	return w.Status()
}

// Abandon marks the writer closed without writing anything further. The
// partial file already written is left for the caller to discard.
func (w *Writer) Abandon() {
	if w.closed {
		panic("sstable: Abandon called twice, or after Finish")
	}
	w.closed = true
}

// NumEntries returns the number of key/value pairs added so far.
func (w *Writer) NumEntries() int64 { return w.numEntries }

// FileSize returns the number of bytes appended to the sink so far.
func (w *Writer) FileSize() int64 { return w.offset }

// Status returns the first error observed, or nil if the writer hasn't
// failed.
func (w *Writer) Status() error {
	if w.status.Ok() {
		return nil
	}
	return w.status
}
