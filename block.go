package sstable

// BlockHandle locates a block's payload within the file: its starting
// offset and its size, excluding the 5-byte trailer. It is encoded as two
// consecutive varint64s wherever it is stored (index entries, the
// metaindex entry, the footer).
type BlockHandle struct {
	Offset uint64
	Size   uint64
}

// encode appends the handle's varint64 encoding to dst.
func (h BlockHandle) encode(dst []byte) []byte {
	dst = putVarint64(dst, h.Offset)
	dst = putVarint64(dst, h.Size)
	return dst
}

// decodeBlockHandle decodes a BlockHandle from the head of b, returning the
// handle and the number of bytes consumed.
func decodeBlockHandle(b []byte) (BlockHandle, int) {
	off, n1 := getVarint64(b)
	size, n2 := getVarint64(b[n1:])
	return BlockHandle{Offset: off, Size: size}, n1 + n2
}

// BlockBuilder accumulates a strictly increasing sequence of key/value
// pairs into a single prefix-compressed block, tracking restart points so
// a reader can binary search the block without decoding it end to end.
//
// An entry is encoded as:
//
//	shared:     varint32  // bytes shared with the preceding key
//	non_shared: varint32  // len(key) - shared
//	value_len:  varint32
//	key_tail:   non_shared bytes (key[shared:])
//	value:      value_len bytes
//
// Every restartInterval'th entry becomes a restart point: shared is forced
// to 0 and the full key is stored, so a reader can jump there and resume
// scanning without needing any earlier entry.
type BlockBuilder struct {
	cmp             Comparer
	restartInterval int
	arena           *Arena

	buffer   []byte
	restarts []uint32
	counter  int
	lastKey  []byte
	finished bool
}

// NewBlockBuilder returns a BlockBuilder that restarts every
// restartInterval entries and orders keys according to cmp. The builder
// keeps its own copy of the last key added: in memory allocated from arena
// if arena is non-nil, otherwise in a buffer the builder owns.
func NewBlockBuilder(cmp Comparer, restartInterval int, arena *Arena) *BlockBuilder {
	if cmp == nil {
		cmp = DefaultComparer
	}
	if restartInterval < 1 {
		restartInterval = 1
	}
	b := &BlockBuilder{
		cmp:             cmp,
		restartInterval: restartInterval,
		arena:           arena,
	}
	b.restarts = append(b.restarts, 0)
	return b
}

// Empty reports whether any entry has been added since construction or the
// last Reset.
func (b *BlockBuilder) Empty() bool { return len(b.buffer) == 0 }

// CurrentSizeEstimate returns the exact number of bytes Finish would emit
// for the block as it currently stands.
func (b *BlockBuilder) CurrentSizeEstimate() int {
	return len(b.buffer) + 4*len(b.restarts) + 4
}

// Add appends a key/value pair to the block. key must compare strictly
// greater than the previous key added since construction or the last
// Reset; violating this, or calling Add after Finish, is a programmer
// error and panics, matching the assertion-level preconditions spec.md §7
// describes.
func (b *BlockBuilder) Add(key, value []byte) {
	if b.finished {
		panic("sstable: Add called on a finished BlockBuilder")
	}
	if b.counter > b.restartInterval {
		panic("sstable: restart counter overflowed restart interval")
	}
	if len(b.buffer) != 0 && b.cmp.Compare(key, b.lastKey) <= 0 {
		panic("sstable: keys must be added in strictly increasing order")
	}

	shared := 0
	if b.counter < b.restartInterval {
		shared = sharedPrefixLen(b.lastKey, key)
	} else {
		b.restarts = append(b.restarts, uint32(len(b.buffer)))
		b.counter = 0
	}
	nonShared := len(key) - shared

	b.buffer = putVarint32(b.buffer, uint32(shared))
	b.buffer = putVarint32(b.buffer, uint32(nonShared))
	b.buffer = putVarint32(b.buffer, uint32(len(value)))
	b.buffer = append(b.buffer, key[shared:]...)
	b.buffer = append(b.buffer, value...)

	b.setLastKey(key)
	b.counter++
}

func (b *BlockBuilder) setLastKey(key []byte) {
	if b.arena == nil {
		b.lastKey = append(b.lastKey[:0], key...)
		return
	}
	dst := b.arena.Allocate(len(key))
	copy(dst, key)
	b.lastKey = dst
}

// Finish appends the restart-point trailer and returns the full encoded
// block. The returned slice is owned by the builder and is invalidated by
// the next call to Reset.
func (b *BlockBuilder) Finish() []byte {
	for _, r := range b.restarts {
		b.buffer = putFixed32(b.buffer, r)
	}
	b.buffer = putFixed32(b.buffer, uint32(len(b.restarts)))
	b.finished = true
	return b.buffer
}

// Reset clears the builder so it can be reused for another block.
func (b *BlockBuilder) Reset() {
	b.buffer = b.buffer[:0]
	b.restarts = append(b.restarts[:0], 0)
	b.counter = 0
	b.lastKey = b.lastKey[:0]
	b.finished = false
}
