package sstable

// filterBaseLg is the log2 of the byte width of a filter shard: filters are
// regenerated every 2KiB (1<<11 bytes) of data-block output. Readers must
// read this value back out of Finish's trailing byte rather than assume
// it, since a future format revision could change it.
const (
	filterBaseLg = 11
	filterBase   = 1 << filterBaseLg
)

// FilterBuilder accumulates keys and periodically emits per-shard filters
// indexed by the byte offset of the data block that produced them, so a
// reader can locate the right filter purely from a block's starting
// offset. The sequence of calls must match (StartBlock AddKey*)* Finish.
type FilterBuilder struct {
	policy FilterPolicy
	arena  *Arena

	keys          []byte
	starts        []int
	result        []byte
	filterOffsets []uint32
}

// NewFilterBuilder returns a FilterBuilder that builds filters with policy.
// AddKey always copies key bytes into the builder's own key buffer; if arena
// is non-nil, each key is first copied into memory allocated from it.
func NewFilterBuilder(policy FilterPolicy, arena *Arena) *FilterBuilder {
	return &FilterBuilder{policy: policy, arena: arena}
}

// StartBlock advances the shard bookkeeping to cover blockOffset, emitting
// an empty-shard marker for every 2KiB shard skipped over. A single data
// block spanning more than one shard produces multiple consecutive empty
// markers; this is intentional, since the reader indexes filters strictly
// by offset and a skipped shard must still occupy a slot.
func (b *FilterBuilder) StartBlock(blockOffset uint64) {
	filterIndex := blockOffset / filterBase
	for filterIndex > uint64(len(b.filterOffsets)) {
		b.generateFilter()
	}
}

// AddKey records key as belonging to the shard currently being
// accumulated. Must be called between StartBlock invocations.
func (b *FilterBuilder) AddKey(key []byte) {
	b.starts = append(b.starts, len(b.keys))
	if b.arena == nil {
		b.keys = append(b.keys, key...)
		return
	}
	dst := b.arena.Allocate(len(key))
	copy(dst, key)
	b.keys = append(b.keys, dst...)
}

// Finish flushes any buffered keys into a final shard and returns the
// complete filter block payload, laid out as:
//
//	filter_0 .. filter_{N-1} | offset_0 (u32 LE) .. offset_{N-1} (u32 LE) | array_offset (u32 LE) | base_lg (1 byte)
//
// The returned slice is owned by the builder.
func (b *FilterBuilder) Finish() []byte {
	if len(b.starts) > 0 {
		b.generateFilter()
	}

	arrayOffset := uint32(len(b.result))
	for _, off := range b.filterOffsets {
		b.result = putFixed32(b.result, off)
	}
	b.result = putFixed32(b.result, arrayOffset)
	b.result = append(b.result, byte(filterBaseLg))
	return b.result
}

func (b *FilterBuilder) generateFilter() {
	numKeys := len(b.starts)
	if numKeys == 0 {
		b.filterOffsets = append(b.filterOffsets, uint32(len(b.result)))
		return
	}

	b.starts = append(b.starts, len(b.keys)) // simplify length computation
	keys := make([][]byte, numKeys)
	for i := 0; i < numKeys; i++ {
		keys[i] = b.keys[b.starts[i]:b.starts[i+1]]
	}

	b.filterOffsets = append(b.filterOffsets, uint32(len(b.result)))
	b.result = append(b.result, b.policy.CreateFilter(keys)...)

	b.keys = b.keys[:0]
	b.starts = b.starts[:0]
}
