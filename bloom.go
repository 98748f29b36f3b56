package sstable

// FilterPolicy names a filter algorithm and knows how to build its encoded
// form for a set of keys. Its Name is persisted inside the metaindex block
// as part of the key "filter.<name>"; changing it invalidates any reader
// configured to expect a different policy.
type FilterPolicy interface {
	Name() string
	CreateFilter(keys [][]byte) []byte
}

// BloomFilterPolicy builds LevelDB-compatible Bloom filters. A Writer uses
// it only when it is set as WriterOptions.FilterPolicy (for example via
// NewBloomFilterPolicy); a nil FilterPolicy disables the filter block.
type BloomFilterPolicy struct {
	// BitsPerKey controls the filter's size/false-positive-rate tradeoff.
	// 10 bits per key yields roughly a 1% false positive rate.
	BitsPerKey int
}

// NewBloomFilterPolicy returns a BloomFilterPolicy using bitsPerKey bits of
// filter space per key added.
func NewBloomFilterPolicy(bitsPerKey int) *BloomFilterPolicy {
	return &BloomFilterPolicy{BitsPerKey: bitsPerKey}
}

// Name identifies the filter's on-disk encoding. This exact string is part
// of the format and must never change.
func (p *BloomFilterPolicy) Name() string { return "leveldb.BuiltinBloomFilter2" }

// CreateFilter builds a single Bloom filter covering all of keys, appending
// the trailing number-of-probes byte the way leveldb's BloomFilterPolicy does.
func (p *BloomFilterPolicy) CreateFilter(keys [][]byte) []byte {
	bitsPerKey := p.BitsPerKey
	if bitsPerKey < 0 {
		bitsPerKey = 0
	}

	// 0.69 is approximately ln(2); this is the standard number-of-probes
	// derivation used by leveldb's BloomFilterPolicy::CreateFilter.
	k := int(float64(bitsPerKey) * 0.69)
	if k < 1 {
		k = 1
	}
	if k > 30 {
		k = 30
	}

	nBits := len(keys) * bitsPerKey
	// Enforce a minimum filter length to keep the false-positive rate sane
	// for very small key sets.
	if nBits < 64 {
		nBits = 64
	}
	nBytes := (nBits + 7) / 8
	nBits = nBytes * 8

	buf := make([]byte, nBytes+1)
	for _, key := range keys {
		h := bloomHash(key)
		delta := h>>17 | h<<15
		for j := 0; j < k; j++ {
			bitPos := h % uint32(nBits)
			buf[bitPos/8] |= 1 << (bitPos % 8)
			h += delta
		}
	}
	buf[nBytes] = byte(k)
	return buf
}

// bloomMayContain reports whether filter may have been built over a set
// containing key. False positives are possible; false negatives are not.
func bloomMayContain(filter, key []byte) bool {
	if len(filter) < 2 {
		return false
	}
	k := filter[len(filter)-1]
	if k > 30 {
		// Reserved for future encodings; treat as a match.
		return true
	}
	nBits := uint32(8 * (len(filter) - 1))
	h := bloomHash(key)
	delta := h>>17 | h<<15
	for j := uint8(0); j < k; j++ {
		bitPos := h % nBits
		if filter[bitPos/8]&(1<<(bitPos%8)) == 0 {
			return false
		}
		h += delta
	}
	return true
}

// bloomHash implements leveldb's Hash() function, a Murmur-like hash tuned
// for the Bloom filter's bit-selection needs.
func bloomHash(b []byte) uint32 {
	const (
		seed = 0xbc9f1d34
		m    = 0xc6a4a793
	)
	h := uint32(seed) ^ uint32(len(b))*m
	for ; len(b) >= 4; b = b[4:] {
		h += uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
		h *= m
		h ^= h >> 16
	}
	switch len(b) {
	case 3:
		h += uint32(b[2]) << 16
		fallthrough
	case 2:
		h += uint32(b[1]) << 8
		fallthrough
	case 1:
		h += uint32(b[0])
		h *= m
		h ^= h >> 24
	}
	return h
}
