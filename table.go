package shavow

import "github.com/zeebo/xxh3"

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.
// The chain table maps distinguished-point keys to the start and length of the chain that reached
// them. Keys compare equal on their digests' first N bytes; buckets hash only bytes [K, N), since
// the K leading bytes of every distinguished point are zero and carry no entropy. Bucket aliasing
// is tolerated, the N-byte comparison is authoritative.

type chainEntry struct {
	digest []byte /* the full distinguished-point digest */
	start  []byte /* formatted input that began the chain */
	length uint64 /* applications of f from start to digest */
}

type chainTable struct {
	n, k    int
	buckets map[uint64][]chainEntry
	entries int
}

func newChainTable(n, k int) *chainTable {
	return &chainTable{n: n, k: k, buckets: make(map[uint64][]chainEntry)}
}

func (t *chainTable) bucket(digest []byte) uint64 {
	return xxh3.Hash(digest[t.k:t.n])
}

func (t *chainTable) len() int { return t.entries }

// lookup returns the entry whose digest agrees with digest in its first n bytes.
func (t *chainTable) lookup(digest []byte) (chainEntry, bool) {
	for _, e := range t.buckets[t.bucket(digest)] {
		if equalPrefix(e.digest, digest, t.n) {
			return e, true
		}
	}
	return chainEntry{}, false
}

// insert stores copies of digest and start; callers keep ownership of their buffers.
func (t *chainTable) insert(digest, start []byte, length uint64) {
	b := t.bucket(digest)
	t.buckets[b] = append(t.buckets[b], chainEntry{
		digest: append([]byte(nil), digest...),
		start:  append([]byte(nil), start...),
		length: length,
	})
	t.entries++
}

func equalPrefix(a, b []byte, n int) bool {
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
