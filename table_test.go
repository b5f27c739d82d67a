package shavow

import (
	"bytes"
	"testing"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

func TestChainTableEqualityIsNBytes(t *testing.T) {
	t.Parallel()
	table := newChainTable(4, 2)
	digest := []byte{0x00, 0x00, 0xab, 0xcd, 0x11, 0x22, 0x33}
	table.insert(digest, []byte{0x01}, 9)

	/* A digest differing only past byte N must match. */
	same := []byte{0x00, 0x00, 0xab, 0xcd, 0xff, 0xff, 0xff}
	if e, ok := table.lookup(same); !ok || e.length != 9 {
		t.Fatalf("lookup ignored trailing bytes: ok=%t", ok)
	}
	/* A digest differing within the first N bytes must not, even though it shares the
	bucket-hash source bytes [K, N). */
	aliased := []byte{0x00, 0x01, 0xab, 0xcd, 0x11, 0x22, 0x33}
	if _, ok := table.lookup(aliased); ok {
		t.Fatal("lookup matched on bucket hash despite differing prefix byte")
	}
	if table.len() != 1 {
		t.Fatalf("len = %d, want 1", table.len())
	}
}

func TestChainTableStoresCopies(t *testing.T) {
	t.Parallel()
	table := newChainTable(2, 1)
	digest := []byte{0x00, 0x42}
	start := []byte{0x0a, 0x0b}
	table.insert(digest, start, 3)
	digest[1], start[0] = 0xff, 0xff
	if _, ok := table.lookup([]byte{0x00, 0x42}); !ok {
		t.Fatal("insert aliased the caller's digest buffer")
	}
	e, _ := table.lookup([]byte{0x00, 0x42})
	if !bytes.Equal(e.start, []byte{0x0a, 0x0b}) {
		t.Fatal("insert aliased the caller's start buffer")
	}
}

// Every table entry must satisfy: iterating f from its start for its length steps lands
// on a digest agreeing with the entry's key in the first N bytes.
func TestChainTableEntriesReplay(t *testing.T) {
	t.Parallel()
	p := toyParams()
	fmtr := &formatter{prefix: p.Prefix, suffix: p.Suffix, n: p.N}
	h := p.hasher()

	/* Produce a few batches' worth of points from sequential walkers, merging by the
	same rules stage 1 uses. */
	table := newChainTable(p.N, p.K)
	lastDP := make([][]byte, 2)
	snap := make([]*dpArray, 2)
	for i := range snap {
		w := newTestWalker(p, 512)
		w.seed(uint32(i))
		for n := 0; n < 300; n++ {
			w.step()
		}
		snap[i] = w.dps
		lastDP[i] = fmtr.input(seedDigest(h.Size(), uint32(i)))
	}
	var result StageOneResult
	table.mergeBatch(snap, lastDP, fmtr, &result)

	if table.len() == 0 && !result.Found {
		t.Fatal("merge produced neither entries nor a hit")
	}
	for _, bucket := range table.buckets {
		for _, e := range bucket {
			s := newChainState(e.start, h)
			for n := uint64(1); n < e.length; n++ {
				s.step(fmtr, h)
			}
			if !equalPrefix(s.Digest, e.digest, p.N) {
				t.Errorf("entry does not replay: start %x length %d reaches %x, key %x",
					e.start, e.length, s.Digest, e.digest)
			}
		}
	}
}

func TestMergeEmptySnapshotIsNoop(t *testing.T) {
	t.Parallel()
	p := toyParams()
	fmtr := &formatter{prefix: p.Prefix, suffix: p.Suffix, n: p.N}
	table := newChainTable(p.N, p.K)
	table.insert([]byte{0x00, 0x07}, []byte{0x01}, 4)

	lastDP := [][]byte{{0xaa}, {0xbb}}
	want0, want1 := lastDP[0], lastDP[1]
	snap := []*dpArray{newDPArray(4, 4, 2), newDPArray(4, 4, 2)}
	var result StageOneResult
	maxDP := table.mergeBatch(snap, lastDP, fmtr, &result)

	if result.Found || maxDP != 0 || table.len() != 1 {
		t.Fatalf("empty merge changed state: found=%t maxDP=%d len=%d", result.Found, maxDP, table.len())
	}
	if &lastDP[0][0] != &want0[0] || &lastDP[1][0] != &want1[0] {
		t.Fatal("empty merge advanced lastDP")
	}
}

// The first hit in (walker index, buffer order) wins, even when a later buffer holds an
// earlier-inserted key.
func TestMergeTieBreak(t *testing.T) {
	t.Parallel()
	p := toyParams()
	fmtr := &formatter{prefix: p.Prefix, suffix: p.Suffix, n: p.N}
	table := newChainTable(p.N, p.K)
	table.insert([]byte{0x00, 0x11}, []byte{0x01}, 100)
	table.insert([]byte{0x00, 0x22}, []byte{0x02}, 200)

	mk := func(digests ...[]byte) *dpArray {
		a := newDPArray(4, 1, 2)
		for i, d := range digests {
			a.append([]byte{byte(i)}, d, uint64(i+1))
		}
		return a
	}
	/* Walker 0's second record and walker 1's first record both recur; walker 0 wins. */
	snap := []*dpArray{
		mk([]byte{0x00, 0x33}, []byte{0x00, 0x22}),
		mk([]byte{0x00, 0x11}),
	}
	lastDP := [][]byte{{0xa0}, {0xa1}}
	var result StageOneResult
	table.mergeBatch(snap, lastDP, fmtr, &result)

	if !result.Found {
		t.Fatal("no hit")
	}
	if result.XSteps != 200 || !bytes.Equal(result.DPDigest, []byte{0x00, 0x22}) {
		t.Errorf("hit = key %x after %d steps, want key 0022 after 200", result.DPDigest, result.XSteps)
	}
	if result.YSteps != 2 {
		t.Errorf("YSteps = %d, want the record's own since field 2", result.YSteps)
	}
	/* Walker 0's fresh key 0033 was inserted before the hit; walker 1's buffer was
	never reached. */
	if _, ok := table.lookup([]byte{0x00, 0x33}); !ok {
		t.Error("record before the hit was not inserted")
	}
	if table.len() != 3 {
		t.Errorf("len = %d, want 3", table.len())
	}
}

// A key recurring within one walker's own chain is a valid hit.
func TestMergeSelfCollision(t *testing.T) {
	t.Parallel()
	p := toyParams()
	fmtr := &formatter{prefix: p.Prefix, suffix: p.Suffix, n: p.N}
	table := newChainTable(p.N, p.K)

	a := newDPArray(4, 1, 2)
	a.append([]byte{0x01}, []byte{0x00, 0x55}, 10)
	a.append([]byte{0x02}, []byte{0x00, 0x55}, 7)
	lastDP := [][]byte{{0xa0}}
	var result StageOneResult
	table.mergeBatch([]*dpArray{a}, lastDP, fmtr, &result)

	if !result.Found || result.XSteps != 10 || result.YSteps != 7 {
		t.Fatalf("self-collision: found=%t xs=%d ys=%d", result.Found, result.XSteps, result.YSteps)
	}
	/* Y chains from the first point's formatted digest, not from the batch start. */
	if !bytes.Equal(result.Y, fmtr.input([]byte{0x00, 0x55})) {
		t.Errorf("Y = %x, want the formatted prior point", result.Y)
	}
}
