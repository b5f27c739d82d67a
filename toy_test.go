package shavow

import (
	"encoding/binary"
	"github.com/zeebo/xxh3"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.
// A reduced stand-in digest for engine tests: xxh3 of the input, truncated, with the leading byte
// optionally masked down so distinguished points and collisions arrive within a few hundred steps.

type toyHash struct {
	size int
	mask byte /* 0 means leave the leading byte alone */
}

func (t toyHash) Size() int { return t.size }

func (t toyHash) String() string { return "toy" }

func (t toyHash) Sum(out, in []byte) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], xxh3.Hash(in))
	for i := 0; i < t.size; i++ {
		out[i] = buf[i%8]
	}
	if t.mask != 0 {
		out[0] &= t.mask
	}
}

// toyParams is the shared fast-converging configuration: a 2-byte digest whose leading
// byte takes only four values, so chains self-intersect within tens of steps and every
// cycle almost surely contains a distinguished point.
func toyParams() Params {
	return Params{
		Hash:       toyHash{size: 2, mask: 0x03},
		N:          2,
		K:          1,
		Prefix:     []byte{0x5a},
		Suffix:     []byte{0xa5},
		Threads:    4,
		BatchSize:  256,
		DPArrayLen: 256,
		MaxBatches: 32,
	}
}

// walkDigests returns the digest sequence d_1..d_count obtained by hashing start and
// then iterating the fixed-point map, alongside the inputs that produced each digest.
func walkDigests(p Params, start []byte, count int) (ins, digests [][]byte) {
	fmtr := &formatter{prefix: p.Prefix, suffix: p.Suffix, n: p.N}
	h := p.hasher()
	s := newChainState(start, h)
	ins = append(ins, append([]byte(nil), s.In...))
	digests = append(digests, append([]byte(nil), s.Digest...))
	for i := 1; i < count; i++ {
		s.step(fmtr, h)
		ins = append(ins, append([]byte(nil), s.In...))
		digests = append(digests, append([]byte(nil), s.Digest...))
	}
	return ins, digests
}
