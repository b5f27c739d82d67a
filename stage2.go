package shavow

import (
	"fmt"
	"io"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.
// Stage 2: single-threaded backtracking. Both chains from stage 1 terminate at the same
// distinguished point; stepping the longer one until the remaining step counts agree and then
// walking the pair in lockstep halts exactly where the two chains first produce digests sharing
// their leading N bytes.

// A ChainState replays one chain of the fixed-point map with its own hash counter.
type ChainState struct {
	In        []byte
	Digest    []byte
	HashCount uint64
}

func newChainState(in []byte, hash Hasher) ChainState {
	s := ChainState{In: append([]byte(nil), in...), Digest: make([]byte, hash.Size())}
	hash.Sum(s.Digest, s.In)
	s.HashCount = 1
	return s
}

func (s *ChainState) step(fmtr *formatter, hash Hasher) {
	s.In = fmtr.layout(s.In, s.Digest)
	hash.Sum(s.Digest, s.In)
	s.HashCount++
}

// StageTwoResult carries both final chain states. Equal distinguishes a genuine meeting
// point from a pair that used up both step counts without one.
type StageTwoResult struct {
	X, Y             ChainState
	XRemain, YRemain uint64
	Equal            bool
}

// StageTwo backtracks a stage-1 hit to the two inputs at the meeting point, streaming
// before, equal, and result snapshots to out.
func StageTwo(p Params, one StageOneResult, out io.Writer) (StageTwoResult, error) {
	if out == nil {
		out = io.Discard
	}
	if err := p.Validate(); err != nil {
		return StageTwoResult{}, err
	}
	hash := p.hasher()
	fmtr := &formatter{prefix: p.Prefix, suffix: p.Suffix, n: p.N}

	x, y := newChainState(one.X, hash), newChainState(one.Y, hash)
	xs, ys := one.XSteps, one.YSteps
	fmt.Fprintf(out, "Before: x_steps: %d, y_steps: %d\n%x\t%x\n", xs, ys, x.Digest, y.Digest)

	/* Exactly one of these loops runs. */
	for ; xs > ys; xs-- {
		x.step(fmtr, hash)
	}
	for ; xs < ys; ys-- {
		y.step(fmtr, hash)
	}
	fmt.Fprintf(out, "Equal: x_steps: %d, y_steps: %d\n%x\t%x\n", xs, ys, x.Digest, y.Digest)

	for ; !equalPrefix(x.Digest, y.Digest, p.N) && xs > 0 && ys > 0; xs, ys = xs-1, ys-1 {
		x.step(fmtr, hash)
		y.step(fmtr, hash)
	}
	equal := equalPrefix(x.Digest, y.Digest, p.N)
	fmt.Fprintf(out, "Result:\nx_steps: %d, y_steps: %d\nx_state == y_state: %t\n%x\t%x\n",
		xs, ys, equal, x.Digest, y.Digest)

	return StageTwoResult{X: x, Y: y, XRemain: xs, YRemain: ys, Equal: equal}, nil
}
