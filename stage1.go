package shavow

import (
	"fmt"
	"io"
	"runtime"
	"sync"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.
// Stage 1: massively parallel distinguished-point search. Walkers advance in lockstep batches; at
// every batch boundary the host snapshots their point arrays, relaunches the walkers, and merges
// the snapshot into the chain table while the next batch runs. The first key already present in
// the table ends the stage.

// StageOneResult describes the first cross-chain hit: two formatted inputs X and Y whose
// chains reach the same distinguished point after XSteps and YSteps applications of f.
type StageOneResult struct {
	X, Y           []byte
	XSteps, YSteps uint64
	DPDigest       []byte
	HashCount      uint64 /* summed over walkers at the last boundary before the hit */
	Batches        int
	Dropped        int /* points lost to full arrays, if any */
	Found          bool
}

// StageOne runs the parallel search until a distinguished point recurs or the batch
// budget runs out. Progress lines stream to out.
func StageOne(p Params, out io.Writer) (StageOneResult, error) {
	if out == nil {
		out = io.Discard
	}
	if err := p.Validate(); err != nil {
		return StageOneResult{}, err
	}
	hash := p.hasher()
	fmtr := &formatter{prefix: p.Prefix, suffix: p.Suffix, n: p.N}
	inLen, dLen := fmtr.inputLen(), hash.Size()

	/* Point arrays come in pairs so that merging one batch can overlap running the
	next: the snapshot being merged is never the array being filled. */
	walkers := make([]*walker, p.Threads)
	spare := make([]*dpArray, p.Threads)
	snap := make([]*dpArray, p.Threads)
	lastDP := make([][]byte, p.Threads)
	for i := range walkers {
		walkers[i] = &walker{
			in:   make([]byte, 0, inLen),
			dps:  newDPArray(p.DPArrayLen, inLen, dLen),
			fmtr: fmtr, hash: hash, k: p.K,
		}
		spare[i] = newDPArray(p.DPArrayLen, inLen, dLen)
	}

	/* The initial batch seeds every walker before stepping it. Host-side, each chain
	nominally starts at the seed's formatted input even though the walkers have already
	consumed a full batch by the first merge. */
	runBatch(walkers, p.BatchSize, true)
	for i := range lastDP {
		lastDP[i] = fmtr.input(seedDigest(dLen, uint32(i)))
	}

	table := newChainTable(p.N, p.K)
	result := StageOneResult{}
	warned := false
	for batch := 1; ; batch++ {
		/* Boundary: walkers are quiescent. Sum their work and swap in the spare point
		arrays, then set the walkers running again before touching the snapshot. */
		result.HashCount = 0
		for _, w := range walkers {
			result.HashCount += w.hashCount
		}
		for i, w := range walkers {
			snap[i], w.dps = w.dps, spare[i]
			w.dps.reset()
		}
		join := make(chan struct{})
		go func() {
			runBatch(walkers, p.BatchSize, false)
			close(join)
		}()

		maxDP := table.mergeBatch(snap, lastDP, fmtr, &result)
		result.Batches = batch
		<-join
		copy(spare, snap) /* Merged arrays become the next boundary's spares. */

		if result.Found {
			fmt.Fprintf(out, "Batch: %d,\tTotal hash counts: %d\n", batch, result.HashCount)
			fmt.Fprintf(out, "\nStage 1 ended with the following DP collision:\n")
			fmt.Fprintf(out, "DP Collided: %x\n", result.DPDigest)
			fmt.Fprintf(out, "X (%d steps before DP Collided):\n%x\n", result.XSteps, result.X)
			fmt.Fprintf(out, "Y (%d steps before DP Collided):\n%x\n", result.YSteps, result.Y)
			return result, nil
		}
		fmt.Fprintf(out, "Batch: %d,\tTotal hash counts: %d,\tDP chain counts: %d,\tmax_dp_count: %d\n",
			batch, result.HashCount, table.len(), maxDP)
		if result.Dropped > 0 && !warned {
			warned = true
			fmt.Fprintf(out, "Warning: %d distinguished points were dropped from full arrays; raise DPArrayLen.\n", result.Dropped)
		}
		if p.MaxBatches > 0 && batch >= p.MaxBatches {
			fmt.Fprintf(out, "\nStage 1 found no collision within the %d-batch budget.\n", p.MaxBatches)
			return result, nil
		}
	}
}

// runBatch drives every walker through exactly batchSize steps, multiplexed over the
// available CPUs. It returns only once all walkers have joined.
func runBatch(walkers []*walker, batchSize int, seedFirst bool) {
	procs := runtime.GOMAXPROCS(0)
	if procs > len(walkers) {
		procs = len(walkers)
	}
	chunk := (len(walkers) + procs - 1) / procs
	var group sync.WaitGroup
	for lo := 0; lo < len(walkers); lo += chunk {
		hi := lo + chunk
		if hi > len(walkers) {
			hi = len(walkers)
		}
		group.Add(1)
		go func(lo int, ws []*walker) {
			for i, w := range ws {
				if seedFirst {
					w.seed(uint32(lo + i))
				}
				for n := batchSize; n > 0; n-- {
					w.step()
				}
			}
			group.Done()
		}(lo, walkers[lo:hi])
	}
	group.Wait()
}

// mergeBatch folds one batch's distinguished points into the table in canonical order:
// ascending walker index, then production order. The first recurring key wins and ends
// the merge at once. On a miss the point is inserted and the walker's chain start
// advances to the point's formatted digest. Returns the largest single-walker point
// count observed before the merge ended.
func (t *chainTable) mergeBatch(snap []*dpArray, lastDP [][]byte, fmtr *formatter, result *StageOneResult) int {
	maxDP := 0
	for i, a := range snap {
		if a.count > maxDP {
			maxDP = a.count
		}
		result.Dropped += a.dropped
		for r := 0; r < a.count; r++ {
			rec := &a.recs[r]
			if prior, ok := t.lookup(rec.digest); ok {
				result.X = append([]byte(nil), prior.start...)
				result.XSteps = prior.length
				result.Y = append([]byte(nil), lastDP[i]...)
				result.YSteps = rec.since
				result.DPDigest = append([]byte(nil), rec.digest...)
				result.Found = true
				return maxDP
			}
			t.insert(rec.digest, lastDP[i], rec.since)
			lastDP[i] = fmtr.layout(lastDP[i], rec.digest)
		}
	}
	return maxDP
}
