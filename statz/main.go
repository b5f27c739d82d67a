package main

import (
	. "fmt"
	"github.com/dterei/gotsc"
	"github.com/p7r0x7/shavow/sha2"
	"github.com/zeebo/blake3"
	"runtime"
	"sync"
	"testing"
	"time"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.
// Statz measures what the collision search actually spends its time on: the fixed-point step,
// one short formatted input hashed per iteration. Every SHA-2 variant is measured, with blake3 as
// a non-SHA-2 yardstick; cycle counts come from the TSC where the platform exposes it.

var prefix, suffix = []byte{0x00, 0x11, 0x22, 0x33}, []byte{0x33, 0x22, 0x11, 0x00}

const middle = 8

var calltime = gotsc.TSCOverhead()

// stepLoop iterates digest -> prefix ‖ digest[:middle] ‖ suffix -> digest, the hot loop
// of stage 1, b.N times.
func stepLoop(sum func(out, in []byte), size int) func(b *testing.B) {
	return func(b *testing.B) {
		in := make([]byte, 0, len(prefix)+middle+len(suffix))
		digest := make([]byte, size)
		b.ResetTimer()
		for i := b.N; i > 0; i-- {
			in = append(in[:0], prefix...)
			in = append(in, digest[:middle]...)
			in = append(in, suffix...)
			sum(digest, in)
		}
	}
}

// benchAlg runs one algorithm under testing.Benchmark while a sampler goroutine keeps a
// running estimate of the TSC rate, yielding hashes per second and cycles per hash.
func benchAlg(name string, alg func(b *testing.B)) {
	totalHz, polls, mut := uint64(0), uint64(0), &sync.Mutex{}
	if calltime > 0 {
		go func() {
			for {
				tsc1 := gotsc.BenchStart()
				time.Sleep(time.Millisecond)
				tsc2 := gotsc.BenchEnd()

				mut.Lock()
				totalHz += tsc2 - tsc1 - calltime
				polls++
				mut.Unlock()

				time.Sleep(time.Millisecond * 9)
			}
		}()
	}
	r := testing.Benchmark(alg)
	mut.Lock()
	defer mut.Unlock()

	perSec := float64(r.N) / r.T.Seconds()
	Printf("%-14s %12.4g hashes/s", name, perSec)
	if calltime > 0 && polls > 0 {
		Printf("  %9.4g cycles/hash", float64(totalHz*1000)/float64(polls)/perSec)
	}
	Println()
}

func main() {
	Printf("Running Statz on %d CPUs!\n%s/%s\n\n", runtime.NumCPU(), runtime.GOOS, runtime.GOARCH)
	t := time.Now()

	for _, v := range []sha2.Variant{
		sha2.SHA224, sha2.SHA256, sha2.SHA384,
		sha2.SHA512, sha2.SHA512t224, sha2.SHA512t256,
	} {
		benchAlg(v.String(), stepLoop(v.Sum, v.Size()))
	}
	benchAlg("BLAKE3-256", stepLoop(func(out, in []byte) {
		sum := blake3.Sum256(in)
		copy(out, sum[:])
	}, 32))

	Println("\nFinished in " + time.Since(t).Truncate(time.Millisecond).String() + ".")
}
