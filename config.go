package shavow

import (
	"errors"
	"fmt"
	"github.com/p7r0x7/shavow/sha2"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.
// Run-time parameters of the collision search and their validation. Everything is compiled in;
// vowsum may override any of it from the command line.

// A Hasher is the black-box digest primitive iterated by the search: one full
// update-then-digest pass over in, written to the first Size() bytes of out.
type Hasher interface {
	Size() int
	Sum(out, in []byte)
}

// Params configures both stages of the search.
type Params struct {
	// Variant selects the SHA-2 function under attack. Ignored when Hash is non-nil.
	Variant sha2.Variant

	// Hash, when non-nil, replaces Variant's digest entirely. Tests substitute reduced
	// functions here.
	Hash Hasher

	// N is the partial-collision width in bytes: the search succeeds when two distinct
	// inputs produce digests agreeing in their first N bytes. N is also the width of the
	// variable middle of every input.
	N int

	// K is the distinguished-point width: a digest beginning with K zero bytes ends a
	// chain. 1 <= K <= N.
	K int

	// Prefix and Suffix bracket the N-byte middle of every candidate input.
	Prefix, Suffix []byte

	// Threads is the count of independent walkers, not OS threads; walkers are
	// multiplexed over GOMAXPROCS goroutines.
	Threads int

	// BatchSize is the number of iterations every walker performs between joins.
	BatchSize int

	// DPArrayLen bounds the distinguished points recorded per walker per batch. Records
	// past the bound are dropped (the walk itself continues unharmed).
	DPArrayLen int

	// MaxBatches, when positive, caps stage 1; the run then reports no collision within
	// budget. Zero means run until the first hit.
	MaxBatches int
}

// ErrConfig is wrapped by every validation failure.
var ErrConfig = errors.New("invalid configuration")

// Defaults returns the compiled-in configuration: SHA-256, an 8-byte partial collision
// with 2-byte distinguished points, twenty thousand walkers.
func Defaults() Params {
	return Params{
		Variant:    sha2.SHA256,
		N:          8,
		K:          2,
		Prefix:     []byte{0x00, 0x11, 0x22, 0x33},
		Suffix:     []byte{0x33, 0x22, 0x11, 0x00},
		Threads:    20_000,
		BatchSize:  100_000,
		DPArrayLen: 100,
	}
}

func (p *Params) hasher() Hasher {
	if p.Hash != nil {
		return p.Hash
	}
	return p.Variant
}

// Validate reports the first violated constraint, if any.
func (p *Params) Validate() error {
	d := p.hasher().Size()
	switch {
	case p.N < 1 || p.N > d:
		return fmt.Errorf("%w: N = %d must be within [1, %d]", ErrConfig, p.N, d)
	case p.K < 1 || p.K > p.N:
		return fmt.Errorf("%w: K = %d must be within [1, N = %d]", ErrConfig, p.K, p.N)
	case p.Threads < 1:
		return fmt.Errorf("%w: at least one walker is required", ErrConfig)
	case p.BatchSize < 1:
		return fmt.Errorf("%w: batches must be at least one step long", ErrConfig)
	case p.DPArrayLen < 1:
		return fmt.Errorf("%w: distinguished-point arrays need capacity for at least one record", ErrConfig)
	case p.MaxBatches < 0:
		return fmt.Errorf("%w: batch budget cannot be negative", ErrConfig)
	}
	return nil
}
