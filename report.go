package shavow

import (
	"bytes"
	"fmt"
	"io"
	"time"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.
// The final report and the whole-attack driver tying both stages together.

// A Report summarizes one complete run.
type Report struct {
	Collision  bool
	Degenerate bool /* the hit's two chain starts (or final inputs) were identical */
	Budgeted   bool /* stage 1 stopped at the batch cap without a hit */
	WalkedOut  bool /* stage 2 consumed both chains without the states meeting */
	Matched    int  /* longest common digest prefix, in bytes */
	HashCount  uint64
	Duration   time.Duration
	Input1, Input2   []byte
	Output1, Output2 []byte
}

// write renders the report, one fact per line.
func (r *Report) write(out io.Writer) {
	switch {
	case r.Collision:
		secs := r.Duration.Seconds()
		speed := float64(r.HashCount)
		if secs > 0 {
			speed /= secs
		}
		fmt.Fprintf(out, "Found a partial collision! (%d bytes matched)\n", r.Matched)
		fmt.Fprintf(out, "Total hash counts: %d\n", r.HashCount)
		fmt.Fprintf(out, "Duration: %.3f seconds\n", secs)
		fmt.Fprintf(out, "Hashing speed: %.0f hashes per second\n", speed)
		fmt.Fprintf(out, "Input 1: %x\nOutput 1: %x\nInput 2: %x\nOutput 2: %x\n",
			r.Input1, r.Output1, r.Input2, r.Output2)
	case r.Budgeted:
		fmt.Fprintf(out, "no collision within budget.\n")
	case r.Degenerate:
		fmt.Fprintf(out, "False collision: both chains began from, or converged onto, the same input.\nno collision.\n")
	default:
		fmt.Fprintf(out, "no collision.\n")
	}
}

// Run performs the complete attack: banner, stage 1, stage 2, report. All output
// streams to out. The returned Report restates what was printed.
func Run(p Params, out io.Writer) (Report, error) {
	if out == nil {
		out = io.Discard
	}
	if err := p.Validate(); err != nil {
		return Report{}, err
	}
	name := p.Variant.String()
	if p.Hash != nil {
		if s, ok := p.Hash.(fmt.Stringer); ok {
			name = s.String()
		} else {
			name = "custom hash"
		}
	}
	fmt.Fprintf(out, "Starting VOW partial collision attack on %s with N = %d and K = %d\n", name, p.N, p.K)
	fmt.Fprintf(out, "Prefix: %x\nSuffix: %x\n\n", p.Prefix, p.Suffix)

	start := time.Now()
	one, err := StageOne(p, out)
	if err != nil {
		return Report{}, err
	}
	stage1 := time.Since(start)
	fmt.Fprintf(out, "\nStage 1 ended in: %.3f seconds\n\n", stage1.Seconds())
	if !one.Found {
		report := Report{Budgeted: true, HashCount: one.HashCount, Duration: stage1}
		report.write(out)
		return report, nil
	}
	return conclude(p, one, out, start)
}

// conclude backtracks a stage-1 hit and classifies the outcome. A hit whose chains
// share a start input cannot witness two distinct colliding inputs; stage 2 still runs
// so the transcript shows where the walk ends up.
func conclude(p Params, one StageOneResult, out io.Writer, start time.Time) (Report, error) {
	degenerate := bytes.Equal(one.X, one.Y)
	two, err := StageTwo(p, one, out)
	if err != nil {
		return Report{}, err
	}
	fmt.Fprintf(out, "\n")

	report := Report{
		Degenerate: degenerate || bytes.Equal(two.X.In, two.Y.In),
		WalkedOut:  !two.Equal,
		HashCount:  one.HashCount + two.X.HashCount + two.Y.HashCount,
		Duration:   time.Since(start),
		Input1:     two.X.In, Input2: two.Y.In,
		Output1: two.X.Digest, Output2: two.Y.Digest,
	}
	report.Collision = two.Equal && !report.Degenerate
	for report.Matched < len(two.X.Digest) && two.X.Digest[report.Matched] == two.Y.Digest[report.Matched] {
		report.Matched++
	}
	report.write(out)
	return report, nil
}
