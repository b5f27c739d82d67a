package main

import (
	"encoding/hex"
	. "fmt"
	"github.com/klauspost/cpuid/v2"
	"github.com/p7r0x7/shavow"
	"github.com/p7r0x7/shavow/sha2"
	"github.com/p7r0x7/vainpath"
	"github.com/spf13/pflag"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"unicode/utf8"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.
// This program is a command-line interface for the shavow collision search: it maps flags onto the
// compiled-in defaults, announces the device it will burn, and streams both stages' transcripts.

const n = "\n"
const success, failure, invalid = 0, 1, 2

func main() { os.Exit(program()) }

// help prints a usage menu to standard error. To consistently correctly
// render this menu in most terminal windows, its content should be no wider than 80
// columns.
func help() {
	origin, err := os.Executable()
	if err != nil {
		origin = "vowsum" /* Default binary name */
	} else {
		origin = filepath.Base(origin)
	}
	name := vainpath.Trim(origin, "…", 12)
	spaces := strings.Repeat(" ", utf8.RuneCountInString(name)+3)
	Fprint(os.Stderr, yell, "Parallel van Oorschot–Wiener partial-collision search for SHA-2.", zero, n+n+
		"Usage:"+n+
		"  ", name, " [-h]"+n,
		spaces, "[-a <variant>] [-w <uint>] [-k <uint>] [-p <hex>] [-s <hex>]"+n,
		spaces, "[-T <uint>] [-B <uint>] [-d <uint>] [-m <uint>]"+n,
		spaces, "[--quiet|no-codes]"+n+n+
			"Options:"+n)
	pflag.PrintDefaults()
	Fprint(os.Stderr, n+"Two inputs bracketed by the prefix and suffix whose digests share their"+n+
		"first `width` bytes are found in expected time 2**(4*width) hashes; every"+n+
		"parameter is compiled in and these flags merely override it."+n)
}

func program() int {
	if pHelp {
		help()
		return success
	}

	cfg := shavow.Defaults()
	variant, err := sha2.Parse(pVariant)
	if err != nil {
		Fprint(os.Stderr, purp, err.Error(), zero, n)
		return invalid
	}
	cfg.Variant = variant
	if cfg.Prefix, err = hex.DecodeString(pPrefix); err != nil {
		Fprint(os.Stderr, purp, "Prefix must be hex bytes.", zero, n)
		return invalid
	}
	if cfg.Suffix, err = hex.DecodeString(pSuffix); err != nil {
		Fprint(os.Stderr, purp, "Suffix must be hex bytes.", zero, n)
		return invalid
	}
	cfg.N, cfg.K = int(pN), int(pK)
	cfg.Threads, cfg.BatchSize = int(pThreads), int(pBatch)
	cfg.DPArrayLen, cfg.MaxBatches = int(pDPLen), int(pBudget)
	if err = cfg.Validate(); err != nil {
		Fprint(os.Stderr, purp, err.Error(), zero, n)
		return invalid
	}

	out := io.Writer(os.Stdout)
	if pQuiet {
		out = io.Discard
	} else {
		Println(divider)
		Printf("Selected device: %s (%d logical cores, GOMAXPROCS %d)\n",
			cpuid.CPU.BrandName, cpuid.CPU.LogicalCores, runtime.GOMAXPROCS(0))
		Println(divider)
	}

	report, err := shavow.Run(cfg, out)
	if err != nil {
		Fprint(os.Stderr, purp, err.Error(), zero, n)
		return failure
	}
	if pQuiet {
		if !report.Collision {
			Println("no collision.")
			return success
		}
		Printf("%x\n%x\n%x\n%x\n", report.Input1, report.Output1, report.Input2, report.Output2)
	}
	return success
}

var divider = "\n=====================================================================" + n
