package main

import (
	. "github.com/spf13/pflag"
	"os"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

var pVariant, pPrefix, pSuffix = "", "", ""
var pN, pK, pThreads, pBatch, pDPLen, pBudget uint
var pNoCodesDefault = false
var pHelp, pNoCodes, pQuiet bool
var yell, purp, und, zero = "\033[33m", "\033[35m", "\033[4m", "\033[0m"

func init() {
	for _, arg := range os.Args[1:] {
		switch arg {
		case "--no-codes=false":
			pNoCodes = false
		case "--quiet", "--quiet=true":
			pNoCodes, pQuiet = true, true
		case "--no-codes", "--no-codes=true":
			pNoCodes = true
		}
	}
	if pNoCodes {
		yell, purp, und, zero = "", "", "", ""
	}

	BoolVarP(&pHelp, "help", "h", false,
		purp+"print this help menu"+zero+n)

	StringVarP(&pVariant, "algorithm", "a", "256",
		purp+"attack this SHA-2 variant"+zero+
			n+purp+"(224, 256, 384, 512, 512/224, or 512/256)"+zero)

	UintVarP(&pBatch, "batch", "B", 100_000,
		purp+"steps every walker takes between merges"+zero)

	UintVarP(&pBudget, "budget", "m", 0,
		purp+"abandon the search after this many batches"+zero+
			n+"(0 runs until the first hit)")

	UintVarP(&pK, "distinguished", "k", 2,
		purp+"zero bytes that make a digest a distinguished point"+zero)

	UintVarP(&pDPLen, "dp-array", "d", 100,
		purp+"distinguished points stored per walker per batch"+zero)

	Bool("no-codes", pNoCodesDefault,
		purp+"print to console w/o formatting codes"+zero)

	StringVarP(&pPrefix, "prefix", "p", "00112233",
		purp+"hex bytes laid before every input's variable middle"+zero)

	Bool("quiet", false,
		purp+"suppress progress and print ONLY the outcome"+zero+
			n+"(enables --no-codes)")

	StringVarP(&pSuffix, "suffix", "s", "33221100",
		purp+"hex bytes laid after every input's variable middle"+zero)

	UintVarP(&pThreads, "threads", "T", 20_000,
		purp+"independent walkers to run"+zero)

	UintVarP(&pN, "width", "w", 8,
		purp+"leading digest bytes that must collide"+zero+
			n+"(also the byte width of the variable middle)")

	/* Order flags alphabetically except for help, which is hoisted to the top. */
	CommandLine.SortFlags = false
	Parse()
}
