// split-sums splits "<metric>_running_sum.csv" screening result files into
// one directory per metric and receptor, with the per-receptor split.csv,
// ligands.name and decoys.name files the enrichment collector consumes.
package main

import (
	"flag"

	"github.com/lyulab/benchmarking-af3/cmd/util"
	"github.com/lyulab/benchmarking-af3/enrich"
)

var (
	flagInputDir = "."
	flagOutDir   = "."
)

func init() {
	flag.StringVar(&flagInputDir, "i", flagInputDir,
		"The directory searched for *_running_sum.csv files.")
	flag.StringVar(&flagOutDir, "o", flagOutDir,
		"The base directory for the split receptor directories.")
	util.FlagParse("", "")
	util.AssertNArg(0)
}

func main() {
	util.AssertIsDir(flagInputDir)
	util.Assert(enrich.SplitRunningSums(flagInputDir, flagOutDir),
		"Could not split running sums under '%s'", flagInputDir)
}
