// pocket-map runs the binding pocket mapping pipeline over a directory of
// complex subdirectories, one per <pdbid>_<ligandid> pair, and prints a
// summary of the complexes whose mapped pocket differs in size from the
// reference pocket.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lyulab/benchmarking-af3/cmd/util"
	"github.com/lyulab/benchmarking-af3/pocket"
)

var (
	flagDir     = "finished_outputs"
	flagCutoff  = pocket.DefaultCutoff
	flagVerbose = false
)

func init() {
	flag.StringVar(&flagDir, "dir", flagDir,
		"The directory containing one subdirectory per complex.")
	flag.Float64Var(&flagCutoff, "cutoff", flagCutoff,
		"The pocket distance cutoff in Angstroms.")
	flag.BoolVar(&flagVerbose, "verbose", flagVerbose,
		"When set, progress for each complex is logged.")
	flag.BoolVar(&flagVerbose, "v", flagVerbose,
		"Shorthand for -verbose.")
	util.FlagParse("", "")
	util.AssertNArg(0)
}

func main() {
	util.AssertIsDir(flagDir)
	entries, err := os.ReadDir(flagDir)
	util.Assert(err, "Could not read directory '%s'", flagDir)

	var results []*pocket.Result
	processed, failed := 0, 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.Contains(name, "_") {
			util.Warnf("Skipping '%s': not in <pdbid>_<ligandid> format.", name)
			continue
		}
		if flagVerbose {
			util.Warnf("Processing %s...", name)
		}

		dir := filepath.Join(flagDir, name)
		result, err := pocket.ProcessComplex(dir, name, flagCutoff, flagVerbose)
		if util.Warning(err, "Could not process '%s'", name) {
			failed++
			continue
		}
		processed++
		results = append(results, result)
	}

	fmt.Printf("Processed %d complexes (%d failed).\n", processed, failed)
	fmt.Println("Complexes with pocket size differences:")
	diffs := 0
	for _, r := range results {
		if r.Difference == 0 {
			continue
		}
		diffs++
		fmt.Printf("  %s: reference %d, mapped %d (difference %d, "+
			"unmapped %d)\n",
			r.Name, r.RefPocketSize, r.AF3PocketSize, r.Difference, r.Unmapped)
	}
	if diffs == 0 {
		fmt.Println("  (none)")
	}
}
