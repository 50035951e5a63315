// collect-enrich walks a tree of docking enrichment runs, scrapes AUC and
// logAUC statistics out of each receptor directory, and writes a long-form
// summary plus per-statistic pivot tables at the root of the tree.
package main

import (
	"fmt"

	"github.com/lyulab/benchmarking-af3/cmd/util"
	"github.com/lyulab/benchmarking-af3/enrich"
)

func init() {
	util.FlagParse("results-dir", "")
	util.AssertNArg(1)
}

func main() {
	root := util.Arg(0)
	util.AssertIsDir(root)

	rows, err := enrich.Collect(root)
	util.Assert(err, "Could not scan '%s'", root)

	summary, err := enrich.WriteSummary(root, rows)
	util.Assert(err, "Could not write summary")
	fmt.Printf("Wrote %s with %d rows.\n", summary, len(rows))

	util.Assert(enrich.WritePivots(root, rows), "Could not write pivot tables")
}
