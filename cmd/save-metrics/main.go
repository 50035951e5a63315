// save-metrics scrapes the apoc and DockRMSD output files of every complex
// directory, writes each complex's metrics.dat, and combines them all into
// one all_metrics.csv.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lyulab/benchmarking-af3/cmd/util"
	"github.com/lyulab/benchmarking-af3/enrich"
)

var flagDir = "finished_outputs"

func init() {
	flag.StringVar(&flagDir, "dir", flagDir,
		"The directory containing one subdirectory per complex.")
	util.FlagParse("", "")
	util.AssertNArg(0)
}

func main() {
	util.AssertIsDir(flagDir)
	entries, err := os.ReadDir(flagDir)
	util.Assert(err, "Could not read directory '%s'", flagDir)

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(flagDir, entry.Name())
		m := enrich.ReadComplexMetrics(dir, entry.Name())
		util.Warning(enrich.WriteMetricsDat(dir, m),
			"Could not write metrics for '%s'", entry.Name())
	}

	all, err := enrich.CollectMetrics(flagDir)
	util.Assert(err, "Could not collect metrics under '%s'", flagDir)
	out, err := enrich.WriteAllMetrics(flagDir, all)
	util.Assert(err, "Could not write combined metrics")
	fmt.Printf("Wrote %s with %d rows.\n", out, len(all))
}
