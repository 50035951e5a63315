package enrich

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gocarina/gocsv"
)

// WriteSummary writes the long-form auc_summary.csv into root and returns
// its path.
func WriteSummary(root string, rows []Row) (string, error) {
	fp := filepath.Join(root, "auc_summary.csv")
	f, err := os.Create(fp)
	if err != nil {
		return "", err
	}
	err = gocsv.MarshalFile(&rows, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", err
	}
	return fp, nil
}

// A cell aggregates the observations for one (metric, receptor) pair.
type cell struct {
	aucSum, logAucSum float64
	aucN, logAucN     int
	ligands, decoys   int
}

// WritePivots writes pivot_auc.csv, pivot_log_auc.csv, pivot_n_ligands.csv
// and pivot_n_decoys.csv into root. Rows are receptors, columns are metrics,
// both in sorted order. AUC values average across repeated observations and
// counts take the maximum; pairs never observed are left as empty cells.
func WritePivots(root string, rows []Row) error {
	cells := make(map[string]map[string]*cell)
	metricSet := make(map[string]bool)
	for _, row := range rows {
		metricSet[row.Metric] = true
		byMetric := cells[row.RecpName]
		if byMetric == nil {
			byMetric = make(map[string]*cell)
			cells[row.RecpName] = byMetric
		}
		c := byMetric[row.Metric]
		if c == nil {
			c = &cell{}
			byMetric[row.Metric] = c
		}
		if row.AUC != nil {
			c.aucSum += *row.AUC
			c.aucN++
		}
		if row.LogAUC != nil {
			c.logAucSum += *row.LogAUC
			c.logAucN++
		}
		c.ligands = max(c.ligands, row.NumLigands)
		c.decoys = max(c.decoys, row.NumDecoys)
	}

	recps := make([]string, 0, len(cells))
	for recp := range cells {
		recps = append(recps, recp)
	}
	sort.Strings(recps)
	metrics := make([]string, 0, len(metricSet))
	for metric := range metricSet {
		metrics = append(metrics, metric)
	}
	sort.Strings(metrics)

	pivots := []struct {
		name  string
		value func(*cell) string
	}{
		{"pivot_auc.csv", func(c *cell) string {
			if c.aucN == 0 {
				return ""
			}
			return fmt.Sprintf("%.6g", c.aucSum/float64(c.aucN))
		}},
		{"pivot_log_auc.csv", func(c *cell) string {
			if c.logAucN == 0 {
				return ""
			}
			return fmt.Sprintf("%.6g", c.logAucSum/float64(c.logAucN))
		}},
		{"pivot_n_ligands.csv", func(c *cell) string {
			return fmt.Sprintf("%d", c.ligands)
		}},
		{"pivot_n_decoys.csv", func(c *cell) string {
			return fmt.Sprintf("%d", c.decoys)
		}},
	}
	for _, pivot := range pivots {
		fp := filepath.Join(root, pivot.name)
		if err := writePivot(fp, recps, metrics, cells, pivot.value); err != nil {
			return err
		}
	}
	return nil
}

func writePivot(
	fp string, recps, metrics []string, cells map[string]map[string]*cell,
	value func(*cell) string) error {

	f, err := os.Create(fp)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)

	header := append([]string{"recp_name"}, metrics...)
	err = w.Write(header)
	for _, recp := range recps {
		if err != nil {
			break
		}
		record := make([]string, 0, len(header))
		record = append(record, recp)
		for _, metric := range metrics {
			c := cells[recp][metric]
			if c == nil {
				record = append(record, "")
			} else {
				record = append(record, value(c))
			}
		}
		err = w.Write(record)
	}
	if err == nil {
		w.Flush()
		err = w.Error()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
