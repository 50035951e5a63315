package enrich

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"
)

// Patterns for the pocket alignment section of an apoc run and for DockRMSD
// output. All captured values stay strings: a metric an external tool did
// not report is an empty cell, not a zero.
var (
	apocRMSDPat  = regexp.MustCompile(`RMSD\s*=\s*([0-9]*\.?[0-9]+)`)
	apocSeqIdPat = regexp.MustCompile(`Seq identity\s*=\s*([0-9]*\.?[0-9]+)`)
	apocScorePat = regexp.MustCompile(`PS-score\s*=\s*([0-9]*\.?[0-9]+)`)
	dockRMSDPat  = regexp.MustCompile(`Calculated Docking RMSD:\s*([0-9.]+)`)
)

// Metrics is the per-complex record of external pocket comparison tools.
type Metrics struct {
	ComplexName     string `csv:"complex_name"`
	ApocPocketRMSD  string `csv:"apoc_pocket"`
	ApocSeqIdentity string `csv:"apoc_seq_identity"`
	ApocPSScore     string `csv:"apoc_ps_score"`
	DockRMSD        string `csv:"dockrmsd_pocket"`
}

// ReadComplexMetrics scrapes apoc_output.txt and dockrmsd_pocket_output.txt
// in a complex directory. Missing files and missing sections yield empty
// fields, never errors.
func ReadComplexMetrics(dir, name string) Metrics {
	m := Metrics{ComplexName: name}

	if bs, err := os.ReadFile(
		filepath.Join(dir, "apoc_output.txt")); err == nil {
		// Only the pocket alignment section counts; the global alignment
		// earlier in the file reports the same metric names.
		text := string(bs)
		if idx := strings.Index(text, "Pocket alignment"); idx >= 0 {
			section := text[idx:]
			m.ApocPocketRMSD = firstGroup(apocRMSDPat, section)
			m.ApocSeqIdentity = firstGroup(apocSeqIdPat, section)
			m.ApocPSScore = firstGroup(apocScorePat, section)
		}
	}
	if bs, err := os.ReadFile(
		filepath.Join(dir, "dockrmsd_pocket_output.txt")); err == nil {
		m.DockRMSD = firstGroup(dockRMSDPat, string(bs))
	}
	return m
}

func firstGroup(pat *regexp.Regexp, text string) string {
	if m := pat.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// WriteMetricsDat persists one complex's metrics as the single comma joined
// line of its metrics.dat file.
func WriteMetricsDat(dir string, m Metrics) error {
	line := strings.Join([]string{
		m.ComplexName, m.ApocPocketRMSD, m.ApocSeqIdentity,
		m.ApocPSScore, m.DockRMSD,
	}, ",")
	return os.WriteFile(filepath.Join(dir, "metrics.dat"), []byte(line), 0666)
}

// CollectMetrics reads the metrics.dat file of every subdirectory of base,
// in sorted order. Subdirectories without one, and lines with the wrong
// field count, are skipped.
func CollectMetrics(base string) ([]Metrics, error) {
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var all []Metrics
	for _, name := range names {
		bs, err := os.ReadFile(filepath.Join(base, name, "metrics.dat"))
		if err != nil {
			continue
		}
		fields := strings.Split(strings.TrimSpace(string(bs)), ",")
		if len(fields) != 5 {
			continue
		}
		all = append(all, Metrics{
			ComplexName:     fields[0],
			ApocPocketRMSD:  fields[1],
			ApocSeqIdentity: fields[2],
			ApocPSScore:     fields[3],
			DockRMSD:        fields[4],
		})
	}
	return all, nil
}

// WriteAllMetrics writes the combined all_metrics.csv into base and returns
// its path.
func WriteAllMetrics(base string, all []Metrics) (string, error) {
	fp := filepath.Join(base, "all_metrics.csv")
	f, err := os.Create(fp)
	if err != nil {
		return "", err
	}
	err = gocsv.MarshalFile(&all, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", err
	}
	return fp, nil
}
