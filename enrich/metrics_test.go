package enrich

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var apocOutput = `>>>>>>>>>>>>>>>>>>>>>>>>>   Global alignment   <<<<<<<<<<<<<<<<<<<<<<<<<
PS-score = 0.12345, P-value = 1.0E-2
RMSD =  4.21, Seq identity = 0.10

>>>>>>>>>>>>>>>>>>>>>>>>>   Pocket alignment   <<<<<<<<<<<<<<<<<<<<<<<<<
PS-score = 0.80123, P-value = 3.2E-5
Number of aligned residues = 24
RMSD =  1.23, Seq identity = 0.95
`

func TestReadComplexMetrics(t *testing.T) {
	dir := t.TempDir()
	write := func(name, text string) {
		fp := filepath.Join(dir, name)
		if err := os.WriteFile(fp, []byte(text), 0666); err != nil {
			t.Fatal(err)
		}
	}
	write("apoc_output.txt", apocOutput)
	write("dockrmsd_pocket_output.txt",
		"Total of 42 atoms\nCalculated Docking RMSD: 2.507\n")

	m := ReadComplexMetrics(dir, "1abc_LIG")
	if m.ComplexName != "1abc_LIG" {
		t.Errorf("ComplexName: got %q.", m.ComplexName)
	}
	// Values come from the pocket section, not the global one.
	if m.ApocPocketRMSD != "1.23" || m.ApocSeqIdentity != "0.95" ||
		m.ApocPSScore != "0.80123" {
		t.Errorf("apoc metrics: got %q/%q/%q.",
			m.ApocPocketRMSD, m.ApocSeqIdentity, m.ApocPSScore)
	}
	if m.DockRMSD != "2.507" {
		t.Errorf("DockRMSD: got %q.", m.DockRMSD)
	}
}

func TestReadComplexMetricsMissing(t *testing.T) {
	m := ReadComplexMetrics(t.TempDir(), "1abc_LIG")
	if m.ApocPocketRMSD != "" || m.ApocSeqIdentity != "" ||
		m.ApocPSScore != "" || m.DockRMSD != "" {
		t.Errorf("Missing tool output should leave empty fields: %+v.", m)
	}

	// An apoc file with no pocket section yields nothing either.
	dir := t.TempDir()
	text := "Global alignment\nRMSD = 4.21, Seq identity = 0.10\n"
	fp := filepath.Join(dir, "apoc_output.txt")
	if err := os.WriteFile(fp, []byte(text), 0666); err != nil {
		t.Fatal(err)
	}
	m = ReadComplexMetrics(dir, "1abc_LIG")
	if m.ApocPocketRMSD != "" {
		t.Errorf("No pocket section, but got RMSD %q.", m.ApocPocketRMSD)
	}
}

func TestCollectAndWriteAllMetrics(t *testing.T) {
	base := t.TempDir()
	for _, name := range []string{"2xyz_ATP", "1abc_LIG"} {
		dir := filepath.Join(base, name)
		if err := os.Mkdir(dir, 0777); err != nil {
			t.Fatal(err)
		}
		m := Metrics{ComplexName: name, ApocPocketRMSD: "1.23",
			ApocSeqIdentity: "0.95", ApocPSScore: "0.80", DockRMSD: "2.50"}
		if err := WriteMetricsDat(dir, m); err != nil {
			t.Fatalf("WriteMetricsDat: %s", err)
		}
	}
	// A directory without metrics.dat and a malformed one are skipped.
	if err := os.Mkdir(filepath.Join(base, "empty"), 0777); err != nil {
		t.Fatal(err)
	}
	badDir := filepath.Join(base, "bad")
	if err := os.Mkdir(badDir, 0777); err != nil {
		t.Fatal(err)
	}
	fp := filepath.Join(badDir, "metrics.dat")
	if err := os.WriteFile(fp, []byte("only,three,fields"), 0666); err != nil {
		t.Fatal(err)
	}

	all, err := CollectMetrics(base)
	if err != nil {
		t.Fatalf("CollectMetrics: %s", err)
	}
	if len(all) != 2 {
		t.Fatalf("Got %d records, want 2.", len(all))
	}
	// Directory order is sorted, so 1abc comes first.
	if all[0].ComplexName != "1abc_LIG" || all[1].ComplexName != "2xyz_ATP" {
		t.Errorf("Order: got %s then %s.",
			all[0].ComplexName, all[1].ComplexName)
	}

	out, err := WriteAllMetrics(base, all)
	if err != nil {
		t.Fatalf("WriteAllMetrics: %s", err)
	}
	bs, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(bs)), "\n")
	wantHeader := "complex_name,apoc_pocket,apoc_seq_identity," +
		"apoc_ps_score,dockrmsd_pocket"
	if len(lines) != 3 || lines[0] != wantHeader {
		t.Fatalf("all_metrics.csv: got %q.", lines)
	}
	if lines[1] != "1abc_LIG,1.23,0.95,0.80,2.50" {
		t.Errorf("First record: got %q.", lines[1])
	}
}
