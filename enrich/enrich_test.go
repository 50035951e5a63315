package enrich

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTree(t *testing.T) string {
	root := t.TempDir()
	write := func(parts ...string) {
		fp := filepath.Join(
			append([]string{root}, parts[:len(parts)-1]...)...)
		if err := os.MkdirAll(filepath.Dir(fp), 0777); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(fp, []byte(parts[len(parts)-1]), 0666); err != nil {
			t.Fatal(err)
		}
	}

	write("metricA", "recp1", "split.csv", "id,score\n")
	write("metricA", "recp1", "roc_own.txt",
		"# ROC curve\n# AUC = 0.75, logAUC = 0.31\n0.0 0.0\n1.0 1.0\n")
	write("metricA", "recp1", "ligands.name", "lig1\nlig2\nlig3\n")
	write("metricA", "recp1", "decoys.name", "d1\nd2\nd3\nd4\nd5\n")

	write("metricA", "recp2", "split.csv", "id,score\n")
	write("metricA", "recp2", "enrich.out", "final ROC: 0.5 over 100 mols\n")

	write("metricB", "recp1", "split.csv", "id,score\n")
	return root
}

func TestCollect(t *testing.T) {
	root := writeTree(t)
	rows, err := Collect(root)
	if err != nil {
		t.Fatalf("Collect: %s", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Got %d rows, want 3.", len(rows))
	}

	r := rows[0]
	if r.Metric != "metricA" || r.RecpName != "recp1" {
		t.Fatalf("First row is %s/%s.", r.Metric, r.RecpName)
	}
	if r.AUC == nil || *r.AUC != 0.75 {
		t.Errorf("AUC: got %v, want 0.75.", r.AUC)
	}
	if r.LogAUC == nil || *r.LogAUC != 0.31 {
		t.Errorf("LogAUC: got %v, want 0.31.", r.LogAUC)
	}
	if r.NumLigands != 3 || r.NumDecoys != 5 {
		t.Errorf("Counts: got %d/%d, want 3/5.", r.NumLigands, r.NumDecoys)
	}
	if r.SourceFile != "roc_own.txt" {
		t.Errorf("SourceFile: got %q.", r.SourceFile)
	}

	r = rows[1]
	if r.RecpName != "recp2" || r.SourceFile != "enrich.out" {
		t.Fatalf("Second row is %s from %q.", r.RecpName, r.SourceFile)
	}
	if r.AUC == nil || *r.AUC != 0.5 || r.LogAUC != nil {
		t.Errorf("Fallback AUC: got %v and %v.", r.AUC, r.LogAUC)
	}

	r = rows[2]
	if r.Metric != "metricB" || r.AUC != nil || r.SourceFile != "" {
		t.Errorf("Statless receptor row: %+v.", r)
	}
}

func TestWriteSummaryAndPivots(t *testing.T) {
	root := writeTree(t)
	rows, err := Collect(root)
	if err != nil {
		t.Fatalf("Collect: %s", err)
	}

	summary, err := WriteSummary(root, rows)
	if err != nil {
		t.Fatalf("WriteSummary: %s", err)
	}
	bs, err := os.ReadFile(summary)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(bs)), "\n")
	if len(lines) != 4 {
		t.Fatalf("Summary has %d lines, want header plus 3.", len(lines))
	}
	wantHeader := "metric,recp_name,auc,log_auc,n_ligands,n_decoys," +
		"source_file,recp_path"
	if lines[0] != wantHeader {
		t.Errorf("Header: got %q.", lines[0])
	}
	if !strings.HasPrefix(lines[1],
		"metricA,recp1,0.75,0.31,3,5,roc_own.txt,") {
		t.Errorf("First data row: got %q.", lines[1])
	}

	if err := WritePivots(root, rows); err != nil {
		t.Fatalf("WritePivots: %s", err)
	}
	bs, err = os.ReadFile(filepath.Join(root, "pivot_auc.csv"))
	if err != nil {
		t.Fatal(err)
	}
	want := "recp_name,metricA,metricB\nrecp1,0.75,\nrecp2,0.5,\n"
	if string(bs) != want {
		t.Errorf("pivot_auc.csv:\ngot %q\nwant %q", string(bs), want)
	}

	bs, err = os.ReadFile(filepath.Join(root, "pivot_n_ligands.csv"))
	if err != nil {
		t.Fatal(err)
	}
	want = "recp_name,metricA,metricB\nrecp1,3,0\nrecp2,0,\n"
	if string(bs) != want {
		t.Errorf("pivot_n_ligands.csv:\ngot %q\nwant %q", string(bs), want)
	}
}

func TestCollectMissingRoot(t *testing.T) {
	fp := filepath.Join(t.TempDir(), "nonexistent")
	if _, err := Collect(fp); err == nil {
		t.Error("An unreadable root should be an error.")
	}
}

func TestCollectToleratesUnreadableSubtree(t *testing.T) {
	root := writeTree(t)
	locked := filepath.Join(root, "metricC", "locked")
	if err := os.MkdirAll(locked, 0777); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(locked, 0); err != nil {
		t.Fatal(err)
	}
	defer os.Chmod(locked, 0777)

	// Readable receptors still come back even when a subtree cannot be
	// descended into.
	rows, err := Collect(root)
	if err != nil {
		t.Fatalf("Collect: %s", err)
	}
	if len(rows) < 3 {
		t.Errorf("Got %d rows, want the 3 readable receptors.", len(rows))
	}
}
