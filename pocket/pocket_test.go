package pocket

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/lyulab/benchmarking-af3/pdb"
)

// atomLine builds one fixed-column ATOM or HETATM record with a carbon atom.
func atomLine(
	record string, name, res3, chain string, seqNum int,
	x, y, z float64) string {

	atomName := name
	if len(atomName) < 4 {
		atomName = fmt.Sprintf(" %-3s", atomName)
	}
	return fmt.Sprintf(
		"%-6s%5d %-4s %3s %1s%4d    %8.3f%8.3f%8.3f%6.2f%6.2f           C\n",
		record, 1, atomName, res3, chain, seqNum, x, y, z, 1.0, 20.0)
}

// testComplex is a two chain protein with a ligand: chain A residues at
// x = 0..2, a far away chain B residue, and a LIG atom at x = 0.5.
func testComplex(t *testing.T) *pdb.Entry {
	text := atomLine("ATOM", "CA", "MET", "A", 1, 0, 0, 0) +
		atomLine("ATOM", "CA", "ALA", "A", 2, 1, 0, 0) +
		atomLine("ATOM", "CA", "CYS", "A", 3, 2, 0, 0) +
		atomLine("ATOM", "CA", "GLY", "B", 1, 100, 0, 0) +
		atomLine("HETATM", "C1", "LIG", "L", 90, 0.5, 0, 0) +
		"END\n"
	entry, err := pdb.Read(strings.NewReader(text))
	if err != nil {
		t.Fatalf("Read: %s", err)
	}
	return entry
}

func labels(s Set) []string {
	var ls []string
	for _, r := range s.Residues() {
		ls = append(ls, r.Chain.Ident+" "+r.Label())
	}
	return ls
}

func TestFind(t *testing.T) {
	entry := testComplex(t)
	pocket, stats, err := Find(entry, "LIG", 1.0)
	if err != nil {
		t.Fatalf("Find: %s", err)
	}
	if stats.LigandAtoms != 1 {
		t.Errorf("LigandAtoms: got %d, want 1.", stats.LigandAtoms)
	}

	got := labels(pocket)
	want := []string{"A MET1", "A ALA2"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("Pocket: got %v, want %v.", got, want)
	}
	if stats.PocketResidues != 2 {
		t.Errorf("PocketResidues: got %d, want 2.", stats.PocketResidues)
	}
	if len(stats.Chains) != 1 || stats.Chains[0] != "A" {
		t.Errorf("Chains: got %v, want [A].", stats.Chains)
	}

	// The ligand itself is never part of its own pocket.
	for r := range pocket {
		if r.Het {
			t.Errorf("HETATM residue %s found in pocket.", r.Label())
		}
	}
}

func TestFindCutoffMonotonic(t *testing.T) {
	entry := testComplex(t)
	small, _, err := Find(entry, "LIG", 0.75)
	if err != nil {
		t.Fatalf("Find: %s", err)
	}
	large, _, err := Find(entry, "LIG", 2.0)
	if err != nil {
		t.Fatalf("Find: %s", err)
	}
	if len(small) >= len(large) {
		t.Fatalf("Growing the cutoff should grow the pocket: %d vs %d.",
			len(small), len(large))
	}
	for r := range small {
		if !large[r] {
			t.Errorf("Residue %s in the smaller pocket is missing from "+
				"the larger one.", r.Label())
		}
	}
}

func TestFindDeterministic(t *testing.T) {
	entry := testComplex(t)
	first, _, err := Find(entry, "LIG", 2.0)
	if err != nil {
		t.Fatalf("Find: %s", err)
	}
	second, _, err := Find(entry, "LIG", 2.0)
	if err != nil {
		t.Fatalf("Find: %s", err)
	}
	f, s := labels(first), labels(second)
	if fmt.Sprint(f) != fmt.Sprint(s) {
		t.Errorf("Two identical searches disagree: %v vs %v.", f, s)
	}
}

func TestFindLigandMissing(t *testing.T) {
	entry := testComplex(t)
	_, _, err := Find(entry, "ZZZ", 5.0)
	if !errors.Is(err, ErrLigandNotFound) {
		t.Errorf("Got %v, want ErrLigandNotFound.", err)
	}
}

func TestExtractSequence(t *testing.T) {
	text := atomLine("ATOM", "CA", "ALA", "A", 1, 0, 0, 0) +
		atomLine("HETATM", "O", "HOH", "A", 50, 1, 0, 0) +
		atomLine("ATOM", "CA", "GLY", "A", 51, 2, 0, 0) +
		atomLine("ATOM", "CA", "XYZ", "A", 52, 3, 0, 0) +
		atomLine("ATOM", "CA", "CYS", "B", 1, 4, 0, 0) +
		"END\n"
	entry, err := pdb.Read(strings.NewReader(text))
	if err != nil {
		t.Fatalf("Read: %s", err)
	}

	rec := ExtractSequence(entry, "A")
	if len(rec.Seq.Residues) != len(rec.Residues) {
		t.Fatalf("Sequence length %d does not match residue count %d.",
			len(rec.Seq.Residues), len(rec.Residues))
	}
	// Waters drop out, the unknown polymer residue stays as X.
	if got := string(seqBytes(rec)); got != "AGX" {
		t.Errorf("Chain A sequence: got %q, want \"AGX\".", got)
	}
	for i, r := range rec.Residues {
		if r.Name != rec.Seq.Residues[i] {
			t.Errorf("Position %d: sequence and residues disagree.", i)
		}
	}

	if rec := ExtractSequence(entry, "Z"); !rec.Empty() {
		t.Error("Missing chain should yield an empty record.")
	}
	if rec := ExtractSequence(entry, ""); string(seqBytes(rec)) != "AGXC" {
		t.Errorf("All chains: got %q, want \"AGXC\".", string(seqBytes(rec)))
	}
}

func seqBytes(rec Record) []byte {
	bs := make([]byte, len(rec.Seq.Residues))
	for i, r := range rec.Seq.Residues {
		bs[i] = byte(r)
	}
	return bs
}
