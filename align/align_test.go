package align

import (
	"errors"
	"testing"

	"github.com/TuftsBCB/seq"
)

func residues(s string) []seq.Residue {
	rs := make([]seq.Residue, len(s))
	for i := 0; i < len(s); i++ {
		rs[i] = seq.Residue(s[i])
	}
	return rs
}

func TestGlobalIdentity(t *testing.T) {
	A := residues("HEAGAWGHEE")
	aln, err := Global(A, A)
	if err != nil {
		t.Fatalf("Global: %s", err)
	}
	want := Block{0, len(A), 0, len(A)}
	if len(aln.Blocks) != 1 || aln.Blocks[0] != want {
		t.Fatalf("Blocks: got %v, want [%v].", aln.Blocks, want)
	}

	mapping := aln.IndexMap()
	if len(mapping) != len(A) {
		t.Fatalf("IndexMap has %d entries, want %d.", len(mapping), len(A))
	}
	for i := 0; i < len(A); i++ {
		if mapping[i] != i {
			t.Errorf("IndexMap[%d] = %d, want %d.", i, mapping[i], i)
		}
	}
	if id := aln.Identity(A, A); id != 1 {
		t.Errorf("Identity of a self alignment: got %f, want 1.", id)
	}
}

func TestGlobalMismatchStaysInBlock(t *testing.T) {
	A, B := residues("AAAA"), residues("AATA")
	aln, err := Global(A, B)
	if err != nil {
		t.Fatalf("Global: %s", err)
	}
	// A substitution column is not a gap, so the block stays whole.
	want := Block{0, 4, 0, 4}
	if len(aln.Blocks) != 1 || aln.Blocks[0] != want {
		t.Fatalf("Blocks: got %v, want [%v].", aln.Blocks, want)
	}
	if id := aln.Identity(A, B); id != 0.75 {
		t.Errorf("Identity: got %f, want 0.75.", id)
	}
}

func TestGlobalAffineGap(t *testing.T) {
	A, B := residues("ACDEFGHIK"), residues("ACDGHIK")
	aln, err := Global(A, B)
	if err != nil {
		t.Fatalf("Global: %s", err)
	}

	want := []Block{{0, 3, 0, 3}, {5, 9, 3, 7}}
	if len(aln.Blocks) != 2 ||
		aln.Blocks[0] != want[0] || aln.Blocks[1] != want[1] {
		t.Fatalf("Blocks: got %v, want %v.", aln.Blocks, want)
	}

	// Seven identities plus one two-residue gap: the first gap residue
	// costs the open penalty, the second costs the extend penalty.
	wantScore := 4.0 + 9 + 6 + 6 + 8 + 4 + 5 + GapOpen + GapExtend
	if aln.Score != wantScore {
		t.Errorf("Score: got %f, want %f.", aln.Score, wantScore)
	}

	mapping := aln.IndexMap()
	if len(mapping) != 7 {
		t.Fatalf("IndexMap has %d entries, want 7.", len(mapping))
	}
	for _, pair := range [][2]int{{0, 0}, {2, 2}, {5, 3}, {8, 6}} {
		if got := mapping[pair[0]]; got != pair[1] {
			t.Errorf("IndexMap[%d] = %d, want %d.", pair[0], got, pair[1])
		}
	}
	// Gapped positions are absent entirely.
	for _, i := range []int{3, 4} {
		if _, ok := mapping[i]; ok {
			t.Errorf("Position %d fell in a gap and should be unmapped.", i)
		}
	}
}

func TestGlobalEmpty(t *testing.T) {
	if _, err := Global(nil, residues("ACD")); !errors.Is(err, ErrNoAlignment) {
		t.Errorf("Empty A: got %v, want ErrNoAlignment.", err)
	}
	if _, err := Global(residues("ACD"), nil); !errors.Is(err, ErrNoAlignment) {
		t.Errorf("Empty B: got %v, want ErrNoAlignment.", err)
	}
}

func TestIndexMapTruncation(t *testing.T) {
	// An aligner reporting ragged blocks maps only the shorter side.
	aln := Alignment{Blocks: []Block{{0, 5, 10, 13}}}
	mapping := aln.IndexMap()
	if len(mapping) != 3 {
		t.Fatalf("IndexMap has %d entries, want 3.", len(mapping))
	}
	for i := 0; i < 3; i++ {
		if mapping[i] != 10+i {
			t.Errorf("IndexMap[%d] = %d, want %d.", i, mapping[i], 10+i)
		}
	}
}

func TestSubstScore(t *testing.T) {
	tests := []struct {
		a, b seq.Residue
		want float64
	}{
		{'A', 'A', 4},
		{'W', 'W', 11},
		{'A', 'W', -3},
		{'W', 'A', -3},
		{'?', 'A', 0},  // unknowns score as X
		{'J', 'J', -1}, // non-standard letters collapse to X as well
	}
	for _, test := range tests {
		if got := substScore(test.a, test.b); got != test.want {
			t.Errorf("substScore(%c, %c): got %f, want %f.",
				test.a, test.b, got, test.want)
		}
	}
}
