// Package align implements optimal global pairwise alignment of amino acid
// sequences with BLOSUM62 substitution scoring and affine gap penalties.
package align

import (
	"errors"
	"fmt"
	"math"

	"github.com/TuftsBCB/seq"
)

// Gap penalties match the reference alignment setup: the first residue of a
// gap costs GapOpen and every following residue costs GapExtend.
const (
	GapOpen   = -10
	GapExtend = -0.5
)

// ErrNoAlignment is wrapped by errors returned when no alignment can be
// produced, e.g. when one of the sequences is empty.
var ErrNoAlignment = errors.New("no alignment")

// A Block is a gapless stretch of an alignment: the residues A[ALo:AHi] are
// aligned position-for-position with B[BLo:BHi]. Columns where either side
// is a gap never appear in a block.
type Block struct {
	ALo, AHi int
	BLo, BHi int
}

// An Alignment is the result of a global pairwise alignment: its total score
// and the gapless blocks in order of increasing sequence position.
type Alignment struct {
	Score  float64
	Blocks []Block
}

// Global computes one optimal global alignment of A against B using BLOSUM62
// and affine gap penalties (Needleman-Wunsch with Gotoh's three-state
// recurrence). Ties are broken deterministically: a substitution is
// preferred over a gap in B, which is preferred over a gap in A, both while
// filling the matrix and during traceback.
func Global(A, B []seq.Residue) (Alignment, error) {
	if len(A) == 0 || len(B) == 0 {
		return Alignment{}, fmt.Errorf(
			"%w: sequence lengths %d and %d", ErrNoAlignment, len(A), len(B))
	}

	const (
		stateM  = iota // A[i] aligned with B[j]
		stateGB        // A[i] aligned with a gap in B
		stateGA        // B[j] aligned with a gap in A
	)
	negInf := math.Inf(-1)
	n, m := len(A), len(B)

	// One score and one traceback matrix per state. The traceback value is
	// the state the optimal path came from.
	mat := newMatrix(n+1, m+1, negInf)
	gb := newMatrix(n+1, m+1, negInf)
	ga := newMatrix(n+1, m+1, negInf)
	tbM := newByteMatrix(n+1, m+1)
	tbGB := newByteMatrix(n+1, m+1)
	tbGA := newByteMatrix(n+1, m+1)

	mat[0][0] = 0
	for i := 1; i <= n; i++ {
		gb[i][0] = GapOpen + float64(i-1)*GapExtend
		if i == 1 {
			tbGB[i][0] = stateM
		} else {
			tbGB[i][0] = stateGB
		}
	}
	for j := 1; j <= m; j++ {
		ga[0][j] = GapOpen + float64(j-1)*GapExtend
		if j == 1 {
			tbGA[0][j] = stateM
		} else {
			tbGA[0][j] = stateGA
		}
	}

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			s := substScore(A[i-1], B[j-1])
			mat[i][j], tbM[i][j] = best3(
				mat[i-1][j-1]+s, gb[i-1][j-1]+s, ga[i-1][j-1]+s)
			gb[i][j], tbGB[i][j] = best3(
				mat[i-1][j]+GapOpen, gb[i-1][j]+GapExtend, ga[i-1][j]+GapOpen)
			ga[i][j], tbGA[i][j] = best3(
				mat[i][j-1]+GapOpen, gb[i][j-1]+GapOpen, ga[i][j-1]+GapExtend)
		}
	}

	score, state := best3(mat[n][m], gb[n][m], ga[n][m])
	aln := Alignment{Score: score}

	// Trace the optimal path back to (0, 0), growing the current block on
	// every substitution column and starting a new one after each gap.
	var blocks []Block
	var cur *Block
	i, j := n, m
	for i > 0 || j > 0 {
		switch state {
		case stateM:
			if cur == nil || cur.ALo != i || cur.BLo != j {
				blocks = append(blocks, Block{i, i, j, j})
				cur = &blocks[len(blocks)-1]
			}
			state = tbM[i][j]
			i--
			j--
			cur.ALo, cur.BLo = i, j
		case stateGB:
			state = tbGB[i][j]
			i--
			cur = nil
		default:
			state = tbGA[i][j]
			j--
			cur = nil
		}
	}

	// Blocks were collected back to front.
	for k := len(blocks) - 1; k >= 0; k-- {
		aln.Blocks = append(aln.Blocks, blocks[k])
	}
	return aln, nil
}

// IndexMap converts the alignment blocks into a discrete position map from
// A indices to B indices (both 0-based, ungapped). Within each block,
// positions are mapped one-for-one up to the length of the shorter side;
// an aligner reporting unequal-length blocks is truncated, not rejected.
// Gap columns are never mapped.
func (a Alignment) IndexMap() map[int]int {
	mapping := make(map[int]int, len(a.Blocks)*8)
	for _, b := range a.Blocks {
		length := b.AHi - b.ALo
		if bl := b.BHi - b.BLo; bl < length {
			length = bl
		}
		for k := 0; k < length; k++ {
			mapping[b.ALo+k] = b.BLo + k
		}
	}
	return mapping
}

// Identity returns the fraction of identical aligned residues relative to
// the longer of the two sequences.
func (a Alignment) Identity(A, B []seq.Residue) float64 {
	matches := 0
	for _, b := range a.Blocks {
		length := b.AHi - b.ALo
		if bl := b.BHi - b.BLo; bl < length {
			length = bl
		}
		for k := 0; k < length; k++ {
			if A[b.ALo+k] == B[b.BLo+k] {
				matches++
			}
		}
	}
	longer := len(A)
	if len(B) > longer {
		longer = len(B)
	}
	if longer == 0 {
		return 0
	}
	return float64(matches) / float64(longer)
}

func best3(a, b, c float64) (float64, byte) {
	switch {
	case a >= b && a >= c:
		return a, 0
	case b >= c:
		return b, 1
	}
	return c, 2
}

func newMatrix(rows, cols int, fill float64) [][]float64 {
	cells := make([]float64, rows*cols)
	for i := range cells {
		cells[i] = fill
	}
	m := make([][]float64, rows)
	for i := range m {
		m[i] = cells[i*cols : (i+1)*cols]
	}
	return m
}

func newByteMatrix(rows, cols int) [][]byte {
	cells := make([]byte, rows*cols)
	m := make([][]byte, rows)
	for i := range m {
		m[i] = cells[i*cols : (i+1)*cols]
	}
	return m
}
