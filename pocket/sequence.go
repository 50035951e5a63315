package pocket

import (
	"log"

	"github.com/TuftsBCB/seq"

	"github.com/lyulab/benchmarking-af3/pdb"
)

// A Record pairs a one-letter protein sequence with the residues backing it.
// The sequence and the residue list always have the same length, and
// position i of one corresponds to position i of the other.
type Record struct {
	Seq      seq.Sequence
	Residues []*pdb.Residue
}

// Empty returns true when the record holds no residues.
func (rec Record) Empty() bool { return len(rec.Residues) == 0 }

// ExtractSequence builds the sequence record for the chain with the given
// identifier, or for every chain concatenated in structural order when the
// identifier is empty. Only polymer (non-HETATM) residues take part.
// Residues with a name outside the translation table become 'X' and emit
// one diagnostic notice each; they are kept, not dropped, so positions in
// the sequence keep lining up with the structure.
func ExtractSequence(entry *pdb.Entry, ident string) Record {
	var residues []*pdb.Residue
	if ident == "" {
		residues = entry.Residues()
	} else {
		chain := entry.Chain(ident)
		if chain == nil {
			return Record{Seq: seq.Sequence{Name: ident}}
		}
		residues = chain.Residues
	}

	rec := Record{
		Seq: seq.Sequence{
			Name:     ident,
			Residues: make([]seq.Residue, 0, len(residues)),
		},
		Residues: make([]*pdb.Residue, 0, len(residues)),
	}
	for _, residue := range residues {
		if residue.Het {
			continue
		}
		if residue.Name == 'X' {
			log.Printf("warning: non-standard residue %s in chain %s",
				residue.Label(), residue.Chain.Ident)
		}
		rec.Seq.Residues = append(rec.Seq.Residues, residue.Name)
		rec.Residues = append(rec.Residues, residue)
	}
	return rec
}
