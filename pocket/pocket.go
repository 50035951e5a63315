// Package pocket locates ligand binding pockets on reference structures and
// transfers them onto predicted models through sequence alignment.
package pocket

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lyulab/benchmarking-af3/pdb"
)

// ErrLigandNotFound is wrapped by errors returned when the target ligand
// residue name does not occur anywhere in a structure.
var ErrLigandNotFound = errors.New("ligand not found")

// DefaultCutoff is the default pocket distance threshold in Angstroms.
const DefaultCutoff = 5.0

// A Set is a collection of residues keyed by identity: two residues sharing
// a name and number on different chains are distinct members.
type Set map[*pdb.Residue]bool

// Stats summarizes a pocket search on a reference structure.
type Stats struct {
	LigandAtoms    int
	PocketResidues int
	Chains         []string // identifiers of chains contributing residues
}

// Find returns the set of standard amino acid residues having at least one
// atom within cutoff of at least one atom belonging to a residue named
// ligand. The result is a set union over independent radius queries, so it
// does not depend on the order ligand atoms are visited in.
func Find(entry *pdb.Entry, ligand string, cutoff float64) (Set, Stats, error) {
	ligand = strings.ToUpper(ligand)

	var latoms []*pdb.Atom
	for _, residue := range entry.Residues() {
		if residue.Name3 == ligand {
			latoms = append(latoms, residue.Atoms...)
		}
	}
	stats := Stats{LigandAtoms: len(latoms)}
	if len(latoms) == 0 {
		return nil, stats, fmt.Errorf("%w: no residue named '%s' in '%s'",
			ErrLigandNotFound, ligand, entry.Path)
	}

	ns := newNeighbors(entry)
	pocket := make(Set, 40)
	chains := make(map[string]bool, 2)
	for _, latom := range latoms {
		for _, natom := range ns.within(latom, cutoff) {
			residue := natom.Residue
			if residue.IsAminoAcid() {
				pocket[residue] = true
				chains[residue.Chain.Ident] = true
			}
		}
	}

	stats.PocketResidues = len(pocket)
	stats.Chains = sortedKeys(chains)
	return pocket, stats, nil
}

// Contains returns a residue filter suitable for pdb.Write.
func (s Set) Contains(r *pdb.Residue) bool { return s[r] }

// Residues returns the members of the set ordered by chain identifier, then
// sequence number, then insertion code.
func (s Set) Residues() []*pdb.Residue {
	rs := make([]*pdb.Residue, 0, len(s))
	for r := range s {
		rs = append(rs, r)
	}
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].Chain.Ident != rs[j].Chain.Ident {
			return rs[i].Chain.Ident < rs[j].Chain.Ident
		}
		if rs[i].SequenceNum != rs[j].SequenceNum {
			return rs[i].SequenceNum < rs[j].SequenceNum
		}
		return rs[i].InsertionCode < rs[j].InsertionCode
	})
	return rs
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
