package pdb

import (
	"fmt"

	"github.com/TuftsBCB/seq"
	"github.com/TuftsBCB/structure"
)

// Entry represents all information known about a particular structure file
// (that has been implemented in this package).
//
// An entry is a file path, an id code and an ordered list of chains. Only the
// first model of a multi-model file is read; the order of chains, residues
// and atoms always corresponds to the order of records in the file.
type Entry struct {
	Path   string
	IdCode string
	Chains []*Chain
}

// Chain represents a protein chain or subunit in a structure file. PDB files
// use single character identifiers, but mmCIF files may use longer strings,
// so identifiers are stored as strings.
type Chain struct {
	Entry    *Entry
	Ident    string
	Residues []*Residue
}

// Residue represents a single residue group from the structure. Its identity
// within a chain is the (sequence number, insertion code) pair; residues are
// allocated exactly once per load, so a *Residue is usable directly as a map
// key with identity semantics.
type Residue struct {
	Chain         *Chain
	Name3         string      // upper case three-letter residue name
	Name          seq.Residue // one-letter abbreviation, 'X' when unknown
	SequenceNum   int
	InsertionCode byte
	Het           bool
	Atoms         []*Atom
}

// Atom represents a single ATOM or HETATM record.
type Atom struct {
	Residue   *Residue
	Serial    int
	Name      string
	Element   string
	Occupancy float64
	BFactor   float64
	structure.Coords
}

// Chain looks for the chain with identifier ident and returns it. 'nil' is
// returned if the chain could not be found.
func (e *Entry) Chain(ident string) *Chain {
	for _, chain := range e.Chains {
		if chain.Ident == ident {
			return chain
		}
	}
	return nil
}

// Residues returns all residues of the entry in structural order.
func (e *Entry) Residues() []*Residue {
	rs := make([]*Residue, 0, 100)
	for _, chain := range e.Chains {
		rs = append(rs, chain.Residues...)
	}
	return rs
}

// getOrMakeChain looks for a chain in the 'Chains' slice corresponding to the
// chain identifier. If one exists, it is returned. If one doesn't exist,
// it is created, memory is allocated and it is returned.
func (e *Entry) getOrMakeChain(ident string) *Chain {
	if len(ident) == 0 || ident == " " {
		ident = "_"
	}
	chain := e.Chain(ident)
	if chain != nil {
		return chain
	}
	newChain := &Chain{
		Entry:    e,
		Ident:    ident,
		Residues: make([]*Residue, 0, 25),
	}
	e.Chains = append(e.Chains, newChain)
	return newChain
}

// getOrMakeResidue returns the residue in this chain with the given identity,
// creating it when necessary. Since records belonging to one residue are
// contiguous in both formats, only the most recently added residue is
// inspected before allocating a new one.
func (c *Chain) getOrMakeResidue(
	name3 string, seqNum int, icode byte, het bool) *Residue {

	if last := len(c.Residues) - 1; last >= 0 {
		r := c.Residues[last]
		if r.SequenceNum == seqNum && r.InsertionCode == icode &&
			r.Name3 == name3 {
			return r
		}
	}
	r := &Residue{
		Chain:         c,
		Name3:         name3,
		Name:          AminoAbbrev(name3),
		SequenceNum:   seqNum,
		InsertionCode: icode,
		Het:           het,
		Atoms:         make([]*Atom, 0, 4),
	}
	c.Residues = append(c.Residues, r)
	return r
}

// IsAminoAcid returns true when the residue is a standard polymer amino acid:
// an ATOM group whose three-letter name is in the translation table. HETATM
// groups (ligands, waters, ions) are never amino acids here, even when their
// name collides with one.
func (r *Residue) IsAminoAcid() bool {
	_, ok := aminoMap[r.Name3]
	return !r.Het && ok
}

// Label returns the residue name concatenated with its sequence number,
// e.g. "ALA12". This is the form used in mapping reports.
func (r *Residue) Label() string {
	return fmt.Sprintf("%s%d", r.Name3, r.SequenceNum)
}

func (r *Residue) String() string {
	return fmt.Sprintf("%s %s%d", r.Chain.Ident, r.Name3, r.SequenceNum)
}

func (a *Atom) String() string {
	return fmt.Sprintf("(%d, %s, %s, [%0.3f %0.3f %0.3f])",
		a.Serial, a.Name, a.Residue.Name3, a.X, a.Y, a.Z)
}
